// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds database and reconciliation options.
type Config struct {
	// Path to database file. Use ":memory:" for in-memory databases.
	// Persistent paths must be absolute and have a .db extension.
	Path string

	// Schema is the declared schema, in dependency order. Tables named in a
	// foreign key must appear before the tables that reference them.
	Schema []TableDefinition

	// Logger for operational logging. Uses slog.Default() if nil.
	Logger *slog.Logger

	// ProductionEnvVar is the environment variable checked to determine
	// production mode. If the variable equals "production" (case-insensitive),
	// in-memory databases are rejected unless AllowMemoryInProduction is true.
	// Default: "ENV".
	ProductionEnvVar string

	// AllowMemoryInProduction permits :memory: databases when the production
	// environment variable is set. Default: false.
	AllowMemoryInProduction bool

	// SkipReconcile disables automatic reconciliation on Open.
	SkipReconcile bool

	// ReconcileTimeout bounds reconciliation time on Open. Default: 90s.
	ReconcileTimeout time.Duration

	// Debug selects statement logging. See DebugFlags.
	Debug DebugFlags

	// DryRun reports the statements that would be issued without issuing
	// them. Introspection queries still run.
	DryRun bool
}

// defaults returns a copy of cfg with default values applied.
func (cfg Config) defaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ProductionEnvVar == "" {
		cfg.ProductionEnvVar = "ENV"
	}
	if cfg.ReconcileTimeout == 0 {
		cfg.ReconcileTimeout = 90 * time.Second
	}
	return cfg
}

// isProduction returns true if the production environment variable is set.
func (cfg Config) isProduction() bool {
	return strings.EqualFold(os.Getenv(cfg.ProductionEnvVar), "production")
}

// isMemory returns true if Path indicates an in-memory database.
func (cfg Config) isMemory() bool {
	return isMemoryPath(cfg.Path)
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

// Open opens a database and reconciles it against cfg.Schema.
// For in-memory databases, it creates a new database.
// For persistent databases, it opens an existing file (use Create for new files).
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	cfg = cfg.defaults()

	if cfg.isMemory() {
		return openMemory(ctx, cfg)
	}
	return openPersistent(ctx, cfg)
}

// Create creates a new persistent database file and reconciles it.
// Returns an error if the file already exists.
func Create(ctx context.Context, cfg Config) error {
	cfg = cfg.defaults()

	if cfg.isMemory() {
		return fmt.Errorf("Create requires a persistent path, not :memory:")
	}

	if err := validatePersistentPath(cfg.Path); err != nil {
		return err
	}

	if fileExists(cfg.Path) {
		return fmt.Errorf("%s: file already exists", cfg.Path)
	}

	cfg.Logger.Info("creating database", "path", cfg.Path)

	cfg.SkipReconcile = false
	db, err := openAndReconcile(ctx, cfg, persistentPragmas)
	if err != nil {
		return err
	}
	return db.Close()
}

// Plan returns the statements that reconciling cfg.Schema against an
// existing persistent database would issue, without modifying it.
func Plan(ctx context.Context, cfg Config) ([]Result, error) {
	cfg = cfg.defaults()
	cfg.SkipReconcile = true
	cfg.DryRun = true

	if cfg.isMemory() {
		return nil, fmt.Errorf("cannot plan against an in-memory database")
	}

	db, err := openPersistent(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return Apply(ctx, db, cfg)
}

// openMemory opens an in-memory database.
func openMemory(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.isProduction() && !cfg.AllowMemoryInProduction {
		return nil, fmt.Errorf("in-memory database not allowed in production (%s=production)", cfg.ProductionEnvVar)
	}

	cfg.Logger.Info("DB mode: in-memory")
	return openAndReconcile(ctx, cfg, memoryPragmas)
}

// openPersistent opens an existing persistent database.
func openPersistent(ctx context.Context, cfg Config) (*sql.DB, error) {
	if err := validatePersistentPath(cfg.Path); err != nil {
		return nil, err
	}

	if !fileExists(cfg.Path) {
		return nil, fmt.Errorf("%s: database file not found (use Create to make a new database)", cfg.Path)
	}

	cfg.Logger.Info("DB mode: persistent", "path", cfg.Path)
	return openAndReconcile(ctx, cfg, persistentPragmas)
}

// openAndReconcile opens a database with the given pragmas and reconciles
// its schema.
func openAndReconcile(ctx context.Context, cfg Config, pragmas []pragma) (*sql.DB, error) {
	dsn := buildDSN(cfg.Path, pragmas)
	cfg.Logger.Debug("opening database", "driver", driverName, "dsn", dsn)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// Ensure cleanup on error
	success := false
	defer func() {
		if !success {
			db.Close()
		}
	}()

	// The foreign key toggle is per connection, so there must be only one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	if !cfg.SkipReconcile {
		recCtx, cancel := context.WithTimeout(ctx, cfg.ReconcileTimeout)
		defer cancel()

		results, err := Apply(recCtx, db, cfg)
		if err != nil {
			return nil, fmt.Errorf("reconcile: %w", err)
		}
		for _, r := range results {
			if r.Action != ActionUnchanged {
				cfg.Logger.Info("reconciled table", "table", r.Table, "action", string(r.Action), "statements", len(r.Statements))
			}
		}
	}

	success = true
	return db, nil
}

// validatePersistentPath checks that a path is valid for a persistent database.
func validatePersistentPath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s: persistent database path must be absolute", path)
	}
	if filepath.Ext(path) != ".db" {
		return fmt.Errorf("%s: expected .db extension", path)
	}
	if isDirectory(path) {
		return fmt.Errorf("%s: path is a directory", path)
	}
	dir := filepath.Dir(path)
	if !isDirectory(dir) {
		return fmt.Errorf("%s: parent directory does not exist", dir)
	}
	return nil
}

// File system helpers

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() || info.IsDir()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
