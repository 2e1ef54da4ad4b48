// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package cli implements the sqliteschema command tree.
package cli

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mdhender/sqliteschema"
	"github.com/spf13/cobra"
)

// Environment variables consulted when the matching flag is not set.
const (
	EnvDB       = "SQLITESCHEMA_DB"
	EnvSchema   = "SQLITESCHEMA_SCHEMA"
	EnvLogLevel = "LOG_LEVEL"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DB      string
	Schema  string
	Debug   uint
	EnvFile string

	logger *slog.Logger
}

// NewRootCommand creates the root command for the sqliteschema CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqliteschema",
		Short: "Reconcile a SQLite database with a declared schema",
		Long: `Reconcile the tables of a SQLite database with a declared schema.

The schema file is a YAML (or JSON) list of table declarations. Tables are
created, altered in place, or rebuilt as needed, and seed rows are applied.`,
		Version:       sqliteschema.Version().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "database path, or :memory: (env "+EnvDB+")")
	cmd.PersistentFlags().StringVar(&opts.Schema, "schema", "", "schema file, YAML or JSON (env "+EnvSchema+")")
	cmd.PersistentFlags().UintVar(&opts.Debug, "debug", 0, "debug flags: 1=statements 2=queries 4=diff")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "load environment variables from this file (default .env if present)")

	// Add subcommands
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// init loads the environment file, fills unset flags from the environment
// and sets up logging.
func (opts *RootOptions) init(cmd *cobra.Command) error {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return WrapExitError(ExitCommandError, "load env file", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return WrapExitError(ExitCommandError, "load .env", err)
	}

	if opts.DB == "" {
		opts.DB = os.Getenv(EnvDB)
	}
	if opts.Schema == "" {
		opts.Schema = os.Getenv(EnvSchema)
	}
	opts.logger = newLogger(cmd.ErrOrStderr(), os.Getenv(EnvLogLevel))
	return nil
}

// newLogger returns a text logger at the named level (debug, info, warn or
// error). Unknown or empty names log at warn.
func newLogger(w io.Writer, name string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(name) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// dbPath returns the database path from --db, made absolute.
func (opts *RootOptions) dbPath() (string, error) {
	if opts.DB == "" {
		return "", NewExitError(ExitCommandError, "--db (or "+EnvDB+") is required")
	}
	if opts.DB == ":memory:" || strings.HasPrefix(opts.DB, "file::memory:") {
		return opts.DB, nil
	}
	path, err := filepath.Abs(opts.DB)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "--db", err)
	}
	return path, nil
}

// config builds the library configuration. The schema file is loaded only
// when withSchema is set.
func (opts *RootOptions) config(withSchema bool) (sqliteschema.Config, error) {
	path, err := opts.dbPath()
	if err != nil {
		return sqliteschema.Config{}, err
	}
	cfg := sqliteschema.Config{
		Path:   path,
		Logger: opts.logger,
		Debug:  sqliteschema.DebugFlags(opts.Debug),
	}
	if !withSchema {
		return cfg, nil
	}

	if opts.Schema == "" {
		return cfg, NewExitError(ExitCommandError, "--schema (or "+EnvSchema+") is required")
	}
	tables, err := sqliteschema.LoadSchemaFile(os.DirFS(filepath.Dir(opts.Schema)), filepath.Base(opts.Schema))
	if err != nil {
		if errors.Is(err, sqliteschema.ErrInvalidDefinition) {
			return cfg, WrapExitError(ExitFailure, "invalid schema", err)
		}
		return cfg, WrapExitError(ExitCommandError, "load schema", err)
	}
	cfg.Schema = tables
	opts.logger.Debug("loaded schema", "path", opts.Schema, "tables", len(tables))
	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// commandError maps a library error to an exit code.
func commandError(message string, err error) error {
	switch {
	case errors.Is(err, sqliteschema.ErrInvalidDefinition),
		errors.Is(err, sqliteschema.ErrForeignKeyViolation),
		errors.Is(err, sqliteschema.ErrMalformedLiteral):
		return WrapExitError(ExitFailure, message, err)
	}
	return WrapExitError(ExitCommandError, message, err)
}
