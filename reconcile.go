// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DebugFlags selects which statements are logged. The flags never change
// the statements that are generated or issued.
type DebugFlags uint

const (
	// DebugStatements logs every DDL and DML statement.
	DebugStatements DebugFlags = 1 << iota
	// DebugQueries logs every introspection query.
	DebugQueries
	// DebugDiff logs the per-table decision and rewrite reasons.
	DebugDiff

	DebugAll = DebugStatements | DebugQueries | DebugDiff
)

// Action is what reconciliation did to a table.
type Action string

const (
	ActionCreated   Action = "created"
	ActionRewritten Action = "rewritten"
	ActionAltered   Action = "altered"
	ActionUnchanged Action = "unchanged"
)

// Result reports the reconciliation of one table.
type Result struct {
	Table  string
	Action Action
	// Reasons lists why a rewrite was required.
	Reasons []string
	// Statements holds every statement issued for the table, seed data
	// included, in order. The foreign key toggles are not listed.
	Statements []string
}

// Reconcile brings every table in tables into agreement with its
// declaration, one table at a time in the order given. Tables that are
// referenced by foreign keys must come before the tables that reference them.
//
// Reconcile does not begin a transaction; the caller should wrap the run in
// one so that a failure can be rolled back. See Apply.
func Reconcile(ctx context.Context, db Querier, tables []TableDefinition, cfg Config) ([]Result, error) {
	if err := checkQuerier(db); err != nil {
		return nil, err
	}
	cfg = cfg.defaults()

	normalized := make([]TableDefinition, 0, len(tables))
	for _, t := range tables {
		n, err := t.Normalize()
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, n)
	}

	s := &session{db: db, cfg: cfg}
	results := make([]Result, 0, len(normalized))
	for _, t := range normalized {
		res, err := s.reconcileTable(ctx, t)
		if err != nil {
			return results, fmt.Errorf("reconcile %s: %w", t.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// ReconcileTable brings a single table into agreement with its declaration.
func ReconcileTable(ctx context.Context, db Querier, table TableDefinition, cfg Config) (Result, error) {
	results, err := Reconcile(ctx, db, []TableDefinition{table}, cfg)
	if err != nil {
		return Result{Table: table.Name}, err
	}
	return results[0], nil
}

// session carries the querier and configuration through one run.
type session struct {
	db  Querier
	cfg Config
}

func (s *session) query(ctx context.Context, q string) ([]Record, error) {
	if s.cfg.Debug&DebugQueries != 0 {
		s.cfg.Logger.Info("select", "sql", q)
	}
	rows, err := s.db.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", q, err)
	}
	return rows, nil
}

// exec issues a statement and records it in res. In dry-run mode the
// statement is recorded but not issued.
func (s *session) exec(ctx context.Context, res *Result, stmt string) error {
	if s.cfg.Debug&DebugStatements != 0 {
		s.cfg.Logger.Info("execute", "table", res.Table, "sql", stmt, "dry_run", s.cfg.DryRun)
	}
	res.Statements = append(res.Statements, stmt)
	if s.cfg.DryRun {
		return nil
	}
	if err := s.db.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("%s: %w", stmt, err)
	}
	return nil
}

func (s *session) execAll(ctx context.Context, res *Result, stmts []string) error {
	for _, stmt := range stmts {
		if err := s.exec(ctx, res, stmt); err != nil {
			return err
		}
	}
	return nil
}

// foreignKeysEnabled reports the connection's foreign_keys pragma.
func (s *session) foreignKeysEnabled(ctx context.Context) (bool, error) {
	rows, err := s.query(ctx, "PRAGMA foreign_keys")
	if err != nil {
		return false, err
	}
	return len(rows) > 0 && intOf(rows[0]["foreign_keys"]) != 0, nil
}

func (s *session) setForeignKeys(ctx context.Context, on bool) error {
	if s.cfg.DryRun {
		return nil
	}
	stmt := "PRAGMA foreign_keys = OFF"
	if on {
		stmt = "PRAGMA foreign_keys = ON"
	}
	if s.cfg.Debug&DebugStatements != 0 {
		s.cfg.Logger.Info("execute", "sql", stmt)
	}
	if err := s.db.Execute(ctx, stmt); err != nil {
		return fmt.Errorf("%s: %w", stmt, err)
	}
	return nil
}

// restoreTimeout bounds the foreign key restore once the run's own context
// has been cancelled or has expired.
const restoreTimeout = 5 * time.Second

// restoreForeignKeys turns enforcement back on. It ignores cancellation of
// ctx so that a cancelled run still leaves the connection enforcing.
func (s *session) restoreForeignKeys(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()
	if err := s.setForeignKeys(ctx, true); err != nil {
		return fmt.Errorf("restore foreign keys: %w", err)
	}
	return nil
}

// reconcileTable runs one table with foreign key enforcement suspended.
// Enforcement is restored on every return path.
func (s *session) reconcileTable(ctx context.Context, t TableDefinition) (res Result, err error) {
	res = Result{Table: t.Name, Action: ActionUnchanged}

	enabled, err := s.foreignKeysEnabled(ctx)
	if err != nil {
		return res, err
	}
	if enabled {
		if err := s.setForeignKeys(ctx, false); err != nil {
			return res, err
		}
		defer func() {
			if rerr := s.restoreForeignKeys(ctx); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}()
	}

	cols, err := s.columns(ctx, t.Name)
	if err != nil {
		return res, err
	}
	if len(cols) == 0 {
		err = s.create(ctx, &res, t)
	} else {
		err = s.update(ctx, &res, t, cols)
	}
	if err != nil {
		return res, err
	}
	return res, s.seed(ctx, &res, t)
}

// create builds a missing table, its indexes and its creation-time rows.
func (s *session) create(ctx context.Context, res *Result, t TableDefinition) error {
	res.Action = ActionCreated
	s.cfg.Logger.Debug("creating table", "table", t.Name)
	return s.execAll(ctx, res, createSQL(t))
}

// update diffs an existing table and applies the rewrite or the in-place
// changes.
func (s *session) update(ctx context.Context, res *Result, t TableDefinition, cols []liveColumn) error {
	live, err := s.inspect(ctx, t.Name, cols)
	if err != nil {
		return err
	}

	d := Diff(t, live)
	if s.cfg.Debug&DebugDiff != 0 {
		s.cfg.Logger.Info("diff",
			"table", t.Name,
			"rewrite", d.NeedsRewrite,
			"reasons", strings.Join(d.Reasons, "; "),
			"drop_columns", d.DropColumns,
			"add_columns", len(d.AddColumns),
			"drop_indexes", d.DropIndexes,
			"create_indexes", len(d.CreateIndexes))
	}

	switch {
	case d.NeedsRewrite:
		res.Action = ActionRewritten
		res.Reasons = d.Reasons
		s.cfg.Logger.Debug("rewriting table", "table", t.Name, "reasons", d.Reasons)
		return s.execAll(ctx, res, rewriteSQL(t, tempTableName(t.Name), commonColumns(t, live)))
	case d.Empty():
		return nil
	default:
		res.Action = ActionAltered
		s.cfg.Logger.Debug("altering table", "table", t.Name)
		return s.execAll(ctx, res, incrementalSQL(t, d))
	}
}

// seed applies the conditional seed directives.
func (s *session) seed(ctx context.Context, res *Result, t TableDefinition) error {
	return s.execAll(ctx, res, seedSQL(t))
}

// tempTableName returns a name for the rewrite table that is unique to
// this run.
func tempTableName(table string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return table + "_tmp_" + token[:16]
}

// Apply reconciles cfg.Schema on one connection of db inside a single
// transaction. Foreign key enforcement is suspended around the transaction,
// since SQLite ignores the pragma inside one, and foreign_key_check must
// come back clean before the transaction commits.
func Apply(ctx context.Context, db *sql.DB, cfg Config) (results []Result, err error) {
	cfg = cfg.defaults()

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("conn: %w", err)
	}
	defer conn.Close()

	outer := &session{db: NewDBQuerier(conn), cfg: cfg}
	enabled, err := outer.foreignKeysEnabled(ctx)
	if err != nil {
		return nil, err
	}
	if enabled {
		if err := outer.setForeignKeys(ctx, false); err != nil {
			return nil, err
		}
		defer func() {
			if rerr := outer.restoreForeignKeys(ctx); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}()
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	inner := NewDBQuerier(tx)
	results, err = Reconcile(ctx, inner, cfg.Schema, cfg)
	if err != nil {
		return results, err
	}

	if enabled && !cfg.DryRun {
		violations, err := inner.Select(ctx, "PRAGMA foreign_key_check")
		if err != nil {
			return results, fmt.Errorf("foreign_key_check: %w", err)
		}
		if len(violations) > 0 {
			first := violations[0]
			return results, fmt.Errorf("%d rows, first in %s referencing %s: %w",
				len(violations), stringOf(first["table"]), stringOf(first["parent"]), ErrForeignKeyViolation)
		}
	}

	if cfg.DryRun {
		return results, nil
	}
	if err := tx.Commit(); err != nil {
		return results, fmt.Errorf("commit: %w", err)
	}
	return results, nil
}
