// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"context"
	"database/sql"
	"fmt"
)

// Record is one result row keyed by column name.
type Record map[string]any

// Querier is the engine's only path to the database.
// Calls are issued one at a time; the engine never overlaps them.
type Querier interface {
	// Select runs a read query and returns every row.
	Select(ctx context.Context, query string) ([]Record, error)
	// Execute runs a DDL or DML statement.
	Execute(ctx context.Context, query string) error
}

// Funcs adapts a pair of functions to the Querier interface.
type Funcs struct {
	SelectFunc  func(ctx context.Context, query string) ([]Record, error)
	ExecuteFunc func(ctx context.Context, query string) error
}

func (f Funcs) Select(ctx context.Context, query string) ([]Record, error) {
	return f.SelectFunc(ctx, query)
}

func (f Funcs) Execute(ctx context.Context, query string) error {
	return f.ExecuteFunc(ctx, query)
}

func (f Funcs) invocable() bool {
	return f.SelectFunc != nil && f.ExecuteFunc != nil
}

// DBTX is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DBQuerier runs the engine's queries through database/sql.
type DBQuerier struct {
	db DBTX
}

// NewDBQuerier returns a Querier backed by db.
func NewDBQuerier(db DBTX) *DBQuerier {
	return &DBQuerier{db: db}
}

func (q *DBQuerier) Select(ctx context.Context, query string) ([]Record, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(Record, len(cols))
		for i, name := range cols {
			rec[name] = values[i]
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (q *DBQuerier) Execute(ctx context.Context, query string) error {
	_, err := q.db.ExecContext(ctx, query)
	return err
}

func (q *DBQuerier) invocable() bool {
	return q != nil && q.db != nil
}

// checkQuerier fails with ErrInvalidCollaborator when q cannot be called.
func checkQuerier(q Querier) error {
	switch v := q.(type) {
	case nil:
		return fmt.Errorf("nil querier: %w", ErrInvalidCollaborator)
	case interface{ invocable() bool }:
		if !v.invocable() {
			return fmt.Errorf("%T: missing select or execute: %w", q, ErrInvalidCollaborator)
		}
	}
	return nil
}
