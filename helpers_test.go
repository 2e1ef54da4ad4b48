// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"context"
	"database/sql"
	"testing"
)

// openTestDB opens a private in-memory database on a single connection.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustExec(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
}

func countRows(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), query).Scan(&n); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return n
}

func ptr(s string) *string {
	return &s
}

// settingsTable is the fixture shared by the generator and engine tests.
func settingsTable() TableDefinition {
	return TableDefinition{
		Name: "settings",
		Columns: []ColumnDefinition{
			{Name: "id", Type: "INTEGER", NotNull: true},
			{Name: "setting_key", Type: "text", NotNull: true},
			{Name: "setting_value", Type: "text", NotNull: true, Default: ptr("")},
			{Name: "note", Type: "text", Default: ptr("it's")},
		},
		Indexes: []IndexDefinition{
			{Name: "", Origin: OriginPrimaryKey, Columns: []string{"id"}},
			{Name: "settings_key", Origin: OriginUnique, Columns: []string{"setting_key"}},
			{Name: "settings_value", Origin: OriginIndex, Columns: []string{"setting_value", "setting_key"}},
		},
		InsertOnCreate: []Row{
			{"setting_key": "theme", "setting_value": "dark"},
		},
		InsertIfNotExists: []KeyedRow{
			{Identifiers: Row{"setting_key": "locale"}, OtherValues: Row{"setting_value": "en"}},
		},
		UpdateIfExists: []KeyedRow{
			{Identifiers: Row{"setting_key": "theme"}, OtherValues: Row{"note": nil, "setting_value": "light"}},
		},
		DeleteIfExists: []Row{
			{"setting_key": "legacy"},
		},
	}
}

// orderTables returns a parent and a child table joined by foreign keys.
func orderTables() []TableDefinition {
	return []TableDefinition{
		{
			Name: "orders",
			Columns: []ColumnDefinition{
				{Name: "id", Type: "INTEGER"},
				{Name: "customer", Type: "text", NotNull: true, Default: ptr("")},
			},
			Indexes: []IndexDefinition{
				{Origin: OriginPrimaryKey, Columns: []string{"id"}},
			},
		},
		{
			Name: "products",
			Columns: []ColumnDefinition{
				{Name: "sku", Type: "text"},
				{Name: "title", Type: "text"},
			},
			Indexes: []IndexDefinition{
				{Origin: OriginPrimaryKey, Columns: []string{"sku"}},
			},
		},
		{
			Name: "order_items",
			Columns: []ColumnDefinition{
				{Name: "order_id", Type: "INTEGER", NotNull: true},
				{Name: "line", Type: "integer", NotNull: true},
				{Name: "sku", Type: "text"},
				{Name: "qty", Type: "integer", NotNull: true, Default: ptr("1")},
			},
			Indexes: []IndexDefinition{
				{Origin: OriginPrimaryKey, Columns: []string{"order_id", "line"}},
				{Name: "order_items_sku", Origin: OriginIndex, Columns: []string{"sku"}},
			},
			ForeignKeys: []ForeignKeyDefinition{
				{Table: "orders", References: []ColumnPair{{From: "order_id", To: "id"}}, OnDelete: "cascade"},
				{Table: "products", References: []ColumnPair{{From: "sku", To: "sku"}}},
			},
		},
	}
}

// mustNormalize normalizes t or fails the test.
func mustNormalize(t *testing.T, def TableDefinition) TableDefinition {
	t.Helper()
	n, err := def.Normalize()
	if err != nil {
		t.Fatalf("Normalize(%s): %v", def.Name, err)
	}
	return n
}
