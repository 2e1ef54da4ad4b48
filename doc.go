// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package sqliteschema reconciles a declared table schema against a live
// SQLite database at application startup.
//
// Each table is declared with its columns, indexes, foreign keys and seed
// data. Reconciliation introspects the live table through PRAGMA queries,
// compares it with the declaration and issues the fewest statements that
// bring the two into agreement:
//   - Missing tables are created, along with their indexes and
//     insert_on_create rows.
//   - Added and dropped columns, and changed non-primary-key indexes, are
//     applied in place with ALTER TABLE, CREATE INDEX and DROP INDEX.
//   - Column type, NOT NULL or default changes, primary key changes and
//     foreign key changes rewrite the table: a new table is created under a
//     temporary name, the shared columns are copied, the old table is dropped
//     and the new one renamed.
//   - insert_if_not_exists, update_if_exists and delete_if_exists seed
//     directives run on every reconciliation and are idempotent.
//
// Tables are processed one at a time, in declaration order.
//
// # Basic Usage
//
//	//go:embed schema.yaml
//	var schemaFS embed.FS
//
//	func main() {
//	    tables, err := sqliteschema.LoadSchemaFile(schemaFS, "schema.yaml")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    db, err := sqliteschema.Open(ctx, sqliteschema.Config{
//	        Path:   "/var/lib/app/app.db",
//	        Schema: tables,
//	    })
//	}
//
// Callers that manage their own connection use Apply, or Reconcile with a
// Querier over a transaction they own.
//
// # Schema Files
//
// A schema file is a YAML (or JSON) list of tables:
//
//	- name: settings
//	  columns:
//	    - {name: id, type: INTEGER, notnull: true}
//	    - {name: setting_key, type: text, notnull: true}
//	    - {name: setting_value, type: text, notnull: true, dflt_value: ""}
//	  indexes:
//	    - {name: "", origin: pk, columns: [id]}
//	    - {name: settings_key, origin: u, columns: [setting_key]}
//	  insert_if_not_exists:
//	    - identifiers: {setting_key: theme}
//	      other_values: {setting_value: dark}
//
// # Command
//
// The sqliteschema command wraps the package: apply reconciles a database
// file with a schema file, plan prints the statements apply would issue and
// inspect prints live tables in the schema file format.
//
// # Driver Support
//
// This package supports two SQLite drivers via build tags:
//   - modernc.org/sqlite (default, pure Go, no CGO)
//   - github.com/mattn/go-sqlite3 (CGO, use -tags mattn)
//
// You must import the appropriate driver in your application:
//
//	import _ "modernc.org/sqlite"           // default
//	import _ "github.com/mattn/go-sqlite3"  // with -tags mattn
package sqliteschema
