// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"strings"
)

// createTableSQL renders CREATE TABLE for t under the given name.
// The sole column of an INTEGER primary key is declared inline so that it
// aliases the rowid; any other primary key becomes a table constraint.
func createTableSQL(name string, t TableDefinition) string {
	rowid, isAlias := t.rowidAlias()

	var clauses []string
	for _, c := range t.Columns {
		clause := quoteIdent(c.Name)
		if c.Type != "" {
			clause += " " + c.Type
		}
		if isAlias && c.Name == rowid {
			clause += " PRIMARY KEY"
		}
		if c.NotNull {
			clause += " NOT NULL"
		}
		if c.Default != nil {
			clause += " DEFAULT " + Quote(*c.Default)
		}
		clauses = append(clauses, clause)
	}
	if pk, ok := t.primaryKey(); ok && !isAlias {
		clauses = append(clauses, "PRIMARY KEY ("+identList(pk.Columns)+")")
	}
	for _, fk := range t.ForeignKeys {
		clauses = append(clauses, foreignKeyClause(fk))
	}
	return "CREATE TABLE " + quoteIdent(name) + " (" + strings.Join(clauses, ", ") + ")"
}

func foreignKeyClause(fk ForeignKeyDefinition) string {
	from := make([]string, 0, len(fk.References))
	to := make([]string, 0, len(fk.References))
	explicit := false
	for _, ref := range fk.References {
		from = append(from, ref.From)
		to = append(to, ref.To)
		if ref.To != "" {
			explicit = true
		}
	}
	var sb strings.Builder
	sb.WriteString("FOREIGN KEY (" + identList(from) + ") REFERENCES " + quoteIdent(fk.Table))
	if explicit {
		sb.WriteString(" (" + identList(to) + ")")
	}
	sb.WriteString(" ON UPDATE " + fk.OnUpdate + " ON DELETE " + fk.OnDelete)
	return sb.String()
}

// createSQL renders the creation of a missing table: the table, its
// indexes, then its insert_on_create rows.
func createSQL(t TableDefinition) []string {
	stmts := []string{createTableSQL(t.Name, t)}
	stmts = append(stmts, createIndexesSQL(t)...)
	for _, row := range t.InsertOnCreate {
		if len(row) > 0 {
			stmts = append(stmts, insertSQL(t.Name, row))
		}
	}
	return stmts
}

// createIndexSQL renders CREATE INDEX for a regular or unique index.
func createIndexSQL(table string, idx IndexDefinition) string {
	kw := "CREATE INDEX "
	if idx.Origin == OriginUnique {
		kw = "CREATE UNIQUE INDEX "
	}
	return kw + quoteIdent(idx.Name) + " ON " + quoteIdent(table) + " (" + identList(idx.Columns) + ")"
}

// createIndexesSQL renders CREATE INDEX for every non-primary-key index.
func createIndexesSQL(t TableDefinition) []string {
	var stmts []string
	for _, idx := range t.Indexes {
		if idx.Origin == OriginIndex || idx.Origin == OriginUnique {
			stmts = append(stmts, createIndexSQL(t.Name, idx))
		}
	}
	return stmts
}

func dropIndexSQL(name string) string {
	return "DROP INDEX " + quoteIdent(name)
}

// alterTableSQL renders the in-place column changes, one statement per
// clause: drops first, then adds.
func alterTableSQL(table string, drops []string, adds []ColumnDefinition) []string {
	var stmts []string
	for _, name := range drops {
		stmts = append(stmts, "ALTER TABLE "+quoteIdent(table)+" DROP COLUMN "+quoteIdent(name))
	}
	for _, c := range adds {
		clause := quoteIdent(c.Name)
		if c.Type != "" {
			clause += " " + c.Type
		}
		if c.NotNull {
			clause += " NOT NULL"
		}
		if c.Default != nil {
			clause += " DEFAULT " + Quote(*c.Default)
		}
		stmts = append(stmts, "ALTER TABLE "+quoteIdent(table)+" ADD COLUMN "+clause)
	}
	return stmts
}

// incrementalSQL renders the statements that apply d in place.
func incrementalSQL(t TableDefinition, d TableDiff) []string {
	var stmts []string
	for _, name := range d.DropIndexes {
		stmts = append(stmts, dropIndexSQL(name))
	}
	stmts = append(stmts, alterTableSQL(t.Name, d.DropColumns, d.AddColumns)...)
	for _, idx := range d.CreateIndexes {
		stmts = append(stmts, createIndexSQL(t.Name, idx))
	}
	return stmts
}

// rewriteSQL renders the copy-rename sequence that recreates t under its
// declared shape, keeping the data of the columns listed in common.
func rewriteSQL(t TableDefinition, tmp string, common []string) []string {
	stmts := []string{createTableSQL(tmp, t)}
	if len(common) > 0 {
		cols := identList(common)
		stmts = append(stmts, "INSERT INTO "+quoteIdent(tmp)+" ("+cols+") SELECT "+cols+" FROM "+quoteIdent(t.Name))
	}
	stmts = append(stmts,
		"DROP TABLE "+quoteIdent(t.Name),
		"ALTER TABLE "+quoteIdent(tmp)+" RENAME TO "+quoteIdent(t.Name),
	)
	return append(stmts, createIndexesSQL(t)...)
}

// seedSQL renders the conditional seed directives in a fixed order:
// inserts, updates, deletes. Directives with nothing to match on are skipped.
func seedSQL(t TableDefinition) []string {
	var stmts []string
	for _, r := range t.InsertIfNotExists {
		if stmt, ok := insertIfNotExistsSQL(t.Name, r); ok {
			stmts = append(stmts, stmt)
		}
	}
	for _, r := range t.UpdateIfExists {
		if stmt, ok := updateIfExistsSQL(t.Name, r); ok {
			stmts = append(stmts, stmt)
		}
	}
	for _, r := range t.DeleteIfExists {
		if stmt, ok := deleteIfExistsSQL(t.Name, r); ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// insertSQL renders an unconditional insert of one row.
func insertSQL(table string, row Row) string {
	cols := row.columns()
	values := make([]string, 0, len(cols))
	for _, c := range cols {
		values = append(values, Quote(row[c]))
	}
	return "INSERT INTO " + quoteIdent(table) + " (" + identList(cols) + ") VALUES (" + strings.Join(values, ", ") + ")"
}

// insertIfNotExistsSQL renders an insert guarded by a NOT EXISTS probe on
// the identifier columns. It returns false when there is nothing to match on.
func insertIfNotExistsSQL(table string, r KeyedRow) (string, bool) {
	if len(r.Identifiers) == 0 {
		return "", false
	}
	cols := r.Identifiers.columns()
	for _, c := range r.OtherValues.columns() {
		if _, dup := r.Identifiers[c]; !dup {
			cols = append(cols, c)
		}
	}
	values := make([]string, 0, len(cols))
	for _, c := range cols {
		if v, ok := r.Identifiers[c]; ok {
			values = append(values, Quote(v))
		} else {
			values = append(values, Quote(r.OtherValues[c]))
		}
	}
	return "INSERT INTO " + quoteIdent(table) + " (" + identList(cols) + ") SELECT " + strings.Join(values, ", ") +
		" WHERE NOT EXISTS (SELECT 1 FROM " + quoteIdent(table) + " WHERE " + matchClause(r.Identifiers) + ")", true
}

// updateIfExistsSQL renders an update of the matching rows. It returns
// false when either side of the directive is empty.
func updateIfExistsSQL(table string, r KeyedRow) (string, bool) {
	if len(r.Identifiers) == 0 || len(r.OtherValues) == 0 {
		return "", false
	}
	var sets []string
	for _, c := range r.OtherValues.columns() {
		sets = append(sets, quoteIdent(c)+" = "+Quote(r.OtherValues[c]))
	}
	return "UPDATE " + quoteIdent(table) + " SET " + strings.Join(sets, ", ") + " WHERE " + matchClause(r.Identifiers), true
}

// deleteIfExistsSQL renders a delete of the matching rows. It returns false
// when there is nothing to match on.
func deleteIfExistsSQL(table string, match Row) (string, bool) {
	if len(match) == 0 {
		return "", false
	}
	return "DELETE FROM " + quoteIdent(table) + " WHERE " + matchClause(match), true
}

// matchClause renders an AND of column comparisons; NULL values compare
// with IS NULL.
func matchClause(match Row) string {
	var terms []string
	for _, c := range match.columns() {
		if match[c] == nil {
			terms = append(terms, quoteIdent(c)+" IS NULL")
		} else {
			terms = append(terms, quoteIdent(c)+" = "+Quote(match[c]))
		}
	}
	return strings.Join(terms, " AND ")
}

func identList(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, quoteIdent(n))
	}
	return strings.Join(quoted, ", ")
}
