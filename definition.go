// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"fmt"
	"sort"
	"strings"
)

// Index origins as reported by index_list.
const (
	OriginIndex      = "c"
	OriginUnique     = "u"
	OriginPrimaryKey = "pk"
)

// DefaultAction is the foreign key action used when none is declared.
const DefaultAction = "NO ACTION"

// TableDefinition declares a table, its indexes, foreign keys and seed data.
// The same shape describes the live table returned by Inspect; live
// definitions never carry seed directives.
type TableDefinition struct {
	Name              string                 `yaml:"name" json:"name"`
	Columns           []ColumnDefinition     `yaml:"columns" json:"columns"`
	Indexes           []IndexDefinition      `yaml:"indexes,omitempty" json:"indexes,omitempty"`
	ForeignKeys       []ForeignKeyDefinition `yaml:"foreign_keys,omitempty" json:"foreign_keys,omitempty"`
	InsertOnCreate    []Row                  `yaml:"insert_on_create,omitempty" json:"insert_on_create,omitempty"`
	InsertIfNotExists []KeyedRow             `yaml:"insert_if_not_exists,omitempty" json:"insert_if_not_exists,omitempty"`
	UpdateIfExists    []KeyedRow             `yaml:"update_if_exists,omitempty" json:"update_if_exists,omitempty"`
	DeleteIfExists    []Row                  `yaml:"delete_if_exists,omitempty" json:"delete_if_exists,omitempty"`
}

// ColumnDefinition declares a single column.
// Type is compared with the live type as text, case-sensitively.
// A nil Default means the column defaults to NULL.
type ColumnDefinition struct {
	Name    string  `yaml:"name" json:"name"`
	Type    string  `yaml:"type" json:"type"`
	NotNull bool    `yaml:"notnull,omitempty" json:"notnull,omitempty"`
	Default *string `yaml:"dflt_value,omitempty" json:"dflt_value,omitempty"`
}

// IndexDefinition declares a regular, unique or primary key index.
// Name may be empty only for the primary key.
type IndexDefinition struct {
	Name    string   `yaml:"name" json:"name"`
	Origin  string   `yaml:"origin" json:"origin"`
	Columns []string `yaml:"columns" json:"columns"`
}

// ForeignKeyDefinition declares a (possibly multi-column) foreign key.
type ForeignKeyDefinition struct {
	Table      string       `yaml:"table" json:"table"`
	References []ColumnPair `yaml:"references" json:"references"`
	OnUpdate   string       `yaml:"on_update" json:"on_update"`
	OnDelete   string       `yaml:"on_delete" json:"on_delete"`
}

// ColumnPair maps a local column to a column in the referenced table.
type ColumnPair struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Row maps column names to literal values.
type Row map[string]any

// KeyedRow is a seed row matched on Identifiers.
type KeyedRow struct {
	Identifiers Row `yaml:"identifiers" json:"identifiers"`
	OtherValues Row `yaml:"other_values" json:"other_values"`
}

// columns returns the row's column names in sorted order.
func (r Row) columns() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// column returns the declared column with the given name.
func (t TableDefinition) column(name string) (ColumnDefinition, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

// primaryKey returns the primary key index, if one is declared.
func (t TableDefinition) primaryKey() (IndexDefinition, bool) {
	for _, idx := range t.Indexes {
		if idx.Origin == OriginPrimaryKey {
			return idx, true
		}
	}
	return IndexDefinition{}, false
}

// rowidAlias returns the name of the column that aliases the rowid: the
// sole column of an INTEGER primary key.
func (t TableDefinition) rowidAlias() (string, bool) {
	pk, ok := t.primaryKey()
	if !ok || len(pk.Columns) != 1 {
		return "", false
	}
	col, ok := t.column(pk.Columns[0])
	if !ok || !strings.EqualFold(strings.TrimSpace(col.Type), "INTEGER") {
		return "", false
	}
	return col.Name, true
}

// Normalize returns a copy of t with defaults applied to optional fields.
// It fails with ErrInvalidDefinition if t breaks an invariant.
func (t TableDefinition) Normalize() (TableDefinition, error) {
	if t.Name == "" {
		return t, fmt.Errorf("table: missing name: %w", ErrInvalidDefinition)
	}
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("table %q: %s: %w", t.Name, fmt.Sprintf(format, args...), ErrInvalidDefinition)
	}

	out := t
	if len(t.Columns) == 0 {
		return t, invalid("no columns")
	}
	out.Columns = append([]ColumnDefinition{}, t.Columns...)
	seen := make(map[string]bool, len(out.Columns))
	for _, c := range out.Columns {
		if c.Name == "" {
			return t, invalid("column without a name")
		}
		if seen[c.Name] {
			return t, invalid("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
	}

	out.Indexes = make([]IndexDefinition, 0, len(t.Indexes))
	pks := 0
	names := make(map[string]bool, len(t.Indexes))
	for _, idx := range t.Indexes {
		switch idx.Origin {
		case "":
			idx.Origin = OriginIndex
		case OriginIndex, OriginUnique:
		case OriginPrimaryKey:
			pks++
		default:
			return t, invalid("index %q: unknown origin %q", idx.Name, idx.Origin)
		}
		if idx.Name == "" && idx.Origin != OriginPrimaryKey {
			return t, invalid("index without a name")
		}
		if idx.Name != "" {
			if names[idx.Name] {
				return t, invalid("duplicate index %q", idx.Name)
			}
			names[idx.Name] = true
		}
		if len(idx.Columns) == 0 {
			return t, invalid("index %q: no columns", idx.Name)
		}
		for _, name := range idx.Columns {
			if !seen[name] {
				return t, invalid("index %q: unknown column %q", idx.Name, name)
			}
		}
		idx.Columns = append([]string{}, idx.Columns...)
		out.Indexes = append(out.Indexes, idx)
	}
	if pks > 1 {
		return t, invalid("%d primary keys", pks)
	}

	out.ForeignKeys = make([]ForeignKeyDefinition, 0, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		if fk.Table == "" {
			return t, invalid("foreign key without a target table")
		}
		if len(fk.References) == 0 {
			return t, invalid("foreign key to %q: no references", fk.Table)
		}
		implicit := 0
		for _, ref := range fk.References {
			if !seen[ref.From] {
				return t, invalid("foreign key to %q: unknown column %q", fk.Table, ref.From)
			}
			if ref.To == "" {
				implicit++
			}
		}
		// The parent columns are either all named or all left to the
		// parent's primary key.
		if implicit != 0 && implicit != len(fk.References) {
			return t, invalid("foreign key to %q: some references name a parent column and some do not", fk.Table)
		}
		fk.References = append([]ColumnPair{}, fk.References...)
		fk.OnUpdate = normalizeAction(fk.OnUpdate)
		fk.OnDelete = normalizeAction(fk.OnDelete)
		out.ForeignKeys = append(out.ForeignKeys, fk)
	}

	out.InsertOnCreate = orEmpty(t.InsertOnCreate)
	out.DeleteIfExists = orEmpty(t.DeleteIfExists)
	out.InsertIfNotExists = normalizeKeyed(t.InsertIfNotExists)
	out.UpdateIfExists = normalizeKeyed(t.UpdateIfExists)
	return out, nil
}

// normalizeAction upper-cases a foreign key action and collapses runs of
// whitespace, so "set  null" compares equal to the reported "SET NULL".
func normalizeAction(action string) string {
	action = strings.Join(strings.Fields(strings.ToUpper(action)), " ")
	if action == "" {
		return DefaultAction
	}
	return action
}

func orEmpty(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			r = Row{}
		}
		out = append(out, r)
	}
	return out
}

func normalizeKeyed(rows []KeyedRow) []KeyedRow {
	out := make([]KeyedRow, 0, len(rows))
	for _, r := range rows {
		if r.Identifiers == nil {
			r.Identifiers = Row{}
		}
		if r.OtherValues == nil {
			r.OtherValues = Row{}
		}
		out = append(out, r)
	}
	return out
}
