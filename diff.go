// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"fmt"
	"slices"
	"strings"
)

// TableDiff is the differencer's verdict for one existing table.
type TableDiff struct {
	// NeedsRewrite is set when the change cannot be applied with ALTER
	// statements; Reasons says why.
	NeedsRewrite bool
	Reasons      []string

	DropColumns   []string
	AddColumns    []ColumnDefinition
	DropIndexes   []string
	CreateIndexes []IndexDefinition
}

// Empty reports whether the live table already matches the declaration.
func (d TableDiff) Empty() bool {
	return !d.NeedsRewrite &&
		len(d.DropColumns) == 0 && len(d.AddColumns) == 0 &&
		len(d.DropIndexes) == 0 && len(d.CreateIndexes) == 0
}

func (d *TableDiff) rewrite(format string, args ...any) {
	d.NeedsRewrite = true
	d.Reasons = append(d.Reasons, fmt.Sprintf(format, args...))
}

// Diff compares a normalized declaration against the live definition of the
// same table.
func Diff(declared, live TableDefinition) TableDiff {
	var d TableDiff

	liveCols := make(map[string]ColumnDefinition, len(live.Columns))
	for _, c := range live.Columns {
		liveCols[c.Name] = c
	}
	declCols := make(map[string]bool, len(declared.Columns))
	for _, c := range declared.Columns {
		declCols[c.Name] = true
	}
	for _, c := range live.Columns {
		if !declCols[c.Name] {
			d.DropColumns = append(d.DropColumns, c.Name)
		}
	}

	declPK, hasDeclPK := declared.primaryKey()
	inDeclPK := func(name string) bool {
		return hasDeclPK && slices.Contains(declPK.Columns, name)
	}
	rowid, _ := declared.rowidAlias()

	for _, c := range declared.Columns {
		lc, ok := liveCols[c.Name]
		if !ok {
			if c.NotNull && c.Default == nil {
				d.rewrite("column %q: NOT NULL without a default cannot be added in place", c.Name)
			}
			d.AddColumns = append(d.AddColumns, c)
			continue
		}
		if lc.Type != c.Type {
			d.rewrite("column %q: type %q, want %q", c.Name, lc.Type, c.Type)
		}
		if lc.NotNull != c.NotNull && !inDeclPK(c.Name) {
			d.rewrite("column %q: notnull %t, want %t", c.Name, lc.NotNull, c.NotNull)
		}
		if !sameDefault(lc.Default, c.Default) && c.Name != rowid {
			d.rewrite("column %q: default %s, want %s", c.Name, describeDefault(lc.Default), describeDefault(c.Default))
		}
	}

	livePK, hasLivePK := live.primaryKey()
	switch {
	case hasLivePK != hasDeclPK:
		d.rewrite("primary key: present %t, want %t", hasLivePK, hasDeclPK)
	case hasDeclPK && !slices.Equal(livePK.Columns, declPK.Columns):
		d.rewrite("primary key: (%s), want (%s)", strings.Join(livePK.Columns, ", "), strings.Join(declPK.Columns, ", "))
	}

	if len(live.ForeignKeys) != len(declared.ForeignKeys) {
		d.rewrite("foreign keys: %d, want %d", len(live.ForeignKeys), len(declared.ForeignKeys))
	} else {
		matched := make([]bool, len(declared.ForeignKeys))
		for _, lfk := range live.ForeignKeys {
			found := false
			for i, dfk := range declared.ForeignKeys {
				if !matched[i] && sameForeignKey(lfk, dfk) {
					matched[i], found = true, true
					break
				}
			}
			if !found {
				d.rewrite("foreign key to %q: no matching declaration", lfk.Table)
			}
		}
	}

	declIdx := make(map[string]IndexDefinition)
	for _, idx := range declared.Indexes {
		if idx.Origin != OriginPrimaryKey {
			declIdx[idx.Name] = idx
		}
	}
	liveIdx := make(map[string]IndexDefinition)
	for _, idx := range live.Indexes {
		if idx.Origin == OriginPrimaryKey {
			continue
		}
		liveIdx[idx.Name] = idx
		if _, ok := declIdx[idx.Name]; !ok && strings.HasPrefix(idx.Name, "sqlite_autoindex_") {
			d.rewrite("index %q: backs a constraint and cannot be dropped in place", idx.Name)
		}
	}

	if d.NeedsRewrite {
		return d
	}

	for _, idx := range live.Indexes {
		if idx.Origin == OriginPrimaryKey {
			continue
		}
		want, ok := declIdx[idx.Name]
		if !ok || want.Origin != idx.Origin || !slices.Equal(want.Columns, idx.Columns) {
			d.DropIndexes = append(d.DropIndexes, idx.Name)
		}
	}
	for _, idx := range declared.Indexes {
		if idx.Origin == OriginPrimaryKey {
			continue
		}
		have, ok := liveIdx[idx.Name]
		if !ok || have.Origin != idx.Origin || !slices.Equal(have.Columns, idx.Columns) {
			d.CreateIndexes = append(d.CreateIndexes, idx)
		}
	}
	return d
}

// commonColumns returns the declared columns that also exist in live, in
// declaration order.
func commonColumns(declared, live TableDefinition) []string {
	var names []string
	for _, c := range declared.Columns {
		if _, ok := live.column(c.Name); ok {
			names = append(names, c.Name)
		}
	}
	return names
}

func sameDefault(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func describeDefault(v *string) string {
	if v == nil {
		return "NULL"
	}
	return Quote(*v)
}

func sameForeignKey(a, b ForeignKeyDefinition) bool {
	return a.Table == b.Table &&
		a.OnUpdate == b.OnUpdate &&
		a.OnDelete == b.OnDelete &&
		slices.Equal(a.References, b.References)
}
