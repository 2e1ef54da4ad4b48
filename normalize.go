// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"fmt"
	"strings"
)

// NormalizeAll converts a loosely-typed list of table declarations, as
// produced by decoding JSON or YAML into an `any`, into table definitions.
// Declaration order is preserved.
func NormalizeAll(decls any) ([]TableDefinition, error) {
	list, ok := decls.([]any)
	if !ok {
		return nil, fmt.Errorf("schema: expected a list of tables, got %T: %w", decls, ErrInvalidDefinition)
	}
	tables := make([]TableDefinition, 0, len(list))
	names := make(map[string]bool, len(list))
	for i, decl := range list {
		t, err := Normalize(decl)
		if err != nil {
			return nil, fmt.Errorf("schema[%d]: %w", i, err)
		}
		if names[t.Name] {
			return nil, fmt.Errorf("schema[%d]: duplicate table %q: %w", i, t.Name, ErrInvalidDefinition)
		}
		names[t.Name] = true
		tables = append(tables, t)
	}
	return tables, nil
}

// Normalize converts one loosely-typed table declaration into a
// TableDefinition. Missing list fields become empty lists, missing
// identifiers and other_values become empty rows, and missing foreign key
// actions become NO ACTION.
func Normalize(decl any) (TableDefinition, error) {
	m, ok := asObject(decl)
	if !ok {
		return TableDefinition{}, fmt.Errorf("table: expected an object, got %T: %w", decl, ErrInvalidDefinition)
	}
	d := decoder{}
	t := TableDefinition{Name: d.str(m, "name")}
	if d.err == nil && t.Name == "" {
		d.fail("missing name")
	}

	for _, v := range d.array(m, "columns") {
		cm := d.object(v, "columns")
		c := ColumnDefinition{
			Name:    d.str(cm, "name"),
			Type:    d.str(cm, "type"),
			NotNull: d.flag(cm, "notnull"),
		}
		if dv, ok := cm["dflt_value"]; ok && dv != nil {
			s := literalText(dv)
			c.Default = &s
		}
		t.Columns = append(t.Columns, c)
	}

	for _, v := range d.array(m, "indexes") {
		im := d.object(v, "indexes")
		idx := IndexDefinition{
			Name:   d.str(im, "name"),
			Origin: d.str(im, "origin"),
		}
		for _, col := range d.array(im, "columns") {
			idx.Columns = append(idx.Columns, d.text(col, "index column"))
		}
		t.Indexes = append(t.Indexes, idx)
	}

	for _, v := range d.array(m, "foreign_keys") {
		fm := d.object(v, "foreign_keys")
		fk := ForeignKeyDefinition{
			Table:    d.str(fm, "table"),
			OnUpdate: d.str(fm, "on_update"),
			OnDelete: d.str(fm, "on_delete"),
		}
		for _, ref := range d.array(fm, "references") {
			rm := d.object(ref, "references")
			fk.References = append(fk.References, ColumnPair{From: d.str(rm, "from"), To: d.str(rm, "to")})
		}
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}

	for _, v := range d.array(m, "insert_on_create") {
		t.InsertOnCreate = append(t.InsertOnCreate, d.row(v, "insert_on_create"))
	}
	for _, v := range d.array(m, "delete_if_exists") {
		t.DeleteIfExists = append(t.DeleteIfExists, d.row(v, "delete_if_exists"))
	}
	for _, v := range d.array(m, "insert_if_not_exists") {
		t.InsertIfNotExists = append(t.InsertIfNotExists, d.keyed(v, "insert_if_not_exists"))
	}
	for _, v := range d.array(m, "update_if_exists") {
		t.UpdateIfExists = append(t.UpdateIfExists, d.keyed(v, "update_if_exists"))
	}

	if d.err != nil {
		if t.Name != "" {
			return TableDefinition{}, fmt.Errorf("table %q: %w", t.Name, d.err)
		}
		return TableDefinition{}, fmt.Errorf("table: %w", d.err)
	}
	return t.Normalize()
}

// decoder walks a loosely-typed declaration, remembering the first shape
// error so the walk can be written without checks at every step.
type decoder struct {
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidDefinition)
	}
}

func (d *decoder) array(m map[string]any, key string) []any {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		d.fail("%s: expected a list, got %T", key, v)
		return nil
	}
	return list
}

func (d *decoder) object(v any, field string) map[string]any {
	m, ok := asObject(v)
	if !ok {
		d.fail("%s: expected an object, got %T", field, v)
		return map[string]any{}
	}
	return m
}

func (d *decoder) str(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return d.text(v, key)
}

func (d *decoder) text(v any, field string) string {
	s, ok := v.(string)
	if !ok {
		d.fail("%s: expected a string, got %T", field, v)
	}
	return s
}

// flag accepts booleans and the 0/1 integers that table_info reports.
func (d *decoder) flag(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case int, int64, float64:
		return intOf(v) != 0
	case string:
		switch strings.ToLower(v) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no", "":
			return false
		}
	}
	d.fail("%s: expected a boolean, got %v", key, m[key])
	return false
}

func (d *decoder) row(v any, field string) Row {
	if v == nil {
		return Row{}
	}
	return Row(d.object(v, field))
}

func (d *decoder) keyed(v any, field string) KeyedRow {
	m := d.object(v, field)
	return KeyedRow{
		Identifiers: d.row(m["identifiers"], field+".identifiers"),
		OtherValues: d.row(m["other_values"], field+".other_values"),
	}
}

// asObject accepts the map shapes produced by encoding/json and yaml.v3.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Row:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	}
	return nil, false
}
