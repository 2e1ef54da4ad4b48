// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestNormalize_Defaults(t *testing.T) {
	def, err := Normalize(map[string]any{
		"name": "things",
		"columns": []any{
			map[string]any{"name": "id", "type": "INTEGER"},
		},
		"foreign_keys": []any{
			map[string]any{
				"table":      "owners",
				"references": []any{map[string]any{"from": "id", "to": "id"}},
				"on_delete":  "set null",
			},
		},
		"insert_if_not_exists": []any{map[string]any{}},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if def.Indexes == nil || len(def.Indexes) != 0 {
		t.Errorf("Indexes = %#v, want empty", def.Indexes)
	}
	if def.InsertOnCreate == nil || def.UpdateIfExists == nil || def.DeleteIfExists == nil {
		t.Error("missing seed lists should default to empty lists")
	}
	if got := def.ForeignKeys[0].OnUpdate; got != DefaultAction {
		t.Errorf("OnUpdate = %q, want %q", got, DefaultAction)
	}
	if got := def.ForeignKeys[0].OnDelete; got != "SET NULL" {
		t.Errorf("OnDelete = %q, want SET NULL", got)
	}
	seed := def.InsertIfNotExists[0]
	if seed.Identifiers == nil || seed.OtherValues == nil {
		t.Errorf("keyed row = %#v, want empty rows", seed)
	}
}

func TestNormalize_Coercion(t *testing.T) {
	def, err := Normalize(map[string]any{
		"name": "counters",
		"columns": []any{
			map[string]any{"name": "a", "type": "integer", "notnull": 1, "dflt_value": 0},
			map[string]any{"name": "b", "type": "text", "notnull": false, "dflt_value": nil},
			map[string]any{"name": "c", "type": "text", "notnull": true, "dflt_value": "x"},
		},
		"indexes": []any{
			map[string]any{"name": "counters_b", "columns": []any{"b"}},
		},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	a, b, c := def.Columns[0], def.Columns[1], def.Columns[2]
	if !a.NotNull || a.Default == nil || *a.Default != "0" {
		t.Errorf("a = %+v, want notnull with default \"0\"", a)
	}
	if b.NotNull || b.Default != nil {
		t.Errorf("b = %+v, want nullable with no default", b)
	}
	if !c.NotNull || c.Default == nil || *c.Default != "x" {
		t.Errorf("c = %+v", c)
	}
	if got := def.Indexes[0].Origin; got != OriginIndex {
		t.Errorf("index origin = %q, want %q", got, OriginIndex)
	}
}

func TestNormalize_Invalid(t *testing.T) {
	col := map[string]any{"name": "id", "type": "INTEGER"}
	tests := []struct {
		name string
		decl any
	}{
		{"not an object", "settings"},
		{"nil", nil},
		{"missing name", map[string]any{"columns": []any{col}}},
		{"columns not a list", map[string]any{"name": "t", "columns": "id"}},
		{"column not an object", map[string]any{"name": "t", "columns": []any{"id"}}},
		{"duplicate column", map[string]any{"name": "t", "columns": []any{col, col}}},
		{"bad origin", map[string]any{"name": "t", "columns": []any{col},
			"indexes": []any{map[string]any{"name": "i", "origin": "x", "columns": []any{"id"}}}}},
		{"two primary keys", map[string]any{"name": "t", "columns": []any{col},
			"indexes": []any{
				map[string]any{"origin": "pk", "columns": []any{"id"}},
				map[string]any{"origin": "pk", "columns": []any{"id"}},
			}}},
		{"index without columns", map[string]any{"name": "t", "columns": []any{col},
			"indexes": []any{map[string]any{"name": "i", "columns": []any{}}}}},
		{"unnamed index", map[string]any{"name": "t", "columns": []any{col},
			"indexes": []any{map[string]any{"columns": []any{"id"}}}}},
		{"index on unknown column", map[string]any{"name": "t", "columns": []any{col},
			"indexes": []any{map[string]any{"name": "i", "columns": []any{"nope"}}}}},
		{"foreign key without references", map[string]any{"name": "t", "columns": []any{col},
			"foreign_keys": []any{map[string]any{"table": "p"}}}},
		{"seed not an object", map[string]any{"name": "t", "columns": []any{col},
			"insert_on_create": []any{"x"}}},
		{"notnull not a boolean", map[string]any{"name": "t", "columns": []any{
			map[string]any{"name": "id", "notnull": "maybe"}}}},
		{"no columns", map[string]any{"name": "t"}},
		{"empty column list", map[string]any{"name": "t", "columns": []any{}}},
		{"duplicate index name", map[string]any{"name": "t", "columns": []any{col},
			"indexes": []any{
				map[string]any{"name": "i", "columns": []any{"id"}},
				map[string]any{"name": "i", "origin": "u", "columns": []any{"id"}},
			}}},
		{"mixed parent columns", map[string]any{"name": "t",
			"columns": []any{col, map[string]any{"name": "b", "type": "text"}},
			"foreign_keys": []any{map[string]any{"table": "p", "references": []any{
				map[string]any{"from": "id", "to": "x"},
				map[string]any{"from": "b"},
			}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(tt.decl); !errors.Is(err, ErrInvalidDefinition) {
				t.Errorf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	if _, err := NormalizeAll(map[string]any{"name": "t"}); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected ErrInvalidDefinition for a non-list schema, got %v", err)
	}

	dup := map[string]any{"name": "t", "columns": []any{map[string]any{"name": "id"}}}
	if _, err := NormalizeAll([]any{dup, dup}); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("expected ErrInvalidDefinition for duplicate tables, got %v", err)
	}
}

func TestParseSchema_YAML(t *testing.T) {
	src := `
- name: settings
  columns:
    - {name: id, type: INTEGER, notnull: true}
    - {name: setting_key, type: text, notnull: true}
    - {name: setting_value, type: text, notnull: true, dflt_value: ""}
  indexes:
    - {name: "", origin: pk, columns: [id]}
    - {name: settings_key, origin: u, columns: [setting_key]}
  insert_if_not_exists:
    - identifiers: {setting_key: theme}
      other_values: {setting_value: dark}
- name: audit
  columns:
    - {name: id, type: INTEGER}
    - {name: setting_id, type: INTEGER}
  foreign_keys:
    - table: settings
      references: [{from: setting_id, to: id}]
      on_delete: CASCADE
`
	tables, err := ParseSchema([]byte(src))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	if len(tables) != 2 || tables[0].Name != "settings" || tables[1].Name != "audit" {
		t.Fatalf("tables = %+v", tables)
	}
	sv := tables[0].Columns[2]
	if sv.Default == nil || *sv.Default != "" {
		t.Errorf("setting_value default = %s, want ''", describeDefault(sv.Default))
	}
	if pk, ok := tables[0].primaryKey(); !ok || pk.Columns[0] != "id" {
		t.Errorf("primary key = %+v", pk)
	}
	seed := tables[0].InsertIfNotExists[0]
	if seed.Identifiers["setting_key"] != "theme" || seed.OtherValues["setting_value"] != "dark" {
		t.Errorf("seed = %+v", seed)
	}
	fk := tables[1].ForeignKeys[0]
	if fk.OnUpdate != DefaultAction || fk.OnDelete != "CASCADE" || fk.References[0] != (ColumnPair{From: "setting_id", To: "id"}) {
		t.Errorf("foreign key = %+v", fk)
	}
}

func TestParseSchema_JSON(t *testing.T) {
	src := `[{"name": "kv", "columns": [{"name": "k", "type": "text", "notnull": 1}, {"name": "v", "type": "text", "dflt_value": null}],
	         "indexes": [{"name": "", "origin": "pk", "columns": ["k"]}]}]`
	tables, err := ParseSchema([]byte(src))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	if !tables[0].Columns[0].NotNull || tables[0].Columns[1].Default != nil {
		t.Errorf("columns = %+v", tables[0].Columns)
	}
}

func TestParseSchema_Invalid(t *testing.T) {
	for _, src := range []string{"name: settings", "[1, 2]", "- {name: t, columns: [{name: a}], indexes: [{origin: pk, columns: []}]}"} {
		if _, err := ParseSchema([]byte(src)); !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("ParseSchema(%q): expected ErrInvalidDefinition, got %v", src, err)
		}
	}
}

func TestLoadSchemaFile(t *testing.T) {
	fsys := fstest.MapFS{
		"schema.yaml": {Data: []byte("- {name: t, columns: [{name: a, type: text}]}\n")},
	}
	tables, err := LoadSchemaFile(fsys, "schema.yaml")
	if err != nil {
		t.Fatalf("LoadSchemaFile: %v", err)
	}
	if len(tables) != 1 || tables[0].Columns[0].Name != "a" {
		t.Errorf("tables = %+v", tables)
	}

	if _, err := LoadSchemaFile(fsys, "missing.yaml"); err == nil {
		t.Error("expected error for a missing file")
	}
}
