// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// ParseSchema decodes a YAML document holding a list of table declarations.
// JSON is a subset of YAML, so JSON documents are accepted as well.
func ParseSchema(data []byte) ([]TableDefinition, error) {
	var decls any
	if err := yaml.Unmarshal(data, &decls); err != nil {
		return nil, fmt.Errorf("decode schema: %v: %w", err, ErrInvalidDefinition)
	}
	return NormalizeAll(decls)
}

// LoadSchemaFile reads and parses a schema file from fsys.
func LoadSchemaFile(fsys fs.FS, name string) ([]TableDefinition, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	tables, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return tables, nil
}
