// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build mattn

package sqliteschema

import (
	"strings"
)

// driverName is the database/sql name registered by github.com/mattn/go-sqlite3.
const driverName = "sqlite3"

// mattnParams maps pragma names to the DSN parameters go-sqlite3 accepts.
// Pragmas without a parameter are left at the driver default.
var mattnParams = map[string]string{
	"foreign_keys": "_foreign_keys",
	"busy_timeout": "_busy_timeout",
	"journal_mode": "_journal_mode",
	"synchronous":  "_synchronous",
}

// buildDSN constructs a DSN for github.com/mattn/go-sqlite3.
func buildDSN(path string, pragmas []pragma) string {
	prefix, sep := dsnPrefix(path)

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, p := range pragmas {
		param, ok := mattnParams[p.name]
		if !ok {
			continue
		}
		sb.WriteString(sep)
		sb.WriteString(param + "=" + p.value)
		sep = "&"
	}
	return sb.String()
}
