// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build !mattn

package sqliteschema

import (
	"fmt"
	"strings"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// buildDSN constructs a DSN for modernc.org/sqlite, which takes every
// pragma as _pragma=name(value).
func buildDSN(path string, pragmas []pragma) string {
	prefix, sep := dsnPrefix(path)

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, p := range pragmas {
		sb.WriteString(sep)
		fmt.Fprintf(&sb, "_pragma=%s(%s)", p.name, p.value)
		sep = "&"
	}
	return sb.String()
}
