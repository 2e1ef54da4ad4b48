// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import "strings"

// pragma is a connection setting carried in the DSN.
type pragma struct {
	name  string
	value string
}

// memoryPragmas are used for in-memory databases.
// foreign_keys starts ON; reconciliation suspends it per run.
var memoryPragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "MEMORY"},
	{name: "synchronous", value: "OFF"},
	{name: "temp_store", value: "MEMORY"},
}

// persistentPragmas are used for database files.
var persistentPragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "WAL"},
	{name: "synchronous", value: "NORMAL"},
	{name: "temp_store", value: "FILE"},
}

// dsnPrefix returns the DSN up to the query string and the separator for
// the first parameter. Each in-memory database is private to its single
// connection.
func dsnPrefix(path string) (string, string) {
	if path == ":memory:" {
		path = "file::memory:"
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if strings.Contains(path, "?") {
		return path, "&"
	}
	return path, "?"
}
