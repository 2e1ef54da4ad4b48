// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"fmt"
	"strconv"
	"strings"
)

// Quote renders a value as a SQL literal.
// nil becomes NULL; everything else is rendered as a single-quoted string
// with every embedded single quote doubled.
func Quote(value any) string {
	if value == nil {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(literalText(value), "'", "''") + "'"
}

// Unquote reverses Quote for a string literal.
// The empty string is returned unchanged.
func Unquote(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return "", fmt.Errorf("%q: %w", text, ErrMalformedLiteral)
	}
	return strings.ReplaceAll(text[1:len(text)-1], "''", "'"), nil
}

// ParseDefaultValue converts the dflt_value reported by table_info into the
// declared form: nil for no default (or an explicit NULL), otherwise the
// unquoted text.
func ParseDefaultValue(value any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	text, ok := textOf(value)
	if !ok {
		return nil, fmt.Errorf("%v: %w", value, ErrMalformedLiteral)
	}
	if strings.EqualFold(text, "null") {
		return nil, nil
	}
	s, err := Unquote(text)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// quoteIdent renders an identifier in double quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// literalText returns the string form of a seed or default value.
// SQLite has no boolean type, so booleans are stored as 1 and 0.
func literalText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

// textOf extracts text from a driver value.
func textOf(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

// intOf extracts an integer from a driver value.
func intOf(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	}
	return 0
}

// stringOf extracts text from a driver value, treating NULL as empty.
func stringOf(value any) string {
	if s, ok := textOf(value); ok {
		return s
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
