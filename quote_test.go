// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import (
	"errors"
	"testing"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{"", "''"},
		{"abc", "'abc'"},
		{"it's", "'it''s'"},
		{"a'b'c", "'a''b''c'"},
		{"''", "''''''"},
		{42, "'42'"},
		{int64(-7), "'-7'"},
		{1.5, "'1.5'"},
		{true, "'1'"},
		{false, "'0'"},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%#v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"''", ""},
		{"'abc'", "abc"},
		{"'it''s'", "it's"},
		{"'a''b''c'", "a'b'c"},
	}
	for _, tt := range tests {
		got, err := Unquote(tt.in)
		if err != nil {
			t.Errorf("Unquote(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unquote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnquote_Malformed(t *testing.T) {
	for _, in := range []string{"abc", "'abc", "abc'", "'", "CURRENT_TIMESTAMP", "0"} {
		if _, err := Unquote(in); !errors.Is(err, ErrMalformedLiteral) {
			t.Errorf("Unquote(%q): expected ErrMalformedLiteral, got %v", in, err)
		}
	}
}

// TestQuote_RoundTripMultipleQuotes guards against escaping only the first
// embedded quote.
func TestQuote_RoundTripMultipleQuotes(t *testing.T) {
	for _, in := range []string{"don't 'quote' me", "''", "x''y'z"} {
		got, err := Unquote(Quote(in))
		if err != nil {
			t.Fatalf("Unquote(Quote(%q)): %v", in, err)
		}
		if got != in {
			t.Errorf("round trip of %q = %q", in, got)
		}
	}
}

func TestParseDefaultValue(t *testing.T) {
	tests := []struct {
		in   any
		want *string
	}{
		{nil, nil},
		{"NULL", nil},
		{"null", nil},
		{"''", ptr("")},
		{"'x'", ptr("x")},
		{[]byte("'it''s'"), ptr("it's")},
	}
	for _, tt := range tests {
		got, err := ParseDefaultValue(tt.in)
		if err != nil {
			t.Errorf("ParseDefaultValue(%#v): %v", tt.in, err)
			continue
		}
		if !sameDefault(got, tt.want) {
			t.Errorf("ParseDefaultValue(%#v) = %s, want %s", tt.in, describeDefault(got), describeDefault(tt.want))
		}
	}

	for _, in := range []any{"CURRENT_TIMESTAMP", "0", int64(0)} {
		if _, err := ParseDefaultValue(in); !errors.Is(err, ErrMalformedLiteral) {
			t.Errorf("ParseDefaultValue(%#v): expected ErrMalformedLiteral, got %v", in, err)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	if got := quoteIdent(`a"b`); got != `"a""b"` {
		t.Errorf("quoteIdent = %s", got)
	}
}
