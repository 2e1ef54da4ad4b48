// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteschema

import "errors"

var (
	// ErrInvalidDefinition is returned when the schema list or a table
	// declaration does not have the expected shape.
	ErrInvalidDefinition = errors.New("invalid definition")

	// ErrInvalidCollaborator is returned when the Querier cannot be invoked.
	ErrInvalidCollaborator = errors.New("invalid collaborator")

	// ErrMalformedLiteral is returned when a stored default or seed value is
	// not a single-quoted SQL string literal.
	ErrMalformedLiteral = errors.New("malformed literal")

	// ErrForeignKeyViolation is returned by Apply when foreign_key_check
	// reports rows after reconciliation.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
