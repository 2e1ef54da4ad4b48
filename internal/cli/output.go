// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/mdhender/sqliteschema"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Invalid schema or a constraint the data does not satisfy
	ExitCommandError = 2 // Command error (missing flags, database not found, etc.)
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// writeResults prints one line per table, followed by the rewrite reasons
// and, when statements is set, every statement issued for the table.
func writeResults(w io.Writer, results []sqliteschema.Result, statements bool) {
	for _, r := range results {
		fmt.Fprintf(w, "%s: %s\n", r.Table, r.Action)
		for _, reason := range r.Reasons {
			fmt.Fprintf(w, "  # %s\n", reason)
		}
		if statements {
			for _, stmt := range r.Statements {
				fmt.Fprintf(w, "  %s;\n", stmt)
			}
		}
	}
}
