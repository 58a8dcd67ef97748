package importer

import (
	"fmt"

	"github.com/balkashynov/logbook/internal/db"
)

// ErrUnknownToken is returned by Commit for a token that was never staged,
// has already been committed, or has expired. It matches db.ErrNotFound.
var ErrUnknownToken = fmt.Errorf("%w: staged import unknown or expired", db.ErrNotFound)

// ParseError is a structural problem that rejects a whole file: an
// unrecognizable filename, an empty table, or no date column.
type ParseError struct {
	File   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return "parse error: " + e.Reason
	}
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Reason)
}

func parseErrorf(file, format string, args ...any) error {
	return &ParseError{File: file, Reason: fmt.Sprintf(format, args...)}
}
