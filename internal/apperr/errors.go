// Package apperr defines the error types shared across the application:
// generic sentinels used at the API boundary and the typed per-record
// errors produced by the parsing pipeline.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrEmptyArchive signals that discovery matched no record files at
	// all, which callers must surface distinctly from a partial failure.
	ErrEmptyArchive = errors.New("no record files found")
)

// MalformedHeaderError reports a file whose header block is missing its
// opening delimiter or is never terminated.
type MalformedHeaderError struct {
	Path   string
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("malformed header in %s: %s", e.Path, e.Reason)
}

// SchemaError reports a YAML syntax failure inside the header block.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid metadata in %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// MissingFieldError reports a required frontmatter field that decoded to
// its empty value. An absent field and an explicitly empty one collapse
// to the same error.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q in %s", e.Field, e.Path)
}

// DateParseError reports a present, non-empty date value that is not a
// valid ISO-8601 calendar date. Absent and empty values are not errors.
type DateParseError struct {
	Path  string
	Field string
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid date %q for field %q in %s", e.Value, e.Field, e.Path)
}
