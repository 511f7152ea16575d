// Package errs defines the error taxonomy shared by every pipeline stage.
// Each stage fails fast with exactly one of these types; no stage catches
// or suppresses an error raised by an earlier stage, and nothing retries.
package errs

import (
	"fmt"
	"strings"
)

// FieldViolation describes a single out-of-domain request field.
type FieldViolation struct {
	Field  string
	Reason string
}

func (v FieldViolation) String() string {
	return v.Field + ": " + v.Reason
}

// ValidationError reports malformed request parameters. It carries every
// violated field, not just the first one encountered.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("invalid query: %s", strings.Join(parts, "; "))
}

// Fields returns the names of all violated fields.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fields
}

// TransportError reports a network failure or a non-success HTTP status
// from the remote archive. StatusCode is zero when the request never
// produced a response.
type TransportError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("archive request %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("archive request %s: %v", e.URL, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// DecodeError reports a reply that does not match the expected shape.
type DecodeError struct {
	Detail string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode archive response: %s: %v", e.Detail, e.Cause)
	}
	return "decode archive response: " + e.Detail
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// ShapeError reports a misalignment between a model's variable array and
// its timestamp axis.
type ShapeError struct {
	Model    string
	Variable string
	Got      int
	Want     int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("model %q variable %q has %d values, expected %d",
		e.Model, e.Variable, e.Got, e.Want)
}

// ColumnViolation describes one failed column constraint.
type ColumnViolation struct {
	Column     string
	Constraint string
	Detail     string
}

func (v ColumnViolation) String() string {
	if v.Detail == "" {
		return v.Column + ": " + v.Constraint
	}
	return v.Column + ": " + v.Constraint + " (" + v.Detail + ")"
}

// SchemaError reports a table that fails its declared schema. It carries
// every failing column and constraint, not just the first.
type SchemaError struct {
	Schema     string
	Violations []ColumnViolation
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("schema %q violated: %s", e.Schema, strings.Join(parts, "; "))
}

// Columns returns the names of all failing columns.
func (e *SchemaError) Columns() []string {
	cols := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		cols[i] = v.Column
	}
	return cols
}

// FileFormatError reports a local archive file missing its expected
// structure.
type FileFormatError struct {
	Path   string
	Detail string
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("archive file %s: %s", e.Path, e.Detail)
}
