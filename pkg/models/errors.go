package models

import (
	"fmt"
	"strings"

	"github.com/opnlabs/glci/pkg/reference"
)

// ErrorKind classifies a single field-level validation failure.
type ErrorKind string

const (
	MissingField       ErrorKind = "missing_field"
	TypeMismatch       ErrorKind = "type_mismatch"
	InvariantViolation ErrorKind = "invariant_violation"
	InvalidInclude     ErrorKind = "invalid_include"
)

// FieldError is one validation failure, located by a dotted field path
// like "deploy.artifacts.when".
type FieldError struct {
	Path   string
	Kind   ErrorKind
	Reason string
}

func (e FieldError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// SchemaError aggregates every field error found while parsing an
// entity. Validation does not stop at the first problem; callers get
// the full list in one pass.
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	if len(e.Errors) == 1 {
		return "1 validation error: " + e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *SchemaError) add(path string, kind ErrorKind, format string, args ...any) {
	e.Errors = append(e.Errors, FieldError{
		Path:   path,
		Kind:   kind,
		Reason: fmt.Sprintf(format, args...),
	})
}

func (e *SchemaError) missing(path, field string) {
	e.add(path, MissingField, "required field %q is missing", field)
}

func (e *SchemaError) mismatch(path, want string, got any) {
	e.add(path, TypeMismatch, "expected %s, got %s", want, typeName(got))
}

func (e *SchemaError) invariant(path, format string, args ...any) {
	e.add(path, InvariantViolation, format, args...)
}

// err returns the aggregate as an error, or nil when nothing failed.
func (e *SchemaError) err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int, int64, uint64:
		return "an integer"
	case float64:
		return "a number"
	case []any:
		return "a sequence"
	case map[string]any:
		return "a mapping"
	case *reference.Reference:
		return "a !reference placeholder"
	default:
		return fmt.Sprintf("%T", v)
	}
}
