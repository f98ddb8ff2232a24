package reference

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a resolution failure.
type ErrorKind string

const (
	// UnknownBlock means the referenced top-level block does not exist.
	UnknownBlock ErrorKind = "unknown_block"
	// UnknownField means a segment of the field path is missing.
	UnknownField ErrorKind = "unknown_field"
	// CircularReference means resolution re-entered a reference that is
	// still being resolved.
	CircularReference ErrorKind = "circular_reference"
)

// Error describes a failed resolution. For CircularReference, Chain
// holds the full cycle, ending at the reference that closed it.
type Error struct {
	Kind  ErrorKind
	Ref   *Reference
	Chain []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownBlock:
		return fmt.Sprintf("reference %s: block %q not found", e.Ref, e.Ref.Block)
	case UnknownField:
		return fmt.Sprintf("reference %s: field path [%s] not found in block %q",
			e.Ref, strings.Join(e.Ref.Path, ", "), e.Ref.Block)
	case CircularReference:
		return fmt.Sprintf("circular reference detected: %s", strings.Join(e.Chain, " -> "))
	default:
		return fmt.Sprintf("reference %s: resolution failed", e.Ref)
	}
}
