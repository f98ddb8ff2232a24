// Package reference implements the !reference tag used by GitLab CI
// configuration files: a pointer from one part of the document into a
// field of another named block. References can either be resolved in
// place (substituting the referenced value) or carried through as
// opaque placeholders and re-emitted verbatim.
package reference

import (
	"fmt"
	"strings"
)

// Tag is the YAML tag that marks a reference node.
const Tag = "!reference"

// Reference points at a field inside another top-level block of the
// same document. An empty Path refers to the whole block.
type Reference struct {
	Block string
	Path  []string
}

// New returns a reference to the given block and field path.
func New(block string, path ...string) *Reference {
	return &Reference{Block: block, Path: path}
}

// String renders the reference using the original tag syntax, e.g.
// "!reference [.setup, script]".
func (r *Reference) String() string {
	parts := append([]string{r.Block}, r.Path...)
	return fmt.Sprintf("%s [%s]", Tag, strings.Join(parts, ", "))
}

// Key returns the identity of the reference: block name plus field
// path. Two references with the same key point at the same value.
func (r *Reference) Key() string {
	return strings.Join(append([]string{r.Block}, r.Path...), "\x00")
}

// Equal reports whether two references have the same target.
func (r *Reference) Equal(other *Reference) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Key() == other.Key()
}
