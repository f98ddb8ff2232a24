package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/opnlabs/glci/pkg/loader"
)

// mustPipeline loads a document without resolving references and
// expects it to validate.
func mustPipeline(t *testing.T, doc string) *Pipeline {
	t.Helper()
	tree, err := loader.Load([]byte(doc), false)
	if err != nil {
		t.Fatal(err)
	}
	p, err := ParsePipeline(tree)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// pipelineErr loads a document and expects validation to fail,
// returning the aggregate.
func pipelineErr(t *testing.T, doc string) *SchemaError {
	t.Helper()
	tree, err := loader.Load([]byte(doc), false)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ParsePipeline(tree)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected a schema error, got %T", err)
	}
	return serr
}

// hasError reports whether the aggregate contains an error of the
// given kind whose path and reason contain the given substrings.
func hasError(serr *SchemaError, kind ErrorKind, pathPart, reasonPart string) bool {
	for _, fe := range serr.Errors {
		if fe.Kind == kind &&
			strings.Contains(fe.Path, pathPart) &&
			strings.Contains(fe.Reason, reasonPart) {
			return true
		}
	}
	return false
}

func dumpErrors(t *testing.T, serr *SchemaError) {
	t.Helper()
	for _, fe := range serr.Errors {
		t.Logf("  %s [%s]: %s", fe.Path, fe.Kind, fe.Reason)
	}
}
