package loader

import (
	"reflect"
	"strings"
	"testing"

	"github.com/opnlabs/glci/pkg/reference"
)

const refDocument = `
.setup:
  script:
    - apt update
    - apt install -y make

build:
  before_script:
    - !reference [.setup, script]
  script:
    - make build
`

func TestLoadKeepsReferencePlaceholders(t *testing.T) {
	tree, err := Load([]byte(refDocument), false)
	if err != nil {
		t.Fatal(err)
	}

	before := tree["build"].(map[string]any)["before_script"].([]any)
	ref, ok := before[0].(*reference.Reference)
	if !ok {
		t.Fatalf("expected a reference placeholder, got %T", before[0])
	}
	if !ref.Equal(reference.New(".setup", "script")) {
		t.Fatalf("unexpected reference target: %v", ref)
	}
}

func TestLoadResolvesReferences(t *testing.T) {
	tree, err := Load([]byte(refDocument), true)
	if err != nil {
		t.Fatal(err)
	}

	before := tree["build"].(map[string]any)["before_script"]
	want := []any{"apt update", "apt install -y make"}
	if !reflect.DeepEqual(before, want) {
		t.Fatalf("expected %v, got %v", want, before)
	}
}

func TestDumpReproducesReferenceTag(t *testing.T) {
	tree, err := Load([]byte(refDocument), false)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Dump(tree)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "!reference [.setup, script]") {
		t.Fatalf("dump lost the reference tag:\n%s", out)
	}

	reloaded, err := Load(out, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(reloaded, tree) {
		t.Fatal("dump then load should reproduce the tree")
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	tree, err := Load([]byte(""), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree) != 0 {
		t.Fatalf("expected an empty mapping, got %v", tree)
	}
}

func TestLoadRejectsNonMappingRoot(t *testing.T) {
	if _, err := Load([]byte("- a\n- b\n"), false); err == nil {
		t.Fatal("expected an error for a sequence root")
	}
}

func TestLoadScalarTypesSurvive(t *testing.T) {
	doc := `
variables:
  COUNT: 3
  RATIO: 0.5
  DEBUG: true
  NAME: prod
`
	tree, err := Load([]byte(doc), false)
	if err != nil {
		t.Fatal(err)
	}
	vars := tree["variables"].(map[string]any)
	if vars["COUNT"] != 3 {
		t.Fatalf("expected int 3, got %T %v", vars["COUNT"], vars["COUNT"])
	}
	if vars["RATIO"] != 0.5 {
		t.Fatalf("expected float 0.5, got %v", vars["RATIO"])
	}
	if vars["DEBUG"] != true {
		t.Fatalf("expected bool true, got %v", vars["DEBUG"])
	}
	if vars["NAME"] != "prod" {
		t.Fatalf("expected string prod, got %v", vars["NAME"])
	}
}

func TestLoadRejectsMalformedReference(t *testing.T) {
	if _, err := Load([]byte("a:\n  b: !reference []\n"), false); err == nil {
		t.Fatal("expected an error for an empty reference")
	}
	if _, err := Load([]byte("a:\n  b: !reference [[x], y]\n"), false); err == nil {
		t.Fatal("expected an error for non-string reference entries")
	}
}

func TestLoadAnchorsAndAliases(t *testing.T) {
	doc := `
.base: &base
  - make deps

job:
  before_script: *base
  script: make test
`
	tree, err := Load([]byte(doc), false)
	if err != nil {
		t.Fatal(err)
	}
	job := tree["job"].(map[string]any)
	if !reflect.DeepEqual(job["before_script"], []any{"make deps"}) {
		t.Fatalf("alias should expand, got %v", job["before_script"])
	}
}
