package models

import (
	"reflect"
	"testing"
)

func TestVariablesKeepScalarTypes(t *testing.T) {
	p := mustPipeline(t, `
variables:
  COUNT: 3
  RATIO: 0.5
  DEBUG: true
  NAME: prod
`)
	if got := p.Variables.Get("COUNT"); got != 3 {
		t.Fatalf("expected int 3, got %T %v", got, got)
	}
	if got := p.Variables.Get("RATIO"); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := p.Variables.Get("DEBUG"); got != true {
		t.Fatalf("expected true, got %v", got)
	}
	if got := p.Variables.Get("NAME"); got != "prod" {
		t.Fatalf("expected prod, got %v", got)
	}
	if p.Variables.Get("MISSING") != nil {
		t.Fatal("missing variables should return nil")
	}
}

func TestVariablesObjectForm(t *testing.T) {
	p := mustPipeline(t, `
variables:
  DEPLOY_ENV:
    value: staging
    description: Target environment.
    options: [staging, production]
`)
	v := p.Variables.Values["DEPLOY_ENV"]
	if !v.IsObject() {
		t.Fatal("expected the object form")
	}
	if v.Value != "staging" || v.Description == "" {
		t.Fatalf("unexpected value: %+v", v)
	}
	if !reflect.DeepEqual(v.Options, []string{"staging", "production"}) {
		t.Fatalf("unexpected options: %v", v.Options)
	}

	out := p.Serialize()["variables"].(map[string]any)
	obj := out["DEPLOY_ENV"].(map[string]any)
	if obj["value"] != "staging" {
		t.Fatalf("unexpected serialization: %v", obj)
	}
}

func TestVariablesScalarFormSerializesBare(t *testing.T) {
	p := mustPipeline(t, "variables:\n  COUNT: 3\n")
	out := p.Serialize()["variables"].(map[string]any)
	if out["COUNT"] != 3 {
		t.Fatalf("scalar variables should serialize bare, got %T", out["COUNT"])
	}
}

func TestJobVariablesReferencePlaceholder(t *testing.T) {
	p := mustPipeline(t, `
.defaults:
  variables:
    TIER: base

job:
  script: make
  variables: !reference [.defaults, variables]
`)
	job, _ := p.Job("job")
	if job.Variables.Ref == nil {
		t.Fatal("expected a whole-field placeholder")
	}
	out := p.Serialize()["job"].(map[string]any)
	if out["variables"] != job.Variables.Ref {
		t.Fatal("placeholder should serialize as-is")
	}
}

func TestVariablesRejectSequenceValue(t *testing.T) {
	serr := pipelineErr(t, "variables:\n  BAD: [a, b]\n")
	if !hasError(serr, TypeMismatch, "variables.BAD", "") {
		dumpErrors(t, serr)
		t.Fatal("expected a type mismatch")
	}
}
