package models

import (
	"reflect"
	"testing"
)

func TestRulesParseConditions(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  rules:
    - if: $CI_COMMIT_BRANCH == "main"
      when: always
    - changes:
        paths: [src/**]
        compare_to: main
    - exists: [Dockerfile]
      allow_failure: true
    - when: manual
`)
	job, _ := p.Job("job")
	if len(job.Rules) != 4 {
		t.Fatalf("expected 4 rules, got %d", len(job.Rules))
	}
	if job.Rules[0].If == "" || job.Rules[0].When != WhenAlways {
		t.Fatalf("unexpected first rule: %+v", job.Rules[0])
	}
	if !reflect.DeepEqual(job.Rules[1].Changes.Paths, []string{"src/**"}) {
		t.Fatalf("unexpected changes: %+v", job.Rules[1].Changes)
	}
	if job.Rules[1].Changes.CompareTo != "main" {
		t.Fatalf("unexpected compare_to: %+v", job.Rules[1].Changes)
	}
	if !reflect.DeepEqual(job.Rules[2].Exists.Paths, []string{"Dockerfile"}) {
		t.Fatalf("unexpected exists: %+v", job.Rules[2].Exists)
	}
	if job.Rules[2].AllowFailure == nil || !*job.Rules[2].AllowFailure {
		t.Fatal("expected allow_failure true")
	}
}

func TestJobRuleRequiresACondition(t *testing.T) {
	serr := pipelineErr(t, `
job:
  script: make
  rules:
    - allow_failure: true
`)
	if !hasError(serr, InvariantViolation, "job.rules[0]", "at least one condition") {
		dumpErrors(t, serr)
		t.Fatal("expected a condition error")
	}
}

func TestWorkflowRuleMayBeConditionFree(t *testing.T) {
	mustPipeline(t, `
workflow:
  rules:
    - variables:
        TIER: default
`)
}

func TestSingleRuleMappingNormalizesToList(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  rules:
    if: $CI_COMMIT_TAG
`)
	job, _ := p.Job("job")
	if len(job.Rules) != 1 || job.Rules[0].If != "$CI_COMMIT_TAG" {
		t.Fatalf("unexpected rules: %+v", job.Rules)
	}
}

func TestRuleIfAliasSerializesToIf(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  rules:
    - if_: $CI_COMMIT_TAG
`)
	job, _ := p.Job("job")
	if job.Rules[0].If != "$CI_COMMIT_TAG" {
		t.Fatalf("if_ alias not picked up: %+v", job.Rules[0])
	}
	out := p.Serialize()["job"].(map[string]any)
	rule := out["rules"].([]any)[0].(map[string]any)
	if rule["if"] != "$CI_COMMIT_TAG" {
		t.Fatalf("expected the canonical key, got %v", rule)
	}
	if _, ok := rule["if_"]; ok {
		t.Fatal("alias key should not survive serialization")
	}
}

func TestRuleChangesBareListSerializesBare(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  rules:
    - changes: [src/**]
`)
	out := p.Serialize()["job"].(map[string]any)
	rule := out["rules"].([]any)[0].(map[string]any)
	if _, ok := rule["changes"].([]string); !ok {
		t.Fatalf("bare changes should stay a list, got %T", rule["changes"])
	}
}

func TestRuleInvalidWhen(t *testing.T) {
	serr := pipelineErr(t, `
job:
  script: make
  rules:
    - if: $X
      when: whenever
`)
	if !hasError(serr, InvariantViolation, "job.rules[0].when", "must be one of") {
		dumpErrors(t, serr)
		t.Fatal("expected a when enum error")
	}
}

func TestRuleReferencePlaceholder(t *testing.T) {
	p := mustPipeline(t, `
.shared:
  rules:
    - if: $CI_COMMIT_TAG

job:
  script: make
  rules:
    - !reference [.shared, rules]
    - when: manual
`)
	job, _ := p.Job("job")
	if len(job.Rules) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(job.Rules))
	}
	if job.Rules[0].Ref == nil {
		t.Fatal("expected a placeholder entry")
	}
}
