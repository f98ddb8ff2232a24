package models

import (
	"reflect"
	"testing"
)

func TestJobTimeoutIsADurationPhrase(t *testing.T) {
	mustPipeline(t, "job:\n  script: make\n  timeout: 1 hour 30 minutes\n")
	mustPipeline(t, "job:\n  script: make\n  timeout: 2h20min\n")

	serr := pipelineErr(t, "job:\n  script: make\n  timeout: \"90\"\n")
	if !hasError(serr, InvariantViolation, "job.timeout", "duration phrase") {
		dumpErrors(t, serr)
		t.Fatal("expected a duration error for a bare number")
	}

	serr = pipelineErr(t, "job:\n  script: make\n  timeout: 90\n")
	if !hasError(serr, TypeMismatch, "job.timeout", "expected a string") {
		dumpErrors(t, serr)
		t.Fatal("expected a type mismatch for an integer timeout")
	}
}

func TestJobScriptRejectsNonStringElements(t *testing.T) {
	serr := pipelineErr(t, "job:\n  script:\n    - make\n    - 123\n")
	if !hasError(serr, TypeMismatch, "job.script[1]", "expected a string") {
		dumpErrors(t, serr)
		t.Fatal("expected an element type error")
	}
}

func TestJobWhenDelayedRequiresStartIn(t *testing.T) {
	serr := pipelineErr(t, "job:\n  script: make\n  when: delayed\n")
	if !hasError(serr, InvariantViolation, "job", "start_in") {
		dumpErrors(t, serr)
		t.Fatal("expected a start_in error")
	}

	mustPipeline(t, "job:\n  script: make\n  when: delayed\n  start_in: 30 minutes\n")
}

func TestJobEmptyNeedsIsPreserved(t *testing.T) {
	p := mustPipeline(t, "job:\n  script: make\n  needs: []\n")
	job, _ := p.Job("job")
	if job.Needs == nil || len(job.Needs) != 0 {
		t.Fatalf("expected an empty needs list, got %v", job.Needs)
	}
	out := p.Serialize()["job"].(map[string]any)
	needs, ok := out["needs"].([]any)
	if !ok || len(needs) != 0 {
		t.Fatalf("empty needs should serialize as an empty list, got %v", out["needs"])
	}
}

func TestJobNeedsObjectForm(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  needs:
    - build
    - job: lint
      artifacts: false
      optional: true
`)
	job, _ := p.Job("job")
	if len(job.Needs) != 2 {
		t.Fatalf("expected 2 needs, got %d", len(job.Needs))
	}
	if job.Needs[0].Job != "build" {
		t.Fatalf("unexpected first need: %+v", job.Needs[0])
	}
	second := job.Needs[1]
	if second.Job != "lint" || second.Artifacts == nil || *second.Artifacts ||
		second.Optional == nil || !*second.Optional {
		t.Fatalf("unexpected second need: %+v", second)
	}

	out := p.Serialize()["job"].(map[string]any)["needs"].([]any)
	if out[0] != "build" {
		t.Fatalf("bare needs should serialize bare, got %v", out[0])
	}
}

func TestJobAllowFailureForms(t *testing.T) {
	p := mustPipeline(t, `
a:
  script: make
  allow_failure: true
b:
  script: make
  allow_failure:
    exit_codes: [137, 255]
`)
	a, _ := p.Job("a")
	if a.AllowFailure.Value == nil || !*a.AllowFailure.Value {
		t.Fatalf("unexpected allow_failure: %+v", a.AllowFailure)
	}
	b, _ := p.Job("b")
	if !reflect.DeepEqual(b.AllowFailure.ExitCodes, []int{137, 255}) {
		t.Fatalf("unexpected exit codes: %v", b.AllowFailure.ExitCodes)
	}
}

func TestJobImageForms(t *testing.T) {
	p := mustPipeline(t, `
a:
  script: make
  image: alpine:3.19
b:
  script: make
  image:
    name: alpine:3.19
    entrypoint: ["/bin/sh", "-c"]
    pull_policy: if-not-present
`)
	a, _ := p.Job("a")
	if a.Image.Name != "alpine:3.19" {
		t.Fatalf("unexpected image: %+v", a.Image)
	}
	b, _ := p.Job("b")
	if !reflect.DeepEqual(b.Image.Entrypoint, []string{"/bin/sh", "-c"}) {
		t.Fatalf("unexpected entrypoint: %v", b.Image.Entrypoint)
	}
	if !reflect.DeepEqual(b.Image.PullPolicy, []string{"if-not-present"}) {
		t.Fatalf("unexpected pull policy: %v", b.Image.PullPolicy)
	}

	// The shorthand serializes back to a bare string.
	out := p.Serialize()["a"].(map[string]any)
	if out["image"] != "alpine:3.19" {
		t.Fatalf("unexpected serialization: %v", out["image"])
	}
}

func TestJobImagePullPolicyEnum(t *testing.T) {
	serr := pipelineErr(t, `
job:
  script: make
  image:
    name: alpine
    pull_policy: sometimes
`)
	if !hasError(serr, InvariantViolation, "job.image.pull_policy", "must be one of") {
		dumpErrors(t, serr)
		t.Fatal("expected a pull policy enum error")
	}
}

func TestJobServices(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  services:
    - postgres:16
    - name: redis:7
      alias: cache
      command: [redis-server, --appendonly, "yes"]
`)
	job, _ := p.Job("job")
	if len(job.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(job.Services))
	}
	if job.Services[0].Name != "postgres:16" {
		t.Fatalf("unexpected service: %+v", job.Services[0])
	}
	if job.Services[1].Alias != "cache" || len(job.Services[1].Command) != 3 {
		t.Fatalf("unexpected service: %+v", job.Services[1])
	}
}

func TestJobRetryObjectForm(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  retry:
    max: 2
    when: [runner_system_failure, stuck_or_timeout_failure]
    exit_codes: 137
`)
	job, _ := p.Job("job")
	if job.Retry.Max == nil || *job.Retry.Max != 2 {
		t.Fatalf("unexpected retry: %+v", job.Retry)
	}
	if !reflect.DeepEqual(job.Retry.ExitCodes, []int{137}) {
		t.Fatalf("exit_codes should coerce to a list, got %v", job.Retry.ExitCodes)
	}

	serr := pipelineErr(t, "job:\n  script: make\n  retry:\n    max: 2\n    when: [sometimes]\n")
	if !hasError(serr, InvariantViolation, "job.retry.when", "must be one of") {
		dumpErrors(t, serr)
		t.Fatal("expected a retry when enum error")
	}
}

func TestJobEnvironmentForms(t *testing.T) {
	p := mustPipeline(t, `
a:
  script: make
  environment: production
b:
  script: make
  environment:
    name: review/$CI_COMMIT_REF_SLUG
    url: https://example.com
    on_stop: stop-review
    auto_stop_in: 1 day
`)
	a, _ := p.Job("a")
	if a.Environment.Name != "production" {
		t.Fatalf("unexpected environment: %+v", a.Environment)
	}
	b, _ := p.Job("b")
	if b.Environment.OnStop != "stop-review" || b.Environment.AutoStopIn != "1 day" {
		t.Fatalf("unexpected environment: %+v", b.Environment)
	}

	serr := pipelineErr(t, `
job:
  script: make
  environment:
    url: https://example.com
`)
	if !hasError(serr, MissingField, "job.environment", "name") {
		dumpErrors(t, serr)
		t.Fatal("expected a missing name error")
	}
}

func TestJobEnvironmentActionEnum(t *testing.T) {
	serr := pipelineErr(t, `
job:
  script: make
  environment:
    name: production
    action: destroy
`)
	if !hasError(serr, InvariantViolation, "job.environment.action", "must be one of") {
		dumpErrors(t, serr)
		t.Fatal("expected an action enum error")
	}
}

func TestJobTriggerForms(t *testing.T) {
	p := mustPipeline(t, `
a:
  trigger: group/downstream
b:
  trigger:
    project: group/downstream
    branch: main
    strategy: depend
c:
  trigger:
    include: ci/child.yml
    forward:
      pipeline_variables: true
`)
	a, _ := p.Job("a")
	if a.Trigger.Project != "group/downstream" {
		t.Fatalf("unexpected trigger: %+v", a.Trigger)
	}
	b, _ := p.Job("b")
	if b.Trigger.Strategy != "depend" || b.Trigger.Branch != "main" {
		t.Fatalf("unexpected trigger: %+v", b.Trigger)
	}
	c, _ := p.Job("c")
	if c.Trigger.Include == nil || c.Trigger.Forward.PipelineVariables == nil {
		t.Fatalf("unexpected trigger: %+v", c.Trigger)
	}

	serr := pipelineErr(t, `
job:
  trigger:
    project: group/downstream
    include: ci/child.yml
`)
	if !hasError(serr, InvariantViolation, "job.trigger", "cannot specify both") {
		dumpErrors(t, serr)
		t.Fatal("expected an exclusivity error")
	}
}

func TestJobIDTokensAndSecrets(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  id_tokens:
    VAULT_TOKEN:
      aud: https://vault.example.com
  secrets:
    DB_PASSWORD:
      vault: production/db/password
`)
	job, _ := p.Job("job")
	token := job.IDTokens["VAULT_TOKEN"]
	if !reflect.DeepEqual(token.Aud, []string{"https://vault.example.com"}) {
		t.Fatalf("aud should coerce to a list, got %v", token.Aud)
	}
	if job.Secrets["DB_PASSWORD"].Vault != "production/db/password" {
		t.Fatalf("unexpected secret: %+v", job.Secrets["DB_PASSWORD"])
	}

	serr := pipelineErr(t, "job:\n  script: make\n  id_tokens:\n    T: {}\n")
	if !hasError(serr, MissingField, "job.id_tokens.T", "aud") {
		dumpErrors(t, serr)
		t.Fatal("expected a missing aud error")
	}
}

func TestJobInheritAndHooks(t *testing.T) {
	p := mustPipeline(t, `
job:
  script: make
  inherit:
    default: false
    variables: [CI_DEBUG]
  hooks:
    pre_get_sources_script: git config --global http.postBuffer 52428800
`)
	job, _ := p.Job("job")
	if job.Inherit.Default.All == nil || *job.Inherit.Default.All {
		t.Fatalf("unexpected inherit: %+v", job.Inherit.Default)
	}
	if !reflect.DeepEqual(job.Inherit.Variables.Names, []string{"CI_DEBUG"}) {
		t.Fatalf("unexpected inherit: %+v", job.Inherit.Variables)
	}
	if len(job.Hooks.PreGetSourcesScript.Lines) != 1 {
		t.Fatalf("unexpected hooks: %+v", job.Hooks)
	}
}

func TestJobReleaseRequiresTagName(t *testing.T) {
	serr := pipelineErr(t, `
job:
  script: make
  release:
    description: v1
`)
	if !hasError(serr, MissingField, "job.release", "tag_name") {
		dumpErrors(t, serr)
		t.Fatal("expected a missing tag_name error")
	}

	mustPipeline(t, `
job:
  script: make
  release:
    tag_name: v1.0.0
    description: First release.
    assets:
      links:
        - name: binary
          url: https://example.com/bin
          link_type: package
`)
}
