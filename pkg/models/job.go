package models

import "strings"

// Job is a single job of a pipeline, hidden template jobs included.
// A job with no script, run or trigger is still valid; many real jobs
// exist only to be extended.
type Job struct {
	Name          string
	Stage         string
	Extends       []string
	Script        *Commands     `validate:"-"`
	BeforeScript  *Commands     `validate:"-"`
	AfterScript   *Commands     `validate:"-"`
	Run           any
	Image         *Image        `validate:"-"`
	Services      []*Service    `validate:"-"`
	Variables     *Variables    `validate:"-"`
	Caches        []*Cache      `validate:"-"`
	Artifacts     *Artifacts    `validate:"-"`
	Rules         []*Rule       `validate:"-"`
	Needs         []*NeedsEntry `validate:"-"`
	Dependencies  []string
	Parallel      *Parallel     `validate:"-"`
	Retry         *Retry        `validate:"-"`
	Environment   *Environment  `validate:"-"`
	Release       *Release      `validate:"-"`
	Secrets       map[string]*Secret
	IDTokens      map[string]*IDToken
	Hooks         *Hooks             `validate:"-"`
	Identity      *Identity          `validate:"-"`
	Dast          *DastConfiguration `validate:"-"`
	Inherit       *Inherit           `validate:"-"`
	AllowFailure  *AllowFailure      `validate:"-"`
	Trigger       *Trigger           `validate:"-"`
	When          string `yaml:"when" validate:"omitempty,oneof=on_success on_failure always never manual delayed"`
	StartIn       string `yaml:"start_in"`
	Timeout       string `yaml:"timeout"`
	Coverage      string `yaml:"coverage"`
	Tags          []string
	ResourceGroup string `yaml:"resource_group"`
	Interruptible *bool
	Extra         map[string]any

	cacheSingle bool
	hasNeeds    bool
	hasDeps     bool
}

// Get looks a keyword up by its wire name, declared fields first and
// extension fields second, returning the raw serialized value.
func (j *Job) Get(key string) (any, bool) {
	v, ok := j.serialize()[key]
	return v, ok
}

// Hidden reports whether the job is a dot-prefixed template block.
// Hidden jobs are parsed and validated like any other job but are
// never scheduled.
func (j *Job) Hidden() bool {
	return strings.HasPrefix(j.Name, ".")
}

func parseJob(name, path string, raw map[string]any, errs *SchemaError) *Job {
	j := &Job{Name: name}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		keyPath := joinPath(path, key)
		switch key {
		case "stage":
			j.Stage, _ = asString(keyPath, item, errs)
		case "extends":
			j.Extends, _ = asStringList(keyPath, item, errs)
		case "script":
			j.Script = parseCommands(keyPath, item, errs)
		case "before_script":
			j.BeforeScript = parseCommands(keyPath, item, errs)
		case "after_script":
			j.AfterScript = parseCommands(keyPath, item, errs)
		case "run":
			j.Run = item
		case "image":
			j.Image = parseImage(keyPath, item, errs)
		case "services":
			j.Services = parseServices(keyPath, item, errs)
		case "variables":
			j.Variables = parseVariables(keyPath, item, errs)
		case "cache":
			j.Caches, j.cacheSingle = parseCaches(keyPath, item, errs)
		case "artifacts":
			j.Artifacts = parseArtifacts(keyPath, item, errs)
		case "rules":
			j.Rules = parseRules(keyPath, item, jobRule, errs)
		case "needs":
			j.Needs = parseNeeds(keyPath, item, errs)
			j.hasNeeds = true
		case "dependencies":
			j.Dependencies, _ = asStringList(keyPath, item, errs)
			j.hasDeps = true
		case "parallel":
			j.Parallel = parseParallel(keyPath, item, errs)
		case "retry":
			j.Retry = parseRetry(keyPath, item, errs)
		case "environment":
			j.Environment = parseEnvironment(keyPath, item, errs)
		case "release":
			j.Release = parseRelease(keyPath, item, errs)
		case "secrets":
			j.Secrets = parseSecrets(keyPath, item, errs)
		case "id_tokens":
			j.IDTokens = parseIDTokens(keyPath, item, errs)
		case "hooks":
			j.Hooks = parseHooks(keyPath, item, errs)
		case "identity":
			j.Identity = parseIdentity(keyPath, item, errs)
		case "dast_configuration":
			j.Dast = parseDastConfiguration(keyPath, item, errs)
		case "inherit":
			j.Inherit = parseInherit(keyPath, item, errs)
		case "allow_failure":
			j.AllowFailure = parseAllowFailure(keyPath, item, errs)
		case "trigger":
			j.Trigger = parseTrigger(keyPath, item, errs)
		case "when":
			j.When, _ = asString(keyPath, item, errs)
		case "start_in":
			if s, ok := asString(keyPath, item, errs); ok {
				j.StartIn = s
				checkDuration(path, key, s, false, errs)
			}
		case "timeout":
			if s, ok := asString(keyPath, item, errs); ok {
				j.Timeout = s
				checkDuration(path, key, s, false, errs)
			}
		case "coverage":
			if s, ok := asString(keyPath, item, errs); ok {
				j.Coverage = s
				if len(s) < 2 || !strings.HasPrefix(s, "/") || !strings.HasSuffix(s, "/") {
					errs.invariant(keyPath, "coverage must be a regular expression delimited by /")
				}
			}
		case "tags":
			j.Tags, _ = asStringList(keyPath, item, errs)
		case "resource_group":
			j.ResourceGroup, _ = asString(keyPath, item, errs)
		case "interruptible":
			j.Interruptible, _ = asBool(keyPath, item, errs)
		default:
			// only, except, pages and future keywords round-trip here.
			j.Extra = setExtra(j.Extra, key, item)
		}
	}

	if j.When == WhenDelayed && j.StartIn == "" {
		errs.invariant(path, "start_in is required when when is delayed")
	}
	if j.StartIn != "" && j.When != WhenDelayed && j.When != "" {
		errs.invariant(path, "start_in is only valid with when: delayed")
	}
	checkTags(path, j, errs)
	return j
}

func (j *Job) serialize() map[string]any {
	out := map[string]any{}
	if j.Stage != "" {
		out["stage"] = j.Stage
	}
	if j.Extends != nil {
		out["extends"] = j.Extends
	}
	if j.Script != nil {
		out["script"] = j.Script.serialize()
	}
	if j.BeforeScript != nil {
		out["before_script"] = j.BeforeScript.serialize()
	}
	if j.AfterScript != nil {
		out["after_script"] = j.AfterScript.serialize()
	}
	if j.Run != nil {
		out["run"] = j.Run
	}
	if j.Image != nil {
		out["image"] = j.Image.serialize()
	}
	if j.Services != nil {
		out["services"] = serializeServices(j.Services)
	}
	if j.Variables != nil {
		out["variables"] = j.Variables.serialize()
	}
	if j.Caches != nil {
		out["cache"] = serializeCaches(j.Caches, j.cacheSingle)
	}
	if j.Artifacts != nil {
		out["artifacts"] = j.Artifacts.serialize()
	}
	if j.Rules != nil {
		out["rules"] = serializeRules(j.Rules)
	}
	if j.hasNeeds {
		out["needs"] = serializeNeeds(j.Needs)
	}
	if j.hasDeps {
		out["dependencies"] = j.Dependencies
	}
	if j.Parallel != nil {
		out["parallel"] = j.Parallel.serialize()
	}
	if j.Retry != nil {
		out["retry"] = j.Retry.serialize()
	}
	if j.Environment != nil {
		out["environment"] = j.Environment.serialize()
	}
	if j.Release != nil {
		out["release"] = j.Release.serialize()
	}
	if j.Secrets != nil {
		out["secrets"] = serializeSecrets(j.Secrets)
	}
	if j.IDTokens != nil {
		out["id_tokens"] = serializeIDTokens(j.IDTokens)
	}
	if j.Hooks != nil {
		out["hooks"] = j.Hooks.serialize()
	}
	if j.Identity != nil {
		out["identity"] = j.Identity.serialize()
	}
	if j.Dast != nil {
		out["dast_configuration"] = j.Dast.serialize()
	}
	if j.Inherit != nil {
		out["inherit"] = j.Inherit.serialize()
	}
	if j.AllowFailure != nil {
		out["allow_failure"] = j.AllowFailure.serialize()
	}
	if j.Trigger != nil {
		out["trigger"] = j.Trigger.serialize()
	}
	if j.When != "" {
		out["when"] = j.When
	}
	if j.StartIn != "" {
		out["start_in"] = j.StartIn
	}
	if j.Timeout != "" {
		out["timeout"] = j.Timeout
	}
	if j.Coverage != "" {
		out["coverage"] = j.Coverage
	}
	if j.Tags != nil {
		out["tags"] = j.Tags
	}
	if j.ResourceGroup != "" {
		out["resource_group"] = j.ResourceGroup
	}
	if j.Interruptible != nil {
		out["interruptible"] = *j.Interruptible
	}
	mergeExtra(out, j.Extra)
	return out
}
