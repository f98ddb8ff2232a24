package models

import "sort"

// Pipeline is a parsed configuration document: the reserved top-level
// blocks plus every job, hidden templates included. Unrecognized
// top-level keys that do not look like jobs live in Extra.
type Pipeline struct {
	Stages    []string
	Variables *Variables
	Workflow  *Workflow
	Default   *Default
	Includes  []*Include
	Jobs      map[string]*Job
	Extra     map[string]any

	hasStages     bool
	includeSingle bool
}

// ParsePipeline turns a raw document tree into a typed Pipeline. It
// never stops at the first problem: the returned error, when non-nil,
// is a *SchemaError carrying every violation found.
func ParsePipeline(raw map[string]any) (*Pipeline, error) {
	errs := &SchemaError{}
	p := &Pipeline{Jobs: make(map[string]*Job)}
	for _, key := range sortedKeys(raw) {
		v := raw[key]
		switch key {
		case "stages":
			p.Stages = parseStages(key, v, errs)
			p.hasStages = true
		case "variables":
			p.Variables = parseVariables(key, v, errs)
		case "workflow":
			p.Workflow = parseWorkflow(key, v, errs)
		case "default":
			p.Default = parseDefault(key, v, errs)
		case "include":
			p.Includes, p.includeSingle = parseIncludes(key, v, errs)
		default:
			p.parseTopLevel(key, v, errs)
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseTopLevel classifies a non-reserved key by its shape: a legal
// block name is a job and must hold a mapping; anything else is an
// extension field.
func (p *Pipeline) parseTopLevel(key string, v any, errs *SchemaError) {
	if !blockNamePattern.MatchString(key) {
		p.Extra = setExtra(p.Extra, key, v)
		return
	}
	if reservedJobNames[key] {
		errs.invariant(key, "%q is a reserved keyword and cannot be used as a job name", key)
		return
	}
	raw, ok := asMap(key, v, errs)
	if !ok {
		return
	}
	p.Jobs[key] = parseJob(key, key, raw, errs)
}

func parseStages(path string, v any, errs *SchemaError) []string {
	stages, ok := asStringList(path, v, errs)
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(stages))
	for i, stage := range stages {
		if !blockNamePattern.MatchString(stage) {
			errs.invariant(indexPath(path, i), "%q is not a valid stage name", stage)
			continue
		}
		if seen[stage] {
			errs.invariant(indexPath(path, i), "duplicate stage %q", stage)
			continue
		}
		seen[stage] = true
	}
	return stages
}

// Job returns the named job, hidden templates included.
func (p *Pipeline) Job(name string) (*Job, bool) {
	j, ok := p.Jobs[name]
	return j, ok
}

// JobNames returns every job name in sorted order.
func (p *Pipeline) JobNames() []string {
	names := make([]string, 0, len(p.Jobs))
	for name := range p.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StageNames returns the pipeline's stages with the implicit .pre and
// .post stages added: .pre always runs first and .post always last.
func (p *Pipeline) StageNames() []string {
	out := make([]string, 0, len(p.Stages)+2)
	out = append(out, StagePre)
	for _, stage := range p.Stages {
		if stage == StagePre || stage == StagePost {
			continue
		}
		out = append(out, stage)
	}
	out = append(out, StagePost)
	return out
}

// Serialize renders the pipeline back to a raw document tree. The
// result is equivalent to the input modulo key ordering; unresolved
// reference placeholders survive as *reference.Reference values.
func (p *Pipeline) Serialize() map[string]any {
	out := map[string]any{}
	if p.hasStages {
		out["stages"] = p.Stages
	}
	if p.Variables != nil {
		out["variables"] = p.Variables.serialize()
	}
	if p.Workflow != nil {
		out["workflow"] = p.Workflow.serialize()
	}
	if p.Default != nil {
		out["default"] = p.Default.serialize()
	}
	if p.Includes != nil {
		out["include"] = serializeIncludes(p.Includes, p.includeSingle)
	}
	for name, job := range p.Jobs {
		out[name] = job.serialize()
	}
	mergeExtra(out, p.Extra)
	return out
}
