package models

import "github.com/opnlabs/glci/pkg/reference"

// NeedsEntry is one entry of the needs list: a bare job name or the
// object form with artifacts, optional and cross-pipeline fields.
type NeedsEntry struct {
	Job       string `yaml:"job"`
	Artifacts *bool
	Optional  *bool
	Pipeline  string `yaml:"pipeline"`
	Project   string `yaml:"project"`
	Ref       *reference.Reference
	Extra     map[string]any
	object    bool
}

// parseNeeds accepts a bare name, a list, or a reference placeholder.
// An explicitly empty list is meaningful (run immediately) and is
// preserved.
func parseNeeds(path string, v any, errs *SchemaError) []*NeedsEntry {
	switch val := v.(type) {
	case *reference.Reference:
		return []*NeedsEntry{{Ref: val}}
	case string:
		return []*NeedsEntry{{Job: val}}
	case []any:
		out := make([]*NeedsEntry, 0, len(val))
		for i, item := range val {
			entry := parseNeedsEntry(indexPath(path, i), item, errs)
			if entry != nil {
				out = append(out, entry)
			}
		}
		return out
	default:
		errs.mismatch(path, "a job name or a list", v)
		return nil
	}
}

func parseNeedsEntry(path string, v any, errs *SchemaError) *NeedsEntry {
	switch val := v.(type) {
	case *reference.Reference:
		return &NeedsEntry{Ref: val}
	case string:
		return &NeedsEntry{Job: val}
	case map[string]any:
		e := &NeedsEntry{object: true}
		hasJob := false
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "job":
				e.Job, _ = asString(joinPath(path, key), item, errs)
				hasJob = true
			case "artifacts":
				e.Artifacts, _ = asBool(joinPath(path, key), item, errs)
			case "optional":
				e.Optional, _ = asBool(joinPath(path, key), item, errs)
			case "pipeline":
				if s, ok := scalarString(item); ok {
					e.Pipeline = s
				} else {
					errs.mismatch(joinPath(path, key), "a scalar", item)
				}
			case "project":
				e.Project, _ = asString(joinPath(path, key), item, errs)
			default:
				e.Extra = setExtra(e.Extra, key, item)
			}
		}
		if !hasJob && e.Pipeline == "" {
			errs.missing(path, "job")
		}
		return e
	default:
		errs.mismatch(path, "a job name or a mapping", v)
		return nil
	}
}

func serializeNeeds(needs []*NeedsEntry) []any {
	out := make([]any, 0, len(needs))
	for _, e := range needs {
		out = append(out, e.serialize())
	}
	return out
}

func (e *NeedsEntry) serialize() any {
	if e.Ref != nil {
		return e.Ref
	}
	if !e.object {
		return e.Job
	}
	out := map[string]any{}
	if e.Job != "" {
		out["job"] = e.Job
	}
	if e.Artifacts != nil {
		out["artifacts"] = *e.Artifacts
	}
	if e.Optional != nil {
		out["optional"] = *e.Optional
	}
	if e.Pipeline != "" {
		out["pipeline"] = e.Pipeline
	}
	if e.Project != "" {
		out["project"] = e.Project
	}
	mergeExtra(out, e.Extra)
	return out
}
