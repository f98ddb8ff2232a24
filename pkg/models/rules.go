package models

import "github.com/opnlabs/glci/pkg/reference"

// RuleChanges is the changes condition: a bare list of glob patterns
// or the object form with paths and an optional compare_to ref.
type RuleChanges struct {
	Paths     []string
	CompareTo string
	Extra     map[string]any
	object    bool
}

// RuleExists is the exists condition: a bare list of glob patterns or
// the object form with paths and an optional project.
type RuleExists struct {
	Paths   []string
	Project string
	Extra   map[string]any
	object  bool
}

// Rule is one entry of a rules list. Job rules require at least one
// of if/changes/exists/when; workflow rules may be condition-free and
// carry only variables or auto_cancel.
type Rule struct {
	If            string `yaml:"if"`
	Changes       *RuleChanges
	Exists        *RuleExists
	When          string `yaml:"when" validate:"omitempty,oneof=on_success on_failure always never manual delayed"`
	StartIn       string `yaml:"start_in"`
	AllowFailure  *bool
	Variables     map[string]any
	Needs         []string
	Interruptible *bool
	AutoCancel    *AutoCancel `validate:"-"`
	Ref           *reference.Reference
	Extra         map[string]any
}

type ruleMode int

const (
	jobRule ruleMode = iota
	workflowRule
)

// parseRules accepts a single mapping, a list, or a reference; a bare
// mapping normalizes to a one-element list.
func parseRules(path string, v any, mode ruleMode, errs *SchemaError) []*Rule {
	switch val := v.(type) {
	case *reference.Reference:
		return []*Rule{{Ref: val}}
	case map[string]any:
		return []*Rule{parseRule(indexPath(path, 0), val, mode, errs)}
	case []any:
		out := make([]*Rule, 0, len(val))
		for i, item := range val {
			itemPath := indexPath(path, i)
			if ref, ok := item.(*reference.Reference); ok {
				out = append(out, &Rule{Ref: ref})
				continue
			}
			raw, ok := asMap(itemPath, item, errs)
			if !ok {
				continue
			}
			out = append(out, parseRule(itemPath, raw, mode, errs))
		}
		return out
	default:
		errs.mismatch(path, "a mapping or a list of mappings", v)
		return nil
	}
}

func parseRule(path string, raw map[string]any, mode ruleMode, errs *SchemaError) *Rule {
	r := &Rule{}
	conditional := false
	for _, key := range sortedKeys(raw) {
		v := raw[key]
		switch key {
		case "if", "if_":
			r.If, _ = asString(joinPath(path, "if"), v, errs)
			conditional = true
		case "changes":
			r.Changes = parseRuleChanges(joinPath(path, key), v, errs)
			conditional = true
		case "exists":
			r.Exists = parseRuleExists(joinPath(path, key), v, errs)
			conditional = true
		case "when":
			r.When, _ = asString(joinPath(path, key), v, errs)
			conditional = true
		case "start_in":
			r.StartIn, _ = asString(joinPath(path, key), v, errs)
		case "allow_failure":
			r.AllowFailure, _ = asBool(joinPath(path, key), v, errs)
		case "variables":
			r.Variables, _ = asMap(joinPath(path, key), v, errs)
		case "needs":
			r.Needs, _ = asStringList(joinPath(path, key), v, errs)
		case "interruptible":
			r.Interruptible, _ = asBool(joinPath(path, key), v, errs)
		case "auto_cancel":
			r.AutoCancel = parseAutoCancel(joinPath(path, key), v, errs)
		default:
			r.Extra = setExtra(r.Extra, key, v)
		}
	}

	if mode == jobRule && !conditional {
		errs.invariant(path, "at least one condition (if, changes, exists or when) is required")
	}
	checkTags(path, r, errs)
	return r
}

func parseRuleChanges(path string, v any, errs *SchemaError) *RuleChanges {
	switch val := v.(type) {
	case string, []any:
		paths, ok := asPathList(path, val, errs)
		if !ok {
			return nil
		}
		return &RuleChanges{Paths: paths}
	case map[string]any:
		c := &RuleChanges{object: true}
		seen := false
		for key, item := range val {
			switch key {
			case "paths":
				c.Paths, _ = asPathList(joinPath(path, key), item, errs)
				seen = true
			case "compare_to":
				c.CompareTo, _ = asString(joinPath(path, key), item, errs)
			default:
				c.Extra = setExtra(c.Extra, key, item)
			}
		}
		if !seen {
			errs.missing(path, "paths")
		}
		return c
	default:
		errs.mismatch(path, "a list of patterns or a mapping with paths", v)
		return nil
	}
}

func parseRuleExists(path string, v any, errs *SchemaError) *RuleExists {
	switch val := v.(type) {
	case string, []any:
		paths, ok := asPathList(path, val, errs)
		if !ok {
			return nil
		}
		return &RuleExists{Paths: paths}
	case map[string]any:
		e := &RuleExists{object: true}
		seen := false
		for key, item := range val {
			switch key {
			case "paths":
				e.Paths, _ = asPathList(joinPath(path, key), item, errs)
				seen = true
			case "project":
				e.Project, _ = asString(joinPath(path, key), item, errs)
			default:
				e.Extra = setExtra(e.Extra, key, item)
			}
		}
		if !seen {
			errs.missing(path, "paths")
		}
		return e
	default:
		errs.mismatch(path, "a list of patterns or a mapping with paths", v)
		return nil
	}
}

func serializeRules(rules []*Rule) []any {
	out := make([]any, 0, len(rules))
	for _, r := range rules {
		if r == nil {
			continue
		}
		out = append(out, r.serialize())
	}
	return out
}

func (r *Rule) serialize() any {
	if r.Ref != nil {
		return r.Ref
	}
	out := map[string]any{}
	if r.If != "" {
		out["if"] = r.If
	}
	if r.Changes != nil {
		out["changes"] = r.Changes.serialize()
	}
	if r.Exists != nil {
		out["exists"] = r.Exists.serialize()
	}
	if r.When != "" {
		out["when"] = r.When
	}
	if r.StartIn != "" {
		out["start_in"] = r.StartIn
	}
	if r.AllowFailure != nil {
		out["allow_failure"] = *r.AllowFailure
	}
	if r.Variables != nil {
		out["variables"] = r.Variables
	}
	if r.Needs != nil {
		out["needs"] = r.Needs
	}
	if r.Interruptible != nil {
		out["interruptible"] = *r.Interruptible
	}
	if r.AutoCancel != nil {
		out["auto_cancel"] = r.AutoCancel.serialize()
	}
	mergeExtra(out, r.Extra)
	return out
}

func (c *RuleChanges) serialize() any {
	if !c.object {
		return c.Paths
	}
	out := map[string]any{"paths": c.Paths}
	if c.CompareTo != "" {
		out["compare_to"] = c.CompareTo
	}
	mergeExtra(out, c.Extra)
	return out
}

func (e *RuleExists) serialize() any {
	if !e.object {
		return e.Paths
	}
	out := map[string]any{"paths": e.Paths}
	if e.Project != "" {
		out["project"] = e.Project
	}
	mergeExtra(out, e.Extra)
	return out
}
