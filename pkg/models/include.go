package models

// IncludeKind discriminates the five include variants.
type IncludeKind string

const (
	IncludeLocal     IncludeKind = "local"
	IncludeProject   IncludeKind = "project"
	IncludeRemote    IncludeKind = "remote"
	IncludeTemplate  IncludeKind = "template"
	IncludeComponent IncludeKind = "component"
)

// Include is one entry of the top-level include list. Exactly one of
// the five location keys selects the variant; a bare string is
// shorthand for a local include.
type Include struct {
	Kind      IncludeKind
	Location  string
	Ref       string
	Files     []string
	Integrity string
	Inputs    map[string]any
	Rules     []*Rule
	Variables map[string]any
	Extra     map[string]any
	scalar    bool
}

// parseIncludes accepts a single entry or a list; entries are strings
// or mappings. single reports whether the source used the bare form so
// serialization can mirror it.
func parseIncludes(path string, v any, errs *SchemaError) (includes []*Include, single bool) {
	switch val := v.(type) {
	case string, map[string]any:
		inc := parseInclude(indexPath(path, 0), val, errs)
		if inc == nil {
			return nil, true
		}
		return []*Include{inc}, true
	case []any:
		out := make([]*Include, 0, len(val))
		for i, item := range val {
			inc := parseInclude(indexPath(path, i), item, errs)
			if inc != nil {
				out = append(out, inc)
			}
		}
		return out, false
	default:
		errs.add(path, InvalidInclude, "invalid include configuration: expected a string, mapping or list")
		return nil, false
	}
}

func parseInclude(path string, v any, errs *SchemaError) *Include {
	switch val := v.(type) {
	case string:
		return &Include{Kind: IncludeLocal, Location: val, scalar: true}
	case map[string]any:
		return parseIncludeMap(path, val, errs)
	default:
		errs.add(path, InvalidInclude, "invalid include configuration: expected a string or a mapping")
		return nil
	}
}

func parseIncludeMap(path string, raw map[string]any, errs *SchemaError) *Include {
	inc := &Include{}
	variants := 0
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "local":
			inc.Kind = IncludeLocal
			inc.Location, _ = asString(joinPath(path, key), item, errs)
			variants++
		case "project":
			inc.Kind = IncludeProject
			inc.Location, _ = asString(joinPath(path, key), item, errs)
			variants++
		case "remote":
			inc.Kind = IncludeRemote
			inc.Location, _ = asString(joinPath(path, key), item, errs)
			variants++
		case "template":
			inc.Kind = IncludeTemplate
			inc.Location, _ = asString(joinPath(path, key), item, errs)
			variants++
		case "component":
			inc.Kind = IncludeComponent
			inc.Location, _ = asString(joinPath(path, key), item, errs)
			variants++
		case "ref":
			inc.Ref, _ = asString(joinPath(path, key), item, errs)
		case "file":
			inc.Files, _ = asPathList(joinPath(path, key), item, errs)
		case "integrity":
			inc.Integrity, _ = asString(joinPath(path, key), item, errs)
		case "inputs":
			inc.Inputs, _ = asMap(joinPath(path, key), item, errs)
		case "rules":
			inc.Rules = parseRules(joinPath(path, key), item, workflowRule, errs)
		case "variables":
			inc.Variables, _ = asMap(joinPath(path, key), item, errs)
		default:
			inc.Extra = setExtra(inc.Extra, key, item)
		}
	}
	if variants == 0 {
		errs.add(path, InvalidInclude, "unknown include type")
		return nil
	}
	if variants > 1 {
		errs.add(path, InvalidInclude,
			"invalid include configuration: exactly one of local, project, remote, template or component is allowed")
		return nil
	}
	if inc.Kind == IncludeProject && len(inc.Files) == 0 {
		errs.add(path, InvalidInclude, "invalid include configuration: project include requires file")
	}
	return inc
}

func serializeIncludes(includes []*Include, single bool) any {
	if single && len(includes) == 1 {
		return includes[0].serialize()
	}
	out := make([]any, 0, len(includes))
	for _, inc := range includes {
		out = append(out, inc.serialize())
	}
	return out
}

func (i *Include) serialize() any {
	if i.scalar {
		return i.Location
	}
	out := map[string]any{string(i.Kind): i.Location}
	if i.Ref != "" {
		out["ref"] = i.Ref
	}
	if i.Files != nil {
		out["file"] = i.Files
	}
	if i.Integrity != "" {
		out["integrity"] = i.Integrity
	}
	if i.Inputs != nil {
		out["inputs"] = i.Inputs
	}
	if i.Rules != nil {
		out["rules"] = serializeRules(i.Rules)
	}
	if i.Variables != nil {
		out["variables"] = i.Variables
	}
	mergeExtra(out, i.Extra)
	return out
}
