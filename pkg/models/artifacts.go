package models

import "github.com/opnlabs/glci/pkg/reference"

// ArtifactsReports is the reports mapping. Values are path lists for
// most report types; coverage_report uses a mapping form which is kept
// verbatim. The mapping is open, unknown report names are accepted.
type ArtifactsReports struct {
	Reports map[string]any
}

// Artifacts models the artifacts block. A metadata-only block (say,
// just expire_in or just reports) is valid; paths are not required.
type Artifacts struct {
	Paths     []string
	Exclude   []string
	ExpireIn  string `yaml:"expire_in"`
	ExposeAs  string `yaml:"expose_as"`
	Name      string
	Public    *bool
	Access    string `yaml:"access" validate:"omitempty,oneof=all developer none"`
	Untracked *bool
	When      string `yaml:"when" validate:"omitempty,oneof=on_success on_failure always"`
	Reports   *ArtifactsReports
	Ref       *reference.Reference
	Extra     map[string]any
}

func parseArtifacts(path string, v any, errs *SchemaError) *Artifacts {
	if ref, ok := v.(*reference.Reference); ok {
		return &Artifacts{Ref: ref}
	}
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	a := &Artifacts{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "paths":
			a.Paths, _ = asPathList(joinPath(path, key), item, errs)
		case "exclude":
			a.Exclude, _ = asPathList(joinPath(path, key), item, errs)
		case "expire_in":
			if s, ok := asString(joinPath(path, key), item, errs); ok {
				a.ExpireIn = s
				checkDuration(path, key, s, true, errs)
			}
		case "expose_as":
			a.ExposeAs, _ = asString(joinPath(path, key), item, errs)
		case "name":
			a.Name, _ = asString(joinPath(path, key), item, errs)
		case "public":
			a.Public, _ = asBool(joinPath(path, key), item, errs)
		case "access":
			a.Access, _ = asString(joinPath(path, key), item, errs)
		case "untracked":
			a.Untracked, _ = asBool(joinPath(path, key), item, errs)
		case "when":
			a.When, _ = asString(joinPath(path, key), item, errs)
		case "reports":
			a.Reports = parseReports(joinPath(path, key), item, errs)
		default:
			a.Extra = setExtra(a.Extra, key, item)
		}
	}
	checkTags(path, a, errs)
	return a
}

// parseReports normalizes each report entry: scalar-or-list values
// coerce to path lists, mapping values (coverage_report) pass through.
func parseReports(path string, v any, errs *SchemaError) *ArtifactsReports {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	r := &ArtifactsReports{Reports: make(map[string]any, len(raw))}
	for _, name := range sortedKeys(raw) {
		item := raw[name]
		switch item.(type) {
		case map[string]any, *reference.Reference:
			r.Reports[name] = item
		default:
			paths, ok := asPathList(joinPath(path, name), item, errs)
			if !ok {
				continue
			}
			r.Reports[name] = paths
		}
	}
	return r
}

func (a *Artifacts) serialize() any {
	if a.Ref != nil {
		return a.Ref
	}
	out := map[string]any{}
	if a.Paths != nil {
		out["paths"] = a.Paths
	}
	if a.Exclude != nil {
		out["exclude"] = a.Exclude
	}
	if a.ExpireIn != "" {
		out["expire_in"] = a.ExpireIn
	}
	if a.ExposeAs != "" {
		out["expose_as"] = a.ExposeAs
	}
	if a.Name != "" {
		out["name"] = a.Name
	}
	if a.Public != nil {
		out["public"] = *a.Public
	}
	if a.Access != "" {
		out["access"] = a.Access
	}
	if a.Untracked != nil {
		out["untracked"] = *a.Untracked
	}
	if a.When != "" {
		out["when"] = a.When
	}
	if a.Reports != nil {
		reports := make(map[string]any, len(a.Reports.Reports))
		for name, val := range a.Reports.Reports {
			reports[name] = val
		}
		out["reports"] = reports
	}
	mergeExtra(out, a.Extra)
	return out
}
