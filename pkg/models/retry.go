package models

import "github.com/opnlabs/glci/pkg/reference"

// Retry models the retry keyword: a bare count (0 to 2) or the object
// form with when and exit_codes filters.
type Retry struct {
	Max       *int     `yaml:"max" validate:"omitempty,min=0,max=2"`
	When      []string `yaml:"when" validate:"omitempty,dive,oneof=always unknown_failure script_failure api_failure stuck_or_timeout_failure runner_system_failure runner_unsupported stale_schedule job_execution_timeout archived_failure unmet_prerequisites scheduler_failure data_integrity_failure"`
	ExitCodes []int    `yaml:"exit_codes"`
	Ref       *reference.Reference
	Extra     map[string]any
	scalar    bool
}

func parseRetry(path string, v any, errs *SchemaError) *Retry {
	switch val := v.(type) {
	case *reference.Reference:
		return &Retry{Ref: val}
	case int, int64, uint64:
		n, _ := asInt(path, val, errs)
		r := &Retry{Max: &n, scalar: true}
		checkTags(path, r, errs)
		return r
	case map[string]any:
		r := &Retry{}
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "max":
				if n, ok := asInt(joinPath(path, key), item, errs); ok {
					r.Max = &n
				}
			case "when":
				r.When, _ = asStringList(joinPath(path, key), item, errs)
			case "exit_codes":
				r.ExitCodes, _ = asIntList(joinPath(path, key), item, errs)
			default:
				r.Extra = setExtra(r.Extra, key, item)
			}
		}
		checkTags(path, r, errs)
		return r
	default:
		errs.mismatch(path, "an integer or a mapping", v)
		return nil
	}
}

func (r *Retry) serialize() any {
	if r.Ref != nil {
		return r.Ref
	}
	if r.scalar {
		return *r.Max
	}
	out := map[string]any{}
	if r.Max != nil {
		out["max"] = *r.Max
	}
	if r.When != nil {
		out["when"] = r.When
	}
	if r.ExitCodes != nil {
		out["exit_codes"] = r.ExitCodes
	}
	mergeExtra(out, r.Extra)
	return out
}
