package models

// AutoCancel models the auto_cancel block of workflow and rules.
type AutoCancel struct {
	OnNewCommit  string `yaml:"on_new_commit" validate:"omitempty,oneof=conservative interruptible none"`
	OnJobFailure string `yaml:"on_job_failure" validate:"omitempty,oneof=all none"`
	Extra        map[string]any
}

// Workflow models the top-level workflow block. Workflow rules may be
// condition-free, unlike job rules.
type Workflow struct {
	Name       string
	Rules      []*Rule     `validate:"-"`
	AutoCancel *AutoCancel `validate:"-"`
	Extra      map[string]any
}

func parseWorkflow(path string, v any, errs *SchemaError) *Workflow {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	w := &Workflow{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "name":
			w.Name, _ = asString(joinPath(path, key), item, errs)
		case "rules":
			w.Rules = parseRules(joinPath(path, key), item, workflowRule, errs)
		case "auto_cancel":
			w.AutoCancel = parseAutoCancel(joinPath(path, key), item, errs)
		default:
			w.Extra = setExtra(w.Extra, key, item)
		}
	}
	return w
}

func parseAutoCancel(path string, v any, errs *SchemaError) *AutoCancel {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	a := &AutoCancel{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "on_new_commit":
			a.OnNewCommit, _ = asString(joinPath(path, key), item, errs)
		case "on_job_failure":
			a.OnJobFailure, _ = asString(joinPath(path, key), item, errs)
		default:
			a.Extra = setExtra(a.Extra, key, item)
		}
	}
	checkTags(path, a, errs)
	return a
}

func (w *Workflow) serialize() map[string]any {
	out := map[string]any{}
	if w.Name != "" {
		out["name"] = w.Name
	}
	if w.Rules != nil {
		out["rules"] = serializeRules(w.Rules)
	}
	if w.AutoCancel != nil {
		out["auto_cancel"] = w.AutoCancel.serialize()
	}
	mergeExtra(out, w.Extra)
	return out
}

func (a *AutoCancel) serialize() map[string]any {
	out := map[string]any{}
	if a.OnNewCommit != "" {
		out["on_new_commit"] = a.OnNewCommit
	}
	if a.OnJobFailure != "" {
		out["on_job_failure"] = a.OnJobFailure
	}
	mergeExtra(out, a.Extra)
	return out
}
