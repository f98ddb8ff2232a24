package models

// Default models the top-level default block: the subset of job
// keywords that apply to every job that does not override them.
type Default struct {
	Image         *Image     `validate:"-"`
	Services      []*Service `validate:"-"`
	BeforeScript  *Commands  `validate:"-"`
	AfterScript   *Commands  `validate:"-"`
	Caches        []*Cache   `validate:"-"`
	Artifacts     *Artifacts `validate:"-"`
	Retry         *Retry     `validate:"-"`
	Hooks         *Hooks     `validate:"-"`
	IDTokens      map[string]*IDToken
	Timeout       string
	Interruptible *bool
	Tags          []string
	Extra         map[string]any

	cacheSingle bool
}

func parseDefault(path string, v any, errs *SchemaError) *Default {
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	d := &Default{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		keyPath := joinPath(path, key)
		switch key {
		case "image":
			d.Image = parseImage(keyPath, item, errs)
		case "services":
			d.Services = parseServices(keyPath, item, errs)
		case "before_script":
			d.BeforeScript = parseCommands(keyPath, item, errs)
		case "after_script":
			d.AfterScript = parseCommands(keyPath, item, errs)
		case "cache":
			d.Caches, d.cacheSingle = parseCaches(keyPath, item, errs)
		case "artifacts":
			d.Artifacts = parseArtifacts(keyPath, item, errs)
		case "retry":
			d.Retry = parseRetry(keyPath, item, errs)
		case "hooks":
			d.Hooks = parseHooks(keyPath, item, errs)
		case "id_tokens":
			d.IDTokens = parseIDTokens(keyPath, item, errs)
		case "timeout":
			if s, ok := asString(keyPath, item, errs); ok {
				d.Timeout = s
				checkDuration(path, key, s, false, errs)
			}
		case "interruptible":
			d.Interruptible, _ = asBool(keyPath, item, errs)
		case "tags":
			d.Tags, _ = asStringList(keyPath, item, errs)
		default:
			d.Extra = setExtra(d.Extra, key, item)
		}
	}
	return d
}

func (d *Default) serialize() map[string]any {
	out := map[string]any{}
	if d.Image != nil {
		out["image"] = d.Image.serialize()
	}
	if d.Services != nil {
		out["services"] = serializeServices(d.Services)
	}
	if d.BeforeScript != nil {
		out["before_script"] = d.BeforeScript.serialize()
	}
	if d.AfterScript != nil {
		out["after_script"] = d.AfterScript.serialize()
	}
	if d.Caches != nil {
		out["cache"] = serializeCaches(d.Caches, d.cacheSingle)
	}
	if d.Artifacts != nil {
		out["artifacts"] = d.Artifacts.serialize()
	}
	if d.Retry != nil {
		out["retry"] = d.Retry.serialize()
	}
	if d.Hooks != nil {
		out["hooks"] = d.Hooks.serialize()
	}
	if d.IDTokens != nil {
		out["id_tokens"] = serializeIDTokens(d.IDTokens)
	}
	if d.Timeout != "" {
		out["timeout"] = d.Timeout
	}
	if d.Interruptible != nil {
		out["interruptible"] = *d.Interruptible
	}
	if d.Tags != nil {
		out["tags"] = d.Tags
	}
	mergeExtra(out, d.Extra)
	return out
}
