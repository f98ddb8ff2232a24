package models

import "github.com/opnlabs/glci/pkg/reference"

// CacheKey is the key of a cache block: a plain string or the object
// form keyed on file contents. The two are mutually exclusive.
type CacheKey struct {
	Value  string
	Files  []string
	Prefix string
	Extra  map[string]any
	object bool
}

// Cache models a cache block. A job may carry one block or a list of
// blocks; parseCaches normalizes both forms.
type Cache struct {
	Key          *CacheKey
	Paths        []string
	Untracked    *bool
	Unprotect    *bool
	When         string `yaml:"when" validate:"omitempty,oneof=on_success on_failure always"`
	Policy       string `yaml:"policy" validate:"omitempty,oneof=pull push pull-push"`
	FallbackKeys []string
	Ref          *reference.Reference
	Extra        map[string]any
}

// parseCaches handles the cache keyword on jobs and defaults. A single
// mapping and a list of mappings are both accepted; single reports
// whether the source used the bare form so serialization can mirror it.
func parseCaches(path string, v any, errs *SchemaError) (caches []*Cache, single bool) {
	switch val := v.(type) {
	case *reference.Reference:
		return []*Cache{{Ref: val}}, true
	case map[string]any:
		return []*Cache{parseCache(path, val, errs)}, true
	case []any:
		out := make([]*Cache, 0, len(val))
		for i, item := range val {
			itemPath := indexPath(path, i)
			if ref, ok := item.(*reference.Reference); ok {
				out = append(out, &Cache{Ref: ref})
				continue
			}
			raw, ok := asMap(itemPath, item, errs)
			if !ok {
				continue
			}
			out = append(out, parseCache(itemPath, raw, errs))
		}
		return out, false
	default:
		errs.mismatch(path, "a mapping or a list of mappings", v)
		return nil, false
	}
}

func parseCache(path string, raw map[string]any, errs *SchemaError) *Cache {
	c := &Cache{}
	for _, key := range sortedKeys(raw) {
		item := raw[key]
		switch key {
		case "key":
			c.Key = parseCacheKey(joinPath(path, key), item, errs)
		case "paths":
			c.Paths, _ = asPathList(joinPath(path, key), item, errs)
		case "untracked":
			c.Untracked, _ = asBool(joinPath(path, key), item, errs)
		case "unprotect":
			c.Unprotect, _ = asBool(joinPath(path, key), item, errs)
		case "when":
			c.When, _ = asString(joinPath(path, key), item, errs)
		case "policy":
			c.Policy, _ = asString(joinPath(path, key), item, errs)
		case "fallback_keys":
			c.FallbackKeys, _ = asStringList(joinPath(path, key), item, errs)
		default:
			c.Extra = setExtra(c.Extra, key, item)
		}
	}
	if c.Paths == nil && c.Untracked == nil {
		errs.invariant(path, "cache requires paths or untracked")
	}
	checkTags(path, c, errs)
	return c
}

func parseCacheKey(path string, v any, errs *SchemaError) *CacheKey {
	switch val := v.(type) {
	case string:
		return &CacheKey{Value: val}
	case map[string]any:
		k := &CacheKey{object: true}
		hasKey := false
		hasFiles := false
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "key":
				k.Value, _ = asString(joinPath(path, key), item, errs)
				hasKey = true
			case "files":
				k.Files, _ = asPathList(joinPath(path, key), item, errs)
				hasFiles = true
			case "prefix":
				k.Prefix, _ = asString(joinPath(path, key), item, errs)
			default:
				k.Extra = setExtra(k.Extra, key, item)
			}
		}
		if hasKey && hasFiles {
			errs.invariant(path, "cannot specify both key and files")
		}
		if !hasKey && !hasFiles {
			errs.invariant(path, "cache key requires key or files")
		}
		if k.Prefix != "" && !hasFiles {
			errs.invariant(path, "prefix requires files")
		}
		return k
	default:
		errs.mismatch(path, "a string or a mapping", v)
		return nil
	}
}

func (c *Cache) serialize() any {
	if c.Ref != nil {
		return c.Ref
	}
	out := map[string]any{}
	if c.Key != nil {
		out["key"] = c.Key.serialize()
	}
	if c.Paths != nil {
		out["paths"] = c.Paths
	}
	if c.Untracked != nil {
		out["untracked"] = *c.Untracked
	}
	if c.Unprotect != nil {
		out["unprotect"] = *c.Unprotect
	}
	if c.When != "" {
		out["when"] = c.When
	}
	if c.Policy != "" {
		out["policy"] = c.Policy
	}
	if c.FallbackKeys != nil {
		out["fallback_keys"] = c.FallbackKeys
	}
	mergeExtra(out, c.Extra)
	return out
}

func serializeCaches(caches []*Cache, single bool) any {
	if single && len(caches) == 1 {
		return caches[0].serialize()
	}
	out := make([]any, 0, len(caches))
	for _, c := range caches {
		out = append(out, c.serialize())
	}
	return out
}

func (k *CacheKey) serialize() any {
	if !k.object {
		return k.Value
	}
	out := map[string]any{}
	if k.Value != "" {
		out["key"] = k.Value
	}
	if k.Files != nil {
		out["files"] = k.Files
	}
	if k.Prefix != "" {
		out["prefix"] = k.Prefix
	}
	mergeExtra(out, k.Extra)
	return out
}
