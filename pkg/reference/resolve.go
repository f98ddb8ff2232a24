package reference

// Resolve walks the raw document tree and substitutes every reference
// with a deep copy of the value it points at. The value is itself
// resolved before substitution, so chained references expand fully.
// The input tree is never mutated; the returned tree shares no mutable
// state with it.
//
// A reference that appears as an element of a sequence and resolves to
// a sequence is spliced into the parent, so
//
//	script:
//	  - !reference [.setup, script]
//	  - make build
//
// yields a flat command list.
func Resolve(root map[string]any) (map[string]any, error) {
	r := &resolver{root: root, resolving: make(map[string]bool)}
	out, err := r.resolve(root)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

type resolver struct {
	root      map[string]any
	resolving map[string]bool
	chain     []string
}

func (r *resolver) resolve(v any) (any, error) {
	switch val := v.(type) {
	case *Reference:
		return r.resolveRef(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			resolved, err := r.resolve(item)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			ref, isRef := item.(*Reference)
			resolved, err := r.resolve(item)
			if err != nil {
				return nil, err
			}
			if isRef && ref != nil {
				// A reference to a list splices into the enclosing list.
				if seq, ok := resolved.([]any); ok {
					out = append(out, seq...)
					continue
				}
			}
			out = append(out, resolved)
		}
		return out, nil
	default:
		return v, nil
	}
}

func (r *resolver) resolveRef(ref *Reference) (any, error) {
	key := ref.Key()
	if r.resolving[key] {
		return nil, &Error{
			Kind:  CircularReference,
			Ref:   ref,
			Chain: append(append([]string{}, r.chain...), ref.String()),
		}
	}

	target, err := r.lookup(ref)
	if err != nil {
		return nil, err
	}

	r.resolving[key] = true
	r.chain = append(r.chain, ref.String())
	resolved, err := r.resolve(target)
	r.chain = r.chain[:len(r.chain)-1]
	delete(r.resolving, key)

	return resolved, err
}

func (r *resolver) lookup(ref *Reference) (any, error) {
	block, ok := r.root[ref.Block]
	if !ok {
		return nil, &Error{Kind: UnknownBlock, Ref: ref}
	}

	current := block
	for _, segment := range ref.Path {
		mapping, ok := current.(map[string]any)
		if !ok {
			return nil, &Error{Kind: UnknownField, Ref: ref}
		}
		current, ok = mapping[segment]
		if !ok {
			return nil, &Error{Kind: UnknownField, Ref: ref}
		}
	}
	return current, nil
}
