package models

import "github.com/opnlabs/glci/pkg/reference"

// Parallel models the parallel keyword: a bare count between 2 and
// 200, or a matrix of variable combinations.
type Parallel struct {
	Count  int
	Matrix []map[string][]string
	Ref    *reference.Reference
	Extra  map[string]any
}

func parseParallel(path string, v any, errs *SchemaError) *Parallel {
	switch val := v.(type) {
	case *reference.Reference:
		return &Parallel{Ref: val}
	case int, int64, uint64:
		n, _ := asInt(path, val, errs)
		p := &Parallel{Count: n}
		if n < 2 {
			errs.invariant(path, "value %d is below the minimum of 2", n)
		} else if n > 200 {
			errs.invariant(path, "value %d is above the maximum of 200", n)
		}
		return p
	case map[string]any:
		p := &Parallel{}
		hasMatrix := false
		for _, key := range sortedKeys(val) {
			item := val[key]
			switch key {
			case "matrix":
				p.Matrix = parseMatrix(joinPath(path, key), item, errs)
				hasMatrix = true
			default:
				p.Extra = setExtra(p.Extra, key, item)
			}
		}
		if !hasMatrix {
			errs.missing(path, "matrix")
		}
		return p
	default:
		errs.mismatch(path, "an integer or a mapping with matrix", v)
		return nil
	}
}

// parseMatrix validates the matrix: a non-empty list of mappings whose
// values coerce to lists of scalars rendered as strings.
func parseMatrix(path string, v any, errs *SchemaError) []map[string][]string {
	items, ok := v.([]any)
	if !ok {
		errs.mismatch(path, "a list of mappings", v)
		return nil
	}
	if len(items) == 0 {
		errs.invariant(path, "matrix must not be empty")
		return nil
	}
	out := make([]map[string][]string, 0, len(items))
	for i, item := range items {
		itemPath := indexPath(path, i)
		raw, ok := asMap(itemPath, item, errs)
		if !ok {
			continue
		}
		entry := make(map[string][]string, len(raw))
		for _, name := range sortedKeys(raw) {
			valPath := joinPath(itemPath, name)
			var values []string
			switch vv := raw[name].(type) {
			case []any:
				values = make([]string, 0, len(vv))
				for j, el := range vv {
					s, ok := scalarString(el)
					if !ok {
						errs.mismatch(indexPath(valPath, j), "a scalar", el)
						continue
					}
					values = append(values, s)
				}
			default:
				s, ok := scalarString(vv)
				if !ok {
					errs.mismatch(valPath, "a scalar or a list of scalars", vv)
					continue
				}
				values = []string{s}
			}
			entry[name] = values
		}
		out = append(out, entry)
	}
	return out
}

func (p *Parallel) serialize() any {
	if p.Ref != nil {
		return p.Ref
	}
	if p.Matrix == nil {
		return p.Count
	}
	matrix := make([]any, 0, len(p.Matrix))
	for _, entry := range p.Matrix {
		m := make(map[string]any, len(entry))
		for name, values := range entry {
			m[name] = values
		}
		matrix = append(matrix, m)
	}
	out := map[string]any{"matrix": matrix}
	mergeExtra(out, p.Extra)
	return out
}
