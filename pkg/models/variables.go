package models

import "github.com/opnlabs/glci/pkg/reference"

// VariableValue is one variable definition: a plain scalar (string,
// number or boolean, kept as-is) or the rich object form with value,
// description, expand and options.
type VariableValue struct {
	Value       any
	Description string
	Expand      *bool
	Options     []string
	Ref         *reference.Reference
	Extra       map[string]any
	object      bool
}

// IsObject reports whether the value used the rich mapping form.
func (v *VariableValue) IsObject() bool { return v.object }

// Variables is an open mapping of variable name to value. Ref is set
// when the whole mapping is an unresolved reference placeholder.
type Variables struct {
	Ref    *reference.Reference
	Values map[string]*VariableValue
}

// Get returns the scalar value for name, or nil when absent. Object
// variables yield their value field.
func (v *Variables) Get(name string) any {
	if v == nil || v.Values == nil {
		return nil
	}
	val, ok := v.Values[name]
	if !ok {
		return nil
	}
	if val.Ref != nil {
		return val.Ref
	}
	return val.Value
}

// Has reports whether name is defined.
func (v *Variables) Has(name string) bool {
	if v == nil {
		return false
	}
	_, ok := v.Values[name]
	return ok
}

func parseVariables(path string, v any, errs *SchemaError) *Variables {
	if ref, ok := v.(*reference.Reference); ok {
		return &Variables{Ref: ref}
	}
	raw, ok := asMap(path, v, errs)
	if !ok {
		return nil
	}
	vars := &Variables{Values: make(map[string]*VariableValue, len(raw))}
	for _, name := range sortedKeys(raw) {
		vars.Values[name] = parseVariableValue(joinPath(path, name), raw[name], errs)
	}
	return vars
}

func parseVariableValue(path string, v any, errs *SchemaError) *VariableValue {
	switch val := v.(type) {
	case *reference.Reference:
		return &VariableValue{Ref: val}
	case map[string]any:
		if _, hasValue := val["value"]; !hasValue {
			// Mapping without a value key: kept verbatim for forward
			// compatibility (nested structures are legal variable values).
			return &VariableValue{Value: val}
		}
		out := &VariableValue{object: true}
		for key, item := range val {
			switch key {
			case "value":
				out.Value = item
			case "description":
				out.Description, _ = asString(joinPath(path, key), item, errs)
			case "expand":
				out.Expand, _ = asBool(joinPath(path, key), item, errs)
			case "options":
				out.Options, _ = asStringList(joinPath(path, key), item, errs)
			default:
				out.Extra = setExtra(out.Extra, key, item)
			}
		}
		return out
	default:
		if !isScalar(v) {
			errs.mismatch(path, "a scalar or a mapping with a value key", v)
			return nil
		}
		return &VariableValue{Value: v}
	}
}

func (v *Variables) serialize() any {
	if v.Ref != nil {
		return v.Ref
	}
	out := make(map[string]any, len(v.Values))
	for name, val := range v.Values {
		if val == nil {
			continue
		}
		out[name] = val.serialize()
	}
	return out
}

func (v *VariableValue) serialize() any {
	if v.Ref != nil {
		return v.Ref
	}
	if !v.object {
		return v.Value
	}
	out := map[string]any{"value": v.Value}
	if v.Description != "" {
		out["description"] = v.Description
	}
	if v.Expand != nil {
		out["expand"] = *v.Expand
	}
	if v.Options != nil {
		out["options"] = v.Options
	}
	mergeExtra(out, v.Extra)
	return out
}
