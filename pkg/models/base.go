// Package models defines the typed entities of a GitLab CI
// configuration document and the validation that turns a raw YAML
// tree into them. Every entity keeps unrecognized keys in an
// extension map and writes them back on serialization, so future
// keywords pass through unharmed.
package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkTags runs the struct-tag validators (enum membership, numeric
// ranges) on an entity and folds the resulting ValidationErrors into
// the accumulator, keyed by the field's yaml name.
func checkTags(path string, entity any, errs *SchemaError) {
	err := validate.Struct(entity)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.invariant(path, "validation failed: %v", err)
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		// Strip the "[i]" suffix validator appends for dive failures.
		if i := strings.IndexByte(field, '['); i > 0 {
			field = field[:i]
		}
		errs.invariant(joinPath(path, field), "%s", tagReason(fe))
	}
}

func tagReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("invalid value %v, must be one of: %s",
			fe.Value(), strings.Join(strings.Split(fe.Param(), " "), ", "))
	case "min":
		return fmt.Sprintf("value %v is below the minimum of %s", fe.Value(), fe.Param())
	case "max":
		return fmt.Sprintf("value %v is above the maximum of %s", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

// asString accepts only string scalars.
func asString(path string, v any, errs *SchemaError) (string, bool) {
	s, ok := v.(string)
	if !ok {
		errs.mismatch(path, "a string", v)
		return "", false
	}
	return s, true
}

func asBool(path string, v any, errs *SchemaError) (*bool, bool) {
	b, ok := v.(bool)
	if !ok {
		errs.mismatch(path, "a boolean", v)
		return nil, false
	}
	return &b, true
}

func asInt(path string, v any, errs *SchemaError) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		errs.mismatch(path, "an integer", v)
		return 0, false
	}
}

func asMap(path string, v any, errs *SchemaError) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		errs.mismatch(path, "a mapping", v)
		return nil, false
	}
	return m, true
}

// asStringList applies the scalar-or-list rule: a bare string becomes
// a one-element list, a list is used as-is (an explicitly empty list
// stays empty), anything else is a type mismatch. List elements must
// be strings.
func asStringList(path string, v any, errs *SchemaError) ([]string, bool) {
	switch val := v.(type) {
	case string:
		return []string{val}, true
	case []string:
		return val, true
	case []any:
		out := make([]string, 0, len(val))
		ok := true
		for i, item := range val {
			s, isStr := item.(string)
			if !isStr {
				errs.mismatch(indexPath(path, i), "a string", item)
				ok = false
				continue
			}
			out = append(out, s)
		}
		return out, ok
	default:
		errs.mismatch(path, "a string or a list of strings", v)
		return nil, false
	}
}

// asPathList is the scalar-or-list rule applied to file-path fields
// (paths, files, exclude and friends). Same coercion, kept separate so
// path-bearing fields read as such at call sites.
func asPathList(path string, v any, errs *SchemaError) ([]string, bool) {
	return asStringList(path, v, errs)
}

// asIntList coerces a bare integer or list of integers (exit_codes).
func asIntList(path string, v any, errs *SchemaError) ([]int, bool) {
	switch val := v.(type) {
	case int:
		return []int{val}, true
	case int64:
		return []int{int(val)}, true
	case []any:
		out := make([]int, 0, len(val))
		ok := true
		for i, item := range val {
			n, isInt := asInt(indexPath(path, i), item, errs)
			if !isInt {
				ok = false
				continue
			}
			out = append(out, n)
		}
		return out, ok
	default:
		errs.mismatch(path, "an integer or a list of integers", v)
		return nil, false
	}
}

// scalarString renders a YAML scalar for fields that accept any
// scalar but are modeled as strings (matrix values, id_tokens aud).
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprintf("%v", val), true
	default:
		return "", false
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int64, uint64, float64:
		return true
	default:
		return false
	}
}

// setExtra lazily stores an unrecognized key. Extension fields are
// never validated and always round-trip verbatim.
func setExtra(extra map[string]any, key string, v any) map[string]any {
	if extra == nil {
		extra = make(map[string]any)
	}
	extra[key] = v
	return extra
}

func mergeExtra(out map[string]any, extra map[string]any) {
	for k, v := range extra {
		out[k] = v
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
