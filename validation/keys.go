package validation

import "sort"

// IsPlainObject reports whether x is a decoded JSON object. Arrays, scalars
// and nil are not.
func IsPlainObject(x any) bool {
	_, ok := x.(map[string]any)
	return ok
}

// Clean returns a copy of obj without its null-valued keys.
func Clean(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// OnlyAllowedKeys reports whether obj is a plain object whose keys all belong
// to allowed.
func OnlyAllowedKeys(obj any, allowed []string) bool {
	m, ok := obj.(map[string]any)
	if !ok {
		return false
	}
	set := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		set[k] = struct{}{}
	}
	for k := range m {
		if _, ok := set[k]; !ok {
			return false
		}
	}
	return true
}

// ExactKeys reports whether obj carries exactly the expected keys.
func ExactKeys(obj map[string]any, expected []string) bool {
	return len(obj) == len(expected) && OnlyAllowedKeys(obj, expected)
}

// Missing returns the expected keys absent from present, keeping the order of expected.
func Missing(expected, present []string) []string {
	have := make(map[string]struct{}, len(present))
	for _, k := range present {
		have[k] = struct{}{}
	}
	var out []string
	for _, k := range expected {
		if _, ok := have[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// UnknownKeys returns the keys of obj outside allowed, sorted.
func UnknownKeys(obj map[string]any, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		set[k] = struct{}{}
	}
	var out []string
	for k := range obj {
		if _, ok := set[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
