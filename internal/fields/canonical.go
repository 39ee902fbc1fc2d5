package fields

import "strings"

// CanonicalKey normalises a placeholder name or data key for lookup:
// lowercased, with spaces, hyphens and underscores removed.
func CanonicalKey(k string) string {
	var b strings.Builder
	b.Grow(len(k))
	for _, r := range strings.ToLower(k) {
		switch r {
		case ' ', '-', '_':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Values is personalisation data with canonical-key lookup.
type Values map[string]any

// Get returns the value for name, matching keys canonically.
func (v Values) Get(name string) (any, bool) {
	canon := CanonicalKey(name)
	for k, val := range v {
		if CanonicalKey(k) == canon {
			return val, true
		}
	}
	return nil, false
}

// AdditionalKeys returns the keys in v that match none of the given
// placeholder names, in no particular order.
func (v Values) AdditionalKeys(placeholders []string) []string {
	wanted := make(map[string]struct{}, len(placeholders))
	for _, p := range placeholders {
		wanted[CanonicalKey(p)] = struct{}{}
	}
	var extra []string
	for k := range v {
		if _, ok := wanted[CanonicalKey(k)]; !ok {
			extra = append(extra, k)
		}
	}
	return extra
}
