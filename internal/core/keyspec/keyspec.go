// Package keyspec evaluates tracked key specifications against flat
// key/value sources such as query strings and cookie jars.
// A spec is either a literal key ("utm_source") or a prefix pattern with a
// single trailing '*' ("gad_*"); no other wildcard positions are interpreted
package keyspec

import "strings"

// SignalSet is the result of evaluating specs against a source.
// Literal matches sit at the top level as string values (nil marks a key
// that was checked but absent); wildcard matches nest under their group
// key as a map[string]string sub-map
type SignalSet map[string]any

// IsWildcard reports whether spec carries a trailing '*'
func IsWildcard(spec string) bool { return strings.HasSuffix(spec, "*") }

// Prefix returns the literal prefix of a wildcard spec (spec minus '*')
func Prefix(spec string) string { return strings.TrimSuffix(spec, "*") }

// GroupKey derives the logical nesting key for a wildcard spec: strip the
// trailing '*', then one trailing '_'-delimited segment when that leaves
// something, then one leading '_'.
// "gad_*" -> "gad", "_ga*" -> "ga", "mm_fb_*" -> "mm_fb"
func GroupKey(spec string) string {
	g := strings.TrimSuffix(spec, "*")
	if i := strings.LastIndex(g, "_"); i > 0 {
		g = g[:i]
	}
	return strings.TrimPrefix(g, "_")
}

// Match evaluates specs against available keys, case-sensitive and
// byte-literal. With keepUnmatched, literal specs that miss still emit a
// nil entry so callers can tell "checked but absent" from "never checked".
// Wildcard sub-maps drop empty values unless keepUnmatched is set, and an
// empty sub-map omits its group key entirely. Two specs sharing a group
// key merge their sub-maps, later spec winning per key
func Match(specs []string, available map[string]string, keepUnmatched bool) SignalSet {
	out := make(SignalSet, len(specs))

	for _, spec := range specs {
		if IsWildcard(spec) {
			prefix := Prefix(spec)
			sub := make(map[string]string)
			for k, v := range available {
				if !strings.HasPrefix(k, prefix) {
					continue
				}
				if v == "" && !keepUnmatched {
					continue
				}
				sub[k] = v
			}
			if len(sub) == 0 {
				continue
			}
			group := GroupKey(spec)
			if prev, ok := out[group].(map[string]string); ok {
				for k, v := range sub {
					prev[k] = v
				}
				continue
			}
			out[group] = sub
			continue
		}

		if v, ok := available[spec]; ok {
			out[spec] = v
			continue
		}
		if keepUnmatched {
			out[spec] = nil
		}
	}

	return out
}

// Get returns the top level string value for key if present and non-nil
func (s SignalSet) Get(key string) (string, bool) {
	v, ok := s[key]
	if !ok || v == nil {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Group returns the sub-map stored under a group key if present
func (s SignalSet) Group(key string) (map[string]string, bool) {
	v, ok := s[key].(map[string]string)
	return v, ok
}

// Compact returns a copy of s with nil entries removed.
// Sub-maps are kept as-is
func (s SignalSet) Compact() SignalSet {
	out := make(SignalSet, len(s))
	for k, v := range s {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// Flatten folds the set into a single-depth string map: top level string
// values verbatim, wildcard sub-map entries hoisted under their own keys
func (s SignalSet) Flatten() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		switch t := v.(type) {
		case string:
			out[k] = t
		case map[string]string:
			for sk, sv := range t {
				out[sk] = sv
			}
		}
	}
	return out
}
