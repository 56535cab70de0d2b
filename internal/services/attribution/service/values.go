package service

import (
	"encoding/json"
	"strings"

	"clicktrail/internal/core/keyspec"
	"clicktrail/internal/core/platforms"
)

// blank reports whether a value should delete its key instead of being
// stored. Booleans and numbers always count as filled
func blank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	case map[string]string:
		return len(t) == 0
	default:
		return false
	}
}

// decodeValue unwraps string values that carry serialized structures.
// Anything that fails to decode comes back verbatim
func decodeValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return v
	}
	var out any
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return v
	}
	return out
}

// flatten folds a record's mixed-depth map into single-depth strings:
// top level strings verbatim, sub-map string entries hoisted under
// their own keys
func flatten(data map[string]any) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		switch t := v.(type) {
		case string:
			out[k] = t
		case map[string]string:
			for sk, sv := range t {
				out[sk] = sv
			}
		case map[string]any:
			for sk, sv := range t {
				if s, ok := sv.(string); ok {
					out[sk] = s
				}
			}
		}
	}
	return out
}

// vocabulary is the set of keys a record may carry: tracked parameter
// and cookie specs, their wildcard group keys, and the cookie mirror
type vocabulary map[string]struct{}

func buildVocabulary(reg *platforms.Registry) vocabulary {
	v := vocabulary{"cookie_values": {}}
	specs := make([]string, 0, len(reg.TrackedParams())+len(reg.TrackedCookies()))
	specs = append(specs, reg.TrackedParams()...)
	specs = append(specs, reg.TrackedCookies()...)
	for _, spec := range specs {
		if keyspec.IsWildcard(spec) {
			v[keyspec.GroupKey(spec)] = struct{}{}
			continue
		}
		v[spec] = struct{}{}
	}
	return v
}

func (v vocabulary) allows(key string) bool {
	_, ok := v[key]
	return ok
}
