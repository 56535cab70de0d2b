package service

import "encoding/json"

// parseConsent decodes a JSON consent cookie of the form
// {"functional":true,"analytics":false,...}. Non-object payloads and
// broken JSON report ok=false so callers fall back to defaults.
func parseConsent(raw string) (map[string]bool, bool) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, false
	}
	out := make(map[string]bool, len(decoded))
	for g, v := range decoded {
		b, ok := v.(bool)
		if !ok {
			continue
		}
		out[g] = b
	}
	return out, true
}
