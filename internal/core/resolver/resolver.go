// Package resolver turns a merged bag of captured signals into
// attribution answers: which click identifier wins, which Google
// click id applies, and which ad platform the visit came from.
package resolver

import (
	"strings"

	"clicktrail/internal/core/platforms"
)

// ClickID is a resolved click identifier.
type ClickID struct {
	Param    string
	Value    string
	Platform string
}

// Primary picks the highest-priority click identifier present in
// values. Candidates with empty or whitespace-only values are skipped.
// Equal priorities resolve to whichever parameter the registry declares
// first. Google gclid values arriving in the _gcl_aw envelope form
// ("GA1.1.<n>.<n>.<id>") are unwrapped to the trailing segment when the
// registry enables extraction.
func Primary(reg *platforms.Registry, values map[string]string) (ClickID, bool) {
	var best ClickID
	bestRank := -1
	for _, param := range reg.AllClickIDParameters() {
		v := strings.TrimSpace(values[param])
		if v == "" {
			continue
		}
		rank := reg.Priority(param)
		if rank <= bestRank {
			continue
		}
		p, _ := reg.PlatformForClickID(param)
		best = ClickID{Param: param, Value: normalize(reg, param, v), Platform: p.ID}
		bestRank = rank
	}
	if bestRank < 0 {
		return ClickID{}, false
	}
	return best, true
}

// PrimaryGoogle resolves the Google click id by the registry's Google
// priority order. At each rank the cookie-mapped value is preferred
// over the request parameter. Returns false when Google click-id
// handling is disabled or nothing usable is present.
func PrimaryGoogle(reg *platforms.Registry, values map[string]string) (ClickID, bool) {
	g := reg.Google()
	if !g.Enabled {
		return ClickID{}, false
	}
	for _, param := range g.Priority {
		v := strings.TrimSpace(values[g.CookieMapping[param]])
		if v == "" {
			v = strings.TrimSpace(values[param])
		}
		if v == "" {
			continue
		}
		return ClickID{Param: param, Value: normalize(reg, param, v), Platform: "google_ads"}, true
	}
	return ClickID{}, false
}

// normalize applies the gclid envelope extraction when configured.
// Stored _gcl_aw cookies carry "GA1.1.<version>.<ts>.<gclid>" and only
// the final dot-separated segment is the click id.
func normalize(reg *platforms.Registry, param, value string) string {
	if param != "gclid" || !reg.Google().ExtractGclidValue {
		return value
	}
	if i := strings.LastIndex(value, "."); i >= 0 {
		return value[i+1:]
	}
	return value
}

// sourceVariants maps each platform to the utm_source spellings seen in
// the wild. Order matters twice over: platforms are checked in listed
// order, and the exact-match pass runs over every platform before the
// looser substring pass starts.
var sourceVariants = []struct {
	platform string
	variants []string
}{
	{"google_ads", []string{"google", "google-ads", "googleads", "adwords"}},
	{"meta", []string{"facebook", "facebook_ads", "facebook-ads", "fb", "meta", "instagram", "ig"}},
	{"microsoft", []string{"bing", "microsoft", "bing-ads", "bingads", "msn"}},
	{"linkedin", []string{"linkedin", "linkedin_ads", "li"}},
	{"twitter", []string{"twitter", "twitter_ads", "x", "twitterads"}},
	{"pinterest", []string{"pinterest", "pinterest_ads", "pin"}},
	{"tiktok", []string{"tiktok", "tiktok_ads", "tiktokads", "tt"}},
	{"reddit", []string{"reddit", "reddit_ads"}},
	{"snapchat", []string{"snapchat", "snapchat_ads", "snap"}},
	{"amazon", []string{"amazon", "amazon_ads", "dsp"}},
	{"youtube", []string{"youtube", "yt"}},
}

// PlatformFromSource maps a utm_source value to a platform id. Exact
// variant matches win over substring matches.
func PlatformFromSource(source string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(source))
	if s == "" {
		return "", false
	}
	for _, e := range sourceVariants {
		for _, v := range e.variants {
			if s == v {
				return e.platform, true
			}
		}
	}
	for _, e := range sourceVariants {
		for _, v := range e.variants {
			if strings.Contains(s, v) {
				return e.platform, true
			}
		}
	}
	return "", false
}

// DetectPlatform identifies the ad platform behind a captured signal
// bag. Click identifiers are authoritative, so they are consulted
// before utm_source.
func DetectPlatform(reg *platforms.Registry, values map[string]string) (string, bool) {
	if id, ok := Primary(reg, values); ok {
		return id.Platform, true
	}
	if src, ok := values["utm_source"]; ok {
		return PlatformFromSource(src)
	}
	return "", false
}

// PlatformName resolves the display name for a detected platform id.
func PlatformName(reg *platforms.Registry, id string) string {
	return reg.DisplayName(id)
}
