// Package platforms carries the embedded ad-platform registry: which
// platforms exist, which query parameters and cookies belong to each,
// click-id priorities, Google click-id handling, and the tracking URL
// templates. The registry is compiled once at Load and is immutable
// after that.
package platforms

import (
	_ "embed"
	"encoding/json"

	"clicktrail/internal/platform/errors"
)

//go:embed platforms.json
var rawPack []byte

// Platform is one compiled ad-platform descriptor.
type Platform struct {
	ID             string
	Name           string
	Enabled        bool
	Parameters     []string
	Cookies        []string
	ClickIDParams  []string
	ClickIDCookies []string
}

// GoogleConfig drives the Google-specific click-id sub-resolution.
type GoogleConfig struct {
	Enabled           bool
	Priority          []string
	CookieMapping     map[string]string
	ExtractGclidValue bool
}

// WildcardConfig holds the prefix patterns applied on top of the
// per-platform parameter and cookie lists.
type WildcardConfig struct {
	Enabled           bool
	ParameterPatterns []string
	CookiePatterns    []string
}

// Registry is the compiled pack. All slices preserve declaration order
// from the embedded JSON, which is what makes equal-priority click-id
// ties deterministic.
type Registry struct {
	Version int

	trackedParams  []string
	trackedCookies []string
	hiddenParams   map[string]struct{}
	ignorePaths    []string

	wildcards WildcardConfig

	platforms []Platform
	byID      map[string]int

	priority map[string]int
	google   GoogleConfig

	cookieGroups map[string][]string
	trackingURLs map[string]string

	allParams   []string
	allCookies  []string
	allClickIDs []string
}

type rawRegistry struct {
	Version         int                 `json:"version"`
	TrackedParams   []string            `json:"tracked_parameters"`
	TrackedCookies  []string            `json:"tracked_cookies"`
	HiddenParams    []string            `json:"hidden_parameters"`
	IgnorePaths     []string            `json:"ignore_paths"`
	Wildcards       rawWildcards        `json:"wildcard_patterns"`
	Platforms       []rawPlatform       `json:"platforms"`
	ClickIDPriority map[string]int      `json:"click_id_priority"`
	GoogleClickIDs  rawGoogle           `json:"google_click_ids"`
	CookieGroups    map[string][]string `json:"cookie_groups"`
	TrackingURLs    map[string]string   `json:"tracking_urls"`
}

type rawPlatform struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Enabled        bool     `json:"enabled"`
	Parameters     []string `json:"parameters"`
	Cookies        []string `json:"cookies"`
	ClickIDParams  []string `json:"click_id_params"`
	ClickIDCookies []string `json:"click_id_cookies"`
}

type rawWildcards struct {
	Enabled           bool     `json:"enabled"`
	ParameterPatterns []string `json:"parameter_patterns"`
	CookiePatterns    []string `json:"cookie_patterns"`
}

type rawGoogle struct {
	Enabled           bool              `json:"enabled"`
	Priority          []string          `json:"priority"`
	CookieMapping     map[string]string `json:"cookie_mapping"`
	ExtractGclidValue bool              `json:"extract_gclid_value"`
}

// Load parses and compiles the embedded registry.
func Load() (*Registry, error) {
	var raw rawRegistry
	if err := json.Unmarshal(rawPack, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeUnknown, "platforms: parse embedded pack")
	}
	if len(raw.Platforms) == 0 {
		return nil, errors.Internalf("platforms: embedded pack has no platforms")
	}

	r := &Registry{
		Version:        raw.Version,
		trackedParams:  raw.TrackedParams,
		trackedCookies: raw.TrackedCookies,
		ignorePaths:    raw.IgnorePaths,
		wildcards: WildcardConfig{
			Enabled:           raw.Wildcards.Enabled,
			ParameterPatterns: raw.Wildcards.ParameterPatterns,
			CookiePatterns:    raw.Wildcards.CookiePatterns,
		},
		byID:     make(map[string]int, len(raw.Platforms)),
		priority: raw.ClickIDPriority,
		google: GoogleConfig{
			Enabled:           raw.GoogleClickIDs.Enabled,
			Priority:          raw.GoogleClickIDs.Priority,
			CookieMapping:     raw.GoogleClickIDs.CookieMapping,
			ExtractGclidValue: raw.GoogleClickIDs.ExtractGclidValue,
		},
		cookieGroups: raw.CookieGroups,
		trackingURLs: raw.TrackingURLs,
	}
	if r.priority == nil {
		r.priority = map[string]int{}
	}

	r.hiddenParams = make(map[string]struct{}, len(raw.HiddenParams))
	for _, p := range raw.HiddenParams {
		r.hiddenParams[p] = struct{}{}
	}

	r.platforms = make([]Platform, 0, len(raw.Platforms))
	for i, p := range raw.Platforms {
		if p.ID == "" {
			return nil, errors.Internalf("platforms: platform %d has no id", i)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, errors.Internalf("platforms: duplicate platform id %q", p.ID)
		}
		r.byID[p.ID] = len(r.platforms)
		r.platforms = append(r.platforms, Platform{
			ID:             p.ID,
			Name:           p.Name,
			Enabled:        p.Enabled,
			Parameters:     p.Parameters,
			Cookies:        p.Cookies,
			ClickIDParams:  p.ClickIDParams,
			ClickIDCookies: p.ClickIDCookies,
		})
	}

	r.compileUnions()
	return r, nil
}

// MustLoad is Load for wiring paths where a broken embedded pack is a
// programming error.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

// compileUnions precomputes the cross-platform aggregate lists in
// declaration order with duplicates removed.
func (r *Registry) compileUnions() {
	appendUniq := func(dst []string, seen map[string]struct{}, vals ...string) []string {
		for _, v := range vals {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			dst = append(dst, v)
		}
		return dst
	}

	seenP := map[string]struct{}{}
	seenC := map[string]struct{}{}
	seenID := map[string]struct{}{}
	for _, p := range r.platforms {
		if !p.Enabled {
			continue
		}
		r.allParams = appendUniq(r.allParams, seenP, p.Parameters...)
		r.allCookies = appendUniq(r.allCookies, seenC, p.Cookies...)
		r.allClickIDs = appendUniq(r.allClickIDs, seenID, p.ClickIDParams...)
		r.allClickIDs = appendUniq(r.allClickIDs, seenID, p.ClickIDCookies...)
	}
	if r.wildcards.Enabled {
		r.allParams = appendUniq(r.allParams, seenP, r.wildcards.ParameterPatterns...)
		r.allCookies = appendUniq(r.allCookies, seenC, r.wildcards.CookiePatterns...)
	}
}

// Platform returns the descriptor for id. Unknown ids come back as a
// zero-value disabled platform with ok=false.
func (r *Registry) Platform(id string) (Platform, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Platform{}, false
	}
	return r.platforms[i], true
}

// IsEnabled reports whether id names a known, enabled platform.
func (r *Registry) IsEnabled(id string) bool {
	p, ok := r.Platform(id)
	return ok && p.Enabled
}

// EnabledPlatforms returns the enabled descriptors in declaration order.
func (r *Registry) EnabledPlatforms() []Platform {
	out := make([]Platform, 0, len(r.platforms))
	for _, p := range r.platforms {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// DisplayName returns the platform's human name, or the id itself when
// the id is unknown.
func (r *Registry) DisplayName(id string) string {
	if p, ok := r.Platform(id); ok && p.Name != "" {
		return p.Name
	}
	return id
}

// TrackedParams is the configured list of request parameter specs to
// persist. Entries ending in '*' are prefix wildcards.
func (r *Registry) TrackedParams() []string { return r.trackedParams }

// TrackedCookies is the configured list of cookie specs to persist.
func (r *Registry) TrackedCookies() []string { return r.trackedCookies }

// IgnorePaths lists URL path prefixes the capture pipeline skips.
func (r *Registry) IgnorePaths() []string { return r.ignorePaths }

// IsHidden reports whether key is excluded from formatted output.
func (r *Registry) IsHidden(key string) bool {
	_, ok := r.hiddenParams[key]
	return ok
}

// AllTrackedParameters is the union of every enabled platform's
// parameters plus the global wildcard parameter patterns.
func (r *Registry) AllTrackedParameters() []string { return r.allParams }

// AllTrackedCookies is the union of every enabled platform's cookies
// plus the global wildcard cookie patterns.
func (r *Registry) AllTrackedCookies() []string { return r.allCookies }

// AllClickIDParameters is the union of click-id parameters and their
// cookie fallbacks across enabled platforms, in declaration order.
func (r *Registry) AllClickIDParameters() []string { return r.allClickIDs }

// Priority returns the resolution weight for a click-id parameter.
// Unknown parameters weigh 0, so they only win when nothing ranked is
// present.
func (r *Registry) Priority(param string) int { return r.priority[param] }

// Google returns the Google click-id sub-configuration.
func (r *Registry) Google() GoogleConfig { return r.google }

// Wildcards returns the global prefix-pattern configuration.
func (r *Registry) Wildcards() WildcardConfig { return r.wildcards }

// CookieGroup returns the consent group a cookie spec belongs to.
// Cookies outside every group are functional and always allowed.
func (r *Registry) CookieGroup(spec string) string {
	for group, specs := range r.cookieGroups {
		for _, s := range specs {
			if s == spec {
				return group
			}
		}
	}
	return "functional"
}

// TrackingURL returns the raw querystring template registered under key.
func (r *Registry) TrackingURL(key string) (string, bool) {
	t, ok := r.trackingURLs[key]
	return t, ok
}

// PlatformForClickID returns the platform owning the click-id parameter
// or cookie name, scanning enabled platforms in declaration order.
func (r *Registry) PlatformForClickID(param string) (Platform, bool) {
	for _, p := range r.platforms {
		if !p.Enabled {
			continue
		}
		for _, c := range p.ClickIDParams {
			if c == param {
				return p, true
			}
		}
		for _, c := range p.ClickIDCookies {
			if c == param {
				return p, true
			}
		}
	}
	return Platform{}, false
}
