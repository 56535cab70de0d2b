// Package urlkit builds outbound tracking URLs: UTM tagging, platform
// ValueTrack and dynamic-parameter defaults, and expansion of the
// registry's tracking templates. Parameter order is insertion order so
// built URLs are deterministic.
package urlkit

import (
	"net/url"
	"sort"
	"strings"

	"clicktrail/internal/core/platforms"
)

// UTM carries the standard campaign tagging fields. Empty fields are
// not applied.
type UTM struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
	ID       string
}

type param struct {
	key   string
	value string
}

// Builder accumulates query parameters on top of a base URL.
type Builder struct {
	base   string
	params []param
	index  map[string]int
}

// New starts a builder for base.
func New(base string) *Builder {
	return &Builder{base: base, index: map[string]int{}}
}

func (b *Builder) set(key, value string) {
	if i, ok := b.index[key]; ok {
		b.params[i].value = value
		return
	}
	b.index[key] = len(b.params)
	b.params = append(b.params, param{key: key, value: value})
}

// WithUTM applies the non-empty UTM fields.
func (b *Builder) WithUTM(u UTM) *Builder {
	if u.Source != "" {
		b.set("utm_source", u.Source)
	}
	if u.Medium != "" {
		b.set("utm_medium", u.Medium)
	}
	if u.Campaign != "" {
		b.set("utm_campaign", u.Campaign)
	}
	if u.Term != "" {
		b.set("utm_term", u.Term)
	}
	if u.Content != "" {
		b.set("utm_content", u.Content)
	}
	if u.ID != "" {
		b.set("utm_id", u.ID)
	}
	return b
}

// WithParameter sets a single parameter, overwriting any prior value.
func (b *Builder) WithParameter(key, value string) *Builder {
	b.set(key, value)
	return b
}

// WithCustomParams applies params in sorted key order so chained
// builds stay deterministic.
func (b *Builder) WithCustomParams(params map[string]string) *Builder {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.set(k, params[k])
	}
	return b
}

// Without removes a parameter.
func (b *Builder) Without(key string) *Builder {
	i, ok := b.index[key]
	if !ok {
		return b
	}
	b.params = append(b.params[:i], b.params[i+1:]...)
	delete(b.index, key)
	for k, j := range b.index {
		if j > i {
			b.index[k] = j - 1
		}
	}
	return b
}

// WithoutParameters removes several parameters at once.
func (b *Builder) WithoutParameters(keys ...string) *Builder {
	for _, k := range keys {
		b.Without(k)
	}
	return b
}

// ClearParameters drops every accumulated parameter.
func (b *Builder) ClearParameters() *Builder {
	b.params = nil
	b.index = map[string]int{}
	return b
}

// Parameters returns a copy of the accumulated parameters.
func (b *Builder) Parameters() map[string]string {
	out := make(map[string]string, len(b.params))
	for _, p := range b.params {
		out[p.key] = p.value
	}
	return out
}

// WithTemplate merges the registry template registered under key, then
// custom on top. Missing templates are a no-op.
func (b *Builder) WithTemplate(reg *platforms.Registry, key string, custom map[string]string) *Builder {
	tpl, ok := reg.TrackingURL(key)
	if !ok || tpl == "" {
		return b.WithCustomParams(custom)
	}
	for _, p := range parseQuery(tpl) {
		b.set(p.key, p.value)
	}
	return b.WithCustomParams(custom)
}

// WithPlatform applies params, keeping only keys the platform declares.
// Disabled and unknown platforms accept nothing.
func (b *Builder) WithPlatform(reg *platforms.Registry, id string, params map[string]string) *Builder {
	p, ok := reg.Platform(id)
	if !ok || !p.Enabled {
		return b
	}
	allowed := make(map[string]struct{}, len(p.Parameters))
	for _, a := range p.Parameters {
		allowed[a] = struct{}{}
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		if _, ok := allowed[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.set(k, params[k])
	}
	return b
}

func (b *Builder) withDefaults(defaults []param, custom map[string]string) *Builder {
	for _, p := range defaults {
		b.set(p.key, p.value)
	}
	return b.WithCustomParams(custom)
}

// WithGoogleValueTrack applies the Google Ads ValueTrack mappings.
// Custom mappings override the defaults.
func (b *Builder) WithGoogleValueTrack(custom map[string]string) *Builder {
	return b.withDefaults([]param{
		{"mm_campaignid", "{campaignid}"},
		{"mm_adgroupid", "{adgroupid}"},
		{"mm_keyword", "{keyword}"},
		{"mm_matchtype", "{matchtype}"},
		{"mm_network", "{network}"},
		{"mm_device", "{device}"},
		{"mm_placement", "{placement}"},
		{"mm_creative", "{creative}"},
		{"gclid", "{gclid}"},
		{"gbraid", "{gbraid}"},
		{"wbraid", "{wbraid}"},
	}, custom)
}

// WithMetaDynamicParams applies Meta's dynamic URL parameters.
func (b *Builder) WithMetaDynamicParams(custom map[string]string) *Builder {
	return b.withDefaults([]param{
		{"mm_campaignid", "{{campaign.id}}"},
		{"mm_adgroupid", "{{adset.id}}"},
		{"mm_creative", "{{ad.id}}"},
		{"mm_placement", "{{placement}}"},
		{"mm_network", "{{site_source_name}}"},
		{"fbclid", "{{fbclid}}"},
	}, custom)
}

// WithMicrosoftAds applies Microsoft Advertising defaults.
func (b *Builder) WithMicrosoftAds(custom map[string]string) *Builder {
	return b.withDefaults([]param{
		{"utm_source", "bing"},
		{"utm_medium", "cpc"},
		{"msclkid", "{msclkid}"},
		{"utm_mscampaign", "{CampaignName}"},
		{"utm_msadgroup", "{AdGroupName}"},
		{"utm_mskeyword", "{keyword}"},
	}, custom)
}

// WithLinkedInAds applies LinkedIn defaults.
func (b *Builder) WithLinkedInAds(custom map[string]string) *Builder {
	return b.withDefaults([]param{
		{"utm_source", "linkedin"},
		{"utm_medium", "paid"},
		{"li_fat_id", "{li_fat_id}"},
	}, custom)
}

// WithTwitterAds applies Twitter/X defaults.
func (b *Builder) WithTwitterAds(custom map[string]string) *Builder {
	return b.withDefaults([]param{
		{"utm_source", "twitter"},
		{"utm_medium", "paid"},
		{"twclid", "{twclid}"},
	}, custom)
}

// WithTikTokAds applies TikTok defaults.
func (b *Builder) WithTikTokAds(custom map[string]string) *Builder {
	return b.withDefaults([]param{
		{"utm_source", "tiktok"},
		{"utm_medium", "paid"},
		{"ttclid", "{ttclid}"},
	}, custom)
}

// WithPinterestAds applies Pinterest defaults.
func (b *Builder) WithPinterestAds(custom map[string]string) *Builder {
	return b.withDefaults([]param{
		{"utm_source", "pinterest"},
		{"utm_medium", "paid"},
		{"epik", "{epik}"},
	}, custom)
}

// Build renders the final URL. Empty values are dropped; when nothing
// survives the base comes back untouched. The separator follows from
// whether the base already carries a query.
func (b *Builder) Build() string {
	var sb strings.Builder
	for _, p := range b.params {
		if p.value == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(p.key))
		sb.WriteByte('=')
		sb.WriteString(escape(p.value))
	}
	if sb.Len() == 0 {
		return b.base
	}
	sep := "?"
	if u, err := url.Parse(b.base); err == nil && u.RawQuery != "" {
		sep = "&"
	} else if err != nil && strings.Contains(b.base, "?") {
		sep = "&"
	}
	return b.base + sep + sb.String()
}

func (b *Builder) String() string { return b.Build() }

// escape percent-encodes a query component but passes brace-delimited
// macro tokens through verbatim so ad platforms can substitute them.
func escape(s string) string {
	var sb strings.Builder
	for len(s) > 0 {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			sb.WriteString(url.QueryEscape(s))
			break
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			sb.WriteString(url.QueryEscape(s))
			break
		}
		end += open
		// double-brace templates close with a run of braces
		for end+1 < len(s) && s[end+1] == '}' {
			end++
		}
		sb.WriteString(url.QueryEscape(s[:open]))
		sb.WriteString(s[open : end+1])
		s = s[end+1:]
	}
	return sb.String()
}

// parseQuery splits a raw querystring preserving parameter order.
// Later duplicates overwrite earlier ones.
func parseQuery(qs string) []param {
	var out []param
	seen := map[string]int{}
	for _, pair := range strings.Split(qs, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		if i, ok := seen[key]; ok {
			out[i].value = value
			continue
		}
		seen[key] = len(out)
		out = append(out, param{key: key, value: value})
	}
	return out
}

// GoogleAds starts a builder pre-tagged for Google Ads using the
// registry's template.
func GoogleAds(reg *platforms.Registry, base, campaign string) *Builder {
	return New(base).
		WithUTM(UTM{Source: "google", Medium: "cpc", Campaign: campaign}).
		WithTemplate(reg, "google_ads", nil)
}

// MetaAds starts a builder pre-tagged for Meta using the registry's
// template.
func MetaAds(reg *platforms.Registry, base, campaign string) *Builder {
	return New(base).
		WithUTM(UTM{Source: "facebook", Medium: "paid", Campaign: campaign}).
		WithTemplate(reg, "meta_ads", nil)
}

// FromTemplate expands the registry template registered under key,
// substituting {placeholder} for each replacement, and seeds a builder
// with the resulting parameters.
func FromTemplate(reg *platforms.Registry, base, key string, replacements map[string]string) *Builder {
	tpl, ok := reg.TrackingURL(key)
	if !ok || tpl == "" {
		return New(base)
	}
	repl := make([]string, 0, len(replacements)*2)
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		repl = append(repl, "{"+k+"}", replacements[k])
	}
	tpl = strings.NewReplacer(repl...).Replace(tpl)

	b := New(base)
	for _, p := range parseQuery(tpl) {
		b.set(p.key, p.value)
	}
	return b
}
