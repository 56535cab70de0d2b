// Package labels renders captured attribution keys and values for
// human consumption: tracking prefixes stripped, ValueTrack codes
// expanded, hidden bookkeeping parameters filtered out.
package labels

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clicktrail/internal/core/platforms"
)

var titler = cases.Title(language.English)

// networkCodes expands the ad-network ValueTrack codes the platforms
// substitute into tracking templates.
var networkCodes = map[string]string{
	"g":   "Google Search",
	"s":   "Search partner",
	"d":   "Display",
	"u":   "Smart Shopping",
	"ytv": "Youtube",
	"vp":  "Video Partner",
	"fb":  "Facebook",
	"ig":  "Instagram",
	"an":  "Audience Network",
	"msg": "Messenger",
	"o":   "Bing Search",
}

var deviceCodes = map[string]string{
	"m": "Mobile",
	"t": "Tablet",
	"c": "Computer",
}

var matchTypeCodes = map[string]string{
	"e": "Exact",
	"p": "Phrase",
	"b": "Broad",
}

var siteSourceCodes = map[string]string{
	"fb":  "Facebook",
	"ig":  "Instagram",
	"an":  "Audience Network",
	"msg": "Messenger",
}

var placementCodes = map[string]string{
	"facebook_desktop_feed": "Facebook Desktop Feed",
	"facebook_mobile_feed":  "Facebook Mobile Feed",
	"facebook_stories":      "Facebook Stories",
	"facebook_marketplace":  "Facebook Marketplace",
	"instagram_feed":        "Instagram Feed",
	"instagram_stories":     "Instagram Stories",
	"instagram_reels":       "Instagram Reels",
	"instagram_explore":     "Instagram Explore",
	"messenger_inbox":       "Messenger Inbox",
	"audience_network":      "Audience Network",
}

// Humanize turns a raw tracking key into a label: utm_ and mm_
// prefixes dropped, underscores spaced, title cased.
func Humanize(key string) string {
	k := strings.TrimPrefix(key, "utm_")
	k = strings.TrimPrefix(k, "mm_")
	return titler.String(strings.ReplaceAll(k, "_", " "))
}

// Network expands a network ValueTrack code, falling back to a
// humanized rendering of unknown codes.
func Network(code string) string {
	if n, ok := networkCodes[strings.ToLower(code)]; ok {
		return n
	}
	return titler.String(strings.ReplaceAll(code, "_", " "))
}

// Device expands the m/t/c device codes.
func Device(code string) string {
	if d, ok := deviceCodes[strings.ToLower(code)]; ok {
		return d
	}
	return code
}

// MatchType expands the e/p/b keyword match-type codes.
func MatchType(code string) string {
	if m, ok := matchTypeCodes[strings.ToLower(code)]; ok {
		return m
	}
	return code
}

// SiteSource expands Meta's site_source_name codes.
func SiteSource(code string) string {
	if s, ok := siteSourceCodes[strings.ToLower(code)]; ok {
		return s
	}
	return code
}

// Placement expands Meta placement identifiers.
func Placement(code string) string {
	if p, ok := placementCodes[strings.ToLower(code)]; ok {
		return p
	}
	return titler.String(strings.ReplaceAll(code, "_", " "))
}

// SourceMedium renders the "Source - Medium" composite used as the
// headline of a formatted record.
func SourceMedium(source, medium string) string {
	s := titler.String(source)
	m := titler.String(medium)
	switch {
	case s == "" && m == "":
		return ""
	case s == "":
		return m
	case m == "":
		return s
	}
	return s + " - " + m
}

// Headline truncates a campaign or term value, then title-cases it
// with underscore and dash delimiters collapsed to single spaces.
// Counting is by rune, not byte.
func Headline(value string, limit int) string {
	if limit > 0 && utf8.RuneCountInString(value) > limit {
		value = string([]rune(value)[:limit])
	}
	words := strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	return titler.String(strings.Join(words, " "))
}

// CompositeTerm joins a field with its term and renders the pair as a
// 30-rune headline.
func CompositeTerm(field, term string) string {
	switch {
	case field == "":
		field = term
	case term != "":
		field += " - " + term
	}
	return Headline(field, 30)
}

// Value formats a raw value according to the key's code table. Keys
// without a table pass through unchanged.
func Value(key, value string) string {
	switch key {
	case "mm_network":
		return Network(value)
	case "mm_device":
		return Device(value)
	case "mm_matchtype":
		return MatchType(value)
	case "mm_placement":
		return Placement(value)
	default:
		return value
	}
}

// Formatted builds the display view of a captured value set: hidden
// parameters removed, keys humanized, values expanded through the code
// tables. Later keys sharing a label overwrite earlier ones, which only
// happens when raw and prefixed spellings of the same field coexist.
func Formatted(reg *platforms.Registry, values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if reg.IsHidden(k) {
			continue
		}
		out[Humanize(k)] = Value(k, v)
	}
	return out
}
