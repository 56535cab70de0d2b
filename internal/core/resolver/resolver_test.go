package resolver

import (
	"testing"

	"clicktrail/internal/core/platforms"
)

func reg(t *testing.T) *platforms.Registry {
	t.Helper()
	r, err := platforms.Load()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return r
}

func TestPrimary_HighestPriorityWins(t *testing.T) {
	r := reg(t)

	id, ok := Primary(r, map[string]string{
		"fbclid":  "fb-123",
		"msclkid": "ms-456",
		"gclid":   "g-789",
	})
	if !ok {
		t.Fatal("no click id resolved")
	}
	if id.Param != "gclid" || id.Value != "g-789" {
		t.Fatalf("resolved %+v, want gclid g-789", id)
	}
	if id.Platform != "google_ads" {
		t.Fatalf("platform = %q", id.Platform)
	}
}

func TestPrimary_EqualPriorityResolvesByDeclarationOrder(t *testing.T) {
	r := reg(t)

	// gbraid and wbraid both weigh 1; gbraid is declared first.
	id, ok := Primary(r, map[string]string{
		"wbraid": "w-1",
		"gbraid": "g-1",
	})
	if !ok {
		t.Fatal("no click id resolved")
	}
	if id.Param != "gbraid" {
		t.Fatalf("param = %q, want gbraid", id.Param)
	}
}

func TestPrimary_SkipsEmptyAndWhitespaceValues(t *testing.T) {
	r := reg(t)

	id, ok := Primary(r, map[string]string{
		"gclid":  "   ",
		"fbclid": "",
		"ttclid": "tt-1",
	})
	if !ok {
		t.Fatal("no click id resolved")
	}
	if id.Param != "ttclid" || id.Value != "tt-1" {
		t.Fatalf("resolved %+v, want ttclid tt-1", id)
	}

	if _, ok := Primary(r, map[string]string{"gclid": " "}); ok {
		t.Fatal("whitespace-only bag resolved")
	}
	if _, ok := Primary(r, nil); ok {
		t.Fatal("nil bag resolved")
	}
}

func TestPrimary_ExtractsGclidEnvelope(t *testing.T) {
	r := reg(t)

	id, ok := Primary(r, map[string]string{
		"gclid": "GA1.1.123456789.1234567890.test_value",
	})
	if !ok {
		t.Fatal("no click id resolved")
	}
	if id.Value != "test_value" {
		t.Fatalf("value = %q, want test_value", id.Value)
	}

	// Plain gclid values pass through untouched.
	id, _ = Primary(r, map[string]string{"gclid": "plain_gclid"})
	if id.Value != "plain_gclid" {
		t.Fatalf("value = %q", id.Value)
	}

	// Other parameters keep their dots.
	id, _ = Primary(r, map[string]string{"fbclid": "IwAR1.abc.def"})
	if id.Value != "IwAR1.abc.def" {
		t.Fatalf("fbclid value = %q", id.Value)
	}
}

func TestPrimaryGoogle_PriorityAndCookiePreference(t *testing.T) {
	r := reg(t)

	// Parameter only.
	id, ok := PrimaryGoogle(r, map[string]string{"wbraid": "w-1"})
	if !ok || id.Param != "wbraid" || id.Value != "w-1" {
		t.Fatalf("resolved %+v ok=%v", id, ok)
	}

	// Cookie beats parameter at the same rank.
	id, ok = PrimaryGoogle(r, map[string]string{
		"gclid":   "param_gclid",
		"_gcl_aw": "GA1.1.1.1.cookie_gclid",
	})
	if !ok || id.Value != "cookie_gclid" {
		t.Fatalf("resolved %+v ok=%v, want cookie_gclid", id, ok)
	}

	// gclid rank beats wbraid even when wbraid is present.
	id, ok = PrimaryGoogle(r, map[string]string{
		"wbraid": "w-1",
		"gclid":  "g-1",
	})
	if !ok || id.Param != "gclid" {
		t.Fatalf("resolved %+v ok=%v, want gclid", id, ok)
	}

	if _, ok := PrimaryGoogle(r, map[string]string{"fbclid": "x"}); ok {
		t.Fatal("non-google bag resolved")
	}
}

func TestPlatformFromSource(t *testing.T) {
	cases := []struct {
		source string
		want   string
		ok     bool
	}{
		{"google", "google_ads", true},
		{"adwords", "google_ads", true},
		{"Facebook", "meta", true},
		{"IG", "meta", true},
		{"bing-ads", "microsoft", true},
		{"  tiktok  ", "tiktok", true},
		{"yt", "youtube", true},
		// the substring pass is greedy: "newsletter" contains "tt"
		{"newsletter", "tiktok", true},
		{"", "", false},
		{"organic", "", false},
	}
	for _, tc := range cases {
		got, ok := PlatformFromSource(tc.source)
		if got != tc.want || ok != tc.ok {
			t.Errorf("PlatformFromSource(%q) = %q, %v; want %q, %v", tc.source, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPlatformFromSource_ExactBeatsSubstring(t *testing.T) {
	// "fb" is an exact meta variant. A substring-only pass would let
	// "google"'s entry never see it, but ordering still matters for
	// sources that only match by containment.
	if got, _ := PlatformFromSource("fb"); got != "meta" {
		t.Fatalf("fb = %q", got)
	}
	// "googleads.something" matches google by substring.
	if got, _ := PlatformFromSource("googleads.g.doubleclick"); got != "google_ads" {
		t.Fatalf("substring match = %q", got)
	}
}

func TestDetectPlatform(t *testing.T) {
	r := reg(t)

	// Click id wins over utm_source.
	got, ok := DetectPlatform(r, map[string]string{
		"utm_source": "facebook",
		"gclid":      "g-1",
	})
	if !ok || got != "google_ads" {
		t.Fatalf("got %q ok=%v", got, ok)
	}

	// utm_source fallback.
	got, ok = DetectPlatform(r, map[string]string{"utm_source": "pinterest"})
	if !ok || got != "pinterest" {
		t.Fatalf("got %q ok=%v", got, ok)
	}

	if _, ok := DetectPlatform(r, map[string]string{"utm_medium": "cpc"}); ok {
		t.Fatal("detected platform from nothing")
	}
}

func TestPlatformName(t *testing.T) {
	r := reg(t)
	if got := PlatformName(r, "microsoft"); got != "Microsoft Ads" {
		t.Fatalf("got %q", got)
	}
	if got := PlatformName(r, "unknown_net"); got != "unknown_net" {
		t.Fatalf("got %q", got)
	}
}
