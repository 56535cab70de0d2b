// Package service contains the capture pipeline: per-request signal
// extraction into the visitor session's utm, source, and cookie
// buckets.
package service

import (
	"net/http"
	"strings"

	"clicktrail/internal/core/keyspec"
	"clicktrail/internal/core/platforms"
	"clicktrail/internal/services/capture/domain"
	"clicktrail/internal/session"
)

// IntendedURLKey is the session key a login flow can set so redirects
// through auth pages do not clobber the real referrer.
const IntendedURLKey = "url.intended"

// referrerExclusions are substrings whose presence in a referrer marks
// it as an auth or framework hop rather than a traffic source.
var referrerExclusions = []string{
	"livewire",
	"oauth",
	"password",
	"reset",
	"apple.com",
}

// Options tunes the capture pipeline.
type Options struct {
	// AppURL is stripped from referrers when deriving source_path.
	AppURL string

	// CookieTracking enables the cookie bucket entirely.
	CookieTracking bool

	// ConsentEnabled turns on the consent cookie gate and
	// RespectConsent makes it binding.
	ConsentEnabled bool
	RespectConsent bool
	ConsentCookie  string

	// DefaultConsent applies when the consent cookie is absent or
	// unparseable.
	DefaultConsent map[string]bool
}

// Service defines the service contract for capture
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	reg  *platforms.Registry
	opts Options
}

// New creates a new capture service
func New(reg *platforms.Registry, opts Options) *Svc {
	if reg == nil {
		panic("capture.Service requires a non nil registry")
	}
	if opts.ConsentCookie == "" {
		opts.ConsentCookie = "cookie_consent"
	}
	return &Svc{reg: reg, opts: opts}
}

// ShouldIgnore reports whether the request path is excluded from
// capture. Matching is by path prefix.
func (s *Svc) ShouldIgnore(path string) bool {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for _, p := range s.reg.IgnorePaths() {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// CaptureRequest runs the full pipeline for one request: utm bucket
// with first-touch suppression, source bucket, then the consent-gated
// cookie bucket.
func (s *Svc) CaptureRequest(r *http.Request, sess *session.Session) {
	if s.ShouldIgnore(r.URL.Path) {
		return
	}
	s.setUTMValues(r, sess)
	s.setSourceValues(r, sess)
	s.captureRequestCookies(r, sess)
}

// setUTMValues extracts tracked parameters into the utm bucket. A
// session that already carries any utm data keeps it: the arriving
// request only wins when the bucket is empty. A repeat visit with the
// same gclid short-circuits before that check.
func (s *Svc) setUTMValues(r *http.Request, sess *session.Session) {
	if v, ok := sess.Get(session.BucketUTM); ok {
		data, _ := v.(map[string]any)
		storedSource, _ := data["utm_source"].(string)
		storedGclid, _ := data["gclid"].(string)
		reqGclid := r.URL.Query().Get("gclid")
		if reqGclid != "" && reqGclid == storedGclid {
			return
		}
		if storedGclid != "" || len(data) > 0 || storedSource != "" {
			return
		}
	}

	set := keyspec.Match(s.reg.TrackedParams(), queryValues(r), true)
	if _, tracked := set["landing_url"]; tracked {
		set["landing_url"] = requestURL(r)
	}
	if _, tracked := set["landing_path"]; tracked {
		p := r.URL.Path
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		set["landing_path"] = p
	}
	if _, tracked := set["landing_full_url"]; tracked {
		set["landing_full_url"] = fullURL(r)
	}

	compact := set.Compact()
	if len(compact) > 0 {
		sess.Put(session.BucketUTM, map[string]any(compact))
	}
}

// setSourceValues records where the visit came from. The referrer and
// derived source_path are captured once per session; previous_url,
// request_url, and referer_url refresh on every request.
func (s *Svc) setSourceValues(r *http.Request, sess *session.Session) {
	var src map[string]any
	if v, ok := sess.Get(session.BucketSource); ok {
		src, _ = v.(map[string]any)
	}
	if src == nil {
		sourceURL := r.Referer()
		if intended, ok := sess.Get(IntendedURLKey); ok {
			if iu, _ := intended.(string); iu != "" && containsAny(sourceURL, referrerExclusions) {
				sourceURL = iu
			}
		}
		sourcePath := ""
		if sourceURL != "" {
			sourcePath, _, _ = strings.Cut(sourceURL, "?")
			if s.opts.AppURL != "" {
				if _, after, found := strings.Cut(sourcePath, s.opts.AppURL); found {
					sourcePath = after
				}
			}
		}
		src = map[string]any{
			"source_url":  sourceURL,
			"source_path": sourcePath,
		}
	}

	src["previous_url"] = src["request_url"]
	src["request_url"] = requestURL(r)
	src["referer_url"] = r.Referer()
	sess.Put(session.BucketSource, src)
}

// captureRequestCookies feeds the request's cookie jar through the
// consent gate into the cookie bucket.
func (s *Svc) captureRequestCookies(r *http.Request, sess *session.Session) {
	jar := make(map[string]string, len(r.Cookies()))
	for _, c := range r.Cookies() {
		jar[c.Name] = c.Value
	}
	s.storeCookieValues(r, sess, jar)
}

// StoreCookies merges browser-collected cookies into the session. The
// consent gate still applies; untracked names are dropped.
func (s *Svc) StoreCookies(r *http.Request, sess *session.Session, cookies map[string]string) {
	s.storeCookieValues(r, sess, cookies)
}

func (s *Svc) storeCookieValues(r *http.Request, sess *session.Session, raw map[string]string) {
	if !s.opts.CookieTracking {
		return
	}

	consent := s.consentFor(r)
	allowed := make(map[string]string, len(raw))
	for name, value := range raw {
		spec, ok := matchingSpec(s.reg.TrackedCookies(), name)
		if !ok {
			continue
		}
		if !s.trackingAllowed(consent, s.reg.CookieGroup(spec)) {
			continue
		}
		allowed[name] = value
	}

	values := keyspec.Match(s.reg.TrackedCookies(), allowed, false)
	if len(values) > 0 {
		merged := sess.GetMap(session.BucketCookies)
		for k, v := range values {
			merged[k] = v
		}
		sess.Put(session.BucketCookies, merged)
	}

	// Mirror the freshly captured values into the utm bucket so a
	// single record read sees both.
	if utm, ok := sess.Get(session.BucketUTM); ok {
		if data, ok := utm.(map[string]any); ok {
			data["cookie_values"] = map[string]any(values)
			sess.Put(session.BucketUTM, data)
		}
	}
}

// Snapshot returns the current session buckets.
func (s *Svc) Snapshot(sess *session.Session) domain.AttributionView {
	return domain.AttributionView{
		UTM:     sess.GetMap(session.BucketUTM),
		Source:  sess.GetMap(session.BucketSource),
		Cookies: sess.GetMap(session.BucketCookies),
	}
}

// Clear drops every capture bucket from the session.
func (s *Svc) Clear(sess *session.Session) {
	sess.Forget(session.BucketUTM)
	sess.Forget(session.BucketSource)
	sess.Forget(session.BucketCookies)
}

// consentFor reads the visitor's consent cookie. Absent or invalid
// cookies fall back to the configured defaults on top of the baseline
// functional-only grant.
func (s *Svc) consentFor(r *http.Request) map[string]bool {
	base := map[string]bool{
		"functional":  true,
		"analytics":   false,
		"advertising": false,
	}
	for g, v := range s.opts.DefaultConsent {
		base[g] = v
	}
	if r == nil {
		return base
	}
	c, err := r.Cookie(s.opts.ConsentCookie)
	if err != nil || c.Value == "" {
		return base
	}
	parsed, ok := parseConsent(c.Value)
	if !ok {
		return base
	}
	return parsed
}

func (s *Svc) trackingAllowed(consent map[string]bool, group string) bool {
	if !s.opts.CookieTracking {
		return false
	}
	if !s.opts.ConsentEnabled || !s.opts.RespectConsent {
		return true
	}
	return consent[group]
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// matchingSpec finds the tracked-cookie spec covering name.
func matchingSpec(specs []string, name string) (string, bool) {
	for _, spec := range specs {
		if keyspec.IsWildcard(spec) {
			if strings.HasPrefix(name, keyspec.Prefix(spec)) {
				return spec, true
			}
			continue
		}
		if spec == name {
			return spec, true
		}
	}
	return "", false
}

func queryValues(r *http.Request) map[string]string {
	q := r.URL.Query()
	out := make(map[string]string, len(q))
	for k, vs := range q {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

func scheme(r *http.Request) string {
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		return p
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// requestURL is the request URL without its query string.
func requestURL(r *http.Request) string {
	return scheme(r) + "://" + r.Host + r.URL.Path
}

// fullURL keeps the query string.
func fullURL(r *http.Request) string {
	u := requestURL(r)
	if r.URL.RawQuery != "" {
		u += "?" + r.URL.RawQuery
	}
	return u
}
