// Package http provides http transport for capture
package http

import (
	stdhttp "net/http"

	"clicktrail/internal/modkit/httpkit"
	"clicktrail/internal/services/capture/domain"
	svc "clicktrail/internal/services/capture/service"
	"clicktrail/internal/session"
)

// Register mounts the attribution snapshot endpoints on the router.
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.snapshot)
	r.Delete("/", httpkit.Call(h.clear))
}

// RegisterCookieSink mounts the browser cookie sink.
func RegisterCookieSink(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.StoreCookiesInput](r, "/", h.storeCookies)
}

type handlers struct{ svc *svc.Svc }

func (h *handlers) snapshot(r *stdhttp.Request) (any, error) {
	sess, ok := session.From(r.Context())
	if !ok {
		return domain.AttributionView{
			UTM:     map[string]any{},
			Source:  map[string]any{},
			Cookies: map[string]any{},
		}, nil
	}
	return h.svc.Snapshot(sess), nil
}

func (h *handlers) clear(r *stdhttp.Request) (any, error) {
	if sess, ok := session.From(r.Context()); ok {
		h.svc.Clear(sess)
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) storeCookies(r *stdhttp.Request, in domain.StoreCookiesInput) (any, error) {
	sess, ok := session.From(r.Context())
	if !ok {
		// No session means nothing to attach the cookies to; accept
		// and drop rather than error the beacon.
		return httpkit.NoContent(), nil
	}
	h.svc.StoreCookies(r, sess, in.MarketingCookies)
	return httpkit.NoContent(), nil
}
