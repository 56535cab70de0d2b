// Package module wires capture into the API using modkit
package module

import (
	"net/http"

	"clicktrail/internal/core/platforms"
	modkit "clicktrail/internal/modkit"
	"clicktrail/internal/modkit/httpkit"
	"clicktrail/internal/platform/config"
	str "clicktrail/internal/platform/strings"
	capturehttp "clicktrail/internal/services/capture/http"
	capturesvc "clicktrail/internal/services/capture/service"
	"clicktrail/internal/session"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc   *capturesvc.Svc
	store *session.Store
}

// FromConfig reads the capture pipeline options from TRACKER_* keys.
func FromConfig(cfg config.Conf) capturesvc.Options {
	return capturesvc.Options{
		AppURL:         cfg.MayString("APP_URL", ""),
		CookieTracking: cfg.MayBool("COOKIES", true),
		ConsentEnabled: cfg.MayBool("CONSENT", false),
		RespectConsent: cfg.MayBool("CONSENT_RESPECT", true),
		ConsentCookie:  cfg.MayString("CONSENT_COOKIE", "cookie_consent"),
		DefaultConsent: map[string]bool{
			"functional":  true,
			"analytics":   cfg.MayBool("CONSENT_DEFAULT_ANALYTICS", false),
			"advertising": cfg.MayBool("CONSENT_DEFAULT_ADVERTISING", false),
		},
	}
}

// New constructs a capture module with the provided dependencies and options
func New(
	deps modkit.Deps,
	reg *platforms.Registry,
	store *session.Store,
	svcOpts capturesvc.Options,
	opts ...modkit.Option,
) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("capture"), modkit.WithPrefix("/attribution")}, opts...)...)

	svc := capturesvc.New(reg, svcOpts)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
		store:     store,
	}
	m.ports = adaptCapturePort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		capturehttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the capture service for cross-module wiring.
func (m *Module) Service() *capturesvc.Svc { return m.svc }

// Middleware returns the session-starting capture middleware for the
// outer router.
func (m *Module) Middleware() func(http.Handler) http.Handler {
	return capturesvc.Middleware(m.store, m.svc)
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
	r.Route("/marketing-cookies", func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		capturehttp.RegisterCookieSink(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
