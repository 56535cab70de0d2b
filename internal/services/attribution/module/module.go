// Package module wires attribution records into the API using modkit
package module

import (
	"net/http"

	"clicktrail/internal/core/platforms"
	modkit "clicktrail/internal/modkit"
	"clicktrail/internal/modkit/httpkit"
	"clicktrail/internal/platform/config"
	str "clicktrail/internal/platform/strings"
	recordshttp "clicktrail/internal/services/attribution/http"
	recordsrepo "clicktrail/internal/services/attribution/repo"
	recordssvc "clicktrail/internal/services/attribution/service"
	touchdom "clicktrail/internal/services/touchlog/domain"
)

// FromConfig reads record options from the environment
func FromConfig(cfg config.Conf) recordssvc.Options {
	return recordssvc.Options{
		KeepSessionData: cfg.MayBool("KEEP_SESSION_DATA", false),
	}
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc recordssvc.Service
}

// New constructs a records module with the provided dependencies and options
func New(
	deps modkit.Deps,
	reg *platforms.Registry,
	touch touchdom.ServicePort,
	svcOpts recordssvc.Options,
	opts ...modkit.Option,
) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("records"), modkit.WithPrefix("/records")}, opts...)...)

	repo := recordsrepo.NewPG()
	svc := recordssvc.New(deps.PG, repo, reg, touch, svcOpts)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptRecordsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		recordshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the records service to sibling modules
func (m *Module) Service() recordssvc.Service { return m.svc }

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
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
