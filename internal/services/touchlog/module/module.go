// Package module wires touchlog into the API using modkit
package module

import (
	"net/http"

	modkit "clicktrail/internal/modkit"
	"clicktrail/internal/modkit/httpkit"
	str "clicktrail/internal/platform/strings"
	touchhttp "clicktrail/internal/services/touchlog/http"
	touchrepo "clicktrail/internal/services/touchlog/repo"
	touchsvc "clicktrail/internal/services/touchlog/service"
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

	svc touchsvc.Service
}

// New constructs a touchlog module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("touchlog"), modkit.WithPrefix("/touches")}, opts...)...)

	var repo touchrepo.Repo
	if deps.CH != nil {
		repo = touchrepo.NewCH(deps.CH)
	}
	svc := touchsvc.New(repo)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptTouchlogPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		touchhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Service exposes the touchlog service to sibling modules
func (m *Module) Service() touchsvc.Service { return m.svc }

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
