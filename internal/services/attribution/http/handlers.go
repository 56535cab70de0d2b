// Package http provides http transport for attribution records
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"clicktrail/internal/modkit/httpkit"
	"clicktrail/internal/services/attribution/domain"
	svc "clicktrail/internal/services/attribution/service"
	"clicktrail/internal/session"
)

// Register mounts record endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/{entityType}/{entityID}", h.get)
	httpkit.PostJSON[domain.SetValuesInput](r, "/{entityType}/{entityID}/values", h.setValues)
	httpkit.Post(r, "/{entityType}/{entityID}/claim", h.claim)
}

type handlers struct{ svc svc.Service }

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), chi.URLParam(r, "entityType"), chi.URLParam(r, "entityID"))
}

func (h *handlers) setValues(r *stdhttp.Request, in domain.SetValuesInput) (any, error) {
	return h.svc.SetValues(r.Context(), chi.URLParam(r, "entityType"), chi.URLParam(r, "entityID"), in)
}

// claim binds the calling visitor's captured session buckets to the
// entity, consuming them
func (h *handlers) claim(r *stdhttp.Request) (any, error) {
	sess, _ := session.From(r.Context())
	return h.svc.OnEntityCreated(r.Context(), chi.URLParam(r, "entityType"), chi.URLParam(r, "entityID"), sess), nil
}
