// Package http provides http transport for touchlog
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clicktrail/internal/modkit/httpkit"
	"clicktrail/internal/services/touchlog/domain"
	svc "clicktrail/internal/services/touchlog/service"
)

// Register mounts touchlog endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/{entityType}/{entityID}", h.recent)
}

type handlers struct{ svc svc.Service }

func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return h.svc.Recent(r.Context(), domain.RecentInput{
		EntityType: chi.URLParam(r, "entityType"),
		EntityID:   chi.URLParam(r, "entityID"),
		Limit:      limit,
	})
}
