package service

import (
	"net/http"

	pnet "clicktrail/internal/platform/net"
	"clicktrail/internal/session"
)

// Middleware resolves the visitor session, runs the capture pipeline,
// and attaches the session to the request context. Ignored paths still
// get a session so endpoints like the cookie sink can reach it; the
// pipeline itself skips them.
func Middleware(store *session.Store, svc *Svc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := store.Start(w, r)
			svc.CaptureRequest(r, sess)
			ctx := session.With(r.Context(), sess)
			ctx = pnet.WithVisitor(ctx, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
