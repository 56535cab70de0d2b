package domain

import (
	"net/http"

	"clicktrail/internal/session"
)

// ServicePort defines the service contract for capture
type ServicePort interface {
	StoreCookies(r *http.Request, sess *session.Session, cookies map[string]string)
	Snapshot(sess *session.Session) AttributionView
	Clear(sess *session.Session)
}
