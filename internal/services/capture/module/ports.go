package module

import (
	"net/http"

	capturedom "clicktrail/internal/services/capture/domain"
	capturesvc "clicktrail/internal/services/capture/service"
	"clicktrail/internal/session"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptCapturePort adapts the capture service to the domain port interface
type adaptCapturePort struct{ svc *capturesvc.Svc }

// StoreCookies implements the domain ServicePort interface
func (a adaptCapturePort) StoreCookies(r *http.Request, sess *session.Session, cookies map[string]string) {
	a.svc.StoreCookies(r, sess, cookies)
}

// Snapshot implements the domain ServicePort interface
func (a adaptCapturePort) Snapshot(sess *session.Session) capturedom.AttributionView {
	return a.svc.Snapshot(sess)
}

// Clear implements the domain ServicePort interface
func (a adaptCapturePort) Clear(sess *session.Session) { a.svc.Clear(sess) }
