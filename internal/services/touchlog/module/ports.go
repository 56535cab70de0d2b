package module

import (
	"context"

	touchdom "clicktrail/internal/services/touchlog/domain"
	touchsvc "clicktrail/internal/services/touchlog/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptTouchlogPort adapts the touchlog service to the domain port interface
type adaptTouchlogPort struct{ svc touchsvc.Service }

// Record implements the domain ServicePort interface
func (a adaptTouchlogPort) Record(ctx context.Context, t touchdom.Touch) error {
	return a.svc.Record(ctx, t)
}

// Recent implements the domain ServicePort interface
func (a adaptTouchlogPort) Recent(ctx context.Context, in touchdom.RecentInput) ([]touchdom.Touch, error) {
	return a.svc.Recent(ctx, in)
}
