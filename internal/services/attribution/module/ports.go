package module

import (
	"context"

	recordsdom "clicktrail/internal/services/attribution/domain"
	recordssvc "clicktrail/internal/services/attribution/service"
	"clicktrail/internal/session"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptRecordsPort adapts the records service to the domain port interface
type adaptRecordsPort struct{ svc recordssvc.Service }

// Get implements the domain ServicePort interface
func (a adaptRecordsPort) Get(ctx context.Context, entityType, entityID string) (recordsdom.RecordView, error) {
	return a.svc.Get(ctx, entityType, entityID)
}

// SetValues implements the domain ServicePort interface
func (a adaptRecordsPort) SetValues(
	ctx context.Context,
	entityType, entityID string,
	in recordsdom.SetValuesInput,
) (recordsdom.RecordView, error) {
	return a.svc.SetValues(ctx, entityType, entityID, in)
}

// OnEntityCreated implements the domain ServicePort interface
func (a adaptRecordsPort) OnEntityCreated(
	ctx context.Context,
	entityType, entityID string,
	sess *session.Session,
) recordsdom.RecordView {
	return a.svc.OnEntityCreated(ctx, entityType, entityID, sess)
}

// Clear implements the domain ServicePort interface
func (a adaptRecordsPort) Clear(ctx context.Context, entityType, entityID string) error {
	return a.svc.Clear(ctx, entityType, entityID)
}
