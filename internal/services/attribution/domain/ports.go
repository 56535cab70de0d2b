package domain

import (
	"context"

	"clicktrail/internal/session"
)

// ServicePort defines the service contract for attribution records
type ServicePort interface {
	Get(ctx context.Context, entityType, entityID string) (RecordView, error)
	SetValues(ctx context.Context, entityType, entityID string, in SetValuesInput) (RecordView, error)
	OnEntityCreated(ctx context.Context, entityType, entityID string, sess *session.Session) RecordView
	Clear(ctx context.Context, entityType, entityID string) error
}
