package store

import "context"

type (
	sessionKey struct{}
	reqIDKey   struct{}
	entityKey  struct{}
)

// EntityRef identifies the owning record for entity scoped queries
type EntityRef struct {
	Type string
	ID   string
}

// WithSession attaches a visitor session id to the context
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionID retrieves a session id from context if present
func SessionID(ctx context.Context) (string, bool) {
	v := ctx.Value(sessionKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// WithEntity attaches the owning entity reference to the context
func WithEntity(ctx context.Context, entityType, entityID string) context.Context {
	return context.WithValue(ctx, entityKey{}, EntityRef{Type: entityType, ID: entityID})
}

// Entity retrieves the entity reference from context if present
func Entity(ctx context.Context) (EntityRef, bool) {
	v := ctx.Value(entityKey{})
	if v == nil {
		return EntityRef{}, false
	}
	e, _ := v.(EntityRef)
	return e, e.Type != "" && e.ID != ""
}

// WithRequestID attaches a request id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID retrieves a request id from context if present
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(reqIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
