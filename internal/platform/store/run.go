package store

import "context"

// RunInSession wraps ctx with the session id and calls fn inside the provided TxRunner
func RunInSession(ctx context.Context, tx TxRunner, sessionID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithSession(ctx, sessionID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}

// RunForEntity wraps ctx with the entity reference and calls fn inside the provided TxRunner
func RunForEntity(ctx context.Context, tx TxRunner, entityType, entityID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithEntity(ctx, entityType, entityID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
