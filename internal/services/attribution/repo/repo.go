// Package repo provides postgres access for attribution records
package repo

import (
	"context"
	"errors"

	"clicktrail/internal/modkit/repokit"
	perr "clicktrail/internal/platform/errors"
	"clicktrail/internal/platform/store"
)

// Repo defines the repository contract for attribution records
type Repo interface {
	Get(ctx context.Context, entityType, entityID string) ([]byte, bool, error)
	Put(ctx context.Context, entityType, entityID string, data []byte) error
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Get returns the record's data payload; ok is false when no row exists
func (r *queries) Get(ctx context.Context, entityType, entityID string) ([]byte, bool, error) {
	const sql = `
select data
from attribution_records
where entity_type = $1 and entity_id = $2
`
	data, err := store.One(ctx, r.q, func(row store.Row) ([]byte, error) {
		var b []byte
		err := row.Scan(&b)
		return b, err
	}, sql, entityType, entityID)
	if errors.Is(err, perr.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put upserts the record's data payload
func (r *queries) Put(ctx context.Context, entityType, entityID string, data []byte) error {
	const sql = `
insert into attribution_records (entity_type, entity_id, data, created_at, updated_at)
values ($1, $2, $3, now(), now())
on conflict (entity_type, entity_id)
do update set data = excluded.data, updated_at = now()
`
	_, err := r.q.Exec(ctx, sql, entityType, entityID, data)
	return err
}
