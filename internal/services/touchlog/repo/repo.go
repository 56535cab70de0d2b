// Package repo provides clickhouse access for touchlog
package repo

import (
	"context"
	"time"

	"clicktrail/internal/platform/store"
)

// Repo defines the repository contract for touchlog
type Repo interface {
	Insert(ctx context.Context, rows []RowTouch) error
	Recent(ctx context.Context, entityType, entityID string, limit int) ([]RowTouch, error)
}

// RowTouch represents a touch row in clickhouse
type RowTouch struct {
	DetectedAt time.Time
	SessionID  string
	EntityType string
	EntityID   string
	Platform   string
	Parameter  string
	ClickID    string
	Source     string
}

const table = "clicktrail.click_touches"

// NewCH constructs a clickhouse backed touchlog repository
func NewCH(ch store.Clickhouse) Repo { return &chStore{ch: ch} }

type chStore struct{ ch store.Clickhouse }

func (s *chStore) Insert(ctx context.Context, rows []RowTouch) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([][]any, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, []any{
			r.DetectedAt,
			r.SessionID,
			r.EntityType,
			r.EntityID,
			r.Platform,
			r.Parameter,
			r.ClickID,
			r.Source,
		})
	}
	return s.ch.Insert(ctx, table, batch)
}

func (s *chStore) Recent(ctx context.Context, entityType, entityID string, limit int) ([]RowTouch, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const sql = `
SELECT detected_at, session_id, entity_type, entity_id, platform, parameter, click_id, source
FROM ` + table + `
WHERE entity_type = ? AND entity_id = ?
ORDER BY detected_at DESC
LIMIT ?
`
	rows, err := s.ch.Query(ctx, sql, entityType, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RowTouch
	for rows.Next() {
		var r RowTouch
		if err := rows.Scan(
			&r.DetectedAt,
			&r.SessionID,
			&r.EntityType,
			&r.EntityID,
			&r.Platform,
			&r.Parameter,
			&r.ClickID,
			&r.Source,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
