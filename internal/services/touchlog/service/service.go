// Package service contains touchlog workflows
package service

import (
	"context"
	"time"

	"clicktrail/internal/platform/errors"
	"clicktrail/internal/services/touchlog/domain"
	"clicktrail/internal/services/touchlog/repo"
)

// Service defines the service contract for touchlog
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo
}

// New creates a new touchlog service. A nil repo is allowed and turns
// the log into a no-op so deployments without clickhouse still run.
func New(r repo.Repo) *Svc { return &Svc{Repo: r} }

// Record appends one touch to the log
func (s *Svc) Record(ctx context.Context, t domain.Touch) error {
	if s.Repo == nil {
		return nil
	}
	if t.Parameter == "" || t.ClickID == "" {
		return errors.New(errors.ErrorCodeInvalidArgument, "touchlog: parameter and click id are required")
	}
	if t.DetectedAt.IsZero() {
		t.DetectedAt = time.Now().UTC()
	}
	if t.Source == "" {
		t.Source = "parameter"
	}
	return s.Repo.Insert(ctx, []repo.RowTouch{{
		DetectedAt: t.DetectedAt,
		SessionID:  t.SessionID,
		EntityType: t.EntityType,
		EntityID:   t.EntityID,
		Platform:   t.Platform,
		Parameter:  t.Parameter,
		ClickID:    t.ClickID,
		Source:     t.Source,
	}})
}

// Recent lists touches for an entity, newest first
func (s *Svc) Recent(ctx context.Context, in domain.RecentInput) ([]domain.Touch, error) {
	if s.Repo == nil {
		return nil, nil
	}
	rows, err := s.Repo.Recent(ctx, in.EntityType, in.EntityID, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Touch, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Touch{
			DetectedAt: r.DetectedAt,
			SessionID:  r.SessionID,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Platform:   r.Platform,
			Parameter:  r.Parameter,
			ClickID:    r.ClickID,
			Source:     r.Source,
		})
	}
	return out, nil
}
