// Package service contains attribution record workflows: the durable
// per-entity merge target for captured session signals
package service

import (
	"context"
	"encoding/json"
	"strings"

	"clicktrail/internal/core/labels"
	"clicktrail/internal/core/platforms"
	"clicktrail/internal/core/resolver"
	"clicktrail/internal/modkit/repokit"
	"clicktrail/internal/platform/errors"
	"clicktrail/internal/platform/logger"
	"clicktrail/internal/platform/store"
	"clicktrail/internal/services/attribution/domain"
	"clicktrail/internal/services/attribution/repo"
	touchdom "clicktrail/internal/services/touchlog/domain"
	"clicktrail/internal/session"
)

// Options tunes record workflows
type Options struct {
	// KeepSessionData leaves the session buckets in place after a
	// merge instead of consuming them
	KeepSessionData bool
}

// Service defines the service contract for attribution records
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	reg   *platforms.Registry
	vocab vocabulary
	touch touchdom.ServicePort
	opts  Options
}

// New creates a new attribution record service. touch may be nil when
// no click-id log is wired
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], reg *platforms.Registry, touch touchdom.ServicePort, opts Options) *Svc {
	if db == nil {
		panic("attribution.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("attribution.Service requires a non nil Repo binder")
	}
	if reg == nil {
		panic("attribution.Service requires a non nil registry")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		reg:    reg,
		vocab:  buildVocabulary(reg),
		touch:  touch,
		opts:   opts,
	}
}

// Get returns the record with its derived views. A missing record
// comes back as an empty view, not an error
func (s *Svc) Get(ctx context.Context, entityType, entityID string) (domain.RecordView, error) {
	data, err := s.load(ctx, entityType, entityID)
	if err != nil {
		return domain.RecordView{}, err
	}
	return s.view(entityType, entityID, data), nil
}

// SetValues applies a batch key/value mutation. Keys outside the
// tracked vocabulary are dropped; blank values delete their key
func (s *Svc) SetValues(ctx context.Context, entityType, entityID string, in domain.SetValuesInput) (domain.RecordView, error) {
	if len(in.Values) == 0 {
		return domain.RecordView{}, errors.New(errors.ErrorCodeValidation, "records: values must not be empty")
	}
	data, err := s.load(ctx, entityType, entityID)
	if err != nil {
		return domain.RecordView{}, err
	}
	s.apply(data, in.Values)
	if err := s.persist(ctx, entityType, entityID, data); err != nil {
		return domain.RecordView{}, err
	}
	return s.view(entityType, entityID, data), nil
}

// OnEntityCreated merges the session's capture buckets onto the
// entity's record, consuming them unless KeepSessionData is set.
// Persistence failures are logged and swallowed so they never block
// the entity write itself
func (s *Svc) OnEntityCreated(ctx context.Context, entityType, entityID string, sess *session.Session) domain.RecordView {
	data, err := s.load(ctx, entityType, entityID)
	if err != nil {
		logger.C(ctx).Warn().Err(err).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("records: load before merge failed")
		data = map[string]any{}
	}

	if sess != nil {
		for _, bucket := range []string{session.BucketUTM, session.BucketSource, session.BucketCookies} {
			s.apply(data, s.consumeBucket(sess, bucket))
		}
	}

	if err := s.persist(ctx, entityType, entityID, data); err != nil {
		logger.C(ctx).Warn().Err(err).
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("records: merge-on-create persist failed")
	}

	s.recordTouches(ctx, entityType, entityID, sess, data)
	return s.view(entityType, entityID, data)
}

// Clear empties the record's data map
func (s *Svc) Clear(ctx context.Context, entityType, entityID string) error {
	return s.persist(ctx, entityType, entityID, map[string]any{})
}

func (s *Svc) consumeBucket(sess *session.Session, bucket string) map[string]any {
	if s.opts.KeepSessionData {
		return sess.GetMap(bucket)
	}
	v, ok := sess.Pull(bucket)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// apply merges values into data under the record invariants: vocabulary
// restriction and write-falsy-deletes
func (s *Svc) apply(data map[string]any, values map[string]any) {
	for k, v := range values {
		if !s.vocab.allows(k) {
			continue
		}
		if blank(v) {
			delete(data, k)
			continue
		}
		data[k] = v
	}
}

func (s *Svc) load(ctx context.Context, entityType, entityID string) (map[string]any, error) {
	raw, ok, err := s.Repo.Get(ctx, entityType, entityID)
	if err != nil {
		return nil, errors.FromPostgres(err, "records: get")
	}
	data := map[string]any{}
	if !ok || len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, errors.ErrorCodeUnknown, "records: decode stored data")
	}
	return data, nil
}

// persist writes the record inside an entity scoped transaction so the
// merge rides with whatever else the caller commits for the entity
func (s *Svc) persist(ctx context.Context, entityType, entityID string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, errors.ErrorCodeUnknown, "records: encode data")
	}
	err = store.RunForEntity(ctx, s.db, entityType, entityID, func(ctx context.Context, q store.RowQuerier) error {
		return s.binder.Bind(q).Put(ctx, entityType, entityID, raw)
	})
	return errors.FromPostgres(err, "records: put")
}

// recordTouches logs every click id present on the merged record.
// Failures are logged and swallowed
func (s *Svc) recordTouches(ctx context.Context, entityType, entityID string, sess *session.Session, data map[string]any) {
	if s.touch == nil {
		return
	}
	flat := flatten(data)
	sessionID := ""
	if sess != nil {
		sessionID = sess.ID
	}
	for _, param := range s.reg.AllClickIDParameters() {
		value := strings.TrimSpace(flat[param])
		if value == "" {
			continue
		}
		platform, _ := s.reg.PlatformForClickID(param)
		err := s.touch.Record(ctx, touchdom.Touch{
			SessionID:  sessionID,
			EntityType: entityType,
			EntityID:   entityID,
			Platform:   platform.ID,
			Parameter:  param,
			ClickID:    value,
			Source:     clickIDSource(platform, param),
		})
		if err != nil {
			logger.C(ctx).Warn().Err(err).
				Str("parameter", param).
				Msg("records: touch log write failed")
		}
	}
}

func clickIDSource(p platforms.Platform, param string) string {
	for _, c := range p.ClickIDCookies {
		if c == param {
			return "cookie"
		}
	}
	return "parameter"
}

// view decorates the raw data map with its derived read-only views
func (s *Svc) view(entityType, entityID string, data map[string]any) domain.RecordView {
	decoded := make(map[string]any, len(data))
	for k, v := range data {
		decoded[k] = decodeValue(v)
	}

	flat := flatten(data)
	out := domain.RecordView{
		EntityType: entityType,
		EntityID:   entityID,
		Data:       decoded,
		Formatted:  labels.Formatted(s.reg, flat),

		SourceMedium: labels.SourceMedium(flat["utm_source"], flat["utm_medium"]),
		CampaignTerm: labels.CompositeTerm(flat["utm_campaign"], flat["utm_term"]),
		MediumTerm:   labels.CompositeTerm(flat["utm_medium"], flat["utm_term"]),
	}
	if id, ok := resolver.Primary(s.reg, flat); ok {
		out.PrimaryClickID = id.Value
		out.Platform = id.Platform
		out.PlatformName = resolver.PlatformName(s.reg, id.Platform)
	} else if platform, ok := resolver.DetectPlatform(s.reg, flat); ok {
		out.Platform = platform
		out.PlatformName = resolver.PlatformName(s.reg, platform)
	}
	return out
}
