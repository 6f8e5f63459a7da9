package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/seo-atlas/pkg/metrics"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	quotastore "github.com/de-tools/seo-atlas/pkg/store/duckdb/quota"
)

type Settings struct {
	AuditLimit   int
	ContentLimit int
}

func DefaultSettings() Settings {
	return Settings{
		AuditLimit:   4,
		ContentLimit: 3,
	}
}

// Tracker counts free-tier usage per feature and calendar month (UTC).
// It knows nothing about entitlement; callers skip it for entitled installations.
type Tracker interface {
	Limit(feature domain.Feature) int
	Remaining(ctx context.Context, feature domain.Feature) (int, error)
	Increment(ctx context.Context, feature domain.Feature) error
}

type tracker struct {
	store    quotastore.Store
	settings Settings
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*tracker)

func WithClock(now func() time.Time) Option {
	return func(t *tracker) {
		t.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(t *tracker) {
		t.metrics = m
	}
}

func NewTracker(store quotastore.Store, settings Settings, opts ...Option) (Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("quota store is nil")
	}
	t := &tracker{
		store:    store,
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *tracker) Limit(feature domain.Feature) int {
	switch feature {
	case domain.FeatureAudit:
		return t.settings.AuditLimit
	case domain.FeatureContent:
		return t.settings.ContentLimit
	default:
		return 0
	}
}

func (t *tracker) Remaining(ctx context.Context, feature domain.Feature) (int, error) {
	if err := validate(feature); err != nil {
		return 0, err
	}
	count, err := t.store.Count(ctx, string(feature), domain.YearMonth(t.now()))
	if err != nil {
		return 0, fmt.Errorf("read %s quota: %w", feature, err)
	}
	return max(0, t.Limit(feature)-count), nil
}

// Increment always writes, even past the limit.
func (t *tracker) Increment(ctx context.Context, feature domain.Feature) error {
	if err := validate(feature); err != nil {
		return err
	}
	if _, err := t.store.Increment(ctx, string(feature), domain.YearMonth(t.now())); err != nil {
		return fmt.Errorf("increment %s quota: %w", feature, err)
	}
	t.metrics.ObserveQuotaUsage(feature)
	return nil
}

func validate(feature domain.Feature) error {
	switch feature {
	case domain.FeatureAudit, domain.FeatureContent:
		return nil
	default:
		return fmt.Errorf("%w: unknown feature %q", domain.ErrValidation, feature)
	}
}
