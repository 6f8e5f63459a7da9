package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/adapters"
	"github.com/de-tools/seo-atlas/pkg/metrics"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	auditstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/audit"
)

// Repository is the read view of the audited site the engine depends on.
type Repository interface {
	Ping(ctx context.Context) error
	ListPublishedDocuments(ctx context.Context) ([]domain.Document, error)
	ListImageAttachments(ctx context.Context) ([]domain.Image, error)
	ImagesMissingAltText(ctx context.Context) ([]domain.Image, error)
	GetMetaDescription(ctx context.Context, id int64) (string, error)
	HomeURL() string
	IsHTTPS() bool
	SitemapReachable(ctx context.Context) bool
	RobotsReachable(ctx context.Context) bool
	PermalinkStructureIsPlain() bool
}

// Settings contains the thresholds used by the content checks.
type Settings struct {
	// ShortTitleRunes flags titles below this length (default: 30)
	ShortTitleRunes int
	// LongTitleRunes flags titles above this length (default: 60)
	LongTitleRunes int
	// ShortMetaRunes and LongMetaRunes bucket meta descriptions (default: 120, 160)
	ShortMetaRunes int
	LongMetaRunes  int
	// HeadingMinRunes is the body length above which a missing H2 is reported (default: 500)
	HeadingMinRunes int
	// LinkMinRunes is the body length above which missing internal links are reported (default: 300)
	LinkMinRunes int
	// LargeImageBytes flags images strictly above this size (default: 500000)
	LargeImageBytes int64
}

func DefaultSettings() Settings {
	return Settings{
		ShortTitleRunes: 30,
		LongTitleRunes:  60,
		ShortMetaRunes:  120,
		LongMetaRunes:   160,
		HeadingMinRunes: 500,
		LinkMinRunes:    300,
		LargeImageBytes: 500000,
	}
}

// Service runs audits and reads the audit log.
type Service interface {
	Run(ctx context.Context) (domain.AuditRun, error)
	Get(ctx context.Context, id int64) (domain.AuditRun, error)
	Latest(ctx context.Context) (*domain.AuditRun, error)
	List(ctx context.Context, limit int) ([]domain.AuditRun, error)
}

type Option func(*engine)

func WithSettings(s Settings) Option {
	return func(e *engine) {
		e.settings = s
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *engine) {
		e.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *engine) {
		e.now = now
	}
}

type engine struct {
	repo     Repository
	store    auditstore.Store
	settings Settings
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewEngine(repo Repository, store auditstore.Store, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is nil")
	}
	if store == nil {
		return nil, fmt.Errorf("audit store is nil")
	}

	e := &engine{
		repo:     repo,
		store:    store,
		settings: DefaultSettings(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// snapshot is the corpus read once at the start of a run. Every check sees the same data.
type snapshot struct {
	documents  []domain.Document
	images     []domain.Image
	missingAlt []domain.Image
	scans      map[int64]*bodyScan
}

type check func(ctx context.Context, snap *snapshot) []domain.Issue

func (e *engine) battery() []check {
	return []check{
		e.checkSSL,
		e.checkSitemap,
		e.checkRobots,
		e.checkPermalinks,
		e.checkTitles,
		e.checkMetaDescriptions,
		e.checkHeadings,
		e.checkImageAltText,
		e.checkInternalLinks,
		e.checkLargeImages,
	}
}

func (e *engine) Run(ctx context.Context) (domain.AuditRun, error) {
	run, err := e.run(ctx)
	e.metrics.ObserveAudit(run, err)
	return run, err
}

func (e *engine) run(ctx context.Context) (domain.AuditRun, error) {
	logger := zerolog.Ctx(ctx)

	snap, err := e.takeSnapshot(ctx)
	if err != nil {
		return domain.AuditRun{}, err
	}

	issues := make([]domain.Issue, 0)
	for _, c := range e.battery() {
		issues = append(issues, c(ctx, snap)...)
	}

	run := domain.AuditRun{
		Timestamp:  e.now().UTC(),
		Score:      Score(issues),
		Issues:     issues,
		IssueCount: len(issues),
	}

	id, err := e.store.Add(ctx, adapters.MapAuditRunDomainToStore(run))
	if err != nil {
		return domain.AuditRun{}, fmt.Errorf("persist audit run: %w", err)
	}
	run.ID = id

	logger.Info().
		Int64("audit_id", run.ID).
		Int("score", run.Score).
		Int("issues", run.IssueCount).
		Int("documents", len(snap.documents)).
		Int("images", len(snap.images)).
		Msg("audit completed")
	return run, nil
}

func (e *engine) takeSnapshot(ctx context.Context) (*snapshot, error) {
	if err := e.repo.Ping(ctx); err != nil {
		return nil, unavailable(err)
	}

	docs, err := e.repo.ListPublishedDocuments(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	images, err := e.repo.ListImageAttachments(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	missingAlt, err := e.repo.ImagesMissingAltText(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	return &snapshot{
		documents:  docs,
		images:     images,
		missingAlt: missingAlt,
	}, nil
}

func unavailable(err error) error {
	if errors.Is(err, domain.ErrRepositoryUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
}

func (e *engine) Get(ctx context.Context, id int64) (domain.AuditRun, error) {
	run, err := e.store.Get(ctx, id)
	if err != nil {
		return domain.AuditRun{}, err
	}
	if run == nil {
		return domain.AuditRun{}, fmt.Errorf("%w: audit run %d", domain.ErrNotFound, id)
	}
	return adapters.MapAuditRunStoreToDomain(*run), nil
}

func (e *engine) Latest(ctx context.Context) (*domain.AuditRun, error) {
	run, err := e.store.Latest(ctx)
	if err != nil || run == nil {
		return nil, err
	}
	res := adapters.MapAuditRunStoreToDomain(*run)
	return &res, nil
}

func (e *engine) List(ctx context.Context, limit int) ([]domain.AuditRun, error) {
	runs, err := e.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	res := make([]domain.AuditRun, 0, len(runs))
	for _, r := range runs {
		res = append(res, adapters.MapAuditRunStoreToDomain(r))
	}
	return res, nil
}
