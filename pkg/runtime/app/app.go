// Package app builds the object graph shared by the web and cli binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/metrics"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/services/archive"
	"github.com/de-tools/seo-atlas/pkg/services/audit"
	"github.com/de-tools/seo-atlas/pkg/services/completion"
	"github.com/de-tools/seo-atlas/pkg/services/config"
	"github.com/de-tools/seo-atlas/pkg/services/content"
	"github.com/de-tools/seo-atlas/pkg/services/dashboard"
	"github.com/de-tools/seo-atlas/pkg/services/license"
	"github.com/de-tools/seo-atlas/pkg/services/operations"
	"github.com/de-tools/seo-atlas/pkg/services/quota"
	"github.com/de-tools/seo-atlas/pkg/services/remediation"
	"github.com/de-tools/seo-atlas/pkg/services/site"
	"github.com/de-tools/seo-atlas/pkg/services/workflow"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
	auditstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/audit"
	contentstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/content"
	draftstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/drafts"
	licensestore "github.com/de-tools/seo-atlas/pkg/store/duckdb/license"
	quotastore "github.com/de-tools/seo-atlas/pkg/store/duckdb/quota"
	workflowstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/workflow"
)

type App struct {
	Config     config.Config
	DB         *sql.DB
	Metrics    *metrics.Metrics
	Content    contentstore.Store
	Repository *site.Repository
	Operations operations.Service
	Workflows  *workflow.DefaultController
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DB.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	a := &App{Config: cfg, DB: db, Metrics: metrics.New()}
	if err := a.build(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.Site.CorpusPath != "" {
		if err := a.seedCorpus(ctx, cfg.Site.CorpusPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	logger.Info().
		Str("site", cfg.Site.URL).
		Str("db", cfg.DB.Path).
		Str("provider", cfg.AI.Provider).
		Msg("application initialised")
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	contents, err := contentstore.NewStore(a.DB)
	if err != nil {
		return fmt.Errorf("failed to create content store: %w", err)
	}
	audits, err := auditstore.NewStore(a.DB)
	if err != nil {
		return fmt.Errorf("failed to create audit store: %w", err)
	}
	drafts, err := draftstore.NewStore(a.DB)
	if err != nil {
		return fmt.Errorf("failed to create draft store: %w", err)
	}
	quotas, err := quotastore.NewStore(a.DB)
	if err != nil {
		return fmt.Errorf("failed to create quota store: %w", err)
	}
	licenses, err := licensestore.NewStore(a.DB)
	if err != nil {
		return fmt.Errorf("failed to create license store: %w", err)
	}
	workflows, err := workflowstore.NewStore(a.DB)
	if err != nil {
		return fmt.Errorf("failed to create workflow store: %w", err)
	}

	prober, err := site.NewProber(cfg.Site.URL, cfg.Probe.Timeout)
	if err != nil {
		return err
	}
	repoSettings := site.DefaultSettings()
	repoSettings.URL = cfg.Site.URL
	repoSettings.PermalinkStructure = cfg.Site.PermalinkStructure
	repoSettings.MetaFields = cfg.Site.MetaFields
	repoSettings.ProbeTimeout = cfg.Probe.Timeout
	repo, err := site.NewRepository(contents, prober, repoSettings)
	if err != nil {
		return err
	}

	llm, err := completion.NewFromSettings(completion.Settings{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
		Timeout:  cfg.AI.Timeout,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("completion provider unavailable, AI features disabled")
		llm = completion.Unconfigured(err)
	}
	llm = completion.WithMetrics(llm, a.Metrics)

	engine, err := audit.NewEngine(repo, audits, audit.WithMetrics(a.Metrics))
	if err != nil {
		return err
	}
	tracker, err := quota.NewTracker(quotas, quota.Settings{
		AuditLimit:   cfg.Quota.AuditLimit,
		ContentLimit: cfg.Quota.ContentLimit,
	}, quota.WithMetrics(a.Metrics))
	if err != nil {
		return err
	}
	manager, err := license.NewManager(licenses, nil)
	if err != nil {
		return err
	}
	dispatcher, err := remediation.NewDispatcher(repo, llm, audits, remediation.WithMetrics(a.Metrics))
	if err != nil {
		return err
	}
	generator, err := content.NewGenerator(repo, llm, drafts, content.WithDefaults(completion.BlogPostOptions{
		Length:   cfg.Content.Length,
		Tone:     cfg.Content.Tone,
		Language: cfg.Content.Language,
	}))
	if err != nil {
		return err
	}
	aggregator, err := dashboard.NewAggregator(repo, engine, generator, manager, tracker)
	if err != nil {
		return err
	}
	exporter, err := archive.NewFromSettings(ctx, archive.Settings{
		Target:  cfg.Archive.Target,
		Dir:     cfg.Archive.Dir,
		Bucket:  cfg.Archive.Bucket,
		Prefix:  cfg.Archive.Prefix,
		Profile: cfg.Archive.Profile,
		Region:  cfg.Archive.Region,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("archive target unavailable, exports disabled")
		exporter = nil
	}

	ops, err := operations.NewService(operations.Dependencies{
		Audits:      engine,
		Remediation: dispatcher,
		Content:     generator,
		Dashboard:   aggregator,
		License:     manager,
		Quota:       tracker,
		Archive:     exporter,
	}, operations.Settings{
		AutoAudit: cfg.AutoAudit,
		AutoFix:   cfg.AutoFix,
	})
	if err != nil {
		return err
	}

	a.Content = contents
	a.Repository = repo
	a.Operations = ops
	a.Workflows = workflow.NewController(a.DB, workflows, workflow.RunnerConfig{Interval: cfg.Audit.Interval})
	return nil
}

// seedCorpus imports the configured export when the content store holds no documents yet.
func (a *App) seedCorpus(ctx context.Context, path string) error {
	counts, err := a.Repository.CountPublishedDocuments(ctx)
	if err != nil {
		return err
	}
	if counts != (domain.DocumentCounts{}) {
		return nil
	}
	_, err = a.ImportCorpus(ctx, path)
	return err
}

func (a *App) ImportCorpus(ctx context.Context, path string) (contentstore.ImportStats, error) {
	stats, err := contentstore.ImportFile(ctx, a.DB, a.Content, path)
	if err != nil {
		return stats, err
	}
	zerolog.Ctx(ctx).Info().
		Str("path", path).
		Int("documents", stats.Documents).
		Int("images", stats.Images).
		Int("meta", stats.Meta).
		Msg("corpus imported")
	return stats, nil
}

// StartScheduler registers the daily audit with the workflow controller.
func (a *App) StartScheduler(ctx context.Context) error {
	if !a.Config.AutoAudit {
		zerolog.Ctx(ctx).Info().Msg("automatic audits disabled")
		return nil
	}
	return a.Workflows.Start(ctx, workflow.DailyAudit, a.Operations.ScheduledAudit)
}

func (a *App) Close() error {
	if a.Workflows != nil {
		a.Workflows.Stop()
	}
	return a.DB.Close()
}
