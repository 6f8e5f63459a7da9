// Package operations is the command surface shared by the HTTP API, the CLI and the scheduler.
// It applies entitlement and quota gating before delegating to the domain services.
package operations

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/services/archive"
	"github.com/de-tools/seo-atlas/pkg/services/audit"
	"github.com/de-tools/seo-atlas/pkg/services/content"
	"github.com/de-tools/seo-atlas/pkg/services/dashboard"
	"github.com/de-tools/seo-atlas/pkg/services/license"
	"github.com/de-tools/seo-atlas/pkg/services/quota"
	"github.com/de-tools/seo-atlas/pkg/services/remediation"
)

// Unlimited is reported as the remaining quota of entitled installations.
const Unlimited = -1

type Service interface {
	RunAudit(ctx context.Context) (domain.AuditRun, error)
	ScheduledAudit(ctx context.Context) error
	GetAudit(ctx context.Context, id int64) (domain.AuditRun, error)
	ListAudits(ctx context.Context, limit int) ([]domain.AuditRun, error)
	ExportAudit(ctx context.Context, id int64) (string, error)

	FixIssues(ctx context.Context, issueKey string, ids []int64) (domain.FixResult, error)

	GenerateContent(ctx context.Context, req content.GenerateRequest) (domain.ContentDraft, int, error)
	SaveContent(ctx context.Context, req content.SaveRequest) (int64, error)
	ListDrafts(ctx context.Context, limit int) ([]domain.ContentDraft, error)

	ActivateLicense(ctx context.Context, key string) (domain.License, error)
	DeactivateLicense(ctx context.Context) (domain.License, error)
	License(ctx context.Context) (domain.License, error)

	Summary(ctx context.Context) (domain.DashboardSummary, error)
	Activity(ctx context.Context, limit int) ([]domain.Activity, error)
}

type Settings struct {
	// AutoAudit enables the scheduled audit (default: true)
	AutoAudit bool
	// AutoFix dispatches AI fixes after a scheduled audit on entitled installations (default: false)
	AutoFix bool
}

func DefaultSettings() Settings {
	return Settings{
		AutoAudit: true,
	}
}

type Dependencies struct {
	Audits      audit.Service
	Remediation remediation.Dispatcher
	Content     content.Generator
	Dashboard   dashboard.Aggregator
	License     license.Manager
	Quota       quota.Tracker
	// Archive is optional. Without it ExportAudit fails with a validation error.
	Archive archive.Exporter
}

type service struct {
	deps     Dependencies
	settings Settings
}

func NewService(deps Dependencies, settings Settings) (Service, error) {
	switch {
	case deps.Audits == nil:
		return nil, fmt.Errorf("audit service is nil")
	case deps.Remediation == nil:
		return nil, fmt.Errorf("remediation dispatcher is nil")
	case deps.Content == nil:
		return nil, fmt.Errorf("content generator is nil")
	case deps.Dashboard == nil:
		return nil, fmt.Errorf("dashboard aggregator is nil")
	case deps.License == nil:
		return nil, fmt.Errorf("license manager is nil")
	case deps.Quota == nil:
		return nil, fmt.Errorf("quota tracker is nil")
	}
	return &service{deps: deps, settings: settings}, nil
}

// gate reports whether the caller is entitled and, if not, whether quota remains for the feature.
func (s *service) gate(ctx context.Context, feature domain.Feature) (bool, error) {
	entitled, err := s.deps.License.IsEntitled(ctx)
	if err != nil {
		return false, err
	}
	if entitled {
		return true, nil
	}

	remaining, err := s.deps.Quota.Remaining(ctx, feature)
	if err != nil {
		return false, err
	}
	if remaining <= 0 {
		return false, fmt.Errorf("%w: free %s limit reached", domain.ErrQuotaExhausted, feature)
	}
	return false, nil
}

func (s *service) consume(ctx context.Context, feature domain.Feature) {
	if err := s.deps.Quota.Increment(ctx, feature); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("feature", string(feature)).Msg("failed to record quota usage")
	}
}

func (s *service) RunAudit(ctx context.Context) (domain.AuditRun, error) {
	entitled, err := s.gate(ctx, domain.FeatureAudit)
	if err != nil {
		return domain.AuditRun{}, err
	}

	run, err := s.deps.Audits.Run(ctx)
	if err != nil {
		return domain.AuditRun{}, err
	}
	if !entitled {
		s.consume(ctx, domain.FeatureAudit)
	}
	return run, nil
}

// ScheduledAudit is the periodic job. It bypasses the quota and optionally applies AI fixes.
func (s *service) ScheduledAudit(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	if !s.settings.AutoAudit {
		logger.Debug().Msg("automatic audits disabled")
		return nil
	}

	run, err := s.deps.Audits.Run(ctx)
	if err != nil {
		return err
	}
	if !s.settings.AutoFix {
		return nil
	}

	entitled, err := s.deps.License.IsEntitled(ctx)
	if err != nil {
		return err
	}
	if !entitled {
		logger.Info().Msg("auto-fix skipped, installation is not entitled")
		return nil
	}

	for _, issue := range run.Issues {
		if !issue.Fixable() {
			continue
		}
		if _, err := s.deps.Remediation.Fix(ctx, issue.Key, issue.AffectedIDs); err != nil {
			logger.Error().Err(err).Str("issue", issue.Key).Msg("auto-fix failed")
		}
	}
	return nil
}

func (s *service) GetAudit(ctx context.Context, id int64) (domain.AuditRun, error) {
	return s.deps.Audits.Get(ctx, id)
}

func (s *service) ListAudits(ctx context.Context, limit int) ([]domain.AuditRun, error) {
	return s.deps.Audits.List(ctx, limit)
}

// ExportAudit archives the run with the given ID, or the latest run when id is zero.
func (s *service) ExportAudit(ctx context.Context, id int64) (string, error) {
	if s.deps.Archive == nil {
		return "", fmt.Errorf("%w: no archive target configured", domain.ErrValidation)
	}

	var run domain.AuditRun
	if id == 0 {
		latest, err := s.deps.Audits.Latest(ctx)
		if err != nil {
			return "", err
		}
		if latest == nil {
			return "", fmt.Errorf("%w: no audit has been run yet", domain.ErrNotFound)
		}
		run = *latest
	} else {
		var err error
		if run, err = s.deps.Audits.Get(ctx, id); err != nil {
			return "", err
		}
	}
	return s.deps.Archive.Export(ctx, run)
}

func (s *service) FixIssues(ctx context.Context, issueKey string, ids []int64) (domain.FixResult, error) {
	entitled, err := s.deps.License.IsEntitled(ctx)
	if err != nil {
		return domain.FixResult{}, err
	}
	if !entitled {
		return domain.FixResult{}, fmt.Errorf("%w: auto-fix is a PRO feature", domain.ErrNotEntitled)
	}
	return s.deps.Remediation.Fix(ctx, issueKey, ids)
}

// GenerateContent returns the new draft and the remaining content quota, Unlimited when entitled.
func (s *service) GenerateContent(ctx context.Context, req content.GenerateRequest) (domain.ContentDraft, int, error) {
	entitled, err := s.gate(ctx, domain.FeatureContent)
	if err != nil {
		return domain.ContentDraft{}, 0, err
	}

	draft, err := s.deps.Content.Generate(ctx, req)
	if err != nil {
		return domain.ContentDraft{}, 0, err
	}
	if entitled {
		return draft, Unlimited, nil
	}

	s.consume(ctx, domain.FeatureContent)
	remaining, err := s.deps.Quota.Remaining(ctx, domain.FeatureContent)
	if err != nil {
		return draft, 0, err
	}
	return draft, remaining, nil
}

func (s *service) SaveContent(ctx context.Context, req content.SaveRequest) (int64, error) {
	return s.deps.Content.Save(ctx, req)
}

func (s *service) ListDrafts(ctx context.Context, limit int) ([]domain.ContentDraft, error) {
	return s.deps.Content.List(ctx, limit)
}

func (s *service) ActivateLicense(ctx context.Context, key string) (domain.License, error) {
	if err := s.deps.License.Activate(ctx, key); err != nil {
		return domain.License{}, err
	}
	return s.deps.License.Current(ctx)
}

func (s *service) DeactivateLicense(ctx context.Context) (domain.License, error) {
	if err := s.deps.License.Deactivate(ctx); err != nil {
		return domain.License{}, err
	}
	return s.deps.License.Current(ctx)
}

func (s *service) License(ctx context.Context) (domain.License, error) {
	return s.deps.License.Current(ctx)
}

func (s *service) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	return s.deps.Dashboard.Summary(ctx)
}

func (s *service) Activity(ctx context.Context, limit int) ([]domain.Activity, error) {
	return s.deps.Dashboard.Activity(ctx, limit)
}
