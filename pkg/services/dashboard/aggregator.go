package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/services/audit"
	"github.com/de-tools/seo-atlas/pkg/services/content"
	"github.com/de-tools/seo-atlas/pkg/services/license"
	"github.com/de-tools/seo-atlas/pkg/services/quota"
)

const defaultActivityLimit = 10

// Repository is the live view of the site used for dashboard counters.
type Repository interface {
	CountPublishedDocuments(ctx context.Context) (domain.DocumentCounts, error)
	ImagesMissingAltText(ctx context.Context) ([]domain.Image, error)
	CountDocumentsWithoutMeta(ctx context.Context) (int, error)
	IsHTTPS() bool
	SitemapReachable(ctx context.Context) bool
	RobotsReachable(ctx context.Context) bool
}

type Aggregator interface {
	Summary(ctx context.Context) (domain.DashboardSummary, error)
	Activity(ctx context.Context, limit int) ([]domain.Activity, error)
}

type aggregator struct {
	repo    Repository
	audits  audit.Service
	content content.Generator
	license license.Manager
	quota   quota.Tracker
}

func NewAggregator(
	repo Repository,
	audits audit.Service,
	content content.Generator,
	license license.Manager,
	quota quota.Tracker,
) (Aggregator, error) {
	if repo == nil || audits == nil || content == nil || license == nil || quota == nil {
		return nil, fmt.Errorf("dashboard dependencies must not be nil")
	}
	return &aggregator{
		repo:    repo,
		audits:  audits,
		content: content,
		license: license,
		quota:   quota,
	}, nil
}

func (a *aggregator) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	var res domain.DashboardSummary

	latest, err := a.audits.Latest(ctx)
	if err != nil {
		return res, err
	}
	if latest != nil {
		ts := latest.Timestamp
		res.Score = latest.Score
		res.IssueCount = latest.IssueCount
		res.FixedCount = latest.FixedCount
		res.LastAuditTime = &ts
		res.ScoreLabel = domain.ScoreLabel(res.Score)
	}

	if res.DocumentCounts, err = a.repo.CountPublishedDocuments(ctx); err != nil {
		return res, err
	}
	missingAlt, err := a.repo.ImagesMissingAltText(ctx)
	if err != nil {
		return res, err
	}
	res.ImagesWithoutAltCount = len(missingAlt)
	if res.DocumentsWithoutMetaCount, err = a.repo.CountDocumentsWithoutMeta(ctx); err != nil {
		return res, err
	}

	res.TechnicalFlags = domain.TechnicalFlags{
		HasSSL:     a.repo.IsHTTPS(),
		HasSitemap: a.repo.SitemapReachable(ctx),
		HasRobots:  a.repo.RobotsReachable(ctx),
	}

	if res.Entitled, err = a.license.IsEntitled(ctx); err != nil {
		return res, err
	}
	res.QuotaRemaining.Unlimited = res.Entitled
	if res.QuotaRemaining.Audit, err = a.quota.Remaining(ctx, domain.FeatureAudit); err != nil {
		return res, err
	}
	if res.QuotaRemaining.Content, err = a.quota.Remaining(ctx, domain.FeatureContent); err != nil {
		return res, err
	}
	return res, nil
}

// Activity merges the newest audits and content drafts, newest first.
func (a *aggregator) Activity(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	runs, err := a.audits.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	drafts, err := a.content.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	feed := make([]domain.Activity, 0, len(runs)+len(drafts))
	for _, r := range runs {
		feed = append(feed, domain.Activity{
			Type:    domain.ActivityAudit,
			Date:    r.Timestamp,
			Score:   r.Score,
			Details: fmt.Sprintf("%d issues", r.IssueCount),
		})
	}
	for _, d := range drafts {
		feed = append(feed, domain.Activity{
			Type:    domain.ActivityContent,
			Date:    d.CreatedAt,
			Details: fmt.Sprintf("%s (%s)", d.ContentType, d.Status),
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}
