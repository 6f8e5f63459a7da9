package remediation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/metrics"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/services/completion"
	auditstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/audit"
)

// Repository is the read/write view of the site the dispatcher repairs.
type Repository interface {
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)
	GetImage(ctx context.Context, id int64) (*domain.Image, error)
	SetMetaDescription(ctx context.Context, id int64, text string) error
	SetImageAltText(ctx context.Context, id int64, text string) error
	SetSEOTitle(ctx context.Context, id int64, text string) error
}

type Dispatcher interface {
	// Fix generates and writes a replacement for every target of an AI-fixable issue.
	// Without targets, the affected IDs of the latest audit are used.
	Fix(ctx context.Context, issueKey string, targetIDs []int64) (domain.FixResult, error)
}

type kind string

const (
	kindMeta  kind = "meta_description"
	kindAlt   kind = "image_alt"
	kindTitle kind = "title"
)

var kinds = map[string]kind{
	domain.IssueMissingMetaDescription: kindMeta,
	string(kindMeta):                   kindMeta,
	domain.IssueMissingAltText:         kindAlt,
	string(kindAlt):                    kindAlt,
	domain.IssueShortTitle:             kindTitle,
	domain.IssueLongTitle:              kindTitle,
	string(kindTitle):                  kindTitle,
}

// issueKeys lists the audit buckets each kind repairs.
var issueKeys = map[kind][]string{
	kindMeta:  {domain.IssueMissingMetaDescription},
	kindAlt:   {domain.IssueMissingAltText},
	kindTitle: {domain.IssueShortTitle, domain.IssueLongTitle},
}

type Option func(*dispatcher)

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *dispatcher) {
		d.metrics = m
	}
}

type dispatcher struct {
	repo       Repository
	completion completion.Service
	audits     auditstore.Store
	metrics    *metrics.Metrics
}

func NewDispatcher(repo Repository, svc completion.Service, audits auditstore.Store, opts ...Option) (Dispatcher, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is nil")
	}
	if svc == nil {
		return nil, fmt.Errorf("completion service is nil")
	}
	if audits == nil {
		return nil, fmt.Errorf("audit store is nil")
	}

	d := &dispatcher{repo: repo, completion: svc, audits: audits}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *dispatcher) Fix(ctx context.Context, issueKey string, targetIDs []int64) (domain.FixResult, error) {
	k, ok := kinds[issueKey]
	if !ok {
		return domain.FixResult{}, fmt.Errorf("%w: issue %q cannot be fixed automatically", domain.ErrValidation, issueKey)
	}

	logger := zerolog.Ctx(ctx).With().Str("issue", issueKey).Logger()
	result := domain.FixResult{IssueKey: issueKey}

	if len(targetIDs) == 0 {
		ids, err := d.latestTargets(ctx, k)
		if err != nil {
			return result, err
		}
		targetIDs = ids
	}

	for _, id := range targetIDs {
		if err := d.fixOne(ctx, k, id); err != nil {
			logger.Warn().Err(err).Int64("id", id).Msg("skipping target")
			result.Failed++
			continue
		}
		result.Fixed++
	}

	if result.Fixed > 0 {
		d.recordFixed(ctx, result.Fixed)
	}
	d.metrics.ObserveFix(string(k), result.Fixed, result.Failed)

	logger.Info().
		Int("fixed", result.Fixed).
		Int("failed", result.Failed).
		Msg("remediation batch finished")
	return result, nil
}

func (d *dispatcher) fixOne(ctx context.Context, k kind, id int64) error {
	switch k {
	case kindMeta:
		doc, err := d.repo.GetDocument(ctx, id)
		if err != nil {
			return err
		}
		text, err := d.generate(ctx, completion.MetaDescriptionPrompt(doc.Title, doc.Body), completion.MetaDescriptionMaxTokens)
		if err != nil {
			return err
		}
		return d.repo.SetMetaDescription(ctx, id, text)

	case kindAlt:
		img, err := d.repo.GetImage(ctx, id)
		if err != nil {
			return err
		}
		text, err := d.generate(ctx, completion.AltTextPrompt(img.Title), completion.AltTextMaxTokens)
		if err != nil {
			return err
		}
		return d.repo.SetImageAltText(ctx, id, text)

	case kindTitle:
		doc, err := d.repo.GetDocument(ctx, id)
		if err != nil {
			return err
		}
		text, err := d.generate(ctx, completion.SEOTitlePrompt(doc.Title, doc.Body), completion.SEOTitleMaxTokens)
		if err != nil {
			return err
		}
		return d.repo.SetSEOTitle(ctx, id, text)
	}
	return fmt.Errorf("unknown fix kind %q", k)
}

func (d *dispatcher) generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	opts := completion.DefaultGenerateOptions()
	opts.MaxTokens = maxTokens

	text, err := d.completion.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	text = completion.CleanResponse(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrProvider)
	}
	return text, nil
}

func (d *dispatcher) latestTargets(ctx context.Context, k kind) ([]int64, error) {
	run, err := d.audits.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("read latest audit: %w", err)
	}
	if run == nil {
		return nil, nil
	}

	var ids []int64
	for _, issue := range run.IssuesData {
		for _, key := range issueKeys[k] {
			if issue.Key == key {
				ids = append(ids, issue.AffectedIDs...)
			}
		}
	}
	return ids, nil
}

func (d *dispatcher) recordFixed(ctx context.Context, fixed int) {
	logger := zerolog.Ctx(ctx)

	run, err := d.audits.Latest(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read latest audit")
		return
	}
	if run == nil {
		return
	}
	if err := d.audits.IncrementFixed(ctx, run.ID, fixed); err != nil {
		logger.Error().Err(err).Int64("audit_id", run.ID).Msg("failed to record fixed count")
	}
}
