package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/adapters"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/services/completion"
	draftstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/drafts"
)

const defaultContentType = "blog_post"

// Repository creates documents from saved drafts.
type Repository interface {
	CreateDocument(ctx context.Context, doc domain.NewDocument) (int64, error)
}

type GenerateRequest struct {
	Keyword     string
	ContentType string
	Length      string
	Tone        string
	Language    string
}

type SaveRequest struct {
	// DraftID links the new document back to its draft. Zero saves without a draft.
	DraftID int64
	Title   string
	Body    string
	// Status is the document status, draft or publish (default: draft)
	Status string
}

type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (domain.ContentDraft, error)
	Save(ctx context.Context, req SaveRequest) (int64, error)
	Get(ctx context.Context, id int64) (domain.ContentDraft, error)
	List(ctx context.Context, limit int) ([]domain.ContentDraft, error)
}

type Option func(*generator)

// WithDefaults sets the prompt options used when a request leaves them empty.
func WithDefaults(opts completion.BlogPostOptions) Option {
	return func(g *generator) {
		g.defaults = opts
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *generator) {
		g.now = now
	}
}

type generator struct {
	repo       Repository
	completion completion.Service
	drafts     draftstore.Store
	defaults   completion.BlogPostOptions
	now        func() time.Time
}

func NewGenerator(repo Repository, svc completion.Service, drafts draftstore.Store, opts ...Option) (Generator, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is nil")
	}
	if svc == nil {
		return nil, fmt.Errorf("completion service is nil")
	}
	if drafts == nil {
		return nil, fmt.Errorf("draft store is nil")
	}

	g := &generator{
		repo:       repo,
		completion: svc,
		drafts:     drafts,
		defaults:   completion.DefaultBlogPostOptions(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *generator) Generate(ctx context.Context, req GenerateRequest) (domain.ContentDraft, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return domain.ContentDraft{}, fmt.Errorf("%w: please enter a keyword or topic", domain.ErrValidation)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	opts := completion.BlogPostOptions{
		Length:   firstNonEmpty(req.Length, g.defaults.Length),
		Tone:     firstNonEmpty(req.Tone, g.defaults.Tone),
		Language: firstNonEmpty(req.Language, g.defaults.Language),
	}

	genOpts := completion.DefaultGenerateOptions()
	genOpts.MaxTokens = completion.BlogPostMaxTokens

	body, err := g.completion.Generate(ctx, completion.BlogPostPrompt(keyword, opts), genOpts)
	if err != nil {
		if !errors.Is(err, domain.ErrProvider) {
			err = fmt.Errorf("%w: %w", domain.ErrProvider, err)
		}
		return domain.ContentDraft{}, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.ContentDraft{}, fmt.Errorf("%w: empty completion", domain.ErrProvider)
	}

	draft := domain.ContentDraft{
		ContentType: contentType,
		Prompt:      keyword,
		Body:        body,
		CreatedAt:   g.now().UTC(),
		Status:      domain.DraftStatusDraft,
	}
	id, err := g.drafts.Add(ctx, adapters.MapContentDraftDomainToStore(draft))
	if err != nil {
		return domain.ContentDraft{}, fmt.Errorf("save draft: %w", err)
	}
	draft.ID = id

	zerolog.Ctx(ctx).Info().
		Int64("draft_id", id).
		Str("keyword", keyword).
		Str("length", opts.Length).
		Msg("content draft generated")
	return draft, nil
}

func (g *generator) Save(ctx context.Context, req SaveRequest) (int64, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Body) == "" {
		return 0, fmt.Errorf("%w: title and content are required", domain.ErrValidation)
	}
	status := req.Status
	switch status {
	case "":
		status = domain.DocumentStatusDraft
	case domain.DocumentStatusDraft, domain.DocumentStatusPublish:
	default:
		return 0, fmt.Errorf("%w: unsupported status %q", domain.ErrValidation, status)
	}

	if req.DraftID != 0 {
		if _, err := g.Get(ctx, req.DraftID); err != nil {
			return 0, err
		}
	}

	docID, err := g.repo.CreateDocument(ctx, domain.NewDocument{
		Title:  title,
		Body:   req.Body,
		Type:   domain.DocumentPost,
		Status: status,
	})
	if err != nil {
		return 0, fmt.Errorf("create document: %w", err)
	}

	if req.DraftID != 0 {
		if err := g.drafts.MarkPublished(ctx, req.DraftID, docID); err != nil {
			return docID, err
		}
	}

	zerolog.Ctx(ctx).Info().
		Int64("document_id", docID).
		Int64("draft_id", req.DraftID).
		Str("status", status).
		Msg("content saved")
	return docID, nil
}

func (g *generator) Get(ctx context.Context, id int64) (domain.ContentDraft, error) {
	d, err := g.drafts.Get(ctx, id)
	if err != nil {
		return domain.ContentDraft{}, err
	}
	if d == nil {
		return domain.ContentDraft{}, fmt.Errorf("%w: content draft %d", domain.ErrNotFound, id)
	}
	return adapters.MapContentDraftStoreToDomain(*d), nil
}

func (g *generator) List(ctx context.Context, limit int) ([]domain.ContentDraft, error) {
	drafts, err := g.drafts.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	res := make([]domain.ContentDraft, 0, len(drafts))
	for _, d := range drafts {
		res = append(res, adapters.MapContentDraftStoreToDomain(d))
	}
	return res, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
