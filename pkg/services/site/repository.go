package site

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/adapters"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb/content"
)

type Settings struct {
	URL                string
	PermalinkStructure string
	// MetaFields is the ordered fallback chain for meta descriptions. Writes go to the first key.
	MetaFields    []string
	AltTextField  string
	SEOTitleField string
	ProbeTimeout  time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		PermalinkStructure: "/%postname%/",
		MetaFields:         []string{"_yoast_wpseo_metadesc", "rank_math_description", "_aioseo_description"},
		AltTextField:       "_wp_attachment_image_alt",
		SEOTitleField:      "_yoast_wpseo_title",
		ProbeTimeout:       5 * time.Second,
	}
}

var publishedTypes = []string{string(domain.DocumentPost), string(domain.DocumentPage)}

// Repository adapts the content store and the site prober to the view the audit,
// remediation, dashboard and content services need.
type Repository struct {
	store    content.Store
	prober   *Prober
	settings Settings
}

func NewRepository(s content.Store, prober *Prober, settings Settings) (*Repository, error) {
	if s == nil {
		return nil, fmt.Errorf("content store is nil")
	}
	if prober == nil {
		return nil, fmt.Errorf("prober is nil")
	}
	if len(settings.MetaFields) == 0 {
		settings.MetaFields = DefaultSettings().MetaFields
	}
	if settings.AltTextField == "" {
		settings.AltTextField = DefaultSettings().AltTextField
	}
	if settings.SEOTitleField == "" {
		settings.SEOTitleField = DefaultSettings().SEOTitleField
	}
	return &Repository{store: s, prober: prober, settings: settings}, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
	}
	return nil
}

func (r *Repository) ListPublishedDocuments(ctx context.Context) ([]domain.Document, error) {
	docs, err := r.store.ListDocuments(ctx, domain.DocumentStatusPublish, publishedTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
	}
	res := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		seoTitle, err := r.store.GetMeta(ctx, d.ID, r.settings.SEOTitleField)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
		}
		res = append(res, adapters.MapDocumentStoreToDomain(d, seoTitle))
	}
	return res, nil
}

func (r *Repository) ListImageAttachments(ctx context.Context) ([]domain.Image, error) {
	atts, err := r.store.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
	}
	return r.withAltText(ctx, atts)
}

func (r *Repository) ImagesMissingAltText(ctx context.Context) ([]domain.Image, error) {
	atts, err := r.store.ImagesMissingMeta(ctx, r.settings.AltTextField)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
	}
	res := make([]domain.Image, 0, len(atts))
	for _, a := range atts {
		res = append(res, adapters.MapAttachmentStoreToDomain(a, ""))
	}
	return res, nil
}

func (r *Repository) withAltText(ctx context.Context, atts []store.Attachment) ([]domain.Image, error) {
	res := make([]domain.Image, 0, len(atts))
	for _, a := range atts {
		alt, err := r.store.GetMeta(ctx, a.ID, r.settings.AltTextField)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
		}
		res = append(res, adapters.MapAttachmentStoreToDomain(a, alt))
	}
	return res, nil
}

// GetMetaDescription returns the first non-empty value along the configured meta field chain.
func (r *Repository) GetMetaDescription(ctx context.Context, id int64) (string, error) {
	for _, key := range r.settings.MetaFields {
		v, err := r.store.GetMeta(ctx, id, key)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", nil
}

func (r *Repository) SetMetaDescription(ctx context.Context, id int64, text string) error {
	return r.setMeta(ctx, id, r.settings.MetaFields[0], text)
}

func (r *Repository) SetImageAltText(ctx context.Context, id int64, text string) error {
	return r.setMeta(ctx, id, r.settings.AltTextField, text)
}

func (r *Repository) SetSEOTitle(ctx context.Context, id int64, text string) error {
	return r.setMeta(ctx, id, r.settings.SEOTitleField, text)
}

func (r *Repository) setMeta(ctx context.Context, id int64, key, value string) error {
	err := r.store.SetMeta(ctx, id, key, value)
	if errors.Is(err, content.ErrObjectNotFound) {
		return fmt.Errorf("%w: object %d", domain.ErrNotFound, id)
	}
	return err
}

func (r *Repository) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	doc, err := r.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document %d", domain.ErrNotFound, id)
	}
	seoTitle, err := r.store.GetMeta(ctx, id, r.settings.SEOTitleField)
	if err != nil {
		return nil, err
	}
	res := adapters.MapDocumentStoreToDomain(*doc, seoTitle)
	return &res, nil
}

func (r *Repository) GetImage(ctx context.Context, id int64) (*domain.Image, error) {
	att, err := r.store.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, fmt.Errorf("%w: image %d", domain.ErrNotFound, id)
	}
	alt, err := r.store.GetMeta(ctx, id, r.settings.AltTextField)
	if err != nil {
		return nil, err
	}
	res := adapters.MapAttachmentStoreToDomain(*att, alt)
	return &res, nil
}

func (r *Repository) CreateDocument(ctx context.Context, doc domain.NewDocument) (int64, error) {
	docType := doc.Type
	if docType == "" {
		docType = domain.DocumentPost
	}
	status := doc.Status
	if status == "" {
		status = domain.DocumentStatusDraft
	}
	return r.store.InsertDocument(ctx, store.Document{
		Title:    doc.Title,
		Content:  doc.Body,
		PostType: string(docType),
		Status:   status,
	})
}

func (r *Repository) CountPublishedDocuments(ctx context.Context) (domain.DocumentCounts, error) {
	counts, err := r.store.CountDocuments(ctx, domain.DocumentStatusPublish)
	if err != nil {
		return domain.DocumentCounts{}, fmt.Errorf("%w: %w", domain.ErrRepositoryUnavailable, err)
	}
	return domain.DocumentCounts{
		Posts: counts[string(domain.DocumentPost)],
		Pages: counts[string(domain.DocumentPage)],
	}, nil
}

// CountDocumentsWithoutMeta counts published documents whose meta description resolves empty.
func (r *Repository) CountDocumentsWithoutMeta(ctx context.Context) (int, error) {
	docs, err := r.ListPublishedDocuments(ctx)
	if err != nil {
		return 0, err
	}
	missing := 0
	for _, d := range docs {
		desc, err := r.GetMetaDescription(ctx, d.ID)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int64("document_id", d.ID).Msg("failed to read meta description")
			continue
		}
		if desc == "" {
			missing++
		}
	}
	return missing, nil
}

func (r *Repository) HomeURL() string {
	return r.prober.HomeURL()
}

func (r *Repository) IsHTTPS() bool {
	return r.prober.IsHTTPS()
}

func (r *Repository) SitemapReachable(ctx context.Context) bool {
	return r.prober.SitemapReachable(ctx)
}

func (r *Repository) RobotsReachable(ctx context.Context) bool {
	return r.prober.RobotsReachable(ctx)
}

// PermalinkStructureIsPlain reports the query-string (?p=123) URL scheme.
func (r *Repository) PermalinkStructureIsPlain() bool {
	return strings.TrimSpace(r.settings.PermalinkStructure) == ""
}
