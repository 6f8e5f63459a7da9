package adapters

import (
	"github.com/de-tools/seo-atlas/pkg/models/api"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/models/store"
)

func MapContentDraftStoreToDomain(d store.ContentDraft) domain.ContentDraft {
	return domain.ContentDraft{
		ID:          d.ID,
		ContentType: d.ContentType,
		Prompt:      d.Prompt,
		Body:        d.GeneratedContent,
		CreatedAt:   d.CreatedAt,
		Status:      domain.DraftStatus(d.Status),
		DocumentID:  d.DocumentID,
	}
}

func MapContentDraftDomainToStore(d domain.ContentDraft) store.ContentDraft {
	return store.ContentDraft{
		ID:               d.ID,
		DocumentID:       d.DocumentID,
		ContentType:      d.ContentType,
		Prompt:           d.Prompt,
		GeneratedContent: d.Body,
		CreatedAt:        d.CreatedAt,
		Status:           string(d.Status),
	}
}

func MapContentDraftDomainToApi(d domain.ContentDraft) api.ContentDraft {
	return api.ContentDraft{
		ID:          d.ID,
		ContentType: d.ContentType,
		Prompt:      d.Prompt,
		Content:     d.Body,
		CreatedAt:   d.CreatedAt,
		Status:      string(d.Status),
		DocumentID:  d.DocumentID,
	}
}

func MapDocumentStoreToDomain(d store.Document, seoTitle string) domain.Document {
	return domain.Document{
		ID:       d.ID,
		Title:    d.Title,
		SEOTitle: seoTitle,
		Body:     d.Content,
		Type:     domain.DocumentType(d.PostType),
		Status:   d.Status,
	}
}

func MapAttachmentStoreToDomain(a store.Attachment, alt string) domain.Image {
	return domain.Image{
		ID:            a.ID,
		Title:         a.Title,
		URL:           a.URL,
		AltText:       alt,
		FileSizeBytes: a.FileSize,
	}
}
