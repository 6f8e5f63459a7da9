package domain

import (
	"strings"
	"time"
)

type DocumentType string

const (
	DocumentPost DocumentType = "post"
	DocumentPage DocumentType = "page"
)

const (
	DocumentStatusPublish = "publish"
	DocumentStatusDraft   = "draft"
)

// Document is a post or page in the content repository.
type Document struct {
	ID    int64
	Title string
	// SEOTitle is the search-result title override, empty when none is set.
	SEOTitle string
	Body     string
	Type     DocumentType
	Status   string
}

// EffectiveTitle is the title search engines show: the SEO title when set, otherwise the post title.
func (d Document) EffectiveTitle() string {
	if strings.TrimSpace(d.SEOTitle) != "" {
		return d.SEOTitle
	}
	return d.Title
}

// Image is a media attachment.
type Image struct {
	ID            int64
	Title         string
	URL           string
	AltText       string
	FileSizeBytes int64
}

// NewDocument describes a document to be created in the repository.
type NewDocument struct {
	Title  string
	Body   string
	Type   DocumentType
	Status string
}

// DocumentCounts holds published document totals by type.
type DocumentCounts struct {
	Posts int
	Pages int
}

type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "draft"
	DraftStatusPublished DraftStatus = "published"
)

// ContentDraft is one AI-generated content artifact.
type ContentDraft struct {
	ID          int64
	ContentType string
	Prompt      string
	Body        string
	CreatedAt   time.Time
	Status      DraftStatus
	DocumentID  *int64
}
