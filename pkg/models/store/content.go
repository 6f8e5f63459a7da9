package store

import "time"

// ContentDraft mirrors a row of the content_drafts table.
type ContentDraft struct {
	ID               int64
	DocumentID       *int64
	ContentType      string
	Prompt           string
	GeneratedContent string
	CreatedAt        time.Time
	Status           string
}

// Document mirrors a row of the documents table.
type Document struct {
	ID       int64
	Title    string
	Content  string
	PostType string
	Status   string
}

// Attachment mirrors a row of the attachments table.
type Attachment struct {
	ID       int64
	Title    string
	URL      string
	MimeType string
	FileSize int64
}

// MetaEntry is one key/value of document or attachment metadata.
type MetaEntry struct {
	ObjectID int64
	Key      string
	Value    string
}

// QuotaCounter mirrors a row of the quota_counters table.
type QuotaCounter struct {
	Feature    string
	YearMonth  string
	UsageCount int
}

// LicenseState mirrors the single row of the license_state table.
type LicenseState struct {
	LicenseKey string
	Status     string
	UpdatedAt  time.Time
}
