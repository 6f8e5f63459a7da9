package api

import "time"

type GenerateContentRequest struct {
	Keyword     string `json:"keyword"`
	ContentType string `json:"content_type"`
	Length      string `json:"length"`
	Tone        string `json:"tone"`
	Language    string `json:"language"`
}

type ContentDraft struct {
	ID          int64     `json:"content_id"`
	ContentType string    `json:"content_type"`
	Prompt      string    `json:"prompt"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `json:"status"`
	DocumentID  *int64    `json:"post_id,omitempty"`
}

type GeneratedContent struct {
	Draft     ContentDraft `json:"draft"`
	Remaining int          `json:"remaining"`
}

type SaveDraftRequest struct {
	DraftID int64  `json:"content_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

type SavedDocument struct {
	DocumentID int64  `json:"post_id"`
	Message    string `json:"message"`
}

type LicenseRequest struct {
	LicenseKey string `json:"license_key"`
}

type LicenseStatus struct {
	Plan      string `json:"plan"`
	MaskedKey string `json:"masked_key"`
	Message   string `json:"message,omitempty"`
}
