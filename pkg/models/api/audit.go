package api

import "time"

type Issue struct {
	Key         string  `json:"key"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	AffectedIDs []int64 `json:"affected_ids"`
	Fix         string  `json:"fix"`
	Fixable     bool    `json:"fixable"`
}

type AuditRun struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Score      int       `json:"score"`
	ScoreLabel string    `json:"score_label"`
	Issues     []Issue   `json:"issues"`
	IssueCount int       `json:"total"`
	FixedCount int       `json:"fixed"`
}

type FixRequest struct {
	IssueType string  `json:"issue_type"`
	IDs       []int64 `json:"ids"`
}

type FixResult struct {
	IssueType string `json:"issue_type"`
	Fixed     int    `json:"fixed"`
	Failed    int    `json:"failed"`
	Message   string `json:"message"`
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Upgrade   bool        `json:"upgrade,omitempty"`
	Remaining *int        `json:"remaining,omitempty"`
}
