package store

import "time"

// AuditRun mirrors a row of the audit_runs table. Issues are kept as a JSON document.
type AuditRun struct {
	ID          int64
	AuditDate   time.Time
	Score       int
	IssuesCount int
	IssuesData  []Issue
	FixedCount  int
}

// Issue is the JSON shape persisted inside audit_runs.issues_data.
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
