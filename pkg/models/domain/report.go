package domain

import "time"

// TechnicalFlags are the live site-level signals shown on the dashboard.
type TechnicalFlags struct {
	HasSSL     bool
	HasSitemap bool
	HasRobots  bool
}

// DashboardSummary merges the latest audit with live repository counts and quota state.
type DashboardSummary struct {
	Score                     int
	ScoreLabel                string
	IssueCount                int
	FixedCount                int
	LastAuditTime             *time.Time
	DocumentCounts            DocumentCounts
	ImagesWithoutAltCount     int
	DocumentsWithoutMetaCount int
	TechnicalFlags            TechnicalFlags
	Entitled                  bool
	QuotaRemaining            QuotaRemaining
}

type ActivityType string

const (
	ActivityAudit   ActivityType = "audit"
	ActivityContent ActivityType = "content"
)

// Activity is one entry of the recent activity feed.
type Activity struct {
	Type    ActivityType
	Date    time.Time
	Score   int
	Details string
}

// FixResult reports the outcome of a remediation batch.
type FixResult struct {
	IssueKey string
	Fixed    int
	Failed   int
}
