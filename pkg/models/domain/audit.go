package domain

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

type Category string

const (
	CategorySecurity      Category = "security"
	CategoryTechnical     Category = "technical"
	CategoryContent       Category = "content"
	CategoryAccessibility Category = "accessibility"
	CategoryPerformance   Category = "performance"
)

type FixStrategy string

const (
	FixManual FixStrategy = "manual"
	FixAI     FixStrategy = "ai"
)

// Issue keys identify the check bucket an issue was produced by.
const (
	IssueSSL                    = "ssl"
	IssueSitemap                = "sitemap"
	IssueRobots                 = "robots"
	IssuePermalink              = "permalink"
	IssueShortTitle             = "short_title"
	IssueLongTitle              = "long_title"
	IssueDuplicateTitle         = "duplicate_title"
	IssueMissingMetaDescription = "missing_meta_description"
	IssueNoH2                   = "no_h2"
	IssueMultipleH1             = "multiple_h1"
	IssueMissingAltText         = "missing_alt_text"
	IssueNoInternalLinks        = "no_internal_links"
	IssueLargeImages            = "large_images"
)

// Issue is one finding produced by a single audit check.
type Issue struct {
	Key         string
	Severity    Severity
	Category    Category
	Title       string
	Message     string
	AffectedIDs []int64
	FixStrategy FixStrategy
}

// Fixable reports whether the remediation dispatcher can act on the issue.
func (i Issue) Fixable() bool {
	return i.FixStrategy == FixAI
}

// AuditRun is one persisted execution of the audit engine.
type AuditRun struct {
	ID         int64
	Timestamp  time.Time
	Score      int
	Issues     []Issue
	IssueCount int
	FixedCount int
}

// SeverityCounts tallies issues by severity.
func (r AuditRun) SeverityCounts() map[Severity]int {
	counts := map[Severity]int{
		SeverityCritical: 0,
		SeverityWarning:  0,
		SeverityInfo:     0,
	}
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}

// ScoreLabel buckets a score the way the dashboard presents it.
func ScoreLabel(score int) string {
	switch {
	case score >= 80:
		return "Good"
	case score >= 50:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}
