package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

func TestReporter_Dashboard(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	require.NoError(t, r.Dashboard(domain.DashboardSummary{
		Score:          62,
		ScoreLabel:     "Needs Improvement",
		DocumentCounts: domain.DocumentCounts{Posts: 3, Pages: 1},
		TechnicalFlags: domain.TechnicalFlags{HasSSL: true},
		Entitled:       true,
		QuotaRemaining: domain.QuotaRemaining{Unlimited: true},
	}))

	out := buf.String()
	assert.Contains(t, out, "SEO score: 62/100 (Needs Improvement)")
	assert.Contains(t, out, "Last audit: never")
	assert.Contains(t, out, "HTTPS: yes")
	assert.Contains(t, out, "Sitemap: no")
	assert.Contains(t, out, "Audits remaining: unlimited")
}

func TestReporter_DashboardBeforeFirstAudit(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	require.NoError(t, r.Dashboard(domain.DashboardSummary{}))

	out := buf.String()
	assert.Contains(t, out, "SEO score: not audited")
	assert.NotContains(t, out, "Poor")
}

func TestReporter_AuditsTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, r.Audits([]domain.AuditRun{
		{ID: 2, Timestamp: ts, Score: 90, IssueCount: 1},
		{ID: 1, Timestamp: ts.Add(-time.Hour), Score: 70, IssueCount: 4},
	}))

	out := buf.String()
	assert.Contains(t, out, "| #2 ")
	assert.Contains(t, out, "2026-03-01 10:00:00")
	assert.Contains(t, out, "| #1 ")
}

func TestReporter_ActivityEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	require.NoError(t, r.Activity(nil))
	assert.Contains(t, buf.String(), "No activity yet.")
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	require.NoError(t, r.SetFormat(FormatJSON))

	require.NoError(t, r.Fix(domain.FixResult{IssueKey: domain.IssueShortTitle, Fixed: 3, Failed: 1}))

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.Equal(t, "Fixed 3 issues.", res["message"])
	assert.EqualValues(t, 3, res["fixed"])
}

func TestReporter_SetFormat(t *testing.T) {
	r := NewReporter(nil)
	assert.Error(t, r.SetFormat("xml"))
	assert.NoError(t, r.SetFormat(FormatText))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
