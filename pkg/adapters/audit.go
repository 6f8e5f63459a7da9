package adapters

import (
	"github.com/de-tools/seo-atlas/pkg/models/api"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/models/store"
)

func MapIssueDomainToStore(i domain.Issue) store.Issue {
	return store.Issue{
		Key:         i.Key,
		Type:        string(i.Severity),
		Category:    string(i.Category),
		Title:       i.Title,
		Message:     i.Message,
		AffectedIDs: copyIDs(i.AffectedIDs),
		Fix:         string(i.FixStrategy),
		Fixable:     i.Fixable(),
	}
}

func MapIssueStoreToDomain(i store.Issue) domain.Issue {
	return domain.Issue{
		Key:         i.Key,
		Severity:    domain.Severity(i.Type),
		Category:    domain.Category(i.Category),
		Title:       i.Title,
		Message:     i.Message,
		AffectedIDs: copyIDs(i.AffectedIDs),
		FixStrategy: domain.FixStrategy(i.Fix),
	}
}

func MapIssueDomainToApi(i domain.Issue) api.Issue {
	return api.Issue{
		Key:         i.Key,
		Type:        string(i.Severity),
		Category:    string(i.Category),
		Title:       i.Title,
		Message:     i.Message,
		AffectedIDs: copyIDs(i.AffectedIDs),
		Fix:         string(i.FixStrategy),
		Fixable:     i.Fixable(),
	}
}

func MapAuditRunDomainToStore(r domain.AuditRun) store.AuditRun {
	res := store.AuditRun{
		ID:          r.ID,
		AuditDate:   r.Timestamp,
		Score:       r.Score,
		IssuesCount: len(r.Issues),
		IssuesData:  make([]store.Issue, 0, len(r.Issues)),
		FixedCount:  r.FixedCount,
	}
	for _, issue := range r.Issues {
		res.IssuesData = append(res.IssuesData, MapIssueDomainToStore(issue))
	}
	return res
}

func MapAuditRunStoreToDomain(r store.AuditRun) domain.AuditRun {
	res := domain.AuditRun{
		ID:         r.ID,
		Timestamp:  r.AuditDate,
		Score:      r.Score,
		Issues:     make([]domain.Issue, 0, len(r.IssuesData)),
		IssueCount: r.IssuesCount,
		FixedCount: r.FixedCount,
	}
	for _, issue := range r.IssuesData {
		res.Issues = append(res.Issues, MapIssueStoreToDomain(issue))
	}
	return res
}

func MapAuditRunDomainToApi(r domain.AuditRun) api.AuditRun {
	res := api.AuditRun{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		Score:      r.Score,
		ScoreLabel: domain.ScoreLabel(r.Score),
		Issues:     make([]api.Issue, 0, len(r.Issues)),
		IssueCount: r.IssueCount,
		FixedCount: r.FixedCount,
	}
	for _, issue := range r.Issues {
		res.Issues = append(res.Issues, MapIssueDomainToApi(issue))
	}
	return res
}

func MapFixResultDomainToApi(r domain.FixResult, message string) api.FixResult {
	return api.FixResult{
		IssueType: r.IssueKey,
		Fixed:     r.Fixed,
		Failed:    r.Failed,
		Message:   message,
	}
}

func copyIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}
