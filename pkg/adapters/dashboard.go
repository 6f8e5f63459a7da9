package adapters

import (
	"github.com/de-tools/seo-atlas/pkg/models/api"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

func MapDashboardSummaryDomainToApi(s domain.DashboardSummary) api.DashboardStats {
	return api.DashboardStats{
		Score:       s.Score,
		ScoreLabel:  s.ScoreLabel,
		Issues:      s.IssueCount,
		Fixed:       s.FixedCount,
		LastAudit:   s.LastAuditTime,
		TotalPosts:  s.DocumentCounts.Posts,
		TotalPages:  s.DocumentCounts.Pages,
		ImagesNoAlt: s.ImagesWithoutAltCount,
		PostsNoMeta: s.DocumentsWithoutMetaCount,
		HasSitemap:  s.TechnicalFlags.HasSitemap,
		HasRobots:   s.TechnicalFlags.HasRobots,
		HasSSL:      s.TechnicalFlags.HasSSL,
		IsPro:       s.Entitled,
		FreeAudits:  s.QuotaRemaining.Audit,
		FreeContent: s.QuotaRemaining.Content,
	}
}

func MapActivityDomainToApi(a domain.Activity) api.Activity {
	return api.Activity{
		Type:    string(a.Type),
		Date:    a.Date,
		Score:   a.Score,
		Details: a.Details,
	}
}
