package audit

import "github.com/de-tools/seo-atlas/pkg/models/domain"

var penalties = map[domain.Severity]int{
	domain.SeverityCritical: 15,
	domain.SeverityWarning:  5,
	domain.SeverityInfo:     2,
}

// Score starts at 100 and subtracts a flat penalty per issue, clamped to [0, 100].
func Score(issues []domain.Issue) int {
	score := 100
	for _, issue := range issues {
		score -= penalties[issue.Severity]
	}
	return max(0, min(100, score))
}
