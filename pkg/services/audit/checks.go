package audit

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

func siteIssue(key string, severity domain.Severity, category domain.Category, title, message string) domain.Issue {
	return domain.Issue{
		Key:         key,
		Severity:    severity,
		Category:    category,
		Title:       title,
		Message:     message,
		AffectedIDs: []int64{},
		FixStrategy: domain.FixManual,
	}
}

func (e *engine) checkSSL(ctx context.Context, _ *snapshot) []domain.Issue {
	if e.repo.IsHTTPS() {
		return nil
	}
	return []domain.Issue{siteIssue(domain.IssueSSL, domain.SeverityCritical, domain.CategorySecurity,
		"No SSL certificate",
		"Your site is not using HTTPS. This affects SEO and security.",
	)}
}

func (e *engine) checkSitemap(ctx context.Context, _ *snapshot) []domain.Issue {
	if e.repo.SitemapReachable(ctx) {
		return nil
	}
	return []domain.Issue{siteIssue(domain.IssueSitemap, domain.SeverityWarning, domain.CategoryTechnical,
		"No sitemap found",
		"XML Sitemap helps search engines discover your pages.",
	)}
}

func (e *engine) checkRobots(ctx context.Context, _ *snapshot) []domain.Issue {
	if e.repo.RobotsReachable(ctx) {
		return nil
	}
	return []domain.Issue{siteIssue(domain.IssueRobots, domain.SeverityInfo, domain.CategoryTechnical,
		"No robots.txt",
		"Robots.txt helps control search engine crawling.",
	)}
}

func (e *engine) checkPermalinks(ctx context.Context, _ *snapshot) []domain.Issue {
	if !e.repo.PermalinkStructureIsPlain() {
		return nil
	}
	return []domain.Issue{siteIssue(domain.IssuePermalink, domain.SeverityCritical, domain.CategoryTechnical,
		"Plain permalinks",
		"Using plain permalinks hurts SEO. Use post name structure.",
	)}
}

func (e *engine) checkTitles(ctx context.Context, snap *snapshot) []domain.Issue {
	var (
		short, long []int64
		groups      = map[string][]int64{}
		order       []string
	)

	for _, doc := range snap.documents {
		length := utf8.RuneCountInString(doc.EffectiveTitle())
		if length < e.settings.ShortTitleRunes {
			short = append(short, doc.ID)
		} else if length > e.settings.LongTitleRunes {
			long = append(long, doc.ID)
		}

		// Duplicates compare post titles; renaming a post is a manual fix.
		key := strings.ToLower(doc.Title)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], doc.ID)
	}

	var duplicates []int64
	for _, key := range order {
		if ids := groups[key]; len(ids) > 1 {
			duplicates = append(duplicates, ids...)
		}
	}

	var issues []domain.Issue
	if len(short) > 0 {
		issues = append(issues, domain.Issue{
			Key:         domain.IssueShortTitle,
			Severity:    domain.SeverityWarning,
			Category:    domain.CategoryContent,
			Title:       fmt.Sprintf("%d pages with short titles", len(short)),
			Message:     fmt.Sprintf("Titles under %d characters may not be descriptive enough.", e.settings.ShortTitleRunes),
			AffectedIDs: short,
			FixStrategy: domain.FixAI,
		})
	}
	if len(long) > 0 {
		issues = append(issues, domain.Issue{
			Key:         domain.IssueLongTitle,
			Severity:    domain.SeverityWarning,
			Category:    domain.CategoryContent,
			Title:       fmt.Sprintf("%d pages with long titles", len(long)),
			Message:     fmt.Sprintf("Titles over %d characters may be truncated in search results.", e.settings.LongTitleRunes),
			AffectedIDs: long,
			FixStrategy: domain.FixAI,
		})
	}
	if len(duplicates) > 0 {
		issues = append(issues, domain.Issue{
			Key:         domain.IssueDuplicateTitle,
			Severity:    domain.SeverityCritical,
			Category:    domain.CategoryContent,
			Title:       fmt.Sprintf("%d pages with duplicate titles", len(duplicates)),
			Message:     "Duplicate titles confuse search engines and users.",
			AffectedIDs: duplicates,
			FixStrategy: domain.FixManual,
		})
	}
	return issues
}

// checkMetaDescriptions only surfaces the missing bucket. Short and long descriptions are
// counted for the log but do not produce issues.
func (e *engine) checkMetaDescriptions(ctx context.Context, snap *snapshot) []domain.Issue {
	logger := zerolog.Ctx(ctx)

	var missing, short, long []int64
	for _, doc := range snap.documents {
		desc, err := e.repo.GetMetaDescription(ctx, doc.ID)
		if err != nil {
			logger.Warn().Err(err).Int64("document_id", doc.ID).Msg("skipping meta description check")
			continue
		}

		length := utf8.RuneCountInString(desc)
		switch {
		case length == 0:
			missing = append(missing, doc.ID)
		case length < e.settings.ShortMetaRunes:
			short = append(short, doc.ID)
		case length > e.settings.LongMetaRunes:
			long = append(long, doc.ID)
		}
	}

	logger.Debug().
		Int("missing", len(missing)).
		Int("short", len(short)).
		Int("long", len(long)).
		Msg("meta descriptions checked")

	if len(missing) == 0 {
		return nil
	}
	return []domain.Issue{{
		Key:         domain.IssueMissingMetaDescription,
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryContent,
		Title:       fmt.Sprintf("%d pages without meta description", len(missing)),
		Message:     "Meta descriptions are important for click-through rates.",
		AffectedIDs: missing,
		FixStrategy: domain.FixAI,
	}}
}

func (e *engine) checkHeadings(ctx context.Context, snap *snapshot) []domain.Issue {
	var noH2, withH1 []int64
	for _, doc := range snap.documents {
		scan, ok := snap.scan(ctx, doc)
		if !ok {
			continue
		}
		if scan.h1 > 0 {
			withH1 = append(withH1, doc.ID)
		}
		if scan.h2 == 0 && utf8.RuneCountInString(doc.Body) > e.settings.HeadingMinRunes {
			noH2 = append(noH2, doc.ID)
		}
	}

	var issues []domain.Issue
	if len(noH2) > 0 {
		issues = append(issues, domain.Issue{
			Key:         domain.IssueNoH2,
			Severity:    domain.SeverityWarning,
			Category:    domain.CategoryContent,
			Title:       fmt.Sprintf("%d long posts without H2 headings", len(noH2)),
			Message:     "Headings help structure content and improve readability.",
			AffectedIDs: noH2,
			FixStrategy: domain.FixManual,
		})
	}
	if len(withH1) > 0 {
		issues = append(issues, domain.Issue{
			Key:         domain.IssueMultipleH1,
			Severity:    domain.SeverityWarning,
			Category:    domain.CategoryContent,
			Title:       fmt.Sprintf("%d pages with H1 in content", len(withH1)),
			Message:     "Avoid H1 in content, the title is already H1.",
			AffectedIDs: withH1,
			FixStrategy: domain.FixManual,
		})
	}
	return issues
}

func (e *engine) checkImageAltText(ctx context.Context, snap *snapshot) []domain.Issue {
	if len(snap.missingAlt) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(snap.missingAlt))
	for _, img := range snap.missingAlt {
		ids = append(ids, img.ID)
	}
	return []domain.Issue{{
		Key:         domain.IssueMissingAltText,
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryAccessibility,
		Title:       fmt.Sprintf("%d images without alt text", len(ids)),
		Message:     "Alt text improves accessibility and image SEO.",
		AffectedIDs: ids,
		FixStrategy: domain.FixAI,
	}}
}

func (e *engine) checkInternalLinks(ctx context.Context, snap *snapshot) []domain.Issue {
	site := newSiteMatcher(e.repo.HomeURL())

	var noLinks []int64
	for _, doc := range snap.documents {
		if utf8.RuneCountInString(doc.Body) <= e.settings.LinkMinRunes {
			continue
		}
		scan, ok := snap.scan(ctx, doc)
		if !ok {
			continue
		}

		internal := 0
		for _, href := range scan.hrefs {
			if site.isInternal(href) {
				internal++
			}
		}
		if internal == 0 {
			noLinks = append(noLinks, doc.ID)
		}
	}

	if len(noLinks) == 0 {
		return nil
	}
	return []domain.Issue{{
		Key:         domain.IssueNoInternalLinks,
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryContent,
		Title:       fmt.Sprintf("%d pages without internal links", len(noLinks)),
		Message:     "Internal links help users and search engines navigate your site.",
		AffectedIDs: noLinks,
		FixStrategy: domain.FixManual,
	}}
}

func (e *engine) checkLargeImages(ctx context.Context, snap *snapshot) []domain.Issue {
	var large []int64
	for _, img := range snap.images {
		// zero means the size is unknown
		if img.FileSizeBytes > e.settings.LargeImageBytes {
			large = append(large, img.ID)
		}
	}

	if len(large) == 0 {
		return nil
	}
	return []domain.Issue{{
		Key:         domain.IssueLargeImages,
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryPerformance,
		Title:       fmt.Sprintf("%d images over %dKB", len(large), e.settings.LargeImageBytes/1000),
		Message:     "Large images slow down your site. Consider compressing them.",
		AffectedIDs: large,
		FixStrategy: domain.FixManual,
	}}
}
