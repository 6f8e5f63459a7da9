package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/seo-atlas/pkg/adapters"
	"github.com/de-tools/seo-atlas/pkg/models/api"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/services/license"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type TableConfig struct {
	KeyWidth      int
	SeverityWidth int
	CountWidth    int
	TitleWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		KeyWidth:      28,
		SeverityWidth: 8,
		CountWidth:    8,
		TitleWidth:    48,
	}
}

// Reporter renders command results either as text tables or as JSON documents.
type Reporter struct {
	writer    io.Writer
	config    TableConfig
	format    Format
	templates *template.Template
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	r := &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
		format: FormatText,
	}
	r.templates = template.Must(template.New("reports").Funcs(r.funcs()).Parse(templates))
	return r
}

func (r *Reporter) SetFormat(f Format) error {
	switch f {
	case FormatText, FormatJSON:
		r.format = f
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

func (r *Reporter) Writer() io.Writer {
	return r.writer
}

func (r *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(key string, severity interface{}, count interface{}, title string) string {
			return fmt.Sprintf("| %-*s | %-*v | %-*v | %-*s |",
				r.config.KeyWidth, key,
				r.config.SeverityWidth, severity,
				r.config.CountWidth, count,
				r.config.TitleWidth, truncate(title, r.config.TitleWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", r.config.KeyWidth+2),
				strings.Repeat("-", r.config.SeverityWidth+2),
				strings.Repeat("-", r.config.CountWidth+2),
				strings.Repeat("-", r.config.TitleWidth+2))
		},
		"scoreLabel": domain.ScoreLabel,
		"severity": func(run domain.AuditRun, s string) int {
			return run.SeverityCounts()[domain.Severity(s)]
		},
		"plan": license.Plan,
		"mask": license.MaskKey,
		"yesno": func(b bool) string {
			if b {
				return "yes"
			}
			return "no"
		},
		"quota": func(n int, unlimited bool) string {
			if unlimited {
				return "unlimited"
			}
			return fmt.Sprintf("%d", n)
		},
	}
}

const templates = `
{{define "audit"}}
Audit #{{.ID}} ({{.Timestamp.Format "2006-01-02 15:04:05"}})
Score: {{.Score}}/100 ({{scoreLabel .Score}})
Issues: {{.IssueCount}}  Fixed: {{.FixedCount}}
Critical: {{severity . "critical"}}  Warning: {{severity . "warning"}}  Info: {{severity . "info"}}
{{if .Issues}}
{{separator}}
{{formatRow "Issue" "Severity" "Affected" "Title"}}
{{separator}}
{{range .Issues}}{{formatRow .Key .Severity (len .AffectedIDs) .Title}}
{{end}}{{separator}}
{{else}}
No issues found.
{{end}}{{end}}

{{define "audits"}}
{{separator}}
{{formatRow "Audit" "Score" "Issues" "Date"}}
{{separator}}
{{range .}}{{formatRow (printf "#%d" .ID) .Score .IssueCount (.Timestamp.Format "2006-01-02 15:04:05")}}
{{end}}{{separator}}
{{end}}

{{define "dashboard"}}
SEO score: {{if .ScoreLabel}}{{.Score}}/100 ({{.ScoreLabel}}){{else}}not audited{{end}}
Last audit: {{if .LastAuditTime}}{{.LastAuditTime.Format "2006-01-02 15:04:05"}}{{else}}never{{end}}
Issues: {{.IssueCount}}  Fixed: {{.FixedCount}}

=== Content ===
Posts: {{.DocumentCounts.Posts}}
Pages: {{.DocumentCounts.Pages}}
Images without alt text: {{.ImagesWithoutAltCount}}
Posts without meta description: {{.DocumentsWithoutMetaCount}}

=== Technical ===
HTTPS: {{yesno .TechnicalFlags.HasSSL}}
Sitemap: {{yesno .TechnicalFlags.HasSitemap}}
robots.txt: {{yesno .TechnicalFlags.HasRobots}}

=== Plan ===
PRO: {{yesno .Entitled}}
Audits remaining: {{quota .QuotaRemaining.Audit .QuotaRemaining.Unlimited}}
Content remaining: {{quota .QuotaRemaining.Content .QuotaRemaining.Unlimited}}
{{end}}

{{define "activity"}}
{{range .}}{{.Date.Format "2006-01-02 15:04"}}  {{printf "%-8s" .Type}}  {{if eq (print .Type) "audit"}}score {{.Score}}, {{end}}{{.Details}}
{{else}}No activity yet.
{{end}}{{end}}

{{define "drafts"}}
{{range .}}#{{.ID}}  {{.CreatedAt.Format "2006-01-02 15:04"}}  {{.ContentType}} ({{.Status}})  {{.Prompt}}
{{else}}No drafts yet.
{{end}}{{end}}

{{define "draft"}}
Draft #{{.ID}} ({{.ContentType}}, {{.Status}})
Prompt: {{.Prompt}}

{{.Body}}
{{end}}

{{define "fix"}}
{{.IssueKey}}: fixed {{.Fixed}}, failed {{.Failed}}
{{end}}

{{define "license"}}
Plan: {{plan .}}
{{with mask .Key}}Key: {{.}}
{{end}}{{end}}
`

// render executes the named template on data, or encodes doc when JSON output is selected.
func (r *Reporter) render(name string, data interface{}, doc interface{}) error {
	if r.format == FormatJSON {
		enc := json.NewEncoder(r.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	if err := r.templates.ExecuteTemplate(r.writer, name, data); err != nil {
		return fmt.Errorf("failed to render %s report: %w", name, err)
	}
	return nil
}

func (r *Reporter) Audit(run domain.AuditRun) error {
	return r.render("audit", run, adapters.MapAuditRunDomainToApi(run))
}

func (r *Reporter) Audits(runs []domain.AuditRun) error {
	doc := make([]api.AuditRun, 0, len(runs))
	for _, run := range runs {
		doc = append(doc, adapters.MapAuditRunDomainToApi(run))
	}
	return r.render("audits", runs, doc)
}

func (r *Reporter) Dashboard(s domain.DashboardSummary) error {
	return r.render("dashboard", s, adapters.MapDashboardSummaryDomainToApi(s))
}

func (r *Reporter) Activity(feed []domain.Activity) error {
	doc := make([]api.Activity, 0, len(feed))
	for _, a := range feed {
		doc = append(doc, adapters.MapActivityDomainToApi(a))
	}
	return r.render("activity", feed, doc)
}

func (r *Reporter) Drafts(drafts []domain.ContentDraft) error {
	doc := make([]api.ContentDraft, 0, len(drafts))
	for _, d := range drafts {
		doc = append(doc, adapters.MapContentDraftDomainToApi(d))
	}
	return r.render("drafts", drafts, doc)
}

func (r *Reporter) Draft(d domain.ContentDraft) error {
	return r.render("draft", d, adapters.MapContentDraftDomainToApi(d))
}

func (r *Reporter) Fix(res domain.FixResult) error {
	return r.render("fix", res, adapters.MapFixResultDomainToApi(res, fmt.Sprintf("Fixed %d issues.", res.Fixed)))
}

func (r *Reporter) License(l domain.License) error {
	return r.render("license", l, api.LicenseStatus{Plan: license.Plan(l), MaskedKey: license.MaskKey(l.Key)})
}

// Message prints a one-line status. JSON output wraps it in an object.
func (r *Reporter) Message(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if r.format == FormatJSON {
		return r.render("", nil, map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(r.writer, msg)
	return err
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
