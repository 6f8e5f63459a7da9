package api

import "time"

type DashboardStats struct {
	Score       int        `json:"score"`
	ScoreLabel  string     `json:"score_label"`
	Issues      int        `json:"issues"`
	Fixed       int        `json:"fixed"`
	LastAudit   *time.Time `json:"last_audit"`
	TotalPosts  int        `json:"total_posts"`
	TotalPages  int        `json:"total_pages"`
	ImagesNoAlt int        `json:"images_no_alt"`
	PostsNoMeta int        `json:"posts_no_meta"`
	HasSitemap  bool       `json:"has_sitemap"`
	HasRobots   bool       `json:"has_robots"`
	HasSSL      bool       `json:"has_ssl"`
	IsPro       bool       `json:"is_pro"`
	FreeAudits  int        `json:"free_audits"`
	FreeContent int        `json:"free_content"`
}

type Activity struct {
	Type    string    `json:"type"`
	Date    time.Time `json:"date"`
	Score   int       `json:"score,omitempty"`
	Details string    `json:"details"`
}
