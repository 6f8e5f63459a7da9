package audit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/services/site"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
	auditstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/audit"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb/content"
)

type scenario struct {
	content content.Store
	runs    auditstore.Store
	repo    *site.Repository
	engine  Service
}

// setupScenario wires the engine to a DuckDB corpus and an HTTP site that serves the given paths with 200.
func setupScenario(t *testing.T, permalink string, served ...string) *scenario {
	ok := map[string]bool{}
	for _, p := range served {
		ok[p] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok[r.URL.Path] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	cs, err := content.NewStore(db)
	require.NoError(t, err)
	runs, err := auditstore.NewStore(db)
	require.NoError(t, err)

	prober, err := site.NewProber(srv.URL, time.Second)
	require.NoError(t, err)
	settings := site.DefaultSettings()
	settings.PermalinkStructure = permalink
	repo, err := site.NewRepository(cs, prober, settings)
	require.NoError(t, err)

	e, err := NewEngine(repo, runs)
	require.NoError(t, err)

	return &scenario{content: cs, runs: runs, repo: repo, engine: e}
}

func TestScenario_InsecureSiteWithoutMetaDescriptions(t *testing.T) {
	s := setupScenario(t, "", "/robots.txt")
	ctx := context.Background()

	var ids []int64
	for i := 1; i <= 10; i++ {
		id, err := s.content.InsertDocument(ctx, store.Document{
			ID:       int64(i),
			Title:    fmt.Sprintf("Baking guide number %02d for beginners", i),
			Content:  "<p>Short body.</p>",
			PostType: "post",
			Status:   "publish",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	run, err := s.engine.Run(ctx)
	require.NoError(t, err)

	keys := []string{}
	for _, i := range run.Issues {
		keys = append(keys, i.Key)
	}
	assert.Equal(t, []string{domain.IssueSSL, domain.IssueSitemap, domain.IssuePermalink, domain.IssueMissingMetaDescription}, keys)

	meta := issueByKey(run, domain.IssueMissingMetaDescription)
	require.NotNil(t, meta)
	assert.Equal(t, ids, meta.AffectedIDs)
	assert.Equal(t, domain.SeverityCritical, issueByKey(run, domain.IssueSSL).Severity)
	assert.Equal(t, domain.SeverityWarning, issueByKey(run, domain.IssueSitemap).Severity)
	assert.Equal(t, domain.SeverityCritical, issueByKey(run, domain.IssuePermalink).Severity)
	assert.Equal(t, 50, run.Score)

	persisted, err := s.runs.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, 50, persisted.Score)
	assert.Equal(t, 4, persisted.IssuesCount)
}

func TestScenario_NoIssues(t *testing.T) {
	s := setupScenario(t, "/%postname%/", "/sitemap_index.xml", "/robots.txt")
	ctx := context.Background()

	// httptest serves plain http
	e, err := NewEngine(httpsView{s.repo}, s.runs)
	require.NoError(t, err)

	run, err := e.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 100, run.Score)
	assert.Empty(t, run.Issues)
	assert.Equal(t, 0, run.IssueCount)

	runs, err := s.runs.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 0, runs[0].IssuesCount)
	assert.Empty(t, runs[0].IssuesData)
}

type httpsView struct {
	Repository
}

func (httpsView) IsHTTPS() bool { return true }
