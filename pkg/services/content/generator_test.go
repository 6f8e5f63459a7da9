package content

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/services/completion"
	"github.com/de-tools/seo-atlas/pkg/services/site"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
	contentstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/content"
	draftstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/drafts"
)

type mockCompletion struct{ mock.Mock }

func (m *mockCompletion) Name() string { return "mock" }

func (m *mockCompletion) Generate(ctx context.Context, prompt string, opts completion.GenerateOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

type fixture struct {
	repo    *site.Repository
	content contentstore.Store
	drafts  draftstore.Store
}

func setup(t *testing.T) fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	cs, err := contentstore.NewStore(db)
	require.NoError(t, err)
	ds, err := draftstore.NewStore(db)
	require.NoError(t, err)
	prober, err := site.NewProber("https://bakery.example", time.Second)
	require.NoError(t, err)
	repo, err := site.NewRepository(cs, prober, site.DefaultSettings())
	require.NoError(t, err)
	return fixture{repo: repo, content: cs, drafts: ds}
}

var fixedNow = time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)

func TestGenerator_Generate(t *testing.T) {
	f := setup(t)
	llm := new(mockCompletion)
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "about: sourdough") &&
			strings.Contains(p, "Length: 500-800 words") &&
			strings.Contains(p, "Tone: friendly") &&
			strings.Contains(p, "Language: en_US")
	}), completion.GenerateOptions{MaxTokens: 4000, Temperature: 0.7}).
		Return("  <h2>Sourdough</h2><p>Tangy.</p>\n", nil)

	g, err := NewGenerator(f.repo, llm, f.drafts,
		WithDefaults(completion.BlogPostOptions{Length: "medium", Tone: "professional", Language: "en_US"}),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)

	draft, err := g.Generate(context.Background(), GenerateRequest{Keyword: " sourdough ", Length: "short", Tone: "friendly"})
	require.NoError(t, err)
	assert.NotZero(t, draft.ID)
	assert.Equal(t, "blog_post", draft.ContentType)
	assert.Equal(t, "sourdough", draft.Prompt)
	assert.Equal(t, "<h2>Sourdough</h2><p>Tangy.</p>", draft.Body)
	assert.Equal(t, domain.DraftStatusDraft, draft.Status)

	stored, err := g.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Body, stored.Body)
	assert.True(t, fixedNow.Equal(stored.CreatedAt))
	llm.AssertExpectations(t)
}

func TestGenerator_GenerateFailures(t *testing.T) {
	t.Run("empty keyword", func(t *testing.T) {
		f := setup(t)
		llm := new(mockCompletion)
		g, err := NewGenerator(f.repo, llm, f.drafts)
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), GenerateRequest{Keyword: "   "})
		assert.ErrorIs(t, err, domain.ErrValidation)
		llm.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provider failure stores no draft", func(t *testing.T) {
		f := setup(t)
		llm := new(mockCompletion)
		llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection reset"))
		g, err := NewGenerator(f.repo, llm, f.drafts)
		require.NoError(t, err)

		_, err = g.Generate(context.Background(), GenerateRequest{Keyword: "rye"})
		assert.ErrorIs(t, err, domain.ErrProvider)

		drafts, err := g.List(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, drafts)
	})
}

func TestGenerator_Save(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	llm := new(mockCompletion)
	llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("<p>Body</p>", nil)
	g, err := NewGenerator(f.repo, llm, f.drafts)
	require.NoError(t, err)

	draft, err := g.Generate(ctx, GenerateRequest{Keyword: "baguette"})
	require.NoError(t, err)

	docID, err := g.Save(ctx, SaveRequest{DraftID: draft.ID, Title: "Baguette basics", Body: draft.Body, Status: "publish"})
	require.NoError(t, err)

	doc, err := f.repo.GetDocument(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, "Baguette basics", doc.Title)
	assert.Equal(t, domain.DocumentPost, doc.Type)
	assert.Equal(t, domain.DocumentStatusPublish, doc.Status)

	saved, err := g.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftStatusPublished, saved.Status)
	require.NotNil(t, saved.DocumentID)
	assert.Equal(t, docID, *saved.DocumentID)
}

func TestGenerator_SaveValidation(t *testing.T) {
	f := setup(t)
	g, err := NewGenerator(f.repo, new(mockCompletion), f.drafts)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SaveRequest
		want error
	}{
		{name: "missing title", req: SaveRequest{Body: "<p>x</p>"}, want: domain.ErrValidation},
		{name: "missing body", req: SaveRequest{Title: "x"}, want: domain.ErrValidation},
		{name: "bad status", req: SaveRequest{Title: "x", Body: "y", Status: "trash"}, want: domain.ErrValidation},
		{name: "unknown draft", req: SaveRequest{DraftID: 42, Title: "x", Body: "y"}, want: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Save(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("without draft defaults to draft status", func(t *testing.T) {
		id, err := g.Save(ctx, SaveRequest{Title: "Notes", Body: "<p>Crumb</p>"})
		require.NoError(t, err)
		doc, err := f.repo.GetDocument(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.DocumentStatusDraft, doc.Status)
	})
}
