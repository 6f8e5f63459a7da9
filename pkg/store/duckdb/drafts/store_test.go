package drafts

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) Store {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := NewStore(db)
	require.NoError(t, err)
	return s
}

func TestStore_Drafts(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.Add(ctx, store.ContentDraft{ContentType: "blog_post", Prompt: "sourdough", GeneratedContent: "<h2>Bread</h2>", CreatedAt: base})
	require.NoError(t, err)
	second, err := s.Add(ctx, store.ContentDraft{ContentType: "blog_post", Prompt: "rye", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)

	draft, err := s.Get(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "draft", draft.Status)
	assert.Nil(t, draft.DocumentID)
	assert.Equal(t, "<h2>Bread</h2>", draft.GeneratedContent)

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)

	t.Run("mark published", func(t *testing.T) {
		require.NoError(t, s.MarkPublished(ctx, first, 42))
		draft, err := s.Get(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, "published", draft.Status)
		require.NotNil(t, draft.DocumentID)
		assert.Equal(t, int64(42), *draft.DocumentID)
	})

	t.Run("unknown draft", func(t *testing.T) {
		assert.Error(t, s.MarkPublished(ctx, 999, 1))
		draft, err := s.Get(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, draft)
	})
}
