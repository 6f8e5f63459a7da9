package content

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func TestNewStore(t *testing.T) {
	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_Documents(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.store.InsertDocument(ctx, store.Document{ID: 10, Title: "B", Content: "b", PostType: "post", Status: "publish"})
	require.NoError(t, err)
	_, err = f.store.InsertDocument(ctx, store.Document{ID: 5, Title: "A", Content: "a", PostType: "page", Status: "publish"})
	require.NoError(t, err)
	_, err = f.store.InsertDocument(ctx, store.Document{ID: 7, Title: "Draft", PostType: "post", Status: "draft"})
	require.NoError(t, err)
	_, err = f.store.InsertDocument(ctx, store.Document{ID: 8, Title: "Product", PostType: "product", Status: "publish"})
	require.NoError(t, err)

	t.Run("published posts and pages in id order", func(t *testing.T) {
		docs, err := f.store.ListDocuments(ctx, "publish", []string{"post", "page"})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, int64(5), docs[0].ID)
		assert.Equal(t, int64(10), docs[1].ID)
	})

	t.Run("counts by type", func(t *testing.T) {
		counts, err := f.store.CountDocuments(ctx, "publish")
		require.NoError(t, err)
		assert.Equal(t, 1, counts["post"])
		assert.Equal(t, 1, counts["page"])
		assert.Equal(t, 1, counts["product"])
	})

	t.Run("get missing document", func(t *testing.T) {
		doc, err := f.store.GetDocument(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("allocates id across documents and attachments", func(t *testing.T) {
		_, err := f.store.InsertAttachment(ctx, store.Attachment{ID: 20, Title: "img"})
		require.NoError(t, err)

		id, err := f.store.InsertDocument(ctx, store.Document{Title: "New", PostType: "post", Status: "draft"})
		require.NoError(t, err)
		assert.Equal(t, int64(21), id)
	})
}

func TestStore_Images(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.store.InsertAttachment(ctx, store.Attachment{ID: 1, Title: "hero", MimeType: "image/png", FileSize: 600000})
	require.NoError(t, err)
	_, err = f.store.InsertAttachment(ctx, store.Attachment{ID: 2, Title: "logo", MimeType: "image/svg+xml"})
	require.NoError(t, err)
	_, err = f.store.InsertAttachment(ctx, store.Attachment{ID: 3, Title: "manual", MimeType: "application/pdf"})
	require.NoError(t, err)
	require.NoError(t, f.store.SetMeta(ctx, 2, "_wp_attachment_image_alt", "Company logo"))

	t.Run("only image mime types", func(t *testing.T) {
		images, err := f.store.ListImages(ctx)
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, int64(600000), images[0].FileSize)
	})

	t.Run("missing alt text", func(t *testing.T) {
		images, err := f.store.ImagesMissingMeta(ctx, "_wp_attachment_image_alt")
		require.NoError(t, err)
		require.Len(t, images, 1)
		assert.Equal(t, int64(1), images[0].ID)
	})

	t.Run("empty alt text counts as missing", func(t *testing.T) {
		require.NoError(t, f.store.SetMeta(ctx, 2, "_wp_attachment_image_alt", ""))
		images, err := f.store.ImagesMissingMeta(ctx, "_wp_attachment_image_alt")
		require.NoError(t, err)
		assert.Len(t, images, 2)
	})
}

func TestStore_Meta(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.store.InsertDocument(ctx, store.Document{ID: 1, Title: "Doc", PostType: "post", Status: "publish"})
	require.NoError(t, err)

	t.Run("missing key reads empty", func(t *testing.T) {
		v, err := f.store.GetMeta(ctx, 1, "_yoast_wpseo_metadesc")
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, f.store.SetMeta(ctx, 1, "_yoast_wpseo_metadesc", "first"))
		require.NoError(t, f.store.SetMeta(ctx, 1, "_yoast_wpseo_metadesc", "second"))
		v, err := f.store.GetMeta(ctx, 1, "_yoast_wpseo_metadesc")
		require.NoError(t, err)
		assert.Equal(t, "second", v)
	})

	t.Run("unknown object", func(t *testing.T) {
		err := f.store.SetMeta(ctx, 404, "_yoast_wpseo_metadesc", "x")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
}

const corpusYAML = `
documents:
  - id: 1
    title: Getting started with sourdough
    body: "<p>Hello</p>"
    meta:
      _yoast_wpseo_metadesc: Bake better bread
  - id: 2
    title: About
    type: page
images:
  - id: 3
    title: Loaf
    mime_type: image/jpeg
    file_size: 1200
    meta:
      _wp_attachment_image_alt: A sourdough loaf
`

func TestImport(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	stats, err := Import(ctx, f.db, f.store, strings.NewReader(corpusYAML))
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Documents: 2, Images: 1, Meta: 2}, stats)

	doc, err := f.store.GetDocument(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "page", doc.PostType)
	assert.Equal(t, "publish", doc.Status)

	desc, err := f.store.GetMeta(ctx, 1, "_yoast_wpseo_metadesc")
	require.NoError(t, err)
	assert.Equal(t, "Bake better bread", desc)

	t.Run("duplicate ids roll back", func(t *testing.T) {
		_, err := Import(ctx, f.db, f.store, strings.NewReader("documents:\n  - id: 50\n    title: x\n  - id: 1\n    title: y\n"))
		assert.Error(t, err)

		doc, err := f.store.GetDocument(ctx, 50)
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Import(ctx, f.db, f.store, strings.NewReader("documents: ["))
		assert.Error(t, err)
	})
}
