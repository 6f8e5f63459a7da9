package license

import (
	"context"
	"testing"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetPut(t *testing.T) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := NewStore(db)
	require.NoError(t, err)
	ctx := context.Background()

	state, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "free", state.Status)
	assert.Empty(t, state.LicenseKey)

	require.NoError(t, s.Put(ctx, store.LicenseState{LicenseKey: "ABCD-1234-EFGH-5678", Status: "valid"}))
	state, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "valid", state.Status)
	assert.Equal(t, "ABCD-1234-EFGH-5678", state.LicenseKey)
	assert.False(t, state.UpdatedAt.IsZero())

	require.NoError(t, s.Put(ctx, store.LicenseState{Status: "free"}))
	state, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "free", state.Status)
	assert.Empty(t, state.LicenseKey)
}
