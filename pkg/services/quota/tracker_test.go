package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
	quotastore "github.com/de-tools/seo-atlas/pkg/store/duckdb/quota"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func setupTracker(t *testing.T, c *clock) Tracker {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := quotastore.NewStore(db)
	require.NoError(t, err)
	tr, err := NewTracker(s, DefaultSettings(), WithClock(c.Now))
	require.NoError(t, err)
	return tr
}

func TestTracker_RemainingCountsDown(t *testing.T) {
	c := &clock{now: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	tr := setupTracker(t, c)
	ctx := context.Background()

	for _, want := range []int{4, 3, 2, 1, 0} {
		got, err := tr.Remaining(ctx, domain.FeatureAudit)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		require.NoError(t, tr.Increment(ctx, domain.FeatureAudit))
	}

	t.Run("increment past the limit stays floored", func(t *testing.T) {
		require.NoError(t, tr.Increment(ctx, domain.FeatureAudit))
		got, err := tr.Remaining(ctx, domain.FeatureAudit)
		require.NoError(t, err)
		assert.Equal(t, 0, got)
	})

	t.Run("features are independent", func(t *testing.T) {
		got, err := tr.Remaining(ctx, domain.FeatureContent)
		require.NoError(t, err)
		assert.Equal(t, 3, got)
	})

	t.Run("new month starts fresh", func(t *testing.T) {
		c.now = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		got, err := tr.Remaining(ctx, domain.FeatureAudit)
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})
}

func TestTracker_MonthKeyIsUTC(t *testing.T) {
	// 23:30 on March 31st in UTC-5 is already April in UTC
	local := time.FixedZone("EST", -5*3600)
	c := &clock{now: time.Date(2025, 3, 31, 23, 30, 0, 0, local)}
	tr := setupTracker(t, c)
	ctx := context.Background()

	require.NoError(t, tr.Increment(ctx, domain.FeatureContent))

	c.now = time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	got, err := tr.Remaining(ctx, domain.FeatureContent)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestTracker_UnknownFeature(t *testing.T) {
	tr := setupTracker(t, &clock{now: time.Now()})
	_, err := tr.Remaining(context.Background(), "export")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, tr.Increment(context.Background(), "export"), domain.ErrValidation)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Count(ctx context.Context, feature, yearMonth string) (int, error) {
	args := m.Called(ctx, feature, yearMonth)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) Increment(ctx context.Context, feature, yearMonth string) (int, error) {
	args := m.Called(ctx, feature, yearMonth)
	return args.Int(0), args.Error(1)
}

func TestTracker_StoreErrors(t *testing.T) {
	s := new(mockStore)
	s.On("Count", mock.Anything, "audit", "2025-03").Return(0, errors.New("locked"))
	s.On("Increment", mock.Anything, "audit", "2025-03").Return(0, errors.New("locked"))

	tr, err := NewTracker(s, DefaultSettings(), WithClock(func() time.Time {
		return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)

	_, err = tr.Remaining(context.Background(), domain.FeatureAudit)
	assert.ErrorContains(t, err, "read audit quota")
	assert.ErrorContains(t, tr.Increment(context.Background(), domain.FeatureAudit), "increment audit quota")
	s.AssertExpectations(t)
}
