package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
)

// Store keeps one counter per (feature, year_month). A missing row reads as zero.
type Store interface {
	Count(ctx context.Context, feature, yearMonth string) (int, error)
	Increment(ctx context.Context, feature, yearMonth string) (int, error)
}

type quotaStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &quotaStore{db: db}, nil
}

func (s *quotaStore) Count(ctx context.Context, feature, yearMonth string) (int, error) {
	var count int
	err := duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, `SELECT usage_count FROM quota_counters WHERE feature = ? AND year_month = ?`, feature, yearMonth).
		Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get quota counter: %w", err)
	}
	return count, nil
}

func (s *quotaStore) Increment(ctx context.Context, feature, yearMonth string) (int, error) {
	query := `
		INSERT INTO quota_counters (feature, year_month, usage_count)
		VALUES (?, ?, 1)
		ON CONFLICT (feature, year_month) DO UPDATE SET usage_count = usage_count + 1`

	if _, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, query, feature, yearMonth); err != nil {
		return 0, fmt.Errorf("increment quota counter: %w", err)
	}
	return s.Count(ctx, feature, yearMonth)
}
