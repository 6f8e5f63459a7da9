package license

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
)

const stateRowID = 1

// Store persists the single installation license row.
type Store interface {
	Get(ctx context.Context) (*store.LicenseState, error)
	Put(ctx context.Context, state store.LicenseState) error
}

type licenseStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &licenseStore{db: db}, nil
}

func (s *licenseStore) Get(ctx context.Context) (*store.LicenseState, error) {
	var state store.LicenseState
	err := duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, `SELECT license_key, status, updated_at FROM license_state WHERE id = ?`, stateRowID).
		Scan(&state.LicenseKey, &state.Status, &state.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &store.LicenseState{Status: "free"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get license state: %w", err)
	}
	return &state, nil
}

func (s *licenseStore) Put(ctx context.Context, state store.LicenseState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO license_state (id, license_key, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			license_key = excluded.license_key,
			status = excluded.status,
			updated_at = excluded.updated_at`

	if _, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, query, stateRowID, state.LicenseKey, state.Status, state.UpdatedAt); err != nil {
		return fmt.Errorf("put license state: %w", err)
	}
	return nil
}
