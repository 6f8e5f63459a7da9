package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
)

// Store is the append-only log of audit runs.
type Store interface {
	Add(ctx context.Context, run store.AuditRun) (int64, error)
	Get(ctx context.Context, id int64) (*store.AuditRun, error)
	Latest(ctx context.Context) (*store.AuditRun, error)
	List(ctx context.Context, limit int) ([]store.AuditRun, error)
	IncrementFixed(ctx context.Context, id int64, delta int) error
}

type auditStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &auditStore{
		db: db,
	}, nil
}

const selectColumns = `SELECT id, audit_date, score, issues_count, issues_data, fixed_count FROM audit_runs`

func (s *auditStore) Add(ctx context.Context, run store.AuditRun) (int64, error) {
	issues := run.IssuesData
	if issues == nil {
		issues = []store.Issue{}
	}
	data, err := json.Marshal(issues)
	if err != nil {
		return 0, fmt.Errorf("marshal issues: %w", err)
	}

	query := `
		INSERT INTO audit_runs (audit_date, score, issues_count, issues_data, fixed_count)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

	var id int64
	err = duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, query, run.AuditDate, run.Score, run.IssuesCount, string(data), run.FixedCount).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert audit run: %w", err)
	}
	return id, nil
}

func (s *auditStore) Get(ctx context.Context, id int64) (*store.AuditRun, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get audit run: %w", err)
	}
	return run, nil
}

func (s *auditStore) Latest(ctx context.Context) (*store.AuditRun, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, selectColumns+` ORDER BY audit_date DESC, id DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest audit run: %w", err)
	}
	return run, nil
}

func (s *auditStore) List(ctx context.Context, limit int) ([]store.AuditRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, selectColumns+` ORDER BY audit_date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit runs: %w", err)
	}
	defer rows.Close()

	runs := make([]store.AuditRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func (s *auditStore) IncrementFixed(ctx context.Context, id int64, delta int) error {
	res, err := duckdb.Conn(ctx, s.db).
		ExecContext(ctx, `UPDATE audit_runs SET fixed_count = fixed_count + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("increment fixed count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment fixed count: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("audit run %d not found", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*store.AuditRun, error) {
	var (
		run  store.AuditRun
		data sql.NullString
	)
	if err := row.Scan(&run.ID, &run.AuditDate, &run.Score, &run.IssuesCount, &data, &run.FixedCount); err != nil {
		return nil, err
	}
	run.IssuesData = []store.Issue{}
	if data.Valid && data.String != "" {
		if err := json.Unmarshal([]byte(data.String), &run.IssuesData); err != nil {
			return nil, fmt.Errorf("unmarshal issues: %w", err)
		}
	}
	return &run, nil
}
