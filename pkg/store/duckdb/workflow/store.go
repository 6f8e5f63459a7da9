package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
)

type Store interface {
	// CreateWorkflow registers a workflow, returning the existing row when it is already known.
	CreateWorkflow(ctx context.Context, identity store.WorkflowIdentity) (*store.Workflow, error)
	GetWorkflow(ctx context.Context, identity store.WorkflowIdentity) (*store.Workflow, error)
	ListWorkflows(ctx context.Context, names []string) ([]*store.Workflow, error)
	UpdateWorkflowStatus(ctx context.Context, identity store.WorkflowIdentity, status string, errMsg *string) error
	UpdateWorkflow(ctx context.Context, identity store.WorkflowIdentity, lastRunAt time.Time) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

const selectColumns = `SELECT name, status, created_at, last_run_at, error FROM workflows`

func (s *defaultStore) CreateWorkflow(ctx context.Context, identity store.WorkflowIdentity) (*store.Workflow, error) {
	if identity.Name == "" {
		return nil, fmt.Errorf("workflow name is empty")
	}

	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`INSERT INTO workflows (name, status, created_at) VALUES (?, 'idle', ?) ON CONFLICT (name) DO NOTHING`,
		identity.Name, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("create workflow: %w", err)
	}
	return s.GetWorkflow(ctx, identity)
}

func (s *defaultStore) GetWorkflow(ctx context.Context, identity store.WorkflowIdentity) (*store.Workflow, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, selectColumns+` WHERE name = ?`, identity.Name)
	wf, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	return wf, nil
}

func (s *defaultStore) ListWorkflows(ctx context.Context, names []string) ([]*store.Workflow, error) {
	query := selectColumns
	args := make([]any, 0, len(names))
	if len(names) > 0 {
		placeholders := make([]string, len(names))
		for i, n := range names {
			placeholders[i] = "?"
			args = append(args, n)
		}
		query += ` WHERE name IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY name`

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}
	defer rows.Close()

	workflows := make([]*store.Workflow, 0)
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return workflows, rows.Err()
}

func (s *defaultStore) UpdateWorkflowStatus(
	ctx context.Context,
	identity store.WorkflowIdentity,
	status string,
	errMsg *string,
) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE workflows SET status = ?, error = ? WHERE name = ?`, status, errMsg, identity.Name)
	return checkUpdated(res, err, identity)
}

func (s *defaultStore) UpdateWorkflow(ctx context.Context, identity store.WorkflowIdentity, lastRunAt time.Time) error {
	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE workflows SET last_run_at = ? WHERE name = ?`, lastRunAt.UTC(), identity.Name)
	return checkUpdated(res, err, identity)
}

func checkUpdated(res sql.Result, err error, identity store.WorkflowIdentity) error {
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("workflow not found: %s", identity.Name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row scanner) (*store.Workflow, error) {
	var (
		wf        store.Workflow
		lastRunAt sql.NullTime
		errMsg    sql.NullString
	)
	if err := row.Scan(&wf.Name, &wf.Status, &wf.CreatedAt, &lastRunAt, &errMsg); err != nil {
		return nil, err
	}
	if lastRunAt.Valid {
		t := lastRunAt.Time
		wf.LastRunAt = &t
	}
	if errMsg.Valid {
		e := errMsg.String
		wf.Error = &e
	}
	return &wf, nil
}
