package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
)

type Store interface {
	Add(ctx context.Context, draft store.ContentDraft) (int64, error)
	Get(ctx context.Context, id int64) (*store.ContentDraft, error)
	List(ctx context.Context, limit int) ([]store.ContentDraft, error)
	MarkPublished(ctx context.Context, id int64, documentID int64) error
}

type draftStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &draftStore{db: db}, nil
}

const selectColumns = `SELECT id, post_id, content_type, prompt, generated_content, created_at, status FROM content_drafts`

func (s *draftStore) Add(ctx context.Context, draft store.ContentDraft) (int64, error) {
	status := draft.Status
	if status == "" {
		status = "draft"
	}

	query := `
		INSERT INTO content_drafts (content_type, prompt, generated_content, created_at, status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`

	var id int64
	err := duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, query, draft.ContentType, draft.Prompt, draft.GeneratedContent, draft.CreatedAt, status).
		Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert content draft: %w", err)
	}
	return id, nil
}

func (s *draftStore) Get(ctx context.Context, id int64) (*store.ContentDraft, error) {
	row := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content draft: %w", err)
	}
	return draft, nil
}

func (s *draftStore) List(ctx context.Context, limit int) ([]store.ContentDraft, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query content drafts: %w", err)
	}
	defer rows.Close()

	drafts := make([]store.ContentDraft, 0)
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *draft)
	}
	return drafts, rows.Err()
}

func (s *draftStore) MarkPublished(ctx context.Context, id int64, documentID int64) error {
	res, err := duckdb.Conn(ctx, s.db).
		ExecContext(ctx, `UPDATE content_drafts SET post_id = ?, status = 'published' WHERE id = ?`, documentID, id)
	if err != nil {
		return fmt.Errorf("mark draft published: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark draft published: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("content draft %d not found", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (*store.ContentDraft, error) {
	var (
		draft  store.ContentDraft
		postID sql.NullInt64
		prompt sql.NullString
		body   sql.NullString
	)
	if err := row.Scan(&draft.ID, &postID, &draft.ContentType, &prompt, &body, &draft.CreatedAt, &draft.Status); err != nil {
		return nil, err
	}
	if postID.Valid {
		id := postID.Int64
		draft.DocumentID = &id
	}
	draft.Prompt = prompt.String
	draft.GeneratedContent = body.String
	return &draft, nil
}
