package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
)

// Store is the DuckDB-backed content corpus: documents, image attachments and their metadata.
type Store interface {
	Ping(ctx context.Context) error
	ListDocuments(ctx context.Context, status string, postTypes []string) ([]store.Document, error)
	GetDocument(ctx context.Context, id int64) (*store.Document, error)
	CountDocuments(ctx context.Context, status string) (map[string]int, error)
	InsertDocument(ctx context.Context, doc store.Document) (int64, error)
	ListImages(ctx context.Context) ([]store.Attachment, error)
	GetImage(ctx context.Context, id int64) (*store.Attachment, error)
	ImagesMissingMeta(ctx context.Context, key string) ([]store.Attachment, error)
	InsertAttachment(ctx context.Context, att store.Attachment) (int64, error)
	GetMeta(ctx context.Context, objectID int64, key string) (string, error)
	SetMeta(ctx context.Context, objectID int64, key, value string) error
}

// ErrObjectNotFound is returned when metadata is written for an unknown document or attachment.
var ErrObjectNotFound = errors.New("object not found")

type contentStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &contentStore{db: db}, nil
}

func (s *contentStore) Ping(ctx context.Context) error {
	var one int
	return duckdb.Conn(ctx, s.db).QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}

func (s *contentStore) ListDocuments(ctx context.Context, status string, postTypes []string) ([]store.Document, error) {
	query := `SELECT id, title, content, post_type, status FROM documents WHERE status = ?`
	args := []any{status}
	if len(postTypes) > 0 {
		placeholders := make([]string, 0, len(postTypes))
		for _, t := range postTypes {
			placeholders = append(placeholders, "?")
			args = append(args, t)
		}
		query += fmt.Sprintf(` AND post_type IN (%s)`, strings.Join(placeholders, ","))
	}
	query += ` ORDER BY id`

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]store.Document, 0)
	for rows.Next() {
		var doc store.Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.PostType, &doc.Status); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *contentStore) GetDocument(ctx context.Context, id int64) (*store.Document, error) {
	var doc store.Document
	err := duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, `SELECT id, title, content, post_type, status FROM documents WHERE id = ?`, id).
		Scan(&doc.ID, &doc.Title, &doc.Content, &doc.PostType, &doc.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (s *contentStore) CountDocuments(ctx context.Context, status string) (map[string]int, error) {
	rows, err := duckdb.Conn(ctx, s.db).
		QueryContext(ctx, `SELECT post_type, COUNT(*) FROM documents WHERE status = ? GROUP BY post_type`, status)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			postType string
			count    int
		)
		if err := rows.Scan(&postType, &count); err != nil {
			return nil, err
		}
		counts[postType] = count
	}
	return counts, rows.Err()
}

func (s *contentStore) InsertDocument(ctx context.Context, doc store.Document) (int64, error) {
	return s.insertObject(ctx, doc.ID, func(conn duckdb.Executor, id int64) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO documents (id, title, content, post_type, status) VALUES (?, ?, ?, ?, ?)`,
			id, doc.Title, doc.Content, doc.PostType, doc.Status,
		)
		return err
	})
}

func (s *contentStore) InsertAttachment(ctx context.Context, att store.Attachment) (int64, error) {
	mime := att.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	return s.insertObject(ctx, att.ID, func(conn duckdb.Executor, id int64) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO attachments (id, title, url, mime_type, file_size) VALUES (?, ?, ?, ?, ?)`,
			id, att.Title, att.URL, mime, att.FileSize,
		)
		return err
	})
}

// insertObject allocates the next shared object ID when id is zero.
func (s *contentStore) insertObject(ctx context.Context, id int64, insert func(conn duckdb.Executor, id int64) error) (int64, error) {
	err := duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		conn := duckdb.Conn(ctx, s.db)
		if id == 0 {
			err := conn.QueryRowContext(ctx, `
				SELECT GREATEST(
					(SELECT COALESCE(MAX(id), 0) FROM documents),
					(SELECT COALESCE(MAX(id), 0) FROM attachments)
				) + 1`).Scan(&id)
			if err != nil {
				return fmt.Errorf("allocate object id: %w", err)
			}
		}
		if err := insert(conn, id); err != nil {
			return fmt.Errorf("insert object %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

const selectImages = `
	SELECT a.id, a.title, a.url, a.mime_type, a.file_size
	FROM attachments a`

func (s *contentStore) ListImages(ctx context.Context) ([]store.Attachment, error) {
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, selectImages+` WHERE a.mime_type LIKE 'image/%' ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("query images: %w", err)
	}
	defer rows.Close()
	return scanAttachments(rows)
}

func (s *contentStore) GetImage(ctx context.Context, id int64) (*store.Attachment, error) {
	var att store.Attachment
	err := duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, selectImages+` WHERE a.id = ?`, id).
		Scan(&att.ID, &att.Title, &att.URL, &att.MimeType, &att.FileSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return &att, nil
}

func (s *contentStore) ImagesMissingMeta(ctx context.Context, key string) ([]store.Attachment, error) {
	query := selectImages + `
		LEFT JOIN post_meta pm ON a.id = pm.object_id AND pm.meta_key = ?
		WHERE a.mime_type LIKE 'image/%'
		AND (pm.meta_value IS NULL OR pm.meta_value = '')
		ORDER BY a.id`

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("query images missing %s: %w", key, err)
	}
	defer rows.Close()
	return scanAttachments(rows)
}

func (s *contentStore) GetMeta(ctx context.Context, objectID int64, key string) (string, error) {
	var value sql.NullString
	err := duckdb.Conn(ctx, s.db).
		QueryRowContext(ctx, `SELECT meta_value FROM post_meta WHERE object_id = ? AND meta_key = ?`, objectID, key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get meta %s: %w", key, err)
	}
	return value.String, nil
}

func (s *contentStore) SetMeta(ctx context.Context, objectID int64, key, value string) error {
	return duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		conn := duckdb.Conn(ctx, s.db)

		var exists bool
		err := conn.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM documents WHERE id = ?)
				OR EXISTS (SELECT 1 FROM attachments WHERE id = ?)`, objectID, objectID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("lookup object %d: %w", objectID, err)
		}
		if !exists {
			return fmt.Errorf("%w: %d", ErrObjectNotFound, objectID)
		}

		_, err = conn.ExecContext(ctx, `
			INSERT INTO post_meta (object_id, meta_key, meta_value) VALUES (?, ?, ?)
			ON CONFLICT (object_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`,
			objectID, key, value,
		)
		if err != nil {
			return fmt.Errorf("set meta %s: %w", key, err)
		}
		return nil
	})
}

func scanAttachments(rows *sql.Rows) ([]store.Attachment, error) {
	atts := make([]store.Attachment, 0)
	for rows.Next() {
		var att store.Attachment
		if err := rows.Scan(&att.ID, &att.Title, &att.URL, &att.MimeType, &att.FileSize); err != nil {
			return nil, err
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}
