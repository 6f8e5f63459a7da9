package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const AuditRunsSequence = `CREATE SEQUENCE IF NOT EXISTS audit_runs_id_seq START 1;`

const AuditRunsSchema = `
	CREATE TABLE IF NOT EXISTS audit_runs (
		id BIGINT PRIMARY KEY DEFAULT nextval('audit_runs_id_seq'),
		audit_date TIMESTAMP NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		issues_count INTEGER NOT NULL DEFAULT 0,
		issues_data VARCHAR,
		fixed_count INTEGER NOT NULL DEFAULT 0
	);
`

const ContentDraftsSequence = `CREATE SEQUENCE IF NOT EXISTS content_drafts_id_seq START 1;`

const ContentDraftsSchema = `
	CREATE TABLE IF NOT EXISTS content_drafts (
		id BIGINT PRIMARY KEY DEFAULT nextval('content_drafts_id_seq'),
		post_id BIGINT NULL,
		content_type VARCHAR NOT NULL,
		prompt VARCHAR,
		generated_content VARCHAR,
		created_at TIMESTAMP NOT NULL,
		status VARCHAR NOT NULL DEFAULT 'draft'
	);
`

const QuotaCountersSchema = `
	CREATE TABLE IF NOT EXISTS quota_counters (
		feature VARCHAR NOT NULL,
		year_month VARCHAR NOT NULL,
		usage_count INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (feature, year_month)
	);
`

const LicenseStateSchema = `
	CREATE TABLE IF NOT EXISTS license_state (
		id INTEGER PRIMARY KEY,
		license_key VARCHAR NOT NULL DEFAULT '',
		status VARCHAR NOT NULL DEFAULT 'free',
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// Documents and attachments share one ID space so post_meta can key on either.
const DocumentsSchema = `
	CREATE TABLE IF NOT EXISTS documents (
		id BIGINT PRIMARY KEY,
		title VARCHAR NOT NULL DEFAULT '',
		content VARCHAR NOT NULL DEFAULT '',
		post_type VARCHAR NOT NULL DEFAULT 'post',
		status VARCHAR NOT NULL DEFAULT 'publish'
	);
`

const AttachmentsSchema = `
	CREATE TABLE IF NOT EXISTS attachments (
		id BIGINT PRIMARY KEY,
		title VARCHAR NOT NULL DEFAULT '',
		url VARCHAR NOT NULL DEFAULT '',
		mime_type VARCHAR NOT NULL DEFAULT 'image/jpeg',
		file_size BIGINT NOT NULL DEFAULT 0
	);
`

const PostMetaSchema = `
	CREATE TABLE IF NOT EXISTS post_meta (
		object_id BIGINT NOT NULL,
		meta_key VARCHAR NOT NULL,
		meta_value VARCHAR,
		PRIMARY KEY (object_id, meta_key)
	);
`

// Workflows holds the state of periodic jobs so schedules survive restarts.
const WorkflowsSchema = `
	CREATE TABLE IF NOT EXISTS workflows (
		name VARCHAR PRIMARY KEY,
		status VARCHAR NOT NULL DEFAULT 'idle',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_run_at TIMESTAMP NULL,
		error VARCHAR NULL
	);
`

var bootQueries = []string{
	AuditRunsSequence,
	AuditRunsSchema,
	ContentDraftsSequence,
	ContentDraftsSchema,
	QuotaCountersSchema,
	LicenseStateSchema,
	DocumentsSchema,
	AttachmentsSchema,
	PostMetaSchema,
	WorkflowsSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
