package content

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
)

// Corpus is the YAML site export accepted by Import.
type Corpus struct {
	Documents []CorpusDocument `yaml:"documents"`
	Images    []CorpusImage    `yaml:"images"`
}

type CorpusDocument struct {
	ID     int64             `yaml:"id"`
	Title  string            `yaml:"title"`
	Body   string            `yaml:"body"`
	Type   string            `yaml:"type"`
	Status string            `yaml:"status"`
	Meta   map[string]string `yaml:"meta"`
}

type CorpusImage struct {
	ID       int64             `yaml:"id"`
	Title    string            `yaml:"title"`
	URL      string            `yaml:"url"`
	MimeType string            `yaml:"mime_type"`
	FileSize int64             `yaml:"file_size"`
	Meta     map[string]string `yaml:"meta"`
}

// ImportStats reports how many objects an import wrote.
type ImportStats struct {
	Documents int
	Images    int
	Meta      int
}

func ImportFile(ctx context.Context, db *sql.DB, s Store, path string) (ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()
	return Import(ctx, db, s, f)
}

// Import loads a YAML corpus into the store within a single transaction.
func Import(ctx context.Context, db *sql.DB, s Store, r io.Reader) (ImportStats, error) {
	var corpus Corpus
	if err := yaml.NewDecoder(r).Decode(&corpus); err != nil {
		return ImportStats{}, fmt.Errorf("decode corpus: %w", err)
	}

	var stats ImportStats
	err := duckdb.InTransaction(ctx, db, func(ctx context.Context) error {
		for _, d := range corpus.Documents {
			postType := d.Type
			if postType == "" {
				postType = "post"
			}
			status := d.Status
			if status == "" {
				status = "publish"
			}
			id, err := s.InsertDocument(ctx, store.Document{
				ID:       d.ID,
				Title:    d.Title,
				Content:  d.Body,
				PostType: postType,
				Status:   status,
			})
			if err != nil {
				return err
			}
			stats.Documents++

			n, err := setMeta(ctx, s, id, d.Meta)
			if err != nil {
				return err
			}
			stats.Meta += n
		}

		for _, img := range corpus.Images {
			id, err := s.InsertAttachment(ctx, store.Attachment{
				ID:       img.ID,
				Title:    img.Title,
				URL:      img.URL,
				MimeType: img.MimeType,
				FileSize: img.FileSize,
			})
			if err != nil {
				return err
			}
			stats.Images++

			n, err := setMeta(ctx, s, id, img.Meta)
			if err != nil {
				return err
			}
			stats.Meta += n
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, fmt.Errorf("import corpus: %w", err)
	}
	return stats, nil
}

func setMeta(ctx context.Context, s Store, id int64, meta map[string]string) (int, error) {
	for k, v := range meta {
		if err := s.SetMeta(ctx, id, k, v); err != nil {
			return 0, err
		}
	}
	return len(meta), nil
}
