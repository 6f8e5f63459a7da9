package commands

import (
	"context"

	"github.com/de-tools/seo-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/seo-atlas/pkg/services/operations"
	contentstore "github.com/de-tools/seo-atlas/pkg/store/duckdb/content"
)

type CorpusImporter interface {
	ImportCorpus(ctx context.Context, path string) (contentstore.ImportStats, error)
}

type Scheduler interface {
	StartScheduler(ctx context.Context) error
}

// Env carries the services commands run against. The root command fills it in
// before any subcommand executes.
type Env struct {
	Ops       operations.Service
	Importer  CorpusImporter
	Scheduler Scheduler
	Reporter  *export.Reporter
}
