package workflow

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb/workflow"
)

// Job is the unit of work a workflow triggers on every tick.
type Job func(ctx context.Context) error

type Runner struct {
	workflow      *store.Workflow
	db            *sql.DB
	workflowStore workflow.Store
	job           Job
	done          chan struct{}
	progress      chan RunnerProgress
	config        RunnerConfig
	now           func() time.Time
}

type RunnerConfig struct {
	// Interval between two runs (default: 24h)
	Interval time.Duration
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Interval: 24 * time.Hour,
	}
}

type RunnerProgress struct {
	Runs      int64
	LastRunAt time.Time
	Err       error
}

func NewRunner(
	wf *store.Workflow,
	db *sql.DB,
	workflowStore workflow.Store,
	job Job,
	config RunnerConfig,
) *Runner {
	if config.Interval <= 0 {
		config.Interval = DefaultRunnerConfig().Interval
	}
	return &Runner{
		workflow:      wf,
		db:            db,
		workflowStore: workflowStore,
		job:           job,
		done:          make(chan struct{}),
		progress:      make(chan RunnerProgress, 100),
		config:        config,
		now:           time.Now,
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// firstDelay resumes the schedule from the last persisted run.
func (r *Runner) firstDelay() time.Duration {
	if r.workflow.LastRunAt == nil {
		return 0
	}
	delay := r.workflow.LastRunAt.Add(r.config.Interval).Sub(r.now())
	if delay < 0 {
		return 0
	}
	return delay
}

func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("workflow", r.workflow.Name).Logger()
	ctx = logger.WithContext(ctx)
	defer close(r.done)
	defer close(r.progress)

	identity := store.WorkflowIdentity{Name: r.workflow.Name}
	timer := time.NewTimer(r.firstDelay())
	defer timer.Stop()

	runs := int64(0)
	for {
		select {
		case <-ctx.Done():
			if err := r.workflowStore.UpdateWorkflowStatus(context.WithoutCancel(ctx), identity, string(domain.WorkflowStatusCancelled), nil); err != nil {
				logger.Error().Err(err).Msg("failed to update workflow state")
			}
			logger.Info().Msg("workflow stopped")
			return
		case <-timer.C:
			startedAt := r.now().UTC()
			err := r.execute(ctx, identity, startedAt)
			runs++

			select {
			case r.progress <- RunnerProgress{Runs: runs, LastRunAt: startedAt, Err: err}:
			default:
			}
			timer.Reset(r.config.Interval)
		}
	}
}

func (r *Runner) execute(ctx context.Context, identity store.WorkflowIdentity, startedAt time.Time) error {
	logger := zerolog.Ctx(ctx)

	if err := r.workflowStore.UpdateWorkflowStatus(ctx, identity, string(domain.WorkflowStatusRunning), nil); err != nil {
		logger.Error().Err(err).Msg("failed to update workflow state")
	}

	jobErr := r.job(ctx)
	status := domain.WorkflowStatusFinished
	var errMsg *string
	if jobErr != nil {
		status = domain.WorkflowStatusFailed
		msg := jobErr.Error()
		errMsg = &msg
		logger.Error().Err(jobErr).Msg("workflow run failed")
	} else {
		logger.Info().Msg("workflow run finished")
	}

	// run state is recorded even when the workflow is being cancelled
	err := duckdb.InTransaction(context.WithoutCancel(ctx), r.db, func(ctx context.Context) error {
		if err := r.workflowStore.UpdateWorkflowStatus(ctx, identity, string(status), errMsg); err != nil {
			return err
		}
		return r.workflowStore.UpdateWorkflow(ctx, identity, startedAt)
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to update workflow state")
	}
	return jobErr
}
