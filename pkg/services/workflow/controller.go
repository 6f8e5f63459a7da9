package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/de-tools/seo-atlas/pkg/adapters"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
	"github.com/de-tools/seo-atlas/pkg/models/store"
	"github.com/de-tools/seo-atlas/pkg/store/duckdb/workflow"
)

const DailyAudit = "daily_audit"

type Controller interface {
	Start(ctx context.Context, name string, job Job) error
	Cancel(ctx context.Context, name string) error
	List(ctx context.Context) ([]domain.Workflow, error)
	Stop()
}

type workflowDescriptor struct {
	cancelFunc context.CancelFunc
	wf         *store.Workflow
	runner     *Runner
}

type DefaultController struct {
	workflowStore workflow.Store
	db            *sql.DB
	config        RunnerConfig

	mu        sync.Mutex
	workflows map[string]workflowDescriptor
}

func NewController(db *sql.DB, workflowStore workflow.Store, config RunnerConfig) *DefaultController {
	return &DefaultController{
		db:            db,
		workflowStore: workflowStore,
		config:        config,
		workflows:     make(map[string]workflowDescriptor),
	}
}

func (ctrl *DefaultController) Start(ctx context.Context, name string, job Job) error {
	if job == nil {
		return fmt.Errorf("workflow %s has no job", name)
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if _, running := ctrl.workflows[name]; running {
		return fmt.Errorf("workflow already running: %s", name)
	}

	wf, err := ctrl.workflowStore.CreateWorkflow(ctx, store.WorkflowIdentity{Name: name})
	if err != nil {
		return err
	}

	ctrl.startWorkflow(ctx, wf, job)
	return nil
}

func (ctrl *DefaultController) Cancel(_ context.Context, name string) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	desc, ok := ctrl.workflows[name]
	if !ok {
		return fmt.Errorf("workflow not running: %s", name)
	}
	desc.cancelFunc()
	<-desc.runner.Done()

	delete(ctrl.workflows, name)
	return nil
}

func (ctrl *DefaultController) List(ctx context.Context) ([]domain.Workflow, error) {
	workflows, err := ctrl.workflowStore.ListWorkflows(ctx, nil)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Workflow, 0, len(workflows))
	for _, wf := range workflows {
		res = append(res, *adapters.MapStoreWorkflowToDomain(wf))
	}
	return res, nil
}

// Stop cancels every running workflow and waits for the runners to exit.
func (ctrl *DefaultController) Stop() {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	for name, desc := range ctrl.workflows {
		desc.cancelFunc()
		<-desc.runner.Done()
		delete(ctrl.workflows, name)
	}
}

// startWorkflow must be called with ctrl.mu held.
func (ctrl *DefaultController) startWorkflow(ctx context.Context, wf *store.Workflow, job Job) {
	ctx, cancel := context.WithCancel(ctx)

	runner := NewRunner(wf, ctrl.db, ctrl.workflowStore, job, ctrl.config)
	ctrl.workflows[wf.Name] = workflowDescriptor{
		cancelFunc: cancel,
		wf:         wf,
		runner:     runner,
	}

	go runner.Run(ctx)
}
