package domain

import "time"

type WorkflowStatus string

const (
	WorkflowStatusIdle      WorkflowStatus = "idle"
	WorkflowStatusRunning   WorkflowStatus = "running"
	WorkflowStatusFinished  WorkflowStatus = "finished"
	WorkflowStatusFailed    WorkflowStatus = "failed"
	WorkflowStatusCancelled WorkflowStatus = "cancelled"
)

// Workflow is a named periodic job such as the daily audit.
type Workflow struct {
	Name      string
	Status    WorkflowStatus
	CreatedAt time.Time
	LastRunAt *time.Time
	Error     *string
}
