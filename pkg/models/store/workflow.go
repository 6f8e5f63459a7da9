package store

import "time"

// Workflow mirrors a row of the workflows table.
type Workflow struct {
	Name      string
	Status    string
	CreatedAt time.Time
	LastRunAt *time.Time
	Error     *string
}

type WorkflowIdentity struct {
	Name string
}
