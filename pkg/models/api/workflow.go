package api

import "time"

type Workflow struct {
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	LastRunAt *time.Time `json:"last_run_at"`
	Error     *string    `json:"error,omitempty"`
}

type ExportResult struct {
	Location string `json:"location"`
}
