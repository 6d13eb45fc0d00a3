package domain

import "time"

// ModuleStatus tracks the lifecycle of a notebook's module attachment.
type ModuleStatus string

const (
	ModuleStatusIdle    ModuleStatus = "idle"
	ModuleStatusRunning ModuleStatus = "running"
	ModuleStatusFailed  ModuleStatus = "failed"
)

// Module attaches a backend integration to a notebook. Kind names a
// registered module backend (e.g. vocabulary, timeline). Config and Output
// are JSON documents owned by the backend.
type Module struct {
	ID         int64
	NotebookID int64
	Kind       string
	Config     string
	Output     string
	IsEnabled  bool
	Status     ModuleStatus
	LastError  string
	LastRunAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
