package dto

import "github.com/notefield/notebook-service/pkg/timex"

// ModuleAttachRequest attaches a backend module to a notebook.
type ModuleAttachRequest struct {
	Kind   string `json:"kind" form:"kind" binding:"required,oneof=vocabulary timeline"`
	Config string `json:"config" form:"config"`
}

// ModuleUpdateRequest modifies a module configuration.
type ModuleUpdateRequest struct {
	Config    string `json:"config" form:"config"`
	IsEnabled *bool  `json:"isEnabled" form:"isEnabled"`
}

// ModuleDTO module payload returned to clients.
type ModuleDTO struct {
	ID         int64      `json:"id"`
	NotebookID int64      `json:"notebookId"`
	Kind       string     `json:"kind"`
	Config     string     `json:"config"`
	Output     string     `json:"output,omitempty"`
	IsEnabled  bool       `json:"isEnabled"`
	Status     string     `json:"status"`
	LastError  string     `json:"lastError,omitempty"`
	LastRunAt  timex.Time `json:"lastRunAt"`
	CreatedAt  timex.Time `json:"createdAt"`
	UpdatedAt  timex.Time `json:"updatedAt"`
}
