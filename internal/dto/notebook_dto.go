package dto

import "github.com/notefield/notebook-service/pkg/timex"

// NotebookCreateRequest creates a notebook.
type NotebookCreateRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=128"`
	Slug    string `json:"slug" form:"slug" binding:"omitempty,slug"`
	Summary string `json:"summary" form:"summary" binding:"max=1024"`
}

// NotebookUpdateRequest modifies a notebook.
type NotebookUpdateRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=128"`
	Slug    string `json:"slug" form:"slug" binding:"omitempty,slug"`
	Summary string `json:"summary" form:"summary" binding:"max=1024"`
}

// NotebookTransferRequest moves ownership to another user.
type NotebookTransferRequest struct {
	TargetUsername string `json:"targetUsername" form:"targetUsername" binding:"required"`
}

// NotebookDTO notebook payload returned to clients.
type NotebookDTO struct {
	ID        int64      `json:"id"`
	UID       int64      `json:"uid"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Summary   string     `json:"summary"`
	NodeCount int64      `json:"nodeCount"`
	Role      string     `json:"role,omitempty"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}
