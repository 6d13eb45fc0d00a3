package dto

import "github.com/notefield/notebook-service/pkg/timex"

// NodeCreateRequest creates a node in a notebook.
type NodeCreateRequest struct {
	Title    string `json:"title" form:"title" binding:"required,max=256"`
	Category string `json:"category" form:"category" binding:"max=64"`
	Content  string `json:"content" form:"content"`
}

// NodeUpdateRequest modifies a node. Version is the version the client
// edited; a mismatch is a conflict.
type NodeUpdateRequest struct {
	Title    string `json:"title" form:"title" binding:"required,max=256"`
	Category string `json:"category" form:"category" binding:"max=64"`
	Content  string `json:"content" form:"content"`
	Version  int64  `json:"version" form:"version" binding:"required,min=1"`
}

// NodeListRequest pages and filters nodes of a notebook.
type NodeListRequest struct {
	Keyword       string `json:"keyword" form:"keyword"`
	Category      string `json:"category" form:"category"`
	SearchContent bool   `json:"searchContent" form:"searchContent"`
	Recycle       bool   `json:"recycle" form:"recycle"`
	SortBy        string `json:"sortBy" form:"sortBy" binding:"omitempty,oneof=updated created title"`
	SortOrder     string `json:"sortOrder" form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// NodeCopyRequest copies a node into another notebook. Overwrite replaces
// an existing node with the same title in the destination.
type NodeCopyRequest struct {
	TargetNotebookID int64 `json:"targetNotebookId" form:"targetNotebookId" binding:"required,min=1"`
	Overwrite        bool  `json:"overwrite" form:"overwrite"`
}

// NodeDTO node payload returned to clients.
type NodeDTO struct {
	ID               int64      `json:"id"`
	GUID             string     `json:"guid"`
	NotebookID       int64      `json:"notebookId"`
	Title            string     `json:"title"`
	Category         string     `json:"category"`
	Content          string     `json:"content,omitempty"`
	ContentHash      string     `json:"contentHash"`
	Version          int64      `json:"version"`
	OriginGUID       string     `json:"originGuid,omitempty"`
	OriginalityScore float64    `json:"originalityScore"`
	Size             int64      `json:"size"`
	CreatedAt        timex.Time `json:"createdAt"`
	UpdatedAt        timex.Time `json:"updatedAt"`
}

// NodeRevisionDTO one history entry of a node.
type NodeRevisionDTO struct {
	ID          int64      `json:"id"`
	NodeID      int64      `json:"nodeId"`
	Version     int64      `json:"version"`
	Content     string     `json:"content,omitempty"`
	ContentHash string     `json:"contentHash"`
	CreatedAt   timex.Time `json:"createdAt"`
}
