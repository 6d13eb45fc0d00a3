package domain

import "time"

// NodeLink is a directed reference from one node to another, possibly in a
// different notebook. The target is addressed by guid so links survive
// moves between notebooks.
type NodeLink struct {
	ID           int64
	NotebookID   int64
	SourceNodeID int64
	TargetGUID   string
	Label        string
	IsEmbed      bool
	CreatedAt    time.Time
}
