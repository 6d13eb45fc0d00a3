package domain

import "time"

// NodeRevision is one historical version of a node's content. Diff stores
// the patch from the previous revision for compact history display.
type NodeRevision struct {
	ID          int64
	NodeID      int64
	Version     int64
	Content     string
	ContentHash string
	Diff        string
	CreatedAt   time.Time
}
