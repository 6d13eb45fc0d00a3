package domain

import "time"

// NodeAction records the last write kind on a node.
type NodeAction string

const (
	NodeActionCreate NodeAction = "create"
	NodeActionModify NodeAction = "modify"
	NodeActionDelete NodeAction = "delete"
)

// Node is the atomic unit of information inside a notebook.
//
// Origin fields track provenance: when a node is copied from another node
// they record where it came from and how far the content has diverged
// since. OriginalityScore is 1 - similarity(content, origin content),
// clamped to [0, 1].
type Node struct {
	ID               int64
	GUID             string
	NotebookID       int64
	UID              int64
	Title            string
	Category         string
	Content          string
	ContentHash      string
	Version          int64
	Action           NodeAction
	OriginGUID       string
	OriginUID        int64
	OriginalityScore float64
	Size             int64
	IsDeleted        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        time.Time
}

func (n *Node) IsCopy() bool {
	return n.OriginGUID != ""
}

func (n *Node) InRecycle() bool {
	return n.IsDeleted
}

// CountSizeResult aggregates node count and total content size.
type CountSizeResult struct {
	Count int64
	Size  int64
}
