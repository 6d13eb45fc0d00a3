package domain

import (
	"context"
	"time"
)

// UserRepository persists user accounts.
type UserRepository interface {
	GetByUID(ctx context.Context, uid int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdateLastAccess(ctx context.Context, uid int64, at time.Time) error
	SetActive(ctx context.Context, uid int64, active bool) error
	SetValidated(ctx context.Context, uid int64, validated bool) error
	SetType(ctx context.Context, uid int64, userType UserType) error
	SoftDelete(ctx context.Context, uid int64) error

	List(ctx context.Context, page, pageSize int, keyword string) ([]*User, error)
	ListCount(ctx context.Context, keyword string) (int64, error)

	// DeleteDeactivatedBefore physically removes accounts deactivated
	// before the cutoff. Used by the purge task.
	DeleteDeactivatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuthMethodRepository persists user credentials.
type AuthMethodRepository interface {
	Create(ctx context.Context, method *AuthMethod) (*AuthMethod, error)
	GetActive(ctx context.Context, uid int64, kind AuthMethodKind) (*AuthMethod, error)
	// GetActiveBySecret finds an active method of a kind by its exact
	// secret. Used for mailed token lookups.
	GetActiveBySecret(ctx context.Context, kind AuthMethodKind, secret string) (*AuthMethod, error)
	// GetPending returns the newest unconfirmed enrollment of a kind.
	GetPending(ctx context.Context, uid int64, kind AuthMethodKind) (*AuthMethod, error)
	Activate(ctx context.Context, id int64) error
	UpdateSecret(ctx context.Context, id int64, secret string) error
	TouchLastUsed(ctx context.Context, id int64, at time.Time) error
	Deactivate(ctx context.Context, id int64) error
	DeactivateByKind(ctx context.Context, uid int64, kind AuthMethodKind) error
	DeactivateAll(ctx context.Context, uid int64) error

	// DeleteInactiveBefore removes retired methods older than the cutoff.
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// InviteTokenRepository persists registration invite tokens.
type InviteTokenRepository interface {
	Create(ctx context.Context, token *InviteToken) (*InviteToken, error)
	GetByToken(ctx context.Context, token string) (*InviteToken, error)
	Exhaust(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int) ([]*InviteToken, error)
	ListCount(ctx context.Context) (int64, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// SiteSettingRepository persists runtime site switches.
type SiteSettingRepository interface {
	Get(ctx context.Context, name string) (*SiteSetting, error)
	Set(ctx context.Context, name, value string) error
	List(ctx context.Context) ([]*SiteSetting, error)
}

// NotebookRepository persists notebooks.
type NotebookRepository interface {
	GetByID(ctx context.Context, id int64) (*Notebook, error)
	GetByIDForUID(ctx context.Context, id, uid int64) (*Notebook, error)
	GetBySlug(ctx context.Context, uid int64, slug string) (*Notebook, error)
	Create(ctx context.Context, notebook *Notebook) (*Notebook, error)
	Update(ctx context.Context, notebook *Notebook) error
	// Transfer moves ownership from one user to another.
	Transfer(ctx context.Context, id, fromUID, toUID int64) error
	SoftDelete(ctx context.Context, id, uid int64) error
	IncrNodeCount(ctx context.Context, id, delta int64) error

	List(ctx context.Context, uid int64, page, pageSize int) ([]*Notebook, error)
	ListCount(ctx context.Context, uid int64) (int64, error)
}

// NotebookShareRepository persists sharing grants.
type NotebookShareRepository interface {
	Create(ctx context.Context, share *NotebookShare) (*NotebookShare, error)
	GetByID(ctx context.Context, id int64) (*NotebookShare, error)
	// GetActive returns the active grant of a notebook for a target user.
	GetActive(ctx context.Context, notebookID, targetUID int64) (*NotebookShare, error)
	Revoke(ctx context.Context, id int64) error
	IncrViewCount(ctx context.Context, id int64) error

	ListByNotebook(ctx context.Context, notebookID int64) ([]*NotebookShare, error)
	// ListByTarget returns active grants made to a user.
	ListByTarget(ctx context.Context, targetUID int64) ([]*NotebookShare, error)
}

// NodeRepository persists nodes.
type NodeRepository interface {
	GetByID(ctx context.Context, id int64) (*Node, error)
	GetByGUID(ctx context.Context, guid string) (*Node, error)
	GetByTitle(ctx context.Context, notebookID int64, title string) (*Node, error)
	Create(ctx context.Context, node *Node) (*Node, error)
	Update(ctx context.Context, node *Node) error
	UpdateOriginality(ctx context.Context, id int64, score float64) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error

	// List pages nodes of a notebook. keyword matches title, and content
	// when searchContent is set. isRecycle switches to the recycle bin.
	// sortBy: updated(default), created, title; sortOrder: desc(default), asc.
	List(ctx context.Context, notebookID int64, page, pageSize int, keyword, category string, searchContent, isRecycle bool, sortBy, sortOrder string) ([]*Node, error)
	ListCount(ctx context.Context, notebookID int64, keyword, category string, searchContent, isRecycle bool) (int64, error)
	// ListAllByNotebook returns every node of a notebook for export and
	// module runs. Recycled nodes are excluded unless includeRecycle is set.
	ListAllByNotebook(ctx context.Context, notebookID int64, includeRecycle bool) ([]*Node, error)
	CountSizeByNotebook(ctx context.Context, notebookID int64) (*CountSizeResult, error)

	// DeleteRecycledBefore physically removes soft-deleted nodes older
	// than the cutoff.
	DeleteRecycledBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NodeRevisionRepository persists node version history.
type NodeRevisionRepository interface {
	Create(ctx context.Context, revision *NodeRevision) (*NodeRevision, error)
	GetByVersion(ctx context.Context, nodeID, version int64) (*NodeRevision, error)
	ListByNode(ctx context.Context, nodeID int64, page, pageSize int) ([]*NodeRevision, error)
	ListCount(ctx context.Context, nodeID int64) (int64, error)
	// PruneToDepth deletes oldest revisions beyond keep for one node.
	PruneToDepth(ctx context.Context, nodeID int64, keep int) (int64, error)
	DeleteByNode(ctx context.Context, nodeID int64) error
	// ListNodeIDsWithHistory returns node ids having more than keep
	// revisions. Used by the prune task.
	ListNodeIDsWithHistory(ctx context.Context, keep int) ([]int64, error)
}

// NodeLinkRepository persists directed node links.
type NodeLinkRepository interface {
	Create(ctx context.Context, link *NodeLink) (*NodeLink, error)
	GetByID(ctx context.Context, id int64) (*NodeLink, error)
	Delete(ctx context.Context, id int64) error
	DeleteBySource(ctx context.Context, sourceNodeID int64) error
	ListBySource(ctx context.Context, sourceNodeID int64) ([]*NodeLink, error)
	ListBacklinks(ctx context.Context, targetGUID string) ([]*NodeLink, error)
}

// ModuleRepository persists notebook module attachments.
type ModuleRepository interface {
	Create(ctx context.Context, module *Module) (*Module, error)
	GetByID(ctx context.Context, id int64) (*Module, error)
	GetByNotebookKind(ctx context.Context, notebookID int64, kind string) (*Module, error)
	Update(ctx context.Context, module *Module) error
	// UpdateRun records the outcome of one module run.
	UpdateRun(ctx context.Context, id int64, status ModuleStatus, output, lastError string, at time.Time) error
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	Delete(ctx context.Context, id int64) error

	ListByNotebook(ctx context.Context, notebookID int64) ([]*Module, error)
	ListEnabled(ctx context.Context) ([]*Module, error)
}
