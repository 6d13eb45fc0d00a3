package domain

import "time"

// ShareRole is what a grantee may do with a shared notebook.
type ShareRole string

const (
	ShareRoleViewer ShareRole = "viewer"
	ShareRoleEditor ShareRole = "editor"
)

type ShareStatus string

const (
	ShareStatusActive  ShareStatus = "active"
	ShareStatusRevoked ShareStatus = "revoked"
)

// NotebookShare grants a user, or the holder of a share link token, access
// to someone else's notebook. TargetUID is 0 for link shares.
type NotebookShare struct {
	ID         int64
	NotebookID int64
	OwnerUID   int64
	TargetUID  int64
	Role       ShareRole
	Status     ShareStatus
	ViewCount  int64
	Expiration time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (s *NotebookShare) IsLinkShare() bool {
	return s.TargetUID == 0
}

// Usable reports whether the share still grants access.
func (s *NotebookShare) Usable() bool {
	if s.Status != ShareStatusActive {
		return false
	}
	if s.Expiration.IsZero() {
		return true
	}
	return time.Now().Before(s.Expiration)
}

// AllowsWrite reports whether the share permits modifying nodes.
func (s *NotebookShare) AllowsWrite() bool {
	return s.Usable() && s.Role == ShareRoleEditor
}
