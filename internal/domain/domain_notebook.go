package domain

import "time"

// Notebook is a user-owned topical container of nodes. Exactly one owner.
type Notebook struct {
	ID        int64
	UID       int64
	Name      string
	Slug      string
	Summary   string
	NodeCount int64
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time
}

func (n *Notebook) OwnedBy(uid int64) bool {
	return n.UID == uid
}
