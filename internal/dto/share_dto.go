package dto

import "github.com/notefield/notebook-service/pkg/timex"

// ShareCreateRequest grants a user access to a notebook.
type ShareCreateRequest struct {
	TargetUsername string `json:"targetUsername" form:"targetUsername" binding:"required"`
	Role           string `json:"role" form:"role" binding:"required,oneof=viewer editor"`
	ExpireDays     int    `json:"expireDays" form:"expireDays" binding:"omitempty,min=1"`
}

// ShareLinkCreateRequest creates an account-less read link.
type ShareLinkCreateRequest struct {
	ExpireDays int `json:"expireDays" form:"expireDays" binding:"omitempty,min=1"`
}

// ShareDTO share payload returned to clients.
type ShareDTO struct {
	ID             int64      `json:"id"`
	NotebookID     int64      `json:"notebookId"`
	NotebookName   string     `json:"notebookName,omitempty"`
	OwnerUID       int64      `json:"ownerUid"`
	TargetUID      int64      `json:"targetUid,omitempty"`
	TargetUsername string     `json:"targetUsername,omitempty"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	ViewCount      int64      `json:"viewCount"`
	Expiration     timex.Time `json:"expiration"`
	CreatedAt      timex.Time `json:"createdAt"`
}

// ShareLinkDTO a signed share link.
type ShareLinkDTO struct {
	ShareID int64  `json:"shareId"`
	Token   string `json:"token"`
	URL     string `json:"url"`
}
