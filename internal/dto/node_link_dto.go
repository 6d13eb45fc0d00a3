package dto

import "github.com/notefield/notebook-service/pkg/timex"

// NodeLinkCreateRequest links a node to another node by guid.
type NodeLinkCreateRequest struct {
	TargetGUID string `json:"targetGuid" form:"targetGuid" binding:"required"`
	Label      string `json:"label" form:"label" binding:"max=256"`
	IsEmbed    bool   `json:"isEmbed" form:"isEmbed"`
}

// NodeLinkDTO link payload returned to clients.
type NodeLinkDTO struct {
	ID           int64      `json:"id"`
	SourceNodeID int64      `json:"sourceNodeId"`
	TargetGUID   string     `json:"targetGuid"`
	TargetTitle  string     `json:"targetTitle,omitempty"`
	Label        string     `json:"label"`
	IsEmbed      bool       `json:"isEmbed"`
	CreatedAt    timex.Time `json:"createdAt"`
}
