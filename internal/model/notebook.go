package model

import "github.com/notefield/notebook-service/pkg/timex"

const TableNameNotebook = "notebook"

// Notebook mapped from table <notebook>
type Notebook struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UID       int64      `gorm:"column:uid;not null;index:idx_notebook_uid" json:"uid"`
	Name      string     `gorm:"column:name;not null" json:"name"`
	Slug      string     `gorm:"column:slug;not null;index:idx_notebook_slug" json:"slug"`
	Summary   string     `gorm:"column:summary" json:"summary"`
	NodeCount int64      `gorm:"column:node_count;not null;default:0" json:"nodeCount"`
	IsDeleted int64      `gorm:"column:is_deleted;not null;default:0" json:"isDeleted"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt"`
	DeletedAt timex.Time `gorm:"column:deleted_at;type:datetime;default:NULL" json:"deletedAt"`
}

// TableName Notebook's table name
func (*Notebook) TableName() string {
	return TableNameNotebook
}

const TableNameNotebookShare = "notebook_share"

// NotebookShare mapped from table <notebook_share>
type NotebookShare struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NotebookID int64      `gorm:"column:notebook_id;not null;index:idx_share_notebook" json:"notebookId"`
	OwnerUID   int64      `gorm:"column:owner_uid;not null" json:"ownerUid"`
	TargetUID  int64      `gorm:"column:target_uid;not null;index:idx_share_target" json:"targetUid"`
	Role       string     `gorm:"column:role;not null;default:viewer" json:"role"`
	Status     string     `gorm:"column:status;not null;default:active" json:"status"`
	ViewCount  int64      `gorm:"column:view_count;not null;default:0" json:"viewCount"`
	Expiration timex.Time `gorm:"column:expiration;type:datetime;default:NULL" json:"expiration"`
	CreatedAt  timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
	UpdatedAt  timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt"`
}

// TableName NotebookShare's table name
func (*NotebookShare) TableName() string {
	return TableNameNotebookShare
}
