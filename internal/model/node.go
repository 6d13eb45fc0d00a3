package model

import "github.com/notefield/notebook-service/pkg/timex"

const TableNameNode = "node"

// Node mapped from table <node>
type Node struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	GUID             string     `gorm:"column:guid;not null;uniqueIndex:idx_node_guid" json:"guid"`
	NotebookID       int64      `gorm:"column:notebook_id;not null;index:idx_node_notebook" json:"notebookId"`
	UID              int64      `gorm:"column:uid;not null;index:idx_node_uid" json:"uid"`
	Title            string     `gorm:"column:title;not null;index:idx_node_title" json:"title"`
	Category         string     `gorm:"column:category;index:idx_node_category" json:"category"`
	Content          string     `gorm:"column:content;type:text" json:"content"`
	ContentHash      string     `gorm:"column:content_hash;not null" json:"contentHash"`
	Version          int64      `gorm:"column:version;not null;default:1" json:"version"`
	Action           string     `gorm:"column:action;not null;default:create" json:"action"`
	OriginGUID       string     `gorm:"column:origin_guid;index:idx_node_origin" json:"originGuid"`
	OriginUID        int64      `gorm:"column:origin_uid" json:"originUid"`
	OriginalityScore float64    `gorm:"column:originality_score;not null;default:0" json:"originalityScore"`
	Size             int64      `gorm:"column:size;not null;default:0" json:"size"`
	IsDeleted        int64      `gorm:"column:is_deleted;not null;default:0" json:"isDeleted"`
	CreatedAt        timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
	UpdatedAt        timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt"`
	DeletedAt        timex.Time `gorm:"column:deleted_at;type:datetime;default:NULL" json:"deletedAt"`
}

// TableName Node's table name
func (*Node) TableName() string {
	return TableNameNode
}

const TableNameNodeRevision = "node_revision"

// NodeRevision mapped from table <node_revision>
type NodeRevision struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NodeID      int64      `gorm:"column:node_id;not null;index:idx_revision_node" json:"nodeId"`
	Version     int64      `gorm:"column:version;not null" json:"version"`
	Content     string     `gorm:"column:content;type:text" json:"content"`
	ContentHash string     `gorm:"column:content_hash;not null" json:"contentHash"`
	Diff        string     `gorm:"column:diff;type:text" json:"diff"`
	CreatedAt   timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
}

// TableName NodeRevision's table name
func (*NodeRevision) TableName() string {
	return TableNameNodeRevision
}

const TableNameNodeLink = "node_link"

// NodeLink mapped from table <node_link>
type NodeLink struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NotebookID   int64      `gorm:"column:notebook_id;not null" json:"notebookId"`
	SourceNodeID int64      `gorm:"column:source_node_id;not null;index:idx_link_source" json:"sourceNodeId"`
	TargetGUID   string     `gorm:"column:target_guid;not null;index:idx_link_target" json:"targetGuid"`
	Label        string     `gorm:"column:label" json:"label"`
	IsEmbed      bool       `gorm:"column:is_embed;default:false" json:"isEmbed"`
	CreatedAt    timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
}

// TableName NodeLink's table name
func (*NodeLink) TableName() string {
	return TableNameNodeLink
}

const TableNameModule = "module"

// Module mapped from table <module>
type Module struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NotebookID int64      `gorm:"column:notebook_id;not null;index:idx_module_notebook" json:"notebookId"`
	Kind       string     `gorm:"column:kind;not null" json:"kind"`
	Config     string     `gorm:"column:config;type:text" json:"config"`
	Output     string     `gorm:"column:output;type:text" json:"output"`
	IsEnabled  int64      `gorm:"column:is_enabled;not null;default:1" json:"isEnabled"`
	Status     string     `gorm:"column:status;not null;default:idle" json:"status"`
	LastError  string     `gorm:"column:last_error" json:"lastError"`
	LastRunAt  timex.Time `gorm:"column:last_run_at;type:datetime;default:NULL" json:"lastRunAt"`
	CreatedAt  timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
	UpdatedAt  timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt"`
}

// TableName Module's table name
func (*Module) TableName() string {
	return TableNameModule
}
