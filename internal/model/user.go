package model

import "github.com/notefield/notebook-service/pkg/timex"

const TableNameUser = "user"

// User mapped from table <user>
type User struct {
	UID         int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid"`
	Email       string     `gorm:"column:email;not null;index:idx_email" json:"email"`
	Username    string     `gorm:"column:username;not null;index:idx_username" json:"username"`
	FirstName   string     `gorm:"column:first_name" json:"firstName"`
	LastName    string     `gorm:"column:last_name" json:"lastName"`
	Type        string     `gorm:"column:type;not null;default:standard" json:"type"`
	IsActive    int64      `gorm:"column:is_active;not null;default:1" json:"isActive"`
	IsValidated int64      `gorm:"column:is_validated;not null;default:0" json:"isValidated"`
	LastAccess  timex.Time `gorm:"column:last_access;type:datetime;default:NULL" json:"lastAccess"`
	IsDeleted   int64      `gorm:"column:is_deleted;not null;default:0" json:"isDeleted"`
	CreatedAt   timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
	UpdatedAt   timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt"`
	DeletedAt   timex.Time `gorm:"column:deleted_at;type:datetime;default:NULL" json:"deletedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}

const TableNameAuthMethod = "auth_method"

// AuthMethod mapped from table <auth_method>
type AuthMethod struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UID        int64      `gorm:"column:uid;not null;index:idx_auth_uid" json:"uid"`
	Method     string     `gorm:"column:method;not null;index:idx_auth_method" json:"method"`
	Secret     string     `gorm:"column:secret;not null" json:"-"`
	Step       int        `gorm:"column:step;not null;default:1" json:"step"`
	Status     string     `gorm:"column:status;not null;default:active" json:"status"`
	LastUsed   timex.Time `gorm:"column:last_used;type:datetime;default:NULL" json:"lastUsed"`
	Expiration timex.Time `gorm:"column:expiration;type:datetime;default:NULL" json:"expiration"`
	CreatedAt  timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
}

// TableName AuthMethod's table name
func (*AuthMethod) TableName() string {
	return TableNameAuthMethod
}

const TableNameInviteToken = "invite_token"

// InviteToken mapped from table <invite_token>
type InviteToken struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Purpose    string     `gorm:"column:purpose;not null" json:"purpose"`
	Token      string     `gorm:"column:token;not null;index:idx_invite_token" json:"token"`
	Exhausted  int64      `gorm:"column:exhausted;not null;default:0" json:"exhausted"`
	Expiration timex.Time `gorm:"column:expiration;type:datetime;default:NULL" json:"expiration"`
	CreatedAt  timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt"`
}

// TableName InviteToken's table name
func (*InviteToken) TableName() string {
	return TableNameInviteToken
}

const TableNameSiteSetting = "site_setting"

// SiteSetting mapped from table <site_setting>
type SiteSetting struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"column:name;not null;uniqueIndex:idx_setting_name" json:"name"`
	Value     string     `gorm:"column:value;not null" json:"value"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt"`
}

// TableName SiteSetting's table name
func (*SiteSetting) TableName() string {
	return TableNameSiteSetting
}
