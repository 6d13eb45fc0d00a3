package dto

import "github.com/notefield/notebook-service/pkg/timex"

// SettingUpdateRequest writes one site setting.
type SettingUpdateRequest struct {
	Key   string `json:"key" form:"key" binding:"required,oneof=new-users user-login"`
	Value string `json:"value" form:"value" binding:"required"`
}

// SettingDTO one site setting.
type SettingDTO struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

// InviteTokenCreateRequest mints a single-use invite token.
type InviteTokenCreateRequest struct {
	ExpireDays int `json:"expireDays" form:"expireDays" binding:"omitempty,min=1"`
}

// InviteTokenDTO invite token payload.
type InviteTokenDTO struct {
	ID         int64      `json:"id"`
	Token      string     `json:"token"`
	Exhausted  bool       `json:"exhausted"`
	Expiration timex.Time `json:"expiration"`
	CreatedAt  timex.Time `json:"createdAt"`
}

// AdminUserListRequest filters the user list.
type AdminUserListRequest struct {
	Keyword string `json:"keyword" form:"keyword"`
}

// AdminUserUpdateRequest flips account flags.
type AdminUserUpdateRequest struct {
	IsActive    *bool  `json:"isActive" form:"isActive"`
	IsValidated *bool  `json:"isValidated" form:"isValidated"`
	Type        string `json:"type" form:"type" binding:"omitempty,oneof=standard admin"`
}

// SystemStatusDTO host and process status for the admin panel.
type SystemStatusDTO struct {
	OS            string  `json:"os"`
	Arch          string  `json:"arch"`
	GoVersion     string  `json:"goVersion"`
	Hostname      string  `json:"hostname"`
	Uptime        string  `json:"uptime"`
	NumGoroutine  int     `json:"numGoroutine"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryTotal   uint64  `json:"memoryTotal"`
	MemoryUsed    uint64  `json:"memoryUsed"`
	MemoryPercent float64 `json:"memoryPercent"`
	DiskTotal     uint64  `json:"diskTotal"`
	DiskUsed      uint64  `json:"diskUsed"`
	DiskPercent   float64 `json:"diskPercent"`
	Version       string  `json:"version"`
}
