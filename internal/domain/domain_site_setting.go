package domain

import "time"

// Site setting names and their values.
const (
	SettingNewUsers  = "new-users"
	SettingUserLogin = "user-login"

	NewUsersOpen   = "open"
	NewUsersToken  = "token"
	NewUsersClosed = "closed"

	UserLoginEnabled  = "enabled"
	UserLoginDisabled = "disabled"
)

// SiteSetting is one admin-editable runtime switch.
type SiteSetting struct {
	ID        int64
	Name      string
	Value     string
	UpdatedAt time.Time
}
