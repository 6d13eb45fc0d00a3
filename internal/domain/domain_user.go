// Package domain defines the core entities and repository interfaces.
package domain

import "time"

// UserType separates admin accounts from standard ones.
type UserType string

const (
	UserTypeStandard UserType = "standard"
	UserTypeAdmin    UserType = "admin"
)

// User account. Credentials never live here, they are AuthMethod rows.
type User struct {
	UID         int64
	Email       string
	Username    string
	FirstName   string
	LastName    string
	Type        UserType
	IsActive    bool
	IsValidated bool
	LastAccess  time.Time
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   time.Time
}

func (u *User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}

// CanLogin reports whether the account is in a state that may authenticate.
func (u *User) CanLogin() bool {
	return u.IsActive && u.IsValidated && !u.IsDeleted
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
