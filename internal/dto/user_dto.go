// Package dto defines request parameters and response structs.
package dto

import "github.com/notefield/notebook-service/pkg/timex"

// UserRegisterRequest registration parameters. InviteToken is required only
// when the site runs invite-only.
type UserRegisterRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`
	Username        string `json:"username" form:"username" binding:"required,username"`
	Password        string `json:"password" form:"password" binding:"required,password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
	FirstName       string `json:"firstName" form:"firstName"`
	LastName        string `json:"lastName" form:"lastName"`
	InviteToken     string `json:"inviteToken" form:"inviteToken"`
}

// UserValidateRequest account validation by mailed token.
type UserValidateRequest struct {
	Token string `json:"token" form:"token" binding:"required"`
}

// UserLoginRequest password login parameters.
type UserLoginRequest struct {
	Credentials string `json:"credentials" form:"credentials" binding:"required"`
	Password    string `json:"password" form:"password" binding:"required"`
}

// UserLoginTOTPRequest second factor login parameters.
type UserLoginTOTPRequest struct {
	Credentials string `json:"credentials" form:"credentials" binding:"required"`
	Password    string `json:"password" form:"password" binding:"required"`
	Code        string `json:"code" form:"code" binding:"required"`
}

// UserRecoverRequest starts account recovery by email.
type UserRecoverRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// UserLoginRecoveryRequest one-shot recovery token login.
type UserLoginRecoveryRequest struct {
	Token string `json:"token" form:"token" binding:"required"`
}

// UserChangePasswordRequest password change parameters.
type UserChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required,password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"`
}

// UserTOTPVerifyRequest confirms a TOTP enrollment or disables it.
type UserTOTPVerifyRequest struct {
	Code string `json:"code" form:"code" binding:"required"`
}

// UserUpdateRequest profile modification parameters. Name fields are
// pointers so an omitted field leaves the stored value alone.
type UserUpdateRequest struct {
	Email     string  `json:"email" form:"email" binding:"omitempty,email"`
	Username  string  `json:"username" form:"username" binding:"omitempty,username"`
	FirstName *string `json:"firstName" form:"firstName"`
	LastName  *string `json:"lastName" form:"lastName"`
}

// ---------------- DTO / Response ----------------

// UserDTO user payload returned to clients.
type UserDTO struct {
	UID         int64      `json:"uid"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Type        string     `json:"type"`
	IsValidated bool       `json:"isValidated"`
	Token       string     `json:"token,omitempty"`
	LastAccess  timex.Time `json:"lastAccess"`
	CreatedAt   timex.Time `json:"createdAt"`
	UpdatedAt   timex.Time `json:"updatedAt"`
}

// LoginResultDTO login outcome. When TOTPRequired is set the client must
// repeat the login with a one-time code.
type LoginResultDTO struct {
	TOTPRequired bool     `json:"totpRequired"`
	User         *UserDTO `json:"user,omitempty"`
}

// RecoverResultDTO recovery outcome. Token is only populated when no SMTP
// mailer is configured.
type RecoverResultDTO struct {
	Sent  bool   `json:"sent"`
	Token string `json:"token,omitempty"`
}

// TOTPEnrollDTO TOTP enrollment data for the authenticator app.
type TOTPEnrollDTO struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// RegisterResultDTO registration outcome. ValidationToken is only
// populated when no SMTP mailer is configured.
type RegisterResultDTO struct {
	User            *UserDTO `json:"user"`
	ValidationToken string   `json:"validationToken,omitempty"`
}
