package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/logger"
	"github.com/notefield/notebook-service/pkg/mailer"
	"github.com/notefield/notebook-service/pkg/timex"
	"github.com/notefield/notebook-service/pkg/util"
)

const totpIssuer = "notebook-service"

// UserService covers registration, authentication and profile management.
//
// Login failures are deliberately reported through the single
// code.ErrorInvalidLogin regardless of whether the account exists, the
// password is wrong or the account is in a bad state.
type UserService interface {
	Register(ctx context.Context, req *dto.UserRegisterRequest) (*dto.RegisterResultDTO, error)
	Validate(ctx context.Context, req *dto.UserValidateRequest) error
	Login(ctx context.Context, req *dto.UserLoginRequest, ip string) (*dto.LoginResultDTO, error)
	LoginTOTP(ctx context.Context, req *dto.UserLoginTOTPRequest, ip string) (*dto.LoginResultDTO, error)
	Recover(ctx context.Context, req *dto.UserRecoverRequest) (*dto.RecoverResultDTO, error)
	LoginRecovery(ctx context.Context, req *dto.UserLoginRecoveryRequest, ip string) (*dto.LoginResultDTO, error)
	ChangePassword(ctx context.Context, uid int64, req *dto.UserChangePasswordRequest) error
	EnableTOTP(ctx context.Context, uid int64) (*dto.TOTPEnrollDTO, error)
	VerifyTOTP(ctx context.Context, uid int64, req *dto.UserTOTPVerifyRequest) error
	DisableTOTP(ctx context.Context, uid int64, req *dto.UserTOTPVerifyRequest) error
	Get(ctx context.Context, uid int64) (*dto.UserDTO, error)
	Update(ctx context.Context, uid int64, req *dto.UserUpdateRequest) (*dto.UserDTO, error)
	Deactivate(ctx context.Context, uid int64) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type userService struct {
	userRepo     domain.UserRepository
	methodRepo   domain.AuthMethodRepository
	inviteRepo   domain.InviteTokenRepository
	settingRepo  domain.SiteSettingRepository
	tokenManager app.TokenManager
	mailer       *mailer.Mailer
	logger       *zap.Logger
	config       *ServiceConfig
}

func NewUserService(
	userRepo domain.UserRepository,
	methodRepo domain.AuthMethodRepository,
	inviteRepo domain.InviteTokenRepository,
	settingRepo domain.SiteSettingRepository,
	tokenManager app.TokenManager,
	m *mailer.Mailer,
	log *zap.Logger,
	config *ServiceConfig,
) UserService {
	return &userService{
		userRepo:     userRepo,
		methodRepo:   methodRepo,
		inviteRepo:   inviteRepo,
		settingRepo:  settingRepo,
		tokenManager: tokenManager,
		mailer:       m,
		logger:       log,
		config:       config,
	}
}

func userToDTO(u *domain.User) *dto.UserDTO {
	if u == nil {
		return nil
	}
	return &dto.UserDTO{
		UID:         u.UID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Type:        string(u.Type),
		IsValidated: u.IsValidated,
		LastAccess:  timex.Time(u.LastAccess),
		CreatedAt:   timex.Time(u.CreatedAt),
		UpdatedAt:   timex.Time(u.UpdatedAt),
	}
}

// settingValue reads a site switch, falling back to a default when the row
// was never written.
func (s *userService) settingValue(ctx context.Context, name, fallback string) string {
	setting, err := s.settingRepo.Get(ctx, name)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("site setting query failed", zap.String("setting", name), zap.Error(err))
		}
		return fallback
	}
	return setting.Value
}

func (s *userService) Register(ctx context.Context, req *dto.UserRegisterRequest) (*dto.RegisterResultDTO, error) {
	var invite *domain.InviteToken

	switch s.settingValue(ctx, domain.SettingNewUsers, domain.NewUsersOpen) {
	case domain.NewUsersClosed:
		return nil, code.ErrorUserRegisterClosed
	case domain.NewUsersToken:
		if req.InviteToken == "" {
			return nil, code.ErrorUserRegisterInviteToken
		}
		t, err := s.inviteRepo.GetByToken(ctx, req.InviteToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.ErrorInviteTokenNotFound
			}
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		if !t.Usable() {
			return nil, code.ErrorUserRegisterInviteToken
		}
		invite = t
	}

	if req.Password != req.ConfirmPassword {
		return nil, code.ErrorUserPasswordSame.WithDetails("password confirmation mismatch")
	}
	if !util.IsValidPassword(req.Password) {
		return nil, code.ErrorUserPasswordWeak
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, code.ErrorUserEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, code.ErrorUserNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Type:      domain.UserTypeStandard,
		IsActive:  true,
	})
	if err != nil {
		return nil, code.ErrorUserCreateFail.WithDetails(err.Error())
	}

	hash, err := util.GeneratePasswordHash(req.Password)
	if err != nil {
		return nil, code.ErrorUserCreateFail.WithDetails(err.Error())
	}
	if _, err := s.methodRepo.Create(ctx, &domain.AuthMethod{
		UID:    user.UID,
		Method: domain.AuthMethodPassword,
		Secret: hash,
		Step:   domain.AuthStepPrimary,
		Status: domain.AuthMethodActive,
	}); err != nil {
		return nil, code.ErrorUserCreateFail.WithDetails(err.Error())
	}

	if invite != nil {
		if err := s.inviteRepo.Exhaust(ctx, invite.ID); err != nil {
			s.logger.Error("invite token exhaust failed", zap.Int64(logger.FieldUID, user.UID), zap.Error(err))
		}
	}

	token, err := s.issueValidationToken(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Int64(logger.FieldUID, user.UID),
		zap.String("username", user.Username))

	result := &dto.RegisterResultDTO{User: userToDTO(user)}
	if !s.mailer.Enabled() {
		result.ValidationToken = token
	}
	return result, nil
}

// issueValidationToken retires previous validation tokens, mints a fresh
// one and mails it. The token is returned for the no-mailer fallback.
func (s *userService) issueValidationToken(ctx context.Context, user *domain.User) (string, error) {
	if err := s.methodRepo.DeactivateByKind(ctx, user.UID, domain.AuthMethodValidationToken); err != nil {
		return "", code.ErrorDBQuery.WithDetails(err.Error())
	}
	token := util.GenerateMailToken(user.Email, 16)
	if _, err := s.methodRepo.Create(ctx, &domain.AuthMethod{
		UID:        user.UID,
		Method:     domain.AuthMethodValidationToken,
		Secret:     token,
		Step:       domain.AuthStepToken,
		Status:     domain.AuthMethodActive,
		Expiration: time.Now().Add(s.config.User.TokenExpiry),
	}); err != nil {
		return "", code.ErrorUserCreateFail.WithDetails(err.Error())
	}

	if s.mailer.Enabled() {
		body := fmt.Sprintf("<p>Hello %s,</p><p>Your account validation token is:</p><p><b>%s</b></p>", user.Username, token)
		if err := s.mailer.Send(user.Email, "Validate your account", body); err != nil {
			s.logger.Error("validation mail send failed", zap.Int64(logger.FieldUID, user.UID), zap.Error(err))
			return "", code.ErrorUserMailSendFail
		}
	}
	return token, nil
}

func (s *userService) Validate(ctx context.Context, req *dto.UserValidateRequest) error {
	method, err := s.methodRepo.GetActiveBySecret(ctx, domain.AuthMethodValidationToken, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorUserValidationToken
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	// Validation tokens are one-shot: retire before the expiry check so a
	// stale token cannot be replayed later.
	if err := s.methodRepo.Deactivate(ctx, method.ID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if method.Expired() {
		return code.ErrorUserValidationToken
	}

	if err := s.userRepo.SetValidated(ctx, method.UID, true); err != nil {
		return code.ErrorUserUpdateFail.WithDetails(err.Error())
	}
	s.logger.Info("user validated", zap.Int64(logger.FieldUID, method.UID))
	return nil
}

// findByCredentials resolves a login identifier that may be an email or a
// username.
func (s *userService) findByCredentials(ctx context.Context, credentials string) (*domain.User, error) {
	if util.IsValidEmail(credentials) {
		return s.userRepo.GetByEmail(ctx, credentials)
	}
	return s.userRepo.GetByUsername(ctx, credentials)
}

// checkPrimary verifies the password step and all account gates. Every
// failure collapses to ErrorInvalidLogin.
func (s *userService) checkPrimary(ctx context.Context, credentials, password string) (*domain.User, error) {
	user, err := s.findByCredentials(ctx, credentials)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorInvalidLogin
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	method, err := s.methodRepo.GetActive(ctx, user.UID, domain.AuthMethodPassword)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorInvalidLogin
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !util.CheckPasswordHash(method.Secret, password) {
		return nil, code.ErrorInvalidLogin
	}
	if !user.CanLogin() {
		return nil, code.ErrorInvalidLogin
	}

	if user.Type != domain.UserTypeAdmin &&
		s.settingValue(ctx, domain.SettingUserLogin, domain.UserLoginEnabled) == domain.UserLoginDisabled {
		return nil, code.ErrorUserLoginDisabled
	}

	if err := s.methodRepo.TouchLastUsed(ctx, method.ID, time.Now()); err != nil {
		s.logger.Warn("last used update failed", zap.Int64(logger.FieldUID, user.UID), zap.Error(err))
	}
	return user, nil
}

// hasTOTP reports whether a confirmed second factor exists.
func (s *userService) hasTOTP(ctx context.Context, uid int64) (*domain.AuthMethod, bool, error) {
	method, err := s.methodRepo.GetActive(ctx, uid, domain.AuthMethodTOTP)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return method, true, nil
}

func (s *userService) issueSession(ctx context.Context, user *domain.User, ip string) (*dto.LoginResultDTO, error) {
	token, err := s.tokenManager.Generate(user.UID, user.Username, ip)
	if err != nil {
		return nil, code.ErrorUserAuthTokenGenerate.WithDetails(err.Error())
	}
	if err := s.userRepo.UpdateLastAccess(ctx, user.UID, time.Now()); err != nil {
		s.logger.Warn("last access update failed", zap.Int64(logger.FieldUID, user.UID), zap.Error(err))
	}

	out := userToDTO(user)
	out.Token = token
	out.LastAccess = timex.Now()
	return &dto.LoginResultDTO{User: out}, nil
}

func (s *userService) Login(ctx context.Context, req *dto.UserLoginRequest, ip string) (*dto.LoginResultDTO, error) {
	user, err := s.checkPrimary(ctx, req.Credentials, req.Password)
	if err != nil {
		return nil, err
	}
	if _, enabled, err := s.hasTOTP(ctx, user.UID); err != nil {
		return nil, err
	} else if enabled {
		return &dto.LoginResultDTO{TOTPRequired: true}, nil
	}

	s.logger.Info("user login", zap.Int64(logger.FieldUID, user.UID), zap.String("ip", ip))
	return s.issueSession(ctx, user, ip)
}

func (s *userService) LoginTOTP(ctx context.Context, req *dto.UserLoginTOTPRequest, ip string) (*dto.LoginResultDTO, error) {
	user, err := s.checkPrimary(ctx, req.Credentials, req.Password)
	if err != nil {
		return nil, err
	}
	method, enabled, err := s.hasTOTP(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, code.ErrorUserTOTPNotEnabled
	}
	if !totp.Validate(req.Code, method.Secret) {
		return nil, code.ErrorUserTOTPInvalid
	}
	if err := s.methodRepo.TouchLastUsed(ctx, method.ID, time.Now()); err != nil {
		s.logger.Warn("last used update failed", zap.Int64(logger.FieldUID, user.UID), zap.Error(err))
	}

	s.logger.Info("user login with totp", zap.Int64(logger.FieldUID, user.UID), zap.String("ip", ip))
	return s.issueSession(ctx, user, ip)
}

func (s *userService) Recover(ctx context.Context, req *dto.UserRecoverRequest) (*dto.RecoverResultDTO, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address is registered.
			return &dto.RecoverResultDTO{Sent: true}, nil
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if user.IsDeleted {
		return &dto.RecoverResultDTO{Sent: true}, nil
	}

	if err := s.methodRepo.DeactivateByKind(ctx, user.UID, domain.AuthMethodRecoveryToken); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	token := util.GenerateMailToken(user.Email, 16)
	if _, err := s.methodRepo.Create(ctx, &domain.AuthMethod{
		UID:        user.UID,
		Method:     domain.AuthMethodRecoveryToken,
		Secret:     token,
		Step:       domain.AuthStepToken,
		Status:     domain.AuthMethodActive,
		Expiration: time.Now().Add(s.config.User.TokenExpiry),
	}); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if s.mailer.Enabled() {
		body := fmt.Sprintf("<p>Hello %s,</p><p>Your account recovery token is:</p><p><b>%s</b></p>", user.Username, token)
		if err := s.mailer.Send(user.Email, "Account recovery", body); err != nil {
			s.logger.Error("recovery mail send failed", zap.Int64(logger.FieldUID, user.UID), zap.Error(err))
			return nil, code.ErrorUserMailSendFail
		}
		return &dto.RecoverResultDTO{Sent: true}, nil
	}
	return &dto.RecoverResultDTO{Sent: false, Token: token}, nil
}

func (s *userService) LoginRecovery(ctx context.Context, req *dto.UserLoginRecoveryRequest, ip string) (*dto.LoginResultDTO, error) {
	method, err := s.methodRepo.GetActiveBySecret(ctx, domain.AuthMethodRecoveryToken, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorInvalidRecovery
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	// One-shot: the token dies on first presentation, valid or not.
	if err := s.methodRepo.Deactivate(ctx, method.ID); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if method.Expired() {
		return nil, code.ErrorInvalidRecovery
	}

	user, err := s.userRepo.GetByUID(ctx, method.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorInvalidRecovery
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !user.IsActive || user.IsDeleted {
		return nil, code.ErrorInvalidRecovery
	}

	// Holding a mailed token proves control of the address.
	if !user.IsValidated {
		if err := s.userRepo.SetValidated(ctx, user.UID, true); err != nil {
			return nil, code.ErrorUserUpdateFail.WithDetails(err.Error())
		}
		user.IsValidated = true
	}

	s.logger.Info("user login by recovery", zap.Int64(logger.FieldUID, user.UID), zap.String("ip", ip))
	return s.issueSession(ctx, user, ip)
}

func (s *userService) ChangePassword(ctx context.Context, uid int64, req *dto.UserChangePasswordRequest) error {
	if req.Password != req.ConfirmPassword {
		return code.ErrorUserPasswordSame.WithDetails("password confirmation mismatch")
	}
	if !util.IsValidPassword(req.Password) {
		return code.ErrorUserPasswordWeak
	}
	if req.Password == req.OldPassword {
		return code.ErrorUserPasswordSame
	}

	method, err := s.methodRepo.GetActive(ctx, uid, domain.AuthMethodPassword)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorUserOldPassword
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !util.CheckPasswordHash(method.Secret, req.OldPassword) {
		return code.ErrorUserOldPassword
	}

	hash, err := util.GeneratePasswordHash(req.Password)
	if err != nil {
		return code.ErrorUserUpdateFail.WithDetails(err.Error())
	}
	if err := s.methodRepo.Deactivate(ctx, method.ID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, err := s.methodRepo.Create(ctx, &domain.AuthMethod{
		UID:    uid,
		Method: domain.AuthMethodPassword,
		Secret: hash,
		Step:   domain.AuthStepPrimary,
		Status: domain.AuthMethodActive,
	}); err != nil {
		return code.ErrorUserUpdateFail.WithDetails(err.Error())
	}

	// A password change invalidates any outstanding recovery token.
	if err := s.methodRepo.DeactivateByKind(ctx, uid, domain.AuthMethodRecoveryToken); err != nil {
		s.logger.Warn("recovery token cleanup failed", zap.Int64(logger.FieldUID, uid), zap.Error(err))
	}

	s.logger.Info("user password changed", zap.Int64(logger.FieldUID, uid))
	return nil
}

func (s *userService) EnableTOTP(ctx context.Context, uid int64) (*dto.TOTPEnrollDTO, error) {
	if _, enabled, err := s.hasTOTP(ctx, uid); err != nil {
		return nil, err
	} else if enabled {
		return nil, code.ErrorUserTOTPAlreadyEnabled
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, code.ErrorUserNotFound
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}

	// Replace any earlier unconfirmed enrollment.
	if err := s.methodRepo.DeactivateByKind(ctx, uid, domain.AuthMethodTOTP); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, err := s.methodRepo.Create(ctx, &domain.AuthMethod{
		UID:    uid,
		Method: domain.AuthMethodTOTP,
		Secret: key.Secret(),
		Step:   domain.AuthStepSecond,
		Status: domain.AuthMethodPending,
	}); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	return &dto.TOTPEnrollDTO{Secret: key.Secret(), URL: key.URL()}, nil
}

func (s *userService) VerifyTOTP(ctx context.Context, uid int64, req *dto.UserTOTPVerifyRequest) error {
	method, err := s.methodRepo.GetPending(ctx, uid, domain.AuthMethodTOTP)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorUserTOTPNotEnabled
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if !totp.Validate(req.Code, method.Secret) {
		return code.ErrorUserTOTPInvalid
	}
	if err := s.methodRepo.Activate(ctx, method.ID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	s.logger.Info("user totp enabled", zap.Int64(logger.FieldUID, uid))
	return nil
}

func (s *userService) DisableTOTP(ctx context.Context, uid int64, req *dto.UserTOTPVerifyRequest) error {
	method, enabled, err := s.hasTOTP(ctx, uid)
	if err != nil {
		return err
	}
	if !enabled {
		return code.ErrorUserTOTPNotEnabled
	}
	if !totp.Validate(req.Code, method.Secret) {
		return code.ErrorUserTOTPInvalid
	}
	if err := s.methodRepo.DeactivateByKind(ctx, uid, domain.AuthMethodTOTP); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	s.logger.Info("user totp disabled", zap.Int64(logger.FieldUID, uid))
	return nil
}

func (s *userService) Get(ctx context.Context, uid int64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return userToDTO(user), nil
}

func (s *userService) Update(ctx context.Context, uid int64, req *dto.UserUpdateRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
			return nil, code.ErrorUserEmailExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		user.Email = req.Email
		// A new address must be proven again.
		user.IsValidated = false
	}
	if req.Username != "" && req.Username != user.Username {
		if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
			return nil, code.ErrorUserNameExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		user.Username = req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, code.ErrorUserUpdateFail.WithDetails(err.Error())
	}
	if !user.IsValidated {
		if _, err := s.issueValidationToken(ctx, user); err != nil {
			return nil, err
		}
	}
	return userToDTO(user), nil
}

func (s *userService) Deactivate(ctx context.Context, uid int64) error {
	if err := s.userRepo.SoftDelete(ctx, uid); err != nil {
		return code.ErrorUserUpdateFail.WithDetails(err.Error())
	}
	// Wipe every credential so nothing of the account can authenticate.
	if err := s.methodRepo.DeactivateAll(ctx, uid); err != nil {
		return code.ErrorUserUpdateFail.WithDetails(err.Error())
	}
	s.logger.Info("user deactivated", zap.Int64(logger.FieldUID, uid))
	return nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorUserNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return user, nil
}
