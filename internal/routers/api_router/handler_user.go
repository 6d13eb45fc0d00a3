package api_router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/dto"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	apperrors "github.com/notefield/notebook-service/pkg/errors"
)

// UserHandler serves account registration, authentication and profile
// routes.
type UserHandler struct {
	*Handler
}

func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{Handler: NewHandler(a)}
}

// Register creates an account. Depending on the new-users site setting the
// request may need an invite token or be rejected outright.
func (h *UserHandler) Register(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserRegisterRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.Register.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.UserService.Register(ctx, params)
	if err != nil {
		h.logError(c, "UserHandler.Register", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Validate confirms an account with the mailed one-shot token.
func (h *UserHandler) Validate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserValidateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.Validate.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	if err := h.App.UserService.Validate(ctx, params); err != nil {
		h.logError(c, "UserHandler.Validate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Login authenticates with credentials and password. When the account has a
// confirmed second factor the result asks for the TOTP step instead of
// carrying a token.
func (h *UserHandler) Login(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserLoginRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.Login.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.UserService.Login(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(c, "UserHandler.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	// An enrolled second factor means no session yet, the client must
	// repeat the login through the totp route.
	if result.TOTPRequired {
		response.ToResponse(code.ErrorUserTOTPRequired)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// LoginTOTP finishes a login for accounts with a second factor.
func (h *UserHandler) LoginTOTP(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserLoginTOTPRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.LoginTOTP.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.UserService.LoginTOTP(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(c, "UserHandler.LoginTOTP", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Recover starts account recovery. The response never reveals whether the
// address is registered.
func (h *UserHandler) Recover(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserRecoverRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.Recover.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.UserService.Recover(ctx, params)
	if err != nil {
		h.logError(c, "UserHandler.Recover", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// LoginRecovery signs in with a one-shot recovery token.
func (h *UserHandler) LoginRecovery(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserLoginRecoveryRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.LoginRecovery.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.UserService.LoginRecovery(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(c, "UserHandler.LoginRecovery", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Info returns the authenticated user's profile.
func (h *UserHandler) Info(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("UserHandler.Info err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	userDTO, err := h.App.UserService.Get(ctx, uid)
	if err != nil {
		h.logError(c, "UserHandler.Info", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(userDTO))
}

// Update modifies the authenticated user's profile. Changing the email
// address clears the validated flag and reissues the validation token.
func (h *UserHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.Update.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("UserHandler.Update err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	userDTO, err := h.App.UserService.Update(ctx, uid, params)
	if err != nil {
		h.logError(c, "UserHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(userDTO))
}

// ChangePassword replaces the password after verifying the old one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserChangePasswordRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.ChangePassword.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("UserHandler.ChangePassword err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.UserService.ChangePassword(ctx, uid, params); err != nil {
		h.logError(c, "UserHandler.ChangePassword", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// EnableTOTP starts a second factor enrollment and returns the secret.
func (h *UserHandler) EnableTOTP(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("UserHandler.EnableTOTP err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	enroll, err := h.App.UserService.EnableTOTP(ctx, uid)
	if err != nil {
		h.logError(c, "UserHandler.EnableTOTP", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(enroll))
}

// VerifyTOTP confirms a pending enrollment with a generated code.
func (h *UserHandler) VerifyTOTP(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserTOTPVerifyRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.VerifyTOTP.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("UserHandler.VerifyTOTP err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.UserService.VerifyTOTP(ctx, uid, params); err != nil {
		h.logError(c, "UserHandler.VerifyTOTP", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// DisableTOTP removes the second factor after a valid code.
func (h *UserHandler) DisableTOTP(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserTOTPVerifyRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.DisableTOTP.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("UserHandler.DisableTOTP err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.UserService.DisableTOTP(ctx, uid, params); err != nil {
		h.logError(c, "UserHandler.DisableTOTP", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// Deactivate closes the authenticated user's account and wipes every
// credential.
func (h *UserHandler) Deactivate(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("UserHandler.Deactivate err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.UserService.Deactivate(ctx, uid); err != nil {
		h.logError(c, "UserHandler.Deactivate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}
