package api_router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/dto"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/convert"
	apperrors "github.com/notefield/notebook-service/pkg/errors"
)

// AdminHandler serves the administration routes: site settings, invite
// tokens, user management and system status. The admin middleware has
// already checked the caller.
type AdminHandler struct {
	*Handler
}

func NewAdminHandler(a *app.App) *AdminHandler {
	return &AdminHandler{Handler: NewHandler(a)}
}

// GetSettings returns every site setting, defaults filled in.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	settings, err := h.App.AdminService.GetSettings(ctx)
	if err != nil {
		h.logError(c, "AdminHandler.GetSettings", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(settings))
}

// UpdateSetting writes one site setting.
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.SettingUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("AdminHandler.UpdateSetting.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	setting, err := h.App.AdminService.UpdateSetting(ctx, uid, params)
	if err != nil {
		h.logError(c, "AdminHandler.UpdateSetting", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(setting))
}

// CreateInviteToken mints a single-use registration invite.
func (h *AdminHandler) CreateInviteToken(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.InviteTokenCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("AdminHandler.CreateInviteToken.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	invite, err := h.App.AdminService.CreateInviteToken(ctx, uid, params)
	if err != nil {
		h.logError(c, "AdminHandler.CreateInviteToken", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(invite))
}

// ListInviteTokens pages the minted invites.
func (h *AdminHandler) ListInviteTokens(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	invites, total, err := h.App.AdminService.ListInviteTokens(ctx, pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	if err != nil {
		h.logError(c, "AdminHandler.ListInviteTokens", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, invites, int(total))
}

// ListUsers pages accounts, optionally filtered by keyword.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AdminUserListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("AdminHandler.ListUsers.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	users, total, err := h.App.AdminService.ListUsers(ctx, pkgapp.GetPage(c), pkgapp.GetPageSize(c), params.Keyword)
	if err != nil {
		h.logError(c, "AdminHandler.ListUsers", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, users, int(total))
}

// UpdateUser changes an account's flags or type. Admins cannot demote or
// deactivate themselves.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.AdminUserUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("AdminHandler.UpdateUser.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	adminUID := pkgapp.GetUID(c)
	targetUID := convert.StrTo(c.Param("id")).MustInt64()
	if targetUID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	user, err := h.App.AdminService.UpdateUser(ctx, adminUID, targetUID, params)
	if err != nil {
		h.logError(c, "AdminHandler.UpdateUser", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(user))
}

// SystemStatus reports host and runtime health.
func (h *AdminHandler) SystemStatus(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	status, err := h.App.AdminService.SystemStatus(ctx, h.App.Version().Version)
	if err != nil {
		h.logError(c, "AdminHandler.SystemStatus", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(status))
}
