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

// NotebookHandler serves notebook lifecycle routes.
type NotebookHandler struct {
	*Handler
}

func NewNotebookHandler(a *app.App) *NotebookHandler {
	return &NotebookHandler{Handler: NewHandler(a)}
}

// Create adds a notebook for the authenticated user.
func (h *NotebookHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NotebookCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NotebookHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NotebookHandler.Create err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	notebook, err := h.App.NotebookService.Create(ctx, uid, params)
	if err != nil {
		h.logError(c, "NotebookHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(notebook))
}

// Get returns one notebook the user owns or has access to.
func (h *NotebookHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NotebookHandler.Get err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	notebook, err := h.App.NotebookService.Get(ctx, uid, notebookID)
	if err != nil {
		h.logError(c, "NotebookHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(notebook))
}

// Update renames or re-describes a notebook.
func (h *NotebookHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NotebookUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NotebookHandler.Update.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NotebookHandler.Update err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	notebook, err := h.App.NotebookService.Update(ctx, uid, notebookID, params)
	if err != nil {
		h.logError(c, "NotebookHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(notebook))
}

// Delete removes a notebook and everything in it.
func (h *NotebookHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NotebookHandler.Delete err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.NotebookService.Delete(ctx, uid, notebookID); err != nil {
		h.logError(c, "NotebookHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// List pages the user's own notebooks.
func (h *NotebookHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NotebookHandler.List err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	notebooks, total, err := h.App.NotebookService.List(ctx, uid, pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	if err != nil {
		h.logError(c, "NotebookHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, notebooks, int(total))
}

// ListShared returns notebooks other users granted to the caller.
func (h *NotebookHandler) ListShared(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NotebookHandler.ListShared err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	notebooks, err := h.App.NotebookService.ListShared(ctx, uid)
	if err != nil {
		h.logError(c, "NotebookHandler.ListShared", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(notebooks))
}

// Transfer moves notebook ownership to another user.
func (h *NotebookHandler) Transfer(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NotebookTransferRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NotebookHandler.Transfer.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NotebookHandler.Transfer err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	notebook, err := h.App.NotebookService.Transfer(ctx, uid, notebookID, params)
	if err != nil {
		h.logError(c, "NotebookHandler.Transfer", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(notebook))
}
