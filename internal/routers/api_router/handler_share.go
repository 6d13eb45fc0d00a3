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

// ShareHandler serves sharing routes: user grants, signed read links and
// the account-less views those links open.
type ShareHandler struct {
	*Handler
}

func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{Handler: NewHandler(a)}
}

// Create grants a notebook to another user as viewer or editor.
func (h *ShareHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ShareCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ShareHandler.Create err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	share, err := h.App.ShareService.Create(ctx, uid, notebookID, params)
	if err != nil {
		h.logError(c, "ShareHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(share))
}

// CreateLink mints a signed read-only link for a notebook.
func (h *ShareHandler) CreateLink(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ShareLinkCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.CreateLink.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ShareHandler.CreateLink err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	link, err := h.App.ShareService.CreateLink(ctx, uid, notebookID, pkgapp.GetAccessHost(c), params)
	if err != nil {
		h.logError(c, "ShareHandler.CreateLink", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(link))
}

// Revoke disables a grant or link immediately, ahead of any token expiry.
func (h *ShareHandler) Revoke(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ShareHandler.Revoke err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	shareID := convert.StrTo(c.Param("id")).MustInt64()
	if shareID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.ShareService.Revoke(ctx, uid, shareID); err != nil {
		h.logError(c, "ShareHandler.Revoke", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// ListByNotebook returns every share of a notebook, for the owner.
func (h *ShareHandler) ListByNotebook(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ShareHandler.ListByNotebook err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	shares, err := h.App.ShareService.ListByNotebook(ctx, uid, notebookID)
	if err != nil {
		h.logError(c, "ShareHandler.ListByNotebook", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(shares))
}

// ListReceived returns usable grants the caller received from others.
func (h *ShareHandler) ListReceived(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ShareHandler.ListReceived err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	shares, err := h.App.ShareService.ListReceived(ctx, uid)
	if err != nil {
		h.logError(c, "ShareHandler.ListReceived", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(shares))
}

// ---------------- account-less link views ----------------

// SharedNotebook returns the notebook a verified share token opens.
func (h *ShareHandler) SharedNotebook(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	share := pkgapp.GetShare(c)
	if share == nil {
		response.ToResponse(code.ErrorNotShareAuthToken)
		return
	}

	ctx := c.Request.Context()

	notebook, err := h.App.ShareService.SharedNotebook(ctx, share.NotebookID)
	if err != nil {
		h.logError(c, "ShareHandler.SharedNotebook", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(notebook))
}

// SharedNodes pages the live nodes of a shared notebook.
func (h *ShareHandler) SharedNodes(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NodeListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.SharedNodes.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	share := pkgapp.GetShare(c)
	if share == nil {
		response.ToResponse(code.ErrorNotShareAuthToken)
		return
	}

	ctx := c.Request.Context()

	nodes, total, err := h.App.ShareService.SharedNodes(ctx, share.NotebookID, pkgapp.GetPage(c), pkgapp.GetPageSize(c), params)
	if err != nil {
		h.logError(c, "ShareHandler.SharedNodes", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, nodes, int(total))
}

// SharedNode returns one node of a shared notebook with content.
func (h *ShareHandler) SharedNode(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	share := pkgapp.GetShare(c)
	if share == nil {
		response.ToResponse(code.ErrorNotShareAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("node_id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	node, err := h.App.ShareService.SharedNode(ctx, share.NotebookID, nodeID)
	if err != nil {
		h.logError(c, "ShareHandler.SharedNode", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(node))
}
