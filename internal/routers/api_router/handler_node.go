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

// NodeHandler serves node CRUD, recycle bin and copy routes. Writes are
// fanned out to websocket subscribers of the notebook.
type NodeHandler struct {
	*Handler
}

func NewNodeHandler(a *app.App, wss *pkgapp.WebsocketServer) *NodeHandler {
	return &NodeHandler{Handler: NewHandlerWithWSS(a, wss)}
}

// Create adds a node to a notebook.
func (h *NodeHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NodeCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NodeHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeHandler.Create err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	node, err := h.App.NodeService.Create(ctx, uid, notebookID, params)
	if err != nil {
		h.logError(c, "NodeHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(node))
	h.WSS.BroadcastToNotebook(node.NotebookID, code.Success.WithData(node), "NodeModify")
}

// Get returns one node with content.
func (h *NodeHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeHandler.Get err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	ctx := c.Request.Context()

	// Lookup by numeric id, or by guid when the param is not a number.
	var node *dto.NodeDTO
	var err error
	if nodeID := convert.StrTo(c.Param("id")).MustInt64(); nodeID != 0 {
		node, err = h.App.NodeService.Get(ctx, uid, nodeID)
	} else {
		node, err = h.App.NodeService.GetByGUID(ctx, uid, c.Param("id"))
	}
	if err != nil {
		h.logError(c, "NodeHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(node))
}

// Update writes new content under optimistic concurrency. A stale version
// is rejected with the current node attached.
func (h *NodeHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NodeUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NodeHandler.Update.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeHandler.Update err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	node, err := h.App.NodeService.Update(ctx, uid, nodeID, params)
	if err != nil {
		h.logError(c, "NodeHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(node))
	h.WSS.BroadcastToNotebook(node.NotebookID, code.Success.WithData(node), "NodeModify")
}

// Delete moves a node to the recycle bin.
func (h *NodeHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeHandler.Delete err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	// Fetch first so the broadcast can carry the node.
	node, err := h.App.NodeService.Get(ctx, uid, nodeID)
	if err != nil {
		h.logError(c, "NodeHandler.Delete.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	if err := h.App.NodeService.Delete(ctx, uid, nodeID); err != nil {
		h.logError(c, "NodeHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
	h.WSS.BroadcastToNotebook(node.NotebookID, code.Success.WithData(node), "NodeDelete")
}

// Restore brings a node back from the recycle bin.
func (h *NodeHandler) Restore(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeHandler.Restore err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	node, err := h.App.NodeService.Restore(ctx, uid, nodeID)
	if err != nil {
		h.logError(c, "NodeHandler.Restore", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(node))
	h.WSS.BroadcastToNotebook(node.NotebookID, code.Success.WithData(node), "NodeModify")
}

// Purge removes a recycled node permanently, revisions and links included.
func (h *NodeHandler) Purge(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeHandler.Purge err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.NodeService.Purge(ctx, uid, nodeID); err != nil {
		h.logError(c, "NodeHandler.Purge", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// List pages nodes of a notebook. Content is stripped from listings.
func (h *NodeHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NodeListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NodeHandler.List.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeHandler.List err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	nodes, total, err := h.App.NodeService.List(ctx, uid, notebookID, pkgapp.GetPage(c), pkgapp.GetPageSize(c), params)
	if err != nil {
		h.logError(c, "NodeHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, nodes, int(total))
}

// Copy duplicates a node into another notebook. The copy records its origin
// and starts with originality zero.
func (h *NodeHandler) Copy(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NodeCopyRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NodeHandler.Copy.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeHandler.Copy err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	node, err := h.App.NodeService.Copy(ctx, uid, nodeID, params)
	if err != nil {
		h.logError(c, "NodeHandler.Copy", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(node))
	h.WSS.BroadcastToNotebook(node.NotebookID, code.Success.WithData(node), "NodeModify")
}
