package api_router

import (
	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/internal/app"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/convert"
	apperrors "github.com/notefield/notebook-service/pkg/errors"
)

// NodeRevisionHandler serves the version history routes of a node.
type NodeRevisionHandler struct {
	*Handler
}

func NewNodeRevisionHandler(a *app.App, wss *pkgapp.WebsocketServer) *NodeRevisionHandler {
	return &NodeRevisionHandler{Handler: NewHandlerWithWSS(a, wss)}
}

// List pages the stored revisions of a node, newest first.
func (h *NodeRevisionHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeRevisionHandler.List err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	revisions, total, err := h.App.NodeService.ListRevisions(ctx, uid, nodeID, pkgapp.GetPage(c), pkgapp.GetPageSize(c))
	if err != nil {
		h.logError(c, "NodeRevisionHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, revisions, int(total))
}

// Get returns a single revision with its reconstructed content.
func (h *NodeRevisionHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeRevisionHandler.Get err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	version := convert.StrTo(c.Param("version")).MustInt64()
	if nodeID == 0 || version == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	revision, err := h.App.NodeService.GetRevision(ctx, uid, nodeID, version)
	if err != nil {
		h.logError(c, "NodeRevisionHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(revision))
}

// Restore writes an old revision's content back as a new version.
func (h *NodeRevisionHandler) Restore(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeRevisionHandler.Restore err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	version := convert.StrTo(c.Param("version")).MustInt64()
	if nodeID == 0 || version == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	node, err := h.App.NodeService.RestoreRevision(ctx, uid, nodeID, version)
	if err != nil {
		h.logError(c, "NodeRevisionHandler.Restore", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(node))
	h.WSS.BroadcastToNotebook(node.NotebookID, code.Success.WithData(node), "NodeModify")
}
