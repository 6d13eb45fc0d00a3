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

// NodeLinkHandler serves node link and backlink routes.
type NodeLinkHandler struct {
	*Handler
}

func NewNodeLinkHandler(a *app.App) *NodeLinkHandler {
	return &NodeLinkHandler{Handler: NewHandler(a)}
}

// Create records a link from one node to another, by target guid.
func (h *NodeLinkHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NodeLinkCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NodeLinkHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeLinkHandler.Create err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	link, err := h.App.NodeLinkService.Create(ctx, uid, nodeID, params)
	if err != nil {
		h.logError(c, "NodeLinkHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(link))
}

// Delete removes a link.
func (h *NodeLinkHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeLinkHandler.Delete err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	linkID := convert.StrTo(c.Param("id")).MustInt64()
	if linkID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.NodeLinkService.Delete(ctx, uid, linkID); err != nil {
		h.logError(c, "NodeLinkHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// ListBySource returns the outgoing links of a node.
func (h *NodeLinkHandler) ListBySource(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeLinkHandler.ListBySource err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	links, err := h.App.NodeLinkService.ListBySource(ctx, uid, nodeID)
	if err != nil {
		h.logError(c, "NodeLinkHandler.ListBySource", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(links))
}

// ListBacklinks returns links pointing at a node, restricted to notebooks
// the caller can read.
func (h *NodeLinkHandler) ListBacklinks(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("NodeLinkHandler.ListBacklinks err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	nodeID := convert.StrTo(c.Param("id")).MustInt64()
	if nodeID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	links, err := h.App.NodeLinkService.ListBacklinks(ctx, uid, nodeID)
	if err != nil {
		h.logError(c, "NodeLinkHandler.ListBacklinks", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(links))
}
