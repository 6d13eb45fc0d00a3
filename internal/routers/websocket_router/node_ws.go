package websocket_router

import (
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/dto"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
)

// NodeWSHandler serves node writes arriving over the socket. Results are
// echoed to the sender and broadcast to the notebook's other sessions.
type NodeWSHandler struct {
	*WSHandler
}

func NewNodeWSHandler(a *app.App) *NodeWSHandler {
	return &NodeWSHandler{WSHandler: NewWSHandler(a)}
}

// NodeModify updates a node under the same optimistic concurrency rules as
// the HTTP route. A version conflict returns the current node.
func (h *NodeWSHandler) NodeModify(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &nodeModifyRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.App.Logger().Error("NodeWSHandler.NodeModify.BindAndValid errs", zap.Error(errs))
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Ctx.Request.Context()

	req := &dto.NodeUpdateRequest{
		Title:    params.Title,
		Category: params.Category,
		Content:  params.Content,
		Version:  params.Version,
	}

	node, err := h.App.NodeService.Update(ctx, c.User.UID, params.NodeID, req)
	if err != nil {
		// Another session got there first. Try a three-way merge against
		// the revision this edit was based on before giving up.
		if codeErr, ok := err.(*code.Code); ok && codeErr.Code() == code.ErrorNodeVersionConflict.Code() {
			node, err = h.App.NodeService.Merge(ctx, c.User.UID, params.NodeID, req)
		}
	}
	if err != nil {
		if codeErr, ok := err.(*code.Code); ok {
			c.ToResponse(codeErr)
			return
		}
		h.respondError(c, code.ErrorNodeUpdateFail, err, "NodeWSHandler.NodeModify")
		return
	}

	c.ToResponse(code.Success.WithData(node), "NodeModify")
	if c.Subscribed(node.NotebookID) {
		c.BroadcastToNotebook(node.NotebookID, code.Success.WithData(node), true, "NodeModify")
	}
}

// NodeDelete moves a node to the recycle bin over the socket.
func (h *NodeWSHandler) NodeDelete(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &nodeDeleteRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.App.Logger().Error("NodeWSHandler.NodeDelete.BindAndValid errs", zap.Error(errs))
		c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Ctx.Request.Context()

	node, err := h.App.NodeService.Get(ctx, c.User.UID, params.NodeID)
	if err != nil {
		h.respondError(c, code.ErrorNodeNotFound, err, "NodeWSHandler.NodeDelete")
		return
	}

	if err := h.App.NodeService.Delete(ctx, c.User.UID, params.NodeID); err != nil {
		h.respondError(c, code.ErrorNodeDeleteFail, err, "NodeWSHandler.NodeDelete")
		return
	}

	c.ToResponse(code.Success, "NodeDelete")
	if c.Subscribed(node.NotebookID) {
		c.BroadcastToNotebook(node.NotebookID, code.Success.WithData(node), true, "NodeDelete")
	}
}
