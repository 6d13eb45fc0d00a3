package websocket_router

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/domain"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
)

// NotebookWSHandler serves the session handshake and notebook
// subscriptions.
type NotebookWSHandler struct {
	*WSHandler
}

func NewNotebookWSHandler(a *app.App) *NotebookWSHandler {
	return &NotebookWSHandler{WSHandler: NewWSHandler(a)}
}

// UserInfo verifies the token's account still exists and may sign in. Used
// by the websocket server during authorization. Concurrent lookups for the
// same account share one query.
func (h *NotebookWSHandler) UserInfo(c *pkgapp.WebsocketClient, uid int64) (*pkgapp.UserSelectEntity, error) {
	v, err, _ := h.sf.Do(fmt.Sprintf("user_%d", uid), func() (any, error) {
		return h.App.UserRepo.GetByUID(c.Ctx.Request.Context(), uid)
	})
	if err != nil {
		return nil, err
	}
	user := v.(*domain.User)
	if !user.CanLogin() {
		return nil, code.ErrorUserDeactivated
	}
	return &pkgapp.UserSelectEntity{
		UID:      user.UID,
		Email:    user.Email,
		Username: user.Username,
		IsAdmin:  user.IsAdmin(),
	}, nil
}

// Subscribe adds the session to a notebook's event feed after an access
// check.
func (h *NotebookWSHandler) Subscribe(wss *pkgapp.WebsocketServer) func(*pkgapp.WebsocketClient, *pkgapp.WebSocketMessage) {
	return func(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
		params := &subscribeRequest{}

		valid, errs := c.BindAndValid(msg.Data, params)
		if !valid {
			h.App.Logger().Error("NotebookWSHandler.Subscribe.BindAndValid errs", zap.Error(errs))
			c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
			return
		}

		ctx := c.Ctx.Request.Context()

		notebook, err := h.App.NotebookService.Get(ctx, c.User.UID, params.NotebookID)
		if err != nil {
			h.respondError(c, code.ErrorNotebookAccessDenied, err, "NotebookWSHandler.Subscribe")
			return
		}

		wss.SubscribeNotebook(c, notebook.ID)
		c.ToResponse(code.Success.WithData(notebook), "NotebookSubscribe")
	}
}

// Unsubscribe drops the session from a notebook's event feed.
func (h *NotebookWSHandler) Unsubscribe(wss *pkgapp.WebsocketServer) func(*pkgapp.WebsocketClient, *pkgapp.WebSocketMessage) {
	return func(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
		params := &subscribeRequest{}

		valid, errs := c.BindAndValid(msg.Data, params)
		if !valid {
			h.App.Logger().Error("NotebookWSHandler.Unsubscribe.BindAndValid errs", zap.Error(errs))
			c.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
			return
		}

		wss.UnsubscribeNotebook(c, params.NotebookID)
		c.ToResponse(code.Success, "NotebookUnsubscribe")
	}
}
