// Package websocket_router holds the realtime sync message handlers.
package websocket_router

import (
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/notefield/notebook-service/internal/app"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
)

// WSHandler is the base handler every websocket handler embeds. The
// singleflight group collapses duplicate lookups when many sessions
// authenticate at once.
type WSHandler struct {
	App *app.App
	sf  singleflight.Group
}

func NewWSHandler(a *app.App) *WSHandler {
	return &WSHandler{App: a}
}

func (h *WSHandler) logError(method string, err error) {
	h.App.Logger().Error(method, zap.Error(err))
}

// respondError logs the failure and sends the error with details to the
// client.
func (h *WSHandler) respondError(c *pkgapp.WebsocketClient, codeErr *code.Code, err error, method string) {
	h.logError(method, err)
	c.ToResponse(codeErr.WithDetails(err.Error()))
}
