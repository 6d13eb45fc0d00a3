// Package api_router holds the HTTP API route handlers.
package api_router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	apperrors "github.com/notefield/notebook-service/pkg/errors"
)

// Handler is the base handler every API handler embeds for access to the
// app container and the websocket server.
type Handler struct {
	App *app.App
	WSS *pkgapp.WebsocketServer
}

func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

func NewHandlerWithWSS(a *app.App, wss *pkgapp.WebsocketServer) *Handler {
	return &Handler{App: a, WSS: wss}
}

// logError records a handler failure together with the request trace id.
func (h *Handler) logError(c *gin.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", apperrors.GetTraceID(c)),
	)
}
