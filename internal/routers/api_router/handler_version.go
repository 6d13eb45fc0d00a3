package api_router

import (
	"github.com/gin-gonic/gin"

	"github.com/notefield/notebook-service/internal/app"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
)

// VersionHandler serves the unauthenticated server version route.
type VersionHandler struct {
	*Handler
}

func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{Handler: NewHandler(a)}
}

type versionResponse struct {
	pkgapp.VersionInfo
	pkgapp.CheckVersionInfo
}

// ServerVersion reports the running build and whether a newer release
// exists.
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	response.ToResponse(code.Success.WithData(versionResponse{
		VersionInfo:      h.App.Version(),
		CheckVersionInfo: h.App.CheckVersion(),
	}))
}
