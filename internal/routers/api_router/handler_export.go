package api_router

import (
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/dto"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/convert"
	apperrors "github.com/notefield/notebook-service/pkg/errors"
)

// ExportHandler serves the print-out and scan-in routes: notebooks leave as
// markdown zip archives and come back the same way.
type ExportHandler struct {
	*Handler
}

func NewExportHandler(a *app.App) *ExportHandler {
	return &ExportHandler{Handler: NewHandler(a)}
}

// Export writes a notebook to an archive and returns its storage key.
func (h *ExportHandler) Export(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ExportRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ExportHandler.Export.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ExportHandler.Export err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.ExportService.Export(ctx, uid, notebookID, params)
	if err != nil {
		h.logError(c, "ExportHandler.Export", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// Download streams a previously exported archive.
func (h *ExportHandler) Download(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ExportHandler.Download err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	fileKey := c.Query("fileKey")
	if notebookID == 0 || fileKey == "" {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	content, err := h.App.ExportService.GetArchive(ctx, uid, notebookID, fileKey)
	if err != nil {
		h.logError(c, "ExportHandler.Download", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(fileKey)))
	c.Data(http.StatusOK, "application/zip", content)
}

// Import reads an uploaded archive back into a notebook.
func (h *ExportHandler) Import(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ImportRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ExportHandler.Import.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ExportHandler.Import err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ToResponse(code.ErrorInvalidParams.WithDetails("missing archive file"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.ToResponse(code.ErrorImportArchiveInvalid.WithDetails(err.Error()))
		return
	}
	defer file.Close()

	archive, err := io.ReadAll(file)
	if err != nil {
		response.ToResponse(code.ErrorImportArchiveInvalid.WithDetails(err.Error()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.ExportService.Import(ctx, uid, notebookID, archive, params)
	if err != nil {
		h.logError(c, "ExportHandler.Import", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}
