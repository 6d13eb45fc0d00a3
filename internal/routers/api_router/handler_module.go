package api_router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/internal/app"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/internal/service"
	pkgapp "github.com/notefield/notebook-service/pkg/app"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/convert"
	apperrors "github.com/notefield/notebook-service/pkg/errors"
)

// ModuleHandler serves notebook module routes: attaching backends like
// vocabulary or timeline and running them.
type ModuleHandler struct {
	*Handler
}

func NewModuleHandler(a *app.App) *ModuleHandler {
	return &ModuleHandler{Handler: NewHandler(a)}
}

// Backends lists the module kinds this server can run.
func (h *ModuleHandler) Backends(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	response.ToResponse(code.Success.WithData(service.ModuleBackends()))
}

// Attach binds a backend module to a notebook.
func (h *ModuleHandler) Attach(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ModuleAttachRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ModuleHandler.Attach.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ModuleHandler.Attach err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	module, err := h.App.ModuleService.Attach(ctx, uid, notebookID, params)
	if err != nil {
		h.logError(c, "ModuleHandler.Attach", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(module))
}

// Get returns one module with its last run output.
func (h *ModuleHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ModuleHandler.Get err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	moduleID := convert.StrTo(c.Param("id")).MustInt64()
	if moduleID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	module, err := h.App.ModuleService.Get(ctx, uid, moduleID)
	if err != nil {
		h.logError(c, "ModuleHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(module))
}

// Update changes a module's configuration or toggles it.
func (h *ModuleHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ModuleUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ModuleHandler.Update.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ModuleHandler.Update err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	moduleID := convert.StrTo(c.Param("id")).MustInt64()
	if moduleID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	module, err := h.App.ModuleService.Update(ctx, uid, moduleID, params)
	if err != nil {
		h.logError(c, "ModuleHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(module))
}

// Detach removes a module from its notebook.
func (h *ModuleHandler) Detach(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ModuleHandler.Detach err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	moduleID := convert.StrTo(c.Param("id")).MustInt64()
	if moduleID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	if err := h.App.ModuleService.Detach(ctx, uid, moduleID); err != nil {
		h.logError(c, "ModuleHandler.Detach", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// ListByNotebook returns the modules attached to a notebook.
func (h *ModuleHandler) ListByNotebook(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ModuleHandler.ListByNotebook err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	notebookID := convert.StrTo(c.Param("id")).MustInt64()
	if notebookID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	modules, err := h.App.ModuleService.ListByNotebook(ctx, uid, notebookID)
	if err != nil {
		h.logError(c, "ModuleHandler.ListByNotebook", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(modules))
}

// Run executes a module now. The run happens on the worker pool, the
// response carries the module in running state.
func (h *ModuleHandler) Run(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ModuleHandler.Run err uid=0")
		response.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	moduleID := convert.StrTo(c.Param("id")).MustInt64()
	if moduleID == 0 {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	ctx := c.Request.Context()

	module, err := h.App.ModuleService.Run(ctx, uid, moduleID)
	if err != nil {
		h.logError(c, "ModuleHandler.Run", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(module))
}
