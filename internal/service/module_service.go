package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/dto"
	"github.com/notefield/notebook-service/pkg/code"
	"github.com/notefield/notebook-service/pkg/logger"
	"github.com/notefield/notebook-service/pkg/timex"
	"github.com/notefield/notebook-service/pkg/workerpool"
)

// ModuleService manages notebook module attachments and runs their
// backends. Runs execute on the shared worker pool so a slow backend
// cannot stall request handling.
type ModuleService interface {
	Attach(ctx context.Context, uid, notebookID int64, req *dto.ModuleAttachRequest) (*dto.ModuleDTO, error)
	Get(ctx context.Context, uid, moduleID int64) (*dto.ModuleDTO, error)
	Update(ctx context.Context, uid, moduleID int64, req *dto.ModuleUpdateRequest) (*dto.ModuleDTO, error)
	Detach(ctx context.Context, uid, moduleID int64) error
	ListByNotebook(ctx context.Context, uid, notebookID int64) ([]*dto.ModuleDTO, error)
	// Run executes the module backend now, asynchronously. The outcome is
	// recorded on the module row.
	Run(ctx context.Context, uid, moduleID int64) (*dto.ModuleDTO, error)
	// RunModule executes one module synchronously. Used by the refresh task.
	RunModule(ctx context.Context, module *domain.Module) error
}

type moduleService struct {
	access     accessResolver
	moduleRepo domain.ModuleRepository
	nodeRepo   domain.NodeRepository
	pool       *workerpool.Pool
	logger     *zap.Logger
	config     *ServiceConfig
}

func NewModuleService(
	notebookRepo domain.NotebookRepository,
	shareRepo domain.NotebookShareRepository,
	moduleRepo domain.ModuleRepository,
	nodeRepo domain.NodeRepository,
	pool *workerpool.Pool,
	log *zap.Logger,
	config *ServiceConfig,
) ModuleService {
	return &moduleService{
		access:     accessResolver{notebookRepo: notebookRepo, shareRepo: shareRepo},
		moduleRepo: moduleRepo,
		nodeRepo:   nodeRepo,
		pool:       pool,
		logger:     log,
		config:     config,
	}
}

func moduleToDTO(m *domain.Module) *dto.ModuleDTO {
	if m == nil {
		return nil
	}
	return &dto.ModuleDTO{
		ID:         m.ID,
		NotebookID: m.NotebookID,
		Kind:       m.Kind,
		Config:     m.Config,
		Output:     m.Output,
		IsEnabled:  m.IsEnabled,
		Status:     string(m.Status),
		LastError:  m.LastError,
		LastRunAt:  timex.Time(m.LastRunAt),
		CreatedAt:  timex.Time(m.CreatedAt),
		UpdatedAt:  timex.Time(m.UpdatedAt),
	}
}

func validateModuleConfig(config string) error {
	if config == "" {
		return nil
	}
	if !json.Valid([]byte(config)) {
		return code.ErrorInvalidParams.WithDetails("module config must be a JSON document")
	}
	return nil
}

func (s *moduleService) Attach(ctx context.Context, uid, notebookID int64, req *dto.ModuleAttachRequest) (*dto.ModuleDTO, error) {
	if _, err := s.access.notebookForOwner(ctx, notebookID, uid); err != nil {
		return nil, err
	}
	if _, err := LookupModuleBackend(req.Kind); err != nil {
		return nil, err
	}
	if err := validateModuleConfig(req.Config); err != nil {
		return nil, err
	}

	if _, err := s.moduleRepo.GetByNotebookKind(ctx, notebookID, req.Kind); err == nil {
		return nil, code.ErrorModuleAttached
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	module, err := s.moduleRepo.Create(ctx, &domain.Module{
		NotebookID: notebookID,
		Kind:       req.Kind,
		Config:     req.Config,
		IsEnabled:  true,
		Status:     domain.ModuleStatusIdle,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("module attached",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, notebookID),
		zap.String(logger.FieldModule, req.Kind))
	return moduleToDTO(module), nil
}

func (s *moduleService) moduleForOwner(ctx context.Context, uid, moduleID int64) (*domain.Module, error) {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorModuleNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, err := s.access.notebookForOwner(ctx, module.NotebookID, uid); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *moduleService) Get(ctx context.Context, uid, moduleID int64) (*dto.ModuleDTO, error) {
	module, err := s.moduleRepo.GetByID(ctx, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorModuleNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if _, _, err := s.access.notebookForRead(ctx, module.NotebookID, uid); err != nil {
		return nil, err
	}
	return moduleToDTO(module), nil
}

func (s *moduleService) Update(ctx context.Context, uid, moduleID int64, req *dto.ModuleUpdateRequest) (*dto.ModuleDTO, error) {
	module, err := s.moduleForOwner(ctx, uid, moduleID)
	if err != nil {
		return nil, err
	}
	if err := validateModuleConfig(req.Config); err != nil {
		return nil, err
	}

	module.Config = req.Config
	if err := s.moduleRepo.Update(ctx, module); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if req.IsEnabled != nil && *req.IsEnabled != module.IsEnabled {
		if err := s.moduleRepo.SetEnabled(ctx, moduleID, *req.IsEnabled); err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		module.IsEnabled = *req.IsEnabled
	}
	return moduleToDTO(module), nil
}

func (s *moduleService) Detach(ctx context.Context, uid, moduleID int64) error {
	module, err := s.moduleForOwner(ctx, uid, moduleID)
	if err != nil {
		return err
	}
	if err := s.moduleRepo.Delete(ctx, moduleID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	s.logger.Info("module detached",
		zap.Int64(logger.FieldUID, uid),
		zap.Int64(logger.FieldNotebook, module.NotebookID),
		zap.String(logger.FieldModule, module.Kind))
	return nil
}

func (s *moduleService) ListByNotebook(ctx context.Context, uid, notebookID int64) ([]*dto.ModuleDTO, error) {
	if _, _, err := s.access.notebookForRead(ctx, notebookID, uid); err != nil {
		return nil, err
	}
	modules, err := s.moduleRepo.ListByNotebook(ctx, notebookID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	out := make([]*dto.ModuleDTO, 0, len(modules))
	for _, m := range modules {
		out = append(out, moduleToDTO(m))
	}
	return out, nil
}

func (s *moduleService) Run(ctx context.Context, uid, moduleID int64) (*dto.ModuleDTO, error) {
	module, err := s.moduleForOwner(ctx, uid, moduleID)
	if err != nil {
		return nil, err
	}
	if !module.IsEnabled {
		return nil, code.ErrorModuleRunFail.WithDetails("module is disabled")
	}

	if err := s.moduleRepo.UpdateRun(ctx, module.ID, domain.ModuleStatusRunning, module.Output, "", time.Now()); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	module.Status = domain.ModuleStatusRunning

	run := *module
	if err := s.pool.SubmitAsync(context.WithoutCancel(ctx), func(taskCtx context.Context) error {
		return s.RunModule(taskCtx, &run)
	}); err != nil {
		if uerr := s.moduleRepo.UpdateRun(ctx, module.ID, domain.ModuleStatusFailed, module.Output, err.Error(), time.Now()); uerr != nil {
			s.logger.Error("module status update failed", zap.Int64(logger.FieldModule+"_id", module.ID), zap.Error(uerr))
		}
		return nil, code.ErrorModuleRunFail.WithDetails(err.Error())
	}
	return moduleToDTO(module), nil
}

func (s *moduleService) RunModule(ctx context.Context, module *domain.Module) error {
	backend, err := LookupModuleBackend(module.Kind)
	if err != nil {
		return err
	}

	nodes, err := s.nodeRepo.ListAllByNotebook(ctx, module.NotebookID, false)
	if err != nil {
		s.recordRunFailure(ctx, module, err)
		return err
	}

	output, err := backend.Run(ctx, module, nodes)
	if err != nil {
		s.recordRunFailure(ctx, module, err)
		return err
	}

	if err := s.moduleRepo.UpdateRun(ctx, module.ID, domain.ModuleStatusIdle, output, "", time.Now()); err != nil {
		s.logger.Error("module run record failed", zap.Int64(logger.FieldModule+"_id", module.ID), zap.Error(err))
		return err
	}
	s.logger.Info("module run finished",
		zap.Int64(logger.FieldNotebook, module.NotebookID),
		zap.String(logger.FieldModule, module.Kind))
	return nil
}

func (s *moduleService) recordRunFailure(ctx context.Context, module *domain.Module, runErr error) {
	s.logger.Error("module run failed",
		zap.Int64(logger.FieldNotebook, module.NotebookID),
		zap.String(logger.FieldModule, module.Kind),
		zap.Error(runErr))
	if err := s.moduleRepo.UpdateRun(ctx, module.ID, domain.ModuleStatusFailed, module.Output, runErr.Error(), time.Now()); err != nil {
		s.logger.Error("module status update failed", zap.Int64(logger.FieldModule+"_id", module.ID), zap.Error(err))
	}
}
