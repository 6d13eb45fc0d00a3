package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type moduleRepository struct {
	dao *Dao
}

func NewModuleRepository(dao *Dao) domain.ModuleRepository {
	return &moduleRepository{dao: dao}
}

func (r *moduleRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "Module")
}

func (r *moduleRepository) toDomain(m *model.Module) *domain.Module {
	if m == nil {
		return nil
	}
	return &domain.Module{
		ID:         m.ID,
		NotebookID: m.NotebookID,
		Kind:       m.Kind,
		Config:     m.Config,
		Output:     m.Output,
		IsEnabled:  m.IsEnabled == 1,
		Status:     domain.ModuleStatus(m.Status),
		LastError:  m.LastError,
		LastRunAt:  m.LastRunAt.Time(),
		CreatedAt:  m.CreatedAt.Time(),
		UpdatedAt:  m.UpdatedAt.Time(),
	}
}

func (r *moduleRepository) Create(ctx context.Context, module *domain.Module) (*domain.Module, error) {
	now := timex.Now()
	m := &model.Module{
		NotebookID: module.NotebookID,
		Kind:       module.Kind,
		Config:     module.Config,
		IsEnabled:  1,
		Status:     string(domain.ModuleStatusIdle),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *moduleRepository) GetByID(ctx context.Context, id int64) (*domain.Module, error) {
	var m model.Module
	err := r.db(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *moduleRepository) GetByNotebookKind(ctx context.Context, notebookID int64, kind string) (*domain.Module, error) {
	var m model.Module
	err := r.db(ctx).
		Where("notebook_id = ? AND kind = ?", notebookID, kind).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *moduleRepository) Update(ctx context.Context, module *domain.Module) error {
	return r.db(ctx).Model(&model.Module{}).
		Where("id = ?", module.ID).
		Updates(map[string]interface{}{
			"config":     module.Config,
			"updated_at": timex.Now(),
		}).Error
}

func (r *moduleRepository) UpdateRun(ctx context.Context, id int64, status domain.ModuleStatus, output, lastError string, at time.Time) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"last_error": lastError,
		"updated_at": timex.Now(),
	}
	if output != "" {
		updates["output"] = output
	}
	if !at.IsZero() {
		updates["last_run_at"] = timex.Time(at)
	}
	return r.db(ctx).Model(&model.Module{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *moduleRepository) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	v := int64(0)
	if enabled {
		v = 1
	}
	return r.db(ctx).Model(&model.Module{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_enabled": v,
			"updated_at": timex.Now(),
		}).Error
}

func (r *moduleRepository) Delete(ctx context.Context, id int64) error {
	return r.db(ctx).Where("id = ?", id).Delete(&model.Module{}).Error
}

func (r *moduleRepository) ListByNotebook(ctx context.Context, notebookID int64) ([]*domain.Module, error) {
	var ms []*model.Module
	err := r.db(ctx).
		Where("notebook_id = ?", notebookID).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	modules := make([]*domain.Module, 0, len(ms))
	for _, m := range ms {
		modules = append(modules, r.toDomain(m))
	}
	return modules, nil
}

func (r *moduleRepository) ListEnabled(ctx context.Context) ([]*domain.Module, error) {
	var ms []*model.Module
	err := r.db(ctx).
		Where("is_enabled = 1").
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	modules := make([]*domain.Module, 0, len(ms))
	for _, m := range ms {
		modules = append(modules, r.toDomain(m))
	}
	return modules, nil
}
