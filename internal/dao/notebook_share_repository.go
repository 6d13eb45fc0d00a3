package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type notebookShareRepository struct {
	dao *Dao
}

func NewNotebookShareRepository(dao *Dao) domain.NotebookShareRepository {
	return &notebookShareRepository{dao: dao}
}

func (r *notebookShareRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "NotebookShare")
}

func (r *notebookShareRepository) toDomain(m *model.NotebookShare) *domain.NotebookShare {
	if m == nil {
		return nil
	}
	return &domain.NotebookShare{
		ID:         m.ID,
		NotebookID: m.NotebookID,
		OwnerUID:   m.OwnerUID,
		TargetUID:  m.TargetUID,
		Role:       domain.ShareRole(m.Role),
		Status:     domain.ShareStatus(m.Status),
		ViewCount:  m.ViewCount,
		Expiration: m.Expiration.Time(),
		CreatedAt:  m.CreatedAt.Time(),
		UpdatedAt:  m.UpdatedAt.Time(),
	}
}

func (r *notebookShareRepository) Create(ctx context.Context, share *domain.NotebookShare) (*domain.NotebookShare, error) {
	now := timex.Now()
	m := &model.NotebookShare{
		NotebookID: share.NotebookID,
		OwnerUID:   share.OwnerUID,
		TargetUID:  share.TargetUID,
		Role:       string(share.Role),
		Status:     string(domain.ShareStatusActive),
		Expiration: timex.Time(share.Expiration),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *notebookShareRepository) GetByID(ctx context.Context, id int64) (*domain.NotebookShare, error) {
	var m model.NotebookShare
	err := r.db(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *notebookShareRepository) GetActive(ctx context.Context, notebookID, targetUID int64) (*domain.NotebookShare, error) {
	var m model.NotebookShare
	err := r.db(ctx).
		Where("notebook_id = ? AND target_uid = ? AND status = ?",
			notebookID, targetUID, string(domain.ShareStatusActive)).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *notebookShareRepository) Revoke(ctx context.Context, id int64) error {
	return r.db(ctx).Model(&model.NotebookShare{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(domain.ShareStatusRevoked),
			"updated_at": timex.Now(),
		}).Error
}

func (r *notebookShareRepository) IncrViewCount(ctx context.Context, id int64) error {
	return r.db(ctx).Model(&model.NotebookShare{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *notebookShareRepository) ListByNotebook(ctx context.Context, notebookID int64) ([]*domain.NotebookShare, error) {
	var ms []*model.NotebookShare
	err := r.db(ctx).
		Where("notebook_id = ?", notebookID).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	shares := make([]*domain.NotebookShare, 0, len(ms))
	for _, m := range ms {
		shares = append(shares, r.toDomain(m))
	}
	return shares, nil
}

func (r *notebookShareRepository) ListByTarget(ctx context.Context, targetUID int64) ([]*domain.NotebookShare, error) {
	var ms []*model.NotebookShare
	err := r.db(ctx).
		Where("target_uid = ? AND status = ?", targetUID, string(domain.ShareStatusActive)).
		Order("id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	shares := make([]*domain.NotebookShare, 0, len(ms))
	for _, m := range ms {
		shares = append(shares, r.toDomain(m))
	}
	return shares, nil
}
