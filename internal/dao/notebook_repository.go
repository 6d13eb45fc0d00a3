package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type notebookRepository struct {
	dao *Dao
}

func NewNotebookRepository(dao *Dao) domain.NotebookRepository {
	return &notebookRepository{dao: dao}
}

func (r *notebookRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "Notebook")
}

func (r *notebookRepository) toDomain(m *model.Notebook) *domain.Notebook {
	if m == nil {
		return nil
	}
	return &domain.Notebook{
		ID:        m.ID,
		UID:       m.UID,
		Name:      m.Name,
		Slug:      m.Slug,
		Summary:   m.Summary,
		NodeCount: m.NodeCount,
		IsDeleted: m.IsDeleted == 1,
		CreatedAt: m.CreatedAt.Time(),
		UpdatedAt: m.UpdatedAt.Time(),
		DeletedAt: m.DeletedAt.Time(),
	}
}

func (r *notebookRepository) GetByID(ctx context.Context, id int64) (*domain.Notebook, error) {
	var m model.Notebook
	err := r.db(ctx).Where("id = ? AND is_deleted = 0", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *notebookRepository) GetByIDForUID(ctx context.Context, id, uid int64) (*domain.Notebook, error) {
	var m model.Notebook
	err := r.db(ctx).Where("id = ? AND uid = ? AND is_deleted = 0", id, uid).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *notebookRepository) GetBySlug(ctx context.Context, uid int64, slug string) (*domain.Notebook, error) {
	var m model.Notebook
	err := r.db(ctx).Where("uid = ? AND slug = ? AND is_deleted = 0", uid, slug).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *notebookRepository) Create(ctx context.Context, notebook *domain.Notebook) (*domain.Notebook, error) {
	now := timex.Now()
	m := &model.Notebook{
		UID:       notebook.UID,
		Name:      notebook.Name,
		Slug:      notebook.Slug,
		Summary:   notebook.Summary,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *notebookRepository) Update(ctx context.Context, notebook *domain.Notebook) error {
	return r.db(ctx).Model(&model.Notebook{}).
		Where("id = ? AND uid = ?", notebook.ID, notebook.UID).
		Updates(map[string]interface{}{
			"name":       notebook.Name,
			"slug":       notebook.Slug,
			"summary":    notebook.Summary,
			"updated_at": timex.Now(),
		}).Error
}

func (r *notebookRepository) Transfer(ctx context.Context, id, fromUID, toUID int64) error {
	return r.db(ctx).Model(&model.Notebook{}).
		Where("id = ? AND uid = ?", id, fromUID).
		Updates(map[string]interface{}{
			"uid":        toUID,
			"updated_at": timex.Now(),
		}).Error
}

func (r *notebookRepository) SoftDelete(ctx context.Context, id, uid int64) error {
	now := timex.Now()
	return r.db(ctx).Model(&model.Notebook{}).
		Where("id = ? AND uid = ?", id, uid).
		Updates(map[string]interface{}{
			"is_deleted": 1,
			"deleted_at": now,
			"updated_at": now,
		}).Error
}

func (r *notebookRepository) IncrNodeCount(ctx context.Context, id, delta int64) error {
	return r.db(ctx).Model(&model.Notebook{}).
		Where("id = ?", id).
		Update("node_count", gorm.Expr("node_count + ?", delta)).Error
}

func (r *notebookRepository) List(ctx context.Context, uid int64, page, pageSize int) ([]*domain.Notebook, error) {
	var ms []*model.Notebook
	err := r.db(ctx).
		Where("uid = ? AND is_deleted = 0", uid).
		Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	notebooks := make([]*domain.Notebook, 0, len(ms))
	for _, m := range ms {
		notebooks = append(notebooks, r.toDomain(m))
	}
	return notebooks, nil
}

func (r *notebookRepository) ListCount(ctx context.Context, uid int64) (int64, error) {
	var count int64
	err := r.db(ctx).Model(&model.Notebook{}).
		Where("uid = ? AND is_deleted = 0", uid).
		Count(&count).Error
	return count, err
}
