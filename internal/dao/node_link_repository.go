package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type nodeLinkRepository struct {
	dao *Dao
}

func NewNodeLinkRepository(dao *Dao) domain.NodeLinkRepository {
	return &nodeLinkRepository{dao: dao}
}

func (r *nodeLinkRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "NodeLink")
}

func (r *nodeLinkRepository) toDomain(m *model.NodeLink) *domain.NodeLink {
	if m == nil {
		return nil
	}
	return &domain.NodeLink{
		ID:           m.ID,
		NotebookID:   m.NotebookID,
		SourceNodeID: m.SourceNodeID,
		TargetGUID:   m.TargetGUID,
		Label:        m.Label,
		IsEmbed:      m.IsEmbed,
		CreatedAt:    m.CreatedAt.Time(),
	}
}

func (r *nodeLinkRepository) Create(ctx context.Context, link *domain.NodeLink) (*domain.NodeLink, error) {
	m := &model.NodeLink{
		NotebookID:   link.NotebookID,
		SourceNodeID: link.SourceNodeID,
		TargetGUID:   link.TargetGUID,
		Label:        link.Label,
		IsEmbed:      link.IsEmbed,
		CreatedAt:    timex.Now(),
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *nodeLinkRepository) GetByID(ctx context.Context, id int64) (*domain.NodeLink, error) {
	var m model.NodeLink
	err := r.db(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *nodeLinkRepository) Delete(ctx context.Context, id int64) error {
	return r.db(ctx).Where("id = ?", id).Delete(&model.NodeLink{}).Error
}

func (r *nodeLinkRepository) DeleteBySource(ctx context.Context, sourceNodeID int64) error {
	return r.db(ctx).Where("source_node_id = ?", sourceNodeID).Delete(&model.NodeLink{}).Error
}

func (r *nodeLinkRepository) ListBySource(ctx context.Context, sourceNodeID int64) ([]*domain.NodeLink, error) {
	var ms []*model.NodeLink
	err := r.db(ctx).
		Where("source_node_id = ?", sourceNodeID).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	links := make([]*domain.NodeLink, 0, len(ms))
	for _, m := range ms {
		links = append(links, r.toDomain(m))
	}
	return links, nil
}

func (r *nodeLinkRepository) ListBacklinks(ctx context.Context, targetGUID string) ([]*domain.NodeLink, error) {
	var ms []*model.NodeLink
	err := r.db(ctx).
		Where("target_guid = ?", targetGUID).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	links := make([]*domain.NodeLink, 0, len(ms))
	for _, m := range ms {
		links = append(links, r.toDomain(m))
	}
	return links, nil
}
