package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type nodeRevisionRepository struct {
	dao *Dao
}

func NewNodeRevisionRepository(dao *Dao) domain.NodeRevisionRepository {
	return &nodeRevisionRepository{dao: dao}
}

func (r *nodeRevisionRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "NodeRevision")
}

func (r *nodeRevisionRepository) toDomain(m *model.NodeRevision) *domain.NodeRevision {
	if m == nil {
		return nil
	}
	return &domain.NodeRevision{
		ID:          m.ID,
		NodeID:      m.NodeID,
		Version:     m.Version,
		Content:     m.Content,
		ContentHash: m.ContentHash,
		Diff:        m.Diff,
		CreatedAt:   m.CreatedAt.Time(),
	}
}

func (r *nodeRevisionRepository) Create(ctx context.Context, revision *domain.NodeRevision) (*domain.NodeRevision, error) {
	m := &model.NodeRevision{
		NodeID:      revision.NodeID,
		Version:     revision.Version,
		Content:     revision.Content,
		ContentHash: revision.ContentHash,
		Diff:        revision.Diff,
		CreatedAt:   timex.Now(),
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *nodeRevisionRepository) GetByVersion(ctx context.Context, nodeID, version int64) (*domain.NodeRevision, error) {
	var m model.NodeRevision
	err := r.db(ctx).
		Where("node_id = ? AND version = ?", nodeID, version).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *nodeRevisionRepository) ListByNode(ctx context.Context, nodeID int64, page, pageSize int) ([]*domain.NodeRevision, error) {
	var ms []*model.NodeRevision
	err := r.db(ctx).
		Where("node_id = ?", nodeID).
		Order("version DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	revisions := make([]*domain.NodeRevision, 0, len(ms))
	for _, m := range ms {
		revisions = append(revisions, r.toDomain(m))
	}
	return revisions, nil
}

func (r *nodeRevisionRepository) ListCount(ctx context.Context, nodeID int64) (int64, error) {
	var count int64
	err := r.db(ctx).Model(&model.NodeRevision{}).
		Where("node_id = ?", nodeID).
		Count(&count).Error
	return count, err
}

func (r *nodeRevisionRepository) PruneToDepth(ctx context.Context, nodeID int64, keep int) (int64, error) {
	// Keep the newest `keep` versions, delete the rest.
	var keepIDs []int64
	err := r.db(ctx).Model(&model.NodeRevision{}).
		Where("node_id = ?", nodeID).
		Order("version DESC").
		Limit(keep).
		Pluck("id", &keepIDs).Error
	if err != nil {
		return 0, err
	}
	if len(keepIDs) == 0 {
		return 0, nil
	}

	res := r.db(ctx).
		Where("node_id = ? AND id NOT IN ?", nodeID, keepIDs).
		Delete(&model.NodeRevision{})
	return res.RowsAffected, res.Error
}

func (r *nodeRevisionRepository) DeleteByNode(ctx context.Context, nodeID int64) error {
	return r.db(ctx).Where("node_id = ?", nodeID).Delete(&model.NodeRevision{}).Error
}

func (r *nodeRevisionRepository) ListNodeIDsWithHistory(ctx context.Context, keep int) ([]int64, error) {
	var nodeIDs []int64
	err := r.db(ctx).Model(&model.NodeRevision{}).
		Select("node_id").
		Group("node_id").
		Having("COUNT(*) > ?", keep).
		Pluck("node_id", &nodeIDs).Error
	return nodeIDs, err
}
