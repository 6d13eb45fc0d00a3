package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type nodeRepository struct {
	dao *Dao
}

func NewNodeRepository(dao *Dao) domain.NodeRepository {
	return &nodeRepository{dao: dao}
}

func (r *nodeRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "Node")
}

func (r *nodeRepository) toDomain(m *model.Node) *domain.Node {
	if m == nil {
		return nil
	}
	return &domain.Node{
		ID:               m.ID,
		GUID:             m.GUID,
		NotebookID:       m.NotebookID,
		UID:              m.UID,
		Title:            m.Title,
		Category:         m.Category,
		Content:          m.Content,
		ContentHash:      m.ContentHash,
		Version:          m.Version,
		Action:           domain.NodeAction(m.Action),
		OriginGUID:       m.OriginGUID,
		OriginUID:        m.OriginUID,
		OriginalityScore: m.OriginalityScore,
		Size:             m.Size,
		IsDeleted:        m.IsDeleted == 1,
		CreatedAt:        m.CreatedAt.Time(),
		UpdatedAt:        m.UpdatedAt.Time(),
		DeletedAt:        m.DeletedAt.Time(),
	}
}

func (r *nodeRepository) GetByID(ctx context.Context, id int64) (*domain.Node, error) {
	var m model.Node
	err := r.db(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *nodeRepository) GetByGUID(ctx context.Context, guid string) (*domain.Node, error) {
	var m model.Node
	err := r.db(ctx).Where("guid = ? AND is_deleted = 0", guid).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *nodeRepository) GetByTitle(ctx context.Context, notebookID int64, title string) (*domain.Node, error) {
	var m model.Node
	err := r.db(ctx).
		Where("notebook_id = ? AND title = ? AND is_deleted = 0", notebookID, title).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *nodeRepository) Create(ctx context.Context, node *domain.Node) (*domain.Node, error) {
	now := timex.Now()
	m := &model.Node{
		GUID:             node.GUID,
		NotebookID:       node.NotebookID,
		UID:              node.UID,
		Title:            node.Title,
		Category:         node.Category,
		Content:          node.Content,
		ContentHash:      node.ContentHash,
		Version:          node.Version,
		Action:           string(node.Action),
		OriginGUID:       node.OriginGUID,
		OriginUID:        node.OriginUID,
		OriginalityScore: node.OriginalityScore,
		Size:             node.Size,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if m.Version == 0 {
		m.Version = 1
	}
	if m.Action == "" {
		m.Action = string(domain.NodeActionCreate)
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *nodeRepository) Update(ctx context.Context, node *domain.Node) error {
	return r.db(ctx).Model(&model.Node{}).
		Where("id = ?", node.ID).
		Updates(map[string]interface{}{
			"title":             node.Title,
			"category":          node.Category,
			"content":           node.Content,
			"content_hash":      node.ContentHash,
			"version":           node.Version,
			"action":            string(node.Action),
			"origin_guid":       node.OriginGUID,
			"origin_uid":        node.OriginUID,
			"originality_score": node.OriginalityScore,
			"size":              node.Size,
			"updated_at":        timex.Now(),
		}).Error
}

func (r *nodeRepository) UpdateOriginality(ctx context.Context, id int64, score float64) error {
	return r.db(ctx).Model(&model.Node{}).
		Where("id = ?", id).
		Update("originality_score", score).Error
}

func (r *nodeRepository) SoftDelete(ctx context.Context, id int64) error {
	now := timex.Now()
	return r.db(ctx).Model(&model.Node{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": 1,
			"action":     string(domain.NodeActionDelete),
			"deleted_at": now,
			"updated_at": now,
		}).Error
}

func (r *nodeRepository) Restore(ctx context.Context, id int64) error {
	return r.db(ctx).Model(&model.Node{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": 0,
			"action":     string(domain.NodeActionModify),
			"updated_at": timex.Now(),
		}).Error
}

func (r *nodeRepository) Delete(ctx context.Context, id int64) error {
	return r.db(ctx).Where("id = ?", id).Delete(&model.Node{}).Error
}

func (r *nodeRepository) listQuery(ctx context.Context, notebookID int64, keyword, category string, searchContent, isRecycle bool) *gorm.DB {
	q := r.db(ctx).Model(&model.Node{}).Where("notebook_id = ?", notebookID)
	if isRecycle {
		q = q.Where("is_deleted = 1")
	} else {
		q = q.Where("is_deleted = 0")
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		if searchContent {
			q = q.Where("title LIKE ? OR content LIKE ?", like, like)
		} else {
			q = q.Where("title LIKE ?", like)
		}
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	return q
}

func (r *nodeRepository) List(ctx context.Context, notebookID int64, page, pageSize int, keyword, category string, searchContent, isRecycle bool, sortBy, sortOrder string) ([]*domain.Node, error) {
	column := "updated_at"
	switch sortBy {
	case "created":
		column = "created_at"
	case "title":
		column = "title"
	}
	order := "DESC"
	if sortOrder == "asc" {
		order = "ASC"
	}

	var ms []*model.Node
	err := r.listQuery(ctx, notebookID, keyword, category, searchContent, isRecycle).
		Order(column + " " + order).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	nodes := make([]*domain.Node, 0, len(ms))
	for _, m := range ms {
		nodes = append(nodes, r.toDomain(m))
	}
	return nodes, nil
}

func (r *nodeRepository) ListCount(ctx context.Context, notebookID int64, keyword, category string, searchContent, isRecycle bool) (int64, error) {
	var count int64
	err := r.listQuery(ctx, notebookID, keyword, category, searchContent, isRecycle).
		Count(&count).Error
	return count, err
}

func (r *nodeRepository) ListAllByNotebook(ctx context.Context, notebookID int64, includeRecycle bool) ([]*domain.Node, error) {
	var ms []*model.Node
	q := r.db(ctx).Where("notebook_id = ?", notebookID)
	if !includeRecycle {
		q = q.Where("is_deleted = 0")
	}
	err := q.
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	nodes := make([]*domain.Node, 0, len(ms))
	for _, m := range ms {
		nodes = append(nodes, r.toDomain(m))
	}
	return nodes, nil
}

func (r *nodeRepository) CountSizeByNotebook(ctx context.Context, notebookID int64) (*domain.CountSizeResult, error) {
	var result domain.CountSizeResult
	err := r.db(ctx).Model(&model.Node{}).
		Select("COUNT(*) AS count, COALESCE(SUM(size), 0) AS size").
		Where("notebook_id = ? AND is_deleted = 0", notebookID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *nodeRepository) DeleteRecycledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db(ctx).
		Where("is_deleted = 1 AND deleted_at < ?", timex.Time(cutoff)).
		Delete(&model.Node{})
	return res.RowsAffected, res.Error
}
