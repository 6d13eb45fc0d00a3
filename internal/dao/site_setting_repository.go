package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type siteSettingRepository struct {
	dao *Dao
}

func NewSiteSettingRepository(dao *Dao) domain.SiteSettingRepository {
	return &siteSettingRepository{dao: dao}
}

func (r *siteSettingRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "SiteSetting")
}

func (r *siteSettingRepository) toDomain(m *model.SiteSetting) *domain.SiteSetting {
	if m == nil {
		return nil
	}
	return &domain.SiteSetting{
		ID:        m.ID,
		Name:      m.Name,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt.Time(),
	}
}

func (r *siteSettingRepository) Get(ctx context.Context, name string) (*domain.SiteSetting, error) {
	var m model.SiteSetting
	err := r.db(ctx).Where("name = ?", name).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Set updates a setting, creating the row on first write.
func (r *siteSettingRepository) Set(ctx context.Context, name, value string) error {
	var m model.SiteSetting
	err := r.db(ctx).Where("name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db(ctx).Create(&model.SiteSetting{
			Name:      name,
			Value:     value,
			UpdatedAt: timex.Now(),
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db(ctx).Model(&model.SiteSetting{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"value":      value,
			"updated_at": timex.Now(),
		}).Error
}

func (r *siteSettingRepository) List(ctx context.Context) ([]*domain.SiteSetting, error) {
	var ms []*model.SiteSetting
	if err := r.db(ctx).Order("name ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	settings := make([]*domain.SiteSetting, 0, len(ms))
	for _, m := range ms {
		settings = append(settings, r.toDomain(m))
	}
	return settings, nil
}
