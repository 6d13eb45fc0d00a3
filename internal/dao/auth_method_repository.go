package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type authMethodRepository struct {
	dao *Dao
}

func NewAuthMethodRepository(dao *Dao) domain.AuthMethodRepository {
	return &authMethodRepository{dao: dao}
}

func (r *authMethodRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "AuthMethod")
}

func (r *authMethodRepository) toDomain(m *model.AuthMethod) *domain.AuthMethod {
	if m == nil {
		return nil
	}
	return &domain.AuthMethod{
		ID:         m.ID,
		UID:        m.UID,
		Method:     domain.AuthMethodKind(m.Method),
		Secret:     m.Secret,
		Step:       m.Step,
		Status:     domain.AuthMethodStatus(m.Status),
		LastUsed:   m.LastUsed.Time(),
		Expiration: m.Expiration.Time(),
		CreatedAt:  m.CreatedAt.Time(),
	}
}

func (r *authMethodRepository) Create(ctx context.Context, method *domain.AuthMethod) (*domain.AuthMethod, error) {
	m := &model.AuthMethod{
		UID:        method.UID,
		Method:     string(method.Method),
		Secret:     method.Secret,
		Step:       method.Step,
		Status:     string(method.Status),
		Expiration: timex.Time(method.Expiration),
		CreatedAt:  timex.Now(),
	}
	if m.Status == "" {
		m.Status = string(domain.AuthMethodActive)
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *authMethodRepository) GetActive(ctx context.Context, uid int64, kind domain.AuthMethodKind) (*domain.AuthMethod, error) {
	var m model.AuthMethod
	err := r.db(ctx).
		Where("uid = ? AND method = ? AND status = ?", uid, string(kind), string(domain.AuthMethodActive)).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *authMethodRepository) GetActiveBySecret(ctx context.Context, kind domain.AuthMethodKind, secret string) (*domain.AuthMethod, error) {
	var m model.AuthMethod
	err := r.db(ctx).
		Where("method = ? AND secret = ? AND status = ?", string(kind), secret, string(domain.AuthMethodActive)).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *authMethodRepository) GetPending(ctx context.Context, uid int64, kind domain.AuthMethodKind) (*domain.AuthMethod, error) {
	var m model.AuthMethod
	err := r.db(ctx).
		Where("uid = ? AND method = ? AND status = ?", uid, string(kind), string(domain.AuthMethodPending)).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *authMethodRepository) Activate(ctx context.Context, id int64) error {
	return r.db(ctx).Model(&model.AuthMethod{}).
		Where("id = ?", id).
		Update("status", string(domain.AuthMethodActive)).Error
}

func (r *authMethodRepository) UpdateSecret(ctx context.Context, id int64, secret string) error {
	return r.db(ctx).Model(&model.AuthMethod{}).
		Where("id = ?", id).
		Update("secret", secret).Error
}

func (r *authMethodRepository) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	return r.db(ctx).Model(&model.AuthMethod{}).
		Where("id = ?", id).
		Update("last_used", timex.Time(at)).Error
}

func (r *authMethodRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db(ctx).Model(&model.AuthMethod{}).
		Where("id = ?", id).
		Update("status", string(domain.AuthMethodInactive)).Error
}

func (r *authMethodRepository) DeactivateByKind(ctx context.Context, uid int64, kind domain.AuthMethodKind) error {
	return r.db(ctx).Model(&model.AuthMethod{}).
		Where("uid = ? AND method = ? AND status <> ?", uid, string(kind), string(domain.AuthMethodInactive)).
		Update("status", string(domain.AuthMethodInactive)).Error
}

func (r *authMethodRepository) DeactivateAll(ctx context.Context, uid int64) error {
	return r.db(ctx).Model(&model.AuthMethod{}).
		Where("uid = ? AND status <> ?", uid, string(domain.AuthMethodInactive)).
		Update("status", string(domain.AuthMethodInactive)).Error
}

func (r *authMethodRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db(ctx).
		Where("status = ? AND created_at < ?", string(domain.AuthMethodInactive), timex.Time(cutoff)).
		Delete(&model.AuthMethod{})
	return res.RowsAffected, res.Error
}
