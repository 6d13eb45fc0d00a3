package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type inviteTokenRepository struct {
	dao *Dao
}

func NewInviteTokenRepository(dao *Dao) domain.InviteTokenRepository {
	return &inviteTokenRepository{dao: dao}
}

func (r *inviteTokenRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "InviteToken")
}

func (r *inviteTokenRepository) toDomain(m *model.InviteToken) *domain.InviteToken {
	if m == nil {
		return nil
	}
	return &domain.InviteToken{
		ID:         m.ID,
		Purpose:    m.Purpose,
		Token:      m.Token,
		Exhausted:  m.Exhausted == 1,
		Expiration: m.Expiration.Time(),
		CreatedAt:  m.CreatedAt.Time(),
	}
}

func (r *inviteTokenRepository) Create(ctx context.Context, token *domain.InviteToken) (*domain.InviteToken, error) {
	m := &model.InviteToken{
		Purpose:    token.Purpose,
		Token:      token.Token,
		Expiration: timex.Time(token.Expiration),
		CreatedAt:  timex.Now(),
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *inviteTokenRepository) GetByToken(ctx context.Context, token string) (*domain.InviteToken, error) {
	var m model.InviteToken
	err := r.db(ctx).Where("token = ?", token).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *inviteTokenRepository) Exhaust(ctx context.Context, id int64) error {
	return r.db(ctx).Model(&model.InviteToken{}).
		Where("id = ?", id).
		Update("exhausted", 1).Error
}

func (r *inviteTokenRepository) List(ctx context.Context, page, pageSize int) ([]*domain.InviteToken, error) {
	var ms []*model.InviteToken
	err := r.db(ctx).
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	tokens := make([]*domain.InviteToken, 0, len(ms))
	for _, m := range ms {
		tokens = append(tokens, r.toDomain(m))
	}
	return tokens, nil
}

func (r *inviteTokenRepository) ListCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db(ctx).Model(&model.InviteToken{}).Count(&count).Error
	return count, err
}

func (r *inviteTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db(ctx).
		Where("expiration IS NOT NULL AND expiration < ?", timex.Time(cutoff)).
		Delete(&model.InviteToken{})
	return res.RowsAffected, res.Error
}
