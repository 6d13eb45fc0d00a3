package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/notefield/notebook-service/internal/domain"
	"github.com/notefield/notebook-service/internal/model"
	"github.com/notefield/notebook-service/pkg/timex"
)

type userRepository struct {
	dao *Dao
}

func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

func (r *userRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.use(ctx, "User")
}

func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:         m.UID,
		Email:       m.Email,
		Username:    m.Username,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Type:        domain.UserType(m.Type),
		IsActive:    m.IsActive == 1,
		IsValidated: m.IsValidated == 1,
		LastAccess:  m.LastAccess.Time(),
		IsDeleted:   m.IsDeleted == 1,
		CreatedAt:   m.CreatedAt.Time(),
		UpdatedAt:   m.UpdatedAt.Time(),
		DeletedAt:   m.DeletedAt.Time(),
	}
}

func (r *userRepository) toModel(user *domain.User) *model.User {
	if user == nil {
		return nil
	}
	boolToInt := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}
	return &model.User{
		UID:         user.UID,
		Email:       user.Email,
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Type:        string(user.Type),
		IsActive:    boolToInt(user.IsActive),
		IsValidated: boolToInt(user.IsValidated),
		LastAccess:  timex.Time(user.LastAccess),
		IsDeleted:   boolToInt(user.IsDeleted),
		CreatedAt:   timex.Time(user.CreatedAt),
		UpdatedAt:   timex.Time(user.UpdatedAt),
		DeletedAt:   timex.Time(user.DeletedAt),
	}
}

func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	var m model.User
	err := r.db(ctx).Where("uid = ? AND is_deleted = 0", uid).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m model.User
	err := r.db(ctx).Where("email = ? AND is_deleted = 0", email).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m model.User
	err := r.db(ctx).Where("username = ? AND is_deleted = 0", username).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := r.toModel(user)
	now := timex.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := r.db(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	m := r.toModel(user)
	m.UpdatedAt = timex.Now()
	return r.db(ctx).Model(&model.User{}).
		Where("uid = ?", m.UID).
		Updates(map[string]interface{}{
			"email":      m.Email,
			"username":   m.Username,
			"first_name": m.FirstName,
			"last_name":  m.LastName,
			"updated_at": m.UpdatedAt,
		}).Error
}

func (r *userRepository) UpdateLastAccess(ctx context.Context, uid int64, at time.Time) error {
	return r.db(ctx).Model(&model.User{}).
		Where("uid = ?", uid).
		Update("last_access", timex.Time(at)).Error
}

func (r *userRepository) SetActive(ctx context.Context, uid int64, active bool) error {
	v := int64(0)
	if active {
		v = 1
	}
	return r.db(ctx).Model(&model.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"is_active":  v,
			"updated_at": timex.Now(),
		}).Error
}

func (r *userRepository) SetValidated(ctx context.Context, uid int64, validated bool) error {
	v := int64(0)
	if validated {
		v = 1
	}
	return r.db(ctx).Model(&model.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"is_validated": v,
			"updated_at":   timex.Now(),
		}).Error
}

func (r *userRepository) SetType(ctx context.Context, uid int64, userType domain.UserType) error {
	return r.db(ctx).Model(&model.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"type":       string(userType),
			"updated_at": timex.Now(),
		}).Error
}

func (r *userRepository) SoftDelete(ctx context.Context, uid int64) error {
	now := timex.Now()
	return r.db(ctx).Model(&model.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"is_deleted": 1,
			"deleted_at": now,
			"updated_at": now,
		}).Error
}

func (r *userRepository) List(ctx context.Context, page, pageSize int, keyword string) ([]*domain.User, error) {
	var ms []*model.User
	q := r.db(ctx).Where("is_deleted = 0")
	if keyword != "" {
		q = q.Where("username LIKE ? OR email LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	err := q.Order("uid ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, r.toDomain(m))
	}
	return users, nil
}

func (r *userRepository) ListCount(ctx context.Context, keyword string) (int64, error) {
	var count int64
	q := r.db(ctx).Model(&model.User{}).Where("is_deleted = 0")
	if keyword != "" {
		q = q.Where("username LIKE ? OR email LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *userRepository) DeleteDeactivatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db(ctx).
		Where("is_deleted = 1 AND deleted_at < ?", timex.Time(cutoff)).
		Delete(&model.User{})
	return res.RowsAffected, res.Error
}
