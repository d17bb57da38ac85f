package repository

import (
	"context"

	"github.com/corebank/ledger/pkg/domain/common"
	"github.com/corebank/ledger/pkg/domain/user"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository bound to the given session.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapStoreError(err, common.ErrUserNotFound)
	}
	return toDomainUser(&m), nil
}

func (r *userRepository) ListOthers(ctx context.Context, excludeUserID uuid.UUID, limit int) ([]*user.User, error) {
	var models []User
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeUserID).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, mapStoreError(err, common.ErrUserNotFound)
	}
	result := make([]*user.User, 0, len(models))
	for i := range models {
		result = append(result, toDomainUser(&models[i]))
	}
	return result, nil
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	m := &User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return mapStoreError(err, common.ErrUserNotFound)
	}
	return nil
}

func toDomainUser(m *User) *user.User {
	return user.NewUserFromData(m.ID, m.FirstName, m.LastName, m.Email, m.CreatedAt, m.UpdatedAt)
}
