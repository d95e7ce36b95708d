package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"plantcare/internal/models/db_models"
)

type IUserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*db_models.User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) IUserRepository {
	return &UserRepository{db: db}
}

func (u *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*db_models.User, error) {

	var user db_models.User
	err := u.db.WithContext(ctx).First(&user, "id = ?", userID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (u *UserRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	return u.db.WithContext(ctx).
		Model(&db_models.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}
