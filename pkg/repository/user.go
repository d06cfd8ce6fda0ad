package repository

import (
	"context"
	"errors"

	"github.com/example/bookshop/pkg/errs"
	"github.com/example/bookshop/pkg/models"
	"gorm.io/gorm"
)

type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
