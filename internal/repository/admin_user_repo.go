package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"gorm.io/gorm"
)

// AdminUserRepository looks up and provisions administrators.
type AdminUserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.AdminUser, error)
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	// Create fails with common.ErrUserAlreadyExists on a taken username.
	Create(ctx context.Context, admin *domain.AdminUser) error
}

type adminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) FindByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, notFound(err, "admin", id)
	}
	return &admin, nil
}

func (r *adminUserRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, notFound(err, "admin", username)
	}
	// case-insensitive collations must not widen the match
	if admin.Username != username {
		return nil, fmt.Errorf("admin %s: %w", username, common.ErrNotFound)
	}
	return &admin, nil
}

func (r *adminUserRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.AdminUser{}).Where("username = ?", admin.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return common.ErrUserAlreadyExists
		}
		err := tx.Create(admin).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrUserAlreadyExists
		}
		return err
	})
}
