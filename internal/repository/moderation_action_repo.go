package repository

import (
	"context"

	"github.com/damoang/mediawall/internal/domain"
	"gorm.io/gorm"
)

// ModerationActionRepository stores the moderation audit trail.
type ModerationActionRepository interface {
	Create(ctx context.Context, action *domain.ModerationAction) error
	ListRecent(ctx context.Context, limit int) ([]*domain.ModerationAction, error)
}

type moderationActionRepository struct {
	db *gorm.DB
}

func NewModerationActionRepository(db *gorm.DB) ModerationActionRepository {
	return &moderationActionRepository{db: db}
}

func (r *moderationActionRepository) Create(ctx context.Context, action *domain.ModerationAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *moderationActionRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ModerationAction, error) {
	var actions []*domain.ModerationAction
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&actions).Error
	return actions, err
}
