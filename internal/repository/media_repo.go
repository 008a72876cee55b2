package repository

import (
	"context"
	"time"

	"github.com/damoang/mediawall/internal/domain"
	"gorm.io/gorm"
)

// MediaRepository persists Media records.
type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	FindByID(ctx context.Context, id string) (*domain.Media, error)
	// ListVisible returns a page of the public feed, newest first.
	ListVisible(ctx context.Context, offset, limit int) ([]*domain.Media, error)
	// List returns every record in the moderation view, newest first.
	List(ctx context.Context, filter domain.Filter) ([]*domain.Media, error)
	// UpdateFlags writes a flag transition. Unknown ids are not an error.
	UpdateFlags(ctx context.Context, id string, update domain.FlagUpdate) error
	// Delete removes the record and its comments.
	Delete(ctx context.Context, id string) error
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) FindByID(ctx context.Context, id string) (*domain.Media, error) {
	var media domain.Media
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&media).Error; err != nil {
		return nil, notFound(err, "media", id)
	}
	return &media, nil
}

func (r *mediaRepository) ListVisible(ctx context.Context, offset, limit int) ([]*domain.Media, error) {
	var items []*domain.Media
	err := r.db.WithContext(ctx).
		Scopes(visibleScope).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *mediaRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Media, error) {
	var items []*domain.Media
	err := r.db.WithContext(ctx).
		Scopes(filterScope(filter)).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}

func (r *mediaRepository) UpdateFlags(ctx context.Context, id string, update domain.FlagUpdate) error {
	cols := update.Columns()
	cols["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Media{}).
		Where("id = ?", id).
		Updates(cols).Error
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Media{}).Error
	})
}
