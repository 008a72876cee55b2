package repository

import (
	"context"
	"time"

	"github.com/damoang/mediawall/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository persists Comment records.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListVisibleByMedia returns the public thread of a media item, oldest first.
	ListVisibleByMedia(ctx context.Context, mediaID string) ([]*domain.Comment, error)
	// List returns every record in the moderation view, newest first.
	List(ctx context.Context, filter domain.Filter) ([]*domain.Comment, error)
	// UpdateFlags writes a flag transition. Unknown ids are not an error.
	UpdateFlags(ctx context.Context, id string, update domain.FlagUpdate) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, notFound(err, "comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) ListVisibleByMedia(ctx context.Context, mediaID string) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := r.db.WithContext(ctx).
		Scopes(visibleScope).
		Where("media_id = ?", mediaID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := r.db.WithContext(ctx).
		Scopes(filterScope(filter)).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) UpdateFlags(ctx context.Context, id string, update domain.FlagUpdate) error {
	cols := update.Columns()
	cols["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(cols).Error
}
