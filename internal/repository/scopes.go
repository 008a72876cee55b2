package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/mediawall/internal/common"
	"github.com/damoang/mediawall/internal/domain"
	"gorm.io/gorm"
)

// filterScope restricts a query to the records a moderation view shows.
func filterScope(f domain.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch f {
		case domain.FilterApproved:
			return db.Where("is_approved = ? AND is_deleted = ?", true, false)
		case domain.FilterPending:
			return db.Where("is_approved = ? AND is_deleted = ?", false, false)
		case domain.FilterDeleted:
			return db.Where("is_deleted = ?", true)
		default:
			return db
		}
	}
}

// visibleScope restricts a query to publicly visible records.
func visibleScope(db *gorm.DB) *gorm.DB {
	return filterScope(domain.FilterApproved)(db)
}

func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, common.ErrNotFound)
	}
	return err
}

// CountByFilter counts rows of model's table in a moderation view.
func CountByFilter(ctx context.Context, db *gorm.DB, model interface{}, f domain.Filter) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).Scopes(filterScope(f)).Count(&n).Error
	return n, err
}
