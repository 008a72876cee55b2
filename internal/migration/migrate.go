package migration

import (
	"github.com/damoang/mediawall/internal/domain"
	"gorm.io/gorm"
)

// Run creates or updates every table via AutoMigrate.
// This is safe to run multiple times (AutoMigrate is idempotent).
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Media{},
		&domain.Comment{},
		&domain.AdminUser{},
		&domain.ModerationAction{},
	)
}
