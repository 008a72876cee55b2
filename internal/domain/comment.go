package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCommentLength bounds the trimmed comment body, in runes.
const MaxCommentLength = 2000

// Comment is a visitor comment on a Media item.
type Comment struct {
	ID            string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	MediaID       string    `gorm:"column:media_id;type:varchar(36);not null;index" json:"media_id"`
	CommenterName *string   `gorm:"column:commenter_name;type:varchar(100)" json:"commenter_name,omitempty"`
	CommenterIP   *string   `gorm:"column:commenter_ip;type:varchar(45)" json:"commenter_ip,omitempty"`
	Content       string    `gorm:"column:content;type:text;not null" json:"content"`
	IsApproved    bool      `gorm:"column:is_approved;not null;index:idx_comment_visibility,priority:1" json:"is_approved"`
	IsDeleted     bool      `gorm:"column:is_deleted;not null;index:idx_comment_visibility,priority:2" json:"is_deleted"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index:idx_comment_visibility,priority:3" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

// BeforeCreate assigns the identifier.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Flags returns the visibility flags of c.
func (c *Comment) Flags() Flags {
	return Flags{Approved: c.IsApproved, Deleted: c.IsDeleted}
}

// Public returns a copy safe for anonymous readers.
func (c *Comment) Public() *Comment {
	cp := *c
	cp.CommenterIP = nil
	return &cp
}
