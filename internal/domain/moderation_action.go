package domain

import "time"

// ModerationAction records one applied transition for the audit trail.
type ModerationAction struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubjectType Kind      `gorm:"column:subject_type;type:varchar(20);not null;index:idx_moderation_subject,priority:1" json:"subject_type"`
	SubjectID   string    `gorm:"column:subject_id;type:varchar(36);not null;index:idx_moderation_subject,priority:2" json:"subject_id"`
	Action      Action    `gorm:"column:action;type:varchar(32);not null" json:"action"`
	AdminID     string    `gorm:"column:admin_id;type:varchar(36);not null;index" json:"admin_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (ModerationAction) TableName() string { return "moderation_actions" }
