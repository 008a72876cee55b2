package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileType is the declared kind of an uploaded file.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeVideo FileType = "video"
)

// FileTypeFromMIME returns the file kind for an image/* or video/* MIME type.
func FileTypeFromMIME(mimeType string) (FileType, bool) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return FileTypeImage, true
	case strings.HasPrefix(mt, "video/"):
		return FileTypeVideo, true
	default:
		return "", false
	}
}

// Media is an uploaded photo or video backed by an object in the binary store.
type Media struct {
	ID           string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	StoragePath  string    `gorm:"column:storage_path;type:varchar(255);not null;uniqueIndex" json:"storage_path"`
	FileType     FileType  `gorm:"column:file_type;type:varchar(10);not null" json:"file_type"`
	FileName     string    `gorm:"column:file_name;type:varchar(255);not null" json:"file_name"`
	FileSize     int64     `gorm:"column:file_size;not null" json:"file_size"`
	MimeType     string    `gorm:"column:mime_type;type:varchar(100);not null" json:"mime_type"`
	UploaderIP   *string   `gorm:"column:uploader_ip;type:varchar(45)" json:"uploader_ip,omitempty"`
	UploaderName *string   `gorm:"column:uploader_name;type:varchar(100)" json:"uploader_name,omitempty"`
	Caption      *string   `gorm:"column:caption;type:text" json:"caption,omitempty"`
	IsApproved   bool      `gorm:"column:is_approved;not null;index:idx_media_visibility,priority:1" json:"is_approved"`
	IsDeleted    bool      `gorm:"column:is_deleted;not null;index:idx_media_visibility,priority:2" json:"is_deleted"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;index:idx_media_visibility,priority:3" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Media) TableName() string { return "media_items" }

// BeforeCreate assigns the identifier.
func (m *Media) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Flags returns the visibility flags of m.
func (m *Media) Flags() Flags {
	return Flags{Approved: m.IsApproved, Deleted: m.IsDeleted}
}

// Public returns a copy safe for anonymous readers.
func (m *Media) Public() *Media {
	cp := *m
	cp.UploaderIP = nil
	return &cp
}

// MediaView is a Media as returned over the API, with its public URL.
type MediaView struct {
	*Media
	URL string `json:"url"`
}
