package models

import (
	"time"

	"gorm.io/gorm"
)

// UserMedia is a library entry: one row per (user, media) carrying the
// system list the title sits on plus rating/notes.
type UserMedia struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_user_media,unique" json:"user_id"`
	MediaID   uint           `gorm:"not null;index:idx_user_media,unique" json:"media_id"`
	ListType  string         `gorm:"size:32;not null;index" json:"list_type"`
	Rating    *int           `json:"rating"` // 1..10, nil = unrated
	Notes     string         `gorm:"type:text" json:"notes"`
	WatchedAt *time.Time     `json:"watched_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Media Media `gorm:"foreignKey:MediaID" json:"media,omitempty"`
}

func (UserMedia) TableName() string {
	return "user_media"
}
