package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string         `gorm:"size:128" json:"name"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Trakt connection; nil fields mean the account is not linked.
	TraktAccessToken  string     `gorm:"size:255" json:"-"`
	TraktRefreshToken string     `gorm:"size:255" json:"-"`
	TraktExpiresAt    *time.Time `json:"-"`
	TraktSyncedAt     *time.Time `json:"trakt_synced_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) TraktLinked() bool {
	return u.TraktAccessToken != "" && u.TraktRefreshToken != ""
}
