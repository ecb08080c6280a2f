package models

import (
	"time"

	"gorm.io/gorm"
)

// ListRef identifies a list: a system list (status/tag taxonomy, no id) or a
// user-created custom list. The nil/non-nil ListID split replaces raw NULL
// comparisons everywhere above the SQL layer.
type ListRef struct {
	ListType string `json:"list_type"`
	ListID   *uint  `json:"list_id,omitempty"`
}

func (r ListRef) IsSystem() bool { return r.ListID == nil }

func (r ListRef) Equal(o ListRef) bool {
	if r.ListType != o.ListType {
		return false
	}
	if r.ListID == nil || o.ListID == nil {
		return r.ListID == nil && o.ListID == nil
	}
	return *r.ListID == *o.ListID
}

// CustomList is a user-created list, capped per account.
type CustomList struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (CustomList) TableName() string {
	return "custom_lists"
}

type CustomListItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListID    uint      `gorm:"not null;index:idx_list_item,unique" json:"list_id"`
	MediaID   uint      `gorm:"not null;index:idx_list_item,unique" json:"media_id"`
	CreatedAt time.Time `json:"created_at"`

	List  CustomList `gorm:"foreignKey:ListID" json:"-"`
	Media Media      `gorm:"foreignKey:MediaID" json:"media,omitempty"`
}

func (CustomListItem) TableName() string {
	return "custom_list_items"
}

// ListVisibility is the owner's per-list policy. At most one row per
// (user, list_type, list_id); a missing row means private.
type ListVisibility struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_visibility_user_list,unique" json:"user_id"`
	ListType   string    `gorm:"size:32;not null;index:idx_visibility_user_list,unique" json:"list_type"`
	ListID     *uint     `gorm:"index:idx_visibility_user_list,unique" json:"list_id"`
	Visibility string    `gorm:"size:20;not null;default:'private'" json:"visibility"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ListVisibility) TableName() string {
	return "list_visibility"
}

func (v *ListVisibility) Ref() ListRef {
	return ListRef{ListType: v.ListType, ListID: v.ListID}
}

// FriendListAccess scopes select_friends visibility to specific friends.
// Rows are only meaningful while the matching ListVisibility row says
// select_friends; stale rows are ignored, not cleaned up.
type FriendListAccess struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"owner_id"`
	FriendID  uint      `gorm:"not null;index" json:"friend_id"`
	ListType  string    `gorm:"size:32;not null" json:"list_type"`
	ListID    *uint     `json:"list_id"`
	CanEdit   bool      `gorm:"not null;default:false" json:"can_edit"`
	GrantedAt time.Time `gorm:"autoCreateTime" json:"granted_at"`
}

func (FriendListAccess) TableName() string {
	return "friend_list_access"
}

func (a *FriendListAccess) Ref() ListRef {
	return ListRef{ListType: a.ListType, ListID: a.ListID}
}
