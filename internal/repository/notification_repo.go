package repository

import (
	"flicklog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateIfAbsent inserts with conflict-ignore against the dedup index, so two
// overlapping alert runs cannot double-send. Returns whether a row was
// actually written.
func (r *NotificationRepository) CreateIfAbsent(n *models.Notification) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(n)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasBeenSent checks the idempotency ledger. Episode participates in the key
// only for episode/finale notifications; pass 0 to match on season alone.
func (r *NotificationRepository) HasBeenSent(userID uint, notifType string, mediaID uint, season, episode int) (bool, error) {
	q := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND media_id = ? AND season = ?", userID, notifType, mediaID, season)
	if episode > 0 {
		q = q.Where("episode = ?", episode)
	}
	var c int64
	err := q.Count(&c).Error
	return c > 0, err
}

func (r *NotificationRepository) ListByUserID(userID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *NotificationRepository) UnreadCount(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&c).Error
	return c, err
}

func (r *NotificationRepository) MarkRead(id, userID uint) error {
	return r.db.Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, userID).Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
