package repository

import (
	"errors"

	"flicklog/internal/models"

	"gorm.io/gorm"
)

type LibraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

func (r *LibraryRepository) Get(userID, mediaID uint) (*models.UserMedia, error) {
	var e models.UserMedia
	err := r.db.Where("user_id = ? AND media_id = ?", userID, mediaID).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Upsert creates the library entry or updates list/rating/notes on the
// existing one.
func (r *LibraryRepository) Upsert(e *models.UserMedia) (*models.UserMedia, error) {
	existing, err := r.Get(e.UserID, e.MediaID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Create(e).Error; err != nil {
			return nil, err
		}
		return e, nil
	}
	if err != nil {
		return nil, err
	}
	existing.ListType = e.ListType
	if e.Rating != nil {
		existing.Rating = e.Rating
	}
	if e.Notes != "" {
		existing.Notes = e.Notes
	}
	if e.WatchedAt != nil {
		existing.WatchedAt = e.WatchedAt
	}
	if err := r.db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// Remove hard-deletes so the (user, media) unique index never collides with a
// soft-deleted row when the title is re-added later.
func (r *LibraryRepository) Remove(userID, mediaID uint) error {
	return r.db.Unscoped().Where("user_id = ? AND media_id = ?", userID, mediaID).Delete(&models.UserMedia{}).Error
}

func (r *LibraryRepository) ListByUser(userID uint, listType string, limit, offset int) ([]models.UserMedia, error) {
	var list []models.UserMedia
	q := r.db.Where("user_id = ?", userID).Preload("Media").Order("updated_at DESC").Limit(limit).Offset(offset)
	if listType != "" {
		q = q.Where("list_type = ?", listType)
	}
	err := q.Find(&list).Error
	return list, err
}

// GetUsersTrackingShow returns user IDs with a library entry for this media.
func (r *LibraryRepository) GetUsersTrackingShow(mediaID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.UserMedia{}).Where("media_id = ?", mediaID).Distinct().Pluck("user_id", &ids).Error
	return ids, err
}

func (r *LibraryRepository) CountByUser(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.UserMedia{}).Where("user_id = ?", userID).Count(&c).Error
	return c, err
}
