package repository

import (
	"errors"

	"flicklog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetGlobal returns the user's saved defaults, or the built-in defaults when
// the user never saved any.
func (r *SettingsRepository) GetGlobal(userID uint) (*models.UserNotificationSettings, error) {
	var s models.UserNotificationSettings
	err := r.db.First(&s, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		d := models.DefaultNotificationSettings(userID)
		return &d, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) UpsertGlobal(s *models.UserNotificationSettings) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(s).Error
}

// GetShowOverride returns the per-show override row, or nil when none exists.
func (r *SettingsRepository) GetShowOverride(userID, mediaID uint) (*models.UserShowAlertSettings, error) {
	var o models.UserShowAlertSettings
	err := r.db.Where("user_id = ? AND media_id = ?", userID, mediaID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SettingsRepository) UpsertShowOverride(o *models.UserShowAlertSettings) error {
	existing, err := r.GetShowOverride(o.UserID, o.MediaID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(o).Error
	}
	o.ID = existing.ID
	return r.db.Save(o).Error
}

func (r *SettingsRepository) DeleteShowOverride(userID, mediaID uint) error {
	return r.db.Where("user_id = ? AND media_id = ?", userID, mediaID).Delete(&models.UserShowAlertSettings{}).Error
}

// GetEffectiveSettings overlays the show override (non-nil fields only) onto
// the user's global defaults.
func (r *SettingsRepository) GetEffectiveSettings(userID, mediaID uint) (*models.UserNotificationSettings, error) {
	global, err := r.GetGlobal(userID)
	if err != nil {
		return nil, err
	}
	override, err := r.GetShowOverride(userID, mediaID)
	if err != nil {
		return nil, err
	}
	override.ApplyTo(global)
	return global, nil
}
