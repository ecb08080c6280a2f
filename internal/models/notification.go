package models

import "time"

// Notification doubles as the user-facing record and the idempotency ledger:
// the unique (user, type, media, season, episode) index makes repeated alert
// runs conflict instead of double-sending.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;index:idx_notif_dedup,unique" json:"user_id"`
	Type      string    `gorm:"size:20;not null;index:idx_notif_dedup,unique" json:"type"` // premiere | finale | episode | new_season
	MediaID   uint      `gorm:"not null;index:idx_notif_dedup,unique" json:"media_id"`
	Season    int       `gorm:"not null;default:0;index:idx_notif_dedup,unique" json:"season"`
	Episode   int       `gorm:"not null;default:0;index:idx_notif_dedup,unique" json:"episode"` // 0 for premiere/new_season
	Title     string    `gorm:"size:255" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Data      string    `gorm:"type:text" json:"data"` // JSON payload: air date, tmdb id
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// UserNotificationSettings are the per-user global alert defaults. Also the
// shape of "effective settings" once a show override has been applied.
type UserNotificationSettings struct {
	UserID              uint      `gorm:"primaryKey" json:"user_id"`
	AlertsEnabled       bool      `gorm:"not null;default:true" json:"alerts_enabled"`
	AlertNewSeason      bool      `gorm:"not null;default:true" json:"alert_new_season"`
	AlertSeasonPremiere bool      `gorm:"not null;default:true" json:"alert_season_premiere"`
	AlertEpisodeAiring  bool      `gorm:"not null;default:false" json:"alert_episode_airing"`
	AlertSeasonFinale   bool      `gorm:"not null;default:true" json:"alert_season_finale"`
	PremiereAdvanceDays int       `gorm:"not null;default:7" json:"premiere_advance_days"`
	QuietHoursStart     string    `gorm:"size:5" json:"quiet_hours_start"` // "22:00", empty = off
	QuietHoursEnd       string    `gorm:"size:5" json:"quiet_hours_end"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (UserNotificationSettings) TableName() string {
	return "user_notification_settings"
}

// DefaultNotificationSettings are the values used before a user ever saves
// settings (no row in the table yet).
func DefaultNotificationSettings(userID uint) UserNotificationSettings {
	return UserNotificationSettings{
		UserID:              userID,
		AlertsEnabled:       true,
		AlertNewSeason:      true,
		AlertSeasonPremiere: true,
		AlertEpisodeAiring:  false,
		AlertSeasonFinale:   true,
		PremiereAdvanceDays: 7,
	}
}

// UserShowAlertSettings are per-show overrides. Nil fields inherit the
// global default.
type UserShowAlertSettings struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"not null;index:idx_show_alert_user_media,unique" json:"user_id"`
	MediaID             uint      `gorm:"not null;index:idx_show_alert_user_media,unique" json:"media_id"`
	AlertsEnabled       *bool     `json:"alerts_enabled"`
	AlertNewSeason      *bool     `json:"alert_new_season"`
	AlertSeasonPremiere *bool     `json:"alert_season_premiere"`
	AlertEpisodeAiring  *bool     `json:"alert_episode_airing"`
	AlertSeasonFinale   *bool     `json:"alert_season_finale"`
	PremiereAdvanceDays *int      `json:"premiere_advance_days"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (UserShowAlertSettings) TableName() string {
	return "user_show_alert_settings"
}

// ApplyTo overlays the override onto s, field by field. Nil override fields
// leave the global value in place.
func (o *UserShowAlertSettings) ApplyTo(s *UserNotificationSettings) {
	if o == nil {
		return
	}
	if o.AlertsEnabled != nil {
		s.AlertsEnabled = *o.AlertsEnabled
	}
	if o.AlertNewSeason != nil {
		s.AlertNewSeason = *o.AlertNewSeason
	}
	if o.AlertSeasonPremiere != nil {
		s.AlertSeasonPremiere = *o.AlertSeasonPremiere
	}
	if o.AlertEpisodeAiring != nil {
		s.AlertEpisodeAiring = *o.AlertEpisodeAiring
	}
	if o.AlertSeasonFinale != nil {
		s.AlertSeasonFinale = *o.AlertSeasonFinale
	}
	if o.PremiereAdvanceDays != nil {
		s.PremiereAdvanceDays = *o.PremiereAdvanceDays
	}
}
