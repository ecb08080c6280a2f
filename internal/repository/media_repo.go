package repository

import (
	"errors"
	"time"

	"flicklog/internal/domain"
	"flicklog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) GetByID(id uint) (*models.Media, error) {
	var m models.Media
	err := r.db.First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MediaRepository) GetByTMDbID(tmdbID int64, mediaType string) (*models.Media, error) {
	var m models.Media
	err := r.db.Where("tmdb_id = ? AND media_type = ?", tmdbID, mediaType).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByTitleYear is a best-effort local lookup used by importers before
// falling back to a TMDb search.
func (r *MediaRepository) GetByTitleYear(title string, year int, mediaType string) (*models.Media, error) {
	var m models.Media
	err := r.db.Where("title = ? AND year = ? AND media_type = ?", title, year, mediaType).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert creates the catalog row or refreshes its descriptive fields.
func (r *MediaRepository) Upsert(m *models.Media) (*models.Media, error) {
	existing, err := r.GetByTMDbID(m.TMDbID, m.MediaType)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Create(m).Error; err != nil {
			return nil, err
		}
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	existing.Title = m.Title
	existing.Year = m.Year
	existing.PosterPath = m.PosterPath
	existing.Overview = m.Overview
	if err := r.db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// UpsertTVMetadata writes the scheduling row for a show, replacing all fields.
func (r *MediaRepository) UpsertTVMetadata(meta *models.TVShowMetadata) error {
	meta.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(meta).Error
}

func (r *MediaRepository) GetTVMetadata(mediaID uint) (*models.TVShowMetadata, error) {
	var meta models.TVShowMetadata
	err := r.db.Preload("Media").First(&meta, "media_id = ?", mediaID).Error
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// GetShowsWithUpcomingEpisodes returns shows whose next episode airs between
// today (midnight) and windowDays days out, inclusive.
func (r *MediaRepository) GetShowsWithUpcomingEpisodes(windowDays int, now time.Time) ([]models.TVShowMetadata, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, windowDays+1)
	var list []models.TVShowMetadata
	err := r.db.Preload("Media").
		Where("next_episode_air_date IS NOT NULL AND next_episode_air_date >= ? AND next_episode_air_date < ?", from, to).
		Find(&list).Error
	return list, err
}

// GetReturningShows returns shows still airing, for new-season announcements.
func (r *MediaRepository) GetReturningShows() ([]models.TVShowMetadata, error) {
	var list []models.TVShowMetadata
	err := r.db.Preload("Media").
		Where("status = ? AND number_of_seasons >= 1", domain.ShowStatusReturning).
		Find(&list).Error
	return list, err
}

// ListTrackedTVMediaIDs returns ids of TV media present in anyone's library,
// the set the metadata refresh job walks.
func (r *MediaRepository) ListTrackedTVMediaIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.UserMedia{}).
		Joins("JOIN media ON media.id = user_media.media_id").
		Where("media.media_type = ?", domain.MediaTypeTV).
		Distinct().
		Pluck("user_media.media_id", &ids).Error
	return ids, err
}
