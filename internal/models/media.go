package models

import "time"

// Media is a cached catalog entry (movie or TV show) keyed by TMDb id.
type Media struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TMDbID     int64     `gorm:"column:tmdb_id;not null;index:idx_media_tmdb,unique" json:"tmdb_id"`
	MediaType  string    `gorm:"size:10;not null;index:idx_media_tmdb,unique" json:"media_type"` // movie | tv
	Title      string    `gorm:"size:255;not null" json:"title"`
	Year       int       `json:"year"`
	PosterPath string    `gorm:"size:255" json:"poster_path"`
	Overview   string    `gorm:"type:text" json:"overview"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Media) TableName() string {
	return "media"
}

// TVShowMetadata holds scheduling columns for a tracked show, refreshed from
// TMDb. Read-only input to the alert job.
type TVShowMetadata struct {
	MediaID            uint       `gorm:"primaryKey" json:"media_id"`
	NextEpisodeAirDate *time.Time `gorm:"index" json:"next_episode_to_air_date"`
	NextEpisodeSeason  int        `json:"next_episode_season"`
	NextEpisodeNumber  int        `json:"next_episode_number"`
	NextEpisodeName    string     `gorm:"size:255" json:"next_episode_name"`
	NumberOfSeasons    int        `json:"number_of_seasons"`
	Status             string     `gorm:"size:50" json:"status"` // e.g. "Returning Series"
	UpdatedAt          time.Time  `json:"updated_at"`

	Media Media `gorm:"foreignKey:MediaID" json:"media,omitempty"`
}

func (TVShowMetadata) TableName() string {
	return "tv_show_metadata"
}
