package service

import (
	"context"
	"fmt"

	"flicklog/internal/models"
	"flicklog/internal/repository"
	"flicklog/pkg/tmdb"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// MetadataService refreshes tv_show_metadata from TMDb for every show anyone
// tracks. The alert job only reads what this writes.
type MetadataService struct {
	tmdb      *tmdb.Client
	mediaRepo *repository.MediaRepository
}

func NewMetadataService(client *tmdb.Client, mediaRepo *repository.MediaRepository) *MetadataService {
	return &MetadataService{tmdb: client, mediaRepo: mediaRepo}
}

// RefreshResult aggregates one refresh run.
type RefreshResult struct {
	Refreshed int      `json:"refreshed"`
	Errors    []string `json:"errors"`
}

// RefreshTracked walks tracked TV shows and rewrites their scheduling rows.
// Per-show failures accumulate; only the initial id listing aborts the run.
func (s *MetadataService) RefreshTracked(ctx context.Context) (*RefreshResult, error) {
	ids, err := s.mediaRepo.ListTrackedTVMediaIDs()
	if err != nil {
		return nil, errors.Wrap(err, "list tracked shows")
	}
	res := &RefreshResult{Errors: []string{}}
	for _, id := range ids {
		if err := s.refreshOne(ctx, id); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("media %d: %v", id, err))
			continue
		}
		res.Refreshed++
	}
	log.WithFields(log.Fields{"refreshed": res.Refreshed, "errors": len(res.Errors)}).Info("metadata refresh complete")
	return res, nil
}

func (s *MetadataService) refreshOne(ctx context.Context, mediaID uint) error {
	media, err := s.mediaRepo.GetByID(mediaID)
	if err != nil {
		return err
	}
	show, err := s.tmdb.GetTVShow(ctx, media.TMDbID)
	if err != nil {
		return err
	}
	meta := &models.TVShowMetadata{
		MediaID:         mediaID,
		NumberOfSeasons: show.NumberOfSeasons,
		Status:          show.Status,
	}
	if next := show.NextEpisodeToAir; next != nil {
		air, err := next.AirTime()
		if err == nil {
			meta.NextEpisodeAirDate = &air
		}
		meta.NextEpisodeSeason = next.SeasonNumber
		meta.NextEpisodeNumber = next.EpisodeNumber
		meta.NextEpisodeName = next.Name
	}
	return s.mediaRepo.UpsertTVMetadata(meta)
}
