package service

import (
	"encoding/json"
	"fmt"
	"time"

	"flicklog/internal/domain"
	"flicklog/internal/models"
	"flicklog/internal/repository"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// finaleEpisodeThreshold approximates "last episode of the season". A true
// check needs per-season episode counts from TMDb; until then any episode
// numbered this high is announced as a finale.
const finaleEpisodeThreshold = 8

// AlertService is the scheduled job that diffs upcoming episodes against each
// tracking user's effective settings and the sent-notification ledger.
type AlertService struct {
	mediaRepo    *repository.MediaRepository
	libraryRepo  *repository.LibraryRepository
	settingsRepo *repository.SettingsRepository
	notify       *NotifyService
}

func NewAlertService(
	mediaRepo *repository.MediaRepository,
	libraryRepo *repository.LibraryRepository,
	settingsRepo *repository.SettingsRepository,
	notify *NotifyService,
) *AlertService {
	return &AlertService{
		mediaRepo:    mediaRepo,
		libraryRepo:  libraryRepo,
		settingsRepo: settingsRepo,
		notify:       notify,
	}
}

// AlertRunResult aggregates one invocation.
type AlertRunResult struct {
	PremiereAlerts  int      `json:"premiere_alerts"`
	EpisodeAlerts   int      `json:"episode_alerts"`
	FinaleAlerts    int      `json:"finale_alerts"`
	NewSeasonAlerts int      `json:"new_season_alerts"`
	Errors          []string `json:"errors"`
}

// GenerateAlerts runs both passes. Per-show and per-user failures land in the
// result's Errors slice and processing continues; only the initial show fetch
// aborts the run.
func (s *AlertService) GenerateAlerts(windowDays int, now time.Time) (*AlertRunResult, error) {
	res := &AlertRunResult{Errors: []string{}}
	shows, err := s.mediaRepo.GetShowsWithUpcomingEpisodes(windowDays, now)
	if err != nil {
		return nil, errors.Wrap(err, "fetch upcoming shows")
	}
	for i := range shows {
		show := &shows[i]
		if show.NextEpisodeAirDate == nil {
			continue
		}
		userIDs, err := s.libraryRepo.GetUsersTrackingShow(show.MediaID)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("show %d: %v", show.MediaID, err))
			continue
		}
		for _, uid := range userIDs {
			if err := s.processEpisodeAlert(uid, show, now, res); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("user %d show %d: %v", uid, show.MediaID, err))
			}
		}
	}
	if err := s.generateNewSeasonAlerts(res); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("new season pass: %v", err))
	}
	log.WithFields(log.Fields{
		"premiere":   res.PremiereAlerts,
		"episode":    res.EpisodeAlerts,
		"finale":     res.FinaleAlerts,
		"new_season": res.NewSeasonAlerts,
		"errors":     len(res.Errors),
	}).Info("alert run complete")
	return res, nil
}

// processEpisodeAlert classifies the upcoming episode into at most one
// notification type per (user, show) per run: premiere, else finale, else
// plain episode — each gated on the user's effective settings.
func (s *AlertService) processEpisodeAlert(userID uint, show *models.TVShowMetadata, now time.Time, res *AlertRunResult) error {
	settings, err := s.settingsRepo.GetEffectiveSettings(userID, show.MediaID)
	if err != nil {
		return err
	}
	if !settings.AlertsEnabled {
		return nil
	}
	airDate := *show.NextEpisodeAirDate
	days := daysUntil(airDate, now)
	if days < 0 || days > settings.PremiereAdvanceDays {
		return nil
	}
	season := show.NextEpisodeSeason
	episode := show.NextEpisodeNumber
	title := show.Media.Title
	when := formatAirDay(days, airDate)

	switch {
	case episode == 1 && settings.AlertSeasonPremiere:
		created, err := s.emit(userID, domain.NotifPremiere, show, season, 0,
			"Season premiere",
			fmt.Sprintf("%s Season %d premieres %s", title, season, when))
		if created {
			res.PremiereAlerts++
		}
		return err
	case episode >= finaleEpisodeThreshold && settings.AlertSeasonFinale:
		created, err := s.emit(userID, domain.NotifFinale, show, season, episode,
			"Season finale",
			fmt.Sprintf("%s Season %d finale airs %s", title, season, when))
		if created {
			res.FinaleAlerts++
		}
		return err
	case settings.AlertEpisodeAiring:
		created, err := s.emit(userID, domain.NotifEpisode, show, season, episode,
			"New episode",
			fmt.Sprintf("%s S%02dE%02d airs %s", title, season, episode, when))
		if created {
			res.EpisodeAlerts++
		}
		return err
	}
	return nil
}

// generateNewSeasonAlerts announces each distinct season count once per
// returning show, for users who opted in. The season number doubles as the
// "count we've already announced" idempotency key.
func (s *AlertService) generateNewSeasonAlerts(res *AlertRunResult) error {
	shows, err := s.mediaRepo.GetReturningShows()
	if err != nil {
		return err
	}
	for i := range shows {
		show := &shows[i]
		userIDs, err := s.libraryRepo.GetUsersTrackingShow(show.MediaID)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("show %d: %v", show.MediaID, err))
			continue
		}
		for _, uid := range userIDs {
			settings, err := s.settingsRepo.GetEffectiveSettings(uid, show.MediaID)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("user %d show %d: %v", uid, show.MediaID, err))
				continue
			}
			if !settings.AlertsEnabled || !settings.AlertNewSeason {
				continue
			}
			created, err := s.emit(uid, domain.NotifNewSeason, show, show.NumberOfSeasons, 0,
				"New season",
				fmt.Sprintf("%s has a new season: Season %d", show.Media.Title, show.NumberOfSeasons))
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("user %d show %d: %v", uid, show.MediaID, err))
				continue
			}
			if created {
				res.NewSeasonAlerts++
			}
		}
	}
	return nil
}

func (s *AlertService) emit(userID uint, notifType string, show *models.TVShowMetadata, season, episode int, title, message string) (bool, error) {
	data, _ := json.Marshal(map[string]interface{}{
		"season":   season,
		"episode":  episode,
		"air_date": show.NextEpisodeAirDate,
		"tmdb_id":  show.Media.TMDbID,
	})
	return s.notify.Deliver(&models.Notification{
		UserID:  userID,
		Type:    notifType,
		MediaID: show.MediaID,
		Season:  season,
		Episode: episode,
		Title:   title,
		Message: message,
		Data:    string(data),
	})
}

// daysUntil is the calendar-day distance from now to airDate: each side is
// truncated to its own midnight before subtracting, so time-of-day never
// shifts the count.
func daysUntil(airDate, now time.Time) int {
	ay, am, ad := airDate.Date()
	ny, nm, nd := now.Date()
	a := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	n := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(n) / (24 * time.Hour))
}

// formatAirDay renders the air date relative to today for message text.
func formatAirDay(days int, airDate time.Time) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "tomorrow, " + airDate.Format("Monday January 2")
	default:
		return airDate.Format("Monday January 2")
	}
}
