package service

import (
	"context"
	"fmt"
	"time"

	"flicklog/config"
	"flicklog/internal/domain"
	"flicklog/internal/models"
	"flicklog/internal/repository"
	"flicklog/pkg/trakt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var ErrTraktNotLinked = errors.New("trakt account not linked")

// TraktService links accounts to Trakt and pulls watch history into the
// library. Token refresh is delegated to the oauth2 TokenSource; rotated
// tokens are written back to the user row.
type TraktService struct {
	cfg         *config.TraktConfig
	userRepo    *repository.UserRepository
	mediaRepo   *repository.MediaRepository
	libraryRepo *repository.LibraryRepository
}

func NewTraktService(
	cfg *config.TraktConfig,
	userRepo *repository.UserRepository,
	mediaRepo *repository.MediaRepository,
	libraryRepo *repository.LibraryRepository,
) *TraktService {
	return &TraktService{cfg: cfg, userRepo: userRepo, mediaRepo: mediaRepo, libraryRepo: libraryRepo}
}

func (s *TraktService) Configured() bool {
	return s.cfg.ClientID != "" && s.cfg.ClientSecret != ""
}

func (s *TraktService) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  s.cfg.RedirectURL,
		Endpoint:     trakt.Endpoint,
	}
}

// Link exchanges the authorize code and stores the token pair on the user.
func (s *TraktService) Link(ctx context.Context, userID uint, code string) error {
	tok, err := s.OAuthConfig().Exchange(ctx, code)
	if err != nil {
		return errors.Wrap(err, "trakt exchange")
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	s.storeToken(u, tok)
	return s.userRepo.Update(u)
}

// SyncResult aggregates one sync run.
type SyncResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// Sync pulls the user's watched shows and movies and upserts them as
// finished library entries. Items without a TMDb id are skipped; per-item
// failures accumulate and do not abort the run.
func (s *TraktService) Sync(ctx context.Context, userID uint) (*SyncResult, error) {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !u.TraktLinked() {
		return nil, ErrTraktNotLinked
	}
	tok := &oauth2.Token{
		AccessToken:  u.TraktAccessToken,
		RefreshToken: u.TraktRefreshToken,
	}
	if u.TraktExpiresAt != nil {
		tok.Expiry = *u.TraktExpiresAt
	}
	src := s.OAuthConfig().TokenSource(ctx, tok)
	client := trakt.NewClient(s.cfg.ClientID, oauth2.NewClient(ctx, src))

	res := &SyncResult{Errors: []string{}}
	shows, err := client.WatchedShows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "watched shows")
	}
	for _, w := range shows {
		if err := s.importEntry(userID, w.Show.IDs.TMDb, domain.MediaTypeTV, w.Show.Title, w.Show.Year, w.LastWatchedAt, res); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("show %q: %v", w.Show.Title, err))
		}
	}
	movies, err := client.WatchedMovies(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "watched movies")
	}
	for _, w := range movies {
		if err := s.importEntry(userID, w.Movie.IDs.TMDb, domain.MediaTypeMovie, w.Movie.Title, w.Movie.Year, w.LastWatchedAt, res); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("movie %q: %v", w.Movie.Title, err))
		}
	}

	// Persist rotated tokens and the sync timestamp.
	if fresh, err := src.Token(); err == nil {
		s.storeToken(u, fresh)
	}
	now := time.Now()
	u.TraktSyncedAt = &now
	if err := s.userRepo.Update(u); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("persist token: %v", err))
	}
	log.WithFields(log.Fields{"user": userID, "imported": res.Imported, "skipped": res.Skipped, "errors": len(res.Errors)}).
		Info("trakt sync complete")
	return res, nil
}

func (s *TraktService) importEntry(userID uint, tmdbID int64, mediaType, title string, year int, watchedAt time.Time, res *SyncResult) error {
	if tmdbID == 0 {
		res.Skipped++
		return nil
	}
	media, err := s.mediaRepo.Upsert(&models.Media{
		TMDbID:    tmdbID,
		MediaType: mediaType,
		Title:     title,
		Year:      year,
	})
	if err != nil {
		return err
	}
	wa := watchedAt
	_, err = s.libraryRepo.Upsert(&models.UserMedia{
		UserID:    userID,
		MediaID:   media.ID,
		ListType:  domain.ListFinished,
		WatchedAt: &wa,
	})
	if err != nil {
		return err
	}
	res.Imported++
	return nil
}

func (s *TraktService) storeToken(u *models.User, tok *oauth2.Token) {
	u.TraktAccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		u.TraktRefreshToken = tok.RefreshToken
	}
	if !tok.Expiry.IsZero() {
		exp := tok.Expiry
		u.TraktExpiresAt = &exp
	}
}
