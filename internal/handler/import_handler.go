package handler

import (
	"fmt"
	"net/http"

	"flicklog/internal/domain"
	"flicklog/internal/importer"
	"flicklog/internal/middleware"
	"flicklog/internal/models"
	"flicklog/internal/repository"
	"flicklog/pkg/tmdb"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const maxImportSize = 20 << 20

type ImportHandler struct {
	tmdb        *tmdb.Client
	mediaRepo   *repository.MediaRepository
	libraryRepo *repository.LibraryRepository
}

func NewImportHandler(client *tmdb.Client, mediaRepo *repository.MediaRepository, libraryRepo *repository.LibraryRepository) *ImportHandler {
	return &ImportHandler{tmdb: client, mediaRepo: mediaRepo, libraryRepo: libraryRepo}
}

// Letterboxd ingests a Letterboxd export ZIP into the caller's library.
func (h *ImportHandler) Letterboxd(c *gin.Context) {
	if h.tmdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()
	if header.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	entries, err := importer.ParseLetterboxdZip(file, header.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read export archive"})
		return
	}
	h.ingest(c, entries)
}

// IMDb ingests an IMDb ratings/watchlist CSV export.
func (h *ImportHandler) IMDb(c *gin.Context) {
	if h.tmdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()
	if header.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	entries, err := importer.ParseIMDbCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read csv"})
		return
	}
	h.ingest(c, entries)
}

// ingest resolves parsed entries against TMDb and upserts library rows.
// Failures on individual titles are reported, not fatal.
func (h *ImportHandler) ingest(c *gin.Context, entries []importer.Entry) {
	userID := middleware.GetUserID(c)
	imported, skipped := 0, 0
	var errs []string

	for _, e := range entries {
		media, err := h.resolve(c, e)
		if err != nil {
			skipped++
			errs = append(errs, fmt.Sprintf("%s (%d): %v", e.Title, e.Year, err))
			continue
		}
		entry := &models.UserMedia{
			UserID:    userID,
			MediaID:   media.ID,
			ListType:  e.ListType,
			Rating:    e.Rating,
			WatchedAt: e.WatchedAt,
		}
		if _, err := h.libraryRepo.Upsert(entry); err != nil {
			skipped++
			errs = append(errs, fmt.Sprintf("%s (%d): %v", e.Title, e.Year, err))
			continue
		}
		imported++
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"imported": imported,
		"skipped":  skipped,
	}).Info("library import finished")

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imported": imported,
		"skipped":  skipped,
		"errors":   errs,
	})
}

func (h *ImportHandler) resolve(c *gin.Context, e importer.Entry) (*models.Media, error) {
	if m, err := h.mediaRepo.GetByTitleYear(e.Title, e.Year, e.MediaType); err == nil && m != nil {
		return m, nil
	}

	ctx := c.Request.Context()
	switch e.MediaType {
	case domain.MediaTypeMovie:
		resp, err := h.tmdb.SearchMovies(ctx, e.Title, e.Year)
		if err != nil {
			return nil, err
		}
		if len(resp.Results) == 0 {
			return nil, fmt.Errorf("no match")
		}
		hit := resp.Results[0]
		return h.mediaRepo.Upsert(&models.Media{
			TMDbID:     hit.ID,
			MediaType:  domain.MediaTypeMovie,
			Title:      hit.Title,
			Year:       yearOf(hit.ReleaseDate),
			PosterPath: hit.PosterPath,
			Overview:   hit.Overview,
		})
	case domain.MediaTypeTV:
		resp, err := h.tmdb.SearchTV(ctx, e.Title, e.Year)
		if err != nil {
			return nil, err
		}
		if len(resp.Results) == 0 {
			return nil, fmt.Errorf("no match")
		}
		hit := resp.Results[0]
		return h.mediaRepo.Upsert(&models.Media{
			TMDbID:     hit.ID,
			MediaType:  domain.MediaTypeTV,
			Title:      hit.Name,
			Year:       yearOf(hit.FirstAirDate),
			PosterPath: hit.PosterPath,
			Overview:   hit.Overview,
		})
	}
	return nil, fmt.Errorf("unsupported media type %q", e.MediaType)
}
