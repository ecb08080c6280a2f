package handler

import (
	"net/http"
	"strconv"

	"flicklog/internal/domain"
	"flicklog/internal/models"
	"flicklog/internal/repository"
	"flicklog/pkg/tmdb"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	tmdb      *tmdb.Client
	mediaRepo *repository.MediaRepository
}

func NewMediaHandler(client *tmdb.Client, mediaRepo *repository.MediaRepository) *MediaHandler {
	return &MediaHandler{tmdb: client, mediaRepo: mediaRepo}
}

// Search proxies a catalog search to TMDb. media_type selects the index.
func (h *MediaHandler) Search(c *gin.Context) {
	if h.tmdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
		return
	}
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	year, _ := strconv.Atoi(c.Query("year"))

	switch c.DefaultQuery("media_type", domain.MediaTypeMovie) {
	case domain.MediaTypeMovie:
		resp, err := h.tmdb.SearchMovies(c.Request.Context(), query, year)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": resp.Results, "total_results": resp.TotalResults})
	case domain.MediaTypeTV:
		resp, err := h.tmdb.SearchTV(c.Request.Context(), query, year)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "search failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": resp.Results, "total_results": resp.TotalResults})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media type"})
	}
}

// Add caches a TMDb title locally and returns the stored media row. TV shows
// also get their scheduling metadata captured for the alert job.
func (h *MediaHandler) Add(c *gin.Context) {
	if h.tmdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
		return
	}
	var req struct {
		TMDbID    int64  `json:"tmdb_id" binding:"required"`
		MediaType string `json:"media_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tmdb_id and media_type are required"})
		return
	}

	switch req.MediaType {
	case domain.MediaTypeMovie:
		movie, err := h.tmdb.GetMovie(c.Request.Context(), req.TMDbID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch movie"})
			return
		}
		m, err := h.mediaRepo.Upsert(&models.Media{
			TMDbID:     movie.ID,
			MediaType:  domain.MediaTypeMovie,
			Title:      movie.Title,
			Year:       yearOf(movie.ReleaseDate),
			PosterPath: movie.PosterPath,
			Overview:   movie.Overview,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save media"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"media": m})
	case domain.MediaTypeTV:
		show, err := h.tmdb.GetTVShow(c.Request.Context(), req.TMDbID)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch show"})
			return
		}
		m, err := h.mediaRepo.Upsert(&models.Media{
			TMDbID:     show.ID,
			MediaType:  domain.MediaTypeTV,
			Title:      show.Name,
			Year:       yearOf(show.FirstAirDate),
			PosterPath: show.PosterPath,
			Overview:   show.Overview,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save media"})
			return
		}
		meta := &models.TVShowMetadata{
			MediaID:         m.ID,
			NumberOfSeasons: show.NumberOfSeasons,
			Status:          show.Status,
		}
		if ep := show.NextEpisodeToAir; ep != nil {
			if t, err := ep.AirTime(); err == nil {
				meta.NextEpisodeAirDate = &t
			}
			meta.NextEpisodeSeason = ep.SeasonNumber
			meta.NextEpisodeNumber = ep.EpisodeNumber
			meta.NextEpisodeName = ep.Name
		}
		if err := h.mediaRepo.UpsertTVMetadata(meta); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save show metadata"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"media": m, "tv_metadata": meta})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media type"})
	}
}

func (h *MediaHandler) Get(c *gin.Context) {
	mediaID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	m, err := h.mediaRepo.GetByID(uint(mediaID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	}
	resp := gin.H{"media": m}
	if m.MediaType == domain.MediaTypeTV {
		if meta, err := h.mediaRepo.GetTVMetadata(m.ID); err == nil && meta != nil {
			resp["tv_metadata"] = meta
		}
	}
	c.JSON(http.StatusOK, resp)
}

func yearOf(date string) int {
	if len(date) < 4 {
		return 0
	}
	y, _ := strconv.Atoi(date[:4])
	return y
}
