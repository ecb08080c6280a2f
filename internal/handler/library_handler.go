package handler

import (
	"net/http"
	"strconv"
	"time"

	"flicklog/internal/domain"
	"flicklog/internal/middleware"
	"flicklog/internal/models"
	"flicklog/internal/repository"

	"github.com/gin-gonic/gin"
)

type LibraryHandler struct {
	libraryRepo *repository.LibraryRepository
	mediaRepo   *repository.MediaRepository
}

func NewLibraryHandler(libraryRepo *repository.LibraryRepository, mediaRepo *repository.MediaRepository) *LibraryHandler {
	return &LibraryHandler{libraryRepo: libraryRepo, mediaRepo: mediaRepo}
}

// AddEntry creates or updates the caller's library entry for a media item.
func (h *LibraryHandler) AddEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		MediaID   uint       `json:"media_id" binding:"required"`
		ListType  string     `json:"list_type" binding:"required"`
		Rating    *int       `json:"rating"`
		Notes     string     `json:"notes"`
		WatchedAt *time.Time `json:"watched_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_id and list_type are required"})
		return
	}
	if !domain.IsSystemListType(req.ListType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list type"})
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 10) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 10"})
		return
	}
	if _, err := h.mediaRepo.GetByID(req.MediaID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	}
	entry := &models.UserMedia{
		UserID:    userID,
		MediaID:   req.MediaID,
		ListType:  req.ListType,
		Rating:    req.Rating,
		Notes:     req.Notes,
		WatchedAt: req.WatchedAt,
	}
	saved, err := h.libraryRepo.Upsert(entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": saved})
}

func (h *LibraryHandler) GetEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	mediaID, err := strconv.ParseUint(c.Param("mediaId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	entry, err := h.libraryRepo.Get(userID, uint(mediaID))
	if err != nil || entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (h *LibraryHandler) RemoveEntry(c *gin.Context) {
	userID := middleware.GetUserID(c)
	mediaID, err := strconv.ParseUint(c.Param("mediaId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	if err := h.libraryRepo.Remove(userID, uint(mediaID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetLibrary lists the caller's entries, optionally filtered by list type.
func (h *LibraryHandler) GetLibrary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	listType := c.Query("list_type")
	if listType != "" && !domain.IsSystemListType(listType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list type"})
		return
	}
	limit, offset := pagination(c)
	entries, err := h.libraryRepo.ListByUser(userID, listType, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load library"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
