package handler

import (
	"net/http"
	"strconv"

	"flicklog/internal/middleware"
	"flicklog/internal/models"
	"flicklog/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifRepo    *repository.NotificationRepository
	settingsRepo *repository.SettingsRepository
	mediaRepo    *repository.MediaRepository
}

func NewNotificationHandler(
	notifRepo *repository.NotificationRepository,
	settingsRepo *repository.SettingsRepository,
	mediaRepo *repository.MediaRepository,
) *NotificationHandler {
	return &NotificationHandler{notifRepo: notifRepo, settingsRepo: settingsRepo, mediaRepo: mediaRepo}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	notifs, err := h.notifRepo.ListByUserID(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	unread, _ := h.notifRepo.UnreadCount(userID)
	c.JSON(http.StatusOK, gin.H{"notifications": notifs, "unread_count": unread})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)
	count, err := h.notifRepo.UnreadCount(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	notifID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.notifRepo.MarkRead(uint(notifID), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.notifRepo.MarkAllRead(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark all read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *NotificationHandler) GetSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	settings, err := h.settingsRepo.GetGlobal(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings replaces the account-wide alert preferences.
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req models.UserNotificationSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.PremiereAdvanceDays < 0 || req.PremiereAdvanceDays > 30 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "premiere_advance_days must be between 0 and 30"})
		return
	}
	req.UserID = userID
	if err := h.settingsRepo.UpsertGlobal(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": req})
}

func (h *NotificationHandler) GetShowSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	mediaID, err := strconv.ParseUint(c.Param("mediaId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	override, err := h.settingsRepo.GetShowOverride(userID, uint(mediaID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	effective, err := h.settingsRepo.GetEffectiveSettings(userID, uint(mediaID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"override": override, "effective": effective})
}

// UpdateShowSettings saves a per-show override. Only the fields present in
// the body override the account-wide settings.
func (h *NotificationHandler) UpdateShowSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	mediaID, err := strconv.ParseUint(c.Param("mediaId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	if _, err := h.mediaRepo.GetByID(uint(mediaID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "media not found"})
		return
	}
	var req models.UserShowAlertSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.PremiereAdvanceDays != nil && (*req.PremiereAdvanceDays < 0 || *req.PremiereAdvanceDays > 30) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "premiere_advance_days must be between 0 and 30"})
		return
	}
	req.UserID = userID
	req.MediaID = uint(mediaID)
	if err := h.settingsRepo.UpsertShowOverride(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"override": req})
}

func (h *NotificationHandler) DeleteShowSettings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	mediaID, err := strconv.ParseUint(c.Param("mediaId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
		return
	}
	if err := h.settingsRepo.DeleteShowOverride(userID, uint(mediaID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
