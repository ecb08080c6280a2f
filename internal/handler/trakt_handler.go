package handler

import (
	"net/http"
	"strconv"

	"flicklog/internal/middleware"
	"flicklog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

type TraktHandler struct {
	traktService *service.TraktService
}

func NewTraktHandler(traktService *service.TraktService) *TraktHandler {
	return &TraktHandler{traktService: traktService}
}

// Connect returns the Trakt authorize URL. The user id rides in the state
// parameter and is checked again on callback against the session.
func (h *TraktHandler) Connect(c *gin.Context) {
	if !h.traktService.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trakt not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	url := h.traktService.OAuthConfig().AuthCodeURL(stateFor(userID), oauth2.AccessTypeOffline)
	c.JSON(http.StatusOK, gin.H{"authorize_url": url})
}

// Callback completes the OAuth flow with the code Trakt redirected back with.
func (h *TraktHandler) Callback(c *gin.Context) {
	if !h.traktService.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "trakt not configured"})
		return
	}
	userID := middleware.GetUserID(c)
	var req struct {
		Code  string `json:"code" binding:"required"`
		State string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	if req.State != "" && req.State != stateFor(userID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	if err := h.traktService.Link(c.Request.Context(), userID, req.Code); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to link trakt account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Sync imports the linked account's watch history into the library.
func (h *TraktHandler) Sync(c *gin.Context) {
	userID := middleware.GetUserID(c)
	result, err := h.traktService.Sync(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrTraktNotLinked) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "trakt account not linked"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "sync failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imported": result.Imported,
		"skipped":  result.Skipped,
		"errors":   result.Errors,
	})
}

func stateFor(userID uint) string {
	return "u" + strconv.FormatUint(uint64(userID), 10)
}
