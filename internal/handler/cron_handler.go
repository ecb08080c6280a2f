package handler

import (
	"net/http"
	"strings"
	"time"

	"flicklog/config"
	"flicklog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CronHandler struct {
	cfg      *config.CronConfig
	alerts   *service.AlertService
	metadata *service.MetadataService
}

func NewCronHandler(cfg *config.CronConfig, alerts *service.AlertService, metadata *service.MetadataService) *CronHandler {
	return &CronHandler{cfg: cfg, alerts: alerts, metadata: metadata}
}

// authorize checks the bearer secret. An empty configured secret disables the
// check, which is only acceptable in development.
func (h *CronHandler) authorize(c *gin.Context) bool {
	if h.cfg.Secret == "" {
		return true
	}
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token != h.cfg.Secret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	return true
}

// GenerateAlerts runs the episode alert job over the configured window.
func (h *CronHandler) GenerateAlerts(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	start := time.Now()
	result, err := h.alerts.GenerateAlerts(h.cfg.AlertWindowDays, start)
	if err != nil {
		logrus.WithError(err).Error("alert generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "alert generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"duration":          time.Since(start).String(),
		"premiere_alerts":   result.PremiereAlerts,
		"episode_alerts":    result.EpisodeAlerts,
		"finale_alerts":     result.FinaleAlerts,
		"new_season_alerts": result.NewSeasonAlerts,
		"errors":            result.Errors,
	})
}

// RefreshMetadata refreshes scheduling metadata for every tracked show.
func (h *CronHandler) RefreshMetadata(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	if h.metadata == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog not configured"})
		return
	}
	start := time.Now()
	result, err := h.metadata.RefreshTracked(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("metadata refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "metadata refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"duration":  time.Since(start).String(),
		"refreshed": result.Refreshed,
		"errors":    result.Errors,
	})
}
