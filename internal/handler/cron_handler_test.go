package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"flicklog/config"
	"flicklog/internal/models"
	"flicklog/internal/repository"
	"flicklog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Media{},
		&models.TVShowMetadata{},
		&models.UserMedia{},
		&models.Notification{},
		&models.UserNotificationSettings{},
		&models.UserShowAlertSettings{},
	))
	return db
}

func cronRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testDB(t)
	mediaRepo := repository.NewMediaRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	notifySvc := service.NewNotifyService(notifRepo, nil)
	alertSvc := service.NewAlertService(mediaRepo, libraryRepo, settingsRepo, notifySvc)
	h := NewCronHandler(&config.CronConfig{Secret: secret, AlertWindowDays: 7}, alertSvc, nil)

	r := gin.New()
	r.POST("/api/cron/generate-alerts", h.GenerateAlerts)
	return r
}

func TestGenerateAlerts_RequiresBearerSecret(t *testing.T) {
	r := cronRouter(t, "topsecret")

	// No token.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/generate-alerts", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong token.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/cron/generate-alerts", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct token.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/cron/generate-alerts", nil)
	req.Header.Set("Authorization", "Bearer topsecret")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success        bool     `json:"success"`
		Duration       string   `json:"duration"`
		PremiereAlerts int      `json:"premiere_alerts"`
		Errors         []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Duration)
	assert.Equal(t, 0, body.PremiereAlerts)
	assert.Empty(t, body.Errors)
}

func TestGenerateAlerts_EmptySecretDisablesCheck(t *testing.T) {
	r := cronRouter(t, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/generate-alerts", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
