package service

import (
	"testing"
	"time"

	"flicklog/internal/models"
	"flicklog/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory SQLite database with the full schema. Each
// test gets its own database so no cleanup is needed.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Collaborator{},
		&models.CustomList{},
		&models.CustomListItem{},
		&models.ListVisibility{},
		&models.FriendListAccess{},
		&models.Media{},
		&models.TVShowMetadata{},
		&models.UserMedia{},
		&models.Notification{},
		&models.UserNotificationSettings{},
		&models.UserShowAlertSettings{},
	))
	return db
}

type fixtures struct {
	db         *gorm.DB
	users      *repository.UserRepository
	collabs    *repository.CollaboratorRepository
	lists      *repository.ListRepository
	sharing    *repository.SharingRepository
	media      *repository.MediaRepository
	library    *repository.LibraryRepository
	notifs     *repository.NotificationRepository
	settings   *repository.SettingsRepository
	sharingSvc *SharingService
	notifySvc  *NotifyService
	alertSvc   *AlertService

	nextTMDbID int64
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	db := testDB(t)
	f := &fixtures{
		db:       db,
		users:    repository.NewUserRepository(db),
		collabs:  repository.NewCollaboratorRepository(db),
		lists:    repository.NewListRepository(db),
		sharing:  repository.NewSharingRepository(db),
		media:    repository.NewMediaRepository(db),
		library:  repository.NewLibraryRepository(db),
		notifs:   repository.NewNotificationRepository(db),
		settings: repository.NewSettingsRepository(db),
	}
	f.sharingSvc = NewSharingService(f.sharing, f.collabs, f.lists)
	f.notifySvc = NewNotifyService(f.notifs, nil)
	f.alertSvc = NewAlertService(f.media, f.library, f.settings, f.notifySvc)
	return f
}

func (f *fixtures) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Name:         username,
		PasswordHash: "x",
	}
	require.NoError(t, f.users.Create(u))
	return u
}

func (f *fixtures) befriend(t *testing.T, a, b uint) {
	t.Helper()
	now := time.Now()
	edge := &models.Collaborator{
		OwnerID:        a,
		CollaboratorID: b,
		Type:           "friend",
		Status:         "accepted",
		AcceptedAt:     &now,
	}
	require.NoError(t, f.collabs.Create(edge))
}

func (f *fixtures) show(t *testing.T, title, status string, airDate *time.Time, season, episode, seasons int) *models.Media {
	t.Helper()
	f.nextTMDbID++
	m, err := f.media.Upsert(&models.Media{
		TMDbID:    1000 + f.nextTMDbID,
		MediaType: "tv",
		Title:     title,
		Year:      2024,
	})
	require.NoError(t, err)
	require.NoError(t, f.media.UpsertTVMetadata(&models.TVShowMetadata{
		MediaID:            m.ID,
		NextEpisodeAirDate: airDate,
		NextEpisodeSeason:  season,
		NextEpisodeNumber:  episode,
		NextEpisodeName:    "Episode",
		NumberOfSeasons:    seasons,
		Status:             status,
	}))
	return m
}

func (f *fixtures) track(t *testing.T, userID, mediaID uint, listType string) {
	t.Helper()
	_, err := f.library.Upsert(&models.UserMedia{UserID: userID, MediaID: mediaID, ListType: listType})
	require.NoError(t, err)
}
