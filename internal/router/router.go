package router

import (
	"time"

	"flicklog/config"
	"flicklog/internal/handler"
	"flicklog/internal/middleware"
	"flicklog/internal/repository"
	"flicklog/internal/service"
	"flicklog/internal/ws"
	"flicklog/pkg/cloudinary"
	"flicklog/pkg/tmdb"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, tmdbClient *tmdb.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	collabRepo := repository.NewCollaboratorRepository(db)
	listRepo := repository.NewListRepository(db)
	sharingRepo := repository.NewSharingRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	notifHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	sharingSvc := service.NewSharingService(sharingRepo, collabRepo, listRepo)
	notifySvc := service.NewNotifyService(notifRepo, notifHub)
	alertSvc := service.NewAlertService(mediaRepo, libraryRepo, settingsRepo, notifySvc)
	traktSvc := service.NewTraktService(&cfg.Trakt, userRepo, mediaRepo, libraryRepo)
	var metadataSvc *service.MetadataService
	if tmdbClient != nil {
		metadataSvc = service.NewMetadataService(tmdbClient, mediaRepo)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	meHandler := handler.NewMeHandler(userRepo, libraryRepo, listRepo, cloud)
	friendHandler := handler.NewFriendHandler(collabRepo, userRepo)
	sharingHandler := handler.NewSharingHandler(sharingSvc, collabRepo, userRepo)
	listHandler := handler.NewListHandler(listRepo, mediaRepo)
	libraryHandler := handler.NewLibraryHandler(libraryRepo, mediaRepo)
	mediaHandler := handler.NewMediaHandler(tmdbClient, mediaRepo)
	notifHandler := handler.NewNotificationHandler(notifRepo, settingsRepo, mediaRepo)
	cronHandler := handler.NewCronHandler(&cfg.Cron, alertSvc, metadataSvc)
	importHandler := handler.NewImportHandler(tmdbClient, mediaRepo, libraryRepo)
	traktHandler := handler.NewTraktHandler(traktSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.POST("/avatar", meHandler.UploadAvatar)
			me.GET("/lists/visibility", listHandler.GetVisibilities)
			me.PATCH("/lists/visibility", listHandler.SetVisibility)
			me.GET("/trakt/connect", traktHandler.Connect)
			me.POST("/trakt/callback", traktHandler.Callback)
			me.POST("/trakt/sync", traktHandler.Sync)
		}

		media := api.Group("/media")
		media.Use(authMw)
		{
			media.GET("/search", mediaHandler.Search)
			media.POST("", mediaHandler.Add)
			media.GET("/:id", mediaHandler.Get)
		}

		library := api.Group("/library")
		library.Use(authMw)
		{
			library.GET("", libraryHandler.GetLibrary)
			library.POST("", libraryHandler.AddEntry)
			library.GET("/:mediaId", libraryHandler.GetEntry)
			library.DELETE("/:mediaId", libraryHandler.RemoveEntry)
		}

		lists := api.Group("/lists")
		lists.Use(authMw)
		{
			lists.GET("", listHandler.GetLists)
			lists.POST("", listHandler.CreateList)
			lists.PATCH("/:id", listHandler.UpdateList)
			lists.DELETE("/:id", listHandler.DeleteList)
			lists.GET("/:id/items", listHandler.GetItems)
			lists.POST("/:id/items", listHandler.AddItem)
			lists.DELETE("/:id/items/:mediaId", listHandler.RemoveItem)
		}

		friends := api.Group("/friends")
		friends.Use(authMw)
		{
			friends.GET("", friendHandler.ListFriends)
			friends.POST("/invite", friendHandler.Invite)
			friends.GET("/requests", friendHandler.ListPending)
			friends.POST("/requests/:id/accept", friendHandler.Accept)
			friends.DELETE("/requests/:id", friendHandler.Decline)
			friends.DELETE("/:id", friendHandler.Unfriend)
			friends.GET("/:id/shared", sharingHandler.GetShared)
			friends.PATCH("/:id/shared", sharingHandler.UpdateShared)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notifHandler.List)
			notifications.GET("/unread-count", notifHandler.UnreadCount)
			notifications.PUT("/:id/read", notifHandler.MarkRead)
			notifications.PUT("/read-all", notifHandler.MarkAllRead)
			notifications.GET("/settings", notifHandler.GetSettings)
			notifications.PUT("/settings", notifHandler.UpdateSettings)
			notifications.GET("/settings/shows/:mediaId", notifHandler.GetShowSettings)
			notifications.PUT("/settings/shows/:mediaId", notifHandler.UpdateShowSettings)
			notifications.DELETE("/settings/shows/:mediaId", notifHandler.DeleteShowSettings)
		}

		imports := api.Group("/import")
		imports.Use(authMw)
		{
			imports.POST("/letterboxd", importHandler.Letterboxd)
			imports.POST("/imdb", importHandler.IMDb)
		}

		// Cron endpoints carry their own bearer secret instead of a user JWT.
		api.GET("/cron/generate-alerts", cronHandler.GenerateAlerts)
		api.POST("/cron/generate-alerts", cronHandler.GenerateAlerts)
		api.POST("/cron/refresh-metadata", cronHandler.RefreshMetadata)
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationsWS(&cfg.JWT, notifHub))

	return r
}
