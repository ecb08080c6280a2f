package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flicklog/config"
	"flicklog/internal/database"
	"flicklog/internal/router"
	"flicklog/pkg/cloudinary"
	"flicklog/pkg/tmdb"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	if cfg.Server.Env == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var cloud cloudinary.Client
	if cfg.Cloudinary.CloudName != "" {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
	} else {
		log.Warn("avatar uploads disabled: set CLOUDINARY_CLOUD_NAME to enable")
	}

	var tmdbClient *tmdb.Client
	if cfg.TMDb.APIKey != "" {
		tmdbClient = tmdb.New(cfg.TMDb.APIKey, cfg.TMDb.BaseURL)
	} else {
		log.Warn("catalog lookups disabled: set TMDB_API_KEY to enable")
	}

	engine := router.Setup(cfg, db, cloud, tmdbClient)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Infof("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}
	log.Info("server stopped")
}
