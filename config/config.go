package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cron       CronConfig
	TMDb       TMDbConfig
	Trakt      TraktConfig
	Cloudinary CloudinaryConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// CronConfig guards the HTTP-triggered jobs. An empty Secret disables the
// bearer check entirely; only acceptable for local/dev deployments.
type CronConfig struct {
	Secret          string
	AlertWindowDays int
}

type TMDbConfig struct {
	APIKey  string
	BaseURL string
}

type TraktConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

func Load() *Config {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "flicklog:flicklog@tcp(localhost:3306)/flicklog?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "flicklog",
		},
		Cron: CronConfig{
			Secret:          getEnv("CRON_SECRET", ""),
			AlertWindowDays: getEnvInt("ALERT_WINDOW_DAYS", 7),
		},
		TMDb: TMDbConfig{
			APIKey:  getEnv("TMDB_API_KEY", ""),
			BaseURL: getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		},
		Trakt: TraktConfig{
			ClientID:     getEnv("TRAKT_CLIENT_ID", ""),
			ClientSecret: getEnv("TRAKT_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("TRAKT_REDIRECT_URL", ""),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
