package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	DatabaseDSN           string
	JWTSecret             string
	Env                   string
	AccessTokenTTLMinutes int
	RefreshTokenTTLDays   int
	RedisAddr             string
	SMTPAddr              string
	SMTPFrom              string
	UploadMaxBytes        int64
	SearchCacheTTLSeconds int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// Load reads configuration from the environment, with a best-effort .env file
// load so local runs work without exporting anything.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Port:                  getenv("APP_PORT", "8080"),
		DatabaseDSN:           getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=technestia port=5432 sslmode=disable TimeZone=UTC"),
		JWTSecret:             getenv("JWT_SECRET", "dev-secret-change-me"),
		Env:                   getenv("APP_ENV", "dev"),
		AccessTokenTTLMinutes: getenvInt("ACCESS_TOKEN_TTL_MINUTES", 15),
		RefreshTokenTTLDays:   getenvInt("REFRESH_TOKEN_TTL_DAYS", 7),
		RedisAddr:             getenv("REDIS_ADDR", "localhost:6379"),
		SMTPAddr:              getenv("SMTP_ADDR", "localhost:25"),
		SMTPFrom:              getenv("SMTP_FROM", "no-reply@technestia.local"),
		UploadMaxBytes:        int64(getenvInt("UPLOAD_MAX_BYTES", 5*1024*1024)),
		SearchCacheTTLSeconds: getenvInt("SEARCH_CACHE_TTL_SECONDS", 30),
	}
}

// Validate rejects configurations that must never reach a real deployment,
// most importantly the placeholder JWT secret outside dev.
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is empty")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: database dsn is empty")
	}
	if cfg.Env != "dev" && cfg.JWTSecret == "dev-secret-change-me" {
		return errors.New("config: default jwt secret is not allowed outside dev")
	}
	return nil
}
