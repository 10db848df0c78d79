// Package config collects the environment configuration of the API server.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/faciam-dev/gridbase/internal/logger"
)

// Config holds every environment-driven setting.
type Config struct {
	DatabaseURL   string
	DBName        string
	JWTSecret     string
	SessionTTL    time.Duration
	Origins       []string
	S3Bucket      string
	S3Prefix      string
	AWSRegion     string
	EventsConfig  string
	DisplayPolicy string
	// TrashRetention is how long trashed documents survive before the purge
	// job hard-deletes them.
	TrashRetention time.Duration
	FieldCacheTTL  time.Duration
}

// GetEnv returns the value of the environment variable named by key or def if empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the configuration. JWT_SECRET is the one setting with no usable
// default; the process exits without it.
func Load() Config {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.L.Error("JWT_SECRET environment variable is not set. Application cannot start.")
		os.Exit(1)
	}
	return Config{
		DatabaseURL:    GetEnv("DATABASE_URL", "mongodb://localhost:27017"),
		DBName:         GetEnv("DB_NAME", "gridbase"),
		JWTSecret:      secret,
		SessionTTL:     durationEnv("SESSION_TTL", 24*time.Hour),
		Origins:        splitOrigins(GetEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Prefix:       GetEnv("S3_PREFIX", "uploads"),
		AWSRegion:      GetEnv("AWS_REGION", "us-east-1"),
		EventsConfig:   os.Getenv("GB_EVENTS_CONFIG"),
		DisplayPolicy:  os.Getenv("DISPLAY_POLICY"),
		TrashRetention: 24 * time.Hour * time.Duration(intEnv("TRASH_RETENTION_DAYS", 30)),
		FieldCacheTTL:  durationEnv("FIELD_CACHE_TTL", time.Minute),
	}
}

func splitOrigins(allowed string) []string {
	origins := strings.Split(allowed, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.L.Warn("invalid integer env, using default", "key", key, "value", v)
		return def
	}
	return n
}

func durationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.L.Warn("invalid duration env, using default", "key", key, "value", v)
		return def
	}
	return d
}
