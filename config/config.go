package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ecopulse/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	ServiceToken   string
	AllowedOrigins []string
	Timezone       string

	RedisURL            string
	LeaderboardCacheTTL time.Duration
	LeaderboardFiller   bool

	SyncServiceURL   string
	SyncServiceToken string // sent as X-Service-Token to the sync source
	SyncInterval     time.Duration

	R2 utils.R2Config
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	return Config{
		Port:           getenv("PORT", "5200"),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		ServiceToken:   getenv("ECO_SERVICE_TOKEN", ""),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		Timezone:       getenv("ECO_TIMEZONE", "Local"),

		RedisURL:            getenv("REDIS_URL", ""),
		LeaderboardCacheTTL: getenvDuration("LEADERBOARD_CACHE_TTL", 30*time.Second),
		LeaderboardFiller:   getenvBool("LEADERBOARD_FILLER", true),

		SyncServiceURL:   getenv("SYNC_SERVICE_URL", ""),
		SyncServiceToken: getenv("SYNC_SERVICE_TOKEN", ""),
		SyncInterval:     getenvDuration("SYNC_INTERVAL", time.Minute),

		R2: utils.R2Config{
			AccountID:       getenv("CLOUDFLARE_ACCOUNT_ID", ""),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID", ""),
			AccessKeySecret: getenv("R2_ACCESS_KEY_SECRET", ""),
			Bucket:          getenv("R2_BUCKET_NAME", ""),
			CDNBaseURL:      getenv("CDN_BASE_URL", ""),
		},
	}
}

// Location resolves Timezone; "Local" or "" means the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ECO_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RequireDatabase fails when DATABASE_URL is missing.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	return nil
}

// RequireSyncToken fails when the profile sync is enabled without its own
// outgoing token. ECO_SERVICE_TOKEN is never reused for it.
func (c Config) RequireSyncToken() error {
	if c.SyncServiceURL != "" && c.SyncServiceToken == "" {
		return fmt.Errorf("SYNC_SERVICE_TOKEN environment variable not set")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("⚠️  %s=%q is not a duration, using %s", key, v, fallback)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
