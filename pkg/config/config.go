package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is used only when ALLOW_INSECURE_JWT_SECRET is set and JWT_SECRET is empty.
const DevJWTSecret = "dev-secret-change"

// ErrMissingJWTSecret is returned by Load when no signing secret is configured
// and the insecure fallback was not explicitly allowed.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set (set ALLOW_INSECURE_JWT_SECRET=true to use a development secret)")

type Config struct {
	Port        string
	DatabaseURL string
	Env         string

	DBMaxConns        int
	DBMinConns        int
	DBMaxConnLifetime time.Duration
	ReadyTimeout      time.Duration

	JWTSecret string
	JWTIssuer string
	// InsecureJWTSecret reports that DevJWTSecret is in use.
	InsecureJWTSecret bool

	LogLevel  string
	LogFormat string

	ImportMaxBytes int64

	ArchiveDir       string
	ArchiveBucket    string
	ArchivePrefix    string
	ArchiveEndpoint  string
	ArchiveRegion    string
	ArchiveAccessKey string
	ArchiveSecretKey string

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Production reports whether the service runs with APP_ENV=production.
func (c Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads environment variables, optionally from a .env file if present.
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Env:               getEnv("APP_ENV", "development"),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 0),
		DBMaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour),
		ReadyTimeout:      getEnvDuration("READY_TIMEOUT", 2*time.Second),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTIssuer:         getEnv("JWT_ISSUER", "useradmin"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		ImportMaxBytes:    int64(getEnvInt("IMPORT_MAX_BYTES", 10<<20)),
		ArchiveDir:        os.Getenv("ARCHIVE_DIR"),
		ArchiveBucket:     os.Getenv("ARCHIVE_S3_BUCKET"),
		ArchivePrefix:     getEnv("ARCHIVE_S3_PREFIX", "imports/"),
		ArchiveEndpoint:   os.Getenv("ARCHIVE_S3_ENDPOINT"),
		ArchiveRegion:     getEnv("ARCHIVE_S3_REGION", "us-east-1"),
		ArchiveAccessKey:  os.Getenv("ARCHIVE_S3_ACCESS_KEY"),
		ArchiveSecretKey:  os.Getenv("ARCHIVE_S3_SECRET_KEY"),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
	if cfg.JWTSecret == "" {
		if !getEnvBool("ALLOW_INSECURE_JWT_SECRET", false) {
			return Config{}, ErrMissingJWTSecret
		}
		cfg.JWTSecret = DevJWTSecret
		cfg.InsecureJWTSecret = true
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
