package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	AppEnv       string
	IsStaging    bool
	IsProduction bool

	JWTSecret     string
	TokenTTLHours int
	Port          string

	// DBDriver is one of sqlite, mysql, postgres.
	DBDriver    string
	DatabaseDSN string
	SQLitePath  string

	UploadDir string
	RedisURL  string

	RateLimitPerSecond float64
	RateLimitBurst     int
	CORSOrigins        []string
)

// loadAppEnv only reads .env outside production.
func loadAppEnv() {
	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "production" {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "err", err)
	}
}

// Load reads configuration from the environment. Binaries call it once
// at startup; it returns an error instead of exiting so callers decide
// how to fail.
func Load() error {
	loadAppEnv()

	AppEnv = os.Getenv("APP_ENV")
	if AppEnv == "" {
		AppEnv = "staging"
	}
	if !slices.Contains([]string{"staging", "production"}, AppEnv) {
		return fmt.Errorf("environment variable APP_ENV must be 'staging' or 'production', got %q", AppEnv)
	}
	IsStaging = AppEnv == "staging"
	IsProduction = AppEnv == "production"

	JWTSecret = os.Getenv("JWT_SECRET_KEY")
	if JWTSecret == "" {
		if IsProduction {
			return fmt.Errorf("JWT_SECRET_KEY must be set in production")
		}
		JWTSecret = "staging-only-secret"
	}
	TokenTTLHours = atoiOr(os.Getenv("TOKEN_TTL_HOURS"), 24)

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "5000"
	}

	DBDriver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if DBDriver == "" {
		DBDriver = "sqlite"
	}
	DatabaseDSN = os.Getenv("DATABASE_DSN")
	SQLitePath = os.Getenv("SQLITE_PATH")
	if SQLitePath == "" {
		SQLitePath = "chat.db"
	}

	UploadDir = os.Getenv("UPLOAD_DIR")
	if UploadDir == "" {
		UploadDir = "./uploads"
	}
	RedisURL = os.Getenv("REDIS_URL")

	RateLimitPerSecond = floatOr(os.Getenv("RATE_LIMIT_PER_SECOND"), 2)
	RateLimitBurst = atoiOr(os.Getenv("RATE_LIMIT_BURST"), 10)

	CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))
	if len(CORSOrigins) == 0 {
		CORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"}
	}

	slog.Info("config loaded",
		"app_env", AppEnv,
		"db_driver", DBDriver,
		"upload_dir", UploadDir,
		"redis", RedisURL != "",
		"rate_limit", RateLimitPerSecond,
		"rate_burst", RateLimitBurst,
		"token_ttl_hours", TokenTTLHours,
	)
	return nil
}

// DSN returns the connection string for the configured driver. SQLite
// falls back to SQLitePath with a busy timeout so concurrent writers
// wait instead of failing.
func DSN() string {
	if DatabaseDSN != "" {
		return DatabaseDSN
	}
	if DBDriver == "sqlite" {
		return SQLitePath + "?_busy_timeout=5000&_journal_mode=WAL"
	}
	return ""
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func floatOr(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
