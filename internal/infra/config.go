package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	SupabaseJWTSecret string
	SupabaseJWKSURL   string
	RedisURL          string
	GeoIPDBPath       string
	DefaultLocale     string
	CORSOrigins       []string

	StorageDriver     string
	StoragePath       string
	StorageBaseURL    string
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UseSSL          bool
	UploadMaxBytes    int64

	GeminiAPIKey string
	GeminiModel  string

	ExpoPushURL     string
	ExpoAccessToken string
	EmailAPIURL     string
	EmailAPIKey     string
	EmailFrom       string

	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxPollInterval time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              port,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		SupabaseJWKSURL:   os.Getenv("SUPABASE_JWKS_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "en"),
		CORSOrigins:       splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", "filesystem")),
		StoragePath:       getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          getEnv("S3_REGION", "ap-southeast-1"),
		S3Bucket:          getEnv("S3_BUCKET", "donation-screenshots"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3UseSSL:          getEnvBool("S3_USE_SSL", true),
		UploadMaxBytes:    int64(getEnvInt("UPLOAD_MAX_BYTES", 5<<20)),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		ExpoPushURL:     getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		ExpoAccessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
		EmailAPIURL:     getEnv("EMAIL_API_URL", "https://api.resend.com/emails"),
		EmailAPIKey:     os.Getenv("EMAIL_API_KEY"),
		EmailFrom:       getEnv("EMAIL_FROM", "PawsConnect <no-reply@pawsconnect.app>"),

		OutboxBatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 20),
		OutboxMaxAttempts:  getEnvInt("OUTBOX_MAX_ATTEMPTS", 8),
		OutboxPollInterval: time.Second * time.Duration(getEnvInt("OUTBOX_POLL_SECONDS", 2)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.SupabaseJWTSecret == "" && cfg.SupabaseJWKSURL == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET or SUPABASE_JWKS_URL is required")
	}

	switch cfg.StorageDriver {
	case "filesystem":
	case "s3":
		if cfg.S3Endpoint == "" {
			return nil, fmt.Errorf("S3_ENDPOINT is required when STORAGE_DRIVER=s3")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
