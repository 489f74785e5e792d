package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration read from the environment.
type Config struct {
	App      AppConfig
	Mongo    MongoConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Mail     MailConfig
	Auth     AuthConfig
	Sweep    SweepConfig
}

type AppConfig struct {
	Env            string `validate:"required"`
	Port           string `validate:"required,numeric"`
	LogLevel       string
	MaxUploadBytes int64 `validate:"gt=0"`
	CacheTTL       time.Duration
}

type MongoConfig struct {
	URI string
	DB  string `validate:"required"`
}

// StorageConfig selects the record store and blob store backends.
type StorageConfig struct {
	RecordBackend      string `validate:"oneof=mongo memory"`
	BlobBackend        string `validate:"oneof=gridfs gcs memory"`
	GCSBucket          string `validate:"required_if=BlobBackend gcs"`
	GCSCredentialsFile string
}

type PostgresConfig struct {
	URI string
}

type RedisConfig struct {
	Addr string
}

// MailConfig holds the notification dispatcher settings. Password has no
// default; the mailer reports itself unconfigured until it is set.
type MailConfig struct {
	Provider          string `validate:"oneof=smtp mailjet"`
	Sender            string `validate:"required,email"`
	SenderName        string
	Password          string
	SMTPHost          string
	SMTPPort          int `validate:"gt=0"`
	MailjetPublicKey  string
	MailjetPrivateKey string
}

type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	StaffUsername     string
	StaffPasswordHash string
}

type SweepConfig struct {
	Schedule string
	Grace    time.Duration
}

var validate = validator.New()

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds and validates a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:            getEnv("APP_ENV", "development"),
			Port:           getEnv("PORT", "8080"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
			CacheTTL:       time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		},
		Mongo: MongoConfig{
			URI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
			DB:  getEnv("MONGO_DB", "volunteerDB"),
		},
		Storage: StorageConfig{
			RecordBackend:      strings.ToLower(getEnv("STORE_BACKEND", "mongo")),
			BlobBackend:        strings.ToLower(getEnv("BLOB_BACKEND", "gridfs")),
			GCSBucket:          os.Getenv("GCS_BUCKET"),
			GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
		},
		Postgres: PostgresConfig{
			URI: os.Getenv("POSTGRES_URI"),
		},
		Redis: RedisConfig{
			Addr: firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		},
		Mail: MailConfig{
			Provider:          strings.ToLower(getEnv("MAIL_PROVIDER", "smtp")),
			Sender:            getEnv("MAIL_SENDER", "noreply@example.org"),
			SenderName:        getEnv("MAIL_SENDER_NAME", "Volunteer Team"),
			Password:          os.Getenv("MAIL_PASSWORD"),
			SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:          getEnvAsInt("SMTP_PORT", 587),
			MailjetPublicKey:  os.Getenv("MAILJET_PUBLIC_KEY"),
			MailjetPrivateKey: os.Getenv("MAILJET_PRIVATE_KEY"),
		},
		Auth: AuthConfig{
			JWTSecret:         os.Getenv("AUTH_JWT_SECRET"),
			TokenTTL:          time.Duration(getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 60)) * time.Minute,
			StaffUsername:     getEnv("STAFF_USERNAME", "staff"),
			StaffPasswordHash: os.Getenv("STAFF_PASSWORD_HASH"),
		},
		Sweep: SweepConfig{
			Schedule: lookupEnv("SWEEP_SCHEDULE", "@daily"),
			Grace:    time.Duration(getEnvAsInt("SWEEP_GRACE_MINUTES", 60)) * time.Minute,
		},
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// AuthEnabled reports whether staff endpoints are guarded by JWT auth.
func (c *Config) AuthEnabled() bool {
	return strings.TrimSpace(c.Auth.JWTSecret) != ""
}

func (a AppConfig) Addr() string {
	return ":" + a.Port
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// lookupEnv distinguishes an unset variable from one set to "".
func lookupEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if val := strings.TrimSpace(os.Getenv(k)); val != "" {
			return val
		}
	}
	return ""
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
