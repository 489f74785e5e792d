package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "APP_ENV", "MONGO_DB", "STORE_BACKEND", "BLOB_BACKEND", "GCS_BUCKET",
		"MAIL_PROVIDER", "MAIL_SENDER", "MAIL_PASSWORD", "SMTP_HOST", "SMTP_PORT",
		"AUTH_JWT_SECRET", "CACHE_TTL_SECONDS", "SWEEP_SCHEDULE", "SWEEP_GRACE_MINUTES",
		"REDIS_ADDR", "REDIS_URI", "REDIS_URL", "MAX_UPLOAD_BYTES",
	} {
		unsetenv(t, k)
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Addr())
	assert.Equal(t, "volunteerDB", cfg.Mongo.DB)
	assert.Equal(t, "mongo", cfg.Storage.RecordBackend)
	assert.Equal(t, "gridfs", cfg.Storage.BlobBackend)
	assert.Equal(t, "smtp", cfg.Mail.Provider)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.SMTPHost)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Empty(t, cfg.Mail.Password)
	assert.Equal(t, 30*time.Second, cfg.App.CacheTTL)
	assert.EqualValues(t, 10<<20, cfg.App.MaxUploadBytes)
	assert.Equal(t, "@daily", cfg.Sweep.Schedule)
	assert.Equal(t, time.Hour, cfg.Sweep.Grace)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.AuthEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("BLOB_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "volunteer-cvs")
	t.Setenv("MAIL_PROVIDER", "mailjet")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URL", "localhost:6379")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("SWEEP_SCHEDULE", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.App.Addr())
	assert.Equal(t, "memory", cfg.Storage.RecordBackend)
	assert.Equal(t, "gcs", cfg.Storage.BlobBackend)
	assert.Equal(t, "volunteer-cvs", cfg.Storage.GCSBucket)
	assert.Equal(t, "mailjet", cfg.Mail.Provider)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, 5*time.Second, cfg.App.CacheTTL)
	// set but empty disables the sweeper
	assert.Empty(t, cfg.Sweep.Schedule)
}

func TestFromEnvValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "http"}},
		{"unknown record backend", map[string]string{"STORE_BACKEND": "sqlite"}},
		{"unknown blob backend", map[string]string{"BLOB_BACKEND": "s3"}},
		{"gcs without bucket", map[string]string{"BLOB_BACKEND": "gcs", "GCS_BUCKET": ""}},
		{"unknown mail provider", map[string]string{"MAIL_PROVIDER": "sendgrid"}},
		{"bad sender", map[string]string{"MAIL_SENDER": "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
