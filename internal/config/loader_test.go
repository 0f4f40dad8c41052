package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/veracity/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))

	require.NoError(t, err)
	assert.Equal(t, "veracity", cfg.Service.Name)
	assert.Equal(t, 8090, cfg.Service.Port)
	assert.Equal(t, "http://ml-service:8000", cfg.ML.URL)
	assert.Equal(t, []string{"reddit", "google_news"}, cfg.Sources.Enabled)
	assert.Equal(t, 5, cfg.Sources.PerSourceLimit)
	assert.Equal(t, 8*time.Second, cfg.Sources.RequestTimeout)
	assert.Equal(t, "news", cfg.Sources.Reddit.Subreddit)
	assert.Equal(t, "https://news.google.com/rss/search", cfg.Sources.GoogleNews.FeedURL)
	assert.Equal(t, 15*time.Second, cfg.Aggregation.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.ClassificationCacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_YAMLFile(t *testing.T) {
	content := `
service:
  port: 9000
  debug: true
ml:
  url: http://localhost:8000
  timeout: 3s
sources:
  enabled: [google_news]
  per_source_limit: 10
aggregation:
  timeout: 5s
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Service.Port)
	assert.True(t, cfg.Service.Debug)
	assert.Equal(t, "http://localhost:8000", cfg.ML.URL)
	assert.Equal(t, 3*time.Second, cfg.ML.Timeout)
	assert.Equal(t, []string{"google_news"}, cfg.Sources.Enabled)
	assert.Equal(t, 10, cfg.Sources.PerSourceLimit)
	assert.Equal(t, 5*time.Second, cfg.Aggregation.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unspecified fields still get defaults.
	assert.Equal(t, "veracity", cfg.Service.Name)
	assert.Equal(t, "news", cfg.Sources.Reddit.Subreddit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VERACITY_PORT", "9100")
	t.Setenv("ML_SERVICE_URL", "http://ml:9999")
	t.Setenv("SOURCES_ENABLED", "twitter,reddit")
	t.Setenv("REDDIT_CLIENT_ID", "env-id")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Service.Port)
	assert.Equal(t, "http://ml:9999", cfg.ML.URL)
	assert.Equal(t, []string{"twitter", "reddit"}, cfg.Sources.Enabled)
	assert.Equal(t, "env-id", cfg.Sources.Reddit.ClientID)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	content := `
service:
  port: 9000
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("VERACITY_PORT", "9200")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Service.Port)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("service: [not a map"), 0o600))

	_, err := config.Load(path)

	assert.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/veracity/config.yml")
	assert.Equal(t, "/etc/veracity/config.yml", config.GetConfigPath("config.yml"))
}
