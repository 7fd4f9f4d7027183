package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var configEnvKeys = []string{
	"DATABASE_URI", "AUTH_SECRET", "PUBLIC_URL", "BLOB_MAX_MB", "AUTH_RATE_PER_MIN",
	"BASE_URL", "ENABLE_HTTPS", "LOG_LEVEL", "HTTP_TIMEOUT", "CLIENT_DB_PATH", "TOKEN_FILE",
}

// newTestConfig очищает окружение, выставляет env и заново регистрирует флаги:
// NewConfig вешает их на глобальный FlagSet.
func newTestConfig(t *testing.T, env map[string]string) *Config {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(os.Stderr)
	return NewConfig()
}

func TestNewConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := newTestConfig(t, nil)

	assert.Equal(t, "dev-secret-key", cfg.AuthSecret)
	assert.Equal(t, "webcarros.db", cfg.DatabaseDSN)
	assert.Equal(t, 50, cfg.BlobMaxSizeMB)
	assert.Equal(t, 30, cfg.AuthRatePerMin)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "localhost:8081", cfg.BaseURL)
	assert.Equal(t, "http://localhost:8081", cfg.ServerURL)
	assert.Equal(t, cfg.ServerURL, cfg.PublicURL, "public url falls back to server url")
	assert.Equal(t, filepath.Join(dir, "WebCarros", "auth_token"), cfg.TokenFile)
	assert.Equal(t, filepath.Join(dir, "WebCarros", "users"), cfg.ClientDBPath)
	assert.False(t, cfg.Version)
}

func TestNewConfig_FromEnv(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{
		"BASE_URL":          "example.com:443",
		"ENABLE_HTTPS":      "true",
		"AUTH_SECRET":       "top",
		"BLOB_MAX_MB":       "10",
		"AUTH_RATE_PER_MIN": "5",
		"PUBLIC_URL":        "https://cdn.example.com/",
		"HTTP_TIMEOUT":      "5s",
		"LOG_LEVEL":         "debug",
		"TOKEN_FILE":        "/tmp/wc/token",
	})

	assert.Equal(t, "example.com:443", cfg.BaseURL)
	assert.Equal(t, "https://example.com:443", cfg.ServerURL)
	assert.Equal(t, "top", cfg.AuthSecret)
	assert.Equal(t, 10, cfg.BlobMaxSizeMB)
	assert.Equal(t, 5, cfg.AuthRatePerMin)
	assert.Equal(t, "https://cdn.example.com", cfg.PublicURL, "trailing slash trimmed")
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/wc/token", cfg.TokenFile)
}

func TestNewConfig_InvalidValuesFallback(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		// адрес со схемой — невалидный BASE_URL
		{"scheme in base url", map[string]string{"BASE_URL": "http://bad:8080"}},
		{"path in base url", map[string]string{"BASE_URL": "bad:8080/api"}},
		{"no port", map[string]string{"BASE_URL": "bad"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newTestConfig(t, tc.env)
			assert.Equal(t, "localhost:8081", cfg.BaseURL)
			assert.Equal(t, "http://localhost:8081", cfg.ServerURL)
		})
	}

	cfg := newTestConfig(t, map[string]string{"BLOB_MAX_MB": "-1", "AUTH_RATE_PER_MIN": "0"})
	assert.Equal(t, 50, cfg.BlobMaxSizeMB)
	assert.Equal(t, 30, cfg.AuthRatePerMin)
}
