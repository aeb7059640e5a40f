package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                   "8000",
		LightRAGBaseURL:        "http://localhost:9621",
		LightRAGConnectTimeout: 10 * time.Second,
		LightRAGReadTimeout:    180 * time.Second,
		LightRAGWriteTimeout:   180 * time.Second,
		LightRAGPoolTimeout:    60 * time.Second,
		LightRAGRetryBackoff:   1.5,
		HomeJurisdiction:       "KZ",
		PromptLanguage:         "Russian",
		ConfidenceThreshold:    0.8,
		JournalDatabasePath:    "screening.db",
		MaxOpenConns:           25,
		MaxIdleConns:           5,
		ConnMaxLifetime:        5 * time.Minute,
		CallbackTimeout:        10 * time.Second,
		LogLevel:               "INFO",
		LogFormat:              "json",
	}
}

func TestConfigLogLevelValidation(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		wantError bool
	}{
		{"Valid DEBUG", "DEBUG", false},
		{"Valid INFO", "INFO", false},
		{"Valid WARN", "WARN", false},
		{"Valid ERROR", "ERROR", false},
		{"Valid lowercase debug", "debug", false},
		{"Invalid value", "INVALID", true},
		{"Empty string", "", false},
		{"Mixed case", "DeBuG", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.logLevel

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "70000"
	cfg.LightRAGBaseURL = "localhost:9621"
	cfg.LightRAGReadTimeout = 0
	cfg.HomeJurisdiction = "KAZ"
	cfg.ConfidenceThreshold = 1.5
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "port must be between")
	assert.Contains(t, msg, "invalid lightrag base url")
	assert.Contains(t, msg, "lightrag read timeout must be positive")
	assert.Contains(t, msg, "home jurisdiction")
	assert.Contains(t, msg, "confidence threshold")
	assert.Contains(t, msg, "invalid log format")
}

func TestValidate_JournalDisabledSkipsPoolChecks(t *testing.T) {
	cfg := validConfig()
	cfg.JournalDatabasePath = ""
	cfg.MaxOpenConns = 0
	cfg.MaxIdleConns = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "LIGHTRAG_BASE_URL", "LIGHTRAG_READ_TIMEOUT", "TIMEOUT_SECONDS",
		"HOME_JURISDICTION", "PROMPT_LANGUAGE", "CONFIDENCE_THRESHOLD", "LOG_LEVEL",
		"LIGHTRAG_RETRIES", "LIGHTRAG_RETRY_BACKOFF",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://localhost:9621", cfg.LightRAGBaseURL)
	assert.Equal(t, 180*time.Second, cfg.LightRAGReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.LightRAGConnectTimeout)
	assert.Equal(t, 0, cfg.LightRAGRetries)
	assert.Equal(t, 1.5, cfg.LightRAGRetryBackoff)
	assert.Equal(t, "KZ", cfg.HomeJurisdiction)
	assert.Equal(t, "Russian", cfg.PromptLanguage)
	assert.Equal(t, 0.8, cfg.ConfidenceThreshold)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("LIGHTRAG_BASE_URL", "https://rag.internal:9621")
	t.Setenv("LIGHTRAG_API_KEY", "secret")
	t.Setenv("LIGHTRAG_READ_TIMEOUT", "")
	t.Setenv("TIMEOUT_SECONDS", "90")
	t.Setenv("LIGHTRAG_CONNECT_TIMEOUT", "2s")
	t.Setenv("LIGHTRAG_RETRIES", "3")
	t.Setenv("LIGHTRAG_RATE_LIMIT", "5")
	t.Setenv("HOME_JURISDICTION", "uz")
	t.Setenv("IGNORE_CONFIDENCE", "true")
	t.Setenv("JOURNAL_DATABASE_PATH", "")
	t.Setenv("CALLBACK_TIMEOUT", "1.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.LightRAGReadTimeout)
	assert.Equal(t, 2*time.Second, cfg.LightRAGConnectTimeout)
	assert.Equal(t, "UZ", cfg.HomeJurisdiction)
	assert.True(t, cfg.IgnoreConfidence)
	assert.Empty(t, cfg.JournalDatabasePath)
	assert.Equal(t, 1500*time.Millisecond, cfg.CallbackTimeout)

	rag := cfg.LightRAG()
	assert.Equal(t, "https://rag.internal:9621", rag.BaseURL)
	assert.Equal(t, "secret", rag.APIKey)
	assert.Equal(t, 3, rag.Retries)
	assert.Equal(t, 5.0, rag.RatePerSecond)
	assert.Equal(t, time.Second, rag.BaseDelay)

	opts := cfg.PayloadOptions(nil)
	assert.True(t, opts.IgnoreConfidence)
	assert.Equal(t, 0.8, opts.Threshold)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("SERVER_PORT", "abc")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "WARN"

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "request_id", "r1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"request_id":"r1"`)

	cfg.LogFormat = "text"
	buf.Reset()
	cfg.NewLogger(&buf).Error("boom")
	assert.Contains(t, buf.String(), "msg=boom")

	assert.Equal(t, slog.LevelDebug, (&Config{LogLevel: "debug"}).SlogLevel())
	assert.Equal(t, slog.LevelInfo, (&Config{}).SlogLevel())
}
