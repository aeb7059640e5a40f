package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"compliance/callback"
	"compliance/database"
	"compliance/lightrag"
	"compliance/payload"
	"compliance/prompt"
)

// Config конфигурация сервиса
type Config struct {
	// Сервер
	Port string `json:"port"`

	// База знаний LightRAG
	LightRAGBaseURL        string        `json:"lightrag_base_url"`
	LightRAGAPIKey         string        `json:"-"`
	LightRAGConnectTimeout time.Duration `json:"lightrag_connect_timeout"`
	LightRAGReadTimeout    time.Duration `json:"lightrag_read_timeout"`
	LightRAGWriteTimeout   time.Duration `json:"lightrag_write_timeout"`
	LightRAGPoolTimeout    time.Duration `json:"lightrag_pool_timeout"`
	LightRAGRetries        int           `json:"lightrag_retries"`
	LightRAGRetryBackoff   float64       `json:"lightrag_retry_backoff"`
	LightRAGRateLimit      float64       `json:"lightrag_rate_limit"`
	LightRAGCacheTTL       time.Duration `json:"lightrag_cache_ttl"`

	// Построение запроса
	HomeJurisdiction    string  `json:"home_jurisdiction"`
	PromptLanguage      string  `json:"prompt_language"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	IgnoreConfidence    bool    `json:"ignore_confidence"`

	// Журнал проверок; пустой путь отключает журнал
	JournalDatabasePath string        `json:"journal_database_path"`
	MaxOpenConns        int           `json:"max_open_conns"`
	MaxIdleConns        int           `json:"max_idle_conns"`
	ConnMaxLifetime     time.Duration `json:"conn_max_lifetime"`

	// Callback
	CallbackTimeout time.Duration `json:"callback_timeout"`

	// Логирование
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// LoadConfig загружает .env (если есть) и переменные окружения
func LoadConfig() (*Config, error) {
	// отсутствие .env не ошибка
	_ = godotenv.Load()

	config := &Config{
		Port: getEnv("SERVER_PORT", "8000"),

		LightRAGBaseURL:        getEnv("LIGHTRAG_BASE_URL", "http://localhost:9621"),
		LightRAGAPIKey:         os.Getenv("LIGHTRAG_API_KEY"),
		LightRAGConnectTimeout: getEnvDuration("LIGHTRAG_CONNECT_TIMEOUT", 10*time.Second),
		LightRAGReadTimeout:    getEnvDuration("LIGHTRAG_READ_TIMEOUT", getEnvDuration("TIMEOUT_SECONDS", 180*time.Second)),
		LightRAGWriteTimeout:   getEnvDuration("LIGHTRAG_WRITE_TIMEOUT", 180*time.Second),
		LightRAGPoolTimeout:    getEnvDuration("LIGHTRAG_POOL_TIMEOUT", 60*time.Second),
		LightRAGRetries:        getEnvInt("LIGHTRAG_RETRIES", 0),
		LightRAGRetryBackoff:   getEnvFloat("LIGHTRAG_RETRY_BACKOFF", 1.5),
		LightRAGRateLimit:      getEnvFloat("LIGHTRAG_RATE_LIMIT", 0),
		LightRAGCacheTTL:       getEnvDuration("LIGHTRAG_CACHE_TTL", 0),

		HomeJurisdiction:    strings.ToUpper(getEnv("HOME_JURISDICTION", prompt.DefaultHomeJurisdiction)),
		PromptLanguage:      getEnv("PROMPT_LANGUAGE", prompt.DefaultLanguage),
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", payload.DefaultThreshold),
		IgnoreConfidence:    getEnvBool("IGNORE_CONFIDENCE", false),

		JournalDatabasePath: getEnvAllowEmpty("JOURNAL_DATABASE_PATH", "screening.db"),
		MaxOpenConns:        getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:        getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:     getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		CallbackTimeout: getEnvDuration("CALLBACK_TIMEOUT", callback.DefaultTimeout),

		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// LightRAG возвращает настройки клиента базы знаний
func (c *Config) LightRAG() lightrag.Config {
	cfg := lightrag.DefaultConfig()
	cfg.BaseURL = c.LightRAGBaseURL
	cfg.APIKey = c.LightRAGAPIKey
	cfg.ConnectTimeout = c.LightRAGConnectTimeout
	cfg.ReadTimeout = c.LightRAGReadTimeout
	cfg.WriteTimeout = c.LightRAGWriteTimeout
	cfg.PoolTimeout = c.LightRAGPoolTimeout
	cfg.Retries = c.LightRAGRetries
	cfg.Backoff = c.LightRAGRetryBackoff
	cfg.RatePerSecond = c.LightRAGRateLimit
	cfg.CacheTTL = c.LightRAGCacheTTL
	return cfg
}

// PayloadOptions возвращает параметры нормализации входных данных
func (c *Config) PayloadOptions(logger *slog.Logger) payload.Options {
	return payload.Options{
		Threshold:        c.ConfidenceThreshold,
		IgnoreConfidence: c.IgnoreConfidence,
		Logger:           logger,
	}
}

// DBConfig возвращает настройки пула соединений журнала
func (c *Config) DBConfig() database.DBConfig {
	return database.DBConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// SlogLevel переводит LOG_LEVEL в уровень slog
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger создает логгер с форматом и уровнем из конфигурации
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty как getEnv, но явно заданная пустая строка сохраняется
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration принимает "30s", "2m" или число секунд "180"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}
