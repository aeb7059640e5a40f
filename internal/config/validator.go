package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var validLogLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// Validate проверяет конфигурацию и возвращает все найденные проблемы сразу
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	if c.LightRAGBaseURL == "" {
		errors = append(errors, "lightrag base url is required")
	} else if u, err := url.Parse(c.LightRAGBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid lightrag base url: %s", c.LightRAGBaseURL))
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"lightrag connect timeout", c.LightRAGConnectTimeout},
		{"lightrag read timeout", c.LightRAGReadTimeout},
		{"lightrag write timeout", c.LightRAGWriteTimeout},
		{"lightrag pool timeout", c.LightRAGPoolTimeout},
		{"callback timeout", c.CallbackTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive", t.name))
		}
	}

	if c.LightRAGRetries < 0 {
		errors = append(errors, "lightrag retries cannot be negative")
	}
	if c.LightRAGRetryBackoff < 1 {
		errors = append(errors, "lightrag retry backoff must be at least 1")
	}
	if c.LightRAGRateLimit < 0 {
		errors = append(errors, "lightrag rate limit cannot be negative")
	}
	if c.LightRAGCacheTTL < 0 {
		errors = append(errors, "lightrag cache ttl cannot be negative")
	}

	if len(strings.TrimSpace(c.HomeJurisdiction)) != 2 {
		errors = append(errors, fmt.Sprintf("home jurisdiction must be a two-letter country code, got %q", c.HomeJurisdiction))
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		errors = append(errors, fmt.Sprintf("confidence threshold must be between 0 and 1, got %g", c.ConfidenceThreshold))
	}

	if c.JournalDatabasePath != "" {
		if c.MaxOpenConns < 1 {
			errors = append(errors, "max open connections must be at least 1")
		}
		if c.MaxIdleConns < 1 {
			errors = append(errors, "max idle connections must be at least 1")
		}
		if c.MaxIdleConns > c.MaxOpenConns {
			errors = append(errors, "max idle connections cannot be greater than max open connections")
		}
		if c.ConnMaxLifetime < time.Second {
			errors = append(errors, "connection max lifetime must be at least 1 second")
		}
	}

	if c.LogLevel != "" {
		valid := false
		for _, level := range validLogLevels {
			if strings.ToUpper(c.LogLevel) == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "json", "text":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format: %s (valid: json, text)", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}
