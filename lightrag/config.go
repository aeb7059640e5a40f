package lightrag

import (
	"net"
	"net/http"
	"time"
)

// Config параметры клиента. Передается при создании, переменные окружения клиент не читает.
type Config struct {
	BaseURL string
	APIKey  string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	PoolTimeout    time.Duration

	// Retries число повторов после первой попытки
	Retries int
	// Backoff основание экспоненты: задержка перед повтором n равна BaseDelay * Backoff^n
	Backoff   float64
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// RatePerSecond ограничение запросов в секунду, 0 без ограничения
	RatePerSecond float64
	// CacheTTL время жизни кэша ответов, 0 отключает кэш
	CacheTTL time.Duration
}

// DefaultConfig возвращает параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:9621",
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    180 * time.Second,
		WriteTimeout:   180 * time.Second,
		PoolTimeout:    60 * time.Second,
		Retries:        0,
		Backoff:        1.5,
		BaseDelay:      time.Second,
		MaxDelay:       30 * time.Second,
	}
}

// withDefaults заполняет нулевые поля значениями по умолчанию
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.PoolTimeout <= 0 {
		c.PoolTimeout = d.PoolTimeout
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Backoff <= 0 {
		c.Backoff = d.Backoff
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = d.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	return c
}

// newHTTPClient раскладывает таймауты по уровням транспорта.
// Общий таймаут покрывает соединение, отправку тела и ожидание ответа.
func newHTTPClient(c Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   c.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   c.ConnectTimeout,
		ResponseHeaderTimeout: c.ReadTimeout,
		ExpectContinueTimeout: time.Second,
		IdleConnTimeout:       c.PoolTimeout,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       20,
	}
	return &http.Client{
		Timeout:   c.ConnectTimeout + c.WriteTimeout + c.ReadTimeout,
		Transport: transport,
	}
}
