// Package lightrag клиент сервиса запросов к графу знаний (POST {BASE}/query).
package lightrag

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"compliance/reconcile"
)

// ErrUnavailable сервис не ответил успешно после всех попыток
var ErrUnavailable = errors.New("lightrag service unavailable")

// StatusError неуспешный HTTP статус от сервиса
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// retryable 429 и 5xx повторяются, остальные 4xx нет
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// QueryRequest тело запроса POST /query
type QueryRequest struct {
	Query             string `json:"query"`
	Mode              string `json:"mode"`
	ResponseType      string `json:"response_type"`
	KGTopK            int    `json:"kg_top_k"`
	ChunkTopK         int    `json:"chunk_top_k"`
	EnableRerank      bool   `json:"enable_rerank"`
	MaxEntityTokens   int    `json:"max_entity_tokens"`
	MaxRelationTokens int    `json:"max_relation_tokens"`
	MaxTotalTokens    int    `json:"max_total_tokens"`
	OnlyNeedContext   bool   `json:"only_need_context"`
	Stream            bool   `json:"stream"`
	HistoryTurns      int    `json:"history_turns"`
}

// NewQueryRequest возвращает запрос с фиксированными параметрами поиска
func NewQueryRequest(query string) QueryRequest {
	return QueryRequest{
		Query:             query,
		Mode:              "mix",
		ResponseType:      "JSON",
		KGTopK:            10,
		ChunkTopK:         8,
		EnableRerank:      false,
		MaxEntityTokens:   2000,
		MaxRelationTokens: 2500,
		MaxTotalTokens:    6000,
		OnlyNeedContext:   false,
		Stream:            false,
		HistoryTurns:      0,
	}
}

// maxErrorBody сколько байт тела ошибки попадает в сообщение
const maxErrorBody = 512

// Client клиент сервиса. Безопасен для конкурентного использования.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
	logger     *slog.Logger
}

// NewClient создает клиента
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:        cfg,
		httpClient: newHTTPClient(cfg),
		logger:     logger,
	}
	if cfg.RatePerSecond > 0 {
		burst := int(math.Ceil(cfg.RatePerSecond))
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// Query отправляет запрос и возвращает ответ сервиса.
// Сетевые ошибки, 429 и 5xx повторяются до cfg.Retries раз.
// После исчерпания попыток возвращается ошибка, оборачивающая ErrUnavailable.
func (c *Client) Query(ctx context.Context, prompt string) (reconcile.Reply, error) {
	requestID := RequestIDFromContext(ctx)
	key := cacheKey(prompt)

	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			c.logger.Debug("LightRAG reply served from cache", "request_id", requestID)
			return cached.(reconcile.Reply), nil
		}
	}

	body, err := json.Marshal(NewQueryRequest(prompt))
	if err != nil {
		return reconcile.Reply{}, fmt.Errorf("failed to encode query: %w", err)
	}

	var lastErr error
	attempts := c.cfg.Retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay(attempt - 1)
			c.logger.Info("Retrying LightRAG query",
				"request_id", requestID,
				"attempt", attempt+1,
				"max_attempts", attempts,
				"delay", delay.String(),
				"error", lastErr)
			select {
			case <-ctx.Done():
				return reconcile.Reply{}, fmt.Errorf("%w: context cancelled: %w", ErrUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return reconcile.Reply{}, fmt.Errorf("%w: rate limiter: %w", ErrUnavailable, err)
			}
		}

		start := time.Now()
		reply, err := c.doQuery(ctx, requestID, body)
		if err == nil {
			c.logger.Info("LightRAG query completed",
				"request_id", requestID,
				"attempt", attempt+1,
				"duration_ms", time.Since(start).Milliseconds())
			if c.cache != nil {
				c.cache.SetDefault(key, reply)
			}
			return reply, nil
		}

		lastErr = err
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			c.logger.Warn("LightRAG rejected query, not retrying",
				"request_id", requestID,
				"status", statusErr.StatusCode)
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	c.logger.Error("LightRAG query failed",
		"request_id", requestID,
		"attempts", attempts,
		"error", lastErr)
	return reconcile.Reply{}, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

func (c *Client) doQuery(ctx context.Context, requestID string, body []byte) (reconcile.Reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return reconcile.Reply{}, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, requestID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return reconcile.Reply{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return reconcile.Reply{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		preview := string(data)
		if len(preview) > maxErrorBody {
			preview = preview[:maxErrorBody] + "..."
		}
		return reconcile.Reply{}, &StatusError{StatusCode: resp.StatusCode, Body: preview}
	}

	return decodeReply(data), nil
}

// decodeReply: JSON строка, объект с "response" или произвольный текст
func decodeReply(data []byte) reconcile.Reply {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return reconcile.TextReply(string(data))
	}
	return reconcile.ReplyFromAny(decoded)
}

// Health проверяет доступность сервиса через GET {BASE}/health
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, RequestIDFromContext(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %w", ErrUnavailable, &StatusError{StatusCode: resp.StatusCode})
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	req.Header.Set("Accept", "application/json")
}

// retryDelay задержка перед повтором номер n (с нуля): BaseDelay * Backoff^n, не больше MaxDelay
func (c *Client) retryDelay(n int) time.Duration {
	delay := time.Duration(float64(c.cfg.BaseDelay) * math.Pow(c.cfg.Backoff, float64(n)))
	if delay > c.cfg.MaxDelay || delay < 0 {
		return c.cfg.MaxDelay
	}
	return delay
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
