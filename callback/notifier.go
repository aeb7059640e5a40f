// Package callback доставляет итоговое решение на адрес, указанный клиентом.
// Доставка выполняется в фоне: ее результат не влияет на ответ клиенту и не повторяется.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"compliance/reconcile"
)

// DefaultTimeout таймаут одной доставки
const DefaultTimeout = 10 * time.Second

// Payload тело запроса на callback адрес
type Payload struct {
	RequestID string           `json:"request_id"`
	Verdict   string           `json:"verdict"`
	RiskLevel string           `json:"risk_level"`
	Checks    reconcile.Checks `json:"checks"`
}

// Notifier отправляет решения на callback адреса
type Notifier struct {
	client    *http.Client
	timeout   time.Duration
	logger    *slog.Logger
	onFailure func(requestID string, err error)
	wg        sync.WaitGroup
}

// Option настраивает Notifier
type Option func(*Notifier)

// WithHTTPClient задает HTTP клиента
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) { n.client = client }
}

// WithFailureHook вызывается при каждой неудачной доставке
func WithFailureHook(fn func(requestID string, err error)) Option {
	return func(n *Notifier) { n.onFailure = fn }
}

// NewNotifier создает Notifier
func NewNotifier(timeout time.Duration, logger *slog.Logger, opts ...Option) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	n := &Notifier{
		client:  &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Deliver запускает фоновую доставку и сразу возвращает управление.
// Ошибки только логируются. Адрес не http(s) отклоняется без запуска доставки.
func (n *Notifier) Deliver(requestID, callbackURL string, v reconcile.Verdict) {
	if err := ValidateURL(callbackURL); err != nil {
		n.fail(requestID, err)
		return
	}

	body, err := json.Marshal(Payload{
		RequestID: requestID,
		Verdict:   v.Verdict,
		RiskLevel: v.RiskLevel,
		Checks:    v.Checks,
	})
	if err != nil {
		n.fail(requestID, fmt.Errorf("failed to encode callback: %w", err))
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		// контекст запроса клиента к этому моменту может быть уже отменен
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.post(ctx, requestID, callbackURL, body); err != nil {
			n.fail(requestID, err)
			return
		}
		n.logger.Info("Callback delivered",
			"request_id", requestID,
			"callback_url", callbackURL)
	}()
}

// Wait ждет завершения всех начатых доставок
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) post(ctx context.Context, requestID, callbackURL string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}

func (n *Notifier) fail(requestID string, err error) {
	n.logger.Warn("Callback delivery failed",
		"request_id", requestID,
		"error", err)
	if n.onFailure != nil {
		n.onFailure(requestID, err)
	}
}

// ValidateURL проверяет, что адрес абсолютный http или https
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid callback url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid callback url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("callback url has no host")
	}
	return nil
}
