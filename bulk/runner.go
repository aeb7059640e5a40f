// Package bulk прогоняет архив сделок через сервис проверки и сохраняет отчеты.
package bulk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/encoding/charmap"
)

// InputFileName имя файла сделки в архиве
const InputFileName = "fb_flat.json"

// Config параметры прогона
type Config struct {
	BaseURL        string
	ArchivePath    string
	ResultsPath    string
	Concurrency    int
	Retries        int
	RequestTimeout time.Duration
	BackoffBase    time.Duration
	// XLSX включает отчет в формате Excel рядом со сводкой
	XLSX bool
}

// DefaultConfig параметры по умолчанию
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000",
		ArchivePath:    "../Archive",
		ResultsPath:    "../results",
		Concurrency:    5,
		Retries:        3,
		RequestTimeout: 30 * time.Second,
		BackoffBase:    500 * time.Millisecond,
		XLSX:           true,
	}
}

// Response ответ сервиса на одну сделку
type Response struct {
	OK     bool   `json:"ok"`
	Status int    `json:"status,omitempty"`
	JSON   any    `json:"json"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Record результат обработки одного файла
type Record struct {
	FilePath   string    `json:"file_path"`
	FolderName string    `json:"folder_name"`
	Timestamp  string    `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	InputData  any       `json:"input_data"`
	Response   *Response `json:"response"`
	Error      string    `json:"error,omitempty"`
}

// Success сообщает, что файл прочитан и сервис ответил 2xx
func (r Record) Success() bool {
	return r.Error == "" && r.Response != nil && r.Response.OK
}

// Verdict возвращает решение из ответа сервиса или пустую строку
func (r Record) Verdict() string {
	return r.responseField("verdict")
}

// RiskLevel возвращает уровень риска из ответа сервиса
func (r Record) RiskLevel() string {
	return r.responseField("risk_level")
}

func (r Record) responseField(key string) string {
	if r.Response == nil {
		return ""
	}
	m, ok := r.Response.JSON.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// ErrorText ошибка чтения файла или ответа сервиса
func (r Record) ErrorText() string {
	if r.Error != "" {
		return r.Error
	}
	if r.Response != nil {
		return r.Response.Error
	}
	return ""
}

// Summary итог прогона
type Summary struct {
	TotalFiles            int      `json:"total_files"`
	ProcessedSuccessfully int      `json:"processed_successfully"`
	Failed                int      `json:"failed"`
	Timestamp             string   `json:"timestamp"`
	Results               []Record `json:"results"`
	// SummaryPath путь к сохраненной сводке
	SummaryPath string `json:"-"`
}

// Runner прогоняет файлы архива
type Runner struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewRunner создает Runner
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	d := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.BaseURL
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = d.Concurrency
	}
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = d.RequestTimeout
	}
	if cfg.BackoffBase < 0 {
		cfg.BackoffBase = 0
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger,
		now:    time.Now,
	}
}

// FindFiles находит все fb_flat.json под root, в лексикографическом порядке
func FindFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == InputFileName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan archive %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run обрабатывает архив. Ошибки отдельных файлов попадают в записи и не прерывают прогон.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if _, err := os.Stat(r.cfg.ArchivePath); err != nil {
		return nil, fmt.Errorf("archive directory not found: %w", err)
	}

	files, err := FindFiles(r.cfg.ArchivePath)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Bulk run started", "files", len(files), "archive", r.cfg.ArchivePath)

	summary := &Summary{TotalFiles: len(files), Results: make([]Record, 0, len(files))}
	if len(files) == 0 {
		summary.Timestamp = r.now().UTC().Format(time.RFC3339Nano)
		return summary, nil
	}

	if err := os.MkdirAll(r.cfg.ResultsPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}

	var mu sync.Mutex
	sem := semaphore.NewWeighted(int64(r.cfg.Concurrency))
	g, gctx := errgroup.WithContext(ctx)

	for _, path := range files {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			rec := r.handle(gctx, path)
			if err := r.saveRecord(rec); err != nil {
				r.logger.Warn("Failed to save result", "file", path, "error", err)
			}

			mu.Lock()
			summary.Results = append(summary.Results, rec)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bulk run interrupted: %w", err)
	}

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].FilePath < summary.Results[j].FilePath
	})
	for _, rec := range summary.Results {
		if rec.Success() {
			summary.ProcessedSuccessfully++
		}
	}
	summary.Failed = summary.TotalFiles - summary.ProcessedSuccessfully
	summary.Timestamp = r.now().UTC().Format(time.RFC3339Nano)

	stamp := r.fileStamp()
	summary.SummaryPath = filepath.Join(r.cfg.ResultsPath, "summary_"+stamp+".json")
	if err := writeJSON(summary.SummaryPath, summary); err != nil {
		return summary, fmt.Errorf("failed to save summary: %w", err)
	}
	if r.cfg.XLSX {
		if err := WriteXLSX(filepath.Join(r.cfg.ResultsPath, "summary_"+stamp+".xlsx"), summary); err != nil {
			return summary, err
		}
	}

	r.logger.Info("Bulk run completed",
		"total", summary.TotalFiles,
		"succeeded", summary.ProcessedSuccessfully,
		"failed", summary.Failed,
		"summary", summary.SummaryPath)
	return summary, nil
}

func (r *Runner) handle(ctx context.Context, path string) Record {
	rec := Record{
		FilePath:   path,
		FolderName: filepath.Base(filepath.Dir(path)),
		Timestamp:  r.now().UTC().Format(time.RFC3339Nano),
	}
	r.logger.Info("Processing file", "file", path)

	data, err := ReadInput(path)
	if err != nil {
		rec.Error = fmt.Sprintf("JSON read error: %v", err)
		return rec
	}
	rec.InputData = data
	rec.RequestID = r.requestID()
	rec.Response = r.send(ctx, data, rec.RequestID)
	return rec
}

func (r *Runner) requestID() string {
	return fmt.Sprintf("bulk_%s_%s", r.now().UTC().Format(time.RFC3339Nano), uuid.NewString()[:8])
}

// send отправляет сделку; повторяются только сетевые ошибки, HTTP статус возвращается как есть
func (r *Runner) send(ctx context.Context, data any, requestID string) *Response {
	body, err := json.Marshal(map[string]any{
		"data":       data,
		"request_id": requestID,
	})
	if err != nil {
		return &Response{Error: fmt.Sprintf("encode error: %v", err)}
	}

	url := r.cfg.BaseURL + "/compliance/check"
	var lastErr error
	for attempt := 1; attempt <= r.cfg.Retries; attempt++ {
		resp, err := r.post(ctx, url, body)
		if err == nil {
			return resp
		}
		lastErr = err
		r.logger.Warn("Request failed",
			"request_id", requestID,
			"attempt", attempt,
			"error", err)

		if attempt < r.cfg.Retries {
			select {
			case <-time.After(Backoff(r.cfg.BackoffBase, attempt)):
			case <-ctx.Done():
				return &Response{Error: fmt.Sprintf("Network error: %v", ctx.Err())}
			}
		}
	}
	return &Response{Error: fmt.Sprintf("Network error: %v", lastErr)}
}

func (r *Runner) post(ctx context.Context, url string, body []byte) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := &Response{Status: resp.StatusCode}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		out.JSON = parsed
	} else {
		out.Text = strings.ToValidUTF8(string(raw), "�")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		out.OK = true
	} else {
		out.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return out, nil
}

// Backoff задержка перед повтором: base * 2^(attempt-1)
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
}

// ReadInput читает JSON сделки. Файлы не в UTF-8 считаются Windows-1251.
func ReadInput(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode windows-1251: %w", err)
		}
		raw = decoded
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Runner) fileStamp() string {
	return strings.Replace(r.now().Format("20060102_150405.000"), ".", "_", 1)
}
