package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("record not found")

// DBConfig конфигурация пула соединений
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JournalDB журнал результатов проверок
type JournalDB struct {
	conn *sql.DB
}

// ScreeningRecord запись журнала
type ScreeningRecord struct {
	ID            int64     `json:"id"`
	RequestID     string    `json:"request_id"`
	Verdict       string    `json:"verdict"`
	RiskLevel     string    `json:"risk_level"`
	CrossBorder   bool      `json:"cross_border"`
	Inconsistency bool      `json:"inconsistency"`
	Transit       bool      `json:"transit"`
	PromptChars   int       `json:"prompt_chars"`
	DurationMs    int64     `json:"duration_ms"`
	ChecksJSON    string    `json:"checks_json,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// JournalStats сводка по журналу
type JournalStats struct {
	Total         int64   `json:"total"`
	Clear         int64   `json:"clear"`
	Flag          int64   `json:"flag"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

// NewJournalDB открывает журнал
func NewJournalDB(dbPath string) (*JournalDB, error) {
	return NewJournalDBWithConfig(dbPath, DBConfig{})
}

// NewJournalDBWithConfig открывает журнал с настройкой пула соединений
func NewJournalDBWithConfig(dbPath string, config DBConfig) (*JournalDB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	// у каждой in-memory базы свое соединение, поэтому пул из одного
	if strings.Contains(dbPath, ":memory:") {
		conn.SetMaxOpenConns(1)
	} else if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	} else {
		conn.SetMaxOpenConns(10)
	}

	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	} else {
		conn.SetMaxIdleConns(2)
	}

	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := InitJournalSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &JournalDB{conn: conn}, nil
}

// Close закрывает журнал
func (db *JournalDB) Close() error {
	return db.conn.Close()
}

// GetDB возвращает *sql.DB для прямого доступа
func (db *JournalDB) GetDB() *sql.DB {
	return db.conn
}

// SaveResult сохраняет результат; повторный request_id перезаписывает запись
func (db *JournalDB) SaveResult(ctx context.Context, rec ScreeningRecord) error {
	if rec.RequestID == "" {
		return fmt.Errorf("request_id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO screening_results
			(request_id, verdict, risk_level, cross_border, inconsistency, transit,
			 prompt_chars, duration_ms, checks_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(request_id) DO UPDATE SET
			verdict = excluded.verdict,
			risk_level = excluded.risk_level,
			cross_border = excluded.cross_border,
			inconsistency = excluded.inconsistency,
			transit = excluded.transit,
			prompt_chars = excluded.prompt_chars,
			duration_ms = excluded.duration_ms,
			checks_json = excluded.checks_json,
			created_at = excluded.created_at
	`
	_, err := db.conn.ExecContext(ctx, query,
		rec.RequestID, rec.Verdict, rec.RiskLevel,
		rec.CrossBorder, rec.Inconsistency, rec.Transit,
		rec.PromptChars, rec.DurationMs, rec.ChecksJSON, rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save screening result: %w", err)
	}
	return nil
}

const recordColumns = `id, request_id, verdict, risk_level, cross_border, inconsistency, transit,
	prompt_chars, duration_ms, COALESCE(checks_json, ''), created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ScreeningRecord, error) {
	var rec ScreeningRecord
	err := row.Scan(&rec.ID, &rec.RequestID, &rec.Verdict, &rec.RiskLevel,
		&rec.CrossBorder, &rec.Inconsistency, &rec.Transit,
		&rec.PromptChars, &rec.DurationMs, &rec.ChecksJSON, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetResult возвращает запись по request_id или ErrNotFound
func (db *JournalDB) GetResult(ctx context.Context, requestID string) (*ScreeningRecord, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM screening_results WHERE request_id = ?`, requestID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get screening result: %w", err)
	}
	return rec, nil
}

// ListRecent возвращает последние записи, новые первыми
func (db *JournalDB) ListRecent(ctx context.Context, limit int) ([]ScreeningRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM screening_results ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list screening results: %w", err)
	}
	defer rows.Close()

	records := make([]ScreeningRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan screening result: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Stats возвращает сводку по журналу
func (db *JournalDB) Stats(ctx context.Context) (*JournalStats, error) {
	var stats JournalStats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN verdict = 'clear' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN verdict = 'flag' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(duration_ms), 0)
		FROM screening_results
	`).Scan(&stats.Total, &stats.Clear, &stats.Flag, &stats.AvgDurationMs)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal stats: %w", err)
	}
	return &stats, nil
}
