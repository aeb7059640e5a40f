package database

import (
	"database/sql"
	"fmt"
)

// InitJournalSchema создает таблицы журнала проверок, если их нет
func InitJournalSchema(db *sql.DB) error {
	schema := `
	-- Результаты проверок сделок
	CREATE TABLE IF NOT EXISTS screening_results (
		id INTEGER PRIMARY KEY,
		request_id TEXT UNIQUE NOT NULL,        -- идентификатор запроса клиента
		verdict TEXT NOT NULL,                  -- clear / flag
		risk_level TEXT NOT NULL,               -- none / medium
		cross_border INTEGER NOT NULL DEFAULT 0,
		inconsistency INTEGER NOT NULL DEFAULT 0,
		transit INTEGER NOT NULL DEFAULT 0,
		prompt_chars INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		checks_json TEXT,                       -- детализация проверок
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_screening_results_verdict ON screening_results(verdict);
	CREATE INDEX IF NOT EXISTS idx_screening_results_created_at ON screening_results(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	return nil
}
