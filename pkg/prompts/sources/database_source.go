package sources

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// DatabaseSource — загрузка промптов из SQL базы данных (SQLite).
//
// Источник принимает готовый *sql.DB: открытие соединения и выбор драйвера —
// ответственность фабрики (см. registry_factory.go).
type DatabaseSource struct {
	db    *sql.DB
	table string
}

// NewDatabaseSource создаёт источник промптов поверх *sql.DB.
//
// Параметры:
//   - db: открытое соединение
//   - table: имя таблицы с промптами (default: "prompts")
//
// Структура таблицы:
//
//	CREATE TABLE prompts (
//	    id TEXT PRIMARY KEY,
//	    system TEXT,
//	    template TEXT,
//	    variables TEXT,  -- JSON объект {"key": "value"}
//	    metadata TEXT    -- JSON объект
//	);
func NewDatabaseSource(db *sql.DB, table string) *DatabaseSource {
	if table == "" {
		table = "prompts"
	}
	return &DatabaseSource{
		db:    db,
		table: table,
	}
}

// Load загружает промпт из базы данных по ID.
//
// Возвращает *PromptData для избежания циклического импорта.
func (s *DatabaseSource) Load(promptID string) (*PromptData, error) {
	var system, template, variablesJSON, metadataJSON sql.NullString

	query := fmt.Sprintf(
		"SELECT system, template, variables, metadata FROM %s WHERE id = ?",
		s.table,
	)

	err := s.db.QueryRow(query, promptID).Scan(&system, &template, &variablesJSON, &metadataJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prompt %s in table %s: %w", promptID, s.table, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	file := &PromptData{
		System:    system.String,
		Template:  template.String,
		Variables: make(map[string]string),
		Metadata:  make(map[string]any),
	}

	if variablesJSON.Valid && variablesJSON.String != "" {
		if err := json.Unmarshal([]byte(variablesJSON.String), &file.Variables); err != nil {
			return nil, fmt.Errorf("failed to parse variables JSON for '%s': %w", promptID, err)
		}
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &file.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata JSON for '%s': %w", promptID, err)
		}
	}

	return file, nil
}
