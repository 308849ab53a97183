package prompts

import (
	"database/sql"
	"fmt"
	"os"

	// SQLite драйвер для database источника промптов
	_ "github.com/mattn/go-sqlite3"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/prompts/sources"
)

// CreateSourceRegistry создаёт реестр источников промптов из конфигурации.
//
// OCP Principle: Добавление новых источников через YAML конфигурацию
// без изменения этого кода.
//
// Fallback Chain:
// 1. Источники из YAML конфигурации (в порядке добавления)
// 2. Default source (Go defaults) — всегда добавляется как fallback
//
// YAML-first философия: Файлы приоритетны, Go defaults — резерв.
func CreateSourceRegistry(cfg *config.AppConfig) (*SourceRegistry, error) {
	registry := NewSourceRegistry()

	// 1. Добавляем источники из YAML конфигурации
	for _, sourceCfg := range cfg.PromptSources {
		source, err := createSource(sourceCfg, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create prompt source type '%s': %w", sourceCfg.Type, err)
		}
		if source != nil {
			registry.AddSource(source)
		}
	}

	// 2. Добавляем Default source (Go defaults) как fallback
	// Всегда добавляется ПОСЛЕ пользовательских источников
	defaultSrc := sources.NewDefaultSource()
	defaultSrc.PopulateDefaults()
	registry.AddSource(defaultSrc)

	return registry, nil
}

// Реализации из sources удовлетворяют PromptSource напрямую:
// PromptFile — алиас sources.PromptData, переходники не нужны.
var (
	_ PromptSource = (*sources.FileSource)(nil)
	_ PromptSource = (*sources.DatabaseSource)(nil)
	_ PromptSource = (*sources.APISource)(nil)
	_ PromptSource = (*sources.DefaultSource)(nil)
)

// createSource создаёт источник промптов по типу.
//
// Factory pattern для расширяемости (OCP).
// Для добавления нового типа источника:
// 1. Добавьте case сюда
// 2. Реализуйте adapter (см. ниже)
func createSource(cfg config.PromptSourceConfig, appCfg *config.AppConfig) (PromptSource, error) {
	switch cfg.Type {
	case "file":
		// File source: YAML файлы из base_dir
		baseDir := cfg.Config["base_dir"]
		if baseDir == "" {
			baseDir = appCfg.App.PromptsDir
		}
		if baseDir == "" {
			baseDir = "./prompts"
		}

		return sources.NewFileSource(baseDir), nil

	case "database":
		// Database source: SQLite файл с таблицей промптов
		path, ok := cfg.Config["path"]
		if !ok || path == "" {
			return nil, fmt.Errorf("database source requires 'path' config")
		}

		// SQLite создаёт файл при первом обращении — для read-only
		// источника промптов отсутствующая база это ошибка конфигурации
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("database source file not found: %s", path)
		}

		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open prompts database: %w", err)
		}

		table := cfg.Config["table"]
		return sources.NewDatabaseSource(db, table), nil

	case "api":
		// API source: HTTP REST API
		endpoint, ok := cfg.Config["endpoint"]
		if !ok || endpoint == "" {
			return nil, fmt.Errorf("api source requires 'endpoint' config")
		}

		token := cfg.Config["auth_token"]
		return sources.NewAPISource(endpoint, token), nil

	default:
		return nil, fmt.Errorf("unknown prompt source type: '%s'", cfg.Type)
	}
}

// LoadAgentSystemPrompt загружает системный промпт агента.
//
// Порядок разрешения:
// 1. Inline agent.system_prompt из конфига (приоритетнее источников)
// 2. Источники промптов по agent.prompt_id (default: "agent_system")
// 3. Default source (Go defaults)
//
// Возвращает системный промпт или ошибку если все источники отказали.
func LoadAgentSystemPrompt(cfg *config.AppConfig) (string, error) {
	// Inline промпт имеет приоритет над источниками
	if cfg.Agent.SystemPrompt != "" {
		return cfg.Agent.SystemPrompt, nil
	}

	registry, err := CreateSourceRegistry(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create source registry: %w", err)
	}

	promptID := cfg.Agent.PromptID
	if promptID == "" {
		promptID = "agent_system"
	}

	file, err := registry.Load(promptID)
	if err != nil {
		return "", fmt.Errorf("failed to load '%s' prompt: %w", promptID, err)
	}

	if file.System == "" {
		return "", fmt.Errorf("prompt '%s' has empty system section", promptID)
	}

	return file.System, nil
}
