// Package app собирает компоненты агента в готовый к работе граф.
//
// Пакет переиспользуется всеми entry points (CLI, TUI): вся логика
// инициализации инкапсулирована здесь, cmd/ остаются тонкими.
//
// Правила:
//   - Rule 2: конфигурация через YAML с ENV-переменными
//   - Rule 3: инструменты регистрируются через tools.Registry
//   - Rule 6: entry points — initialization and orchestration only
//   - Rule 7: все ошибки возвращаются, никаких panic
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilkoid/minagent/pkg/chain"
	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/prompts"
	"github.com/ilkoid/minagent/pkg/s3storage"
	"github.com/ilkoid/minagent/pkg/state"
	"github.com/ilkoid/minagent/pkg/tools"
	"github.com/ilkoid/minagent/pkg/utils"
	"github.com/ilkoid/minagent/pkg/webclient"
)

// Components содержит собранный граф компонентов приложения.
//
// Структура отдаётся фасаду pkg/agent и entry points; поля экспортированы,
// чтобы утилиты могли дотянуться до отдельных частей (реестр моделей,
// состояние) без повторной инициализации.
type Components struct {
	Config *config.AppConfig
	State  *state.CoreState
	Models *models.Registry
	Tools  *tools.Registry

	// S3 и Web опциональны: nil, если соответствующая секция конфига
	// пуста или ни один инструмент их не требует
	S3  *s3storage.Client
	Web *webclient.Client

	// Cycle — готовый к запуску ReAct цикл
	Cycle *chain.ReActCycle

	// SystemPrompt — итоговый системный промпт (inline → источники → дефолт)
	SystemPrompt string
}

// ConfigPathFinder определяет стратегию поиска пути к config.yaml.
//
// По умолчанию используется DefaultConfigPathFinder, но можно
// реализовать свою стратегию для тестов или специальных случаев.
type ConfigPathFinder interface {
	FindConfigPath() string
}

// DefaultConfigPathFinder реализует стандартную стратегию поиска config.yaml.
//
// Порядок поиска:
//  1. Флаг -config (если указан)
//  2. Текущая директория (./config.yaml)
//  3. Директория бинарника
//  4. Родительская директория (для запуска из cmd/<утилита>/)
type DefaultConfigPathFinder struct {
	// ConfigFlag — значение флага -config, если указан
	ConfigFlag string
}

// FindConfigPath находит путь к config.yaml.
func (f *DefaultConfigPathFinder) FindConfigPath() string {
	// 1. Флаг имеет приоритет
	if f.ConfigFlag != "" {
		return resolveAbsPath(f.ConfigFlag)
	}

	// 2. Текущая директория
	cfgPath := "config.yaml"
	if _, err := os.Stat(cfgPath); err == nil {
		return resolveAbsPath(cfgPath)
	}

	// 3. Директория бинарника
	if execPath, err := os.Executable(); err == nil {
		binDir := filepath.Dir(execPath)
		cfgPath = filepath.Join(binDir, "config.yaml")
		if _, err := os.Stat(cfgPath); err == nil {
			return cfgPath
		}
	}

	// 4. Родительские директории (запуск из cmd/<утилита>/)
	cfgPath = filepath.Join("..", "..", "config.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return resolveAbsPath(cfgPath)
	}
	cfgPath = filepath.Join("..", "config.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return resolveAbsPath(cfgPath)
	}

	// Возвращаем дефолтный путь (даже если не существует)
	return resolveAbsPath("config.yaml")
}

// InitializeConfig инициализирует и загружает конфигурацию.
//
// Правило 2: все настройки в YAML с поддержкой ENV-переменных.
func InitializeConfig(finder ConfigPathFinder) (*config.AppConfig, string, error) {
	cfgPath := finder.FindConfigPath()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", cfgPath, err)
	}

	return cfg, cfgPath, nil
}

// Initialize создаёт и инициализирует все компоненты приложения.
//
// Функция переиспользуемая: вызывается из фасада pkg/agent и напрямую из
// entry points. Сетевых вызовов не делает — клиенты создаются лениво
// настроенными, первый запрос уходит при первом использовании.
//
// Правило 6: entry points — initialization and orchestration only.
func Initialize(cfg *config.AppConfig) (*Components, error) {
	utils.Info("Initializing components")

	// 1. Реестр моделей из конфигурации
	modelRegistry, err := models.NewRegistryFromConfig(cfg)
	if err != nil {
		utils.Error("Model registry creation failed", "error", err)
		return nil, fmt.Errorf("failed to create model registry: %w", err)
	}
	utils.Info("Model registry created", "models", modelRegistry.ListNames())

	// 2. S3 клиент — только если секция заполнена
	var s3Client *s3storage.Client
	if cfg.S3.Endpoint != "" {
		s3Client, err = s3storage.New(cfg.S3)
		if err != nil {
			utils.Error("S3 client creation failed", "error", err)
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		utils.Info("S3 client initialized", "bucket", cfg.S3.Bucket)
	}

	// 3. Web клиент — только если web_fetch включён
	var webClient *webclient.Client
	if cfg.ToolEnabled("web_fetch") {
		webClient, err = webclient.NewFromConfig(cfg.Web)
		if err != nil {
			utils.Error("Web client creation failed", "error", err)
			return nil, fmt.Errorf("failed to create web client: %w", err)
		}
		utils.Info("Web client initialized", "rate_limit", cfg.Web.GetDefaults().RateLimit)
	}

	// 4. Состояние диалога (thread-safe)
	coreState := state.NewCoreState()

	// 5. Реестр инструментов и регистрация по конфигу
	toolsRegistry := tools.NewRegistry()
	registered, err := SetupTools(toolsRegistry, cfg, ToolDeps{
		S3:           s3Client,
		Web:          webClient,
		Models:       modelRegistry,
		DefaultModel: cfg.Models.DefaultChat,
	})
	if err != nil {
		utils.Error("Tools registration failed", "error", err)
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	utils.Info("Tools registered", "count", len(registered), "tools", registered)

	// 6. Системный промпт: inline → источники → дефолт
	systemPrompt, err := prompts.LoadAgentSystemPrompt(cfg)
	if err != nil {
		utils.Error("System prompt loading failed", "error", err)
		return nil, fmt.Errorf("failed to load system prompt: %w", err)
	}

	// 7. ReAct цикл
	cycleCfg := chain.FromAgentConfig(cfg.Agent, cfg.App.LogsDir)
	cycleCfg.SystemPrompt = systemPrompt

	cycle := chain.NewReActCycle(cycleCfg)
	cycle.SetModelRegistry(modelRegistry, "")
	cycle.SetRegistry(toolsRegistry)
	cycle.SetState(coreState)

	return &Components{
		Config:       cfg,
		State:        coreState,
		Models:       modelRegistry,
		Tools:        toolsRegistry,
		S3:           s3Client,
		Web:          webClient,
		Cycle:        cycle,
		SystemPrompt: systemPrompt,
	}, nil
}

// resolveAbsPath преобразует путь в абсолютный (если это не уже абсолютный путь).
func resolveAbsPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
