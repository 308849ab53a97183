package app

import (
	"fmt"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/s3storage"
	"github.com/ilkoid/minagent/pkg/tools"
	"github.com/ilkoid/minagent/pkg/tools/std"
	"github.com/ilkoid/minagent/pkg/utils"
	"github.com/ilkoid/minagent/pkg/webclient"
)

// ToolDeps — зависимости, которые могут понадобиться стандартным инструментам.
//
// Поля опциональны: nil допустим, пока соответствующий инструмент
// выключен в конфиге. Включённый инструмент с отсутствующей зависимостью —
// ошибка конфигурации, о ней сообщаем сразу, а не при первом вызове.
type ToolDeps struct {
	S3           s3storage.ClientInterface
	Web          *webclient.Client
	Models       *models.Registry
	DefaultModel string
}

// stdToolOrder — порядок регистрации стандартных инструментов.
//
// Порядок фиксирован: реестр сохраняет его, и в этом же порядке
// инструменты попадают в каталог промпта.
var stdToolOrder = []string{
	"clock",
	"calc",
	"web_fetch",
	"list_s3_files",
	"read_s3_object",
	"llm_ping",
}

// SetupTools регистрирует стандартные инструменты по секции tools: конфига.
//
// Регистрируются только инструменты с enabled: true; отсутствующие в
// конфиге считаются выключенными. Возвращает имена зарегистрированных
// инструментов в порядке регистрации.
//
// Rule 3: все инструменты регистрируются через Registry.Register().
func SetupTools(registry *tools.Registry, cfg *config.AppConfig, deps ToolDeps) ([]string, error) {
	var registered []string

	for _, name := range stdToolOrder {
		if !cfg.ToolEnabled(name) {
			utils.Debug("Tool disabled, skipping", "name", name)
			continue
		}

		tool, err := buildTool(name, cfg, deps)
		if err != nil {
			return nil, fmt.Errorf("tool '%s': %w", name, err)
		}

		if err := registry.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool '%s': %w", name, err)
		}
		registered = append(registered, name)
		utils.Debug("Tool registered", "name", name)
	}

	// Включённые в конфиге имена вне стандартного набора — не ошибка:
	// кастомные инструменты регистрируются позже через agent.RegisterTool
	for name := range cfg.Tools {
		if !cfg.ToolEnabled(name) {
			continue
		}
		if !isStdTool(name) {
			utils.Warn("Unknown tool enabled in config, expecting runtime registration", "name", name)
		}
	}

	return registered, nil
}

// buildTool создаёт стандартный инструмент по имени (factory switch).
//
// Для добавления нового стандартного инструмента добавьте case сюда
// и имя в stdToolOrder.
func buildTool(name string, cfg *config.AppConfig, deps ToolDeps) (tools.Tool, error) {
	switch name {
	case "clock":
		return std.NewClockTool(), nil

	case "calc":
		return std.NewCalcTool(), nil

	case "web_fetch":
		if deps.Web == nil {
			return nil, fmt.Errorf("enabled but web client is not configured (check web: section)")
		}
		return std.NewWebFetchTool(deps.Web), nil

	case "list_s3_files":
		if deps.S3 == nil {
			return nil, fmt.Errorf("enabled but s3 client is not configured (check s3: section)")
		}
		return std.NewS3ListTool(deps.S3), nil

	case "read_s3_object":
		if deps.S3 == nil {
			return nil, fmt.Errorf("enabled but s3 client is not configured (check s3: section)")
		}
		return std.NewS3ReadTool(deps.S3), nil

	case "llm_ping":
		if deps.Models == nil {
			return nil, fmt.Errorf("enabled but model registry is missing")
		}
		return std.NewLLMPingTool(deps.Models, deps.DefaultModel), nil

	default:
		return nil, fmt.Errorf("unknown standard tool")
	}
}

// isStdTool проверяет, что имя принадлежит стандартному набору.
func isStdTool(name string) bool {
	for _, known := range stdToolOrder {
		if name == known {
			return true
		}
	}
	return false
}
