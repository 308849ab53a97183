// Package agent предоставляет простой API для создания и запуска AI агентов.
//
// Пакет реализует фасад над ReActCycle, позволяя создавать агентов с
// минимальным количеством кода. Для продвинутых сценариев компоненты
// (реестры, состояние, цикл) доступны через геттеры.
//
// Basic usage:
//
//	client, _ := agent.New(agent.Config{ConfigPath: "config.yaml"})
//	answer, _ := client.Run(ctx, "What time is it in Tokyo?")
//
// With custom tool:
//
//	client, _ := agent.New(agent.Config{ConfigPath: "config.yaml"})
//	client.RegisterTool(&MyCustomTool{})
//	answer, _ := client.Run(ctx, "Check the build status")
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/ilkoid/minagent/pkg/app"
	"github.com/ilkoid/minagent/pkg/chain"
	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/events"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/state"
	"github.com/ilkoid/minagent/pkg/tools"
	"github.com/ilkoid/minagent/pkg/utils"
)

// eventBufferSize — буфер дефолтного ChanEmitter.
const eventBufferSize = 100

// Client представляет AI агент с простым API для запуска запросов.
//
// Client является фасадом над ReActCycle, скрывая инициализацию
// компонентов (Config, Models, Tools, CoreState).
//
// Thread-safe: все методы безопасны для параллельного вызова; Run
// сериализуется мьютексом — история диалога общий ресурс, параллельные
// запуски перемешали бы реплики.
type Client struct {
	// Dependencies (инициализируются в New)
	cycle         *chain.ReActCycle
	modelRegistry *models.Registry
	toolsRegistry *tools.Registry
	state         *state.CoreState
	config        *config.AppConfig

	// runMu сериализует Run (история — общий ресурс)
	runMu sync.Mutex

	// emitterMu защищает emitter
	emitterMu sync.Mutex
	emitter   events.Emitter
}

// Config определяет конфигурацию для создания агента.
//
// Все поля опциональны — при пустых значениях используются дефолты:
//   - ConfigPath: auto-discovery (app.DefaultConfigPathFinder)
//   - SystemPrompt: inline config → источники промптов → дефолт
//   - MaxSteps: из config.yaml или дефолт цикла
type Config struct {
	// ConfigPath — путь к config.yaml. Пустой — auto-discovery.
	ConfigPath string

	// SystemPrompt — override системного промпта поверх конфига.
	SystemPrompt string

	// MaxSteps — override лимита шагов ReAct цикла.
	MaxSteps int
}

// New создаёт новый агент с указанной конфигурацией.
//
// Функция выполняет полную инициализацию:
//   - загружает config.yaml
//   - собирает граф компонентов через app.Initialize
//     (реестры моделей и инструментов, состояние, промпт, цикл)
//
// Ошибки типизированы: *ConfigurationError со Stage "config" (YAML не
// найден/не парсится) или "components" (граф не собрался).
//
// Rule 2: конфигурация через YAML с ENV поддержкой.
// Rule 3: tools регистрируются через Registry.
func New(cfg Config) (*Client, error) {
	utils.Info("Creating agent", "config_path", cfg.ConfigPath)

	// 1. Загружаем конфигурацию
	finder := &app.DefaultConfigPathFinder{ConfigFlag: cfg.ConfigPath}
	appCfg, cfgPath, err := app.InitializeConfig(finder)
	if err != nil {
		return nil, &ConfigurationError{Stage: "config", Err: err}
	}
	utils.Info("Config loaded", "path", cfgPath)

	// 2. Применяем overrides поверх конфига
	if cfg.SystemPrompt != "" {
		appCfg.Agent.SystemPrompt = cfg.SystemPrompt
	}
	if cfg.MaxSteps > 0 {
		appCfg.Agent.MaxSteps = cfg.MaxSteps
	}

	return NewFromConfig(appCfg)
}

// NewFromConfig создаёт агент из уже загруженной конфигурации.
//
// Используется entry points, которые сами ищут и загружают config.yaml
// (например, чтобы напечатать путь до старта).
func NewFromConfig(appCfg *config.AppConfig) (*Client, error) {
	components, err := app.Initialize(appCfg)
	if err != nil {
		return nil, &ConfigurationError{Stage: "components", Err: err}
	}

	client := &Client{
		cycle:         components.Cycle,
		modelRegistry: components.Models,
		toolsRegistry: components.Tools,
		state:         components.State,
		config:        components.Config,
	}

	return client, nil
}

// Run выполняет запрос пользователя через агента.
//
// Метод делегирует выполнение ReActCycle, который:
//  1. Добавляет запрос в историю
//  2. Выполняет ReAct цикл (decide → act → observe, до финального ответа)
//  3. Добавляет ответ в историю и записи вызовов в журнал
//
// События запуска (thinking, decision, tool_call, ...) отправляются
// наблюдателями цикла в установленный emitter.
//
// Последовательные запросы видят историю предыдущих; параллельные вызовы
// Run сериализуются.
//
// Rule 11: принимает context.Context для отмены операции.
func (c *Client) Run(ctx context.Context, query string) (string, error) {
	if c.cycle == nil {
		return "", fmt.Errorf("agent is not properly initialized")
	}

	c.runMu.Lock()
	defer c.runMu.Unlock()

	utils.Info("Running agent query", "query_length", len(query))

	answer, err := c.cycle.Run(ctx, query)
	if err != nil {
		utils.Error("Agent query failed", "error", err)
		return "", err
	}

	utils.Info("Agent query completed", "answer_length", len(answer))
	return answer, nil
}

// Execute выполняет подготовленный вход без ведения истории.
//
// Продвинутый сценарий: полный контроль над RunInput (история, базовый
// промпт, реестр инструментов) и доступ к RunOutput (шаги, вызовы,
// путь транскрипта).
func (c *Client) Execute(ctx context.Context, input chain.RunInput) (chain.RunOutput, error) {
	if c.cycle == nil {
		return chain.RunOutput{}, fmt.Errorf("agent is not properly initialized")
	}
	return c.cycle.Execute(ctx, input)
}

// RegisterTool регистрирует дополнительный инструмент в агенте.
//
// Используется для добавления кастомных tools поверх тех, что
// были включены в config.yaml. Повторная регистрация имени заменяет
// инструмент (last wins), позиция в каталоге сохраняется.
//
// Rule 1: инструмент должен реализовывать tools.Tool interface.
// Rule 3: регистрация через Registry.
func (c *Client) RegisterTool(tool tools.Tool) error {
	if c.toolsRegistry == nil {
		return fmt.Errorf("tools registry is not initialized")
	}

	toolName := tool.Spec().Name
	if err := c.toolsRegistry.Register(tool); err != nil {
		return fmt.Errorf("failed to register tool '%s': %w", toolName, err)
	}

	utils.Info("Tool registered", "name", toolName)
	return nil
}

// SetEmitter устанавливает emitter для отправки событий.
//
// Port & Adapter паттерн: Client зависит от абстракции (events.Emitter),
// а не от конкретной реализации UI.
//
// Thread-safe.
func (c *Client) SetEmitter(emitter events.Emitter) {
	c.emitterMu.Lock()
	defer c.emitterMu.Unlock()
	c.emitter = emitter
	if c.cycle != nil {
		c.cycle.SetEmitter(emitter)
	}
}

// Subscribe возвращает Subscriber для чтения событий запусков.
//
// Если emitter ещё не установлен, создаёт ChanEmitter с буфером 100 и
// подключает его к циклу. Возвращает nil, если через SetEmitter
// установлена кастомная реализация без поддержки подписки.
//
// Thread-safe.
func (c *Client) Subscribe() events.Subscriber {
	c.emitterMu.Lock()
	defer c.emitterMu.Unlock()

	if c.emitter == nil {
		emitter := events.NewChanEmitter(eventBufferSize)
		c.emitter = emitter
		if c.cycle != nil {
			c.cycle.SetEmitter(emitter)
		}
	}

	chanEmitter, ok := c.emitter.(*events.ChanEmitter)
	if !ok {
		utils.Warn("Custom emitter does not support Subscribe")
		return nil
	}
	return chanEmitter.Subscribe()
}

// SetStreamingEnabled включает или выключает streaming режим.
//
// Thread-safe.
func (c *Client) SetStreamingEnabled(enabled bool) {
	if c.cycle != nil {
		c.cycle.SetStreamingEnabled(enabled)
	}
}

// ClearHistory очищает историю диалога и журнал вызовов инструментов.
//
// Используется для начала новой сессии с чистого листа.
func (c *Client) ClearHistory() {
	if c.state != nil {
		c.state.ClearHistory()
	}
}

// GetHistory возвращает копию истории диалога агента.
//
// Реализует Agent interface.
//
// Thread-safe.
func (c *Client) GetHistory() []state.Entry {
	if c.state == nil {
		return []state.Entry{}
	}
	return c.state.History()
}

// ToolCalls возвращает журнал вызовов инструментов за время жизни агента.
//
// Thread-safe.
func (c *Client) ToolCalls() []state.ToolCallRecord {
	if c.state == nil {
		return []state.ToolCallRecord{}
	}
	return c.state.ToolCalls()
}

// GetModelRegistry возвращает реестр моделей для продвинутых сценариев.
func (c *Client) GetModelRegistry() *models.Registry {
	return c.modelRegistry
}

// GetToolsRegistry возвращает реестр инструментов.
func (c *Client) GetToolsRegistry() *tools.Registry {
	return c.toolsRegistry
}

// GetState возвращает CoreState для продвинутых сценариев.
func (c *Client) GetState() *state.CoreState {
	return c.state
}

// GetConfig возвращает конфигурацию приложения.
func (c *Client) GetConfig() *config.AppConfig {
	return c.config
}

// Ensure Client implements Agent interface
var _ Agent = (*Client)(nil)
