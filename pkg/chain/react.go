// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/ilkoid/minagent/pkg/events"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/prompt"
	"github.com/ilkoid/minagent/pkg/state"
	"github.com/ilkoid/minagent/pkg/tools"
	"github.com/ilkoid/minagent/pkg/utils"
)

// ReActCycle — реализация ReAct (Reasoning + Acting) паттерна.
//
// ReActCycle выполняет цикл:
//  1. Модель анализирует контекст и решает что делать (Reasoning)
//  2. Если выбран инструмент — выполняет его и записывает observation (Acting)
//  3. Повторяет, пока не получен финальный ответ или не исчерпан лимит шагов
//
// ReActCycle — immutable template: runtime состояние вынесено в
// ReActExecution, каждый Execute() создаёт свой. Конкурентные запуски
// на одном экземпляре безопасны.
//
// Rule 1: Работает с Tool interface ("Raw In, String Out")
// Rule 3: Tools вызываются через Registry
// Rule 4: LLM вызывается через llm.Provider
// Rule 5: Thread-safe через immutability (шаблон + execution)
// Rule 7: Все ошибки возвращаются, нет panic
type ReActCycle struct {
	// Dependencies (immutable после Set*)
	modelRegistry *models.Registry
	registry      *tools.Registry
	state         *state.CoreState

	// requestedModel — алиас модели; пустая строка = дефолт реестра
	requestedModel string

	// Configuration (immutable после создания, кроме runtime defaults)
	config ReActCycleConfig

	// Runtime defaults protection — только для mutable полей config
	// (DefaultEmitter, StreamingEnabled, TranscriptsDir)
	mu sync.RWMutex

	// decideStep — шаблон шага решения (клонируется в execution)
	decideStep *DecideStep
}

// NewReActCycle создаёт новый ReActCycle.
//
// Невалидная конфигурация заменяется дефолтной (Rule 7: в конструкторе
// некуда вернуть ошибку; валидация доступна отдельно через Validate).
func NewReActCycle(config ReActCycleConfig) *ReActCycle {
	if err := config.Validate(); err != nil {
		utils.Warn("Invalid cycle config, falling back to defaults", "error", err)
		systemPrompt := config.SystemPrompt
		config = NewReActCycleConfig()
		if systemPrompt != "" {
			config.SystemPrompt = systemPrompt
		}
	}

	cycle := &ReActCycle{
		config: config,
	}

	// Шаблон шага решения (immutable — клонируется в execution)
	cycle.decideStep = &DecideStep{}

	return cycle
}

// SetModelRegistry устанавливает реестр моделей и запрошенный алиас.
//
// Пустой алиас означает модель по умолчанию из реестра.
// Thread-safe: устанавливает immutable dependencies до первого Execute.
func (c *ReActCycle) SetModelRegistry(registry *models.Registry, requestedModel string) {
	c.modelRegistry = registry
	c.requestedModel = requestedModel
	c.decideStep.modelRegistry = registry
	c.decideStep.requestedModel = requestedModel
}

// SetRegistry устанавливает реестр инструментов.
//
// Rule 3: Tools вызываются через Registry.
// Thread-safe: устанавливает immutable dependencies до первого Execute.
func (c *ReActCycle) SetRegistry(registry *tools.Registry) {
	c.registry = registry
}

// SetState устанавливает персистентное состояние диалога.
//
// Используется методом Run для ведения истории между запросами;
// Execute состояния не касается. Опционально.
func (c *ReActCycle) SetState(coreState *state.CoreState) {
	c.state = coreState
}

// SetEmitter устанавливает emitter для отправки событий в UI.
//
// Port & Adapter pattern: цикл зависит от абстракции events.Emitter.
// Thread-safe: использует mutex для защиты config.DefaultEmitter.
func (c *ReActCycle) SetEmitter(emitter events.Emitter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.DefaultEmitter = emitter
}

// SetStreamingEnabled включает или выключает streaming режим.
//
// Thread-safe: использует mutex для защиты config.StreamingEnabled.
func (c *ReActCycle) SetStreamingEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.StreamingEnabled = enabled
}

// SetTranscriptsDir включает запись YAML-транскриптов в директорию.
//
// Пустая строка выключает запись.
// Thread-safe: использует mutex для защиты config.TranscriptsDir.
func (c *ReActCycle) SetTranscriptsDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.TranscriptsDir = dir
}

// Execute выполняет ReAct цикл для подготовленного входа.
//
// Каждый вызов создаёт свой ReActExecution и своих наблюдателей —
// конкурентные Execute() на одном цикле безопасны.
//
// Алгоритм:
//  1. Валидация зависимостей (read-only, без блокировки)
//  2. Чтение runtime defaults под RLock
//  3. Создание ReActExecution + наблюдателей (emitter, recorder)
//  4. Запуск ReActExecutor с таймаутом запуска
//
// Rule 7: Возвращает ошибку вместо panic.
func (c *ReActCycle) Execute(ctx context.Context, input RunInput) (RunOutput, error) {
	// 1. Валидация (read-only, без блокировки)
	if err := c.validateDependencies(); err != nil {
		return RunOutput{}, fmt.Errorf("invalid dependencies: %w", err)
	}
	if input.Registry == nil {
		input.Registry = c.registry
	}

	// 2. Runtime defaults под RLock
	c.mu.RLock()
	emitter := c.config.DefaultEmitter
	streamingEnabled := c.config.StreamingEnabled
	transcriptsDir := c.config.TranscriptsDir
	c.mu.RUnlock()

	// 3. Рекордер на этот запуск (advisory: отказ не роняет запуск)
	var recorder *RunRecorder
	if transcriptsDir != "" {
		rec, err := NewRunRecorder(transcriptsDir)
		if err != nil {
			utils.Warn("Run transcript disabled", "error", err)
		} else {
			recorder = rec
		}
	}

	// 4. Execution + executor + наблюдатели на этот запуск
	execution := NewReActExecution(
		input,
		c.decideStep,
		emitter,
		recorder,
		streamingEnabled,
		&c.config,
	)

	executor := NewReActExecutor()
	executor.AddObserver(NewEmitterObserver(emitter))
	if recorder != nil {
		executor.AddObserver(recorder)
	}
	executor.SetIterationObserver(NewEmitterIterationObserver(emitter))

	// 5. Таймаут всего запуска
	if c.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RunTimeout)
		defer cancel()
	}

	return executor.Execute(ctx, execution)
}

// validateDependencies проверяет что все зависимости установлены.
//
// Rule 7: Возвращает ошибку вместо panic.
func (c *ReActCycle) validateDependencies() error {
	if c.modelRegistry == nil {
		return fmt.Errorf("model registry is not set (call SetModelRegistry)")
	}
	if c.registry == nil {
		return fmt.Errorf("tools registry is not set (call SetRegistry)")
	}
	// state опционален — нужен только методу Run
	return nil
}

// Run выполняет ReAct цикл для запроса пользователя, ведя историю.
//
// Реализует Agent interface для прямого использования цикла:
//  1. Запрос добавляется в персистентную историю
//  2. История рендерится в окно промпта
//  3. Цикл выполняется до финального ответа
//  4. Ответ добавляется в историю, записи вызовов — в журнал
//
// Ошибка запуска оставляет запрос в истории без ответной реплики.
func (c *ReActCycle) Run(ctx context.Context, query string) (string, error) {
	if err := c.validateDependencies(); err != nil {
		return "", err
	}

	var history string
	if c.state != nil {
		c.state.AppendEntry(state.RoleUser, query)
		history = prompt.FormatHistory(c.state.History())
	} else {
		history = prompt.FormatHistory(nil)
	}

	input := RunInput{
		Query:      query,
		BasePrompt: c.config.SystemPrompt,
		History:    history,
		Registry:   c.registry,
	}

	output, err := c.Execute(ctx, input)
	if err != nil {
		return "", err
	}

	if c.state != nil {
		c.state.AppendEntry(state.RoleAssistant, output.Answer)
		c.state.RecordToolCalls(output.ToolCalls)
	}

	return output.Answer, nil
}

// GetHistory возвращает историю диалога.
//
// Реализует Agent interface. Без установленного состояния — пустая история.
func (c *ReActCycle) GetHistory() []state.Entry {
	if c.state == nil {
		return []state.Entry{}
	}
	return c.state.History()
}

// Ensure ReActCycle implements Chain
var _ Chain = (*ReActCycle)(nil)

// Ensure ReActCycle implements Agent (local interface in chain package)
var _ Agent = (*ReActCycle)(nil)
