// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"fmt"
	"time"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/events"
)

// DefaultMaxSteps — стандартный лимит шагов (вызовов модели) на запрос.
const DefaultMaxSteps = 10

// DefaultRunTimeout — стандартный таймаут одного запуска.
const DefaultRunTimeout = 5 * time.Minute

// DefaultToolTimeout — стандартный таймаут вызова инструмента.
const DefaultToolTimeout = 30 * time.Second

// DefaultSystemPrompt — базовый системный промпт по умолчанию.
//
// Формат решения (fenced YAML) модели диктует не этот промпт, а секция
// DECISION собранного промпта (см. pkg/prompt), поэтому здесь только роль.
const DefaultSystemPrompt = `You are a helpful assistant that answers questions and uses tools when needed.`

// ReActCycleConfig — конфигурация ReAct цикла.
//
// Используется при создании ReActCycle через NewReActCycle.
// Конфигурация может быть загружена из YAML (FromAgentConfig) или
// создана программно.
type ReActCycleConfig struct {
	// SystemPrompt — базовый системный промпт агента.
	SystemPrompt string

	// MaxSteps — максимальное количество шагов цикла.
	// Один шаг = один вызов модели. По умолчанию: 10.
	MaxSteps int

	// RunTimeout — таймаут выполнения всего запуска.
	// По умолчанию: 5 минут.
	RunTimeout time.Duration

	// ToolTimeout — защитный таймаут вызова инструмента.
	// По умолчанию: 30 секунд.
	ToolTimeout time.Duration

	// ToolTimeouts — переопределения таймаута по имени инструмента.
	// Опционально: может быть nil.
	ToolTimeouts map[string]time.Duration

	// TranscriptsDir — директория YAML-транскриптов запусков.
	// Пустая строка отключает запись.
	TranscriptsDir string

	// StreamingEnabled включает потоковый режим шага решения
	// (когда провайдер поддерживает стриминг и установлен emitter).
	StreamingEnabled bool

	// DefaultEmitter — emitter для событий цикла.
	// Опционально: nil означает "без телеметрии".
	DefaultEmitter events.Emitter
}

// NewReActCycleConfig создаёт конфигурацию ReAct цикла с дефолтными значениями.
func NewReActCycleConfig() ReActCycleConfig {
	return ReActCycleConfig{
		SystemPrompt: DefaultSystemPrompt,
		MaxSteps:     DefaultMaxSteps,
		RunTimeout:   DefaultRunTimeout,
		ToolTimeout:  DefaultToolTimeout,
	}
}

// Validate проверяет конфигурацию на валидность.
//
// Rule 7: Возвращает ошибку вместо panic.
func (c *ReActCycleConfig) Validate() error {
	if c.SystemPrompt == "" {
		return fmt.Errorf("system_prompt is required")
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("run_timeout must be positive, got %v", c.RunTimeout)
	}
	if c.ToolTimeout <= 0 {
		return fmt.Errorf("tool_timeout must be positive, got %v", c.ToolTimeout)
	}
	return nil
}

// FromAgentConfig строит конфигурацию цикла из секции agent: config.yaml.
//
// Незаполненные поля получают дефолтные значения, system_prompt из
// конфига (если задан) имеет приоритет над DefaultSystemPrompt.
//
// Rule 2: Конфигурация через YAML с дефолтными значениями.
func FromAgentConfig(ac config.AgentConfig, transcriptsDir string) ReActCycleConfig {
	cfg := NewReActCycleConfig()

	if ac.SystemPrompt != "" {
		cfg.SystemPrompt = ac.SystemPrompt
	}
	if ac.MaxSteps > 0 {
		cfg.MaxSteps = ac.MaxSteps
	}
	if ac.RunTimeout > 0 {
		cfg.RunTimeout = ac.RunTimeout
	}
	if ac.ToolTimeout > 0 {
		cfg.ToolTimeout = ac.ToolTimeout
	}
	if len(ac.ToolTimeouts) > 0 {
		cfg.ToolTimeouts = make(map[string]time.Duration, len(ac.ToolTimeouts))
		for name, timeout := range ac.ToolTimeouts {
			cfg.ToolTimeouts[name] = timeout
		}
	}
	cfg.TranscriptsDir = transcriptsDir

	return cfg
}
