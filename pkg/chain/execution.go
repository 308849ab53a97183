// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"time"

	"github.com/ilkoid/minagent/pkg/events"
)

// ReActExecution — runtime состояние выполнения одного запуска.
//
// Чистый контейнер данных: логика исполнения живёт в StepExecutor
// (ReActExecutor).
//
// ReActCycle (template) → создаёт → ReActExecution (runtime data)
// ReActExecution → исполняется → StepExecutor (ReActExecutor)
//
// Thread-safe: не нуждается в синхронизации — создаётся на каждый
// вызов Execute() и никогда не разделяется между goroutines.
type ReActExecution struct {
	runCtx *RunContext

	// Steps (локальные экземпляры для этого выполнения)
	decideStep *DecideStep
	toolStep   *ToolCallStep

	// recorder — рекордер транскрипта этого запуска (может быть nil)
	recorder *RunRecorder

	startTime time.Time

	// Configuration reference (не создаём копию, читаем только)
	config *ReActCycleConfig

	// finalSignal — итоговый сигнал выполнения
	finalSignal ExecutionSignal
}

// NewReActExecution создаёт execution для одного вызова Execute().
//
// Клонирует decide шаг из шаблона для изоляции состояния между
// выполнениями: emitter и recorder у каждого запуска свои.
func NewReActExecution(
	input RunInput,
	decideTemplate *DecideStep,
	emitter events.Emitter,
	recorder *RunRecorder,
	streamingEnabled bool,
	config *ReActCycleConfig,
) *ReActExecution {
	runCtx := NewRunContext(input)

	decideStep := &DecideStep{
		modelRegistry:    decideTemplate.modelRegistry,
		requestedModel:   decideTemplate.requestedModel,
		emitter:          emitter,
		recorder:         recorder,
		streamingEnabled: streamingEnabled,
	}

	toolStep := &ToolCallStep{
		recorder:           recorder,
		defaultToolTimeout: config.ToolTimeout,
		toolTimeouts:       config.ToolTimeouts,
	}

	return &ReActExecution{
		runCtx:     runCtx,
		decideStep: decideStep,
		toolStep:   toolStep,
		recorder:   recorder,
		startTime:  time.Now(),
		config:     config,
	}
}

// RunCtx возвращает контекст запуска (для наблюдателей и тестов).
func (e *ReActExecution) RunCtx() *RunContext {
	return e.runCtx
}

// FinalSignal возвращает итоговый сигнал выполнения.
func (e *ReActExecution) FinalSignal() ExecutionSignal {
	return e.finalSignal
}
