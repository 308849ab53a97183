// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ilkoid/minagent/pkg/decision"
	"github.com/ilkoid/minagent/pkg/utils"
)

// StepExecutor — интерфейс для исполнителей шагов цикла.
//
// StepExecutor отделяет логику исполнения от данных (ReActExecution):
//   - новые стратегии исполнения добавляются без изменения ReActCycle
//   - исполнители тестируются изолированно
//
// # Thread Safety
//
// Реализации получают изолированные ReActExecution на каждый запуск,
// поэтому конкурентное выполнение безопасно по построению.
type StepExecutor interface {
	// Execute выполняет цикл шагов и возвращает результат.
	//
	// Принимает ReActExecution как контейнер runtime состояния,
	// но не создаёт его — этим занимается ReActCycle.Execute().
	Execute(ctx context.Context, exec *ReActExecution) (RunOutput, error)
}

// ExecutionObserver — интерфейс наблюдения за жизненным циклом запуска.
//
// Изолирует сквозные концерны (телеметрия, транскрипты) от оркестрации:
// исполнитель уведомляет наблюдателей, а не вызывает Emit или запись
// напрямую. Телеметрия advisory-only — цикл не зависит от наблюдателей.
//
// # Реализации
//
// RunRecorder: пишет YAML-транскрипт запуска
//   - OnStart: открывает запись
//   - OnStepStart/OnStepEnd: границы шага
//   - OnFinish: финализирует и сохраняет файл
//
// EmitterObserver: отправляет терминальные события в UI
//   - OnFinish: EventDone (успех) или EventError (отказ)
//
// # Lifecycle Contract
//
//  1. OnStart вызывается один раз в начале запуска
//  2. OnStepStart/OnStepEnd вызываются на каждый шаг (нумерация с 1)
//  3. OnFinish вызывается один раз в конце (успех или ошибка)
type ExecutionObserver interface {
	OnStart(ctx context.Context, exec *ReActExecution)
	OnStepStart(step int)
	OnStepEnd(step int)
	OnFinish(result RunOutput, err error)
}

// ReActExecutor — базовая реализация StepExecutor для ReAct цикла.
//
// Разделение ответственности:
//   - ReActExecution — чистый контейнер данных (runtime state)
//   - ReActExecutor — логика цикла (DECIDING → CALLING_TOOL → …)
//   - Observers — сквозные концерны (транскрипт, события)
//
// # Цикл
//
// На каждый шаг (до MaxSteps):
//  1. Уведомить наблюдателей: OnStepStart
//  2. DecideStep: промпт → модель → решение
//  3. Отправить EventDecision через iterationObserver
//  4. action answer → зафиксировать ответ, SignalFinalAnswer, выход
//  5. action tool → EventToolCall, ToolCallStep, EventToolResult
//  6. Уведомить наблюдателей: OnStepEnd
//
// Исчерпание лимита шагов без ответа — *StepLimitError.
type ReActExecutor struct {
	// observers — наблюдатели жизненного цикла
	observers []ExecutionObserver

	// iterationObserver — наблюдатель событий внутри шага
	iterationObserver *EmitterIterationObserver
}

// NewReActExecutor создаёт новый ReActExecutor.
func NewReActExecutor() *ReActExecutor {
	return &ReActExecutor{
		observers: make([]ExecutionObserver, 0),
	}
}

// AddObserver добавляет наблюдателя за выполнением.
//
// Thread-safe: вызывается до Execute(), не требует синхронизации.
func (e *ReActExecutor) AddObserver(observer ExecutionObserver) {
	e.observers = append(e.observers, observer)
}

// SetIterationObserver устанавливает наблюдатель событий внутри шага.
//
// Thread-safe: вызывается до Execute(), не требует синхронизации.
func (e *ReActExecutor) SetIterationObserver(observer *EmitterIterationObserver) {
	e.iterationObserver = observer
}

// Execute выполняет ReAct цикл.
//
// Машина состояний: DECIDING → (CALLING_TOOL → DECIDING)* → DONE.
// Один шаг = один вызов модели.
//
// Thread-safe: использует изолированный ReActExecution.
func (e *ReActExecutor) Execute(ctx context.Context, exec *ReActExecution) (RunOutput, error) {
	e.initializeExecution(ctx, exec)

	steps := 0
	for steps = 0; steps < exec.config.MaxSteps; steps++ {
		e.notifyStepStart(steps)
		exec.runCtx.IncrementStep()

		// DECIDING
		d, err := e.executeDecideStep(ctx, exec)
		if err != nil {
			return e.notifyFinishWithError(exec, err)
		}

		// action answer → DONE
		if answer, isAnswer := d.Answer(); isAnswer {
			exec.runCtx.SetFinalAnswer(answer)
			exec.finalSignal = SignalFinalAnswer
			e.notifyStepEnd(steps)
			break
		}

		// CALLING_TOOL → обратно в DECIDING
		if err := e.executeToolStep(ctx, exec); err != nil {
			return e.notifyFinishWithError(exec, err)
		}

		e.notifyStepEnd(steps)
	}

	if exec.finalSignal != SignalFinalAnswer {
		exec.finalSignal = SignalStepLimit
		return e.notifyFinishWithError(exec, &StepLimitError{Steps: exec.config.MaxSteps})
	}

	return e.finalizeExecution(ctx, exec, steps)
}

// initializeExecution инициализирует выполнение цикла.
//
// Уведомляет наблюдателей и публикует событие старта запроса.
func (e *ReActExecutor) initializeExecution(ctx context.Context, exec *ReActExecution) {
	for _, obs := range e.observers {
		obs.OnStart(ctx, exec)
	}

	if e.iterationObserver != nil {
		e.iterationObserver.EmitThinking(ctx, exec.runCtx.Input.Query)
	}
}

// executeDecideStep выполняет шаг решения и публикует EventDecision.
func (e *ReActExecutor) executeDecideStep(ctx context.Context, exec *ReActExecution) (decision.Decision, error) {
	result := exec.decideStep.Execute(ctx, exec.runCtx)
	if result.Action == ActionError || result.Error != nil {
		err := result.Error
		if err == nil {
			err = fmt.Errorf("decide step failed")
		}
		return decision.Decision{}, err
	}

	d, ok := exec.runCtx.GetDecision()
	if !ok {
		return decision.Decision{}, fmt.Errorf("decide step stored no decision")
	}

	if e.iterationObserver != nil {
		e.iterationObserver.EmitDecision(ctx, d)
		if name, args, isTool := d.ToolCall(); isTool {
			e.iterationObserver.EmitToolCall(ctx, name, args)
		}
	}

	return d, nil
}

// executeToolStep выполняет шаг инструмента и публикует EventToolResult.
//
// Отказы инструментов сюда не доходят — они свёрнуты в observation
// внутри ToolCallStep; ошибка здесь означает отмену запуска или
// нарушение инварианта.
func (e *ReActExecutor) executeToolStep(ctx context.Context, exec *ReActExecution) error {
	result := exec.toolStep.Execute(ctx, exec.runCtx)

	utils.Debug("Tool step completed",
		"step", exec.runCtx.GetCurrentStep(),
		"action", result.Action.String(),
		"error", result.Error)

	if result.Action == ActionError || result.Error != nil {
		err := result.Error
		if err == nil {
			err = fmt.Errorf("tool step failed")
		}
		return err
	}

	if e.iterationObserver != nil {
		for _, tr := range exec.toolStep.GetToolResults() {
			e.iterationObserver.EmitToolResult(ctx, tr.Name, tr.Result, time.Duration(tr.Duration)*time.Millisecond)
		}
	}

	return nil
}

// finalizeExecution формирует RunOutput и уведомляет наблюдателей.
func (e *ReActExecutor) finalizeExecution(ctx context.Context, exec *ReActExecution, steps int) (RunOutput, error) {
	answer := exec.runCtx.GetFinalAnswer()

	utils.Debug("ReAct cycle completed",
		"steps", steps+1,
		"answer_length", len(answer),
		"duration_ms", time.Since(exec.startTime).Milliseconds())

	if e.iterationObserver != nil {
		e.iterationObserver.EmitMessage(ctx, answer)
	}

	output := RunOutput{
		Answer:    answer,
		Steps:     steps + 1,
		Duration:  time.Since(exec.startTime),
		ToolCalls: exec.runCtx.GetRecords(),
		Signal:    exec.finalSignal,
	}

	for _, obs := range e.observers {
		obs.OnFinish(output, nil)
	}

	// Путь к транскрипту известен только после финализации рекордера
	if exec.recorder != nil {
		output.TranscriptPath = exec.recorder.TranscriptPath()
	}

	return output, nil
}

// Helper methods for observer notifications

func (e *ReActExecutor) notifyStepStart(step int) {
	for _, obs := range e.observers {
		obs.OnStepStart(step + 1)
	}
}

func (e *ReActExecutor) notifyStepEnd(step int) {
	for _, obs := range e.observers {
		obs.OnStepEnd(step + 1)
	}
}

// notifyFinishWithError завершает выполнение с ошибкой и уведомляет наблюдателей.
//
// EmitterObserver отправит EventError, RunRecorder финализирует транскрипт.
func (e *ReActExecutor) notifyFinishWithError(exec *ReActExecution, err error) (RunOutput, error) {
	for _, obs := range e.observers {
		obs.OnFinish(RunOutput{}, err)
	}

	return RunOutput{}, err
}

// Ensure ReActExecutor implements StepExecutor
var _ StepExecutor = (*ReActExecutor)(nil)
