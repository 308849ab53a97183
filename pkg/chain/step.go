// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"
	"fmt"
)

// NextAction определяет поведение цикла после выполнения Step.
type NextAction int

const (
	// ActionContinue — продолжить выполнение (следующий шаг цикла).
	ActionContinue NextAction = iota

	// ActionBreak — завершить цикл и вернуть результат.
	// Используется при получении финального ответа.
	ActionBreak

	// ActionError — прервать выполнение с ошибкой.
	ActionError
)

// String возвращает строковое представление NextAction (для дебага).
func (a NextAction) String() string {
	switch a {
	case ActionContinue:
		return "Continue"
	case ActionBreak:
		return "Break"
	case ActionError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ExecutionSignal уточняет условие завершения цикла.
//
// Action говорит циклу ЧТО делать дальше, Signal — ПОЧЕМУ.
type ExecutionSignal int

const (
	// SignalNone — нормальное продолжение, особых условий нет.
	SignalNone ExecutionSignal = iota

	// SignalFinalAnswer — модель дала финальный ответ.
	SignalFinalAnswer

	// SignalStepLimit — исчерпан лимит шагов без финального ответа.
	SignalStepLimit

	// SignalError — ошибка выполнения.
	SignalError
)

// String возвращает строковое представление ExecutionSignal (для дебага).
func (s ExecutionSignal) String() string {
	switch s {
	case SignalNone:
		return "None"
	case SignalFinalAnswer:
		return "FinalAnswer"
	case SignalStepLimit:
		return "StepLimit"
	case SignalError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// StepResult — результат выполнения одного Step.
//
// Нулевое значение — {ActionContinue, SignalNone, nil}, то есть
// "продолжаем без особых условий".
type StepResult struct {
	// Action — что делать дальше (continue/break/error)
	Action NextAction

	// Signal — типизированное условие завершения
	Signal ExecutionSignal

	// Error — ошибка выполнения (для ActionError)
	Error error
}

// WithError возвращает StepResult с ошибкой.
//
// Всегда выставляет ActionError + SignalError.
func (r StepResult) WithError(err error) StepResult {
	return StepResult{
		Action: ActionError,
		Signal: SignalError,
		Error:  err,
	}
}

// String возвращает строковое представление StepResult (для дебага).
func (r StepResult) String() string {
	return fmt.Sprintf("StepResult{Action: %s, Signal: %s, Error: %v}", r.Action, r.Signal, r.Error)
}

// Step представляет атомарный шаг выполнения цикла.
//
// Step является изолированным, тестируемым и переиспользуемым компонентом.
// Каждый Step работает с RunContext через thread-safe методы.
//
// Rule 7: Step возвращает ошибку (не panic) внутри StepResult.
//
// Реализации:
//   - DecideStep — собирает промпт, вызывает модель, парсит решение
//   - ToolCallStep — выполняет выбранный инструмент, записывает observation
type Step interface {
	// Name возвращает уникальное имя Step (для логирования).
	Name() string

	// Execute выполняет Step.
	//
	// Step НЕ должен модифицировать RunInput напрямую.
	// Все изменения состояния должны проходить через методы RunContext.
	Execute(ctx context.Context, runCtx *RunContext) StepResult
}

// StepFunc — функциональная обёртка для простых Step.
//
// Позволяет создавать Step на лету без структур (удобно в тестах).
type StepFunc struct {
	name string
	fn   func(context.Context, *RunContext) StepResult
}

// Name возвращает имя StepFunc.
func (s StepFunc) Name() string {
	return s.name
}

// Execute выполняет функцию StepFunc.
func (s StepFunc) Execute(ctx context.Context, runCtx *RunContext) StepResult {
	return s.fn(ctx, runCtx)
}

// NewStepFunc создаёт новый StepFunc из функции.
func NewStepFunc(name string, fn func(context.Context, *RunContext) StepResult) Step {
	return StepFunc{
		name: name,
		fn:   fn,
	}
}
