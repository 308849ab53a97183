// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ilkoid/minagent/pkg/decision"
	"github.com/ilkoid/minagent/pkg/prompt"
	"github.com/ilkoid/minagent/pkg/state"
)

// RunContext содержит состояние выполнения одного запуска.
//
// Thread-safe через sync.RWMutex (Rule 5).
// Все изменения состояния должны проходить через методы этого типа.
//
// Жизненный цикл: создаётся на каждый Execute(), мутируется шагами цикла,
// терминальные поля (финальный ответ, записи вызовов) копируются в
// RunOutput перед завершением.
type RunContext struct {
	mu sync.RWMutex

	// Входные данные (неизменяемые после создания)
	Input *RunInput

	// Текущее состояние
	currentStep int
	records     []state.ToolCallRecord

	// Последнее решение модели (потребляется следующим шагом)
	lastDecision decision.Decision
	hasDecision  bool

	// Финальный ответ (заполняется при action answer)
	finalAnswer string
}

// NewRunContext создаёт новый контекст выполнения запуска.
func NewRunContext(input RunInput) *RunContext {
	return &RunContext{
		Input:   &input,
		records: make([]state.ToolCallRecord, 0, 4),
	}
}

// GetInput возвращает входные данные (thread-safe).
func (c *RunContext) GetInput() *RunInput {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Input
}

// GetCurrentStep возвращает номер текущего шага (thread-safe).
func (c *RunContext) GetCurrentStep() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentStep
}

// IncrementStep увеличивает счётчик шагов (thread-safe).
func (c *RunContext) IncrementStep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentStep++
	return c.currentStep
}

// GetRecords возвращает копию записей вызовов инструментов (thread-safe).
func (c *RunContext) GetRecords() []state.ToolCallRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Возвращаем копию для избежания race conditions
	result := make([]state.ToolCallRecord, len(c.records))
	copy(result, c.records)
	return result
}

// AppendRecord добавляет запись вызова инструмента (thread-safe).
//
// Record.Result — уже observation-строка: отказы свёрнуты в текст
// до этой точки (см. ToolError.Observation).
func (c *RunContext) AppendRecord(record state.ToolCallRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, record)
}

// GetDecision возвращает последнее решение модели (thread-safe).
//
// Второе значение false, если решений ещё не было.
func (c *RunContext) GetDecision() (decision.Decision, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastDecision, c.hasDecision
}

// SetDecision сохраняет решение модели (thread-safe).
//
// Перезаписывает предыдущее: решение живёт ровно один виток цикла.
func (c *RunContext) SetDecision(d decision.Decision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastDecision = d
	c.hasDecision = true
}

// GetFinalAnswer возвращает финальный ответ (thread-safe).
func (c *RunContext) GetFinalAnswer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.finalAnswer
}

// SetFinalAnswer устанавливает финальный ответ (thread-safe).
func (c *RunContext) SetFinalAnswer(answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalAnswer = answer
}

// BuildPrompt собирает решающий промпт из текущего состояния (thread-safe).
//
// В промпт попадают: системный промпт, история, запрос, каталог
// инструментов и последние вызовы этого запуска. Сборка детерминирована —
// одинаковое состояние даёт байт-в-байт одинаковый промпт.
func (c *RunContext) BuildPrompt() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	in := prompt.Inputs{
		BasePrompt:  c.Input.BasePrompt,
		History:     c.Input.History,
		Query:       c.Input.Query,
		RecentCalls: c.records,
	}
	if c.Input.Registry != nil {
		in.Tools = c.Input.Registry.Specs()
	}

	return prompt.Build(in)
}

// String возвращает строковое представление контекста (для дебага).
func (c *RunContext) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString("RunContext{")
	sb.WriteString(fmt.Sprintf("Step: %d, ", c.currentStep))
	sb.WriteString(fmt.Sprintf("Records: %d, ", len(c.records)))
	sb.WriteString(fmt.Sprintf("HasDecision: %t", c.hasDecision))
	if c.finalAnswer != "" {
		sb.WriteString(", FinalAnswer: set")
	}
	sb.WriteString("}")

	return sb.String()
}
