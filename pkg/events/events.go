// Package events предоставляет интерфейсы для реализации Port & Adapter паттерна.
//
// Это Port (интерфейс) для подписки на события цикла агента.
// Позволяет подключать любые UI (TUI, CLI-трейсер, Web) без изменения
// библиотечной логики. Телеметрия advisory-only: цикл никогда не зависит
// от того, слушает ли кто-то события.
//
// # Port & Adapter Pattern
//
//	Port — это интерфейс (Emitter, Subscriber), определённый в библиотеке.
//	Adapter — это реализация для конкретного UI (TUI, трейсер, etc).
//
// # Basic Usage
//
//	// В библиотеке (pkg/agent/):
//	client.SetEmitter(events.NewChanEmitter(100))
//
//	// В UI:
//	sub := client.Subscribe()
//	for event := range sub.Events() {
//	    switch event.Type {
//	    case events.EventDecision:
//	        ui.showDecision(event.Data)
//	    case events.EventMessage:
//	        ui.showMessage(event.Data)
//	    }
//	}
//
// # Thread Safety
//
// Все реализации интерфейсов должны быть thread-safe.
//
// # Rule 11: Context Propagation
//
// Emitter.Emit() принимает context.Context для отмены операции.
package events

import (
	"context"
	"time"
)

// EventType представляет тип события от агента.
type EventType string

const (
	// EventThinking отправляется при старте обработки запроса.
	EventThinking EventType = "thinking"

	// EventThinkingChunk отправляется для каждой порции streaming-ответа
	// модели на шаге принятия решения.
	EventThinkingChunk EventType = "thinking_chunk"

	// EventDecision отправляется когда модель приняла решение
	// (вызвать инструмент или дать финальный ответ).
	EventDecision EventType = "decision"

	// EventToolCall отправляется когда агент вызывает инструмент.
	EventToolCall EventType = "tool_call"

	// EventToolResult отправляется когда инструмент вернул observation.
	EventToolResult EventType = "tool_result"

	// EventMessage отправляется когда агент сформировал финальный ответ.
	EventMessage EventType = "message"

	// EventError отправляется при фатальной ошибке выполнения.
	EventError EventType = "error"

	// EventDone отправляется когда запуск завершён.
	EventDone EventType = "done"
)

// EventData — sealed interface для данных события.
//
// Только типы из пакета events могут реализовать этот интерфейс,
// что обеспечивает compile-time type safety.
type EventData interface {
	eventData()
}

// ThinkingData содержит данные для EventThinking.
type ThinkingData struct {
	Query string
}

func (ThinkingData) eventData() {}

// ThinkingChunkData содержит данные для EventThinkingChunk.
type ThinkingChunkData struct {
	// Chunk — инкрементальные данные (delta)
	Chunk string

	// Accumulated — накопленный текст ответа модели на данный момент
	Accumulated string
}

func (ThinkingChunkData) eventData() {}

// DecisionData содержит данные для EventDecision.
type DecisionData struct {
	// Action — "tool" или "answer"
	Action string

	// ToolName заполнено, когда Action == "tool"
	ToolName string

	// Thinking — reasoning модели из решения (может быть пустым)
	Thinking string
}

func (DecisionData) eventData() {}

// ToolCallData содержит данные о вызове инструмента.
type ToolCallData struct {
	ToolName string
	Args     string // JSON-представление аргументов
}

func (ToolCallData) eventData() {}

// ToolResultData содержит observation инструмента.
//
// Result — уже observation-строка: ошибки инструментов свёрнуты в текст
// ("Error calling ..."), отдельного error-поля нет.
type ToolResultData struct {
	ToolName string
	Result   string
	Duration time.Duration
}

func (ToolResultData) eventData() {}

// MessageData содержит данные для EventMessage и EventDone.
type MessageData struct {
	Content string
}

func (MessageData) eventData() {}

// ErrorData содержит данные для EventError.
type ErrorData struct {
	Err error
}

func (ErrorData) eventData() {}

// Event представляет событие от агента.
//
// Для каждого EventType существует соответствующий тип данных:
//   - EventThinking: ThinkingData (запрос пользователя)
//   - EventThinkingChunk: ThinkingChunkData (порция ответа модели)
//   - EventDecision: DecisionData (решение модели)
//   - EventToolCall: ToolCallData (имя инструмента, аргументы)
//   - EventToolResult: ToolResultData (observation)
//   - EventMessage: MessageData (финальный ответ)
//   - EventError: ErrorData (ошибка)
//   - EventDone: MessageData (финальный ответ)
type Event struct {
	Type      EventType
	Data      EventData
	Timestamp time.Time
}

// Emitter — это Port для отправки событий.
//
// Emitter инвертирует зависимость: библиотека (pkg/chain, pkg/agent)
// зависит от этого интерфейса, а не от конкретного UI.
//
// Rule 11: все операции должны уважать context.Context.
type Emitter interface {
	// Emit отправляет событие.
	//
	// Если context отменён, операция должна прерваться без блокировки.
	Emit(ctx context.Context, event Event)
}

// Subscriber позволяет читать события из канала.
//
// Rule 5: thread-safe операции.
type Subscriber interface {
	// Events возвращает read-only канал событий.
	//
	// Канал закрывается при вызове Close() у владельца-эмиттера.
	Events() <-chan Event

	// Close освобождает ресурсы подписчика.
	Close()
}
