// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ilkoid/minagent/pkg/decision"
	"github.com/ilkoid/minagent/pkg/events"
)

// EmitterObserver — наблюдатель, отправляющий терминальные события в Emitter.
//
// Реализует ExecutionObserver: единственная его работа — по завершении
// запуска отправить EventDone (успех) или EventError (отказ) через
// events.Emitter (Port & Adapter pattern).
//
// # Thread Safety
//
// Thread-safe при thread-safe events.Emitter. Каждому запуску — свой
// экземпляр наблюдателя.
type EmitterObserver struct {
	emitter events.Emitter
}

// NewEmitterObserver создаёт новый EmitterObserver.
func NewEmitterObserver(emitter events.Emitter) *EmitterObserver {
	return &EmitterObserver{
		emitter: emitter,
	}
}

// OnStart вызывается в начале выполнения Execute().
func (o *EmitterObserver) OnStart(ctx context.Context, exec *ReActExecution) {
	// Событие старта публикует исполнитель через EmitThinking
}

// OnStepStart вызывается в начале каждого шага.
func (o *EmitterObserver) OnStepStart(step int) {
	// Нет события для начала шага
}

// OnStepEnd вызывается в конце каждого шага.
func (o *EmitterObserver) OnStepEnd(step int) {
	// События отправляются в течение шага, не в конце
}

// OnFinish вызывается в конце выполнения Execute().
//
// Отправляет финальные события: EventDone (успех) или EventError (отказ).
func (o *EmitterObserver) OnFinish(result RunOutput, err error) {
	if o.emitter == nil {
		return
	}

	ctx := context.Background()

	if err != nil {
		o.emitter.Emit(ctx, events.Event{
			Type:      events.EventError,
			Data:      events.ErrorData{Err: err},
			Timestamp: time.Now(),
		})
		return
	}

	o.emitter.Emit(ctx, events.Event{
		Type:      events.EventDone,
		Data:      events.MessageData{Content: result.Answer},
		Timestamp: time.Now(),
	})
}

// Ensure EmitterObserver implements ExecutionObserver
var _ ExecutionObserver = (*EmitterObserver)(nil)

// EmitterIterationObserver — наблюдатель событий внутри шага.
//
// В отличие от ExecutionObserver (границы жизненного цикла), этот
// наблюдатель вызывается исполнителем вручную для конкретных событий
// шага: решение модели, вызов инструмента, observation, финальный ответ.
//
// # Thread Safety
//
// Thread-safe при thread-safe events.Emitter.
type EmitterIterationObserver struct {
	emitter events.Emitter
}

// NewEmitterIterationObserver создаёт новый EmitterIterationObserver.
func NewEmitterIterationObserver(emitter events.Emitter) *EmitterIterationObserver {
	return &EmitterIterationObserver{
		emitter: emitter,
	}
}

// EmitThinking отправляет EventThinking со стартовавшим запросом.
func (o *EmitterIterationObserver) EmitThinking(ctx context.Context, query string) {
	if o.emitter == nil {
		return
	}
	o.emitter.Emit(ctx, events.Event{
		Type:      events.EventThinking,
		Data:      events.ThinkingData{Query: query},
		Timestamp: time.Now(),
	})
}

// EmitDecision отправляет EventDecision с решением модели.
func (o *EmitterIterationObserver) EmitDecision(ctx context.Context, d decision.Decision) {
	if o.emitter == nil {
		return
	}
	toolName := ""
	if name, _, ok := d.ToolCall(); ok {
		toolName = name
	}
	o.emitter.Emit(ctx, events.Event{
		Type: events.EventDecision,
		Data: events.DecisionData{
			Action:   string(d.Action()),
			ToolName: toolName,
			Thinking: d.Thinking,
		},
		Timestamp: time.Now(),
	})
}

// EmitToolCall отправляет EventToolCall перед выполнением инструмента.
func (o *EmitterIterationObserver) EmitToolCall(ctx context.Context, toolName string, args any) {
	if o.emitter == nil {
		return
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		argsJSON = []byte(fmt.Sprintf("%v", args))
	}
	o.emitter.Emit(ctx, events.Event{
		Type: events.EventToolCall,
		Data: events.ToolCallData{
			ToolName: toolName,
			Args:     string(argsJSON),
		},
		Timestamp: time.Now(),
	})
}

// EmitToolResult отправляет EventToolResult с observation инструмента.
func (o *EmitterIterationObserver) EmitToolResult(ctx context.Context, toolName, result string, duration time.Duration) {
	if o.emitter == nil {
		return
	}
	o.emitter.Emit(ctx, events.Event{
		Type: events.EventToolResult,
		Data: events.ToolResultData{
			ToolName: toolName,
			Result:   result,
			Duration: duration,
		},
		Timestamp: time.Now(),
	})
}

// EmitMessage отправляет EventMessage с финальным ответом.
func (o *EmitterIterationObserver) EmitMessage(ctx context.Context, content string) {
	if o.emitter == nil {
		return
	}
	o.emitter.Emit(ctx, events.Event{
		Type:      events.EventMessage,
		Data:      events.MessageData{Content: content},
		Timestamp: time.Now(),
	})
}
