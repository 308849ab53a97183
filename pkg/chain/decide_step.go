// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ilkoid/minagent/pkg/decision"
	"github.com/ilkoid/minagent/pkg/events"
	"github.com/ilkoid/minagent/pkg/llm"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/utils"
)

// DecideStep — шаг принятия решения (состояние DECIDING).
//
// Собирает решающий промпт из RunContext, вызывает модель через
// models.Registry и парсит ответ в Decision. Решение сохраняется в
// RunContext для следующего шага.
//
// Rule 4: LLM вызывается через llm.Provider.
// Rule 7: Ошибки транспорта и парсинга фатальны для запуска —
// возвращаются через StepResult, цикл их пробрасывает наружу.
type DecideStep struct {
	// modelRegistry — реестр LLM провайдеров
	modelRegistry *models.Registry

	// requestedModel — запрошенный алиас модели; пустая строка
	// означает модель по умолчанию из реестра
	requestedModel string

	// emitter — опциональный emitter для streaming-чанков
	emitter events.Emitter

	// recorder — опциональный рекордер транскрипта
	recorder *RunRecorder

	// streamingEnabled — включает потоковую генерацию, когда
	// провайдер её поддерживает и установлен emitter
	streamingEnabled bool
}

// Name возвращает имя Step (для логирования).
func (s *DecideStep) Name() string {
	return "decide"
}

// Execute выполняет один шаг решения.
//
// Алгоритм:
//  1. Собрать промпт из текущего состояния запуска
//  2. Разрешить провайдера (запрошенная модель или дефолтная)
//  3. Вызвать модель (стриминг при поддержке, иначе синхронно)
//  4. Распарсить fenced YAML решение
//  5. Сохранить решение в RunContext
//
// Отказ транспорта (*llm.TransportError) и отказ парсинга
// (*decision.ParseError) возвращаются как есть — errors.As работает
// у вызывающей стороны.
func (s *DecideStep) Execute(ctx context.Context, runCtx *RunContext) StepResult {
	promptText := runCtx.BuildPrompt()

	provider, modelDef, actualModel, err := s.modelRegistry.GetWithFallback(s.requestedModel)
	if err != nil {
		return StepResult{}.WithError(fmt.Errorf("failed to resolve model '%s': %w", s.requestedModel, err))
	}

	utils.Debug("Decide step started",
		"model", actualModel,
		"model_name", modelDef.ModelName,
		"prompt_length", len(promptText),
		"step", runCtx.GetCurrentStep())

	start := time.Now()
	raw, err := s.generate(ctx, provider, promptText)
	if err != nil {
		utils.Error("Decide step failed", "model", actualModel, "error", err)
		return StepResult{}.WithError(err)
	}
	durationMS := time.Since(start).Milliseconds()

	if s.recorder != nil {
		s.recorder.RecordModelCall(modelDef.ModelName, len(promptText), len(raw), durationMS)
	}

	d, err := decision.Parse(raw)
	if err != nil {
		utils.Error("Decision parsing failed", "model", actualModel, "error", err)
		return StepResult{}.WithError(err)
	}

	if s.recorder != nil {
		toolName := ""
		if name, _, ok := d.ToolCall(); ok {
			toolName = name
		}
		s.recorder.RecordDecision(d.Thinking, string(d.Action()), toolName)
	}

	runCtx.SetDecision(d)

	utils.Debug("Decision received",
		"action", string(d.Action()),
		"duration_ms", durationMS)

	return StepResult{
		Action: ActionContinue,
		Signal: SignalNone,
	}
}

// generate вызывает модель, предпочитая потоковый путь.
//
// Стриминг включается когда провайдер реализует llm.StreamingProvider,
// установлен emitter и включён streaming режим. Каждая дельта
// публикуется как EventThinkingChunk; накопленный текст идёт в парсер
// тем же путём, что и синхронный ответ.
func (s *DecideStep) generate(ctx context.Context, provider llm.Provider, promptText string) (string, error) {
	streamingProvider, ok := provider.(llm.StreamingProvider)
	if !ok || s.emitter == nil || !s.streamingEnabled {
		return provider.Generate(ctx, promptText)
	}

	return streamingProvider.GenerateStream(ctx, promptText, func(chunk llm.StreamChunk) {
		if chunk.Type != llm.ChunkContent {
			return
		}
		s.emitter.Emit(ctx, events.Event{
			Type: events.EventThinkingChunk,
			Data: events.ThinkingChunkData{
				Chunk:       chunk.Delta,
				Accumulated: chunk.Content,
			},
			Timestamp: time.Now(),
		})
	})
}
