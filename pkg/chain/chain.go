// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
//
// Цикл на каждый запрос: собрать решающий промпт → спросить модель →
// распарсить решение → выполнить инструмент → записать observation →
// повторить, пока модель не даст финальный ответ или не исчерпан лимит шагов.
//
// Каждый шаг (Step) является изолированным, тестируемым и переиспользуемым.
//
// Правила из dev_manifest.md:
//   - Rule 1: Работает с Tool interface ("Raw In, String Out")
//   - Rule 3: Tools вызываются через Registry
//   - Rule 4: LLM вызывается через llm.Provider
//   - Rule 5: Thread-safe через RunContext
//   - Rule 7: Все ошибки возвращаются, нет panic
//   - Rule 10: Godoc на всех public API
package chain

import (
	"context"
	"time"

	"github.com/ilkoid/minagent/pkg/state"
	"github.com/ilkoid/minagent/pkg/tools"
)

// Chain представляет управляющий цикл для выполнения одного запроса.
//
// Chain является иммутабельным после создания и thread-safe для выполнения.
type Chain interface {
	// Execute выполняет цикл и возвращает результат.
	Execute(ctx context.Context, input RunInput) (RunOutput, error)
}

// RunInput — входные данные одного запуска.
//
// История передаётся уже отрендеренной строкой (см. prompt.FormatHistory):
// цикл не владеет персистентным состоянием, этим занимается вызывающая
// сторона (pkg/agent или ReActCycle.Run).
type RunInput struct {
	// Query — запрос пользователя
	Query string

	// BasePrompt — системный промпт агента
	BasePrompt string

	// History — отрендеренная история диалога
	History string

	// Registry — реестр инструментов (Rule 3)
	Registry *tools.Registry
}

// RunOutput — результат выполнения цикла.
type RunOutput struct {
	// Answer — финальный ответ агента
	Answer string

	// Steps — количество выполненных шагов (вызовов модели)
	Steps int

	// Duration — общее время выполнения
	Duration time.Duration

	// ToolCalls — записи вызовов инструментов этого запуска
	ToolCalls []state.ToolCallRecord

	// TranscriptPath — путь к YAML-транскрипту запуска (если записан)
	TranscriptPath string

	// Signal — типизированный сигнал завершения:
	//   - SignalFinalAnswer: получен финальный ответ
	//   - SignalStepLimit: исчерпан лимит шагов
	//   - SignalError: ошибка выполнения
	Signal ExecutionSignal
}
