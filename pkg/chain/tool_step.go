// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ilkoid/minagent/pkg/state"
	"github.com/ilkoid/minagent/pkg/utils"
)

// ToolCallStep — шаг выполнения инструмента (состояние CALLING_TOOL).
//
// Берёт последнее решение из RunContext, находит инструмент в реестре и
// выполняет его с защитным timeout. Любой отказ (нет инструмента, ошибка
// выполнения, timeout) сворачивается в observation-строку: запись о
// вызове добавляется в run context В ЛЮБОМ СЛУЧАЕ, и цикл возвращается
// к шагу решения. Ошибкой StepResult становятся только отмена запуска
// и нарушения внутренних инвариантов.
//
// Rule 1: Работает с Tool interface ("Raw In, String Out").
// Rule 3: Tools вызываются через Registry.
type ToolCallStep struct {
	// recorder — опциональный рекордер транскрипта
	recorder *RunRecorder

	// startTime — время начала выполнения step
	startTime time.Time

	// toolResults — результаты вызовов этого шага (для событий)
	toolResults []ToolResult

	// defaultToolTimeout — защитный timeout для выполнения инструментов
	defaultToolTimeout time.Duration

	// toolTimeouts — переопределение timeout для конкретных инструментов
	toolTimeouts map[string]time.Duration
}

// ToolResult — результат выполнения одного инструмента.
//
// Result — всегда observation-строка (успех или свёрнутый отказ).
type ToolResult struct {
	Name     string
	Args     string
	Result   string
	Duration int64
	Success  bool
}

// Name возвращает имя Step (для логирования).
func (s *ToolCallStep) Name() string {
	return "tool_call"
}

// Execute выполняет инструмент из последнего решения.
//
// Возвращает:
//   - StepResult{Action: ActionContinue} — вызов записан (успех или
//     свёрнутый отказ), цикл продолжается
//   - StepResult с ошибкой — отменён контекст запуска или в контексте
//     нет tool-решения (нарушение инварианта цикла)
func (s *ToolCallStep) Execute(ctx context.Context, runCtx *RunContext) StepResult {
	s.startTime = time.Now()
	s.toolResults = make([]ToolResult, 0, 1)

	// 1. Достаём tool-решение из контекста
	d, ok := runCtx.GetDecision()
	if !ok {
		return StepResult{}.WithError(fmt.Errorf("no decision in run context"))
	}
	name, args, ok := d.ToolCall()
	if !ok {
		return StepResult{}.WithError(fmt.Errorf("decision is not a tool call"))
	}

	// 2. Сериализуем аргументы решения в JSON (Rule 1: Raw In, String Out)
	argsJSON, err := json.Marshal(args)
	if err != nil {
		// tool_args приходит из YAML парсера, несериализуемые значения
		// сюда не попадают; на всякий случай сворачиваем в отказ вызова
		argsJSON = []byte("{}")
	}

	// 3. Выполняем с защитным timeout
	start := time.Now()
	output, toolErr := s.invokeTool(ctx, runCtx, name, string(argsJSON))
	durationMS := time.Since(start).Milliseconds()

	// Отмена всего запуска — не observation
	if ctx.Err() != nil {
		return StepResult{}.WithError(ctx.Err())
	}

	// 4. Сворачиваем отказ в observation на границе записи
	observation := output
	success := true
	if toolErr != nil {
		observation = toolErr.Observation()
		success = false
		utils.Warn("Tool call failed",
			"tool", name,
			"kind", string(toolErr.Kind),
			"duration_ms", durationMS)
	}

	// 5. Запись о вызове добавляется в любом случае
	runCtx.AppendRecord(state.ToolCallRecord{
		Tool:   name,
		Args:   args,
		Result: observation,
	})

	s.toolResults = append(s.toolResults, ToolResult{
		Name:     name,
		Args:     string(argsJSON),
		Result:   observation,
		Duration: durationMS,
		Success:  success,
	})

	if s.recorder != nil {
		s.recorder.RecordToolCall(name, string(argsJSON), observation, durationMS, success)
	}

	return StepResult{
		Action: ActionContinue,
		Signal: SignalNone,
	}
}

// invokeTool выполняет один вызов инструмента.
//
// Result-style: (observation, *ToolError). Отказ классифицируется по
// ToolErrorKind, в строку он сворачивается только у вызывающей стороны.
//
// Tool Timeout Protection:
//   - defaultToolTimeout защищает цикл от зависшего инструмента
//   - конкретный timeout переопределяется через SetToolTimeout()
//   - при timeout инструмент отменяется через context, цикл продолжается
func (s *ToolCallStep) invokeTool(ctx context.Context, runCtx *RunContext, name, argsJSON string) (string, *ToolError) {
	// 1. Получаем tool из registry (Rule 3)
	tool, err := runCtx.Input.Registry.Get(name)
	if err != nil {
		return "", &ToolError{Kind: ToolErrorNotFound, Tool: name, Err: err}
	}

	// 2. Определяем timeout для этого инструмента
	timeout := s.defaultToolTimeout
	if customTimeout, exists := s.toolTimeouts[name]; exists {
		timeout = customTimeout
	}
	if timeout <= 0 {
		// нулевой timeout означал бы мгновенно истёкший контекст
		timeout = DefaultToolTimeout
	}

	// 3. Создаём контекст с timeout для защиты от зависания
	toolCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// 4. Выполняем tool в отдельной goroutine для возможности отмены
	type execResult struct {
		output string
		err    error
	}
	resultChan := make(chan execResult, 1)

	go func() {
		execOutput, execErr := tool.Execute(toolCtx, argsJSON)
		resultChan <- execResult{execOutput, execErr}
	}()

	// 5. Ждём результат или timeout
	select {
	case <-toolCtx.Done():
		return "", &ToolError{
			Kind: ToolErrorTimeout,
			Tool: name,
			Err:  fmt.Errorf("tool execution timeout after %v", timeout),
		}

	case res := <-resultChan:
		if res.err != nil {
			return "", &ToolError{Kind: ToolErrorExecution, Tool: name, Err: res.err}
		}
		return res.output, nil
	}
}

// GetToolResults возвращает результаты вызовов последнего Execute.
func (s *ToolCallStep) GetToolResults() []ToolResult {
	return s.toolResults
}

// GetDuration возвращает длительность выполнения step.
func (s *ToolCallStep) GetDuration() time.Duration {
	return time.Since(s.startTime)
}

// SetDefaultToolTimeout устанавливает защитный timeout для всех инструментов.
//
// Если tool не завершится за это время, он будет отменён.
// Дефолтное значение: 30 секунд.
//
// Thread-safe: вызывать до начала Execute().
func (s *ToolCallStep) SetDefaultToolTimeout(timeout time.Duration) {
	s.defaultToolTimeout = timeout
}

// SetToolTimeout устанавливает индивидуальный timeout для конкретного инструмента.
//
// Переопределяет defaultToolTimeout для указанного инструмента.
// Полезно для медленных API (например, batch операции).
//
// Thread-safe: вызывать до начала Execute().
func (s *ToolCallStep) SetToolTimeout(toolName string, timeout time.Duration) {
	if s.toolTimeouts == nil {
		s.toolTimeouts = make(map[string]time.Duration)
	}
	s.toolTimeouts[toolName] = timeout
}

// GetDefaultToolTimeout возвращает текущий default timeout.
func (s *ToolCallStep) GetDefaultToolTimeout() time.Duration {
	return s.defaultToolTimeout
}
