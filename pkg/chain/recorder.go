// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ilkoid/minagent/pkg/utils"
	"gopkg.in/yaml.v3"
)

// maxRecordedResultChars — лимит размера observation в транскрипте.
const maxRecordedResultChars = 2000

// RunRecorder записывает YAML-транскрипт одного запуска.
//
// Реализует ExecutionObserver: границы запуска и шагов приходят через
// уведомления исполнителя, содержимое шагов (вызовы модели, решения,
// вызовы инструментов) — через Record* методы из шагов цикла.
//
// Advisory-only: отказ записи никогда не влияет на результат запуска.
//
// Потокобезопасен, но рассчитан на один запуск — ReActCycle.Execute
// создаёт свежий рекордер на каждый вызов.
type RunRecorder struct {
	mu sync.Mutex

	// logsDir — директория для транскриптов
	logsDir string

	// log — накапливаемый транскрипт
	log RunLog

	// currentStep — текущий шаг (заполняется по мере выполнения)
	currentStep *StepTrace

	// toolsSeen — множество уникальных инструментов
	toolsSeen map[string]struct{}

	// path — путь сохранённого файла (после финализации)
	path string
}

// RunLog — структура YAML-транскрипта.
type RunLog struct {
	RunID       string     `yaml:"run_id"`
	StartedAt   time.Time  `yaml:"started_at"`
	Query       string     `yaml:"query"`
	Steps       []StepTrace `yaml:"steps"`
	FinalAnswer string     `yaml:"final_answer,omitempty"`
	Error       string     `yaml:"error,omitempty"`
	DurationMS  int64      `yaml:"duration_ms"`
	Summary     RunSummary `yaml:"summary"`
}

// StepTrace — один шаг цикла в транскрипте.
type StepTrace struct {
	Number          int         `yaml:"step"`
	Model           string      `yaml:"model,omitempty"`
	PromptChars     int         `yaml:"prompt_chars,omitempty"`
	ResponseChars   int         `yaml:"response_chars,omitempty"`
	ModelDurationMS int64       `yaml:"model_duration_ms,omitempty"`
	Thinking        string      `yaml:"thinking,omitempty"`
	Action          string      `yaml:"action,omitempty"`
	ToolName        string      `yaml:"tool_name,omitempty"`
	ToolCalls       []ToolTrace `yaml:"tool_calls,omitempty"`
}

// ToolTrace — один вызов инструмента в транскрипте.
type ToolTrace struct {
	Name       string `yaml:"name"`
	Args       string `yaml:"args,omitempty"`
	Result     string `yaml:"result,omitempty"`
	DurationMS int64  `yaml:"duration_ms"`
	Success    bool   `yaml:"success"`
}

// RunSummary — агрегированная статистика запуска.
type RunSummary struct {
	ModelCalls int      `yaml:"model_calls"`
	ToolCalls  int      `yaml:"tool_calls"`
	ToolsUsed  []string `yaml:"tools_used,omitempty"`
	Failures   int      `yaml:"failures,omitempty"`
}

// NewRunRecorder создаёт рекордер с директорией для транскриптов.
//
// Если директория не существует, пытается создать её.
func NewRunRecorder(logsDir string) (*RunRecorder, error) {
	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create transcripts directory: %w", err)
		}
	}

	runID := fmt.Sprintf("run_%s", time.Now().Format("20060102_150405.000"))

	return &RunRecorder{
		logsDir: logsDir,
		log: RunLog{
			RunID:     runID,
			StartedAt: time.Now(),
		},
		toolsSeen: make(map[string]struct{}),
	}, nil
}

// OnStart начинает запись запуска.
func (r *RunRecorder) OnStart(ctx context.Context, exec *ReActExecution) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Query = exec.runCtx.Input.Query
	r.log.StartedAt = time.Now()
}

// OnStepStart начинает запись нового шага.
func (r *RunRecorder) OnStepStart(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.currentStep = &StepTrace{Number: step}
}

// OnStepEnd завершает запись текущего шага.
func (r *RunRecorder) OnStepEnd(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentStep != nil {
		r.log.Steps = append(r.log.Steps, *r.currentStep)
		r.currentStep = nil
	}
}

// RecordModelCall записывает параметры вызова модели.
func (r *RunRecorder) RecordModelCall(model string, promptChars, responseChars int, durationMS int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentStep == nil {
		return
	}
	r.currentStep.Model = model
	r.currentStep.PromptChars = promptChars
	r.currentStep.ResponseChars = responseChars
	r.currentStep.ModelDurationMS = durationMS
}

// RecordDecision записывает разобранное решение модели.
func (r *RunRecorder) RecordDecision(thinking, action, toolName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentStep == nil {
		return
	}
	r.currentStep.Thinking = thinking
	r.currentStep.Action = action
	r.currentStep.ToolName = toolName
}

// RecordToolCall записывает выполнение инструмента.
func (r *RunRecorder) RecordToolCall(name, args, result string, durationMS int64, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentStep == nil {
		return
	}

	r.currentStep.ToolCalls = append(r.currentStep.ToolCalls, ToolTrace{
		Name:       name,
		Args:       args,
		Result:     utils.Truncate(result, maxRecordedResultChars),
		DurationMS: durationMS,
		Success:    success,
	})

	r.toolsSeen[name] = struct{}{}
	if !success {
		r.log.Summary.Failures++
	}
}

// OnFinish финализирует транскрипт и сохраняет его в файл.
//
// Незакрытый шаг (завершение с ошибкой посреди шага) дописывается.
func (r *RunRecorder) OnFinish(result RunOutput, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentStep != nil {
		r.log.Steps = append(r.log.Steps, *r.currentStep)
		r.currentStep = nil
	}

	r.log.FinalAnswer = result.Answer
	if err != nil {
		r.log.Error = err.Error()
	}
	r.log.DurationMS = time.Since(r.log.StartedAt).Milliseconds()
	r.buildSummary()

	data, marshalErr := yaml.Marshal(&r.log)
	if marshalErr != nil {
		utils.Warn("Failed to marshal run transcript", "run_id", r.log.RunID, "error", marshalErr)
		return
	}

	path := r.filePath()
	if writeErr := os.WriteFile(path, data, 0644); writeErr != nil {
		utils.Warn("Failed to write run transcript", "path", path, "error", writeErr)
		return
	}
	r.path = path
}

// buildSummary формирует агрегированную статистику.
func (r *RunRecorder) buildSummary() {
	r.log.Summary.ModelCalls = len(r.log.Steps)

	toolCalls := 0
	for _, step := range r.log.Steps {
		toolCalls += len(step.ToolCalls)
	}
	r.log.Summary.ToolCalls = toolCalls

	toolsUsed := make([]string, 0, len(r.toolsSeen))
	for name := range r.toolsSeen {
		toolsUsed = append(toolsUsed, name)
	}
	sort.Strings(toolsUsed)
	r.log.Summary.ToolsUsed = toolsUsed
}

// filePath возвращает путь файла транскрипта.
func (r *RunRecorder) filePath() string {
	if r.logsDir != "" {
		return filepath.Join(r.logsDir, r.log.RunID+".yaml")
	}
	return r.log.RunID + ".yaml"
}

// TranscriptPath возвращает путь сохранённого транскрипта.
//
// Пустая строка до финализации или при отказе записи.
func (r *RunRecorder) TranscriptPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// GetRunID возвращает идентификатор запуска.
func (r *RunRecorder) GetRunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.RunID
}

// Ensure RunRecorder implements ExecutionObserver
var _ ExecutionObserver = (*RunRecorder)(nil)
