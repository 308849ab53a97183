// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/state"
	"github.com/ilkoid/minagent/pkg/tools"
)

// TestChainInterface verifies that ReActCycle implements Chain and Agent.
func TestChainInterface(t *testing.T) {
	var _ Chain = (*ReActCycle)(nil)
	var _ Agent = (*ReActCycle)(nil)
}

// TestNewReActCycleInvalidConfigFallsBack проверяет откат на дефолтную
// конфигурацию при невалидной.
func TestNewReActCycleInvalidConfigFallsBack(t *testing.T) {
	cfg := ReActCycleConfig{
		SystemPrompt: "custom prompt",
		MaxSteps:     -1, // невалидно
	}

	cycle := NewReActCycle(cfg)

	if cycle.config.MaxSteps != DefaultMaxSteps {
		t.Errorf("MaxSteps = %d, want default %d", cycle.config.MaxSteps, DefaultMaxSteps)
	}
	// Пользовательский системный промпт переживает откат
	if cycle.config.SystemPrompt != "custom prompt" {
		t.Errorf("SystemPrompt = %q, want 'custom prompt'", cycle.config.SystemPrompt)
	}
}

// TestReActCycleConfigValidate проверяет валидацию конфигурации.
func TestReActCycleConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ReActCycleConfig)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *ReActCycleConfig) {},
			wantErr: "",
		},
		{
			name:    "empty system prompt",
			mutate:  func(c *ReActCycleConfig) { c.SystemPrompt = "" },
			wantErr: "system_prompt is required",
		},
		{
			name:    "non-positive max steps",
			mutate:  func(c *ReActCycleConfig) { c.MaxSteps = 0 },
			wantErr: "max_steps must be positive",
		},
		{
			name:    "non-positive run timeout",
			mutate:  func(c *ReActCycleConfig) { c.RunTimeout = 0 },
			wantErr: "run_timeout must be positive",
		},
		{
			name:    "non-positive tool timeout",
			mutate:  func(c *ReActCycleConfig) { c.ToolTimeout = -time.Second },
			wantErr: "tool_timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewReActCycleConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

// TestFromAgentConfig проверяет сборку конфигурации из секции agent:.
func TestFromAgentConfig(t *testing.T) {
	t.Run("empty config keeps defaults", func(t *testing.T) {
		cfg := FromAgentConfig(config.AgentConfig{}, "")

		if cfg.MaxSteps != DefaultMaxSteps {
			t.Errorf("MaxSteps = %d, want %d", cfg.MaxSteps, DefaultMaxSteps)
		}
		if cfg.RunTimeout != DefaultRunTimeout {
			t.Errorf("RunTimeout = %v, want %v", cfg.RunTimeout, DefaultRunTimeout)
		}
		if cfg.ToolTimeout != DefaultToolTimeout {
			t.Errorf("ToolTimeout = %v, want %v", cfg.ToolTimeout, DefaultToolTimeout)
		}
		if cfg.SystemPrompt != DefaultSystemPrompt {
			t.Errorf("SystemPrompt = %q, want default", cfg.SystemPrompt)
		}
	})

	t.Run("explicit values override defaults", func(t *testing.T) {
		ac := config.AgentConfig{
			MaxSteps:     7,
			RunTimeout:   time.Minute,
			ToolTimeout:  10 * time.Second,
			ToolTimeouts: map[string]time.Duration{"web_fetch": 45 * time.Second},
			SystemPrompt: "custom",
		}

		cfg := FromAgentConfig(ac, "logs")

		if cfg.MaxSteps != 7 {
			t.Errorf("MaxSteps = %d, want 7", cfg.MaxSteps)
		}
		if cfg.RunTimeout != time.Minute {
			t.Errorf("RunTimeout = %v, want 1m", cfg.RunTimeout)
		}
		if cfg.ToolTimeout != 10*time.Second {
			t.Errorf("ToolTimeout = %v, want 10s", cfg.ToolTimeout)
		}
		if cfg.ToolTimeouts["web_fetch"] != 45*time.Second {
			t.Errorf("ToolTimeouts[web_fetch] = %v, want 45s", cfg.ToolTimeouts["web_fetch"])
		}
		if cfg.SystemPrompt != "custom" {
			t.Errorf("SystemPrompt = %q, want 'custom'", cfg.SystemPrompt)
		}
		if cfg.TranscriptsDir != "logs" {
			t.Errorf("TranscriptsDir = %q, want 'logs'", cfg.TranscriptsDir)
		}
	})

	t.Run("tool timeouts map is copied", func(t *testing.T) {
		src := map[string]time.Duration{"a": time.Second}
		cfg := FromAgentConfig(config.AgentConfig{ToolTimeouts: src}, "")

		src["a"] = time.Hour
		if cfg.ToolTimeouts["a"] != time.Second {
			t.Error("ToolTimeouts shares memory with source map")
		}
	})
}

// TestRunAppendsHistory проверяет ведение истории методом Run.
//
// Запрос добавляется в историю ДО сборки промпта: в первом промпте
// запрос виден и в истории, и в секции текущего запроса. Ответ
// добавляется после успешного запуска.
func TestRunAppendsHistory(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		yamlAnswer("first answer"),
		yamlAnswer("second answer"),
	}}
	cycle := newScriptedCycle(t, provider, tools.NewRegistry())
	cycle.SetState(state.NewCoreState())

	ctx := context.Background()

	// Первый запрос
	got, err := cycle.Run(ctx, "first question")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "first answer" {
		t.Errorf("answer = %q, want 'first answer'", got)
	}

	firstPrompt := provider.promptAt(0)
	if !strings.Contains(firstPrompt, "### CONVERSATION HISTORY\nUSER: first question") {
		t.Error("first prompt: query missing from history window")
	}
	if !strings.Contains(firstPrompt, "### CURRENT QUERY\nfirst question") {
		t.Error("first prompt: query missing from current query section")
	}

	// Второй запрос видит весь диалог
	got, err = cycle.Run(ctx, "second question")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "second answer" {
		t.Errorf("answer = %q, want 'second answer'", got)
	}

	secondPrompt := provider.promptAt(1)
	wantHistory := "USER: first question\nASSISTANT: first answer\nUSER: second question"
	if !strings.Contains(secondPrompt, wantHistory) {
		t.Errorf("second prompt history window missing dialogue:\n%s", secondPrompt)
	}

	// История: user/assistant/user/assistant
	history := cycle.GetHistory()
	if len(history) != 4 {
		t.Fatalf("history entries = %d, want 4", len(history))
	}
	wantRoles := []state.Role{state.RoleUser, state.RoleAssistant, state.RoleUser, state.RoleAssistant}
	for i, want := range wantRoles {
		if history[i].Role != want {
			t.Errorf("history[%d].Role = %q, want %q", i, history[i].Role, want)
		}
	}
	if history[3].Content != "second answer" {
		t.Errorf("history[3].Content = %q, want 'second answer'", history[3].Content)
	}
}

// TestRunRecordsToolCalls проверяет пополнение журнала вызовов после Run.
func TestRunRecordsToolCalls(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		yamlToolCall("add", "  a: 2\n  b: 3"),
		yamlAnswer("5"),
	}}
	cycle := newScriptedCycle(t, provider, addToolRegistry(t))
	coreState := state.NewCoreState()
	cycle.SetState(coreState)

	if _, err := cycle.Run(context.Background(), "what is 2+3?"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	calls := coreState.ToolCalls()
	if len(calls) != 1 {
		t.Fatalf("tool call journal = %d, want 1", len(calls))
	}
	if calls[0].Tool != "add" || calls[0].Result != "5" {
		t.Errorf("journal entry = %+v, want add/5", calls[0])
	}
}

// TestRunErrorKeepsQuery проверяет историю при ошибке запуска.
//
// Запрос остаётся в истории без ответной реплики — так же ведёт себя
// запись диалога при оборванном запросе.
func TestRunErrorKeepsQuery(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"unparseable"}}
	cycle := newScriptedCycle(t, provider, tools.NewRegistry())
	cycle.SetState(state.NewCoreState())

	if _, err := cycle.Run(context.Background(), "doomed question"); err == nil {
		t.Fatal("Run succeeded on unparseable response")
	}

	history := cycle.GetHistory()
	if len(history) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history))
	}
	if history[0].Role != state.RoleUser || history[0].Content != "doomed question" {
		t.Errorf("history[0] = %+v, want the user query", history[0])
	}
}

// TestRunWithoutState проверяет Run без персистентного состояния.
func TestRunWithoutState(t *testing.T) {
	provider := &scriptedProvider{responses: []string{yamlAnswer("stateless answer")}}
	cycle := newScriptedCycle(t, provider, tools.NewRegistry())

	got, err := cycle.Run(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "stateless answer" {
		t.Errorf("answer = %q, want 'stateless answer'", got)
	}

	// Пустая история рендерится заглушкой
	if !strings.Contains(provider.promptAt(0), "No previous conversation") {
		t.Error("prompt missing empty history placeholder")
	}

	if len(cycle.GetHistory()) != 0 {
		t.Error("GetHistory without state must be empty")
	}
}
