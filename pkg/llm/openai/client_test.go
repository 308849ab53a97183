package openai

import (
	"testing"
	"time"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/llm"
)

// TestNewClient тестирует создание клиента.
func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		modelDef config.ModelDef
	}{
		{
			name: "minimal config",
			modelDef: config.ModelDef{
				Provider:  "openai",
				APIKey:    "test-key",
				ModelName: "gpt-4o-mini",
			},
		},
		{
			name: "with custom base url",
			modelDef: config.ModelDef{
				Provider:  "openrouter",
				APIKey:    "test-key",
				ModelName: "deepseek/deepseek-chat",
				BaseURL:   "https://openrouter.ai/api/v1",
			},
		},
		{
			name: "with generation params",
			modelDef: config.ModelDef{
				Provider:    "deepseek",
				APIKey:      "test-key",
				ModelName:   "deepseek-chat",
				Temperature: 0.3,
				MaxTokens:   2048,
				Timeout:     45 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.modelDef)
			if client == nil {
				t.Fatal("expected non-nil client")
			}
			if client.api == nil {
				t.Error("expected non-nil api client")
			}
			if client.provider != tt.modelDef.Provider {
				t.Errorf("expected provider %s, got %s", tt.modelDef.Provider, client.provider)
			}
			if client.base.Model != tt.modelDef.ModelName {
				t.Errorf("expected model %s, got %s", tt.modelDef.ModelName, client.base.Model)
			}
			if client.base.Temperature != tt.modelDef.Temperature {
				t.Errorf("expected temperature %v, got %v", tt.modelDef.Temperature, client.base.Temperature)
			}
			if client.timeout != tt.modelDef.Timeout {
				t.Errorf("expected timeout %v, got %v", tt.modelDef.Timeout, client.timeout)
			}
		})
	}
}

// TestBuildRequest тестирует сборку Chat Completions запроса.
func TestBuildRequest(t *testing.T) {
	client := NewClient(config.ModelDef{
		Provider:  "openai",
		APIKey:    "test-key",
		ModelName: "gpt-4o-mini",
	})

	req := client.buildRequest("hello world", client.base)

	if req.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %s", req.Model)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "user" {
		t.Errorf("expected role user, got %s", req.Messages[0].Role)
	}
	if req.Messages[0].Content != "hello world" {
		t.Errorf("expected prompt as content, got %q", req.Messages[0].Content)
	}

	// Нулевые параметры не должны попадать в запрос
	if req.Temperature != 0 {
		t.Errorf("expected zero temperature omitted, got %v", req.Temperature)
	}
	if req.MaxTokens != 0 {
		t.Errorf("expected zero max_tokens omitted, got %d", req.MaxTokens)
	}
}

// TestBuildRequest_OptionOverrides тестирует переопределение параметров опциями.
func TestBuildRequest_OptionOverrides(t *testing.T) {
	client := NewClient(config.ModelDef{
		Provider:    "openai",
		APIKey:      "test-key",
		ModelName:   "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   1024,
	})

	params := llm.ApplyOptions(client.base,
		llm.WithModel("gpt-4o"),
		llm.WithTemperature(0.2),
		llm.WithMaxTokens(256),
	)
	req := client.buildRequest("prompt", params)

	if req.Model != "gpt-4o" {
		t.Errorf("expected model override gpt-4o, got %s", req.Model)
	}
	if req.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", req.Temperature)
	}
	if req.MaxTokens != 256 {
		t.Errorf("expected max_tokens 256, got %d", req.MaxTokens)
	}
}
