// Package std предоставляет стандартные инструменты для AI агента.
//
// Каждый инструмент — маленькая структура с явным Spec() и контрактом
// "Raw In, String Out": сырой JSON аргументов на входе, строка-observation
// на выходе. Ошибка выполнения уходит в цикл и становится observation там.
package std

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/factory"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/tools"
)

// LLMPingTool — инструмент для проверки доступности LLM провайдера.
//
// Позволяет агенту проверить, доступен ли LLM провайдер и валиден ли API ключ.
// Пробует /models endpoint (бесплатно), а не реальную генерацию.
type LLMPingTool struct {
	modelRegistry *models.Registry
	defaultModel  string // Алиас default_chat из конфига
}

// NewLLMPingTool создает инструмент для проверки доступности LLM провайдера.
//
// Параметры:
//   - registry: реестр LLM провайдеров
//   - defaultModel: алиас модели по умолчанию (models.default_chat)
//
// Возвращает инструмент, готовый к регистрации в реестре.
func NewLLMPingTool(registry *models.Registry, defaultModel string) *LLMPingTool {
	return &LLMPingTool{
		modelRegistry: registry,
		defaultModel:  defaultModel,
	}
}

// Spec возвращает описание инструмента для каталога LLM.
func (t *LLMPingTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{
		Name:        "llm_ping",
		Description: "Checks whether an LLM provider is reachable and the API key is valid. Pass a model alias or omit it for the default model.",
		Params: []tools.ParamSpec{
			{Name: "model", Type: "str", Default: ""},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *LLMPingTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Model string `json:"model"`
	}
	if argsJSON != "" {
		// Кривой JSON — не ошибка: модель будет выбрана по умолчанию
		_ = json.Unmarshal([]byte(argsJSON), &args)
	}

	modelAlias := args.Model
	if modelAlias == "" {
		modelAlias = t.defaultModel
		if modelAlias == "" {
			return t.marshalErrorResult("default model is not configured", "CONFIG_ERROR")
		}
	}

	_, modelDef, err := t.modelRegistry.Get(modelAlias)
	if err != nil {
		return t.marshalErrorResult(fmt.Sprintf("model '%s' is not registered: %v", modelAlias, err), "MODEL_NOT_FOUND")
	}

	baseURL := factory.EffectiveBaseURL(modelDef)
	if baseURL == "" {
		return t.marshalErrorResult(fmt.Sprintf("model '%s' has no base_url configured", modelAlias), "CONFIG_ERROR")
	}

	if modelDef.APIKey == "" {
		return t.marshalErrorResult(fmt.Sprintf("API key for model '%s' is not configured", modelAlias), "API_KEY_MISSING")
	}

	result := t.pingAPI(ctx, modelAlias, modelDef, baseURL)
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// pingAPI выполняет тестовый запрос к API провайдера.
func (t *LLMPingTool) pingAPI(ctx context.Context, modelAlias string, modelDef config.ModelDef, baseURL string) map[string]interface{} {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	// Все поддерживаемые провайдеры OpenAI-совместимы: /models endpoint
	endpoint := baseURL + "/models"

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return t.buildErrorResult(fmt.Sprintf("failed to build request: %v", err), "REQUEST_ERROR")
	}

	req.Header.Set("Authorization", "Bearer "+modelDef.APIKey)
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(startTime)

	if err != nil {
		return t.buildErrorResult(fmt.Sprintf("connection failed: %v", err), "CONNECTION_ERROR")
	}
	defer resp.Body.Close()

	result := map[string]interface{}{
		"available":   true,
		"provider":    modelDef.Provider,
		"model":       modelDef.ModelName,
		"base_url":    baseURL,
		"status_code": resp.StatusCode,
		"latency_ms":  latency.Milliseconds(),
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result["status"] = "OK"
		result["message"] = fmt.Sprintf("%s API is reachable. Model '%s' (%s) is ready.", modelDef.Provider, modelAlias, modelDef.ModelName)
	case resp.StatusCode == 401:
		result["available"] = false
		result["error"] = "invalid API key"
		result["error_type"] = "AUTH_ERROR"
		result["message"] = fmt.Sprintf("API key for model '%s' was rejected. Check the configured credential.", modelAlias)
	case resp.StatusCode == 429:
		result["available"] = false
		result["error"] = "rate limit exceeded"
		result["error_type"] = "RATE_LIMIT_ERROR"
		result["message"] = fmt.Sprintf("%s API rate limit exceeded. Try again later.", modelDef.Provider)
	default:
		result["available"] = false
		result["error"] = fmt.Sprintf("HTTP %d", resp.StatusCode)
		result["error_type"] = "HTTP_ERROR"
		result["message"] = fmt.Sprintf("%s API returned status %d. Check the configuration.", modelDef.Provider, resp.StatusCode)
	}

	return result
}

// buildErrorResult создает результат ошибки в формате map.
func (t *LLMPingTool) buildErrorResult(message, errType string) map[string]interface{} {
	return map[string]interface{}{
		"available":  false,
		"error":      message,
		"error_type": errType,
		"message":    message,
	}
}

// marshalErrorResult создает результат ошибки и маршалит его в JSON строку.
func (t *LLMPingTool) marshalErrorResult(message, errType string) (string, error) {
	result := t.buildErrorResult(message, errType)
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Проверка что LLMPingTool реализует tools.Tool
var _ tools.Tool = (*LLMPingTool)(nil)
