// Package factory создает LLM провайдеров по конфигурации модели.
//
// Единственная точка, где имя провайдера из конфига превращается
// в конкретную реализацию llm.Provider.
package factory

import (
	"fmt"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/llm"
	"github.com/ilkoid/minagent/pkg/llm/openai"
)

// Стандартные BaseURL для провайдеров с собственным адресом API.
// Явный base_url в конфигурации модели имеет приоритет.
const (
	openAIBaseURL     = "https://api.openai.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	deepSeekBaseURL   = "https://api.deepseek.com/v1"
)

// EffectiveBaseURL возвращает фактический базовый URL API для модели.
//
// Явный base_url из конфигурации имеет приоритет; иначе подставляется
// стандартный адрес провайдера. Пустая строка — провайдер требует
// явный base_url (например, "zai").
func EffectiveBaseURL(modelDef config.ModelDef) string {
	if modelDef.BaseURL != "" {
		return modelDef.BaseURL
	}
	switch modelDef.Provider {
	case "openai":
		return openAIBaseURL
	case "openrouter":
		return openRouterBaseURL
	case "deepseek":
		return deepSeekBaseURL
	}
	return ""
}

// NewLLMProvider создает провайдера на основе конфигурации модели.
//
// Все поддерживаемые провайдеры OpenAI-совместимы и работают через
// один адаптер openai.Client, различаясь только BaseURL.
// Если в конфигурации задан cache_size, провайдер оборачивается
// в LRU-кеширующий декоратор.
func NewLLMProvider(modelDef config.ModelDef) (llm.Provider, error) {
	switch modelDef.Provider {
	case "openai":
		// BaseURL из конфигурации либо стандартный адрес SDK

	case "zai":
		if modelDef.BaseURL == "" {
			return nil, fmt.Errorf("provider 'zai' requires explicit base_url in model config")
		}

	case "openrouter", "deepseek":
		modelDef.BaseURL = EffectiveBaseURL(modelDef)

	default:
		return nil, fmt.Errorf("unknown provider type: %s", modelDef.Provider)
	}

	var provider llm.Provider = openai.NewClient(modelDef)

	if modelDef.CacheSize > 0 {
		cached, err := llm.NewCachedProvider(provider, modelDef.CacheSize, llm.GenerateOptions{
			Model:       modelDef.ModelName,
			Temperature: modelDef.Temperature,
			MaxTokens:   modelDef.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create cached provider for model '%s': %w", modelDef.ModelName, err)
		}
		provider = cached
	}

	return provider, nil
}
