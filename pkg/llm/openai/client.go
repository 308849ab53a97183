// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Через этот адаптер работают OpenAI, OpenRouter, DeepSeek и Zai:
// различаются только BaseURL и ключ в конфигурации модели.
// Соблюдает правило 4 манифеста: наружу только интерфейс llm.Provider.
package openai

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/llm"
	"github.com/ilkoid/minagent/pkg/utils"
)

// Client реализует llm.Provider и llm.StreamingProvider
// поверх OpenAI-совместимого Chat Completions API.
type Client struct {
	api      *openai.Client
	provider string
	timeout  time.Duration
	base     llm.GenerateOptions
}

// Compile-time проверки реализации интерфейсов.
var (
	_ llm.Provider          = (*Client)(nil)
	_ llm.StreamingProvider = (*Client)(nil)
)

// NewClient создает клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую для упрощения создания клиентов через factory.
// BaseURL из конфигурации переопределяет стандартный адрес OpenAI —
// так подключаются OpenRouter, DeepSeek и другие совместимые API.
//
// Правило 2: Все настройки из конфигурации, никакого хардкода.
func NewClient(modelDef config.ModelDef) *Client {
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	return &Client{
		api:      openai.NewClientWithConfig(cfg),
		provider: modelDef.Provider,
		timeout:  modelDef.Timeout,
		base: llm.GenerateOptions{
			Model:       modelDef.ModelName,
			Temperature: modelDef.Temperature,
			MaxTokens:   modelDef.MaxTokens,
		},
	}
}

// Generate выполняет один запрос к API и возвращает текст первого choice.
//
// Алгоритм:
//  1. Накладывает опции вызова на настройки модели
//  2. Отправляет prompt единственным user-сообщением
//  3. Возвращает content первого choice
//
// Правило 7: Все ошибки возвращаются, никаких panic.
// Ошибки транспорта оборачиваются в *llm.TransportError.
func (c *Client) Generate(ctx context.Context, prompt string, opts ...llm.GenerateOption) (string, error) {
	params := llm.ApplyOptions(c.base, opts...)
	startTime := time.Now()

	utils.Debug("LLM request started",
		"provider", c.provider,
		"model", params.Model,
		"prompt_length", len(prompt))

	// Таймаут модели ограничивает только синхронные вызовы
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, c.buildRequest(prompt, params))
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"provider", c.provider,
			"model", params.Model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return "", &llm.TransportError{Provider: c.provider, Model: params.Model, Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &llm.TransportError{
			Provider: c.provider,
			Model:    params.Model,
			Err:      errors.New("no choices in response"),
		}
	}

	content := resp.Choices[0].Message.Content

	utils.Info("LLM response received",
		"provider", c.provider,
		"model", params.Model,
		"content_length", len(content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return content, nil
}

// GenerateStream выполняет запрос в режиме SSE-стриминга.
//
// Каждый фрагмент ответа передается в callback как ChunkContent,
// по окончании потока отправляется сигнал ChunkDone.
// Длительность стрима ограничивается контекстом вызывающего —
// таймаут модели здесь не применяется.
func (c *Client) GenerateStream(ctx context.Context, prompt string, callback func(llm.StreamChunk), opts ...llm.GenerateOption) (string, error) {
	params := llm.ApplyOptions(c.base, opts...)
	startTime := time.Now()

	utils.Debug("LLM stream started",
		"provider", c.provider,
		"model", params.Model,
		"prompt_length", len(prompt))

	req := c.buildRequest(prompt, params)
	req.Stream = true

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		utils.Error("LLM stream open failed",
			"error", err,
			"provider", c.provider,
			"model", params.Model)
		terr := &llm.TransportError{Provider: c.provider, Model: params.Model, Err: err}
		callback(llm.StreamChunk{Type: llm.ChunkError, Error: terr})
		return "", terr
	}
	defer stream.Close()

	var accumulated strings.Builder

	for {
		resp, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			utils.Error("LLM stream receive failed",
				"error", recvErr,
				"provider", c.provider,
				"model", params.Model,
				"received_length", accumulated.Len())
			terr := &llm.TransportError{Provider: c.provider, Model: params.Model, Err: recvErr}
			callback(llm.StreamChunk{Type: llm.ChunkError, Error: terr})
			return "", terr
		}

		// Некоторые провайдеры присылают служебные кадры без choices
		if len(resp.Choices) == 0 {
			continue
		}

		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		accumulated.WriteString(delta)
		callback(llm.StreamChunk{
			Type:    llm.ChunkContent,
			Content: accumulated.String(),
			Delta:   delta,
		})
	}

	result := accumulated.String()

	callback(llm.StreamChunk{Type: llm.ChunkDone, Content: result})

	utils.Info("LLM stream finished",
		"provider", c.provider,
		"model", params.Model,
		"content_length", len(result),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// buildRequest собирает запрос Chat Completions с единственным user-сообщением.
// Нулевые Temperature и MaxTokens не передаются — действуют значения провайдера.
func (c *Client) buildRequest(prompt string, params llm.GenerateOptions) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model: params.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	if params.Temperature > 0 {
		req.Temperature = float32(params.Temperature)
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = params.MaxTokens
	}

	return req
}
