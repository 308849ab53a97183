package std

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ilkoid/minagent/pkg/tools"
	"github.com/ilkoid/minagent/pkg/webclient"
)

// WebFetchTool — загрузка web страницы через rate-limited клиент.
//
// Само ограничение размера тела живет в pkg/webclient (max_body_bytes):
// инструмент только помечает обрезанный ответ для модели.
type WebFetchTool struct {
	client *webclient.Client
}

// NewWebFetchTool создает инструмент загрузки страниц.
func NewWebFetchTool(client *webclient.Client) *WebFetchTool {
	return &WebFetchTool{client: client}
}

// Spec возвращает описание инструмента для каталога LLM.
func (t *WebFetchTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{
		Name:        "web_fetch",
		Description: "Fetches a web page by URL and returns its raw content. Supports http and https.",
		Params: []tools.ParamSpec{
			{Name: "url", Type: "str"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *WebFetchTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if args.URL == "" {
		return "", fmt.Errorf("'url' is required")
	}

	result, err := t.client.Fetch(ctx, args.URL)
	if err != nil {
		// Классифицированное сообщение понятнее модели, чем сырой текст ошибки
		kind := t.client.ClassifyError(err)
		if kind != webclient.ErrUnknown {
			return "", fmt.Errorf("%s: %v", kind, err)
		}
		return "", err
	}

	body := result.Body
	if result.Truncated {
		body += "\n\n...[TRUNCATED - Response too large for context. Ask for a more specific page.]"
	}
	return body, nil
}

// Проверка что WebFetchTool реализует tools.Tool
var _ tools.Tool = (*WebFetchTool)(nil)
