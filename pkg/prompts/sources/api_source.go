package sources

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiErrorBodyLimit ограничивает чтение тела ошибочного ответа.
const apiErrorBodyLimit = 2048

// APISource — промпты из HTTP API.
//
// Контракт: GET <endpoint>/prompts/<promptID> с опциональной Bearer
// авторизацией, ответ — JSON с полями system/template/variables/metadata.
// Источник для команд, которые делят промпты между инсталляциями.
type APISource struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewAPISource создаёт HTTP источник промптов.
//
// endpoint — базовый URL без завершающего слеша, token — опциональный
// Bearer token. Таймаут запроса фиксированный: загрузка промпта идёт
// на старте приложения, до появления контекста запуска.
func NewAPISource(endpoint string, token string) *APISource {
	return &APISource{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Load запрашивает промпт из API.
//
// 404 — ErrNotFound; остальные не-200 статусы и сетевые отказы —
// обычные ошибки с фрагментом тела ответа для диагностики.
func (s *APISource) Load(promptID string) (*PromptData, error) {
	req, err := http.NewRequest(http.MethodGet, s.endpoint+"/prompts/"+promptID, nil)
	if err != nil {
		return nil, fmt.Errorf("build prompt request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prompt api request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("prompt %s in api: %w", promptID, ErrNotFound)

	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, apiErrorBodyLimit))
		return nil, fmt.Errorf("prompt api status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var data PromptData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode prompt api response: %w", err)
	}

	return &data, nil
}

// SetClient подменяет HTTP клиент (httptest в тестах).
func (s *APISource) SetClient(client *http.Client) {
	s.client = client
}
