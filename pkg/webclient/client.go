// Package webclient предоставляет HTTP клиент для web инструментов агента.
//
// Это «тупой» клиент (в отличие от SDK): rate limiting, retry, обработка 429
// и ограничение размера тела — технические меры защиты, не бизнес-логика.
// Тонкие обёртки для LLM function calling живут в pkg/tools/std.
package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ilkoid/minagent/pkg/config"
	"golang.org/x/time/rate"
)

// userAgent — идентификация клиента в исходящих запросах.
const userAgent = "minagent/1.0"

// ErrorType представляет тип ошибки при выполнении web запроса.
type ErrorType int

const (
	ErrUnknown ErrorType = iota
	ErrForbidden
	ErrTimeout
	ErrNetwork
	ErrRateLimit
)

// String возвращает строковое представление типа ошибки.
func (e ErrorType) String() string {
	switch e {
	case ErrForbidden:
		return "forbidden"
	case ErrTimeout:
		return "timeout"
	case ErrNetwork:
		return "network_error"
	case ErrRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// HumanMessage возвращает человекочитаемое сообщение для типа ошибки.
//
// Используется инструментами для формирования observation, понятного модели.
func (e ErrorType) HumanMessage() string {
	switch e {
	case ErrForbidden:
		return "Сервер отклонил запрос (401/403). Ресурс требует авторизации."
	case ErrTimeout:
		return "Превышено время ожидания. Сервер не отвечает или проблемы с сетью."
	case ErrNetwork:
		return "Сервер недоступен. Проверьте адрес и подключение к интернету."
	case ErrRateLimit:
		return "Превышен лимит запросов. Подождите перед следующей попыткой."
	default:
		return "Неизвестная ошибка при выполнении web запроса."
	}
}

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах (Rule 9).
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client — HTTP клиент с rate limiting и retry для web инструментов.
//
// Лимитеры создаются по хосту назначения: параллельные запросы к разным
// сайтам не мешают друг другу, повторные запросы к одному хосту
// выстраиваются под общий лимит из конфигурации.
type Client struct {
	httpClient    HTTPClient // Интерфейс вместо конкретного типа для testability
	retryAttempts int        // Количество retry попыток
	maxBodyBytes  int        // Лимит размера тела ответа
	rateLimit     int        // Запросов в минуту на хост
	burst         int        // Burst для rate limiter

	mu       sync.Mutex
	limiters map[string]*rate.Limiter // host → limiter
}

// FetchResult — результат загрузки страницы.
type FetchResult struct {
	StatusCode  int    // HTTP статус ответа
	ContentType string // Заголовок Content-Type
	Body        string // Тело ответа (обрезано до max_body_bytes)
	Truncated   bool   // true если тело было обрезано
}

// NewFromConfig создает клиент из конфигурации.
//
// Поля с нулевыми значениями используют дефолтные значения через GetDefaults.
func NewFromConfig(cfg config.WebConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid web.timeout format: %w", err)
	}

	return &Client{
		retryAttempts: cfg.RetryAttempts,
		maxBodyBytes:  cfg.MaxBodyBytes,
		rateLimit:     cfg.RateLimit,
		burst:         cfg.BurstLimit,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiters: make(map[string]*rate.Limiter),
	}, nil
}

// ClassifyError классифицирует ошибку по типу для лучшей диагностики.
//
// Анализирует текст ошибки и возвращает соответствующий тип:
//   - ErrForbidden: ошибки 401/403, unauthorized, forbidden
//   - ErrTimeout: timeout, deadline exceeded
//   - ErrNetwork: connection refused, no such host
//   - ErrRateLimit: ошибки 429, Too Many Requests
//   - ErrUnknown: все остальные ошибки
func (c *Client) ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrUnknown
	}

	errMsg := err.Error()
	errMsgLower := strings.ToLower(errMsg)

	if strings.Contains(errMsg, "401") ||
		strings.Contains(errMsg, "403") ||
		strings.Contains(errMsgLower, "unauthorized") ||
		strings.Contains(errMsgLower, "forbidden") {
		return ErrForbidden
	}

	if strings.Contains(errMsgLower, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded") {
		return ErrTimeout
	}

	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no such host") {
		return ErrNetwork
	}

	if strings.Contains(errMsg, "429") ||
		strings.Contains(errMsg, "Too Many Requests") {
		return ErrRateLimit
	}

	return ErrUnknown
}

// Fetch выполняет GET запрос с rate limiting, retry и обработкой 429.
//
// Параметры:
//   - ctx: контекст для отмены
//   - rawURL: абсолютный URL страницы (http/https)
//
// Возвращает результат с телом, обрезанным до max_body_bytes, или ошибку.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme: %q (want http or https)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url has no host: %s", rawURL)
	}

	// Лимитер общий для всех запросов к одному хосту
	limiter := c.getOrCreateLimiter(u.Host)

	var lastErr error

	// Retry loop
	for i := 0; i < c.retryAttempts; i++ {
		// 1. Ждем разрешения от лимитера (блокирует горутину, если превысили лимит)
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		// 2. Выполняем запрос
		result, retryable, err := c.fetchOnce(ctx, u.String())
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		// 3. Пауза перед повтором (для 429 — из заголовка Retry-After)
		wait := retryWait(err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, fmt.Errorf("max retries exceeded, last error: %v", lastErr)
}

// GetJSON выполняет GET запрос и разбирает ответ как JSON.
//
// Параметры:
//   - ctx: контекст для отмены
//   - rawURL: абсолютный URL endpoint
//   - dest: указатель на структуру для unmarshal результата
func (c *Client) GetJSON(ctx context.Context, rawURL string, dest interface{}) error {
	result, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	if result.Truncated {
		return fmt.Errorf("response body exceeds %d bytes, refusing to parse partial json", c.maxBodyBytes)
	}
	if err := json.Unmarshal([]byte(result.Body), dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}
	return nil
}

// retryStatusError — ошибка HTTP статуса, допускающая повтор запроса.
type retryStatusError struct {
	status     int
	retryAfter time.Duration
}

func (e *retryStatusError) Error() string {
	return fmt.Sprintf("http status %d", e.status)
}

// retryWait возвращает паузу перед повтором.
//
// Для 429 с заголовком Retry-After — значение заголовка, иначе 1 секунда.
func retryWait(err error) time.Duration {
	if se, ok := err.(*retryStatusError); ok && se.retryAfter > 0 {
		return se.retryAfter
	}
	return 1 * time.Second
}

// fetchOnce выполняет одну попытку запроса.
//
// Возвращает результат, признак «ошибку можно ретраить» и ошибку.
// Ретраятся сетевые ошибки, 429 и 5xx; остальные статусы — финальная ошибка.
func (c *Client) fetchOnce(ctx context.Context, fullURL string) (*FetchResult, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, err
	}

	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Accept", "text/html, application/json, text/plain, */*")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, err // Сетевая ошибка, пробуем еще
	}
	defer resp.Body.Close()

	// Обработка 429 (Too Many Requests): читаем Retry-After и ретраим
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Duration(0)
		if s := resp.Header.Get("Retry-After"); s != "" {
			if sec, convErr := strconv.Atoi(s); convErr == nil {
				retryAfter = time.Duration(sec) * time.Second
			}
		}
		io.Copy(io.Discard, resp.Body)
		return nil, true, &retryStatusError{status: resp.StatusCode, retryAfter: retryAfter}
	}

	// 5xx — временная проблема сервера, ретраим
	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, &retryStatusError{status: resp.StatusCode}
	}

	// Тело читаем с запасом в один байт, чтобы отличить «ровно лимит» от обрезания
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.maxBodyBytes)+1))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	truncated := false
	if len(body) > c.maxBodyBytes {
		body = body[:c.maxBodyBytes]
		truncated = true
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("http error: status %d, body: %s", resp.StatusCode, previewBody(body))
	}

	return &FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
		Truncated:   truncated,
	}, false, nil
}

// previewBody обрезает тело ошибки для сообщения.
func previewBody(body []byte) string {
	const max = 200
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}

// getOrCreateLimiter возвращает существующий limiter для хоста или создаёт новый.
func (c *Client) getOrCreateLimiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, exists := c.limiters[host]; exists {
		return limiter
	}

	// rateLimit в запросах/минуту → rate.Limit в запросах/секунду
	ratePerSec := float64(c.rateLimit) / 60.0
	limiter := rate.NewLimiter(rate.Limit(ratePerSec), c.burst)
	c.limiters[host] = limiter

	return limiter
}
