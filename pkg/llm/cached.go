// Кеширующий декоратор поверх Provider.
//
// Оборачивает любой провайдер LRU-кешем ответов по ключу
// sha256(model|temperature|max_tokens|prompt). Полезен в разработке и
// тестовых прогонах: повторный идентичный промпт не тратит токены.
//
// Включается через cache_size в определении модели (config.yaml).
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedProvider — декоратор Provider с LRU-кешем ответов.
//
// Thread-safe: golang-lru сам синхронизирует доступ, остальное состояние
// иммутабельно после создания.
type CachedProvider struct {
	inner Provider
	cache *lru.Cache[string, string]
	base  GenerateOptions
}

// NewCachedProvider оборачивает провайдер LRU-кешем на size записей.
//
// base — параметры модели из конфигурации: они участвуют в ключе, чтобы
// смена температуры или модели не отдавала чужой кеш.
func NewCachedProvider(inner Provider, size int, base GenerateOptions) (*CachedProvider, error) {
	if size < 1 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &CachedProvider{
		inner: inner,
		cache: cache,
		base:  base,
	}, nil
}

// Generate возвращает закешированный ответ или делегирует внутреннему
// провайдеру и запоминает результат.
func (c *CachedProvider) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	key := c.hashKey(prompt, opts...)

	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	response, err := c.inner.Generate(ctx, prompt, opts...)
	if err != nil {
		return "", err
	}

	c.cache.Add(key, response)
	return response, nil
}

// GenerateStream реализует StreamingProvider.
//
// Попадание в кеш воспроизводится как минимальный поток: один ChunkContent
// с полным текстом и сентинел ChunkDone. Промах делегируется внутреннему
// провайдеру (или эмулируется через Generate, если тот стримить не умеет),
// результат попадает в кеш.
func (c *CachedProvider) GenerateStream(ctx context.Context, prompt string, callback func(StreamChunk), opts ...GenerateOption) (string, error) {
	key := c.hashKey(prompt, opts...)

	if cached, ok := c.cache.Get(key); ok {
		callback(StreamChunk{Type: ChunkContent, Delta: cached, Content: cached})
		callback(StreamChunk{Type: ChunkDone, Content: cached})
		return cached, nil
	}

	var response string
	var err error

	if sp, ok := c.inner.(StreamingProvider); ok {
		response, err = sp.GenerateStream(ctx, prompt, callback, opts...)
	} else {
		response, err = c.inner.Generate(ctx, prompt, opts...)
		if err == nil {
			callback(StreamChunk{Type: ChunkContent, Delta: response, Content: response})
			callback(StreamChunk{Type: ChunkDone, Content: response})
		}
	}
	if err != nil {
		return "", err
	}

	c.cache.Add(key, response)
	return response, nil
}

// Len возвращает текущее число записей в кеше.
func (c *CachedProvider) Len() int {
	return c.cache.Len()
}

// Purge очищает кеш целиком.
func (c *CachedProvider) Purge() {
	c.cache.Purge()
}

// hashKey строит ключ кеша из эффективных параметров генерации и промпта.
func (c *CachedProvider) hashKey(prompt string, opts ...GenerateOption) string {
	effective := ApplyOptions(c.base, opts...)
	payload := fmt.Sprintf("%s|%.4f|%d|%s", effective.Model, effective.Temperature, effective.MaxTokens, prompt)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Ensure CachedProvider implements both provider interfaces
var _ Provider = (*CachedProvider)(nil)
var _ StreamingProvider = (*CachedProvider)(nil)
