package llm

import (
	"context"
	"errors"
	"testing"
)

// countingProvider — мок провайдера, считающий реальные обращения.
type countingProvider struct {
	calls    int
	response string
	err      error
}

func (p *countingProvider) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.response, nil
}

func TestCachedProvider_HitSkipsInner(t *testing.T) {
	inner := &countingProvider{response: "cached answer"}
	cached, err := NewCachedProvider(inner, 8, GenerateOptions{Model: "test-model"})
	if err != nil {
		t.Fatalf("NewCachedProvider() failed: %v", err)
	}

	ctx := context.Background()

	first, err := cached.Generate(ctx, "same prompt")
	if err != nil {
		t.Fatalf("first Generate() failed: %v", err)
	}
	second, err := cached.Generate(ctx, "same prompt")
	if err != nil {
		t.Fatalf("second Generate() failed: %v", err)
	}

	if first != second || first != "cached answer" {
		t.Errorf("responses differ: %q vs %q", first, second)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	if cached.Len() != 1 {
		t.Errorf("cache len = %d, want 1", cached.Len())
	}
}

func TestCachedProvider_KeyIncludesParams(t *testing.T) {
	inner := &countingProvider{response: "resp"}
	cached, err := NewCachedProvider(inner, 8, GenerateOptions{Model: "m"})
	if err != nil {
		t.Fatalf("NewCachedProvider() failed: %v", err)
	}

	ctx := context.Background()

	if _, err := cached.Generate(ctx, "prompt"); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	// Другая температура — другой ключ, кеш не должен сработать
	if _, err := cached.Generate(ctx, "prompt", WithTemperature(0.9)); err != nil {
		t.Fatalf("Generate() with override failed: %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("inner called %d times, want 2 (different cache keys)", inner.calls)
	}
}

func TestCachedProvider_ErrorNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("api down")}
	cached, err := NewCachedProvider(inner, 8, GenerateOptions{})
	if err != nil {
		t.Fatalf("NewCachedProvider() failed: %v", err)
	}

	ctx := context.Background()

	if _, err := cached.Generate(ctx, "p"); err == nil {
		t.Fatal("Generate() should propagate inner error")
	}
	if cached.Len() != 0 {
		t.Errorf("failed response cached: len = %d, want 0", cached.Len())
	}

	// После восстановления провайдера запрос проходит заново
	inner.err = nil
	inner.response = "recovered"
	got, err := cached.Generate(ctx, "p")
	if err != nil {
		t.Fatalf("Generate() after recovery failed: %v", err)
	}
	if got != "recovered" {
		t.Errorf("response = %q, want %q", got, "recovered")
	}
}

func TestCachedProvider_StreamReplayFromCache(t *testing.T) {
	inner := &countingProvider{response: "full text"}
	cached, err := NewCachedProvider(inner, 8, GenerateOptions{})
	if err != nil {
		t.Fatalf("NewCachedProvider() failed: %v", err)
	}

	ctx := context.Background()

	// Прогреваем кеш синхронным вызовом
	if _, err := cached.Generate(ctx, "p"); err != nil {
		t.Fatalf("warmup Generate() failed: %v", err)
	}

	var chunks []StreamChunk
	got, err := cached.GenerateStream(ctx, "p", func(c StreamChunk) {
		chunks = append(chunks, c)
	})
	if err != nil {
		t.Fatalf("GenerateStream() failed: %v", err)
	}

	if got != "full text" {
		t.Errorf("stream result = %q, want %q", got, "full text")
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1 (stream served from cache)", inner.calls)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2 (content + done sentinel)", len(chunks))
	}
	if chunks[0].Type != ChunkContent || chunks[0].Content != "full text" {
		t.Errorf("first chunk = %+v, want full content", chunks[0])
	}
	if chunks[1].Type != ChunkDone {
		t.Errorf("last chunk type = %s, want %s", chunks[1].Type, ChunkDone)
	}
}

func TestCachedProvider_StreamMissFallsBackToGenerate(t *testing.T) {
	// inner не реализует StreamingProvider — декоратор эмулирует поток
	inner := &countingProvider{response: "sync text"}
	cached, err := NewCachedProvider(inner, 8, GenerateOptions{})
	if err != nil {
		t.Fatalf("NewCachedProvider() failed: %v", err)
	}

	var chunkTypes []ChunkType
	got, err := cached.GenerateStream(context.Background(), "p", func(c StreamChunk) {
		chunkTypes = append(chunkTypes, c.Type)
	})
	if err != nil {
		t.Fatalf("GenerateStream() failed: %v", err)
	}
	if got != "sync text" {
		t.Errorf("result = %q, want %q", got, "sync text")
	}
	if len(chunkTypes) != 2 || chunkTypes[0] != ChunkContent || chunkTypes[1] != ChunkDone {
		t.Errorf("chunk sequence = %v, want [content done]", chunkTypes)
	}
	if cached.Len() != 1 {
		t.Errorf("cache len after miss = %d, want 1", cached.Len())
	}
}

func TestNewCachedProvider_RejectsBadSize(t *testing.T) {
	if _, err := NewCachedProvider(&countingProvider{}, 0, GenerateOptions{}); err == nil {
		t.Error("NewCachedProvider(0) should fail")
	}
}
