package prompts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ilkoid/minagent/pkg/config"
)

// stubSource — источник с фиксированным ответом для проверки fallback chain.
type stubSource struct {
	file *PromptFile
	err  error
}

func (s *stubSource) Load(promptID string) (*PromptFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.file, nil
}

// TestSourceRegistryFallbackChain проверяет порядок опроса источников.
func TestSourceRegistryFallbackChain(t *testing.T) {
	registry := NewSourceRegistry()
	registry.AddSource(&stubSource{err: fmt.Errorf("first source is down")})
	registry.AddSource(&stubSource{file: &PromptFile{System: "from second"}})
	registry.AddSource(&stubSource{file: &PromptFile{System: "never reached"}})

	file, err := registry.Load("agent_system")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if file.System != "from second" {
		t.Errorf("Expected prompt from second source, got %s", file.System)
	}
}

// TestSourceRegistryAllFail проверяет ошибку при отказе всех источников.
func TestSourceRegistryAllFail(t *testing.T) {
	registry := NewSourceRegistry()
	registry.AddSource(&stubSource{err: fmt.Errorf("down one")})
	registry.AddSource(&stubSource{err: fmt.Errorf("down two")})

	_, err := registry.Load("agent_system")
	if err == nil {
		t.Fatal("Expected error when all sources fail")
	}
	if !strings.Contains(err.Error(), "all sources failed for 'agent_system'") {
		t.Errorf("Unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "down two") {
		t.Errorf("Expected last error in chain, got: %v", err)
	}
}

// TestSourceRegistryEmpty проверяет ошибку пустого реестра.
func TestSourceRegistryEmpty(t *testing.T) {
	registry := NewSourceRegistry()

	if registry.HasSources() {
		t.Error("Expected HasSources false for empty registry")
	}

	_, err := registry.Load("agent_system")
	if err == nil {
		t.Fatal("Expected error for empty registry")
	}
	if !strings.Contains(err.Error(), "no sources configured") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// writePromptFile пишет YAML промпт в директорию источника.
func writePromptFile(t *testing.T, dir, id, system string) {
	t.Helper()

	content := fmt.Sprintf("system: |\n  %s\n", system)
	if err := os.WriteFile(filepath.Join(dir, id+".yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

// TestCreateSourceRegistryFileSource проверяет файловый источник из конфига.
func TestCreateSourceRegistryFileSource(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "agent_system", "You are a file-sourced assistant.")

	cfg := &config.AppConfig{
		PromptSources: []config.PromptSourceConfig{
			{Type: "file", Config: map[string]string{"base_dir": dir}},
		},
	}

	registry, err := CreateSourceRegistry(cfg)
	if err != nil {
		t.Fatalf("CreateSourceRegistry error: %v", err)
	}

	file, err := registry.Load("agent_system")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !strings.Contains(file.System, "file-sourced assistant") {
		t.Errorf("Expected prompt from file source, got %s", file.System)
	}
}

// TestCreateSourceRegistryDefaultFallback проверяет fallback на Go defaults
// когда файловый источник не содержит промпт.
func TestCreateSourceRegistryDefaultFallback(t *testing.T) {
	cfg := &config.AppConfig{
		PromptSources: []config.PromptSourceConfig{
			{Type: "file", Config: map[string]string{"base_dir": t.TempDir()}},
		},
	}

	registry, err := CreateSourceRegistry(cfg)
	if err != nil {
		t.Fatalf("CreateSourceRegistry error: %v", err)
	}

	file, err := registry.Load("agent_system")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !strings.Contains(file.System, "helpful assistant") {
		t.Errorf("Expected Go default prompt, got %s", file.System)
	}
	if file.Metadata["source"] != "go-default" {
		t.Errorf("Expected go-default metadata, got %v", file.Metadata["source"])
	}
}

// TestCreateSourceRegistryUnknownType проверяет отказ на неизвестном типе.
func TestCreateSourceRegistryUnknownType(t *testing.T) {
	cfg := &config.AppConfig{
		PromptSources: []config.PromptSourceConfig{
			{Type: "carrier-pigeon"},
		},
	}

	_, err := CreateSourceRegistry(cfg)
	if err == nil {
		t.Fatal("Expected error for unknown source type")
	}
	if !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("Expected type name in error, got: %v", err)
	}
}

// TestCreateSourceRegistryDatabaseMissingFile проверяет отказ на
// несуществующем файле базы.
func TestCreateSourceRegistryDatabaseMissingFile(t *testing.T) {
	cfg := &config.AppConfig{
		PromptSources: []config.PromptSourceConfig{
			{Type: "database", Config: map[string]string{"path": "/nonexistent/prompts.db"}},
		},
	}

	_, err := CreateSourceRegistry(cfg)
	if err == nil {
		t.Fatal("Expected error for missing database file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// TestLoadAgentSystemPromptInlinePriority проверяет приоритет inline промпта.
func TestLoadAgentSystemPromptInlinePriority(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "agent_system", "File prompt that must lose.")

	cfg := &config.AppConfig{
		PromptSources: []config.PromptSourceConfig{
			{Type: "file", Config: map[string]string{"base_dir": dir}},
		},
	}
	cfg.Agent.SystemPrompt = "Inline prompt wins."

	system, err := LoadAgentSystemPrompt(cfg)
	if err != nil {
		t.Fatalf("LoadAgentSystemPrompt error: %v", err)
	}
	if system != "Inline prompt wins." {
		t.Errorf("Expected inline prompt, got %s", system)
	}
}

// TestLoadAgentSystemPromptCustomID проверяет загрузку по agent.prompt_id.
func TestLoadAgentSystemPromptCustomID(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "support_bot", "You are a support specialist.")

	cfg := &config.AppConfig{
		PromptSources: []config.PromptSourceConfig{
			{Type: "file", Config: map[string]string{"base_dir": dir}},
		},
	}
	cfg.Agent.PromptID = "support_bot"

	system, err := LoadAgentSystemPrompt(cfg)
	if err != nil {
		t.Fatalf("LoadAgentSystemPrompt error: %v", err)
	}
	if !strings.Contains(system, "support specialist") {
		t.Errorf("Expected support_bot prompt, got %s", system)
	}
}

// TestLoadAgentSystemPromptDefault проверяет полный fallback без конфига.
func TestLoadAgentSystemPromptDefault(t *testing.T) {
	cfg := &config.AppConfig{}

	system, err := LoadAgentSystemPrompt(cfg)
	if err != nil {
		t.Fatalf("LoadAgentSystemPrompt error: %v", err)
	}
	if !strings.Contains(system, "helpful assistant") {
		t.Errorf("Expected Go default prompt, got %s", system)
	}
}

// TestLoadAgentSystemPromptUnknownID проверяет ошибку для промпта,
// которого нет ни в одном источнике.
func TestLoadAgentSystemPromptUnknownID(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Agent.PromptID = "never_defined"

	_, err := LoadAgentSystemPrompt(cfg)
	if err == nil {
		t.Fatal("Expected error for unknown prompt ID")
	}
	if !strings.Contains(err.Error(), "never_defined") {
		t.Errorf("Expected prompt ID in error, got: %v", err)
	}
	// Сентинел виден через все обёртки цепочки
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound through the chain, got: %v", err)
	}
}
