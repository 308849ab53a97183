package app

import (
	"strings"
	"testing"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/tools"
)

// toolsConfig строит конфиг с включёнными инструментами.
func toolsConfig(enabled ...string) *config.AppConfig {
	cfg := &config.AppConfig{
		Tools: make(map[string]config.ToolConfig),
	}
	for _, name := range enabled {
		cfg.Tools[name] = config.ToolConfig{Enabled: true}
	}
	return cfg
}

func TestSetupToolsRegistersInOrder(t *testing.T) {
	registry := tools.NewRegistry()
	cfg := toolsConfig("calc", "clock") // порядок в конфиге не важен

	registered, err := SetupTools(registry, cfg, ToolDeps{})
	if err != nil {
		t.Fatalf("SetupTools: %v", err)
	}

	want := []string{"clock", "calc"}
	if len(registered) != len(want) {
		t.Fatalf("registered = %v, want %v", registered, want)
	}
	for i, name := range want {
		if registered[i] != name {
			t.Errorf("registered[%d] = %q, want %q", i, registered[i], name)
		}
	}

	names := registry.Names()
	if len(names) != 2 || names[0] != "clock" || names[1] != "calc" {
		t.Errorf("registry order = %v, want [clock calc]", names)
	}
}

func TestSetupToolsSkipsDisabled(t *testing.T) {
	registry := tools.NewRegistry()
	cfg := toolsConfig("clock")
	cfg.Tools["calc"] = config.ToolConfig{Enabled: false}

	registered, err := SetupTools(registry, cfg, ToolDeps{})
	if err != nil {
		t.Fatalf("SetupTools: %v", err)
	}
	if len(registered) != 1 || registered[0] != "clock" {
		t.Errorf("registered = %v, want [clock]", registered)
	}
}

func TestSetupToolsMissingDependencies(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		wantErr string
	}{
		{"web_fetch without client", "web_fetch", "web client is not configured"},
		{"list without s3", "list_s3_files", "s3 client is not configured"},
		{"read without s3", "read_s3_object", "s3 client is not configured"},
		{"ping without registry", "llm_ping", "model registry is missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := tools.NewRegistry()
			cfg := toolsConfig(tt.tool)

			_, err := SetupTools(registry, cfg, ToolDeps{})
			if err == nil {
				t.Fatalf("expected error for %s without dependency", tt.tool)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.tool) {
				t.Errorf("error = %v, should name the tool %q", err, tt.tool)
			}
		})
	}
}

func TestSetupToolsLLMPing(t *testing.T) {
	registry := tools.NewRegistry()
	cfg := toolsConfig("llm_ping")

	registered, err := SetupTools(registry, cfg, ToolDeps{
		Models:       models.NewRegistry(),
		DefaultModel: "main",
	})
	if err != nil {
		t.Fatalf("SetupTools: %v", err)
	}
	if len(registered) != 1 || registered[0] != "llm_ping" {
		t.Errorf("registered = %v, want [llm_ping]", registered)
	}
}

func TestSetupToolsUnknownNameIsNotFatal(t *testing.T) {
	registry := tools.NewRegistry()
	cfg := toolsConfig("clock", "teleport")

	registered, err := SetupTools(registry, cfg, ToolDeps{})
	if err != nil {
		t.Fatalf("SetupTools: %v", err)
	}
	if len(registered) != 1 || registered[0] != "clock" {
		t.Errorf("registered = %v, want [clock]", registered)
	}
	if _, err := registry.Get("teleport"); err == nil {
		t.Error("unknown tool must not be registered")
	}
}
