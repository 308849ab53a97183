package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ilkoid/minagent/pkg/state"
	"github.com/ilkoid/minagent/pkg/tools"
)

// TestBuild_Sections проверяет что все пять секций на месте и по порядку.
func TestBuild_Sections(t *testing.T) {
	p := Build(Inputs{
		BasePrompt: "You are a helpful assistant.",
		History:    "No previous conversation",
		Query:      "What time is it?",
		Tools: []tools.ToolSpec{
			{Name: "clock", Description: "Returns current time"},
		},
	})

	sections := []string{
		"### SYSTEM",
		"### CONVERSATION HISTORY",
		"### CURRENT QUERY",
		"### AVAILABLE TOOLS",
		"### DECISION",
	}
	pos := -1
	for _, s := range sections {
		idx := strings.Index(p, s)
		if idx == -1 {
			t.Fatalf("section %q missing from prompt", s)
		}
		if idx < pos {
			t.Errorf("section %q out of order", s)
		}
		pos = idx
	}

	if !strings.Contains(p, "You are a helpful assistant.") {
		t.Error("base prompt missing")
	}
	if !strings.Contains(p, "What time is it?") {
		t.Error("query missing")
	}
	if !strings.Contains(p, "```yaml") {
		t.Error("yaml schema missing from DECISION section")
	}
	if !strings.Contains(p, "action: tool OR answer") {
		t.Error("decision schema line missing")
	}
}

// TestBuild_Idempotent проверяет что одинаковые входы дают байт-в-байт
// одинаковый промпт.
func TestBuild_Idempotent(t *testing.T) {
	in := Inputs{
		BasePrompt: "base",
		History:    "USER: hi\nASSISTANT: hello",
		Query:      "next",
		Tools: []tools.ToolSpec{
			{Name: "a", Description: "first"},
			{Name: "b", Description: "second", Params: []tools.ParamSpec{{Name: "x", Type: "int", Default: 5}}},
		},
		RecentCalls: []state.ToolCallRecord{
			{Tool: "a", Result: "r1"},
		},
	}

	if Build(in) != Build(in) {
		t.Error("Build is not deterministic for identical inputs")
	}
}

// TestBuild_CatalogRendering проверяет формат строк каталога.
func TestBuild_CatalogRendering(t *testing.T) {
	p := Build(Inputs{
		Tools: []tools.ToolSpec{
			{
				Name:        "get_weather",
				Description: "Get current weather",
				Params: []tools.ParamSpec{
					{Name: "location", Type: "str"},
					{Name: "units", Type: "str", Default: "metric"},
				},
			},
			{Name: "clock", Description: "Current time"},
			{Name: "mystery", Description: "No type hint", Params: []tools.ParamSpec{{Name: "x"}}},
		},
	})

	if !strings.Contains(p, "- get_weather(location: str, units: str = metric): Get current weather") {
		t.Error("catalog line with params and default rendered incorrectly")
	}
	if !strings.Contains(p, "- clock(): Current time") {
		t.Error("no-param tool should render with ()")
	}
	if !strings.Contains(p, "- mystery(x: Any): No type hint") {
		t.Error("missing type should default to Any")
	}
}

// TestBuild_EmptyCatalog проверяет плейсхолдер пустого каталога.
func TestBuild_EmptyCatalog(t *testing.T) {
	p := Build(Inputs{Query: "q"})
	if !strings.Contains(p, "No tools available") {
		t.Error("empty catalog placeholder missing")
	}
}

// TestBuild_RecentCalls проверяет блок последних вызовов.
func TestBuild_RecentCalls(t *testing.T) {
	// Без вызовов блока нет
	p := Build(Inputs{Query: "q"})
	if strings.Contains(p, "Recent Tool Calls:") {
		t.Error("recent calls block should be absent without records")
	}

	// Семь вызовов — показываются последние пять
	records := make([]state.ToolCallRecord, 7)
	for i := range records {
		records[i] = state.ToolCallRecord{
			Tool:   fmt.Sprintf("tool%d", i),
			Result: fmt.Sprintf("result%d", i),
		}
	}
	p = Build(Inputs{Query: "q", RecentCalls: records})

	if !strings.Contains(p, "Recent Tool Calls:") {
		t.Fatal("recent calls block missing")
	}
	if strings.Contains(p, "tool0:") || strings.Contains(p, "tool1:") {
		t.Error("older than last 5 calls leaked into the block")
	}
	for i := 2; i < 7; i++ {
		if !strings.Contains(p, fmt.Sprintf("- tool%d: result%d...", i, i)) {
			t.Errorf("call tool%d missing or malformed", i)
		}
	}
}

// TestBuild_ResultPreviewTruncation проверяет обрезку длинных результатов.
func TestBuild_ResultPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", 500)
	p := Build(Inputs{
		Query: "q",
		RecentCalls: []state.ToolCallRecord{
			{Tool: "big", Result: long},
		},
	})

	want := "- big: " + strings.Repeat("x", 200) + "..."
	if !strings.Contains(p, want) {
		t.Error("long result not truncated to 200 chars")
	}
	if strings.Contains(p, strings.Repeat("x", 201)) {
		t.Error("more than 200 result chars leaked into the prompt")
	}

	// Короткий результат тоже получает многоточие
	p = Build(Inputs{
		Query: "q",
		RecentCalls: []state.ToolCallRecord{
			{Tool: "small", Result: "ok"},
		},
	})
	if !strings.Contains(p, "- small: ok...") {
		t.Error("short result should still end with ellipsis")
	}
}

// TestFormatHistory проверяет рендер истории диалога.
func TestFormatHistory(t *testing.T) {
	// Пустая история
	if got := FormatHistory(nil); got != "No previous conversation" {
		t.Errorf("empty history = %q", got)
	}

	// Обычный рендер
	entries := []state.Entry{
		{Role: state.RoleUser, Content: "hi"},
		{Role: state.RoleAssistant, Content: "hello"},
	}
	want := "USER: hi\nASSISTANT: hello"
	if got := FormatHistory(entries); got != want {
		t.Errorf("FormatHistory() = %q, want %q", got, want)
	}
}

// TestFormatHistory_Window проверяет окно в 20 реплик.
func TestFormatHistory_Window(t *testing.T) {
	entries := make([]state.Entry, 25)
	for i := range entries {
		entries[i] = state.Entry{Role: state.RoleUser, Content: fmt.Sprintf("msg%d", i)}
	}

	got := FormatHistory(entries)
	lines := strings.Split(got, "\n")
	if len(lines) != 20 {
		t.Fatalf("rendered %d lines, want 20", len(lines))
	}
	// Старые первыми: первая строка — msg5, последняя — msg24
	if lines[0] != "USER: msg5" {
		t.Errorf("first line = %q, want USER: msg5", lines[0])
	}
	if lines[19] != "USER: msg24" {
		t.Errorf("last line = %q, want USER: msg24", lines[19])
	}
}
