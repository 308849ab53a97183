// Package trace — консольный трассировщик запусков агента.
//
// Подписывается на поток событий (pkg/events) и печатает человекочитаемые
// секции хода выполнения: запрос, решения модели, вызовы инструментов,
// финальный ответ. Advisory only: трассировка никогда не влияет на запуск.
//
// Используется cmd/simple-agent; TUI рисует те же события по-своему.
package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/ilkoid/minagent/pkg/events"
)

// sectionWidth — ширина баннера секции.
const sectionWidth = 50

// Палитра трассировщика (ANSI-256, согласована с pkg/tui ColorScheme).
var (
	colorBlue   = lipgloss.Color("39")
	colorGreen  = lipgloss.Color("82")
	colorCyan   = lipgloss.Color("86")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("226")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("252")
)

var (
	valueStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	dimStyle     = lipgloss.NewStyle().Foreground(colorGray).Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	argsStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	verboseStyle = lipgloss.NewStyle().Foreground(colorGray).Faint(true)
)

// ConsoleTracer печатает события запуска в виде секций с баннерами.
//
// enabled=false отключает весь вывод, verbose добавляет «→» строки
// хода выполнения и streaming-порции ответа модели.
type ConsoleTracer struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	verbose bool

	// streaming — идёт печать thinking-порций (закрыть строку перед секцией)
	streaming bool
}

// NewConsoleTracer создает трассировщик с выводом в stdout.
func NewConsoleTracer(enabled, verbose bool) *ConsoleTracer {
	return &ConsoleTracer{
		out:     os.Stdout,
		enabled: enabled,
		verbose: verbose,
	}
}

// SetOutput переопределяет writer (для тестов).
func (t *ConsoleTracer) SetOutput(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out = w
}

// Run читает события подписчика до закрытия канала.
//
// Блокирует вызывающую горутину; для фонового режима запускайте в goroutine.
func (t *ConsoleTracer) Run(sub events.Subscriber) {
	for ev := range sub.Events() {
		t.HandleEvent(ev)
	}
}

// HandleEvent печатает одно событие.
func (t *ConsoleTracer) HandleEvent(ev events.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return
	}

	switch ev.Type {
	case events.EventThinking:
		data, ok := ev.Data.(events.ThinkingData)
		if !ok {
			return
		}
		t.section("🤖 AGENT EXECUTION", colorBlue)
		t.item("Query", data.Query, valueStyle)

	case events.EventThinkingChunk:
		if !t.verbose {
			return
		}
		data, ok := ev.Data.(events.ThinkingChunkData)
		if !ok {
			return
		}
		// Порции печатаем подряд, без перевода строки
		fmt.Fprint(t.out, dimStyle.Render(data.Chunk))
		t.streaming = true

	case events.EventDecision:
		data, ok := ev.Data.(events.DecisionData)
		if !ok {
			return
		}
		icon := "✅"
		if data.Action == "tool" {
			icon = "🔧"
		}
		t.section(fmt.Sprintf("%s DECISION: %s", icon, strings.ToUpper(data.Action)), colorCyan)
		if data.Thinking != "" {
			t.item("Thinking", data.Thinking, dimStyle)
		}
		if data.ToolName != "" {
			t.item("Tool", data.ToolName, valueStyle)
		}

	case events.EventToolCall:
		data, ok := ev.Data.(events.ToolCallData)
		if !ok {
			return
		}
		t.section(fmt.Sprintf("🔧 TOOL: %s", data.ToolName), colorGreen)
		if data.Args != "" && data.Args != "{}" {
			t.item("Arguments", data.Args, argsStyle)
		}

	case events.EventToolResult:
		data, ok := ev.Data.(events.ToolResultData)
		if !ok {
			return
		}
		t.item("Result", data.Result, valueStyle)
		t.item("Duration", fmt.Sprintf("%dms", data.Duration.Milliseconds()), dimStyle)

	case events.EventMessage:
		data, ok := ev.Data.(events.MessageData)
		if !ok {
			return
		}
		t.section("✨ FINAL ANSWER", colorGreen)
		fmt.Fprintln(t.out, valueStyle.Render(data.Content))

	case events.EventError:
		data, ok := ev.Data.(events.ErrorData)
		if !ok || data.Err == nil {
			return
		}
		t.closeStreamingLine()
		fmt.Fprintln(t.out, errorStyle.Render(fmt.Sprintf("❌ ERROR: %v", data.Err)))

	case events.EventDone:
		t.verboseLine("run finished")
	}
}

// section печатает баннер секции.
func (t *ConsoleTracer) section(title string, color lipgloss.Color) {
	t.closeStreamingLine()

	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	banner := strings.Repeat("=", sectionWidth)

	fmt.Fprintf(t.out, "\n%s\n%s\n%s\n",
		style.Render(banner),
		style.Render("  "+title),
		style.Render(banner))
}

// item печатает строку "Label: value".
func (t *ConsoleTracer) item(label string, value string, style lipgloss.Style) {
	labelStyle := lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	fmt.Fprintf(t.out, "%s %s\n", labelStyle.Render(label+":"), style.Render(value))
}

// verboseLine печатает «→» строку хода выполнения (только verbose).
func (t *ConsoleTracer) verboseLine(message string) {
	if !t.verbose {
		return
	}
	t.closeStreamingLine()
	fmt.Fprintln(t.out, verboseStyle.Render("→ "+message))
}

// closeStreamingLine завершает строку streaming-порций перед новым блоком.
func (t *ConsoleTracer) closeStreamingLine() {
	if t.streaming {
		fmt.Fprintln(t.out)
		t.streaming = false
	}
}
