package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/ilkoid/minagent/pkg/events"
)

// newTestTui создаёт SimpleTui с живой подпиской для unit-тестов.
func newTestTui(cfg SimpleUIConfig) (*SimpleTui, *events.ChanEmitter) {
	emitter := events.NewChanEmitter(16)
	return NewSimpleTui(emitter.Subscribe(), cfg), emitter
}

// transcript возвращает текущий транскрипт без ANSI-форматирования.
func transcript(ui *SimpleTui) string {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return stripANSICodes(strings.Join(ui.messages, "\n"))
}

// processing читает флаг занятости под мьютексом.
func processing(ui *SimpleTui) bool {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return ui.isProcessing
}

func TestNewSimpleTuiDefaults(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	assert.Equal(t, 1, ui.config.StatusHeight)
	assert.Equal(t, 3, ui.config.InputHeight)
	assert.Equal(t, "> ", ui.config.InputPrompt)
	assert.Equal(t, "minagent", ui.config.Title)
	assert.Equal(t, DefaultColorScheme(), ui.config.Colors)
	assert.Empty(t, ui.messages)
}

func TestNewSimpleTuiKeepsExplicitConfig(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{
		Colors:      ColorSchemes["dracula"],
		InputPrompt: "AI> ",
		Title:       "custom",
	})

	assert.Equal(t, "AI> ", ui.config.InputPrompt)
	assert.Equal(t, "custom", ui.config.Title)
	assert.Equal(t, ColorSchemes["dracula"], ui.config.Colors)
}

// Финальный ответ должен появиться в транскрипте ровно один раз:
// EventMessage рендерит его, EventDone только разблокирует ввод.
func TestAnswerRenderedOnce(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	ui.handleAgentEvent(events.Event{
		Type: events.EventMessage,
		Data: events.MessageData{Content: "the answer is 5"},
	})
	ui.handleAgentEvent(events.Event{
		Type: events.EventDone,
		Data: events.MessageData{Content: "the answer is 5"},
	})

	text := transcript(ui)
	assert.Equal(t, 1, strings.Count(text, "the answer is 5"))
	assert.Equal(t, 1, strings.Count(text, "AI:"))
}

func TestToolFlowRendering(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	ui.handleAgentEvent(events.Event{
		Type: events.EventDecision,
		Data: events.DecisionData{Action: "tool", ToolName: "calc", Thinking: "need math"},
	})
	ui.handleAgentEvent(events.Event{
		Type: events.EventToolCall,
		Data: events.ToolCallData{ToolName: "calc", Args: `{"expression":"2+3"}`},
	})
	ui.handleAgentEvent(events.Event{
		Type: events.EventToolResult,
		Data: events.ToolResultData{ToolName: "calc", Result: "5", Duration: 7 * time.Millisecond},
	})

	text := transcript(ui)
	assert.Contains(t, text, "Thinking: need math")
	assert.Contains(t, text, "Decision: tool calc")
	assert.Contains(t, text, `Tool: calc({"expression":"2+3"})`)
	assert.Contains(t, text, "Result: calc (7ms)")
}

// При streaming reasoning уже есть live-строка thinking — решение
// не должно дублировать её.
func TestDecisionSkipsThinkingAfterChunks(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	ui.handleAgentEvent(events.Event{
		Type: events.EventThinkingChunk,
		Data: events.ThinkingChunkData{Chunk: "need", Accumulated: "need"},
	})
	ui.handleAgentEvent(events.Event{
		Type: events.EventThinkingChunk,
		Data: events.ThinkingChunkData{Chunk: " math", Accumulated: "need math"},
	})
	ui.handleAgentEvent(events.Event{
		Type: events.EventDecision,
		Data: events.DecisionData{Action: "answer", Thinking: "need math"},
	})

	text := transcript(ui)
	assert.Equal(t, 1, strings.Count(text, "Thinking:"))
	assert.Contains(t, text, "Decision: answer")
}

// Live-строка thinking заменяется на каждой порции, а не добавляется.
func TestUpdateThinkingLineReplacesLast(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	ui.updateThinkingLine("first")
	assert.Len(t, ui.messages, 1)

	ui.updateThinkingLine("first second")
	assert.Len(t, ui.messages, 1)
	assert.Contains(t, transcript(ui), "first second")

	// Обычная строка фиксирует live-строку
	ui.appendMessage("plain", false)
	ui.updateThinkingLine("third")
	assert.Len(t, ui.messages, 3)
}

func TestErrorEventUnblocksInput(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	ui.handleAgentEvent(events.Event{Type: events.EventThinking, Data: events.ThinkingData{Query: "q"}})
	assert.True(t, processing(ui))

	ui.handleAgentEvent(events.Event{
		Type: events.EventError,
		Data: events.ErrorData{Err: assert.AnError},
	})
	assert.False(t, processing(ui))
	assert.Contains(t, transcript(ui), "ERROR:")
}

func TestStatusBarShowsThinkingWhileBusy(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{ModelName: "gpt-4o-mini", StreamingStatus: "ON"})

	ui.handleAgentEvent(events.Event{Type: events.EventThinking, Data: events.ThinkingData{Query: "q"}})
	assert.Contains(t, stripANSICodes(ui.renderStatusBar()), "THINKING")

	ui.handleAgentEvent(events.Event{Type: events.EventDone, Data: events.MessageData{Content: "done"}})
	assert.Contains(t, stripANSICodes(ui.renderStatusBar()), "Streaming: ON")
}

func TestMaxMessagesTrimsOldest(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{MaxMessages: 3})

	ui.appendMessage("one", false)
	ui.appendMessage("two", false)
	ui.appendMessage("three", false)
	ui.appendMessage("four", false)

	assert.Len(t, ui.messages, 3)
	text := transcript(ui)
	assert.NotContains(t, text, "one")
	assert.Contains(t, text, "four")
}

func TestEnterInvokesInputHandler(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	got := make(chan string, 1)
	ui.OnInput(func(input string) {
		got <- input
	})

	ui.textarea.SetValue("hello agent")
	ui.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case input := <-got:
		assert.Equal(t, "hello agent", input)
	case <-time.After(2 * time.Second):
		t.Fatal("input handler was not invoked")
	}

	assert.Contains(t, transcript(ui), "User: hello agent")
	assert.Empty(t, ui.textarea.Value())
}

func TestEnterIgnoresEmptyInput(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	called := false
	ui.OnInput(func(string) { called = true })
	ui.handleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, called)
	assert.Empty(t, ui.messages)
}

func TestSaveMessagesRendered(t *testing.T) {
	ui, _ := newTestTui(SimpleUIConfig{})

	ui.Update(saveSuccessMsg{filename: "conversation_x.md"})
	assert.Contains(t, transcript(ui), "Saved transcript to conversation_x.md")

	ui.Update(saveErrorMsg{err: assert.AnError})
	assert.Contains(t, transcript(ui), "Save failed:")
}

func TestThinkingTail(t *testing.T) {
	assert.Equal(t, "short", thinkingTail("short"))
	assert.Equal(t, "no newlines here", thinkingTail("no\nnewlines\nhere"))

	long := strings.Repeat("x", thinkingTailLimit+40)
	tail := thinkingTail(long)
	assert.True(t, strings.HasPrefix(tail, "…"))
	assert.Len(t, []rune(tail), thinkingTailLimit+1)
}

func TestStripANSICodes(t *testing.T) {
	assert.Equal(t, "plain", stripANSICodes("plain"))
	assert.Equal(t, "red", stripANSICodes("\x1b[31mred\x1b[0m"))
	assert.Equal(t, "ab", stripANSICodes("\x1b[1;38;5;86ma\x1b[0mb"))
}

func TestRenderStatusBarContent(t *testing.T) {
	bar := stripANSICodes(RenderStatusBar("minagent", "gpt-4o", "ON", DefaultColorScheme()))
	assert.Contains(t, bar, "minagent")
	assert.Contains(t, bar, "Model: gpt-4o")
	assert.Contains(t, bar, "Streaming: ON")

	bar = stripANSICodes(RenderStatusBar("minagent", "", "", DefaultColorScheme()))
	assert.Contains(t, bar, "Model: N/A")
	assert.Contains(t, bar, "Streaming: OFF")
}

func TestGetColorSchemeFallback(t *testing.T) {
	assert.Equal(t, ColorSchemes["dark"], GetColorScheme("dark"))
	assert.Equal(t, DefaultColorScheme(), GetColorScheme("no-such-scheme"))
}
