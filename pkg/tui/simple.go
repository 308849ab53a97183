// Package tui предоставляет SimpleTui — примитивный "lego brick" TUI компонент.
//
// SimpleTui это максимально простой, переиспользуемый TUI для чат-агента.
// Он НЕ содержит бизнес-логики агента, только UI компоненты: события
// приходят через events.Subscriber, ввод уходит через OnInput callback.
//
// # Layout
//
//	┌─────────────────────────────────────────────────┐
//	│ minagent | Model: gpt-4o-mini | Streaming: ON   │ ← Status Bar
//	├─────────────────────────────────────────────────┤
//	│  [14:32:15] User: what is 2+3?                  │
//	│  Thinking...                                    │
//	│  Decision: tool calc                            │
//	│  Tool: calc({"expression":"2+3"})               │
//	│  Result: calc (2ms)                             │
//	│  [14:32:18] AI: 2+3 равно 5                     │
//	│                                                 │
//	│  Main Area (auto-scroll, streaming messages)    │
//	├─────────────────────────────────────────────────┤
//	│ > user input here                               │ ← Input Area
//	└─────────────────────────────────────────────────┘
//
// # Basic Usage
//
//	client, _ := agent.New(agent.Config{ConfigPath: "config.yaml"})
//	sub := client.Subscribe()
//
//	ui := tui.NewSimpleTui(sub, tui.SimpleUIConfig{
//	    Colors:        tui.ColorSchemes["dark"],
//	    InputPrompt:   "AI> ",
//	    ShowTimestamp: true,
//	})
//
//	ui.OnInput(func(input string) {
//	    client.Run(ctx, input)
//	})
//
//	ui.Run()
//
// Rule 6: Reusable library code, no app-specific logic.
package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ilkoid/minagent/pkg/events"
)

// thinkingTailLimit — сколько последних символов накопленного reasoning
// показывать в live-строке thinking. Полный текст пишется в транскрипты
// цикла, TUI показывает только хвост.
const thinkingTailLimit = 160

// SimpleUIConfig конфигурирует SimpleTui.
//
// Все поля опциональны, используются дефолтные значения если не заданы.
type SimpleUIConfig struct {
	// Colors определяет цветовую схему
	Colors ColorScheme

	// StatusHeight — высота статус-бара (1 для однострочного)
	StatusHeight int

	// InputHeight — высота поля ввода
	InputHeight int

	// InputPrompt — текст приглашения ввода
	InputPrompt string

	// ShowTimestamp — показывать timestamp у реплик пользователя и агента
	ShowTimestamp bool

	// MaxMessages — максимальное количество строк в логе (0 = безлимит)
	MaxMessages int

	// WrapText — переносить длинные строки по ширине терминала
	WrapText bool

	// Title — заголовок приложения (отображается в статус-баре)
	Title string

	// ModelName — имя модели для отображения в статус-баре
	ModelName string

	// StreamingStatus — статус streaming для статус-бара ("ON"/"OFF");
	// пока агент работает, статус-бар показывает "THINKING"
	StreamingStatus string
}

// SimpleTui примитивный "lego brick" TUI компонент.
//
// Thread-safe.
//
// Не содержит бизнес-логики агента, только UI.
// Работает с events.Subscriber для получения событий агента.
type SimpleTui struct {
	// config — конфигурация TUI
	config SimpleUIConfig

	// styles — стили, построенные из config.Colors
	styles styleSet

	// subscriber — подписчик на события агента (Port & Adapter)
	subscriber events.Subscriber

	// onInput — callback для обработки пользовательского ввода
	onInput func(input string)

	// program — работающая Bubble Tea программа (для Quit() извне)
	program *tea.Program

	// Bubble Tea компоненты
	viewport viewport.Model
	textarea textarea.Model

	// Состояние
	mu             sync.RWMutex
	messages       []string // История строк транскрипта
	thinkingActive bool     // Последняя строка — live thinking, её можно заменять
	ready          bool     // Флаг первой инициализации размеров
	isProcessing   bool     // Флаг занятости агента
	width          int      // Текущая ширина viewport (для WrapText)
}

// NewSimpleTui создаёт новый SimpleTui.
//
// Parameters:
//   - subscriber: Подписчик на события агента (events.Subscriber)
//   - config: Конфигурация TUI (используются дефолтные значения если пустые)
//
// Возвращает инициализированный SimpleTui готовый к использованию.
func NewSimpleTui(subscriber events.Subscriber, config SimpleUIConfig) *SimpleTui {
	// Применяем дефолтные значения
	if config.StatusHeight == 0 {
		config.StatusHeight = 1
	}
	if config.InputHeight == 0 {
		config.InputHeight = 3
	}
	if config.InputPrompt == "" {
		config.InputPrompt = "> "
	}
	if config.Colors.StatusForeground == "" {
		config.Colors = DefaultColorScheme()
	}
	if config.Title == "" {
		config.Title = "minagent"
	}

	styles := newStyleSet(config.Colors)

	// Настройка textarea
	ta := textarea.New()
	ta.Placeholder = "Введите запрос..."
	ta.Focus()
	ta.Prompt = config.InputPrompt
	ta.CharLimit = 500
	ta.SetHeight(config.InputHeight)
	ta.ShowLineNumbers = false

	// Настройка viewport
	vp := viewport.New(0, 0)
	vp.SetContent(styles.system.Render("Agent initialized. Type your query...") + "\n")

	return &SimpleTui{
		config:     config,
		styles:     styles,
		subscriber: subscriber,
		onInput:    nil, // Устанавливается через OnInput()
		viewport:   vp,
		textarea:   ta,
		messages:   []string{},
		ready:      false,
	}
}

// OnInput устанавливает callback для обработки пользовательского ввода.
//
// Вызывается каждый раз когда пользователь нажимает Enter.
// Callback получает текст ввода и выполняется в отдельной горутине,
// чтобы не блокировать UI.
//
// Пример:
//
//	ui.OnInput(func(input string) {
//	    client.Run(ctx, input)
//	})
func (t *SimpleTui) OnInput(handler func(input string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onInput = handler
}

// Run запускает TUI (блокирующий вызов).
//
// Возвращает ошибку если TUI завершился с ошибкой.
// nil при нормальном завершении (Ctrl+C, Esc или Quit()).
func (t *SimpleTui) Run() error {
	p := tea.NewProgram(t)

	t.mu.Lock()
	t.program = p
	t.mu.Unlock()

	_, err := p.Run()

	t.mu.Lock()
	t.program = nil
	t.mu.Unlock()

	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// Quit завершает работу TUI извне.
//
// Можно вызвать из другой горутины для graceful shutdown.
// No-op если Run() ещё не запущен или уже завершился.
func (t *SimpleTui) Quit() {
	t.mu.RLock()
	p := t.program
	t.mu.RUnlock()

	if p != nil {
		p.Quit()
	}
}

// ===== BUBBLE TEA MODEL INTERFACE =====

// Init реализует tea.Model интерфейс.
func (t *SimpleTui) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		ReceiveEventCmd(t.subscriber, func(event events.Event) tea.Msg {
			return EventMsg(event)
		}),
	)
}

// Update реализует tea.Model интерфейс.
func (t *SimpleTui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	t.textarea, tiCmd = t.textarea.Update(msg)
	t.viewport, vpCmd = t.viewport.Update(msg)

	switch msg := msg.(type) {
	case EventMsg:
		return t.handleAgentEvent(events.Event(msg))

	case tea.WindowSizeMsg:
		return t.handleWindowSize(msg)

	case tea.KeyMsg:
		return t.handleKeyPress(msg)

	case saveSuccessMsg:
		t.appendMessage(t.styles.system.Render("Saved transcript to "+msg.filename), false)
		return t, nil

	case saveErrorMsg:
		t.appendMessage(t.styles.errMsg.Render("Save failed: "+msg.err.Error()), false)
		return t, nil
	}

	return t, tea.Batch(tiCmd, vpCmd)
}

// handleAgentEvent обрабатывает события от агента.
//
// Финальный ответ рендерится ровно один раз — на EventMessage.
// EventDone несёт тот же текст, но трактуется только как сигнал
// завершения запуска (разблокировка ввода).
func (t *SimpleTui) handleAgentEvent(event events.Event) (tea.Model, tea.Cmd) {
	switch event.Type {
	case events.EventThinking:
		t.mu.Lock()
		t.isProcessing = true
		t.mu.Unlock()
		t.appendMessage(t.styles.system.Render("Thinking..."), false)

	case events.EventThinkingChunk:
		// Streaming reasoning: live-строка заменяется на каждой порции
		if chunkData, ok := event.Data.(events.ThinkingChunkData); ok {
			t.updateThinkingLine(chunkData.Accumulated)
		}

	case events.EventDecision:
		if decision, ok := event.Data.(events.DecisionData); ok {
			// Без streaming reasoning приходит только здесь
			if decision.Thinking != "" && !t.liveThinking() {
				t.appendMessage(
					t.styles.thinking.Render("Thinking: ")+
						t.styles.thinkingDim.Render(thinkingTail(decision.Thinking)),
					false,
				)
			}
			if decision.Action == "tool" {
				t.appendMessage(t.styles.toolCall.Render("Decision: tool "+decision.ToolName), false)
			} else {
				t.appendMessage(t.styles.system.Render("Decision: answer"), false)
			}
		}

	case events.EventToolCall:
		if toolData, ok := event.Data.(events.ToolCallData); ok {
			t.appendMessage(t.styles.toolCall.Render(fmt.Sprintf("Tool: %s(%s)", toolData.ToolName, toolData.Args)), false)
		}

	case events.EventToolResult:
		if resultData, ok := event.Data.(events.ToolResultData); ok {
			duration := resultData.Duration.Milliseconds()
			t.appendMessage(t.styles.toolResult.Render(fmt.Sprintf("Result: %s (%dms)", resultData.ToolName, duration)), false)
		}

	case events.EventMessage:
		if msgData, ok := event.Data.(events.MessageData); ok {
			t.appendMessage(t.styles.ai.Render("AI: ")+msgData.Content, true)
		}

	case events.EventError:
		if errData, ok := event.Data.(events.ErrorData); ok {
			t.appendMessage(t.styles.errMsg.Render("ERROR: "+errData.Err.Error()), true)
		}
		t.mu.Lock()
		t.isProcessing = false
		t.mu.Unlock()
		t.textarea.Focus()

	case events.EventDone:
		t.mu.Lock()
		t.isProcessing = false
		t.mu.Unlock()
		t.textarea.Focus()
	}

	return t, WaitForEvent(t.subscriber, func(e events.Event) tea.Msg {
		return EventMsg(e)
	})
}

// handleWindowSize обрабатывает изменение размера терминала.
func (t *SimpleTui) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	headerHeight := t.config.StatusHeight
	footerHeight := t.textarea.Height() + 1

	vpHeight := msg.Height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	vpWidth := msg.Width
	if vpWidth < 20 {
		vpWidth = 20
	}

	t.viewport.Width = vpWidth
	t.viewport.Height = vpHeight
	t.textarea.SetWidth(vpWidth)

	// Перепереносим транскрипт под новую ширину
	t.mu.Lock()
	t.width = vpWidth
	t.refreshViewportLocked()
	t.mu.Unlock()

	if !t.ready {
		t.ready = true
		dimensions := fmt.Sprintf("Window: %dx%d", msg.Width, msg.Height)
		t.appendMessage(t.styles.system.Render(dimensions), false)
	}

	return t, nil
}

// handleKeyPress обрабатывает нажатия клавиш.
func (t *SimpleTui) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return t, tea.Quit

	case tea.KeyCtrlS:
		// Снимок транскрипта под мьютексом, запись в Cmd-горутине
		t.mu.RLock()
		snapshot := make([]string, len(t.messages))
		copy(snapshot, t.messages)
		t.mu.RUnlock()
		return t, saveTranscriptCmd(snapshot)

	case tea.KeyEnter:
		input := t.textarea.Value()
		if input == "" {
			return t, nil
		}

		t.textarea.Reset()
		t.appendMessage(t.styles.user.Render("User: ")+input, true)

		t.mu.RLock()
		handler := t.onInput
		t.mu.RUnlock()

		if handler != nil {
			// Не блокируем UI: Run агента идёт в своей горутине,
			// результат вернётся как события
			go handler(input)
		}
	}

	return t, nil
}

// View реализует tea.Model интерфейс.
func (t *SimpleTui) View() string {
	return fmt.Sprintf("%s\n%s\n%s",
		t.renderStatusBar(),
		t.viewport.View(),
		t.textarea.View(),
	)
}

// ===== INTERNAL METHODS =====

// renderStatusBar рендерит статус-бар.
//
// Пока агент занят, вместо настроенного StreamingStatus показывается
// "THINKING".
func (t *SimpleTui) renderStatusBar() string {
	t.mu.RLock()
	busy := t.isProcessing
	t.mu.RUnlock()

	status := t.config.StreamingStatus
	if busy {
		status = "THINKING"
	}
	return RenderStatusBar(t.config.Title, t.config.ModelName, status, t.config.Colors)
}

// liveThinking сообщает, является ли последняя строка live thinking-строкой.
func (t *SimpleTui) liveThinking() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.thinkingActive
}

// appendMessage добавляет строку в транскрипт.
func (t *SimpleTui) appendMessage(msg string, showTimestamp bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.appendLocked(msg, showTimestamp)
}

// appendLocked — тело appendMessage; вызывается под t.mu.
func (t *SimpleTui) appendLocked(msg string, showTimestamp bool) {
	// Любая обычная строка фиксирует live thinking-строку
	t.thinkingActive = false

	line := msg
	if showTimestamp && t.config.ShowTimestamp {
		line = fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
	}

	t.messages = append(t.messages, line)
	t.trimLocked()
	t.refreshViewportLocked()
}

// updateThinkingLine обновляет live-строку thinking накопленным текстом.
//
// Если последняя строка — live thinking, она заменяется; иначе
// добавляется новая. Замена идёт по явному флагу thinkingActive,
// а не по содержимому строки.
func (t *SimpleTui) updateThinkingLine(accumulated string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := t.styles.thinking.Render("Thinking: ") + t.styles.thinkingDim.Render(thinkingTail(accumulated))

	if t.thinkingActive && len(t.messages) > 0 {
		t.messages[len(t.messages)-1] = line
	} else {
		t.messages = append(t.messages, line)
		t.thinkingActive = true
	}

	t.trimLocked()
	t.refreshViewportLocked()
}

// trimLocked обрезает транскрипт до MaxMessages строк; вызывается под t.mu.
func (t *SimpleTui) trimLocked() {
	if t.config.MaxMessages > 0 && len(t.messages) > t.config.MaxMessages {
		t.messages = t.messages[len(t.messages)-t.config.MaxMessages:]
	}
}

// refreshViewportLocked перерисовывает viewport из t.messages; вызывается под t.mu.
//
// С WrapText строки переносятся по текущей ширине (ANSI-aware wordwrap).
func (t *SimpleTui) refreshViewportLocked() {
	content := strings.Join(t.messages, "\n")
	if t.config.WrapText && t.width > 0 {
		content = wordwrap.String(content, t.width)
	}
	AppendToViewport(&t.viewport, content)
}

// thinkingTail возвращает хвост накопленного reasoning для live-строки.
func thinkingTail(s string) string {
	runes := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(runes) <= thinkingTailLimit {
		return string(runes)
	}
	return "…" + string(runes[len(runes)-thinkingTailLimit:])
}

// Ensure SimpleTui implements tea.Model
var _ tea.Model = (*SimpleTui)(nil)
