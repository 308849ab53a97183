package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleSet — готовые lipgloss-стили, построенные из ColorScheme.
//
// Создаётся один раз в NewSimpleTui. Весь транскрипт рендерится через
// него, поэтому смена схемы в конфиге меняет внешний вид целиком.
type styleSet struct {
	system      lipgloss.Style
	user        lipgloss.Style
	ai          lipgloss.Style
	errMsg      lipgloss.Style
	thinking    lipgloss.Style
	thinkingDim lipgloss.Style
	toolCall    lipgloss.Style
	toolResult  lipgloss.Style
	divider     lipgloss.Style
}

// newStyleSet строит стили из цветовой схемы.
func newStyleSet(colors ColorScheme) styleSet {
	return styleSet{
		system:      lipgloss.NewStyle().Foreground(colors.SystemMessage),
		user:        lipgloss.NewStyle().Foreground(colors.UserMessage).Bold(true),
		ai:          lipgloss.NewStyle().Foreground(colors.AIMessage).Bold(true),
		errMsg:      lipgloss.NewStyle().Foreground(colors.ErrorMessage).Bold(true),
		thinking:    lipgloss.NewStyle().Foreground(colors.Thinking).Bold(true),
		thinkingDim: lipgloss.NewStyle().Foreground(colors.ThinkingDim),
		toolCall:    lipgloss.NewStyle().Foreground(colors.ToolCall),
		toolResult:  lipgloss.NewStyle().Foreground(colors.ToolResult),
		divider:     lipgloss.NewStyle().Foreground(colors.Border),
	}
}

// divider рендерит горизонтальную разделительную линию заданной ширины.
func (s styleSet) renderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.divider.Render(strings.Repeat("─", width))
}

// RenderStatusBar рендерит статус-бар.
//
// Parameters:
//   - title: Заголовок приложения
//   - model: Имя модели
//   - streaming: Статус streaming ("ON", "OFF", "THINKING")
//   - colors: Цветовая схема
//
// Возвращает отрендеренную строку статус-бара.
func RenderStatusBar(title, model, streaming string, colors ColorScheme) string {
	if model == "" {
		model = "N/A"
	}
	if streaming == "" {
		streaming = "OFF"
	}

	content := " " + title + " | Model: " + model + " | Streaming: " + streaming + " "

	style := lipgloss.NewStyle().
		Foreground(colors.StatusForeground).
		Background(colors.StatusBackground).
		Bold(true)

	return style.Render(content)
}
