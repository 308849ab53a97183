// Package prompt собирает текст решающего промпта из пяти секций:
// SYSTEM, CONVERSATION HISTORY, CURRENT QUERY, AVAILABLE TOOLS, DECISION.
//
// Сборка — чистая функция: одинаковые входы дают байт-в-байт одинаковый
// промпт. Никакого состояния, никакого ввода-вывода.
package prompt

import (
	"fmt"
	"strings"

	"github.com/ilkoid/minagent/pkg/state"
	"github.com/ilkoid/minagent/pkg/tools"
)

const (
	// historyWindow — сколько последних реплик диалога попадает в промпт.
	historyWindow = 20

	// recentCallsWindow — сколько последних вызовов инструментов показывается.
	recentCallsWindow = 5

	// resultPreviewRunes — лимит превью результата инструмента в символах.
	resultPreviewRunes = 200
)

const fence = "```"

// decisionInstructions — фиксированный текст секции DECISION:
// инструкция и YAML-схема ожидаемого ответа.
const decisionInstructions = "Decide the next action. You can either:\n" +
	"1. Call a tool to gather information\n" +
	"2. Provide the final answer if you have sufficient information\n" +
	"\n" +
	"Return your decision in YAML format:\n" +
	"\n" +
	fence + "yaml\n" +
	"thinking: |\n" +
	"    <step-by-step reasoning about what to do next>\n" +
	"action: tool OR answer\n" +
	"tool_name: <name of tool if action is tool>\n" +
	"tool_args: <arguments for tool as a dict if action is tool>\n" +
	"final_answer: |\n" +
	"    <complete answer if action is answer>\n" +
	fence + "\n"

// Inputs — все данные для сборки промпта.
type Inputs struct {
	// BasePrompt — системный промпт агента.
	BasePrompt string

	// History — отрендеренная история диалога (см. FormatHistory).
	History string

	// Query — текущий запрос пользователя.
	Query string

	// Tools — каталог инструментов в порядке регистрации.
	Tools []tools.ToolSpec

	// RecentCalls — вызовы инструментов текущего запуска;
	// в промпт попадают последние recentCallsWindow.
	RecentCalls []state.ToolCallRecord
}

// Build собирает решающий промпт.
func Build(in Inputs) string {
	var b strings.Builder

	b.WriteString("### SYSTEM\n")
	b.WriteString(in.BasePrompt)
	b.WriteString("\n\n### CONVERSATION HISTORY\n")
	b.WriteString(in.History)
	b.WriteString("\n\n### CURRENT QUERY\n")
	b.WriteString(in.Query)
	b.WriteString("\n\n### AVAILABLE TOOLS\n")
	b.WriteString(formatCatalog(in.Tools))
	b.WriteString("\n")
	b.WriteString(formatRecentCalls(in.RecentCalls))
	b.WriteString("\n\n### DECISION\n")
	b.WriteString(decisionInstructions)

	return b.String()
}

// FormatHistory рендерит историю диалога для промпта.
//
// Берет последние historyWindow реплик, старые первыми, по строке
// "ROLE: content" на реплику. Пустая история — "No previous conversation".
func FormatHistory(entries []state.Entry) string {
	if len(entries) > historyWindow {
		entries = entries[len(entries)-historyWindow:]
	}
	if len(entries) == 0 {
		return "No previous conversation"
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = strings.ToUpper(string(e.Role)) + ": " + e.Content
	}
	return strings.Join(lines, "\n")
}

// formatCatalog рендерит каталог инструментов.
//
// Формат строки: "- name(param: type = default, ...): description".
// Пустой каталог — "No tools available".
func formatCatalog(specs []tools.ToolSpec) string {
	if len(specs) == 0 {
		return "No tools available"
	}

	lines := make([]string, 0, len(specs))
	for _, spec := range specs {
		lines = append(lines, catalogLine(spec))
	}
	return strings.Join(lines, "\n")
}

// catalogLine рендерит одну строку каталога.
func catalogLine(spec tools.ToolSpec) string {
	params := make([]string, 0, len(spec.Params))
	for _, p := range spec.Params {
		typ := p.Type
		if typ == "" {
			typ = "Any"
		}
		s := p.Name + ": " + typ
		if p.Default != nil {
			s += fmt.Sprintf(" = %v", p.Default)
		}
		params = append(params, s)
	}
	return fmt.Sprintf("- %s(%s): %s", spec.Name, strings.Join(params, ", "), spec.Description)
}

// formatRecentCalls рендерит блок последних вызовов инструментов.
//
// Пустой список — пустая строка, блок не показывается вовсе.
// Превью результата режется до resultPreviewRunes символов,
// многоточие добавляется всегда.
func formatRecentCalls(records []state.ToolCallRecord) string {
	if len(records) == 0 {
		return ""
	}
	if len(records) > recentCallsWindow {
		records = records[len(records)-recentCallsWindow:]
	}

	var b strings.Builder
	b.WriteString("\nRecent Tool Calls:")
	for _, r := range records {
		b.WriteString("\n- ")
		b.WriteString(r.Tool)
		b.WriteString(": ")
		b.WriteString(resultPreview(r.Result))
		b.WriteString("...")
	}
	return b.String()
}

// resultPreview обрезает результат по символам, не по байтам:
// результаты бывают кириллическими, рвать руну нельзя.
func resultPreview(s string) string {
	runes := []rune(s)
	if len(runes) > resultPreviewRunes {
		runes = runes[:resultPreviewRunes]
	}
	return string(runes)
}
