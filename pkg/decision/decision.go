// Package decision разбирает ответ модели в структурированное решение.
//
// Модель отвечает YAML-блоком с полями thinking/action/tool_name/tool_args/
// final_answer. Пакет извлекает блок, валидирует его и возвращает Decision —
// размеченное объединение: либо вызов инструмента, либо финальный ответ.
//
// Rule 7: Любая проблема разбора — типизированная *ParseError, никаких panic.
package decision

import "fmt"

// Action — тип решения модели.
type Action string

const (
	// ActionTool — модель запрашивает вызов инструмента.
	ActionTool Action = "tool"
	// ActionAnswer — модель дает финальный ответ.
	ActionAnswer Action = "answer"
)

// Decision — разобранное решение модели.
//
// Ровно один из двух вариантов заполнен: вызов инструмента или ответ.
// Конструкторы NewToolCall/NewAnswer гарантируют инвариант, поэтому
// поля вариантов закрыты.
type Decision struct {
	// Thinking — рассуждение модели, общее для обоих вариантов.
	Thinking string

	action   Action
	toolName string
	toolArgs any
	answer   string
}

// NewToolCall создает решение "вызвать инструмент".
//
// args — аргументы из YAML: mapping для именованных аргументов либо
// одиночное значение; nil нормализуется в пустой mapping.
func NewToolCall(thinking, toolName string, args any) Decision {
	if args == nil {
		args = map[string]any{}
	}
	return Decision{
		Thinking: thinking,
		action:   ActionTool,
		toolName: toolName,
		toolArgs: args,
	}
}

// NewAnswer создает решение "дать финальный ответ".
func NewAnswer(thinking, answer string) Decision {
	return Decision{
		Thinking: thinking,
		action:   ActionAnswer,
		answer:   answer,
	}
}

// Action возвращает тип решения.
func (d Decision) Action() Action {
	return d.action
}

// ToolCall возвращает имя и аргументы инструмента.
// ok == false если решение — не вызов инструмента.
func (d Decision) ToolCall() (name string, args any, ok bool) {
	if d.action != ActionTool {
		return "", nil, false
	}
	return d.toolName, d.toolArgs, true
}

// Answer возвращает финальный ответ.
// ok == false если решение — не ответ.
func (d Decision) Answer() (string, bool) {
	if d.action != ActionAnswer {
		return "", false
	}
	return d.answer, true
}

// ParseError — ошибка разбора ответа модели.
//
// Reason описывает проблему, Raw хранит исходный ответ для отладки.
type ParseError struct {
	Reason string
	Raw    string
}

// Error реализует интерфейс error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse decision: %s", e.Reason)
}
