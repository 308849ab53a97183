// Интерфейс Tool и структуры описаний инструментов.

package tools

import "context"

// ParamSpec описывает один параметр инструмента.
//
// Default == nil означает обязательный параметр без значения по умолчанию.
// Порядок параметров в ToolSpec.Params сохраняется в каталоге для LLM.
type ParamSpec struct {
	Name    string `json:"name"`
	Type    string `json:"type"`              // "str", "int", "float", "bool", "Any"...
	Default any    `json:"default,omitempty"` // Показывается в каталоге как "= значение"
}

// ToolSpec описывает инструмент для LLM.
//
// Явный дескриптор вместо рефлексии: инструмент сам сообщает имя,
// описание и упорядоченный список параметров.
type ToolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamSpec `json:"params,omitempty"`
}

// Tool — контракт, который должен реализовать любой инструмент.
type Tool interface {
	// Spec возвращает описание инструмента для каталога LLM.
	Spec() ToolSpec

	// Execute выполняет логику инструмента.
	// argsJSON — сырой JSON с аргументами из решения LLM: объект для
	// именованных аргументов либо одиночное значение.
	// Возвращает результат-строку или ошибку.
	Execute(ctx context.Context, argsJSON string) (string, error)
}
