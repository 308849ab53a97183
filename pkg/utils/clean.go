// Package utils предоставляет вспомогательные функции для обработки данных.
//
// Здесь живут утилиты очистки ответов LLM от markdown-обёртки перед
// показом пользователю.
package utils

import (
	"strings"
)

// CleanMarkdownCode удаляет все markdown code blocks из текста.
//
// Модель иногда дублирует решение fenced-блоком прямо в финальном ответе.
// Перед выводом пользователю такие блоки вырезаются целиком, остаётся
// только обычный текст.
//
// Пример:
//
//	"Смотри:\n```yaml\naction: answer\n```\nГотово" → "Смотри:\nГотово"
func CleanMarkdownCode(s string) string {
	lines := strings.Split(s, "\n")
	var result []string

	inCodeBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}

		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// SanitizeLLMOutput выполняет финальную очистку вывода LLM перед показом.
//
// Шаги:
// 1. Удаляет markdown code blocks
// 2. Обрезает пробелы по краям строк
// 3. Удаляет пустые строки
func SanitizeLLMOutput(s string) string {
	s = CleanMarkdownCode(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	var nonEmpty []string
	for _, line := range lines {
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	return strings.Join(nonEmpty, "\n")
}

// Truncate обрезает строку до max символов, добавляя многоточие.
//
// Используется для компактного показа длинных результатов инструментов
// в логах и трейсере. Байтовая длина: результаты инструментов — ASCII/UTF-8
// текст, точность до символа здесь не важна.
func Truncate(s string, max int) string {
	if max < 1 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
