// Package sources содержит реализации источников промптов.
//
// Каждый источник отдаёт *PromptData по идентификатору промпта и ничего
// не знает про реестр и fallback chain — это забота pkg/prompts.
// Пакет не импортирует pkg/prompts: зависимость направлена сверху вниз,
// реестр подключает источники, а не наоборот.
package sources

import "errors"

// ErrNotFound — сентинел отсутствия промпта в источнике.
//
// Источники оборачивают его через %w: вызывающий код различает
// "промпта нет" и "источник сломан" через errors.Is.
var ErrNotFound = errors.New("prompt not found")

// PromptData — данные одного промпта.
//
// YAML-теги задают схему файлового источника; database и api источники
// приводят свои форматы к этой же структуре.
type PromptData struct {
	// System — системный промпт (роль ассистента)
	System string `yaml:"system"`

	// Template — шаблон с плейсхолдерами (опционально)
	Template string `yaml:"template"`

	// Variables — подстановки шаблона
	Variables map[string]string `yaml:"variables"`

	// Metadata — происхождение и версия промпта
	Metadata map[string]any `yaml:"metadata"`
}
