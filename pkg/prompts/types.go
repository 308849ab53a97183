// Package prompts управляет загрузкой промптов агента.
//
// Источники (файлы, база, API, встроенные defaults) живут в подпакете
// sources; этот пакет собирает их в fallback chain по конфигурации и
// отдаёт системный промпт агенту.
package prompts

import "github.com/ilkoid/minagent/pkg/prompts/sources"

// PromptFile — содержимое загруженного промпта.
//
// Алиас на sources.PromptData: тип определён в пакете источников, чтобы
// реализации не импортировали pkg/prompts (зависимость идёт сверху вниз).
// Благодаря алиасу каждая реализация из sources удовлетворяет PromptSource
// без переходников.
type PromptFile = sources.PromptData

// ErrNotFound — сентинел отсутствия промпта в источнике.
//
// Реэкспорт sources.ErrNotFound: вызывающему коду достаточно errors.Is
// без импорта подпакета.
var ErrNotFound = sources.ErrNotFound
