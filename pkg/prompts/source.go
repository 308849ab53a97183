package prompts

// PromptSource — контракт источника промптов.
//
// Реализации: FileSource, DatabaseSource, APISource, DefaultSource
// (пакет sources). Новый источник — это новая реализация плюс case
// в фабрике, реестр и вызывающий код не меняются.
//
// Rule 6: источники ничего не знают про цикл агента.
type PromptSource interface {
	// Load возвращает промпт по идентификатору.
	//
	// Отсутствие промпта — ошибка, оборачивающая ErrNotFound;
	// fallback chain по любой ошибке переходит к следующему источнику.
	Load(promptID string) (*PromptFile, error)
}
