package prompts

import "fmt"

// SourceRegistry — упорядоченная цепочка источников промптов.
//
// Fallback chain: источники опрашиваются в порядке добавления, первый
// успешный Load выигрывает. Ошибки промежуточных источников не
// прерывают цепочку — наружу уходит только последняя, когда отказали
// все.
type SourceRegistry struct {
	sources []PromptSource
}

// NewSourceRegistry создаёт пустой реестр.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{sources: make([]PromptSource, 0)}
}

// AddSource добавляет источник в конец цепочки.
func (r *SourceRegistry) AddSource(source PromptSource) {
	r.sources = append(r.sources, source)
}

// Load опрашивает цепочку и возвращает первый успешный результат.
//
// Позиция отказавшего источника попадает в ошибку — иначе по тексту
// не понять, какой из трёх file-источников конфигурации сломан.
func (r *SourceRegistry) Load(promptID string) (*PromptFile, error) {
	var lastErr error

	for i, source := range r.sources {
		file, err := source.Load(promptID)
		if err == nil {
			return file, nil
		}
		lastErr = fmt.Errorf("source %d: %w", i, err)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all sources failed for '%s': %w", promptID, lastErr)
	}

	return nil, fmt.Errorf("no sources configured for prompt '%s'", promptID)
}

// HasSources сообщает, есть ли в цепочке хотя бы один источник.
func (r *SourceRegistry) HasSources() bool {
	return len(r.sources) > 0
}
