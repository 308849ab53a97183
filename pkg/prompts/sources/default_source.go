package sources

import "fmt"

// DefaultSource — встроенные промпты, зашитые в бинарь.
//
// Последний резерв fallback chain: агент стартует даже без единого
// YAML файла. YAML-first философия — файлы приоритетны, defaults
// страхуют от пустой инсталляции.
type DefaultSource struct {
	prompts map[string]*PromptData
}

// NewDefaultSource создаёт источник с Go defaults.
func NewDefaultSource() *DefaultSource {
	return &DefaultSource{
		prompts: make(map[string]*PromptData),
	}
}

// AddPrompt добавляет встроенный промпт.
func (s *DefaultSource) AddPrompt(id string, file *PromptData) {
	s.prompts[id] = file
}

// Load возвращает встроенный промпт или ErrNotFound.
func (s *DefaultSource) Load(promptID string) (*PromptData, error) {
	file, ok := s.prompts[promptID]
	if !ok {
		return nil, fmt.Errorf("default prompt %s: %w", promptID, ErrNotFound)
	}
	return file, nil
}

// PopulateDefaults заполняет источник стандартными промптами.
func (s *DefaultSource) PopulateDefaults() {
	s.AddPrompt("agent_system", GetDefaultAgentSystemPrompt())
}

// GetDefaultAgentSystemPrompt возвращает дефолтный системный промпт агента.
//
// Только роль ассистента: формат решения (fenced YAML) модели диктует
// секция DECISION собранного промпта, а не системный промпт.
//
// Exported функция для использования в registry factory.
func GetDefaultAgentSystemPrompt() *PromptData {
	return &PromptData{
		System: `You are a helpful assistant that answers questions and uses tools when needed.`,
		Metadata: map[string]any{
			"source":  "go-default",
			"version": "1.0",
		},
	}
}
