// Типизированные ошибки транспортного слоя.
package llm

import "fmt"

// TransportError — ошибка обращения к LLM API.
//
// Фатальна для текущего запуска: цикл логирует её и пробрасывает выше,
// в отличие от ошибок инструментов, которые сворачиваются в observation.
//
// Поддерживает errors.As / errors.Unwrap.
type TransportError struct {
	// Provider — тип провайдера ("openai", "openrouter", ...)
	Provider string

	// Model — имя модели, к которой шёл запрос
	Model string

	// Err — исходная ошибка API/сети
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llm transport error (provider '%s', model '%s'): %v", e.Provider, e.Model, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
