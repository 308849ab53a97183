// Интерфейс Провайдера, через который работает весь цикл агента.
//
// Контракт транспорта сознательно узкий: собранный промпт уходит одной
// строкой, ответ приходит одной строкой. Решение модель кодирует внутри
// текста (fenced YAML блок), поэтому native function calling здесь не нужен.
package llm

import "context"

// Provider — контракт для любого AI-сервиса.
//
// # Rule 4: LLM Abstraction
//
// Весь код работает через этот интерфейс, конкретные реализации
// (OpenAI-совместимые API, OpenRouter) скрыты за ним.
//
// # Rule 11: Context Propagation
//
// Generate уважает context.Context и прерывает запрос при отмене.
type Provider interface {
	// Generate отправляет промпт одним user-сообщением и возвращает
	// текст первого choice.
	//
	// opts переопределяют параметры модели (model, temperature,
	// max_tokens) поверх значений из конфигурации.
	//
	// Ошибки транспорта возвращаются как *TransportError.
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
}
