// Package llm предоставляет типы и интерфейсы для работы с LLM провайдерами.
//
// Этот файл определяет абстракции для потоковой передачи (streaming) ответов.
package llm

import "context"

// StreamingProvider — интерфейс для LLM провайдеров с поддержкой стриминга.
//
// Отдельный интерфейс от Provider для обратной совместимости: вызывающий
// код делает type assertion и fallback на синхронный Generate, если
// провайдер стримить не умеет.
//
// # Rule 11: Context Propagation
//
// Все методы уважают context.Context и прерывают операцию при отмене.
type StreamingProvider interface {
	// Provider — базовый интерфейс для синхронной генерации.
	Provider

	// GenerateStream выполняет запрос с потоковой передачей ответа.
	//
	// Callback вызывается для каждой порции данных:
	//   - ChunkContent: дельта контента + накопленный текст
	//   - ChunkError: ошибка стриминга
	//   - ChunkDone: сентинел конца потока (отправляется ровно один раз
	//     при успешном завершении)
	//
	// Возвращает накопленный текст целиком — тот же результат, что дал бы
	// синхронный Generate с этим промптом.
	//
	// # Thread Safety
	//
	// Callback вызывается последовательно из одной goroutine.
	GenerateStream(
		ctx context.Context,
		prompt string,
		callback func(StreamChunk),
		opts ...GenerateOption,
	) (string, error)
}

// StreamChunk представляет одну порцию данных из потокового ответа.
//
// Структура удобна для пересылки через events.Event: содержит и
// инкрементальную дельту, и накопленное состояние.
type StreamChunk struct {
	// Type определяет тип чанка
	Type ChunkType

	// Content содержит накопленный текстовый контент на данный момент
	Content string

	// Delta — инкрементальное изменение (для UI обновлений в реальном времени)
	Delta string

	// Error — ошибка, если произошла (только когда Type == ChunkError)
	Error error
}

// ChunkType определяет тип стримингового чанка.
type ChunkType string

const (
	// ChunkContent — очередная порция контента ответа.
	ChunkContent ChunkType = "content"

	// ChunkError — ошибка стриминга.
	// Содержит ошибку в поле Error.
	ChunkError ChunkType = "error"

	// ChunkDone — сентинел завершения стриминга.
	// Отправляется когда все данные получены.
	ChunkDone ChunkType = "done"
)
