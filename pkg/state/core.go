// Package state предоставляет thread-safe состояние диалога агента.
//
// CoreState содержит то, что переживает отдельные запросы:
// - Хронологию диалога (user <-> assistant)
// - Пожизненный журнал вызовов инструментов
//
// Package state следует правилам из dev_manifest.md:
//   - Rule 5: Thread-safe доступ через sync.RWMutex, никаких глобальных переменных
//   - Rule 6: Library code готовый к переиспользованию, без зависимостей от internal/
//   - Rule 7: Все ошибки возвращаются, никаких panic в бизнес-логике
package state

import "sync"

// Role — роль автора реплики в диалоге.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry — одна реплика диалога.
type Entry struct {
	Role    Role   `yaml:"role"`
	Content string `yaml:"content"`
}

// ToolCallRecord — запись одного вызова инструмента.
//
// Result хранит наблюдение в том виде, в котором его видела модель:
// результат инструмента либо строка "Error: ..." / "Error calling ...".
type ToolCallRecord struct {
	Tool   string `yaml:"tool"`
	Args   any    `yaml:"args"`
	Result string `yaml:"result"`
}

// CoreState представляет thread-safe состояние диалога.
//
// Rule 5: Все изменения защищены мьютексом.
// Rule 6: Не зависит от internal/, готов к переиспользованию.
type CoreState struct {
	mu sync.RWMutex

	// history — хронология диалога. Сюда попадают только запросы
	// пользователя и финальные ответы, промежуточные наблюдения
	// инструментов живут в журнале toolCalls.
	history []Entry

	// toolCalls — пожизненный журнал вызовов инструментов.
	// Пополняется после каждого запуска, в промпты не попадает.
	toolCalls []ToolCallRecord
}

// NewCoreState создает новое thread-safe состояние диалога.
func NewCoreState() *CoreState {
	return &CoreState{
		history:   make([]Entry, 0),
		toolCalls: make([]ToolCallRecord, 0),
	}
}

// AppendEntry безопасно добавляет реплику в историю диалога.
//
// Rule 5: Thread-safe доступ к history.
func (s *CoreState) AppendEntry(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Entry{Role: role, Content: content})
}

// History возвращает копию истории диалога.
//
// Возвращает копию слайса, чтобы избежать race condition при изменении.
//
// Rule 5: Thread-safe доступ к history.
func (s *CoreState) History() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dst := make([]Entry, len(s.history))
	copy(dst, s.history)
	return dst
}

// HistoryLen возвращает количество реплик в истории.
func (s *CoreState) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// RecordToolCalls дописывает записи запуска в пожизненный журнал.
//
// Вызывается агентом после завершения запроса: журнал накапливает
// все вызовы инструментов за время жизни состояния.
//
// Rule 5: Thread-safe доступ к toolCalls.
func (s *CoreState) RecordToolCalls(records []ToolCallRecord) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolCalls = append(s.toolCalls, records...)
}

// ToolCalls возвращает копию пожизненного журнала вызовов.
//
// Rule 5: Thread-safe доступ к toolCalls.
func (s *CoreState) ToolCalls() []ToolCallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dst := make([]ToolCallRecord, len(s.toolCalls))
	copy(dst, s.toolCalls)
	return dst
}

// ClearHistory очищает историю диалога и журнал вызовов.
//
// Используется для начала новой сессии или сброса контекста.
//
// Rule 5: Thread-safe доступ к полям.
func (s *CoreState) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = make([]Entry, 0)
	s.toolCalls = make([]ToolCallRecord, 0)
}
