// Типизированные ошибки управляющего цикла.
package chain

import "fmt"

// StepLimitError — исчерпан лимит шагов без финального ответа.
//
// Фатальна для запуска: модель так и не выбрала action answer за
// отведённое количество вызовов. Поддерживает errors.As.
type StepLimitError struct {
	// Steps — количество выполненных шагов (равно лимиту)
	Steps int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("step limit reached: no final answer after %d steps", e.Steps)
}

// ToolErrorKind классифицирует отказ вызова инструмента.
type ToolErrorKind string

const (
	// ToolErrorNotFound — инструмента нет в реестре.
	ToolErrorNotFound ToolErrorKind = "not-found"

	// ToolErrorExecution — инструмент вернул ошибку.
	ToolErrorExecution ToolErrorKind = "execution"

	// ToolErrorTimeout — инструмент не уложился в timeout.
	ToolErrorTimeout ToolErrorKind = "timeout"
)

// ToolError — внутренний результат неудачного вызова инструмента.
//
// Для цикла это НЕ ошибка выполнения: на границе промпта ToolError
// сворачивается в observation-строку (см. Observation), запись о вызове
// добавляется в run context, и цикл возвращается к шагу решения.
// Наружу из Execute такие отказы не выходят.
type ToolError struct {
	// Kind — классификация отказа
	Kind ToolErrorKind

	// Tool — имя инструмента
	Tool string

	// Err — исходная ошибка
	Err error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool '%s' failed (%s): %v", e.Tool, e.Kind, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Observation сворачивает отказ в строку, которую увидит модель.
//
// Формат контракта промпта:
//   - not-found:           Error: Tool '<name>' not found
//   - execution / timeout: Error calling <name>: <message>
func (e *ToolError) Observation() string {
	if e.Kind == ToolErrorNotFound {
		return fmt.Sprintf("Error: Tool '%s' not found", e.Tool)
	}
	return fmt.Sprintf("Error calling %s: %v", e.Tool, e.Err)
}
