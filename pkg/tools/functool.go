// Адаптер обычной функции к интерфейсу Tool.
package tools

import (
	"context"
	"fmt"
)

// FuncTool оборачивает функцию в инструмент с явным описанием.
//
// Удобен для простых инструментов, которым не нужна собственная структура:
// часы, калькулятор, диагностика.
type FuncTool struct {
	spec ToolSpec
	fn   func(ctx context.Context, argsJSON string) (string, error)
}

var _ Tool = (*FuncTool)(nil)

// NewFuncTool создает инструмент из функции и описания.
//
// Пустое описание заменяется на "Function <name>" — инструмент без
// описания все равно должен быть понятен модели в каталоге.
func NewFuncTool(spec ToolSpec, fn func(ctx context.Context, argsJSON string) (string, error)) (*FuncTool, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("tool '%s': fn cannot be nil", spec.Name)
	}

	if spec.Description == "" {
		spec.Description = fmt.Sprintf("Function %s", spec.Name)
	}

	return &FuncTool{spec: spec, fn: fn}, nil
}

// Spec возвращает описание инструмента.
func (t *FuncTool) Spec() ToolSpec {
	return t.spec
}

// Execute вызывает обернутую функцию.
func (t *FuncTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	return t.fn(ctx, argsJSON)
}
