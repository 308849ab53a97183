// Реестр для хранения и поиска инструментов.
package tools

import (
	"fmt"
	"sync"
)

// Registry — потокобезопасное хранилище инструментов.
//
// Сохраняет порядок регистрации: каталог для LLM всегда перечисляет
// инструменты в том порядке, в котором их добавили. Повторная
// регистрация имени заменяет инструмент, не меняя его позицию.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry создает новый пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// validateSpec проверяет корректность описания инструмента.
//
// Валидирует:
//   - Name не пустой
//   - Имена параметров не пустые и уникальны
func validateSpec(spec ToolSpec) error {
	// 1. Проверяем имя
	if spec.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	// 2. Проверяем параметры
	seen := make(map[string]bool, len(spec.Params))
	for i, p := range spec.Params {
		if p.Name == "" {
			return fmt.Errorf("tool '%s': param[%d] name cannot be empty", spec.Name, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool '%s': duplicate param '%s'", spec.Name, p.Name)
		}
		seen[p.Name] = true
	}

	return nil
}

// Register добавляет инструмент в реестр с валидацией описания.
//
// Последняя регистрация под тем же именем побеждает (last wins):
// заменяется реализация, позиция в каталоге остается прежней.
func (r *Registry) Register(tool Tool) error {
	spec := tool.Spec()

	if err := validateSpec(spec); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[spec.Name]; !exists {
		r.order = append(r.order, spec.Name)
	}
	r.tools[spec.Name] = tool
	return nil
}

// Get ищет инструмент по имени.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool '%s' not found", name)
	}
	return tool, nil
}

// Specs возвращает описания всех инструментов в порядке регистрации.
func (r *Registry) Specs() []ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

// Names возвращает имена инструментов в порядке регистрации.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len возвращает количество зарегистрированных инструментов.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
