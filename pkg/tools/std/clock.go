package std

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ilkoid/minagent/pkg/tools"
)

// ClockTool — инструмент текущего времени.
//
// Единственный инструмент без внешних зависимостей: полезен как smoke-check
// всего цикла (решение → вызов → observation) на живой модели.
type ClockTool struct{}

// NewClockTool создает инструмент текущего времени.
func NewClockTool() *ClockTool {
	return &ClockTool{}
}

// Spec возвращает описание инструмента для каталога LLM.
func (t *ClockTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{
		Name:        "clock",
		Description: "Returns the current date and time. Optionally pass an IANA timezone name (for example 'Europe/Moscow').",
		Params: []tools.ParamSpec{
			{Name: "timezone", Type: "str", Default: "UTC"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *ClockTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Timezone string `json:"timezone"`
	}
	// Пустые или кривые аргументы — не ошибка, работаем с дефолтом
	if argsJSON != "" {
		_ = json.Unmarshal([]byte(argsJSON), &args)
	}
	if args.Timezone == "" {
		args.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(args.Timezone)
	if err != nil {
		return "", fmt.Errorf("unknown timezone '%s'", args.Timezone)
	}

	return time.Now().In(loc).Format("2006-01-02 15:04:05 MST (Monday)"), nil
}

// Проверка что ClockTool реализует tools.Tool
var _ tools.Tool = (*ClockTool)(nil)
