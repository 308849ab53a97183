package std

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/ilkoid/minagent/pkg/tools"
)

// CalcTool — арифметика над двумя операндами.
//
// Числа принимаются как json.Number: LLM присылает и 2, и "2",
// и 2.5 — все три варианта должны работать.
type CalcTool struct{}

// NewCalcTool создает арифметический инструмент.
func NewCalcTool() *CalcTool {
	return &CalcTool{}
}

// Spec возвращает описание инструмента для каталога LLM.
func (t *CalcTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{
		Name:        "calc",
		Description: "Performs arithmetic on two numbers. op is one of: add, sub, mul, div.",
		Params: []tools.ParamSpec{
			{Name: "op", Type: "str"},
			{Name: "a", Type: "float"},
			{Name: "b", Type: "float"},
		},
	}
}

// Execute выполняет инструмент согласно контракту "Raw In, String Out".
func (t *CalcTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Op string      `json:"op"`
		A  json.Number `json:"a"`
		B  json.Number `json:"b"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	a, err := args.A.Float64()
	if err != nil {
		return "", fmt.Errorf("'a' is not a number: %s", args.A)
	}
	b, err := args.B.Float64()
	if err != nil {
		return "", fmt.Errorf("'b' is not a number: %s", args.B)
	}

	var result float64
	switch args.Op {
	case "add", "+":
		result = a + b
	case "sub", "-":
		result = a - b
	case "mul", "*":
		result = a * b
	case "div", "/":
		if b == 0 {
			return "", fmt.Errorf("division by zero")
		}
		result = a / b
	default:
		return "", fmt.Errorf("unknown op '%s' (want add, sub, mul or div)", args.Op)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return "", fmt.Errorf("result is not a finite number")
	}

	return formatNumber(result), nil
}

// formatNumber убирает хвост ".0" у целых результатов: "5", а не "5.000000".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Проверка что CalcTool реализует tools.Tool
var _ tools.Tool = (*CalcTool)(nil)
