// Извлечение и валидация YAML-решения из сырого ответа модели.
package decision

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fenceTag = "```yaml"

// rawDecision — промежуточная структура, зеркалящая YAML-схему ответа.
type rawDecision struct {
	Thinking    string `yaml:"thinking"`
	Action      string `yaml:"action"`
	ToolName    string `yaml:"tool_name"`
	ToolArgs    any    `yaml:"tool_args"`
	FinalAnswer string `yaml:"final_answer"`
}

// Parse разбирает сырой ответ модели в Decision.
//
// Алгоритм:
//  1. Извлекает первый fenced-блок ```yaml (регистр тега не важен)
//  2. Парсит YAML в промежуточную структуру
//  3. Валидирует action и обязательные поля варианта
//
// Все отказы — *ParseError с описанием причины.
func Parse(response string) (Decision, error) {
	// 1. Извлекаем YAML блок
	yamlStr, ok := extractYAMLBlock(response)
	if !ok {
		return Decision{}, &ParseError{
			Reason: "no fenced yaml block in model response",
			Raw:    response,
		}
	}

	// 2. Парсим YAML
	var raw rawDecision
	if err := yaml.Unmarshal([]byte(yamlStr), &raw); err != nil {
		return Decision{}, &ParseError{
			Reason: fmt.Sprintf("invalid yaml in decision block: %v", err),
			Raw:    response,
		}
	}

	// 3. Валидируем и собираем вариант
	action := strings.ToLower(strings.TrimSpace(raw.Action))
	switch action {
	case string(ActionTool):
		name := strings.TrimSpace(raw.ToolName)
		if name == "" {
			return Decision{}, &ParseError{
				Reason: "action is 'tool' but tool_name is empty",
				Raw:    response,
			}
		}
		return NewToolCall(raw.Thinking, name, raw.ToolArgs), nil

	case string(ActionAnswer):
		if strings.TrimSpace(raw.FinalAnswer) == "" {
			return Decision{}, &ParseError{
				Reason: "action is 'answer' but final_answer is empty",
				Raw:    response,
			}
		}
		return NewAnswer(raw.Thinking, raw.FinalAnswer), nil

	case "":
		return Decision{}, &ParseError{
			Reason: "decision has no action field",
			Raw:    response,
		}

	default:
		return Decision{}, &ParseError{
			Reason: fmt.Sprintf("unknown action '%s' (expected 'tool' or 'answer')", raw.Action),
			Raw:    response,
		}
	}
}

// extractYAMLBlock возвращает содержимое первого блока ```yaml.
//
// Закрывающий fence может отсутствовать — тогда берется все до конца
// ответа. Регистр тега (```yaml / ```YAML) не различается.
func extractYAMLBlock(response string) (string, bool) {
	lower := strings.ToLower(response)
	start := strings.Index(lower, fenceTag)
	if start == -1 {
		return "", false
	}

	body := response[start+len(fenceTag):]
	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}

	return strings.TrimSpace(body), true
}
