package std

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/s3storage"
)

// TestCalcTool проверяет арифметику на таблице операций.
func TestCalcTool(t *testing.T) {
	calc := NewCalcTool()

	tests := []struct {
		name string
		args string
		want string
	}{
		{"add integers", `{"op": "add", "a": 2, "b": 3}`, "5"},
		{"add symbol", `{"op": "+", "a": 2, "b": 3}`, "5"},
		{"sub", `{"op": "sub", "a": 10, "b": 4}`, "6"},
		{"mul", `{"op": "mul", "a": 6, "b": 7}`, "42"},
		{"div", `{"op": "div", "a": 7, "b": 2}`, "3.5"},
		{"div whole", `{"op": "div", "a": 8, "b": 2}`, "4"},
		{"negative result", `{"op": "sub", "a": 3, "b": 10}`, "-7"},
		{"float operands", `{"op": "add", "a": 0.1, "b": 0.2}`, "0.30000000000000004"},
		{"string numbers", `{"op": "add", "a": "2", "b": "3"}`, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Execute(context.Background(), tt.args)
			if err != nil {
				t.Fatalf("Execute error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Execute(%s) = %s, want %s", tt.args, got, tt.want)
			}
		})
	}
}

// TestCalcToolErrors проверяет ошибочные вызовы.
func TestCalcToolErrors(t *testing.T) {
	calc := NewCalcTool()

	tests := []struct {
		name    string
		args    string
		wantMsg string
	}{
		{"division by zero", `{"op": "div", "a": 1, "b": 0}`, "division by zero"},
		{"unknown op", `{"op": "pow", "a": 2, "b": 3}`, "unknown op"},
		{"broken json", `{op: add}`, "invalid arguments"},
		{"non-numeric operand", `{"op": "add", "a": "two", "b": 3}`, "not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Execute(context.Background(), tt.args)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantMsg, err)
			}
		})
	}
}

// TestCalcToolSpec проверяет описание инструмента.
func TestCalcToolSpec(t *testing.T) {
	spec := NewCalcTool().Spec()

	if spec.Name != "calc" {
		t.Errorf("Expected name 'calc', got %s", spec.Name)
	}
	if len(spec.Params) != 3 {
		t.Fatalf("Expected 3 params, got %d", len(spec.Params))
	}
	// Порядок параметров фиксирован для каталога
	wantOrder := []string{"op", "a", "b"}
	for i, p := range spec.Params {
		if p.Name != wantOrder[i] {
			t.Errorf("Param %d: expected %s, got %s", i, wantOrder[i], p.Name)
		}
	}
}

// TestClockTool проверяет время в UTC и кастомной таймзоне.
func TestClockTool(t *testing.T) {
	clock := NewClockTool()

	result, err := clock.Execute(context.Background(), "{}")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(result, "UTC") {
		t.Errorf("Expected UTC in default result, got %s", result)
	}
	// Строка начинается с даты YYYY-MM-DD
	if _, err := time.Parse("2006-01-02", result[:10]); err != nil {
		t.Errorf("Expected result to start with a date, got %s", result)
	}

	// Пустые аргументы эквивалентны дефолту
	if _, err := clock.Execute(context.Background(), ""); err != nil {
		t.Errorf("Execute with empty args error: %v", err)
	}
}

// TestClockToolBadTimezone проверяет ошибку на неизвестной таймзоне.
func TestClockToolBadTimezone(t *testing.T) {
	clock := NewClockTool()

	_, err := clock.Execute(context.Background(), `{"timezone": "Mars/Olympus_Mons"}`)
	if err == nil {
		t.Fatal("Expected error for unknown timezone")
	}
	if !strings.Contains(err.Error(), "unknown timezone") {
		t.Errorf("Unexpected error: %v", err)
	}
}

// mockS3Client реализует s3storage.ClientInterface для тестов инструментов.
type mockS3Client struct {
	files    []s3storage.StoredObject
	contents map[string][]byte
	listErr  error
}

func (m *mockS3Client) ListFiles(ctx context.Context, prefix string) ([]s3storage.StoredObject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	matched := []s3storage.StoredObject{}
	for _, f := range m.files {
		if strings.HasPrefix(f.Key, prefix) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

func (m *mockS3Client) StatFile(ctx context.Context, key string) (*s3storage.StoredObject, error) {
	for _, f := range m.files {
		if f.Key == key {
			obj := f
			return &obj, nil
		}
	}
	return nil, fmt.Errorf("failed to stat object %s: not found", key)
}

func (m *mockS3Client) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	content, ok := m.contents[key]
	if !ok {
		return nil, fmt.Errorf("failed to get object %s: not found", key)
	}
	return content, nil
}

func newMockS3() *mockS3Client {
	return &mockS3Client{
		files: []s3storage.StoredObject{
			{Key: "reports/summary.txt", Size: 20},
			{Key: "reports/big.json", Size: 9000},
			{Key: "media/photo.jpg", Size: 2048},
			{Key: "archives/dump.bin", Size: 5 << 20},
		},
		contents: map[string][]byte{
			"reports/summary.txt": []byte("quarterly results ok"),
			"reports/big.json":    []byte(`{"rows": "` + strings.Repeat("x", 5000) + `"}`),
		},
	}
}

// TestS3ListTool проверяет листинг с фильтром по префиксу.
func TestS3ListTool(t *testing.T) {
	tool := NewS3ListTool(newMockS3())

	result, err := tool.Execute(context.Background(), `{"prefix": "reports/"}`)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	var list []struct {
		Key  string `json:"key"`
		Size string `json:"size"`
	}
	if err := json.Unmarshal([]byte(result), &list); err != nil {
		t.Fatalf("Result is not JSON: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 files under reports/, got %d", len(list))
	}
	if list[0].Key != "reports/summary.txt" {
		t.Errorf("Unexpected first key: %s", list[0].Key)
	}
	if list[0].Size != "20 B" {
		t.Errorf("Expected human size '20 B', got %s", list[0].Size)
	}
	if list[1].Size != "8.8 KB" {
		t.Errorf("Expected human size '8.8 KB', got %s", list[1].Size)
	}
}

// TestS3ListToolEmpty проверяет дружелюбное сообщение для пустого префикса.
func TestS3ListToolEmpty(t *testing.T) {
	tool := NewS3ListTool(newMockS3())

	result, err := tool.Execute(context.Background(), `{"prefix": "nothing-here/"}`)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result != "No objects found under prefix 'nothing-here/'" {
		t.Errorf("Unexpected empty-result message: %s", result)
	}
}

// TestS3ReadTool проверяет чтение текстового файла.
func TestS3ReadTool(t *testing.T) {
	tool := NewS3ReadTool(newMockS3())

	result, err := tool.Execute(context.Background(), `{"key": "reports/summary.txt"}`)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result != "quarterly results ok" {
		t.Errorf("Unexpected content: %s", result)
	}
}

// TestS3ReadToolTruncates проверяет обрезание длинного текста с пометкой.
func TestS3ReadToolTruncates(t *testing.T) {
	tool := NewS3ReadTool(newMockS3())

	result, err := tool.Execute(context.Background(), `{"key": "reports/big.json"}`)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(result, "[TRUNCATED - JSON file too large") {
		t.Error("Expected JSON truncation marker")
	}
	if len(result) > maxTextChars+200 {
		t.Errorf("Result too long after truncation: %d chars", len(result))
	}
}

// TestS3ReadToolGuards проверяет отказы: бинарные файлы, огромные объекты,
// отсутствующий ключ.
func TestS3ReadToolGuards(t *testing.T) {
	tool := NewS3ReadTool(newMockS3())

	tests := []struct {
		name    string
		args    string
		wantMsg string
	}{
		{"binary extension", `{"key": "media/photo.jpg"}`, "binary"},
		{"oversized object", `{"key": "archives/dump.bin"}`, "too large"},
		{"missing key", `{"key": "ghost.txt"}`, "stat error"},
		{"empty key", `{}`, "'key' is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(context.Background(), tt.args)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantMsg, err)
			}
		})
	}
}

// TestFormatSize проверяет человекочитаемые размеры.
func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5.0 GB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.bytes); got != tt.want {
			t.Errorf("formatSize(%d) = %s, want %s", tt.bytes, got, tt.want)
		}
	}
}

// TestLLMPingToolConfigErrors проверяет ошибки конфигурации без сети.
func TestLLMPingToolConfigErrors(t *testing.T) {
	registry := models.NewRegistry()

	// Нет default модели
	tool := NewLLMPingTool(registry, "")
	result, err := tool.Execute(context.Background(), "{}")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	assertPingError(t, result, "CONFIG_ERROR")

	// Модель не зарегистрирована
	tool = NewLLMPingTool(registry, "ghost-model")
	result, err = tool.Execute(context.Background(), "{}")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	assertPingError(t, result, "MODEL_NOT_FOUND")
}

// TestLLMPingToolMissingKey проверяет результат для модели без API ключа.
func TestLLMPingToolMissingKey(t *testing.T) {
	registry := models.NewRegistry()
	err := registry.Register("keyless", config.ModelDef{
		Provider:  "openai",
		ModelName: "gpt-4o-mini",
	}, nil)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	tool := NewLLMPingTool(registry, "keyless")
	result, execErr := tool.Execute(context.Background(), "{}")
	if execErr != nil {
		t.Fatalf("Execute error: %v", execErr)
	}
	assertPingError(t, result, "API_KEY_MISSING")
}

// assertPingError разбирает JSON результат и проверяет тип ошибки.
func assertPingError(t *testing.T, result, wantType string) {
	t.Helper()

	var payload struct {
		Available bool   `json:"available"`
		ErrorType string `json:"error_type"`
	}
	if err := json.Unmarshal([]byte(result), &payload); err != nil {
		t.Fatalf("Result is not JSON: %v (%s)", err, result)
	}
	if payload.Available {
		t.Error("Expected available=false")
	}
	if payload.ErrorType != wantType {
		t.Errorf("Expected error_type %s, got %s", wantType, payload.ErrorType)
	}
}

// TestWebFetchToolArgValidation проверяет валидацию аргументов без сети.
func TestWebFetchToolArgValidation(t *testing.T) {
	tool := NewWebFetchTool(nil)

	if _, err := tool.Execute(context.Background(), `{}`); err == nil {
		t.Error("Expected error for missing url")
	}
	if _, err := tool.Execute(context.Background(), `{broken`); err == nil {
		t.Error("Expected error for broken json")
	}
}
