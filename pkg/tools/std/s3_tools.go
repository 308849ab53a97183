/* Инструменты для работы с S3 хранилищем.

list_s3_files: Аналог ls. Позволяет агенту "осмотреться" в бакете и найти нужные файлы.
read_s3_object: Аналог cat. Позволяет агенту прочитать содержимое текстового файла.
*/
package std

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ilkoid/minagent/pkg/s3storage"
	"github.com/ilkoid/minagent/pkg/tools"
)

// maxObjectBytes — потолок размера объекта для чтения в память.
const maxObjectBytes = 1 << 20 // 1 MB

// maxTextChars — лимит текста в observation, чтобы не забить контекст LLM.
const maxTextChars = 3000

// --- Tool: list_s3_files ---
// Позволяет агенту узнать, какие файлы есть по указанному пути (префиксу).

type S3ListTool struct {
	client s3storage.ClientInterface
}

func NewS3ListTool(c s3storage.ClientInterface) *S3ListTool {
	return &S3ListTool{client: c}
}

func (t *S3ListTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{
		Name:        "list_s3_files",
		Description: "Lists files in the object storage under the given prefix. Use it to discover available files before reading them.",
		Params: []tools.ParamSpec{
			{Name: "prefix", Type: "str", Default: ""},
		},
	}
}

func (t *S3ListTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Prefix string `json:"prefix"`
	}
	// Если аргументы пустые или кривые, пробуем продолжить с дефолтом
	if argsJSON != "" {
		_ = json.Unmarshal([]byte(argsJSON), &args)
	}

	files, err := t.client.ListFiles(ctx, args.Prefix)
	if err != nil {
		return "", fmt.Errorf("s3 list error: %w", err)
	}

	if len(files) == 0 {
		return fmt.Sprintf("No objects found under prefix '%s'", args.Prefix), nil
	}

	// Упрощаем ответ для LLM (экономим токены)
	// Отдаем только имена и размеры, без метаданных
	type simpleFile struct {
		Key  string `json:"key"`
		Size string `json:"size"` // "10.5 KB" читаемее для LLM, чем байты
	}

	simpleList := make([]simpleFile, 0, len(files))
	for _, f := range files {
		simpleList = append(simpleList, simpleFile{
			Key:  f.Key,
			Size: formatSize(f.Size),
		})
	}

	data, err := json.Marshal(simpleList)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// --- Tool: read_s3_object ---
// Читает содержимое текстового файла. Бинарные файлы отвергаются по
// расширению, слишком большие — по метаданным до скачивания.

type S3ReadTool struct {
	client s3storage.ClientInterface
}

func NewS3ReadTool(c s3storage.ClientInterface) *S3ReadTool {
	return &S3ReadTool{client: c}
}

func (t *S3ReadTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{
		Name:        "read_s3_object",
		Description: "Reads a text file (JSON, TXT, MD, CSV, YAML) from the object storage by its key. Do not use for binary files.",
		Params: []tools.ParamSpec{
			{Name: "key", Type: "str"},
		},
	}
}

func (t *S3ReadTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if args.Key == "" {
		return "", fmt.Errorf("'key' is required")
	}

	// Простая защита от дурака (чтобы не качать гигабайтные видео)
	ext := strings.ToLower(filepath.Ext(args.Key))
	if isBinaryExt(ext) {
		return "", fmt.Errorf("file type '%s' is binary, only text files can be read", ext)
	}

	// Размер проверяем до скачивания
	info, err := t.client.StatFile(ctx, args.Key)
	if err != nil {
		return "", fmt.Errorf("s3 stat error: %w", err)
	}
	if info.Size > maxObjectBytes {
		return "", fmt.Errorf("object '%s' is too large (%s), refusing to read into memory", args.Key, formatSize(info.Size))
	}

	contentBytes, err := t.client.DownloadFile(ctx, args.Key)
	if err != nil {
		return "", fmt.Errorf("s3 download error: %w", err)
	}

	// Ограничиваем длину, чтобы не забить контекст LLM
	if len(contentBytes) > maxTextChars {
		truncated := string(contentBytes[:maxTextChars])
		warning := "\n\n...[TRUNCATED - File too large for context.]"
		if ext == ".json" {
			warning = "\n\n...[TRUNCATED - JSON file too large. Request specific fields you need.]"
		}
		return truncated + warning, nil
	}

	return string(contentBytes), nil
}

// --- Helpers ---

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func isBinaryExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".zip", ".pdf", ".mp4", ".gz", ".tar", ".exe":
		return true
	}
	return false
}

// Проверка интерфейсов
var (
	_ tools.Tool = (*S3ListTool)(nil)
	_ tools.Tool = (*S3ReadTool)(nil)
)
