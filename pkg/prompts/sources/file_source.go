package sources

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileSource — промпты из YAML файлов директории.
//
// Идентификатор промпта отображается в путь <baseDir>/<promptID>.yaml;
// если такого файла нет, пробуется расширение .yml. YAML-first философия:
// правки промптов не требуют пересборки бинаря.
type FileSource struct {
	baseDir string
}

// NewFileSource создаёт файловый источник.
//
// baseDir приходит из prompt_sources конфигурации или app.prompts_dir.
func NewFileSource(baseDir string) *FileSource {
	return &FileSource{baseDir: baseDir}
}

// Load читает и парсит YAML файл промпта.
//
// Отсутствие файла (в обоих расширениях) — ErrNotFound; битый YAML —
// обычная ошибка, fallback chain пойдёт к следующему источнику.
func (s *FileSource) Load(promptID string) (*PromptData, error) {
	path, err := s.resolve(promptID)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file %s: %w", path, err)
	}

	var data PromptData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse prompt yaml %s: %w", path, err)
	}

	return &data, nil
}

// resolve находит файл промпта, перебирая поддерживаемые расширения.
func (s *FileSource) resolve(promptID string) (string, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(s.baseDir, promptID+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("prompt file %s in %s: %w", promptID, s.baseDir, ErrNotFound)
}
