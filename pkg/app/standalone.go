// Strict-компоненты для standalone CLI утилит: конфиг ищется рядом с
// бинарником, отсутствие — ошибка сразу, без тихих fallback'ов.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilkoid/minagent/pkg/config"
)

// StandaloneConfigPathFinder реализует строгую стратегию поиска для CLI утилит.
//
// Правила:
//  1. Если указан флаг -config — использует его (может быть относительный путь)
//  2. Ищет config.yaml в той же папке где находится бинарник
//  3. НЕ ищет в текущей директории или родительских
//  4. Возвращает ошибку если файл не найден
//
// Используется для standalone CLI утилит которые распространяются
// вместе с config.yaml и prompts/ в одной директории.
type StandaloneConfigPathFinder struct {
	// ConfigFlag — значение флага -config, если указан
	ConfigFlag string
}

// FindConfigPath находит путь к config.yaml.
//
// Возвращает пустую строку если файл не найден (ошибка будет в
// InitializeConfigStrict).
func (f *StandaloneConfigPathFinder) FindConfigPath() string {
	// 1. Флаг имеет приоритет (может быть относительный путь)
	if f.ConfigFlag != "" {
		return resolveAbsPath(f.ConfigFlag)
	}

	// 2. Директория бинарника
	if execPath, err := os.Executable(); err == nil {
		binDir := filepath.Dir(execPath)
		cfgPath := filepath.Join(binDir, "config.yaml")
		if _, err := os.Stat(cfgPath); err == nil {
			return cfgPath
		}
	}

	return ""
}

// InitializeConfigStrict инициализирует конфигурацию со строгими проверками.
//
// В отличие от InitializeConfig:
//   - Падает если config.yaml не найден
//   - Директория промптов (если задана) резолвится относительно конфига
//     и должна существовать
func InitializeConfigStrict(finder ConfigPathFinder) (*config.AppConfig, string, error) {
	cfgPath := finder.FindConfigPath()

	// 1. Проверяем что путь не пустой
	if cfgPath == "" {
		return nil, "", fmt.Errorf("config.yaml not found\n\n" +
			"Standalone CLI requires config.yaml in the same directory as the binary.\n" +
			"Usage: place config.yaml next to the binary or use -config flag.")
	}

	// 2. Проверяем что файл существует
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("config.yaml not found at: %s", cfgPath)
	}

	// 3. Загружаем конфиг
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", cfgPath, err)
	}

	// 4. Директория промптов относительно конфига; пустая — дефолты
	// из pkg/prompts, проверять нечего
	if cfg.App.PromptsDir != "" {
		promptsDir := cfg.App.PromptsDir
		cfgDir := filepath.Dir(cfgPath)
		if !filepath.IsAbs(promptsDir) {
			promptsDir = filepath.Join(cfgDir, promptsDir)
		}

		if _, err := os.Stat(promptsDir); os.IsNotExist(err) {
			return nil, "", fmt.Errorf("prompts directory not found: %s\n\n"+
				"Create this directory or check app.prompts_dir in config.yaml",
				promptsDir)
		}

		// Обновляем на абсолютный путь, чтобы file source не зависел от cwd
		cfg.App.PromptsDir = promptsDir
	}

	return cfg, cfgPath, nil
}

// InitializeForStandalone — полная инициализация для standalone CLI утилиты.
//
// Пример использования:
//
//	finder := &app.StandaloneConfigPathFinder{ConfigFlag: *configFlag}
//	components, cfgPath, err := app.InitializeForStandalone(finder)
//	if err != nil {
//	    log.Fatalf("Initialization failed: %v", err)
//	}
func InitializeForStandalone(finder ConfigPathFinder) (*Components, string, error) {
	cfg, cfgPath, err := InitializeConfigStrict(finder)
	if err != nil {
		return nil, "", err
	}

	components, err := Initialize(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize components: %w", err)
	}

	return components, cfgPath, nil
}
