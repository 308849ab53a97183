package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models        ModelsConfig          `yaml:"models"`
	Agent         AgentConfig           `yaml:"agent"`
	Tools         map[string]ToolConfig `yaml:"tools"`
	S3            S3Config              `yaml:"s3"`
	Web           WebConfig             `yaml:"web"`
	PromptSources []PromptSourceConfig  `yaml:"prompt_sources"`
	App           AppSpecific           `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас модели по умолчанию
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string        `yaml:"provider"`   // "openai", "openrouter", "deepseek", "zai"
	ModelName   string        `yaml:"model_name"` // Реальное имя в API
	APIKey      string        `yaml:"api_key"`    // Поддерживает ${VAR}
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`    // yaml.v3 парсит строки вида "60s", "1m"
	BaseURL     string        `yaml:"base_url"`   // Кастомный endpoint для OpenAI-совместимых API
	CacheSize   int           `yaml:"cache_size"` // >0 включает LRU-кеш ответов для этой модели
}

// AgentConfig — настройки цикла агента.
type AgentConfig struct {
	MaxSteps     int                      `yaml:"max_steps"`     // Лимит шагов (LLM вызовов) на один запрос
	RunTimeout   time.Duration            `yaml:"run_timeout"`   // Общий timeout одного запроса
	ToolTimeout  time.Duration            `yaml:"tool_timeout"`  // Дефолтный timeout вызова инструмента
	ToolTimeouts map[string]time.Duration `yaml:"tool_timeouts"` // Переопределения по имени инструмента
	SystemPrompt string                   `yaml:"system_prompt"` // Inline базовый промпт (приоритетнее источников)
	PromptID     string                   `yaml:"prompt_id"`     // ID промпта в источниках (default: "agent_system")
}

// ToolConfig — настройки инструментов.
type ToolConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// S3Config — настройки объектного хранилища.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
}

// WebConfig — настройки HTTP клиента для web инструментов.
type WebConfig struct {
	RateLimit     int    `yaml:"rate_limit"`     // Запросов в минуту
	BurstLimit    int    `yaml:"burst_limit"`    // Burst для rate limiter
	RetryAttempts int    `yaml:"retry_attempts"` // Количество retry попыток
	Timeout       string `yaml:"timeout"`        // Timeout HTTP запроса (например, "30s")
	MaxBodyBytes  int    `yaml:"max_body_bytes"` // Лимит тела ответа для web_fetch
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *WebConfig) GetDefaults() WebConfig {
	result := *c

	if result.RateLimit == 0 {
		result.RateLimit = 60 // запросов в минуту
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 5
	}
	if result.RetryAttempts == 0 {
		result.RetryAttempts = 3
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}
	if result.MaxBodyBytes == 0 {
		result.MaxBodyBytes = 65536
	}

	return result
}

// PromptSourceConfig — описание одного источника промптов.
type PromptSourceConfig struct {
	Type   string            `yaml:"type"`   // "file", "database"
	Config map[string]string `yaml:"config"` // Параметры источника
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug      bool   `yaml:"debug"`
	PromptsDir string `yaml:"prompts_dir"`
	LogsDir    string `yaml:"logs_dir"` // Директория YAML-транскриптов запусков
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
			return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
		}
	}
	for name, def := range c.Models.Definitions {
		if def.Provider == "" {
			return fmt.Errorf("model '%s': provider is required", name)
		}
		if def.ModelName == "" {
			return fmt.Errorf("model '%s': model_name is required", name)
		}
	}
	// S3 проверяется только если секция заполнена: без s3 инструментов она не нужна
	if c.S3.Endpoint != "" && c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when s3.endpoint is set")
	}
	return nil
}

// Helper методы для удобства доступа (Syntactic sugar)

// GetChatModel возвращает конфигурацию модели по умолчанию или по имени.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}

// ToolEnabled сообщает, включён ли инструмент в секции tools.
// Отсутствующий в конфиге инструмент считается выключенным.
func (c *AppConfig) ToolEnabled(name string) bool {
	tc, ok := c.Tools[name]
	return ok && tc.Enabled
}
