// Minagent TUI Application
// Основная точка входа для интерактивного интерфейса
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilkoid/minagent/pkg/agent"
	"github.com/ilkoid/minagent/pkg/app"
	"github.com/ilkoid/minagent/pkg/config"
	"github.com/ilkoid/minagent/pkg/tui"
	"github.com/ilkoid/minagent/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "путь к config.yaml (по умолчанию — поиск в стандартных местах)")
	theme := flag.String("theme", "default", "цветовая схема TUI: default, dark, light, dracula")
	streaming := flag.Bool("stream", false, "включить streaming reasoning")
	title := flag.String("title", "minagent", "заголовок в статус-баре")
	flag.Parse()

	// 0. Инициализируем логгер
	if err := utils.InitLogger(); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}
	defer utils.Close()

	utils.Info("Application started", "version", "1.0")

	// 1. Инициализируем конфигурацию (переиспользуем из pkg/app)
	cfg, cfgPath, err := app.InitializeConfig(&app.DefaultConfigPathFinder{ConfigFlag: *configPath})
	if err != nil {
		utils.Error("Failed to load config", "error", err, "path", cfgPath)
		return err
	}

	utils.Info("Config loaded", "path", cfgPath, "default_model", cfg.Models.DefaultChat)

	// Логируем загруженные ключи (с маскированием для безопасности)
	logKeysInfo(cfg)

	// 2. Создаём агент поверх уже загруженного конфига
	client, err := agent.NewFromConfig(cfg)
	if err != nil {
		utils.Error("Agent creation failed", "error", err)
		return fmt.Errorf("agent creation failed: %w", err)
	}

	client.SetStreamingEnabled(*streaming)

	// 3. Запускаем TUI; подписка на события создаётся внутри RunWithOpts
	utils.Info("Starting TUI", "theme", *theme, "streaming", *streaming)

	if err := tui.RunWithOpts(context.Background(), client,
		tui.WithTitle(*title),
		tui.WithColorScheme(*theme),
		tui.WithStreaming(*streaming),
	); err != nil {
		utils.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	utils.Info("Application exited normally")
	return nil
}

// maskKey показывает первые 8 символов ключа для идентификации.
func maskKey(key string) string {
	if key == "" {
		return "NOT SET"
	}
	if len(key) <= 8 {
		return key + "..."
	}
	return key[:8] + "..."
}

// logKeysInfo логирует информацию о загруженных API ключах.
func logKeysInfo(cfg *config.AppConfig) {
	log.Println("=== API Keys Status ===")

	for name, modelDef := range cfg.Models.Definitions {
		log.Printf("  model %s (%s): %s", name, modelDef.Provider, maskKey(modelDef.APIKey))
	}

	if cfg.S3.Endpoint != "" {
		log.Printf("  S3_ACCESS_KEY: %s", maskKey(cfg.S3.AccessKey))
		log.Printf("  S3_SECRET_KEY: %s", maskKey(cfg.S3.SecretKey))
	}

	log.Println("======================")
}
