// llm-ping — утилита для проверки доступности LLM провайдера.
//
// Использование:
//
//	go run cmd/llm-ping/main.go
//	./llm-ping -config /path/to/config.yaml
//	./llm-ping -model fast
//
// Конфигурация:
//
//	Standalone-режим: config.yaml ищется рядом с бинарником,
//	отсутствие конфига — ошибка (без тихих fallback'ов).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilkoid/minagent/pkg/app"
	"github.com/ilkoid/minagent/pkg/models"
	"github.com/ilkoid/minagent/pkg/tools/std"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yaml")
	modelAlias := flag.String("model", "", "алиас модели из конфига (по умолчанию — default_chat)")
	flag.Parse()

	// 1. Загружаем конфигурацию строго: llm-ping — standalone утилита
	cfg, cfgPath, err := app.InitializeConfigStrict(&app.StandaloneConfigPathFinder{ConfigFlag: *configPath})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	fmt.Printf("Config: %s\n", cfgPath)

	// 2. Создаем ModelRegistry
	modelRegistry, err := models.NewRegistryFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create model registry: %v", err)
	}

	// 3. Выбираем модель для проверки
	alias := *modelAlias
	if alias == "" {
		alias = cfg.Models.DefaultChat
	}
	if alias == "" {
		fmt.Println("⚠️  No default_chat model configured, testing first defined model...")
		for name := range cfg.Models.Definitions {
			alias = name
			break
		}
	}
	if alias == "" {
		log.Fatalf("No models defined in %s", cfgPath)
	}

	fmt.Printf("🔍 Testing LLM Provider: %s\n\n", alias)

	// 4. Выполняем ping напрямую через инструмент
	pingTool := std.NewLLMPingTool(modelRegistry, alias)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	argsJSON, _ := json.Marshal(map[string]string{"model": alias})
	result, err := pingTool.Execute(ctx, string(argsJSON))
	if err != nil {
		log.Fatalf("Failed to execute ping: %v", err)
	}

	// 5. Парсим и выводим результат
	var pingResult map[string]interface{}
	if err := json.Unmarshal([]byte(result), &pingResult); err != nil {
		fmt.Printf("Raw result: %s\n", result)
		return
	}

	printResult(pingResult)

	if available, _ := pingResult["available"].(bool); !available {
		os.Exit(1)
	}
}

// printResult выводит результат пинга в читаемом формате.
func printResult(result map[string]interface{}) {
	available, _ := result["available"].(bool)
	statusCode, _ := result["status_code"].(float64)
	latencyMs, _ := result["latency_ms"].(float64)
	provider, _ := result["provider"].(string)
	model, _ := result["model"].(string)
	baseURL, _ := result["base_url"].(string)

	if available {
		fmt.Printf("✅ Status: AVAILABLE\n")
		fmt.Printf("   Provider: %s\n", provider)
		fmt.Printf("   Model: %s\n", model)
		if baseURL != "" {
			fmt.Printf("   Base URL: %s\n", baseURL)
		}
		fmt.Printf("   Latency: %dms\n", int(latencyMs))
		if statusCode > 0 {
			fmt.Printf("   HTTP Code: %d\n", int(statusCode))
		}
		if msg, ok := result["message"].(string); ok {
			fmt.Printf("   Message: %s\n", msg)
		}
	} else {
		fmt.Printf("❌ Status: UNAVAILABLE\n")
		if provider != "" {
			fmt.Printf("   Provider: %s\n", provider)
		}
		if model != "" {
			fmt.Printf("   Model: %s\n", model)
		}
		if baseURL != "" {
			fmt.Printf("   Base URL: %s\n", baseURL)
		}
		if errType, ok := result["error_type"].(string); ok {
			fmt.Printf("   Error Type: %s\n", errType)
		}
		if errMsg, ok := result["error"].(string); ok {
			fmt.Printf("   Error: %s\n", errMsg)
		}
		if statusCode > 0 {
			fmt.Printf("   HTTP Code: %d\n", int(statusCode))
		}
		if latencyMs > 0 {
			fmt.Printf("   Latency: %dms\n", int(latencyMs))
		}
	}
}
