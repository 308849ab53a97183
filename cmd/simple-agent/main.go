// Simple-agent — консольный запуск агента с трассировкой цикла.
//
// Минимальный пример использования minagent:
//   - создать агента
//   - подписаться на события и печатать трассировку выполнения
//   - выполнить один запрос
//
// Использование:
//
//	go run cmd/simple-agent/main.go "запрос"
//	./simple-agent -verbose -stream "what is 2+3?"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilkoid/minagent/pkg/agent"
	"github.com/ilkoid/minagent/pkg/events"
	"github.com/ilkoid/minagent/pkg/trace"
	"github.com/ilkoid/minagent/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "путь к config.yaml")
	verbose := flag.Bool("verbose", false, "подробная трассировка (thinking chunks, служебные строки)")
	stream := flag.Bool("stream", false, "включить streaming reasoning")
	flag.Parse()

	// 1. Получаем запрос из аргументов
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: simple-agent [flags] \"query\"")
		fmt.Fprintln(os.Stderr, "Example: simple-agent \"what time is it in Tokyo?\"")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}
	query := flag.Arg(0)

	// 2. Создаём агент
	client, err := agent.New(agent.Config{ConfigPath: *configPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating agent: %v\n", err)
		os.Exit(1)
	}

	client.SetStreamingEnabled(*stream)

	// 3. Подписываемся на события и рисуем трассировку в фоне
	emitter := events.NewChanEmitter(100)
	client.SetEmitter(emitter)
	sub := emitter.Subscribe()

	tracer := trace.NewConsoleTracer(true, *verbose)

	done := make(chan struct{})
	go func() {
		defer close(done)
		tracer.Run(sub)
	}()

	// 4. Выполняем запрос; ответ и ошибки печатает трассировщик.
	// Ctrl+C отменяет запуск через контекст — цикл дочитывает текущий шаг
	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	startTime := time.Now()
	_, runErr := client.Run(ctx, query)
	duration := time.Since(startTime)

	// Закрытие канала завершает Run трассировщика: хвост событий дорисован
	emitter.Close()
	<-done

	if runErr != nil {
		os.Exit(1)
	}

	fmt.Printf("\n⏱️  Duration: %v\n", duration)
	fmt.Printf("📝 History: %d messages\n", len(client.GetHistory()))
}
