// Package utils предоставляет helper для graceful shutdown.
//
// Корректное завершение при SIGINT (Ctrl+C) и SIGTERM: отменяем корневой
// контекст, даём циклу агента дочитать текущий шаг, закрываем лог.
//
// Использование:
//
//	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
//	defer shutdown()
package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupGracefulShutdown устанавливает обработчик сигналов.
//
// При получении сигнала логирует событие и вызывает cancel() — все операции
// цикла проверяют ctx.Err() и завершаются. Возвращает функцию очистки для
// defer (закрывает лог-файл).
func SetupGracefulShutdown(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		Info("Received signal, shutting down gracefully", "signal", sig.String())
		cancel()
	}()

	return func() {
		Close()
	}
}

// SetupGracefulShutdownWithContext создаёт контекст и настраивает shutdown.
//
// Обёртка для типичного случая:
//
//	ctx, shutdown := SetupGracefulShutdownWithContext()
//	defer shutdown()
func SetupGracefulShutdownWithContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	shutdown := SetupGracefulShutdown(cancel)
	return ctx, shutdown
}
