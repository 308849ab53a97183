package tui

import (
	"context"
	"fmt"

	"github.com/ilkoid/minagent/pkg/agent"
)

// Run запускает готовый чат-TUI для агента.
//
// Это главная точка входа для пользователей библиотеки: подписывается
// на события клиента, собирает SimpleTui с разумными дефолтами и
// блокируется до выхода пользователя (Ctrl+C, Esc) или отмены ctx.
//
// Правило 11: отмена ctx закрывает TUI.
//
// # Basic Usage
//
//	client, _ := agent.New(agent.Config{ConfigPath: "config.yaml"})
//	if err := tui.Run(context.Background(), client); err != nil {
//	    log.Fatal(err)
//	}
func Run(ctx context.Context, client *agent.Client) error {
	return RunWithOpts(ctx, client)
}

// RunWithOpts запускает TUI с опциями.
//
// Пример:
//
//	client, _ := agent.New(...)
//	err := tui.RunWithOpts(ctx, client,
//	    tui.WithTitle("My AI App"),
//	    tui.WithPrompt("AI> "),
//	    tui.WithColorScheme("dracula"),
//	)
func RunWithOpts(ctx context.Context, client *agent.Client, opts ...Option) error {
	if client == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sub := client.Subscribe()
	if sub == nil {
		return fmt.Errorf("client has a custom emitter, cannot subscribe")
	}

	cfg := SimpleUIConfig{
		Colors:          DefaultColorScheme(),
		ShowTimestamp:   true,
		WrapText:        true,
		MaxMessages:     500,
		ModelName:       client.GetConfig().Models.DefaultChat,
		StreamingStatus: "OFF",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ui := NewSimpleTui(sub, cfg)

	// Ошибки запуска не возвращаются отсюда: цикл публикует их как
	// EventError, и TUI рендерит их из потока событий
	ui.OnInput(func(input string) {
		_, _ = client.Run(ctx, input)
	})

	// Отмена родительского контекста закрывает TUI; done освобождает
	// watcher-горутину при обычном выходе
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			ui.Quit()
		case <-done:
		}
	}()

	err := ui.Run()
	close(done)
	return err
}

// Option - функция для кастомизации TUI.
type Option func(*SimpleUIConfig)

// WithTitle устанавливает заголовок TUI.
func WithTitle(title string) Option {
	return func(cfg *SimpleUIConfig) {
		cfg.Title = title
	}
}

// WithPrompt устанавливает текст приглашения ввода.
func WithPrompt(prompt string) Option {
	return func(cfg *SimpleUIConfig) {
		cfg.InputPrompt = prompt
	}
}

// WithColorScheme устанавливает цветовую схему по имени
// ("default", "dark", "light", "dracula").
//
// Неизвестное имя откатывается на default.
func WithColorScheme(name string) Option {
	return func(cfg *SimpleUIConfig) {
		cfg.Colors = GetColorScheme(name)
	}
}

// WithStreaming устанавливает индикатор streaming в статус-баре.
//
// Переключение самого streaming-режима делается на клиенте
// (client.SetStreamingEnabled) до запуска TUI.
func WithStreaming(on bool) Option {
	return func(cfg *SimpleUIConfig) {
		if on {
			cfg.StreamingStatus = "ON"
		} else {
			cfg.StreamingStatus = "OFF"
		}
	}
}
