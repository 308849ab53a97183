// Package chain реализует управляющий цикл агента (ReAct: Reasoning + Acting).
package chain

import (
	"context"

	"github.com/ilkoid/minagent/pkg/state"
)

// Agent — узкий контракт "запрос → ответ" поверх цикла.
//
// Интерфейс живёт здесь, а не в pkg/agent: клиентская обёртка
// (pkg/agent) собирается через pkg/app, который уже импортирует chain —
// объявление в pkg/agent закольцевало бы импорты.
//
// ReActCycle реализует и Agent (Run с ведением истории), и Chain
// (Execute с полным контролем входа) — вызывающий код выбирает
// нужный уровень.
type Agent interface {
	// Run обрабатывает запрос пользователя и возвращает финальный ответ.
	//
	// Запрос и ответ попадают в историю диалога; ошибка запуска
	// оставляет запрос без ответной реплики.
	Run(ctx context.Context, query string) (string, error)

	// GetHistory возвращает историю диалога в порядке добавления реплик.
	GetHistory() []state.Entry
}
