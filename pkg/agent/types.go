// Package agent предоставляет простой API для создания и запуска AI агентов.
//
// Пакет agent является фасадом над pkg/chain, предоставляя более удобный API
// для создания агентов. Интерфейс Agent определён в pkg/chain для избежания
// циклических импортов.
package agent

import (
	"fmt"

	"github.com/ilkoid/minagent/pkg/chain"
)

// Agent — переэкспорт интерфейса из pkg/chain.
//
// Переэкспорт выполняется для удобства использования:
//
//	import "github.com/ilkoid/minagent/pkg/agent"
//
//	var a agent.Agent = ...
//
// Оригинальный интерфейс определён в pkg/chain.Agent.
type Agent = chain.Agent

// ConfigurationError — ошибка сборки агента.
//
// Stage называет фазу инициализации ("config", "components"), Err несёт
// исходную причину. Позволяет вызывающему коду различать «кривой YAML»
// и «не собрался граф компонентов» без разбора строк.
type ConfigurationError struct {
	Stage string
	Err   error
}

// Error реализует error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("agent configuration failed at %s: %v", e.Stage, e.Err)
}

// Unwrap возвращает исходную ошибку для errors.Is/As.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
