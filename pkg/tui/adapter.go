// adapter.go — мост между каналом событий агента и Bubble Tea.
//
// Port & Adapter паттерн:
//   - pkg/events.* — Port (интерфейсы)
//   - pkg/tui.* — Adapter (конвертация событий в tea.Msg)
//
// Bubble Tea читает сообщения через Cmd, поэтому подписка на события
// агента оформлена как самовозобновляющийся Cmd: обработав EventMsg,
// Update() возвращает WaitForEvent для чтения следующего события.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/minagent/pkg/events"
)

// EventMsg конвертирует events.Event в Bubble Tea сообщение.
//
// Используется в Bubble Tea Update() для обработки событий агента.
type EventMsg events.Event

// ReceiveEventCmd возвращает Bubble Tea Cmd для чтения событий из Subscriber.
//
// Функция-конвертер вызывается для каждого полученного события и должна
// возвращать Bubble Tea сообщение. Закрытие подписки завершает программу.
//
// Пример использования в Bubble Tea Model:
//
//	func (m model) Init() tea.Cmd {
//	    return tui.ReceiveEventCmd(subscriber, func(evt events.Event) tea.Msg {
//	        return EventMsg(evt)
//	    })
//	}
func ReceiveEventCmd(sub events.Subscriber, converter func(events.Event) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return tea.QuitMsg{}
		}
		return converter(event)
	}
}

// WaitForEvent возвращает Cmd который ждёт следующего события.
//
// Используется в Update() для продолжения чтения событий:
//
//	case EventMsg(event):
//	    // ... обработка события
//	    return m, tui.WaitForEvent(sub, converter)
func WaitForEvent(sub events.Subscriber, converter func(events.Event) tea.Msg) tea.Cmd {
	return ReceiveEventCmd(sub, converter)
}
