// viewport_helpers.go — умная прокрутка для Bubble Tea viewport.
//
// Сохраняет позицию пользователя при добавлении нового контента:
// автоскролл вниз происходит только если пользователь уже был внизу.
package tui

import "github.com/charmbracelet/bubbles/viewport"

// shouldGotoBottom проверяет, находится ли пользователь в нижней позиции viewport.
//
// YOffset + высота окна >= общее число строк означает «видна последняя строка».
// Не модифицирует viewport, только читает.
func shouldGotoBottom(vp viewport.Model) bool {
	return vp.YOffset+vp.Height >= vp.TotalLineCount()
}

// AppendToViewport обновляет контент viewport с умной обработкой прокрутки.
//
// Позиция проверяется ДО SetContent: если пользователь прокрутил вверх
// для просмотра истории, новые сообщения не сбрасывают его позицию.
//
// Модифицирует viewport in-place; при вызове из нескольких горутин
// требуется внешняя синхронизация.
//
// Example:
//
//	content := strings.Join(m.messages, "\n")
//	tui.AppendToViewport(&m.viewport, content)
func AppendToViewport(vp *viewport.Model, newContent string) {
	wasAtBottom := shouldGotoBottom(*vp)
	vp.SetContent(newContent)
	if wasAtBottom {
		vp.GotoBottom()
	}
}
