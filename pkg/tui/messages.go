// messages.go — Bubble Tea message types и команда сохранения транскрипта.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// saveSuccessMsg — сообщение об успешном сохранении транскрипта.
type saveSuccessMsg struct {
	filename string
}

// saveErrorMsg — сообщение об ошибке сохранения.
type saveErrorMsg struct {
	err error
}

// saveTranscriptCmd сохраняет снимок транскрипта в markdown-файл.
//
// Снимок (копия строк) делается вызывающей стороной под мьютексом,
// сама запись идёт в Cmd-горутине Bubble Tea. Lipgloss-форматирование
// удаляется, в файл попадает чистый текст.
func saveTranscriptCmd(lines []string) tea.Cmd {
	return func() tea.Msg {
		timestamp := time.Now().Format("20060102_150405")
		filename := fmt.Sprintf("conversation_%s.md", timestamp)

		var content strings.Builder
		content.WriteString("# Session Log\n\n")
		content.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
		content.WriteString("---\n\n")

		for _, line := range lines {
			content.WriteString(stripANSICodes(line))
			content.WriteString("\n")
		}

		if err := os.WriteFile(filename, []byte(content.String()), 0644); err != nil {
			return saveErrorMsg{err: err}
		}
		return saveSuccessMsg{filename: filename}
	}
}

// stripANSICodes удаляет ANSI escape коды из строки.
//
// Последовательность начинается с ESC (0x1B), дальше '[' и параметры,
// заканчивается буквой: "\x1b[38;5;99mtext\x1b[0m" → "text".
func stripANSICodes(s string) string {
	var result strings.Builder
	inEscape := false

	for i := 0; i < len(s); i++ {
		if s[i] == 0x1B {
			inEscape = true
			if i+1 < len(s) && s[i+1] == '[' {
				i++
			}
			continue
		}

		if inEscape {
			if (s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z') {
				inEscape = false
			}
			continue
		}

		result.WriteByte(s[i])
	}

	return result.String()
}
