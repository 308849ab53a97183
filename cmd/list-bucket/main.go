// list-bucket — инспектор S3 бакета из конфига.
//
// Показывает содержимое бакета в прокручиваемом viewport.
//
// Использование:
//
//	./list-bucket
//	./list-bucket -prefix reports/2026
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ilkoid/minagent/pkg/app"
	"github.com/ilkoid/minagent/pkg/s3storage"
)

// --- Стили ---
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
)

// --- Сообщения (Messages) ---
type errMsg error
type contentMsg []s3storage.StoredObject

// --- Модель ---
type model struct {
	s3Client *s3storage.Client
	prefix   string
	spinner  spinner.Model
	viewport viewport.Model

	loading bool
	err     error
	ready   bool
}

func initialModel(s3 *s3storage.Client, prefix string) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		s3Client: s3,
		prefix:   prefix,
		spinner:  s,
		loading:  true, // Сразу начинаем загрузку
	}
}

// Init запускает спиннер и команду загрузки
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchBucketContents(m.s3Client, m.prefix),
	)
}

// Update - обработка событий
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case errMsg:
		m.err = msg
		m.loading = false
		return m, nil

	case contentMsg:
		m.loading = false
		m.viewport.SetContent(formatFileList(msg, m.prefix))
		return m, nil

	case tea.WindowSizeMsg:
		headerHeight := 2
		verticalMarginHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-verticalMarginHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - verticalMarginHeight
		}
	}

	if m.loading {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View - отрисовка
func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n❌ Error: %v\n\nPress 'q' to quit.", m.err)
	}

	header := titleStyle.Render("📦 S3 Bucket Inspector")

	if m.loading {
		return fmt.Sprintf("\n %s Connecting to S3 and fetching objects...\n\n", m.spinner.View())
	}

	return fmt.Sprintf("%s\n%s\n\n(Press 'q' to quit, arrows to scroll)", header, m.viewport.View())
}

// --- Команды ---

func fetchBucketContents(client *s3storage.Client, prefix string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Пустой префикс = весь бакет
		files, err := client.ListFiles(ctx, prefix)
		if err != nil {
			return errMsg(err)
		}
		return contentMsg(files)
	}
}

// formatFileList форматирует список объектов для вьюпорта.
func formatFileList(files []s3storage.StoredObject, prefix string) string {
	if len(files) == 0 {
		if prefix != "" {
			return fmt.Sprintf("No objects under prefix %q.", prefix)
		}
		return "Bucket is empty."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total Objects: %d\n\n", len(files)))

	for _, f := range files {
		line := fmt.Sprintf("%s  %-10s  %s\n",
			itemStyle.Render("•"),
			humanSize(f.Size),
			f.Key,
		)
		b.WriteString(line)
	}
	return b.String()
}

// humanSize переводит байты в читаемый вид.
func humanSize(size int64) string {
	switch {
	case size >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	case size >= 1024:
		return fmt.Sprintf("%.2f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// --- Main ---

func main() {
	configPath := flag.String("config", "", "путь к config.yaml")
	prefix := flag.String("prefix", "", "префикс объектов (пустой — весь бакет)")
	flag.Parse()

	// 1. Грузим конфиг строго: утилита распространяется рядом с config.yaml
	cfg, _, err := app.InitializeConfigStrict(&app.StandaloneConfigPathFinder{ConfigFlag: *configPath})
	if err != nil {
		log.Fatalf("Config Error: %v", err)
	}

	if cfg.S3.Endpoint == "" {
		log.Fatalf("S3 is not configured: fill the s3: section in config.yaml")
	}

	// 2. Инициализируем S3
	s3Client, err := s3storage.New(cfg.S3)
	if err != nil {
		log.Fatalf("S3 Init Error: %v", err)
	}

	// 3. Запускаем
	p := tea.NewProgram(
		initialModel(s3Client, *prefix),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
