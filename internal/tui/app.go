package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/minhypr/minhypr/internal/engine"
	"github.com/minhypr/minhypr/internal/menu"
	"github.com/minhypr/minhypr/internal/state"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginTop(1)
)

// model is the root bubbletea model.
type model struct {
	engine *engine.Engine

	entries  []state.MinimizedWindow
	cursor   int
	lastErr  string
	lastInfo string

	width  int
	height int
}

func newModel(e *engine.Engine) model {
	m := model{engine: e}
	m.refresh()
	return m
}

// refresh reloads the entry list, reaping stale entries first.
func (m *model) refresh() {
	entries, err := m.engine.List(true)
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	m.lastErr = ""
	m.entries = entries
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "j", "down":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
			return m, nil

		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "r":
			m.refresh()
			return m, nil

		case "enter":
			if len(m.entries) == 0 {
				return m, nil
			}
			entry := m.entries[m.cursor]
			if _, err := m.engine.Restore(entry.ID); err != nil {
				m.lastErr = err.Error()
			} else {
				m.lastInfo = fmt.Sprintf("restored %s", entry.Class)
				m.lastErr = ""
			}
			m.refresh()
			return m, nil

		case "a":
			if len(m.entries) == 0 {
				return m, nil
			}
			n, err := m.engine.RestoreAll()
			if err != nil {
				m.lastErr = err.Error()
			} else {
				m.lastInfo = fmt.Sprintf("restored %d windows", n)
				m.lastErr = ""
			}
			m.refresh()
			return m, nil
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("minhypr: minimized windows"))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(dimStyle.Render("  nothing minimized"))
		b.WriteString("\n")
	}
	for i, entry := range m.entries {
		line := menu.Label(entry)
		ws := dimStyle.Render(fmt.Sprintf("  (ws %d)", entry.SourceWorkspace))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString(ws)
		b.WriteString("\n")
	}

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.lastErr))
	} else if m.lastInfo != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.lastInfo))
	}

	b.WriteString(helpStyle.Render("\nenter restore · a restore all · r reload · j/k move · q quit"))
	b.WriteString("\n")
	return b.String()
}
