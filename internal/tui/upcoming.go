// Package tui holds the full-screen bubbletea views
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// gapSeparator is drawn between two releases more than this far apart
const gapSeparator = 7 * 24 * time.Hour

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	episodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	movieStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
	ovaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498DB"))
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF69B4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F8C8D"))
)

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "back")),
}

// row is either a release or a separator line
type row struct {
	entry     *models.UpcomingEntry
	separator bool
}

// UpcomingModel lists upcoming releases with a countdown
type UpcomingModel struct {
	rows   []row
	cursor int
	offset int
	height int
	now    func() time.Time
}

// NewUpcomingModel builds the view; entries are expected in release order
func NewUpcomingModel(entries []models.UpcomingEntry, now func() time.Time) UpcomingModel {
	m := UpcomingModel{height: 20, now: now}
	for i := range entries {
		prev, cur := entries[max(i-1, 0)].ReleaseAt, entries[i].ReleaseAt
		if i > 0 && !prev.IsZero() && (cur.IsZero() || cur.Sub(prev) > gapSeparator) {
			m.rows = append(m.rows, row{separator: true})
		}
		m.rows = append(m.rows, row{entry: &entries[i]})
	}
	return m
}

func (m UpcomingModel) Init() tea.Cmd { return nil }

func (m UpcomingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-4, 1)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.move(-1)
		case key.Matches(msg, keys.Down):
			m.move(1)
		}
	}
	return m, nil
}

// move steps the cursor over separators
func (m *UpcomingModel) move(delta int) {
	next := m.cursor
	for {
		next += delta
		if next < 0 || next >= len(m.rows) {
			return
		}
		if !m.rows[next].separator {
			break
		}
	}
	m.cursor = next
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// Cursor returns the index of the highlighted row
func (m UpcomingModel) Cursor() int { return m.cursor }

func (m UpcomingModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Upcoming releases"))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Render("Nothing announced."))
		b.WriteString("\n")
	}

	end := min(m.offset+m.height, len(m.rows))
	now := m.now()
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		if r.separator {
			b.WriteString(mutedStyle.Render(strings.Repeat("─", 40)))
			b.WriteString("\n")
			continue
		}

		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s - %s", r.entry.Title, r.entry.Episode)
		if !r.entry.ReleaseAt.IsZero() {
			line += fmt.Sprintf("  (%s, %s)", r.entry.ReleaseAt.Local().Format("Mon 02 Jan 15:04"), Countdown(r.entry.ReleaseAt.Sub(now)))
		}
		b.WriteString(prefix + styleFor(r.entry.Kind).Render(line) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s • %s • %s",
		keys.Up.Help().Key+" "+keys.Up.Help().Desc,
		keys.Down.Help().Key+" "+keys.Down.Help().Desc,
		keys.Quit.Help().Key+" "+keys.Quit.Help().Desc)))
	return b.String()
}

func styleFor(kind models.ReleaseKind) lipgloss.Style {
	switch kind {
	case models.KindMovie:
		return movieStyle
	case models.KindOVA:
		return ovaStyle
	default:
		return episodeStyle
	}
}

// Countdown renders a duration as "2d 3h", "4h 12m" or "7m"
func Countdown(d time.Duration) string {
	if d <= 0 {
		return "out now"
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// RunUpcoming shows the view until the user quits
func RunUpcoming(entries []models.UpcomingEntry) error {
	_, err := tea.NewProgram(NewUpcomingModel(entries, time.Now), tea.WithAltScreen()).Run()
	return err
}
