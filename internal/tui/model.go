// Package tui renders the roster list in the terminal.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/roster"
)

// RefreshInterval is how often local times are re-sampled.
const RefreshInterval = time.Minute

// FetchFunc loads the roster.
type FetchFunc func(ctx context.Context) ([]models.Modite, error)

type rosterMsg struct {
	modites []models.Modite
	err     error
}

type tickMsg time.Time

// Model is the roster list. The zero value is not usable; use New.
type Model struct {
	fetch FetchFunc
	now   func() time.Time

	width  int
	height int

	modites  []models.Modite
	entries  []roster.Entry
	loading  bool
	sampled  time.Time
	selected string // real name shown in the acknowledgment dialog

	table         table.Model
	filterInput   textinput.Model
	filterFocused bool

	styles Styles
}

// New creates the roster list backed by fetch. Init issues the first fetch.
func New(fetch FetchFunc) Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(roster.SkeletonRows),
	)

	fi := textinput.New()
	fi.Placeholder = "Filter Modites"
	fi.CharLimit = 64
	fi.Width = 40

	return Model{
		fetch:       fetch,
		now:         time.Now,
		loading:     true,
		table:       t,
		filterInput: fi,
		styles:      DefaultStyles(),
	}
}

func columns(width int) []table.Column {
	name := max(width-4-12-6, 16)
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Name", Width: name},
		{Title: "Local time", Width: 10},
	}
}

// Init starts the first fetch and the refresh timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tick(), textinput.Blink)
}

func (m Model) fetchCmd() tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		modites, err := fetch(context.Background())
		return rosterMsg{modites: modites, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Loaded reports whether the roster has been fetched.
func (m Model) Loaded() bool {
	return len(m.modites) > 0
}

// Selected returns the name shown in the acknowledgment dialog, if open.
func (m Model) Selected() string {
	return m.selected
}

// Entries returns the rows currently displayed.
func (m Model) Entries() []roster.Entry {
	return m.entries
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-9, roster.SkeletonRows))
		return m, nil

	case rosterMsg:
		m.loading = false
		if msg.err == nil && len(msg.modites) > 0 {
			m.modites = roster.SortByLastName(msg.modites)
		}
		m.refresh()
		return m, nil

	case tickMsg:
		m.sampled = time.Time(msg)
		m.refresh()
		cmds = append(cmds, tick())
		if !m.Loaded() && !m.loading {
			m.loading = true
			cmds = append(cmds, m.fetchCmd())
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.selected != "" {
			m.selected = ""
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.filterFocused {
				return m, tea.Quit
			}
		case "/":
			if !m.filterFocused {
				m.filterFocused = true
				m.table.Blur()
				return m, m.filterInput.Focus()
			}
		case "esc":
			if m.filterFocused {
				m.filterFocused = false
				m.filterInput.Blur()
				m.table.Focus()
				return m, nil
			}
		case "enter":
			if m.filterFocused {
				m.filterFocused = false
				m.filterInput.Blur()
				m.table.Focus()
				return m, nil
			}
			if i := m.table.Cursor(); i >= 0 && i < len(m.entries) {
				m.selected = m.entries[i].Modite.RealName
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.filterFocused {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.refresh()
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// refresh recomputes the displayed rows from the roster, the filter text
// and the last time sample.
func (m *Model) refresh() {
	now := m.sampled
	if now.IsZero() {
		now = m.now()
		m.sampled = now
	}
	m.entries = roster.Entries(m.modites, m.filterInput.Value(), now)

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{e.TimeOfDay.Emoji(), e.Modite.RealName, e.LocalTime}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// View renders the list, or the acknowledgment dialog over it.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Modites"))
	b.WriteString("\n")
	b.WriteString(m.styles.Filter.Render(m.filterInput.View()))
	b.WriteString("\n")

	if m.Loaded() {
		b.WriteString(m.table.View())
	} else {
		b.WriteString(m.skeleton())
	}

	b.WriteString(m.styles.Help.Render("/ filter • enter select • q quit"))
	view := b.String()

	if m.selected == "" {
		return view
	}
	dialog := m.styles.Dialog.Render(
		m.styles.DialogHi.Render(m.selected) + "\n\n" + m.styles.Help.UnsetMarginTop().Render("press any key"),
	)
	if m.width == 0 || m.height == 0 {
		return view + "\n" + dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m Model) skeleton() string {
	width := max(m.width-8, 24)
	lines := make([]string, roster.SkeletonRows)
	for i := range lines {
		// Vary the bar length so the placeholder reads as a list.
		n := width - (i%3)*6
		lines[i] = m.styles.Skeleton.Render("▒▒  " + strings.Repeat("░", n))
	}
	return strings.Join(lines, "\n")
}
