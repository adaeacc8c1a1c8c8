package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/good-yellow-bee/modites/internal/models"
)

func member(id, realName, lastName, tz string) models.Modite {
	m := models.Modite{ID: id, RealName: realName, TZ: tz}
	m.Profile.LastName = lastName
	return m
}

func sample() []models.Modite {
	return []models.Modite{
		member("U1", "Yara Zed", "Zed", "UTC"),
		member("U2", "Abe Adams", "Adams", "Asia/Tokyo"),
		member("U3", "Mia Moss", "Moss", "UTC"),
	}
}

func newModel() Model {
	m := New(func(ctx context.Context) ([]models.Modite, error) { return sample(), nil })
	m.now = func() time.Time { return time.Date(2024, 1, 1, 23, 15, 0, 0, time.UTC) }
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_SkeletonUntilLoaded(t *testing.T) {
	m := newModel()

	view := m.View()
	assert.Contains(t, view, "Modites")
	assert.Equal(t, 10, strings.Count(view, "▒▒"))
	assert.False(t, m.Loaded())
}

func TestUpdate_RosterSortedAndSampled(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, rosterMsg{modites: sample()})

	require.True(t, m.Loaded())
	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"U2", "U3", "U1"}, []string{entries[0].Modite.ID, entries[1].Modite.ID, entries[2].Modite.ID})
	// 23:15 UTC is 08:15 in Tokyo.
	assert.Equal(t, "8:15 AM", entries[0].LocalTime)
	assert.Equal(t, "😃", entries[0].TimeOfDay.Emoji())
	assert.Equal(t, "💤", entries[1].TimeOfDay.Emoji())

	view := m.View()
	assert.Contains(t, view, "Abe Adams")
	assert.NotContains(t, view, "▒▒")
}

func TestUpdate_FetchFailureKeepsSkeleton(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, rosterMsg{err: errors.New("no route to host")})

	assert.False(t, m.Loaded())
	assert.Equal(t, 10, strings.Count(m.View(), "▒▒"))
}

func TestUpdate_TickRefetchesWhileEmpty(t *testing.T) {
	calls := 0
	m := New(func(ctx context.Context) ([]models.Modite, error) {
		calls++
		return sample(), nil
	})
	m, _ = update(t, m, rosterMsg{err: errors.New("timeout")})

	m, cmd := update(t, m, tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	// A second tick while the fetch is in flight does not start another.
	m, _ = update(t, m, tickMsg(time.Now()))
	m, _ = update(t, m, rosterMsg{modites: sample()})
	assert.True(t, m.Loaded())
}

func TestUpdate_TickResamplesTime(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, rosterMsg{modites: sample()})
	assert.Equal(t, "11:15 PM", m.Entries()[1].LocalTime)

	m, _ = update(t, m, tickMsg(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "9:00 AM", m.Entries()[1].LocalTime)
	assert.Equal(t, "😃", m.Entries()[1].TimeOfDay.Emoji())
}

func TestUpdate_FilterIsCaseInsensitive(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, rosterMsg{modites: sample()})

	m, _ = update(t, m, keys("/"))
	m, _ = update(t, m, keys("MOSS"))

	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "U3", entries[0].Modite.ID)
}

func TestUpdate_EnterShowsAckUntilKeyPress(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, rosterMsg{modites: sample()})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Abe Adams", m.Selected())
	assert.Contains(t, m.View(), "press any key")

	m, cmd := update(t, m, keys("q"))
	assert.Empty(t, m.Selected())
	assert.Nil(t, cmd, "the dismissing key must not quit")
}

func TestUpdate_EnterBeforeLoadDoesNothing(t *testing.T) {
	m := newModel()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.Selected())
}
