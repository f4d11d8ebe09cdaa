package launcher

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neverinstall/internal/scan"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestScanCommandDeliversSnapshot(t *testing.T) {
	want := &scan.Snapshot{Hostname: "box", FilesScanned: 12}
	m := New(func() *scan.Snapshot { return want }, false)

	msg := m.scanCmd()()
	done, ok := msg.(scanDoneMsg)
	require.True(t, ok)
	assert.Same(t, want, done.snap)

	m, cmd := send(t, m, msg)
	assert.Nil(t, cmd)
	assert.True(t, m.Ready())
	assert.Same(t, want, m.Snapshot())
}

func TestNilScanIsReadyImmediately(t *testing.T) {
	m := New(nil, false)
	m, _ = send(t, m, m.scanCmd()())
	assert.True(t, m.Ready())
	assert.Nil(t, m.Snapshot())
}

func TestNavigationWraps(t *testing.T) {
	m := New(nil, false)
	assert.Equal(t, 0, m.index)

	m, _ = send(t, m, key("down"))
	assert.Equal(t, 1, m.index)
	m, _ = send(t, m, key("j"))
	assert.Equal(t, 0, m.index)
	m, _ = send(t, m, key("up"))
	assert.Equal(t, 1, m.index)
	m, _ = send(t, m, key("k"))
	assert.Equal(t, 0, m.index)
}

func TestEnterStartsOnceReady(t *testing.T) {
	m := New(nil, false)
	m, _ = send(t, m, scanDoneMsg{snap: &scan.Snapshot{}, took: time.Millisecond})

	m, cmd := send(t, m, key("enter"))
	assert.True(t, isQuit(cmd))
	assert.Equal(t, Start, m.Choice())
}

func TestEnterBeforeScanWaits(t *testing.T) {
	m := New(nil, false)

	m, cmd := send(t, m, key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, Quit, m.Choice())
	assert.Contains(t, m.View(), "installation will begin when detection finishes")

	m, cmd = send(t, m, scanDoneMsg{snap: &scan.Snapshot{Hostname: "late"}})
	assert.True(t, isQuit(cmd))
	assert.Equal(t, Start, m.Choice())
	assert.Equal(t, "late", m.Snapshot().Hostname)
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := New(nil, false)
			m, _ = send(t, m, scanDoneMsg{})
			m, cmd := send(t, m, key(k))
			assert.True(t, isQuit(cmd))
			assert.Equal(t, Quit, m.Choice())
		})
	}

	m := New(nil, false)
	m, _ = send(t, m, key("down"))
	m, cmd := send(t, m, key("enter"))
	assert.True(t, isQuit(cmd))
	assert.Equal(t, Quit, m.Choice())
}

func TestViewShowsStatusAndMenu(t *testing.T) {
	m := New(nil, false)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "UNIVERSAL SYSTEM INSTALLER")
	assert.Contains(t, view, "[BOOTING]")
	assert.Contains(t, view, ">> 1. Begin installation")
	assert.Contains(t, view, "   2. Quit")

	m, _ = send(t, m, scanDoneMsg{})
	m, _ = send(t, m, key("down"))
	view = m.View()
	assert.Contains(t, view, "[READY]")
	assert.Contains(t, view, ">> 2. Quit")
	assert.NotContains(t, view, "[BOOTING]")
}

func TestViewFitsSmallTerminal(t *testing.T) {
	m := New(nil, false)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.NotEmpty(t, strings.TrimSpace(m.View()))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abc", padRight("abcdef", 3))
	assert.Equal(t, "", padRight("abc", 0))
}

func TestChoiceString(t *testing.T) {
	assert.Equal(t, "start", Start.String())
	assert.Equal(t, "quit", Quit.String())
}
