// Package launcher is the splash screen shown on an interactive terminal
// while the host scan runs. It hands back the user's choice and the scan.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"neverinstall/internal/scan"
)

// Choice is how the launcher was left.
type Choice int

const (
	Quit Choice = iota
	Start
)

func (c Choice) String() string {
	if c == Start {
		return "start"
	}
	return "quit"
}

// ScanFunc produces the snapshot. A nil ScanFunc means no scan is wanted.
type ScanFunc func() *scan.Snapshot

type scanDoneMsg struct {
	snap *scan.Snapshot
	took time.Duration
}

type theme struct {
	frame      lipgloss.Style
	frameAlt   lipgloss.Style
	title      lipgloss.Style
	titlePulse lipgloss.Style
	accent     lipgloss.Style
	option     lipgloss.Style
	selected   lipgloss.Style
	boot       lipgloss.Style
	ready      lipgloss.Style
	muted      lipgloss.Style
	scanlineA  lipgloss.Style
	scanlineB  lipgloss.Style
}

func newTheme(color bool) theme {
	if !color {
		plain := lipgloss.NewStyle()
		framed := lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).Padding(1, 2)
		return theme{
			frame: framed, frameAlt: framed, title: plain, titlePulse: plain, accent: plain,
			option: plain, selected: plain, boot: plain, ready: plain, muted: plain,
			scanlineA: plain, scanlineB: plain,
		}
	}
	var (
		panelBg = lipgloss.Color("#0b1020")
		cyan    = lipgloss.Color("#5ad1e6")
		green   = lipgloss.Color("#7be495")
		amber   = lipgloss.Color("#ffd166")
		muted   = lipgloss.Color("#8892b0")
		text    = lipgloss.Color("#e6edf3")
	)
	return theme{
		frame: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(cyan).
			Padding(1, 2),
		frameAlt: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(amber).
			Padding(1, 2),
		title:      lipgloss.NewStyle().Foreground(cyan).Bold(true),
		titlePulse: lipgloss.NewStyle().Foreground(amber).Bold(true),
		accent:     lipgloss.NewStyle().Foreground(green).Bold(true),
		option:     lipgloss.NewStyle().Foreground(text),
		selected: lipgloss.NewStyle().
			Foreground(panelBg).
			Background(cyan).
			Bold(true).
			Padding(0, 1),
		boot:      lipgloss.NewStyle().Foreground(amber).Bold(true),
		ready:     lipgloss.NewStyle().Foreground(green).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(muted),
		scanlineA: lipgloss.NewStyle().Background(lipgloss.Color("#0b1020")),
		scanlineB: lipgloss.NewStyle().Background(lipgloss.Color("#141a33")),
	}
}

// Model is the bubbletea model of the splash screen.
type Model struct {
	scan    ScanFunc
	spinner spinner.Model
	theme   theme

	items []string
	index int
	pulse int

	ready   bool
	pending bool
	snap    *scan.Snapshot
	took    time.Duration
	choice  Choice

	width  int
	height int
}

func New(scanFn ScanFunc, color bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Points
	th := newTheme(color)
	sp.Style = th.accent
	return Model{
		scan:    scanFn,
		spinner: sp,
		theme:   th,
		items:   []string{"Begin installation", "Quit"},
		choice:  Quit,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.scanCmd())
}

func (m Model) scanCmd() tea.Cmd {
	scanFn := m.scan
	return func() tea.Msg {
		if scanFn == nil {
			return scanDoneMsg{}
		}
		start := time.Now()
		snap := scanFn()
		return scanDoneMsg{snap: snap, took: time.Since(start)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.ready = true
		m.snap = msg.snap
		m.took = msg.took
		if m.pending {
			m.choice = Start
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.pulse = (m.pulse + 1) % 24
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.choice = Quit
			return m, tea.Quit
		case "up", "k":
			m.index = (m.index + len(m.items) - 1) % len(m.items)
		case "down", "j":
			m.index = (m.index + 1) % len(m.items)
		case "enter":
			if m.index == 1 {
				m.choice = Quit
				return m, tea.Quit
			}
			if !m.ready {
				m.pending = true
				return m, nil
			}
			m.choice = Start
			return m, tea.Quit
		}
	}
	return m, nil
}

// Choice reports how the launcher was left.
func (m Model) Choice() Choice { return m.choice }

// Snapshot returns the scan result, nil until the scan has finished.
func (m Model) Snapshot() *scan.Snapshot { return m.snap }

// Ready reports whether the scan has finished.
func (m Model) Ready() bool { return m.ready }

// ScanDuration is how long the scan took.
func (m Model) ScanDuration() time.Duration { return m.took }

func (m Model) View() string {
	contentWidth := max(48, min(90, m.width-4))

	pulseOn := (m.pulse/2)%2 == 0
	titleStyle, frameStyle := m.theme.title, m.theme.frame
	if pulseOn {
		titleStyle, frameStyle = m.theme.titlePulse, m.theme.frameAlt
	}

	innerWidth := min(max(contentWidth-8, 34), 74)
	rule := "+" + strings.Repeat("-", innerWidth) + "+"
	headerA := "| " + padRight("UNIVERSAL SYSTEM INSTALLER", innerWidth-2) + " |"
	headerB := "| " + padRight("v3.2.1 (Build 1999)", innerWidth-2) + " |"

	statusLabel, statusStyle := "BOOTING", m.theme.boot
	statusDetail := "detecting hardware configuration..."
	switch {
	case m.ready:
		statusLabel, statusStyle = "READY", m.theme.ready
		statusDetail = "environment initialized. press enter to begin."
	case m.pending:
		statusDetail = "installation will begin when detection finishes..."
	}
	bootLine := statusStyle.Render("["+statusLabel+"]") + " " + statusDetail

	var options strings.Builder
	for idx, item := range m.items {
		prefix := "   "
		if idx == m.index {
			prefix = ">> "
		}
		line := fmt.Sprintf("%s%d. %s", prefix, idx+1, item)
		if idx == m.index {
			options.WriteString(m.theme.selected.Render(line))
		} else {
			options.WriteString(m.theme.option.Render(line))
		}
		options.WriteString("\n")
	}

	body := strings.Join([]string{
		titleStyle.Render("Setup"),
		m.theme.muted.Render("Please wait while Setup prepares your computer"),
		"",
		m.theme.accent.Render(rule),
		m.theme.accent.Render(headerA),
		m.theme.accent.Render(headerB),
		m.theme.accent.Render(rule),
		"",
		m.spinner.View() + " " + bootLine,
		"",
		strings.TrimRight(options.String(), "\n"),
		"",
		m.theme.muted.Render("Keys: up/down choose | enter select | q quit"),
	}, "\n")
	body = scanlines(body, m.theme.scanlineA, m.theme.scanlineB)

	panel := frameStyle.Width(contentWidth).Render(body)
	return lipgloss.Place(
		max(contentWidth+2, m.width-2),
		max(16, m.height-2),
		lipgloss.Center,
		lipgloss.Center,
		panel,
	)
}

func padRight(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(text) >= width {
		return text[:width]
	}
	return text + strings.Repeat(" ", width-len(text))
}

// scanlines pads every line to the same width and alternates two backgrounds.
func scanlines(text string, lineA, lineB lipgloss.Style) string {
	lines := strings.Split(text, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, lipgloss.Width(line))
	}
	if width <= 0 {
		return text
	}
	out := make([]string, 0, len(lines))
	for idx, line := range lines {
		padded := line + strings.Repeat(" ", max(0, width-lipgloss.Width(line)))
		if idx%2 == 0 {
			out = append(out, lineA.Render(padded))
		} else {
			out = append(out, lineB.Render(padded))
		}
	}
	return strings.Join(out, "\n")
}

// Options wires the launcher to a terminal.
type Options struct {
	Color  bool
	Input  io.Reader
	Output io.Writer
}

// Run shows the launcher until the user picks an item or ctx ends. A
// cancelled context is reported as Quit, not as an error.
func Run(ctx context.Context, scanFn ScanFunc, opts Options) (Model, error) {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	final, err := tea.NewProgram(New(scanFn, opts.Color), progOpts...).Run()
	m, _ := final.(Model)
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			m.choice = Quit
			return m, nil
		}
		return m, fmt.Errorf("launcher: %w", err)
	}
	return m, nil
}
