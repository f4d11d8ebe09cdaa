package ui

import (
	"github.com/charmbracelet/lipgloss"

	"neverinstall/internal/escalation"
)

// Theme is the installer palette. A plain theme renders every style as the
// bare text.
type Theme struct {
	Color bool

	HeaderRule lipgloss.Style
	Title      lipgloss.Style
	Info       lipgloss.Style
	Muted      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	CycleRule  lipgloss.Style
	CycleTitle lipgloss.Style
	CosmicRule lipgloss.Style
	CosmicText lipgloss.Style
	Farewell   lipgloss.Style
	Spinner    lipgloss.Style
	Stage      lipgloss.Style

	tiers map[escalation.Tier]lipgloss.Style
}

func NewTheme(color bool) Theme {
	if !color {
		plain := lipgloss.NewStyle()
		return Theme{
			HeaderRule: plain, Title: plain, Info: plain, Muted: plain,
			Success: plain, Warning: plain, Error: plain,
			CycleRule: plain, CycleTitle: plain, CosmicRule: plain, CosmicText: plain,
			Farewell: plain, Spinner: plain, Stage: plain,
		}
	}

	cyan := lipgloss.Color("14")
	white := lipgloss.Color("15")
	red := lipgloss.Color("9")
	green := lipgloss.Color("10")
	yellow := lipgloss.Color("11")
	magenta := lipgloss.Color("13")
	muted := lipgloss.Color("8")

	return Theme{
		Color:      true,
		HeaderRule: lipgloss.NewStyle().Foreground(cyan),
		Title:      lipgloss.NewStyle().Foreground(white).Bold(true),
		Info:       lipgloss.NewStyle().Foreground(white),
		Muted:      lipgloss.NewStyle().Foreground(muted).Faint(true),
		Success:    lipgloss.NewStyle().Foreground(green).Bold(true),
		Warning:    lipgloss.NewStyle().Foreground(yellow),
		Error:      lipgloss.NewStyle().Foreground(red),
		CycleRule:  lipgloss.NewStyle().Foreground(magenta),
		CycleTitle: lipgloss.NewStyle().Foreground(magenta).Bold(true),
		CosmicRule: lipgloss.NewStyle().Foreground(red),
		CosmicText: lipgloss.NewStyle().Foreground(red).Bold(true),
		Farewell:   lipgloss.NewStyle().Foreground(white),
		Spinner:    lipgloss.NewStyle().Foreground(cyan),
		Stage:      lipgloss.NewStyle().Foreground(cyan).Bold(true),
		tiers: map[escalation.Tier]lipgloss.Style{
			escalation.Ambient:  lipgloss.NewStyle().Faint(true),
			escalation.Familiar: lipgloss.NewStyle().Foreground(white),
			escalation.Invasive: lipgloss.NewStyle().Foreground(yellow),
			escalation.Cosmic:   lipgloss.NewStyle().Foreground(red),
		},
	}
}

// Tier returns the style for personalised text at tier t.
func (th Theme) Tier(t escalation.Tier) lipgloss.Style {
	if s, ok := th.tiers[t]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Accent returns a foreground style in c, or a plain style without colour.
func (th Theme) Accent(c lipgloss.Color) lipgloss.Style {
	if !th.Color {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c)
}

// Strong is Accent in bold.
func (th Theme) Strong(c lipgloss.Color) lipgloss.Style {
	if !th.Color {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}
