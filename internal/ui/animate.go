package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"neverinstall/internal/interrupt"
)

const progressInterval = 50 * time.Millisecond

// Spinner draws a rotating frame in front of a message for a fixed time.
type Spinner struct {
	out    io.Writer
	frames []string
	fps    time.Duration
	style  lipgloss.Style
}

func NewSpinner(out io.Writer, theme Theme) *Spinner {
	return newSpinner(out, theme, spinner.Dot)
}

func newSpinner(out io.Writer, theme Theme, s spinner.Spinner) *Spinner {
	frames := make([]string, len(s.Frames))
	for i, f := range s.Frames {
		frames[i] = strings.TrimSpace(f)
	}
	return &Spinner{out: out, frames: frames, fps: s.FPS, style: theme.Spinner}
}

// Animate spins for d, polling check between frames, then prints text with a
// check mark and ends the line. It returns interrupt.ErrInterrupted as soon
// as check fires.
func (s *Spinner) Animate(text string, d time.Duration, check interrupt.Check) error {
	deadline := time.Now().Add(d)
	for frame := 0; ; frame++ {
		if err := check.Err(); err != nil {
			return err
		}
		glyph := s.style.Render(s.frames[frame%len(s.frames)])
		if _, err := fmt.Fprintf(s.out, "\r%s %s", glyph, text); err != nil {
			return err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if err := interrupt.Sleep(min(remaining, s.fps), check); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(s.out, "\r%s %s\n", s.style.Render("✓"), text)
	return err
}

// ProgressBar fills a bar beside a label over a fixed time.
type ProgressBar struct {
	out io.Writer
	bar progress.Model
}

func NewProgressBar(out io.Writer, theme Theme, width int) *ProgressBar {
	opts := []progress.Option{progress.WithWidth(width)}
	if theme.Color {
		opts = append(opts, progress.WithDefaultGradient())
	}
	bar := progress.New(opts...)
	if !theme.Color {
		bar.Full = '#'
		bar.Empty = '-'
	}
	return &ProgressBar{out: out, bar: bar}
}

// Animate draws the bar from 0 to 100% over d and ends the line. It returns
// interrupt.ErrInterrupted as soon as check fires.
func (p *ProgressBar) Animate(label string, d time.Duration, check interrupt.Check) error {
	start := time.Now()
	for {
		if err := check.Err(); err != nil {
			return err
		}
		elapsed := time.Since(start)
		if elapsed >= d {
			break
		}
		if err := p.draw(label, float64(elapsed)/float64(d)); err != nil {
			return err
		}
		if err := interrupt.Sleep(min(d-elapsed, progressInterval), check); err != nil {
			return err
		}
	}
	if err := p.draw(label, 1); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.out)
	return err
}

// Render returns the bar at pct (0 to 1) without drawing it.
func (p *ProgressBar) Render(pct float64) string {
	return p.bar.ViewAs(pct)
}

func (p *ProgressBar) draw(label string, pct float64) error {
	_, err := fmt.Fprintf(p.out, "\r%s %s", label, p.Render(pct))
	return err
}
