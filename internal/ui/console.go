// Package ui draws the installer on a terminal: the colour theme, a
// sticky-error console writer and the cancellable spinner and progress bar.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 63

// Console writes installer output. The first write error is kept and every
// later write is skipped, so callers can print freely and check Err once
// per step.
type Console struct {
	out   io.Writer
	err   error
	Theme Theme
}

func NewConsole(out io.Writer, theme Theme) *Console {
	return &Console{out: out, Theme: theme}
}

func (c *Console) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.out.Write(p)
	if err != nil {
		c.err = fmt.Errorf("write terminal: %w", err)
		return n, c.err
	}
	return n, nil
}

// Err returns the first write error, if any.
func (c *Console) Err() error {
	return c.err
}

func (c *Console) Println(a ...any) {
	fmt.Fprintln(c, a...)
}

func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c, format, a...)
}

// Line prints text rendered with style and a newline.
func (c *Console) Line(style lipgloss.Style, text string) {
	fmt.Fprintln(c, style.Render(text))
}

// Blank prints an empty line.
func (c *Console) Blank() {
	fmt.Fprintln(c)
}

// Boxed prints lines between two rules of rune r.
func (c *Console) Boxed(r string, rule, text lipgloss.Style, width int, lines ...string) {
	if width <= 0 {
		width = ruleWidth
	}
	bar := rule.Render(strings.Repeat(r, width))
	fmt.Fprintln(c, bar)
	for _, line := range lines {
		fmt.Fprintln(c, text.Render(line))
	}
	fmt.Fprintln(c, bar)
}
