package ui

import (
	"bytes"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neverinstall/internal/escalation"
	"neverinstall/internal/interrupt"
)

type failingWriter struct {
	calls int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	return 0, errors.New("broken pipe")
}

func cancelAfter(d time.Duration) interrupt.Check {
	var fired atomic.Bool
	time.AfterFunc(d, func() { fired.Store(true) })
	return fired.Load
}

func TestConsoleStickyError(t *testing.T) {
	w := &failingWriter{}
	c := NewConsole(w, NewTheme(false))
	c.Println("one")
	c.Println("two")
	c.Printf("%d\n", 3)

	require.Error(t, c.Err())
	assert.Contains(t, c.Err().Error(), "broken pipe")
	assert.Equal(t, 1, w.calls)
}

func TestConsoleBoxed(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, NewTheme(false))
	c.Boxed("=", c.Theme.HeaderRule, c.Theme.Title, 5, "hello", "world")
	assert.Equal(t, "=====\nhello\nworld\n=====\n", buf.String())
	assert.NoError(t, c.Err())
}

func TestPlainThemeLeavesTextAlone(t *testing.T) {
	th := NewTheme(false)
	for _, tier := range escalation.Tiers {
		assert.Equal(t, "hi there", th.Tier(tier).Render("hi there"))
	}
	assert.Equal(t, "WARNING", th.Warning.Render("WARNING"))
}

func TestSpinnerCompletes(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf, NewTheme(false))
	require.NoError(t, sp.Animate("Detecting hardware configuration...", 0, interrupt.Never))
	assert.True(t, strings.HasSuffix(buf.String(), "✓ Detecting hardware configuration...\n"))
}

func TestSpinnerRunsForDuration(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf, NewTheme(false))
	start := time.Now()
	require.NoError(t, sp.Animate("wait", 250*time.Millisecond, interrupt.Never))
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond)
	assert.Greater(t, strings.Count(buf.String(), "\r"), 2)
}

func TestSpinnerCancelsQuickly(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf, NewTheme(false))
	check := cancelAfter(20 * time.Millisecond)

	start := time.Now()
	err := sp.Animate("Reconnecting to mirror.oldsoft.org", 5000*time.Millisecond, check)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, interrupt.ErrInterrupted)
	assert.Less(t, elapsed, 100*time.Millisecond)
	assert.NotContains(t, buf.String(), "✓")
}

func TestSpinnerReportsWriteError(t *testing.T) {
	sp := NewSpinner(&failingWriter{}, NewTheme(false))
	err := sp.Animate("x", time.Second, interrupt.Never)
	require.Error(t, err)
	assert.False(t, errors.Is(err, interrupt.ErrInterrupted))
}

func TestProgressBarCompletes(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, NewTheme(false), 20)
	require.NoError(t, bar.Animate("Writing flash", 120*time.Millisecond, interrupt.Never))
	out := buf.String()
	assert.Contains(t, out, "Writing flash")
	assert.Contains(t, out, "100%")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestProgressBarCancelsQuickly(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, NewTheme(false), 20)
	check := cancelAfter(20 * time.Millisecond)

	start := time.Now()
	err := bar.Animate("Erasing flash", 5000*time.Millisecond, check)

	require.ErrorIs(t, err, interrupt.ErrInterrupted)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.NotContains(t, buf.String(), "100%")
}
