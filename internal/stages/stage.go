// Package stages holds the fake installation steps the installer loop runs
// each cycle. A stage prints its show to the console, sleeps for scaled
// pacing delays and polls the interrupt check in every sub-loop.
package stages

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"neverinstall/internal/config"
	"neverinstall/internal/interrupt"
	"neverinstall/internal/loggen"
	"neverinstall/internal/ui"
)

// Stage is one step of an installation cycle.
type Stage interface {
	Name() string
	Run(check interrupt.Check) error
}

// Env is what every stage draws on.
type Env struct {
	Console *ui.Console
	RNG     *rand.Rand
	// Scale multiplies every pacing delay; 0 makes the show instant.
	Scale float64
	Now   func() time.Time
	// Probe reports the host hardware shown by the BIOS stage.
	Probe func() Hardware
}

func (e Env) withDefaults() Env {
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Probe == nil {
		e.Probe = ProbeHardware
	}
	return e
}

const barWidth = 30

var (
	cyan    = lipgloss.Color("14")
	blue    = lipgloss.Color("12")
	green   = lipgloss.Color("10")
	yellow  = lipgloss.Color("11")
	red     = lipgloss.Color("9")
	magenta = lipgloss.Color("13")
	white   = lipgloss.Color("15")
)

// runner carries one Run call's console, rng and check.
type runner struct {
	env   Env
	c     *ui.Console
	th    ui.Theme
	rng   *rand.Rand
	check interrupt.Check
}

func (e Env) runner(check interrupt.Check) *runner {
	return &runner{env: e, c: e.Console, th: e.Console.Theme, rng: e.RNG, check: check}
}

// poll reports a terminal failure first, then an interrupt.
func (r *runner) poll() error {
	if err := r.c.Err(); err != nil {
		return err
	}
	return r.check.Err()
}

func (r *runner) sleep(ms int) error {
	if err := r.c.Err(); err != nil {
		return err
	}
	return interrupt.Sleep(interrupt.Scale(ms, r.env.Scale), r.check)
}

func (r *runner) between(rg config.Range) error {
	return r.sleep(rg.Pick(r.rng))
}

func (r *runner) spin(text string, ms int) error {
	if err := r.poll(); err != nil {
		return err
	}
	return ui.NewSpinner(r.c, r.th).Animate(text, interrupt.Scale(ms, r.env.Scale), r.check)
}

func (r *runner) bar(label string, ms int) error {
	if err := r.poll(); err != nil {
		return err
	}
	return r.newBar().Animate(label, interrupt.Scale(ms, r.env.Scale), r.check)
}

func (r *runner) newBar() *ui.ProgressBar {
	return ui.NewProgressBar(r.c, r.th, barWidth)
}

func (r *runner) header(name string, c lipgloss.Color) {
	r.c.Blank()
	r.c.Line(r.th.Strong(c), "> "+name)
	r.c.Blank()
}

func (r *runner) stamp() string {
	return r.th.Muted.Render(loggen.Timestamp(r.env.Now()))
}

// log prints a timestamped line.
func (r *runner) log(format string, a ...any) {
	r.c.Printf("%s %s\n", r.stamp(), fmt.Sprintf(format, a...))
}

// logAs prints text after a timestamp painted in c, the way errors and
// warnings stand out in the stage logs.
func (r *runner) logAs(c lipgloss.Color, text string) {
	r.c.Printf("%s %s\n", r.paint(c, loggen.Timestamp(r.env.Now())), text)
}

func (r *runner) muted(text string) string { return r.th.Muted.Render(text) }

func (r *runner) paint(c lipgloss.Color, text string) string { return r.th.Accent(c).Render(text) }

// tree picks the branch glyph for item i of n.
func tree(i, n int) string {
	if i == n-1 {
		return "└─"
	}
	return "├─"
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func chance(rng *rand.Rand, p float64) bool {
	return p > 0 && rng.Float64() < p
}

// Names lists every stage in its default order.
func Names() []string {
	return []string{"bios", "boot", "bootloader", "ai", "cloud", "container", "xorg"}
}

// Build returns the named stages in the order given, or every stage when
// names is empty.
func Build(names []string, sim config.Simulation, env Env) ([]Stage, error) {
	if env.Console == nil || env.RNG == nil {
		return nil, fmt.Errorf("build stages: console and rng are required")
	}
	env = env.withDefaults()
	if len(names) == 0 {
		names = Names()
	}
	out := make([]Stage, 0, len(names))
	for _, name := range names {
		var s Stage
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "bios":
			s = &biosStage{env: env, cfg: sim.BIOS}
		case "boot":
			s = &bootStage{env: env, cfg: sim.Boot}
		case "bootloader":
			s = &bootloaderStage{env: env, cfg: sim.Bootloader}
		case "ai":
			s = &aiStage{env: env, cfg: sim.AI}
		case "cloud":
			s = &cloudStage{env: env, cfg: sim.Cloud}
		case "container":
			s = &containerStage{env: env, cfg: sim.Container}
		case "xorg":
			s = &xorgStage{env: env, cfg: sim.Xorg}
		default:
			return nil, fmt.Errorf("unknown stage %q (want one of %s)", name, strings.Join(Names(), ", "))
		}
		out = append(out, s)
	}
	return out, nil
}
