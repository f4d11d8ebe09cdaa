// Package installer drives the never-ending installation: cycles of stages
// interleaved with easter eggs, warnings and retry notices whose tone
// escalates with the cycle count.
package installer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"neverinstall/internal/escalation"
	"neverinstall/internal/interrupt"
	"neverinstall/internal/logging"
	"neverinstall/internal/stages"
	"neverinstall/internal/ui"
)

const (
	bannerWidth   = 65
	farewellWidth = 39
	retryChance   = 0.1
	retryMirror   = "Reconnecting to mirror.oldsoft.org"
	bannerTitle   = "         UNIVERSAL SYSTEM INSTALLER v3.2.1 (Build 1999)"
	restartNotice = "Installation complete! Restarting installation process..."
)

// Options configures an Installer.
type Options struct {
	Console *ui.Console
	// Engine supplies personalised lines. Nil keeps every message neutral.
	Engine *escalation.Engine
	RNG    *rand.Rand
	Stages []stages.Stage
	// Shuffle randomises the stage order once, before the first cycle.
	Shuffle bool
	Scale   float64
	Logger  *logging.Logger

	// maxCycles ends Run with a nil error after that many cycles; 0 never does.
	maxCycles int
	// startCycle begins counting at a later cycle.
	startCycle int
}

type Installer struct {
	opts  Options
	c     *ui.Console
	th    ui.Theme
	rng   *rand.Rand
	log   *logging.Logger
	cycle int
	tier  escalation.Tier
}

func New(opts Options) (*Installer, error) {
	if opts.Console == nil {
		return nil, errors.New("installer: console is required")
	}
	if opts.RNG == nil {
		return nil, errors.New("installer: rng is required")
	}
	if len(opts.Stages) == 0 {
		return nil, errors.New("installer: no stages selected")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	opts.Stages = append([]stages.Stage(nil), opts.Stages...)
	if opts.Shuffle {
		opts.RNG.Shuffle(len(opts.Stages), func(i, j int) {
			opts.Stages[i], opts.Stages[j] = opts.Stages[j], opts.Stages[i]
		})
	}
	return &Installer{
		opts: opts,
		c:    opts.Console,
		th:   opts.Console.Theme,
		rng:  opts.RNG,
		log:  opts.Logger,
		tier: escalation.Baseline,
	}, nil
}

// Cycle returns the cycle in progress, 0 before Run starts.
func (in *Installer) Cycle() int { return in.cycle }

// Tier returns the tier of the cycle in progress.
func (in *Installer) Tier() escalation.Tier { return in.tier }

// StageNames returns the stage order used for every cycle.
func (in *Installer) StageNames() []string {
	names := make([]string, len(in.opts.Stages))
	for i, s := range in.opts.Stages {
		names[i] = s.Name()
	}
	return names
}

// Run plays the installation until check fires, returning
// interrupt.ErrInterrupted, or until a stage or the terminal fails.
func (in *Installer) Run(check interrupt.Check) error {
	if err := in.intro(check); err != nil {
		return err
	}

	first := max(in.opts.startCycle, 1)
	for n := 0; in.opts.maxCycles == 0 || n < in.opts.maxCycles; n++ {
		in.cycle = first + n
		tier := escalation.TierFor(in.cycle)
		if tier != in.tier {
			in.log.Info("tier changed", "from", in.tier.String(), "to", tier.String(), "cycle", in.cycle)
		}
		in.tier = tier
		in.log.Debug("cycle started", "cycle", in.cycle, "tier", tier.String())

		if in.cycle > 1 {
			if err := in.cycleHeader(check); err != nil {
				return err
			}
		}
		for _, stage := range in.opts.Stages {
			if err := in.turn(stage, check); err != nil {
				return err
			}
		}
		if err := in.completion(check); err != nil {
			return err
		}
	}
	return nil
}

func (in *Installer) intro(check interrupt.Check) error {
	in.c.Boxed("=", in.th.HeaderRule, in.th.Title, bannerWidth, bannerTitle)
	in.c.Blank()
	if err := in.sleep(1500, check); err != nil {
		return err
	}
	in.c.Line(in.th.Info, "Initializing installation environment...")
	if err := in.sleep(1000, check); err != nil {
		return err
	}
	if err := in.spin("Detecting hardware configuration...", 1500, check); err != nil {
		return err
	}
	in.c.Blank()
	return in.c.Err()
}

// turn runs one stage with its three independent rolls in front of it.
func (in *Installer) turn(stage stages.Stage, check interrupt.Check) error {
	if err := in.poll(check); err != nil {
		return err
	}
	if in.roll(in.tier.Probability()) {
		if err := in.easterEgg(check); err != nil {
			return err
		}
	}
	if in.roll(in.tier.Probability()) {
		if err := in.warning(check); err != nil {
			return err
		}
	}
	if in.roll(retryChance) {
		if err := in.retry(check); err != nil {
			return err
		}
	}

	in.log.Debug("stage started", "stage", stage.Name(), "cycle", in.cycle)
	if err := stage.Run(check); err != nil {
		if errors.Is(err, interrupt.ErrInterrupted) {
			return err
		}
		return fmt.Errorf("stage %s: %w", stage.Name(), err)
	}
	in.log.Debug("stage finished", "stage", stage.Name(), "cycle", in.cycle)
	return in.sleep(300+in.rng.IntN(500), check)
}

// personal asks the engine for a line at the current tier and distorts it at
// Cosmic. It reports false at Baseline, without an engine, or when the pool
// has nothing that resolves.
func (in *Installer) personal(pickLine func(*escalation.Engine, escalation.Tier) (string, bool)) (string, bool) {
	if in.opts.Engine == nil || in.tier == escalation.Baseline {
		return "", false
	}
	msg, ok := pickLine(in.opts.Engine, in.tier)
	if !ok {
		return "", false
	}
	if in.tier == escalation.Cosmic {
		msg = escalation.Zalgo(msg, in.rng)
	}
	return msg, true
}

func (in *Installer) easterEgg(check interrupt.Check) error {
	in.c.Blank()
	text := pickFrom(in.rng, EasterEggs)
	if msg, ok := in.personal((*escalation.Engine).EasterEgg); ok {
		text = in.th.Tier(in.tier).Render(msg)
	}
	if err := in.spin(text, 1500, check); err != nil {
		return err
	}
	in.c.Blank()
	return in.c.Err()
}

func (in *Installer) warning(check interrupt.Check) error {
	in.c.Blank()
	msg, personal := in.personal((*escalation.Engine).Warning)
	if personal {
		in.c.Line(in.th.Tier(in.tier), msg)
	} else {
		in.c.Line(in.th.Warning, pickFrom(in.rng, Warnings))
	}
	if err := in.sleep(1000, check); err != nil {
		return err
	}
	if personal && in.tier == escalation.Cosmic {
		in.c.Line(in.th.CosmicRule.Faint(in.th.Color), "...")
	} else {
		in.c.Line(in.th.Muted, "Continuing anyway...")
	}
	in.c.Blank()
	return in.c.Err()
}

func (in *Installer) retry(check interrupt.Check) error {
	in.c.Blank()
	in.c.Line(in.th.Warning, pickFrom(in.rng, RetryMessages))
	if err := in.sleep(800, check); err != nil {
		return err
	}
	if err := in.spin(retryMirror, 1200, check); err != nil {
		return err
	}
	in.c.Blank()
	return in.c.Err()
}

func (in *Installer) cycleHeader(check interrupt.Check) error {
	in.c.Blank()
	header, ok := "", false
	if in.opts.Engine != nil && in.tier == escalation.Cosmic {
		header, ok = in.opts.Engine.CycleHeader(in.tier, in.cycle)
	}
	rule := strings.Repeat("═", 63)
	if ok {
		in.c.Line(in.th.CosmicRule, rule)
		in.c.Line(in.th.CosmicText, escalation.Zalgo(header, in.rng))
		in.c.Line(in.th.CosmicRule, rule)
	} else {
		in.c.Line(in.th.CycleRule, rule)
		in.c.Line(in.th.CycleTitle, fmt.Sprintf("Beginning installation cycle #%d...", in.cycle))
		in.c.Line(in.th.CycleRule, rule)
	}
	return in.sleep(1000, check)
}

func (in *Installer) completion(check interrupt.Check) error {
	in.c.Blank()
	if msg, ok := in.personal((*escalation.Engine).Completion); ok {
		in.c.Line(in.th.Tier(in.tier).Bold(in.th.Color), msg)
	} else {
		in.c.Line(in.th.Success, restartNotice)
	}
	in.log.Debug("cycle finished", "cycle", in.cycle)
	return in.sleep(2000, check)
}

func (in *Installer) roll(p float64) bool {
	return in.rng.Float64() < p
}

func (in *Installer) poll(check interrupt.Check) error {
	if err := in.c.Err(); err != nil {
		return err
	}
	return check.Err()
}

func (in *Installer) sleep(ms int, check interrupt.Check) error {
	if err := in.c.Err(); err != nil {
		return err
	}
	return interrupt.Sleep(interrupt.Scale(ms, in.opts.Scale), check)
}

func (in *Installer) spin(text string, ms int, check interrupt.Check) error {
	if err := in.poll(check); err != nil {
		return err
	}
	return ui.NewSpinner(in.c, in.th).Animate(text, interrupt.Scale(ms, in.opts.Scale), check)
}

func pickFrom(rng *rand.Rand, pool []string) string {
	return pool[rng.IntN(len(pool))]
}
