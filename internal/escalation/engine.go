package escalation

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"neverinstall/internal/scan"
)

// Engine selects personalised messages for one run. It holds the snapshot
// and voice fixed; the tier is passed per call.
type Engine struct {
	snap  *scan.Snapshot
	voice Voice
	rng   *rand.Rand
}

// New returns an Engine reading snap. An unknown voice yields an engine whose
// pools are all empty.
func New(snap *scan.Snapshot, voice Voice, rng *rand.Rand) *Engine {
	if snap == nil {
		snap = &scan.Snapshot{}
	}
	return &Engine{snap: snap, voice: voice, rng: rng}
}

// Voice reports the content set this engine draws from.
func (e *Engine) Voice() Voice { return e.voice }

// EasterEgg returns an observation for tier t.
func (e *Engine) EasterEgg(t Tier) (string, bool) {
	return e.perCycle(t, EasterEgg)
}

// Warning returns a warning line for tier t.
func (e *Engine) Warning(t Tier) (string, bool) {
	return e.perCycle(t, Warning)
}

// Completion returns an end-of-cycle line for tier t.
func (e *Engine) Completion(t Tier) (string, bool) {
	return e.perCycle(t, Completion)
}

// CycleHeader replaces the plain cycle banner. Only Cosmic has one.
func (e *Engine) CycleHeader(t Tier, cycle int) (string, bool) {
	if t != Cosmic {
		return "", false
	}
	msg, ok := e.PickAndInterpolate(Pool(e.voice, Cosmic, CycleHeader))
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(msg, cycleMarker, strconv.Itoa(cycle)), true
}

// ExitMessage returns a closing line when the run ends at Cosmic. Any other
// tier gets nothing.
func (e *Engine) ExitMessage(t Tier) (string, bool) {
	if t != Cosmic {
		return "", false
	}
	return e.PickAndInterpolate(Pool(e.voice, Cosmic, ExitMessage))
}

func (e *Engine) perCycle(t Tier, c Class) (string, bool) {
	if t == Baseline {
		return "", false
	}
	return e.PickAndInterpolate(Pool(e.voice, t, c))
}

// PickAndInterpolate tries the templates of pool in a random order and
// returns the first one that fully resolves against the snapshot.
func (e *Engine) PickAndInterpolate(pool []string) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	for _, idx := range e.rng.Perm(len(pool)) {
		if msg, ok := Interpolate(pool[idx], e.snap, e.rng); ok {
			return msg, true
		}
	}
	return "", false
}
