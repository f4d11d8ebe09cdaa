// Package escalation decides what the installer says and when: the tier
// reached by a cycle, the template pools per voice, and placeholder
// interpolation against a scan.Snapshot.
package escalation

// Tier is the escalation level of displayed content. Tiers are ordered;
// a higher value is more intense.
type Tier int

const (
	Baseline Tier = iota
	Ambient
	Familiar
	Invasive
	Cosmic
)

// Tiers lists every tier in escalation order.
var Tiers = []Tier{Baseline, Ambient, Familiar, Invasive, Cosmic}

// TierFor maps a cycle number to its tier. Cycles below 1 are treated as 1.
func TierFor(cycle int) Tier {
	switch {
	case cycle <= 1:
		return Baseline
	case cycle <= 3:
		return Ambient
	case cycle <= 5:
		return Familiar
	case cycle <= 8:
		return Invasive
	default:
		return Cosmic
	}
}

// Probability is the chance that an optional message is shown during one
// stage turn at this tier.
func (t Tier) Probability() float64 {
	switch t {
	case Ambient:
		return 0.20
	case Familiar:
		return 0.25
	case Invasive:
		return 0.30
	case Cosmic:
		return 0.35
	default:
		return 0.15
	}
}

func (t Tier) String() string {
	switch t {
	case Baseline:
		return "baseline"
	case Ambient:
		return "ambient"
	case Familiar:
		return "familiar"
	case Invasive:
		return "invasive"
	case Cosmic:
		return "cosmic"
	default:
		return "unknown"
	}
}
