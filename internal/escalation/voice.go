package escalation

import (
	"fmt"
	"slices"
	"strings"
)

// Voice selects one of the parallel content sets. It is fixed for a run.
type Voice string

const (
	Opsec  Voice = "opsec"
	Occult Voice = "occult"
)

// Class is the kind of message a template produces.
type Class int

const (
	EasterEgg Class = iota
	Warning
	Completion
	CycleHeader
	ExitMessage
)

func (c Class) String() string {
	switch c {
	case EasterEgg:
		return "easter-egg"
	case Warning:
		return "warning"
	case Completion:
		return "completion"
	case CycleHeader:
		return "cycle-header"
	case ExitMessage:
		return "exit"
	default:
		return "unknown"
	}
}

// Voices returns the registered voices in a stable order.
func Voices() []Voice {
	out := make([]Voice, 0, len(catalog))
	for v := range catalog {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// ParseVoice accepts a voice name case-insensitively.
func ParseVoice(name string) (Voice, error) {
	v := Voice(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := catalog[v]; !ok {
		return "", fmt.Errorf("unknown voice %q (want one of %v)", name, Voices())
	}
	return v, nil
}
