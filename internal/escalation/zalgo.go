package escalation

import (
	"math/rand/v2"
	"strings"
	"unicode"
)

const zalgoRate = 0.35

var zalgoMarks = []rune{
	'\u0335', '\u0336', '\u0337', '\u0338',
	'\u0339', '\u033a', '\u0346', '\u034e',
}

// Zalgo appends a combining mark after roughly a third of the non-space
// runes of text. The result stays readable.
func Zalgo(text string, rng *rand.Rand) string {
	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, r := range text {
		b.WriteRune(r)
		if !unicode.IsSpace(r) && rng.Float64() < zalgoRate {
			b.WriteRune(zalgoMarks[rng.IntN(len(zalgoMarks))])
		}
	}
	return b.String()
}
