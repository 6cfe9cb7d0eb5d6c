package agent

import (
	"math/rand"
	"strings"
	"unicode"
)

// unstableTransform applies the per-character distortion used in
// unstable mode. Each alphabetic rune is independently repeated 1-3
// times (weighted toward 1) and flipped to upper case 80% of the time;
// non-alphabetic runes pass through unchanged.
func unstableTransform(text string) string {
	var b strings.Builder
	b.Grow(len(text) * 2)

	for _, r := range text {
		if !unicode.IsLetter(r) {
			b.WriteRune(r)
			continue
		}

		repeat := repeatWeights[rand.Intn(len(repeatWeights))]
		if rand.Float64() < 0.8 {
			r = unicode.ToUpper(r)
		} else {
			r = unicode.ToLower(r)
		}
		for i := 0; i < repeat; i++ {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// repeatWeights encodes the 1-1-2-3-3 repeat distribution.
var repeatWeights = []int{1, 1, 2, 3, 3}
