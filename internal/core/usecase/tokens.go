package usecase

import (
	"math"
	"unicode"
)

// Characters-per-token divisors. CJK ideographs pack fewer characters into a
// token than Latin text, so a CJK-heavy string always estimates higher than
// a Latin string of the same length.
const (
	cjkCharsPerToken   = 1.5
	otherCharsPerToken = 4.0
)

// estimateTokens is a language-aware token count estimate, rounded up.
func estimateTokens(s string) int {
	if s == "" {
		return 0
	}
	var cjk, other int
	for _, r := range s {
		if isCJKChar(r) {
			cjk++
		} else {
			other++
		}
	}
	return int(math.Ceil(float64(cjk)/cjkCharsPerToken + float64(other)/otherCharsPerToken))
}

func isCJKChar(r rune) bool {
	return unicode.Is(unicode.Han, r)
}
