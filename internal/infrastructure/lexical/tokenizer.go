package lexical

import (
	"strings"
	"unicode"
)

// Tokenize splits text into search terms, script-aware: runs of CJK
// ideographs produce overlapping unigrams, bigrams and trigrams; all other
// letter/digit runs produce whole lowercase words of length > 1.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	out := make([]string, 0, 32)
	var word strings.Builder
	var cjkRun []rune

	flushWord := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		word.Reset()
		if len([]rune(w)) > 1 {
			out = append(out, w)
		}
	}
	flushCJK := func() {
		if len(cjkRun) == 0 {
			return
		}
		out = append(out, cjkGrams(cjkRun)...)
		cjkRun = nil
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flushWord()
			cjkRun = append(cjkRun, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushCJK()
			word.WriteRune(unicode.ToLower(r))
		default:
			flushWord()
			flushCJK()
		}
	}
	flushWord()
	flushCJK()

	return out
}

// cjkGrams emits every unigram, bigram and trigram of the run.
func cjkGrams(run []rune) []string {
	grams := make([]string, 0, 3*len(run))
	for i := range run {
		grams = append(grams, string(run[i]))
		if i+2 <= len(run) {
			grams = append(grams, string(run[i:i+2]))
		}
		if i+3 <= len(run) {
			grams = append(grams, string(run[i:i+3]))
		}
	}
	return grams
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r)
}
