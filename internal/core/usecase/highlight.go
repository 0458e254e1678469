package usecase

import (
	"sort"
	"strings"
	"unicode"
)

const (
	defaultHighlightChars = 200
	// How far back from the densest window start to look for a sentence
	// boundary to snap to, in runes.
	sentenceLookback = 80
)

var sentenceBoundaries = map[rune]bool{
	'.': true, '!': true, '?': true, '\n': true,
	'。': true, '！': true, '？': true,
}

// buildHighlight extracts the window of text densest in query-term
// occurrences, snapped to the nearest preceding sentence boundary. When no
// query term occurs in the text it falls back to the leading maxChars runes.
func buildHighlight(query, text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = defaultHighlightChars
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return strings.TrimSpace(text)
	}

	offsets := termOffsets(runes, highlightTerms(query))
	if len(offsets) == 0 {
		return strings.TrimSpace(string(runes[:maxChars]))
	}

	// Slide a maxChars window across the occurrence offsets; the window
	// covering the most occurrences wins.
	bestStart, bestCount := offsets[0], 0
	for i := range offsets {
		count := 0
		limit := offsets[i] + maxChars
		for j := i; j < len(offsets) && offsets[j] < limit; j++ {
			count++
		}
		if count > bestCount {
			bestCount = count
			bestStart = offsets[i]
		}
	}

	start := snapToSentenceStart(runes, bestStart)
	end := start + maxChars
	if end > len(runes) {
		end = len(runes)
	}
	return strings.TrimSpace(string(runes[start:end]))
}

// highlightTerms splits the query on whitespace/punctuation into lowercase
// terms of at least two runes.
func highlightTerms(query string) [][]rune {
	var terms [][]rune
	var current []rune
	flush := func() {
		if len(current) >= 2 {
			terms = append(terms, current)
		}
		current = nil
	}
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current = append(current, unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return terms
}

// termOffsets returns the sorted rune offsets of every term occurrence,
// case-insensitive.
func termOffsets(runes []rune, terms [][]rune) []int {
	if len(terms) == 0 {
		return nil
	}
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	var offsets []int
	for _, term := range terms {
		for i := 0; i+len(term) <= len(lower); i++ {
			if runesEqual(lower[i:i+len(term)], term) {
				offsets = append(offsets, i)
			}
		}
	}
	sort.Ints(offsets)
	return offsets
}

func runesEqual(a, b []rune) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// snapToSentenceStart moves start back to just after the nearest sentence
// boundary within the lookback distance, skipping leading spaces.
func snapToSentenceStart(runes []rune, start int) int {
	low := start - sentenceLookback
	if low < 0 {
		low = 0
	}
	for i := start - 1; i >= low; i-- {
		if sentenceBoundaries[runes[i]] {
			j := i + 1
			for j < start && unicode.IsSpace(runes[j]) {
				j++
			}
			return j
		}
	}
	return start
}
