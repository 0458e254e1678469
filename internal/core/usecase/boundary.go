package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

var (
	numberedHeadingRe = regexp.MustCompile(`^\d+(\.\d+)*[.)]?\s+\S`)
	markdownHeadingRe = regexp.MustCompile(`^#{1,6}\s`)
)

// hasHardBoundary reports whether a group split is forced between two
// adjacent chunks, regardless of accumulated size: a page change, or the next
// chunk opening with a heading, a table row or a fenced code block.
func hasHardBoundary(prev, next domain.Chunk) bool {
	if next.Page != prev.Page {
		return true
	}
	line := firstLine(next.Text)
	return isHeadingLine(line) || opensTableRow(line) || opensCodeFence(line)
}

func firstLine(text string) string {
	text = strings.TrimLeft(text, "\n\r ")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

func isHeadingLine(line string) bool {
	if line == "" {
		return false
	}
	if numberedHeadingRe.MatchString(line) || markdownHeadingRe.MatchString(line) {
		return true
	}
	return isAllUppercase(line)
}

// isAllUppercase matches lines like "INTRODUCTION" or "RISK FACTORS":
// at least two letters, all uppercase, nothing but letters and spaces.
func isAllUppercase(line string) bool {
	letters := 0
	for _, r := range line {
		switch {
		case unicode.IsUpper(r):
			letters++
		case r == ' ':
		default:
			return false
		}
	}
	return letters >= 2
}

func opensTableRow(line string) bool {
	return strings.Count(line, "|") >= 2
}

func opensCodeFence(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}
