package usecase

import (
	"strings"
	"testing"
)

func TestBuildHighlightShortTextReturnedWhole(t *testing.T) {
	text := "A short passage about billing."
	if got := buildHighlight("billing", text, 200); got != text {
		t.Fatalf("expected whole text, got %q", got)
	}
}

func TestBuildHighlightPicksDensestWindow(t *testing.T) {
	filler := strings.Repeat("irrelevant filler words here. ", 20)
	dense := "The penalty clause states a penalty of 5% and a second penalty cap."
	text := filler + dense + " " + filler

	got := buildHighlight("penalty clause", text, 120)
	if !strings.Contains(got, "penalty") {
		t.Fatalf("expected highlight to contain a query term, got %q", got)
	}
	if strings.HasPrefix(got, "irrelevant") {
		t.Fatalf("expected window near term occurrences, got leading filler: %q", got)
	}
	if n := len([]rune(got)); n > 120 {
		t.Fatalf("highlight has %d runes, limit 120", n)
	}
}

func TestBuildHighlightSnapsToSentenceStart(t *testing.T) {
	text := strings.Repeat("padding sentence before. ", 10) +
		"Contract termination requires notice. " +
		strings.Repeat("trailing words after the match continue for a while. ", 10)

	got := buildHighlight("termination", text, 100)
	if !strings.HasPrefix(got, "Contract termination") {
		t.Fatalf("expected highlight snapped to sentence start, got %q", got)
	}
}

func TestBuildHighlightFallsBackToLeadingText(t *testing.T) {
	text := strings.Repeat("body content without the term. ", 30)
	got := buildHighlight("zzzznotfound", text, 50)
	if !strings.HasPrefix(text, got[:20]) {
		t.Fatalf("expected leading-text fallback, got %q", got)
	}
	if n := len([]rune(got)); n > 50 {
		t.Fatalf("fallback highlight has %d runes, limit 50", n)
	}
}

func TestBuildHighlightIgnoresSingleRuneTerms(t *testing.T) {
	text := strings.Repeat("a b c filler sentence here. ", 20)
	got := buildHighlight("a b", text, 40)
	// All terms too short: behaves like the no-match fallback.
	if !strings.HasPrefix(strings.TrimSpace(text), got[:10]) {
		t.Fatalf("expected fallback for single-rune terms, got %q", got)
	}
}

func TestHighlightTermsSplitsOnPunctuation(t *testing.T) {
	terms := highlightTerms("payment-terms, SLA?")
	want := []string{"payment", "terms", "sla"}
	if len(terms) != len(want) {
		t.Fatalf("expected %d terms, got %d", len(want), len(terms))
	}
	for i, w := range want {
		if string(terms[i]) != w {
			t.Errorf("term %d: expected %q, got %q", i, w, string(terms[i]))
		}
	}
}
