package grouping

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

type fakeProvider struct {
	summarizeErr error
	keywordsErr  error
	keywords     []string
	calls        int
}

func (f *fakeProvider) Summarize(_ context.Context, text string, maxChars int) (string, error) {
	f.calls++
	if f.summarizeErr != nil {
		return "", f.summarizeErr
	}
	r := []rune("condensed: " + text)
	if len(r) > maxChars {
		r = r[:maxChars]
	}
	return string(r), nil
}

func (f *fakeProvider) Keywords(_ context.Context, _ string, _ int) ([]string, error) {
	if f.keywordsErr != nil {
		return nil, f.keywordsErr
	}
	return f.keywords, nil
}

func (f *fakeProvider) ModelName() string { return "fake-model" }

func newTestGenerator(t *testing.T, provider *fakeProvider) *Generator {
	t.Helper()
	gen, err := NewGenerator(provider, Config{PoolSize: 2}, nil)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	t.Cleanup(gen.Release)
	return gen
}

func draft(id, text string) domain.GroupDraft {
	return domain.GroupDraft{
		GroupID:      id,
		ChunkIndices: []int{0},
		FullText:     text,
		PageRange:    domain.PageRange{Start: 1, End: 1},
	}
}

func TestGeneratePreservesDraftOrder(t *testing.T) {
	provider := &fakeProvider{keywords: []string{"a", "b", "c", "d"}}
	gen := newTestGenerator(t, provider)

	drafts := []domain.GroupDraft{
		draft("group-0", strings.Repeat("alpha ", 300)),
		draft("group-1", strings.Repeat("beta ", 300)),
		draft("group-2", strings.Repeat("gamma ", 300)),
	}

	groups := gen.Generate(context.Background(), drafts)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	for i, g := range groups {
		if g.GroupID != drafts[i].GroupID {
			t.Errorf("group %d: expected id %q, got %q", i, drafts[i].GroupID, g.GroupID)
		}
		if g.Status != domain.GroupStatusOK {
			t.Errorf("group %d: expected status ok, got %q", i, g.Status)
		}
	}
}

func TestGenerateShortTextSkipsProvider(t *testing.T) {
	provider := &fakeProvider{keywordsErr: errors.New("unavailable")}
	gen := newTestGenerator(t, provider)

	groups := gen.Generate(context.Background(), []domain.GroupDraft{draft("group-0", "short note")})

	if provider.calls != 0 {
		t.Fatalf("expected no summarize calls for short text, got %d", provider.calls)
	}
	g := groups[0]
	if g.Summary != "short note" || g.Digest != "short note" {
		t.Fatalf("expected source text reused verbatim, got summary %q digest %q", g.Summary, g.Digest)
	}
	if g.Status != domain.GroupStatusOK {
		t.Fatalf("expected status ok, got %q", g.Status)
	}
}

func TestGenerateRespectsRepresentationCeilings(t *testing.T) {
	provider := &fakeProvider{keywords: []string{"one", "two", "three", "four", "five"}}
	gen := newTestGenerator(t, provider)

	groups := gen.Generate(context.Background(), []domain.GroupDraft{
		draft("group-0", strings.Repeat("term ", 1500)),
	})

	g := groups[0]
	if n := len([]rune(g.Summary)); n > domain.SummaryMaxChars {
		t.Errorf("summary has %d runes, ceiling is %d", n, domain.SummaryMaxChars)
	}
	if n := len([]rune(g.Digest)); n > domain.DigestMaxChars {
		t.Errorf("digest has %d runes, ceiling is %d", n, domain.DigestMaxChars)
	}
}

func TestGenerateProviderFailureDegradesGroup(t *testing.T) {
	provider := &fakeProvider{summarizeErr: errors.New("model offline"), keywords: []string{"a", "b", "c", "d"}}
	gen := newTestGenerator(t, provider)

	text := strings.Repeat("fail ", 1500)
	groups := gen.Generate(context.Background(), []domain.GroupDraft{draft("group-0", text)})

	g := groups[0]
	if g.Status != domain.GroupStatusFailed {
		t.Fatalf("expected failed status, got %q", g.Status)
	}
	wantSummary := string([]rune(strings.TrimSpace(text))[:domain.SummaryMaxChars])
	if g.Summary != wantSummary {
		t.Errorf("expected truncated summary fallback, got %q", g.Summary)
	}
	if !strings.HasPrefix(strings.TrimSpace(text), g.Digest[:10]) {
		t.Errorf("expected digest to be a prefix of the source text")
	}
}

func TestGenerateFailureIsolatedToOneGroup(t *testing.T) {
	failing := &fakeProvider{summarizeErr: errors.New("model offline"), keywords: []string{"a", "b", "c", "d"}}
	gen := newTestGenerator(t, failing)

	longText := strings.Repeat("word ", 1500)
	groups := gen.Generate(context.Background(), []domain.GroupDraft{
		draft("group-0", longText),
		draft("group-1", "tiny"),
	})

	if groups[0].Status != domain.GroupStatusFailed {
		t.Errorf("expected group-0 failed, got %q", groups[0].Status)
	}
	if groups[1].Status != domain.GroupStatusOK {
		t.Errorf("expected group-1 ok, got %q", groups[1].Status)
	}
}

func TestKeywordsDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
	}{
		{"provider error", &fakeProvider{keywordsErr: errors.New("timeout")}},
		{"too few terms", &fakeProvider{keywords: []string{"only", "three", "terms"}}},
		{"duplicates collapse below minimum", &fakeProvider{keywords: []string{"a", "A", "a", "b", "c"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newTestGenerator(t, tt.provider)
			groups := gen.Generate(context.Background(), []domain.GroupDraft{draft("group-0", "short")})
			if len(groups[0].Keywords) != 0 {
				t.Fatalf("expected no keywords, got %v", groups[0].Keywords)
			}
			if groups[0].Status != domain.GroupStatusOK {
				t.Fatalf("keyword degradation must not fail the group, got status %q", groups[0].Status)
			}
		})
	}
}

func TestKeywordsCappedAtMaximum(t *testing.T) {
	provider := &fakeProvider{keywords: []string{"a", "b", "c", "d", "e", "f", "g", "h"}}
	gen := newTestGenerator(t, provider)

	groups := gen.Generate(context.Background(), []domain.GroupDraft{draft("group-0", "short")})
	if got := len(groups[0].Keywords); got != maxKeywords {
		t.Fatalf("expected %d keywords, got %d", maxKeywords, got)
	}
}

func TestGenerateRecordsMetadata(t *testing.T) {
	provider := &fakeProvider{keywords: []string{"a", "b", "c", "d"}}
	gen := newTestGenerator(t, provider)

	groups := gen.Generate(context.Background(), []domain.GroupDraft{draft("group-0", "short")})
	meta := groups[0].Meta
	if meta.Model != "fake-model" {
		t.Errorf("expected model name recorded, got %q", meta.Model)
	}
	if meta.PromptVersion != defaultPromptVersion {
		t.Errorf("expected prompt version %q, got %q", defaultPromptVersion, meta.PromptVersion)
	}
	if meta.GeneratedAt.IsZero() {
		t.Error("expected generation timestamp recorded")
	}
}
