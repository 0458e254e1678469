package grouping

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
	"github.com/obrusnev/docqa-assistant/internal/core/ports"
)

const (
	defaultPromptVersion = "v2"
	defaultTemperature   = 0.2
	minKeywords          = 4
	maxKeywords          = 6
)

// Config bounds the generation engine. Zero values fall back to defaults.
type Config struct {
	// PoolSize caps concurrent generation workers.
	PoolSize int
	// RequestsPerSecond throttles calls to the summary provider across all
	// workers. Zero disables throttling.
	RequestsPerSecond float64
	// PromptVersion is recorded in each group's generation metadata.
	PromptVersion string
	Temperature   float64
	// Observer receives per-batch generation counters. Nil disables reporting.
	Observer GroupObserver
}

// GroupObserver is notified after each generation batch.
type GroupObserver interface {
	ObserveGroups(generated, degraded int)
}

// Generator builds the three-granularity representations of aggregated
// group drafts. Each draft is processed independently: a provider failure
// degrades that group to truncated source text and marks it failed, without
// affecting its siblings.
type Generator struct {
	provider ports.SummaryProvider
	pool     *ants.Pool
	limiter  *rate.Limiter
	logger   *slog.Logger
	observer GroupObserver

	promptVersion string
	temperature   float64
}

func NewGenerator(provider ports.SummaryProvider, cfg Config, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	size := cfg.PoolSize
	if size < 1 {
		size = runtime.NumCPU()
		if size < 1 {
			size = 1
		}
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	promptVersion := cfg.PromptVersion
	if promptVersion == "" {
		promptVersion = defaultPromptVersion
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	return &Generator{
		provider:      provider,
		pool:          pool,
		limiter:       limiter,
		logger:        logger,
		observer:      cfg.Observer,
		promptVersion: promptVersion,
		temperature:   temperature,
	}, nil
}

// Release frees the worker pool. The generator must not be used afterwards.
func (g *Generator) Release() {
	if g.pool != nil {
		g.pool.Release()
	}
}

// Generate produces one semantic group per draft, in draft order. The call
// never fails: groups whose representations could not be generated carry
// truncated source text and a failed status instead.
func (g *Generator) Generate(ctx context.Context, drafts []domain.GroupDraft) []domain.SemanticGroup {
	groups := make([]domain.SemanticGroup, len(drafts))

	var wg sync.WaitGroup
	for i := range drafts {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			groups[i] = g.generateOne(ctx, drafts[i])
		}
		if err := g.pool.Submit(task); err != nil {
			// Pool released or overloaded: run inline rather than lose the group.
			task()
		}
	}
	wg.Wait()

	if g.observer != nil {
		degraded := 0
		for i := range groups {
			if groups[i].Status == domain.GroupStatusFailed {
				degraded++
			}
		}
		g.observer.ObserveGroups(len(groups), degraded)
	}

	return groups
}

func (g *Generator) generateOne(ctx context.Context, draft domain.GroupDraft) domain.SemanticGroup {
	group := domain.SemanticGroup{
		GroupID:      draft.GroupID,
		ChunkIndices: draft.ChunkIndices,
		FullText:     draft.FullText,
		PageRange:    draft.PageRange,
		Status:       domain.GroupStatusOK,
		Meta: domain.GenerationMeta{
			Model:         g.provider.ModelName(),
			Temperature:   g.temperature,
			PromptVersion: g.promptVersion,
			GeneratedAt:   time.Now().UTC(),
		},
	}

	summary, ok := g.representation(ctx, draft, domain.SummaryMaxChars)
	group.Summary = summary
	if !ok {
		group.Status = domain.GroupStatusFailed
	}

	digest, ok := g.representation(ctx, draft, domain.DigestMaxChars)
	group.Digest = digest
	if !ok {
		group.Status = domain.GroupStatusFailed
	}

	keywords, err := g.keywords(ctx, draft)
	if err != nil {
		g.logger.Warn("keyword extraction failed, continuing without keywords",
			"group_id", draft.GroupID, "error", err)
		keywords = nil
	}
	group.Keywords = keywords

	return group
}

// representation returns a representation of at most maxChars runes. When the
// source already fits there is nothing to condense and no provider call is
// made. On provider failure it falls back to hard truncation and reports
// degradation via the second return value.
func (g *Generator) representation(ctx context.Context, draft domain.GroupDraft, maxChars int) (string, bool) {
	text := strings.TrimSpace(draft.FullText)
	if runeLen(text) <= maxChars {
		return text, true
	}

	if err := g.wait(ctx); err != nil {
		return truncateRunes(text, maxChars), false
	}

	out, err := g.provider.Summarize(ctx, text, maxChars)
	if err != nil {
		g.logger.Warn("summarization failed, degrading to truncation",
			"group_id", draft.GroupID, "max_chars", maxChars, "error", err)
		return truncateRunes(text, maxChars), false
	}

	out = strings.TrimSpace(out)
	if out == "" {
		g.logger.Warn("summarization returned empty output, degrading to truncation",
			"group_id", draft.GroupID, "max_chars", maxChars)
		return truncateRunes(text, maxChars), false
	}

	return truncateRunes(out, maxChars), true
}

func (g *Generator) keywords(ctx context.Context, draft domain.GroupDraft) ([]string, error) {
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	terms, err := g.provider.Keywords(ctx, draft.FullText, maxKeywords)
	if err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, maxKeywords)
	seen := make(map[string]struct{}, maxKeywords)
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, t)
		if len(cleaned) == maxKeywords {
			break
		}
	}
	if len(cleaned) < minKeywords {
		return nil, nil
	}
	return cleaned, nil
}

func (g *Generator) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	return g.limiter.Wait(ctx)
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
