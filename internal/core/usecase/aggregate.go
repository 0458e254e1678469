package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

// aggregateChunks walks chunks in order and accumulates contiguous runs into
// group drafts. Before each chunk is added, the current group is closed if a
// hard boundary separates it from the previous chunk, if adding the chunk
// would push the accumulated character count past MaxChars, or if the count
// has already reached TargetChars. The trailing group is always flushed, so
// the drafts partition the chunk index space exactly.
//
// A trailing run smaller than MinChars merges back into the previous run
// when the split was size-driven rather than a hard boundary and the merged
// run stays within MaxChars.
func aggregateChunks(chunks []domain.Chunk, cfg domain.AggregationConfig) []domain.GroupDraft {
	cfg = normalizeAggregation(cfg)

	var runs [][]domain.Chunk
	var current []domain.Chunk
	accumulated := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		runs = append(runs, current)
		current = nil
		accumulated = 0
	}

	for _, c := range chunks {
		if len(current) > 0 {
			prev := current[len(current)-1]
			switch {
			case hasHardBoundary(prev, c):
				flush()
			case accumulated+utf8.RuneCountInString(c.Text) > cfg.MaxChars:
				flush()
			case accumulated >= cfg.TargetChars:
				flush()
			}
		}
		current = append(current, c)
		accumulated += utf8.RuneCountInString(c.Text)
	}
	flush()

	runs = mergeShortTail(runs, cfg)

	drafts := make([]domain.GroupDraft, 0, len(runs))
	for _, run := range runs {
		drafts = append(drafts, draftFrom(run, len(drafts)))
	}
	return drafts
}

func mergeShortTail(runs [][]domain.Chunk, cfg domain.AggregationConfig) [][]domain.Chunk {
	n := len(runs)
	if n < 2 {
		return runs
	}
	tail := runs[n-1]
	prev := runs[n-2]
	if runLen(tail) >= cfg.MinChars {
		return runs
	}
	if hasHardBoundary(prev[len(prev)-1], tail[0]) {
		return runs
	}
	if runLen(prev)+runLen(tail) > cfg.MaxChars {
		return runs
	}
	runs[n-2] = append(prev, tail...)
	return runs[:n-1]
}

func runLen(run []domain.Chunk) int {
	total := 0
	for _, c := range run {
		total += utf8.RuneCountInString(c.Text)
	}
	return total
}

func draftFrom(chunks []domain.Chunk, ordinal int) domain.GroupDraft {
	indices := make([]int, len(chunks))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		indices[i] = c.Index
		texts[i] = c.Text
	}
	return domain.GroupDraft{
		GroupID:      fmt.Sprintf("group-%d", ordinal),
		ChunkIndices: indices,
		FullText:     strings.Join(texts, "\n\n"),
		PageRange: domain.PageRange{
			Start: chunks[0].Page,
			End:   chunks[len(chunks)-1].Page,
		},
	}
}

func normalizeAggregation(cfg domain.AggregationConfig) domain.AggregationConfig {
	def := domain.DefaultAggregationConfig()
	if cfg.TargetChars <= 0 {
		cfg.TargetChars = def.TargetChars
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = def.MinChars
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = def.MaxChars
	}
	if cfg.MinChars > cfg.TargetChars {
		cfg.MinChars = cfg.TargetChars
	}
	if cfg.MaxChars < cfg.TargetChars {
		cfg.MaxChars = cfg.TargetChars
	}
	return cfg
}
