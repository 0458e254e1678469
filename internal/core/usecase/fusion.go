package usecase

import (
	"sort"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

type fusedCandidate struct {
	chunk   domain.RetrievedChunk
	score   float64
	arrival int
}

// fuseRankedLists merges any number of ranked lists with Reciprocal Rank
// Fusion: each appearance of an item at 0-indexed rank r contributes
// 1/(k+r+1) to its accumulated score, keyed by the item's text. Being
// rank-based, the fusion is insensitive to the raw score scales of the
// individual sources.
//
// Tie-breaking is explicit: equal fused scores order by first-seen position
// (earlier list first, then rank within that list).
func fuseRankedLists(lists [][]domain.RetrievedChunk, rrfK, topK int) []domain.RetrievedChunk {
	if rrfK <= 0 {
		rrfK = 60
	}

	acc := make(map[string]*fusedCandidate)
	arrival := 0
	for _, list := range lists {
		for rank, chunk := range list {
			candidate, ok := acc[chunk.Text]
			if !ok {
				candidate = &fusedCandidate{chunk: chunk, arrival: arrival}
				acc[chunk.Text] = candidate
				arrival++
			}
			candidate.chunk = preferAttributed(candidate.chunk, chunk)
			candidate.score += 1.0 / float64(rrfK+rank+1)
		}
	}

	out := make([]domain.RetrievedChunk, 0, len(acc))
	ordinals := make(map[string]int, len(acc))
	for text, c := range acc {
		chunk := c.chunk
		chunk.Score = c.score
		ordinals[text] = c.arrival
		out = append(out, chunk)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return ordinals[out[i].Text] < ordinals[out[j].Text]
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}

// preferAttributed keeps the copy that knows its chunk index, so fusion does
// not lose attribution when only one source carries it.
func preferAttributed(current, candidate domain.RetrievedChunk) domain.RetrievedChunk {
	if current.ChunkIndex < 0 && candidate.ChunkIndex >= 0 {
		candidate.Score = current.Score
		return candidate
	}
	return current
}
