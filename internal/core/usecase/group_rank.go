package usecase

import (
	"sort"
	"strings"

	"github.com/obrusnev/docqa-assistant/internal/core/domain"
)

// rankGroups projects fused chunk results onto the semantic groups that
// contain them and ranks the groups by accumulated fused score. Attribution
// is by exact chunk index where the hit carries one; otherwise the hit text
// is located by substring inside group full texts. Hits that match no group
// are discarded. Equal scores order by group ordinal.
func rankGroups(groups []domain.SemanticGroup, fused []domain.RetrievedChunk) []domain.RankedGroup {
	if len(groups) == 0 || len(fused) == 0 {
		return nil
	}

	chunkToGroup := make(map[int]int)
	for gi := range groups {
		for _, ci := range groups[gi].ChunkIndices {
			chunkToGroup[ci] = gi
		}
	}

	scores := make(map[int]float64)
	for _, hit := range fused {
		gi := -1
		if hit.ChunkIndex >= 0 {
			if mapped, ok := chunkToGroup[hit.ChunkIndex]; ok {
				gi = mapped
			}
		}
		if gi < 0 && hit.Text != "" {
			for j := range groups {
				if strings.Contains(groups[j].FullText, hit.Text) {
					gi = j
					break
				}
			}
		}
		if gi < 0 {
			continue
		}
		scores[gi] += hit.Score
	}

	out := make([]domain.RankedGroup, 0, len(scores))
	for gi, score := range scores {
		out = append(out, domain.RankedGroup{GroupIndex: gi, Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].GroupIndex < out[j].GroupIndex
	})
	return out
}
