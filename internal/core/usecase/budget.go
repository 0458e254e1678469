package usecase

import "github.com/obrusnev/docqa-assistant/internal/core/domain"

// downgradePath lists the granularities to try for an assignment, starting
// at the assigned level. Granularity is only ever downgraded here; an
// assignment never gets a richer representation than it started with.
func downgradePath(gr domain.Granularity) []domain.Granularity {
	switch gr {
	case domain.GranularityFull:
		return []domain.Granularity{domain.GranularityFull, domain.GranularityDigest, domain.GranularitySummary}
	case domain.GranularityDigest:
		return []domain.Granularity{domain.GranularityDigest, domain.GranularitySummary}
	default:
		return []domain.Granularity{domain.GranularitySummary}
	}
}

// fitToBudget walks assignments in order and charges each group's chosen
// representation against the remaining token budget, downgrading until it
// fits. The first group that does not fit even as a summary ends processing:
// it and every later group are dropped. The returned assignments' summed
// estimates never exceed budget.
func fitToBudget(groups []domain.SemanticGroup, assigns []domain.GranularityAssignment, budget int) []domain.GranularityAssignment {
	if budget <= 0 {
		return nil
	}

	out := make([]domain.GranularityAssignment, 0, len(assigns))
	remaining := budget

	for _, a := range assigns {
		if a.GroupIndex < 0 || a.GroupIndex >= len(groups) {
			continue
		}
		group := &groups[a.GroupIndex]

		placed := false
		for _, gr := range downgradePath(a.Granularity) {
			cost := estimateTokens(group.Representation(gr))
			if cost > remaining {
				continue
			}
			out = append(out, domain.GranularityAssignment{
				GroupIndex:      a.GroupIndex,
				Granularity:     gr,
				EstimatedTokens: cost,
			})
			remaining -= cost
			placed = true
			break
		}
		if !placed {
			break
		}
	}
	return out
}
