package usecase

import "github.com/obrusnev/docqa-assistant/internal/core/domain"

// baseAssignment is the non-ranked mapping from query type to a single
// granularity and a group cap, used when no ranked results are available.
func baseAssignment(qt domain.QueryType) (domain.Granularity, int) {
	switch qt {
	case domain.QueryOverview:
		return domain.GranularitySummary, 10
	case domain.QueryExtraction:
		return domain.GranularityFull, 3
	case domain.QueryAnalytical:
		return domain.GranularityDigest, 5
	default:
		return domain.GranularityDigest, 5
	}
}

// assignByRank mixes granularities by relevance position: the top group gets
// full text, the next two get the digest, everything after gets the summary.
// Every ranked group receives exactly one assignment; trimming is the budget
// fitter's job.
func assignByRank(ranked []domain.RankedGroup) []domain.GranularityAssignment {
	out := make([]domain.GranularityAssignment, 0, len(ranked))
	for rank, rg := range ranked {
		var gr domain.Granularity
		switch {
		case rank == 0:
			gr = domain.GranularityFull
		case rank <= 2:
			gr = domain.GranularityDigest
		default:
			gr = domain.GranularitySummary
		}
		out = append(out, domain.GranularityAssignment{
			GroupIndex:  rg.GroupIndex,
			Granularity: gr,
		})
	}
	return out
}
