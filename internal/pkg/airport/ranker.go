package airport

import (
	"sort"

	"github.com/bestravelplan/trip-planning-service/internal/app/dto"
)

// MaxResults caps how many candidates the typeahead shows.
const MaxResults = 8

// RankCandidates orders candidates for display: major airports first, then by
// popularity rank (lower is more popular), then name for a stable tie-break.
// The result is capped at limit when limit is positive.
func RankCandidates(candidates []dto.AirportCandidate, limit int) []dto.AirportCandidate {
	ranked := make([]dto.AirportCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].IsMajor != ranked[j].IsMajor {
			return ranked[i].IsMajor
		}

		if ranked[i].Popularity != ranked[j].Popularity {
			return ranked[i].Popularity < ranked[j].Popularity
		}

		return ranked[i].Name < ranked[j].Name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
