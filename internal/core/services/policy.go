package services

import (
	"path/filepath"

	"github.com/custodia-labs/autoscore/internal/core/domain"
)

// Classify turns a locator result into a rubric decision.
//
//   - sentinel: MatchNotFound
//   - distance 0 in the expected directory: MatchExact
//   - distance 0 elsewhere: MatchMisplaced
//   - 0 < distance <= threshold: MatchSuggestion, listing every near miss
func Classify(result domain.SearchResult, expectedPath string, threshold int) domain.Match {
	if result.IsNotFound() {
		return domain.Match{Kind: domain.MatchNotFound}
	}

	best := result.Best()
	if best.Distance == 0 {
		kind := domain.MatchMisplaced
		if filepath.Clean(best.Directory) == filepath.Dir(filepath.Clean(expectedPath)) {
			kind = domain.MatchExact
		}
		return domain.Match{Kind: kind, Found: &best}
	}

	if best.Distance <= threshold {
		return domain.Match{
			Kind:        domain.MatchSuggestion,
			Suggestions: result.Within(1, threshold),
		}
	}

	return domain.Match{Kind: domain.MatchNotFound}
}
