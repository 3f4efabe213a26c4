package driving

import "github.com/custodia-labs/autoscore/internal/core/domain"

// LocatorService finds expected files that may be misnamed or misplaced.
type LocatorService interface {
	// Locate searches outward from expectedPath for entries named like it.
	// Returns domain.ErrInvalidInput for an unusable path or options;
	// "not found" is the sentinel result, never an error.
	Locate(expectedPath string, opts domain.LocateOptions) (domain.SearchResult, error)

	// Classify turns a Locate result into a rubric decision.
	Classify(result domain.SearchResult, expectedPath string, threshold int) domain.Match

	// Distance returns the edit distance between two names.
	Distance(a, b string) int
}
