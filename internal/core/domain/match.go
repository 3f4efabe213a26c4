package domain

// MatchKind classifies a SearchResult for the rubric.
type MatchKind string

// Match kinds.
const (
	// MatchExact means the file is where it was expected.
	MatchExact MatchKind = "exact"

	// MatchMisplaced means a file with the exact name exists elsewhere in the searched region.
	MatchMisplaced MatchKind = "misplaced"

	// MatchSuggestion means only similarly named entries were found.
	MatchSuggestion MatchKind = "suggestion"

	// MatchNotFound means nothing plausible was found.
	MatchNotFound MatchKind = "not_found"
)

// String returns the string representation.
func (k MatchKind) String() string {
	return string(k)
}

// Match is the decision a caller takes from a SearchResult.
type Match struct {
	Kind MatchKind `json:"kind"`

	// Found is the accepted candidate for Exact and Misplaced matches.
	Found *Candidate `json:"found,omitempty"`

	// Suggestions lists near misses for MatchSuggestion.
	Suggestions []Candidate `json:"suggestions,omitempty"`
}

// Accepted reports whether the expected file counts as present.
func (m Match) Accepted() bool {
	return m.Kind == MatchExact || m.Kind == MatchMisplaced
}
