package domain

import "path/filepath"

// NotFoundDistance is the sentinel distance carried by a SearchResult
// that found nothing within the threshold.
const NotFoundDistance = -1

// Locator defaults.
const (
	// DefaultBoundaryMarker bounds the upward climb to the Unity project's Assets tree.
	DefaultBoundaryMarker = "Assets"

	// DefaultThreshold is the largest edit distance treated as a plausible match.
	DefaultThreshold = 3

	// DefaultMetaExtension is the sidecar extension Unity writes next to every asset.
	DefaultMetaExtension = ".meta"
)

// Entry is one item returned by a directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// Candidate is a filesystem entry considered as a possible match
// for an expected file.
type Candidate struct {
	// Directory is the directory containing the entry.
	Directory string `json:"directory"`

	// Name is the entry's base name.
	Name string `json:"name"`

	// Distance is the edit distance to the expected name,
	// or NotFoundDistance for the sentinel.
	Distance int `json:"distance"`
}

// Path returns the full path of the candidate.
func (c Candidate) Path() string {
	return filepath.Join(c.Directory, c.Name)
}

// IsSentinel reports whether c is the "nothing promising" marker.
func (c Candidate) IsSentinel() bool {
	return c.Distance == NotFoundDistance
}

// SearchResult holds candidates sorted ascending by distance.
// It is never empty: absence is the singleton sentinel.
type SearchResult []Candidate

// NotFoundResult builds the singleton sentinel result for expectedPath.
func NotFoundResult(expectedPath string) SearchResult {
	return SearchResult{{
		Directory: filepath.Dir(expectedPath),
		Name:      filepath.Base(expectedPath),
		Distance:  NotFoundDistance,
	}}
}

// Best returns the top-ranked candidate.
func (r SearchResult) Best() Candidate {
	if len(r) == 0 {
		return Candidate{Distance: NotFoundDistance}
	}
	return r[0]
}

// IsNotFound reports whether r is the sentinel result.
func (r SearchResult) IsNotFound() bool {
	return len(r) == 0 || (len(r) == 1 && r[0].IsSentinel())
}

// Within returns the candidates whose distance lies in [lo, hi].
func (r SearchResult) Within(lo, hi int) []Candidate {
	var out []Candidate
	for _, c := range r {
		if c.Distance >= lo && c.Distance <= hi {
			out = append(out, c)
		}
	}
	return out
}

// LocateOptions configures a fuzzy file search.
type LocateOptions struct {
	// BoundaryMarker is the path substring that bounds the upward climb.
	// Empty means DefaultBoundaryMarker.
	BoundaryMarker string

	// Threshold is the largest distance accepted for the best candidate.
	Threshold int

	// MetaExtension names sidecar files excluded from candidates.
	// Empty means DefaultMetaExtension.
	MetaExtension string
}

// DefaultLocateOptions returns the options used by the grader.
func DefaultLocateOptions() LocateOptions {
	return LocateOptions{
		BoundaryMarker: DefaultBoundaryMarker,
		Threshold:      DefaultThreshold,
		MetaExtension:  DefaultMetaExtension,
	}
}

// WithDefaults fills empty fields with their defaults.
func (o LocateOptions) WithDefaults() LocateOptions {
	if o.BoundaryMarker == "" {
		o.BoundaryMarker = DefaultBoundaryMarker
	}
	if o.MetaExtension == "" {
		o.MetaExtension = DefaultMetaExtension
	}
	return o
}
