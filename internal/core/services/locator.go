package services

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
	"github.com/custodia-labs/autoscore/internal/core/ports/driving"
	"github.com/custodia-labs/autoscore/internal/logger"
)

// Ensure Locator implements the interface.
var _ driving.LocatorService = (*Locator)(nil)

// Locator finds files that a student may have misnamed or misplaced.
// It holds no per-call state and is safe for concurrent use.
type Locator struct {
	fs driven.FileSystem
}

// NewLocator creates a locator reading through fs.
func NewLocator(fs driven.FileSystem) *Locator {
	return &Locator{fs: fs}
}

// Locate looks for the file at expectedPath.
//
// An entry existing at exactly expectedPath yields a single candidate with
// distance 0. Otherwise every sibling of the expected file is scored, then the
// search climbs one directory at a time while the parent path still contains
// opts.BoundaryMarker. Candidates from all visited levels are ranked by
// distance; if the best one exceeds opts.Threshold the result collapses to the
// sentinel.
func (l *Locator) Locate(expectedPath string, opts domain.LocateOptions) (domain.SearchResult, error) {
	expectedPath = strings.TrimSpace(expectedPath)
	if expectedPath == "" {
		return nil, fmt.Errorf("locate: empty path: %w", domain.ErrInvalidInput)
	}
	if opts.Threshold < 0 {
		return nil, fmt.Errorf("locate: negative threshold %d: %w", opts.Threshold, domain.ErrInvalidInput)
	}
	opts = opts.WithDefaults()

	clean := filepath.Clean(expectedPath)
	name := filepath.Base(clean)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("locate %q: no file name: %w", expectedPath, domain.ErrInvalidInput)
	}
	dir := filepath.Dir(clean)

	if l.fs.Exists(clean) {
		logger.Debug("locate %q: exact match", clean)
		return domain.SearchResult{{Directory: dir, Name: name, Distance: 0}}, nil
	}

	var candidates []domain.Candidate
	for {
		candidates = l.scanLevel(dir, name, opts.MetaExtension, candidates)

		parent := filepath.Dir(dir)
		if parent == dir || !ShouldClimb(parent, opts.BoundaryMarker) {
			break
		}
		dir = parent
	}

	// Stable so ties keep scan order: nearer levels rank first.
	slices.SortStableFunc(candidates, func(a, b domain.Candidate) int {
		return a.Distance - b.Distance
	})

	if len(candidates) == 0 || candidates[0].Distance > opts.Threshold {
		logger.Debug("locate %q: nothing within %d (%d candidates)", clean, opts.Threshold, len(candidates))
		return domain.NotFoundResult(clean), nil
	}

	logger.Debug("locate %q: best %q at distance %d", clean, candidates[0].Name, candidates[0].Distance)
	return candidates, nil
}

// ShouldClimb reports whether the search may move up to parentPath.
//
// The test is substring containment on the parent's path string, so the
// directory named by the marker is itself scanned but its parent is not,
// unless that parent's path also contains the marker anywhere (a nested
// "Assets/.../Assets" layout, or a checkout under a directory such as
// "MyAssets"). Known oddity: this is not an exact directory-name comparison.
func ShouldClimb(parentPath, marker string) bool {
	return strings.Contains(parentPath, marker)
}

// scanLevel scores every entry of dir against name and returns acc with the
// new candidates appended. Unreadable directories contribute nothing.
func (l *Locator) scanLevel(dir, name, metaExt string, acc []domain.Candidate) []domain.Candidate {
	entries, err := l.fs.ListEntries(dir)
	if err != nil {
		logger.Debug("locate: skipping unreadable %q: %v", dir, err)
		return acc
	}

	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		if metaExt != "" && strings.HasSuffix(e.Name, metaExt) {
			continue
		}
		acc = append(acc, domain.Candidate{
			Directory: dir,
			Name:      e.Name,
			Distance:  EditDistance(name, e.Name),
		})
	}
	return acc
}

// Classify turns a Locate result into a rubric decision.
func (l *Locator) Classify(result domain.SearchResult, expectedPath string, threshold int) domain.Match {
	return Classify(result, expectedPath, threshold)
}

// Distance returns the edit distance between two names.
func (l *Locator) Distance(a, b string) int {
	return EditDistance(a, b)
}
