// Package domain defines the core business entities for autoscore.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Candidate: A directory entry scored during a fuzzy file search
//   - SearchResult: The ranked candidates returned by the locator
//   - Match: The caller-side decision derived from a SearchResult
//   - Report: The score and feedback produced for one submission
//   - AppSettings: Rubric and locator configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
