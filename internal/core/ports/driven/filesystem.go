package driven

import "github.com/custodia-labs/autoscore/internal/core/domain"

// FileSystem is the read-only view of a checked-out submission.
type FileSystem interface {
	// Exists reports whether anything exists at path.
	Exists(path string) bool

	// IsDir reports whether path is a directory.
	IsDir(path string) bool

	// IsFile reports whether path is a regular file.
	IsFile(path string) bool

	// Size returns the size in bytes of the file at path.
	Size(path string) (int64, error)

	// ListEntries returns the immediate children of dir, non-recursively.
	// Callers treat an error as an empty listing.
	ListEntries(dir string) ([]domain.Entry, error)

	// CountEntries returns the number of files and directories below root,
	// excluding root itself and hidden (dot-prefixed) entries.
	CountEntries(root string) int
}
