package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/autoscore/internal/core/domain"
	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
)

// Ensure FS implements the interface.
var _ driven.FileSystem = (*FS)(nil)

// FS reads the local filesystem.
type FS struct{}

// New creates a local filesystem adapter.
func New() *FS {
	return &FS{}
}

// Exists reports whether anything exists at path.
func (*FS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is a directory.
func (*FS) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path is a regular file.
func (*FS) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Size returns the size in bytes of the file at path.
func (*FS) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ListEntries returns the immediate children of dir.
func (*FS) ListEntries(dir string) ([]domain.Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, domain.Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return entries, nil
}

// CountEntries counts files and directories below root. Hidden entries
// (dot-prefixed, including .git and .gitignore) are not counted and hidden
// directories are not descended. Unreadable subtrees are skipped.
func (*FS) CountEntries(root string) int {
	root = filepath.Clean(root)
	count := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		count++
		return nil
	})
	return count
}
