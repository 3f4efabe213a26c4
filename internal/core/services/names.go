package services

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/autoscore/internal/core/ports/driven"
)

// NameVariations returns the spellings of name that students commonly use
// for a folder: as given, lower case, upper case, and without separators.
func NameVariations(name string) []string {
	variations := []string{
		name,
		strings.ToLower(name),
		strings.ToUpper(name),
		strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name),
	}

	out := variations[:0]
	seen := make(map[string]bool, len(variations))
	for _, v := range variations {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// FindFolder returns the path of the first directory under parent whose name
// is a variation of name, or "" when none exists.
func FindFolder(fs driven.FileSystem, parent, name string) string {
	for _, n := range NameVariations(name) {
		path := filepath.Join(parent, n)
		if fs.IsDir(path) {
			return path
		}
	}
	return ""
}

// FindBranch returns the branch in branches that matches want exactly or in
// one of its separator variants ("lesson-1", "lesson1", "lesson_1").
// Returns "" when nothing matches.
func FindBranch(branches []string, want string) string {
	variations := []string{want}
	if name, num, ok := strings.Cut(want, "-"); ok {
		variations = append(variations, name+num, name+"_"+num)
	}

	for _, v := range variations {
		for _, b := range branches {
			if strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(b), "*")) == v {
				return v
			}
		}
	}
	return ""
}
