package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath converts a file:// URI or a "~/" path to a local path.
// Bare paths pass through unchanged.
func ResolvePath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return strings.TrimPrefix(uri, "file://")
	}
	if uri == "~" || strings.HasPrefix(uri, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(uri, "~"))
		}
	}
	return uri
}
