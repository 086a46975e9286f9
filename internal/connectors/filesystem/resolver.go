package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath converts a source.dir value into a local directory path.
// It accepts file:// URIs and a leading ~ for the home directory.
func ResolvePath(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
