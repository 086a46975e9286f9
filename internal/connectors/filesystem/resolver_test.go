package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"file URI", "file:///data/thesis", "/data/thesis"},
		{"file URI with spaces", "file:///data/my thesis", "/data/my thesis"},
		{"bare path", "/data/thesis", "/data/thesis"},
		{"relative path", "output", "output"},
		{"empty", "", ""},
		{"file prefix only", "file://", ""},
		{"home", "~", home},
		{"under home", "~/extractions/thesis", filepath.Join(home, "extractions", "thesis")},
		{"tilde inside name", "/data/~thesis", "/data/~thesis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.uri))
		})
	}
}
