package filesink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	artifact, err := Write(context.Background(), domain.ExportFormatJSON, dir, "a.json", []byte("[]"), 0)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "a.json"), artifact.Location)
	assert.Equal(t, 2, artifact.Bytes)
	assert.Equal(t, domain.ExportFormatJSON, artifact.Format)
	assert.False(t, artifact.CreatedAt.IsZero())

	data, err := os.ReadFile(artifact.Location)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

func TestWrite_Overwrites(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := Write(ctx, domain.ExportFormatMarkdown, dir, "a.md", []byte("old"), 1)
	require.NoError(t, err)
	_, err = Write(ctx, domain.ExportFormatMarkdown, dir, "a.md", []byte("new"), 1)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWrite_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Write(ctx, domain.ExportFormatJSON, t.TempDir(), "a.json", nil, 0)

	assert.ErrorIs(t, err, context.Canceled)
}
