package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestRender(t *testing.T) {
	doc := domain.ExportDocument{
		Title: "Thesis",
		Blocks: []domain.Block{
			{ID: "h", Type: domain.BlockTypeSectionHeader, Content: "1 Introduction\n"},
			{ID: "t", Type: domain.BlockTypeText, Content: "  Some text.  "},
			{ID: "tbl", Type: domain.BlockTypeTable, Content: "| a | b |\n|---|---|\n| 1 | 2 |"},
			{ID: "p", Type: domain.BlockTypePicture, Content: "data:image/png;base64,AAAA",
				Metadata: map[string]any{"caption": "Figure [1]"}},
			{ID: "c", Type: domain.BlockTypeCaption, Content: "Source: survey"},
			{ID: "x", Type: "footnote", Content: "Unknown types are text."},
		},
	}

	want := "# Thesis\n\n" +
		"## 1 Introduction\n\n" +
		"Some text.\n\n" +
		"| a | b |\n|---|---|\n| 1 | 2 |\n\n" +
		"![Figure \\[1\\]](data:image/png;base64,AAAA)\n\n*Figure [1]*\n\n" +
		"*Source: survey*\n\n" +
		"Unknown types are text.\n"
	assert.Equal(t, want, Render(doc))
}

func TestRender_Pictures(t *testing.T) {
	tests := []struct {
		name  string
		block domain.Block
		want  string
	}{
		{"no caption", domain.Block{Type: domain.BlockTypePicture, Content: "fig.png"}, "![picture](fig.png)\n"},
		{"caption only", domain.Block{Type: domain.BlockTypePicture, Metadata: map[string]any{"caption": "A map"}}, "*A map*\n"},
		{"nothing", domain.Block{Type: domain.BlockTypePicture}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(domain.ExportDocument{Blocks: []domain.Block{tt.block}}))
		})
	}
}

func TestRender_SkipsEmptyBlocks(t *testing.T) {
	doc := domain.ExportDocument{Blocks: []domain.Block{
		{Type: domain.BlockTypeHeading, Content: "  "},
		{Type: domain.BlockTypeText, Content: "kept"},
		{Type: domain.BlockTypeText, Content: ""},
	}}

	assert.Equal(t, "kept\n", Render(doc))
	assert.Equal(t, "", Render(domain.ExportDocument{}))
}

func TestExporter_Export(t *testing.T) {
	dir := t.TempDir()
	exp := New(dir)

	artifact, err := exp.Export(context.Background(), domain.ExportDocument{
		Title:  "T",
		Blocks: []domain.Block{{ID: "a", Type: domain.BlockTypeText, Content: "body"}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ExportFormatMarkdown, exp.Format())
	assert.Equal(t, filepath.Join(dir, FileName), artifact.Location)
	data, err := os.ReadFile(artifact.Location)
	require.NoError(t, err)
	assert.Equal(t, "# T\n\nbody\n", string(data))
}
