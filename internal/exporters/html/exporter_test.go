package html

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestExporter_Render(t *testing.T) {
	exp := New(t.TempDir())
	doc := domain.ExportDocument{
		Title: "Results & Discussion",
		Blocks: []domain.Block{
			{ID: "h", Type: domain.BlockTypeHeading, Content: "Method"},
			{ID: "t", Type: domain.BlockTypeText, Content: "We measured <things>."},
			{ID: "tbl", Type: domain.BlockTypeTable, Content: "| a | b |\n|---|---|\n| 1 | 2 |"},
		},
	}

	data, err := exp.Render(doc)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "<title>Results &amp; Discussion</title>")
	assert.Contains(t, out, "<h1>Results &amp; Discussion</h1>")
	assert.Contains(t, out, "<h2>Method</h2>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
	assert.NotContains(t, out, "<things>", "raw HTML in content is not passed through")
}

func TestExporter_RenderUsesDocumentIDWithoutTitle(t *testing.T) {
	data, err := New(t.TempDir()).Render(domain.ExportDocument{DocumentID: "/data/thesis"})
	require.NoError(t, err)

	assert.Contains(t, string(data), "<title>/data/thesis</title>")
}

func TestExporter_Export(t *testing.T) {
	exp := New(t.TempDir())

	artifact, err := exp.Export(context.Background(), domain.ExportDocument{
		Blocks: []domain.Block{{ID: "a", Type: domain.BlockTypeText, Content: "body"}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ExportFormatHTML, artifact.Format)
	data, err := os.ReadFile(artifact.Location)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<p>body</p>")
}
