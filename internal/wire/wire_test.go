package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

const extractedPage = `[
  {
    "self_ref": "#/texts/0",
    "type": "text",
    "content": "Introduction",
    "page": 1,
    "bbox": {"left": 72.0, "top": 720.5, "right": 300.0, "bottom": 700.0}
  },
  {
    "self_ref": "#/pictures/0",
    "type": "picture",
    "bbox": {"left": 72.0, "top": 650.0, "right": 500.0, "bottom": 400.0},
    "content": "data:image/png;base64,AAAA",
    "metadata": {"mimetype": "image/png", "size": {"width": 428, "height": 250}},
    "captions": ["Figure 1"]
  },
  {
    "self_ref": "#/tables/0",
    "type": "table",
    "content": "| a | b |\n|---|---|\n| 1 | 2 |",
    "page": 1
  }
]`

func TestDecode_ExtractorOutput(t *testing.T) {
	blocks, err := Decode(0, []byte(extractedPage))
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, "#/texts/0", blocks[0].ID)
	assert.Equal(t, domain.BlockTypeText, blocks[0].Type)
	require.NotNil(t, blocks[0].BoundingBox)
	assert.Equal(t, 720.5, blocks[0].BoundingBox.Top)

	// Picture blocks carry no page number; it is derived from the index
	assert.Equal(t, 1, blocks[1].Page)
	assert.True(t, blocks[1].IsInlineImage())
	assert.Equal(t, []string{"Figure 1"}, blocks[1].Captions)
	assert.Equal(t, "image/png", blocks[1].Metadata["mimetype"])

	assert.Nil(t, blocks[2].BoundingBox)
	assert.Equal(t, domain.BlockTypeTable, blocks[2].Type)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(3, []byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 3")
}

func TestToDomain_UniqueIDs(t *testing.T) {
	blocks := ToDomain(2, []Block{
		{SelfRef: "#/texts/5", Content: "a"},
		{SelfRef: "#/texts/5", Content: "b"},
		{SelfRef: "", Content: "c"},
		{SelfRef: "#/texts/5", Content: "d"},
	})

	ids := domain.BlockIDs(blocks)
	assert.Equal(t, []string{"#/texts/5", "#/texts/5_1", "#/pages/2/blocks/2", "#/texts/5_2"}, ids)
	assert.Equal(t, domain.BlockTypeText, blocks[2].Type)
	assert.Equal(t, 3, blocks[0].Page)
}

func TestEncode_KeepsWireNames(t *testing.T) {
	data, err := Encode([]domain.Block{{
		ID:          "#/texts/1",
		Type:        domain.BlockTypeSectionHeader,
		Content:     "Results",
		Page:        2,
		BoundingBox: &domain.BoundingBox{Left: 1, Top: 2, Right: 3, Bottom: 0},
	}})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"self_ref": "#/texts/1"`)
	assert.Contains(t, s, `"type": "section_header"`)
	assert.Contains(t, s, `"bbox"`)
	assert.NotContains(t, s, `"captions"`)
}

func TestEncodeDecode_PreservesBlocks(t *testing.T) {
	original := []domain.Block{
		{ID: "A", Type: "footnote", Content: "x", Page: 1, Metadata: map[string]any{"caption": "c"}},
		{ID: "B", Type: domain.BlockTypePicture, Content: "img.png", Page: 1, Captions: []string{"cap"}},
	}

	data, err := EncodeCompact(original)
	require.NoError(t, err)
	decoded, err := Decode(0, data)
	require.NoError(t, err)

	assert.Equal(t, original, decoded)
}
