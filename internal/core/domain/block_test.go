package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockType_Kind(t *testing.T) {
	tests := []struct {
		name     string
		input    BlockType
		expected BlockType
	}{
		{"heading", BlockTypeHeading, BlockTypeHeading},
		{"section header aliases heading", BlockTypeSectionHeader, BlockTypeHeading},
		{"text", BlockTypeText, BlockTypeText},
		{"picture", BlockTypePicture, BlockTypePicture},
		{"table", BlockTypeTable, BlockTypeTable},
		{"caption", BlockTypeCaption, BlockTypeCaption},
		{"upper case", BlockType("TABLE"), BlockTypeTable},
		{"unknown falls back to text", BlockType("footnote"), BlockTypeText},
		{"empty falls back to text", BlockType(""), BlockTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Kind())
		})
	}
}

func TestBlockType_IsKnown(t *testing.T) {
	assert.True(t, BlockTypeSectionHeader.IsKnown())
	assert.True(t, BlockTypeCaption.IsKnown())
	assert.False(t, BlockType("list_item").IsKnown())
}

func TestBlockType_Label(t *testing.T) {
	assert.Equal(t, "section header", BlockTypeSectionHeader.Label())
	assert.Equal(t, "text", BlockType("").Label())
}

func TestBoundingBox_Dimensions(t *testing.T) {
	box := BoundingBox{Left: 10, Top: 700, Right: 110, Bottom: 650}
	assert.InDelta(t, 100.0, box.Width(), 1e-9)
	assert.InDelta(t, 50.0, box.Height(), 1e-9)
}

func TestBlock_Caption(t *testing.T) {
	b := Block{ID: "#/pictures/0", Type: BlockTypePicture}
	assert.Empty(t, b.Caption())

	b.Metadata = map[string]any{MetadataCaption: "Figure 1"}
	assert.Equal(t, "Figure 1", b.Caption())

	b.Metadata[MetadataCaption] = 42
	assert.Empty(t, b.Caption())
}

func TestBlock_IsInlineImage(t *testing.T) {
	b := Block{Content: "data:image/png;base64,AAAA"}
	assert.True(t, b.IsInlineImage())

	b.Content = "figures/fig1.png"
	assert.False(t, b.IsInlineImage())
}

func TestBlock_CloneIsDeep(t *testing.T) {
	original := Block{
		ID:          "#/texts/1",
		Type:        BlockTypeText,
		Content:     "hello",
		Metadata:    map[string]any{"size": map[string]any{"width": 10}, "tags": []any{"a"}},
		BoundingBox: &BoundingBox{Left: 1, Top: 2, Right: 3, Bottom: 1},
		Captions:    []string{"#/texts/2"},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Metadata["size"].(map[string]any)["width"] = 99
	clone.Metadata["tags"].([]any)[0] = "b"
	clone.BoundingBox.Left = 50
	clone.Captions[0] = "changed"

	assert.Equal(t, 10, original.Metadata["size"].(map[string]any)["width"])
	assert.Equal(t, "a", original.Metadata["tags"].([]any)[0])
	assert.InDelta(t, 1.0, original.BoundingBox.Left, 1e-9)
	assert.Equal(t, "#/texts/2", original.Captions[0])
}

func TestCloneBlocks(t *testing.T) {
	assert.Nil(t, CloneBlocks(nil))

	blocks := []Block{{ID: "a", Content: "1"}, {ID: "b", Content: "2"}}
	clone := CloneBlocks(blocks)
	clone[0].Content = "changed"

	assert.Equal(t, "1", blocks[0].Content)
	assert.Len(t, clone, 2)
}

func TestBlockIDsAndIndex(t *testing.T) {
	blocks := []Block{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Equal(t, []string{"a", "b", "c"}, BlockIDs(blocks))
	assert.Equal(t, 1, IndexOfBlock(blocks, "b"))
	assert.Equal(t, -1, IndexOfBlock(blocks, "z"))
	assert.Empty(t, BlockIDs(nil))
}
