package domain

import "strings"

// BlockType identifies the kind of content a block carries.
// The set is open: extractors may emit values not listed here.
type BlockType string

// Recognised block types.
const (
	BlockTypeHeading BlockType = "heading"
	BlockTypeText    BlockType = "text"
	BlockTypePicture BlockType = "picture"
	BlockTypeTable   BlockType = "table"
	BlockTypeCaption BlockType = "caption"

	// BlockTypeSectionHeader is the layout extractor's name for headings.
	BlockTypeSectionHeader BlockType = "section_header"
)

// MetadataCaption is the metadata key holding a picture's caption.
const MetadataCaption = "caption"

// Kind returns the normalised type used for rendering decisions.
// Unrecognised values are treated as generic text content.
func (t BlockType) Kind() BlockType {
	switch BlockType(strings.ToLower(string(t))) {
	case BlockTypeHeading, BlockTypeSectionHeader:
		return BlockTypeHeading
	case BlockTypePicture:
		return BlockTypePicture
	case BlockTypeTable:
		return BlockTypeTable
	case BlockTypeCaption:
		return BlockTypeCaption
	default:
		return BlockTypeText
	}
}

// IsKnown returns true if the type is one of the recognised values.
func (t BlockType) IsKnown() bool {
	switch BlockType(strings.ToLower(string(t))) {
	case BlockTypeHeading, BlockTypeSectionHeader, BlockTypeText,
		BlockTypePicture, BlockTypeTable, BlockTypeCaption:
		return true
	default:
		return false
	}
}

// Label returns a human-readable label, e.g. "section header".
func (t BlockType) Label() string {
	if t == "" {
		return string(BlockTypeText)
	}
	return strings.ReplaceAll(string(t), "_", " ")
}

// BoundingBox is a block's position in source page coordinates.
// Units are points with the vertical origin at the page bottom, so Top
// is numerically greater than Bottom for a well-formed box.
type BoundingBox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 {
	return b.Top - b.Bottom
}

// Block is a single layout element on a page.
type Block struct {
	// ID is stable and never reused within a document.
	ID string

	// Type is the extractor-supplied type, preserved verbatim for export.
	Type BlockType

	// Content is the textual payload. For pictures it holds an image
	// reference or an inline data:image/ URI.
	Content string

	// Page is the extractor's one-based page number, zero if unknown.
	Page int

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// BoundingBox is nil when the extractor supplied no position.
	BoundingBox *BoundingBox

	// Captions are extractor-attached caption references for pictures.
	Captions []string
}

// Caption returns the caption stored in metadata, if any.
func (b *Block) Caption() string {
	if b.Metadata == nil {
		return ""
	}
	caption, _ := b.Metadata[MetadataCaption].(string)
	return caption
}

// IsInlineImage reports whether the content is an inline data:image/ URI.
func (b *Block) IsInlineImage() bool {
	return strings.HasPrefix(b.Content, "data:image/")
}

// Clone returns a deep copy of the block. Nested maps and slices inside
// Metadata are copied as well, so the clone shares no mutable state.
func (b *Block) Clone() Block {
	clone := *b
	clone.Metadata = CloneMetadata(b.Metadata)
	if b.BoundingBox != nil {
		box := *b.BoundingBox
		clone.BoundingBox = &box
	}
	if b.Captions != nil {
		clone.Captions = append([]string(nil), b.Captions...)
	}
	return clone
}

// CloneBlocks returns a deep copy of a block sequence.
// A nil input yields a nil result.
func CloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i := range blocks {
		out[i] = blocks[i].Clone()
	}
	return out
}

// BlockIDs returns the ids of blocks in order.
func BlockIDs(blocks []Block) []string {
	ids := make([]string, len(blocks))
	for i := range blocks {
		ids[i] = blocks[i].ID
	}
	return ids
}

// IndexOfBlock returns the position of the block with the given id, or -1.
func IndexOfBlock(blocks []Block, id string) int {
	for i := range blocks {
		if blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// CloneMetadata deep-copies a metadata map.
func CloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMetadata(val)
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}
