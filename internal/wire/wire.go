// Package wire is the JSON form of blocks exchanged with the layout
// extraction backend. The same shape is used for boxes_{n}.json files,
// the /bounding_boxes API, persisted sessions and the JSON export.
package wire

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Block is one extracted layout element.
type Block struct {
	SelfRef  string         `json:"self_ref"`
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	Page     int            `json:"page,omitempty"`
	BBox     *BBox          `json:"bbox,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Captions []string       `json:"captions,omitempty"`
}

// BBox is a bounding box in page points with a bottom-left origin.
type BBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// FromDomain converts blocks to their wire form.
func FromDomain(blocks []domain.Block) []Block {
	out := make([]Block, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		out[i] = Block{
			SelfRef:  b.ID,
			Type:     string(b.Type),
			Content:  b.Content,
			Page:     b.Page,
			Metadata: domain.CloneMetadata(b.Metadata),
		}
		if b.BoundingBox != nil {
			out[i].BBox = &BBox{
				Left:   b.BoundingBox.Left,
				Top:    b.BoundingBox.Top,
				Right:  b.BoundingBox.Right,
				Bottom: b.BoundingBox.Bottom,
			}
		}
		if b.Captions != nil {
			out[i].Captions = append([]string(nil), b.Captions...)
		}
	}
	return out
}

// ToDomain converts wire blocks of page pageIndex to domain blocks.
//
// The extractor numbers pages from 1 and omits the page on some block
// types, so a missing page becomes pageIndex+1. A missing type becomes
// text. Missing or repeated ids are replaced so that ids are unique
// within the page.
func ToDomain(pageIndex int, blocks []Block) []domain.Block {
	out := make([]domain.Block, len(blocks))
	seen := make(map[string]bool, len(blocks))
	for i := range blocks {
		w := &blocks[i]

		id := w.SelfRef
		if id == "" {
			id = fmt.Sprintf("#/pages/%d/blocks/%d", pageIndex, i)
		}
		for base, n := id, 1; seen[id]; n++ {
			id = base + "_" + strconv.Itoa(n)
		}
		seen[id] = true

		blockType := domain.BlockType(w.Type)
		if blockType == "" {
			blockType = domain.BlockTypeText
		}
		page := w.Page
		if page == 0 {
			page = pageIndex + 1
		}

		out[i] = domain.Block{
			ID:       id,
			Type:     blockType,
			Content:  w.Content,
			Page:     page,
			Metadata: domain.CloneMetadata(w.Metadata),
		}
		if w.BBox != nil {
			out[i].BoundingBox = &domain.BoundingBox{
				Left:   w.BBox.Left,
				Top:    w.BBox.Top,
				Right:  w.BBox.Right,
				Bottom: w.BBox.Bottom,
			}
		}
		if w.Captions != nil {
			out[i].Captions = append([]string(nil), w.Captions...)
		}
	}
	return out
}

// Decode parses a JSON array of wire blocks for page pageIndex.
func Decode(pageIndex int, data []byte) ([]domain.Block, error) {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("decoding blocks of page %d: %w", pageIndex, err)
	}
	return ToDomain(pageIndex, blocks), nil
}

// Encode renders blocks as an indented JSON array.
func Encode(blocks []domain.Block) ([]byte, error) {
	data, err := json.MarshalIndent(FromDomain(blocks), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding blocks: %w", err)
	}
	return data, nil
}

// EncodeCompact renders blocks as compact JSON, for storage.
func EncodeCompact(blocks []domain.Block) ([]byte, error) {
	data, err := json.Marshal(FromDomain(blocks))
	if err != nil {
		return nil, fmt.Errorf("encoding blocks: %w", err)
	}
	return data, nil
}
