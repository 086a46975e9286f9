package services

import (
	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Reconcile builds the document-wide block sequence used for save and export.
//
// Pages are walked in index order from 0 to pageCount-1. A page never visited
// contributes nothing. A page with a non-empty frozen id order emits its
// edited blocks in that order, skipping ids that no longer exist; any other
// page emits its edited blocks as they stand. Blocks added to a corrected
// page after it was frozen are not part of the frozen order and are not
// emitted until the page is corrected again.
//
// Reconcile is pure: its inputs are not modified and the returned blocks are
// copies.
func Reconcile(pageCount int, edited domain.EditedPages, corrections domain.CorrectionRecord) []domain.Block {
	var out []domain.Block
	for page := 0; page < pageCount; page++ {
		blocks := edited[page]
		if len(blocks) == 0 {
			continue
		}

		frozen, ok := corrections.Frozen(page)
		if !ok || len(frozen) == 0 {
			out = append(out, domain.CloneBlocks(blocks)...)
			continue
		}

		byID := make(map[string]int, len(blocks))
		for i := range blocks {
			byID[blocks[i].ID] = i
		}
		for _, id := range frozen {
			idx, found := byID[id]
			if !found {
				continue
			}
			out = append(out, blocks[idx].Clone())
		}
	}
	if out == nil {
		out = []domain.Block{}
	}
	return out
}

// ContentIndex maps block ids to their textual content.
// For pictures the caption is used when one is set.
func ContentIndex(blocks []domain.Block) map[string]string {
	index := make(map[string]string, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		if b.Type.Kind() == domain.BlockTypePicture {
			if caption := b.Caption(); caption != "" {
				index[b.ID] = caption
				continue
			}
		}
		index[b.ID] = b.Content
	}
	return index
}
