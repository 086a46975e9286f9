package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

// DropCancelled is the target index of a drag that ended outside the list.
const DropCancelled = -1

// IDMinter produces candidate ids for duplicated blocks.
type IDMinter interface {
	Mint(sourceID string) string
}

// UUIDMinter mints "<id>_copy_<uuid>" ids.
type UUIDMinter struct{}

// Mint returns a fresh candidate id derived from sourceID.
func (UUIDMinter) Mint(sourceID string) string {
	return sourceID + "_copy_" + uuid.New().String()
}

// MinterFunc adapts a function to IDMinter.
type MinterFunc func(sourceID string) string

// Mint calls f.
func (f MinterFunc) Mint(sourceID string) string {
	return f(sourceID)
}

// maxMintAttempts bounds re-minting when a minter keeps colliding.
const maxMintAttempts = 16

// Reorder moves the block at from so that it ends up at index to.
// The input is returned as-is when from == to, when either index is
// negative (a cancelled drop) or when either index is out of range.
func Reorder(blocks []domain.Block, from, to int) []domain.Block {
	out, _ := reorder(blocks, from, to)
	return out
}

// EditContent replaces the content of block id. A nil metadata keeps the
// block's existing metadata; a non-nil one replaces it.
func EditContent(blocks []domain.Block, id, content string, metadata map[string]any) []domain.Block {
	out, _ := editContent(blocks, id, content, metadata)
	return out
}

// DeleteBlock removes block id.
func DeleteBlock(blocks []domain.Block, id string) []domain.Block {
	out, _ := deleteBlock(blocks, id)
	return out
}

// DuplicateBlock inserts a copy of block id right after it. The copy gets an
// id from mint that is unique within blocks.
func DuplicateBlock(blocks []domain.Block, id string, mint IDMinter) []domain.Block {
	out, _ := duplicateBlock(blocks, id, mint)
	return out
}

func reorder(blocks []domain.Block, from, to int) ([]domain.Block, bool) {
	if from == to || from < 0 || to < 0 || from >= len(blocks) || to >= len(blocks) {
		return blocks, false
	}

	out := make([]domain.Block, 0, len(blocks))
	moved := blocks[from].Clone()
	for i := range blocks {
		if i != from {
			out = append(out, blocks[i].Clone())
		}
	}
	out = append(out, domain.Block{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, true
}

func editContent(blocks []domain.Block, id, content string, metadata map[string]any) ([]domain.Block, bool) {
	idx := domain.IndexOfBlock(blocks, id)
	if idx < 0 {
		logger.Warn("invariant violation: edit of block %q not on page", id)
		return blocks, false
	}

	out := domain.CloneBlocks(blocks)
	out[idx].Content = content
	if metadata != nil {
		out[idx].Metadata = domain.CloneMetadata(metadata)
	}
	return out, true
}

func deleteBlock(blocks []domain.Block, id string) ([]domain.Block, bool) {
	idx := domain.IndexOfBlock(blocks, id)
	if idx < 0 {
		logger.Warn("invariant violation: delete of block %q not on page", id)
		return blocks, false
	}

	out := make([]domain.Block, 0, len(blocks)-1)
	for i := range blocks {
		if i != idx {
			out = append(out, blocks[i].Clone())
		}
	}
	return out, true
}

func duplicateBlock(blocks []domain.Block, id string, mint IDMinter) ([]domain.Block, bool) {
	idx := domain.IndexOfBlock(blocks, id)
	if idx < 0 {
		logger.Warn("invariant violation: duplicate of block %q not on page", id)
		return blocks, false
	}
	if mint == nil {
		mint = UUIDMinter{}
	}

	newID := ""
	for range maxMintAttempts {
		candidate := mint.Mint(id)
		if candidate != "" && domain.IndexOfBlock(blocks, candidate) < 0 {
			newID = candidate
			break
		}
	}
	if newID == "" {
		logger.Warn("invariant violation: could not mint a unique id for copy of %q", id)
		return blocks, false
	}

	copied := blocks[idx].Clone()
	copied.ID = newID

	out := make([]domain.Block, 0, len(blocks)+1)
	for i := range blocks {
		out = append(out, blocks[i].Clone())
		if i == idx {
			out = append(out, copied)
		}
	}
	return out, true
}

// applyIntent runs intent against blocks and reports whether anything changed.
func applyIntent(blocks []domain.Block, intent domain.Intent, mint IDMinter) ([]domain.Block, bool, error) {
	switch in := intent.(type) {
	case domain.ReorderIntent:
		out, changed := reorder(blocks, in.From, in.To)
		return out, changed, nil
	case *domain.ReorderIntent:
		out, changed := reorder(blocks, in.From, in.To)
		return out, changed, nil
	case domain.EditContentIntent:
		out, changed := editContent(blocks, in.BlockID, in.Content, in.Metadata)
		return out, changed, nil
	case *domain.EditContentIntent:
		out, changed := editContent(blocks, in.BlockID, in.Content, in.Metadata)
		return out, changed, nil
	case domain.DeleteBlockIntent:
		out, changed := deleteBlock(blocks, in.BlockID)
		return out, changed, nil
	case *domain.DeleteBlockIntent:
		out, changed := deleteBlock(blocks, in.BlockID)
		return out, changed, nil
	case domain.DuplicateBlockIntent:
		out, changed := duplicateBlock(blocks, in.BlockID, mint)
		return out, changed, nil
	case *domain.DuplicateBlockIntent:
		out, changed := duplicateBlock(blocks, in.BlockID, mint)
		return out, changed, nil
	default:
		return blocks, false, fmt.Errorf("%w: unknown intent %T", domain.ErrInvalidInput, intent)
	}
}
