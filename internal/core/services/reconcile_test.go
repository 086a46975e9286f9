package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

func TestReconcile_CorrectedAndUntouchedPages(t *testing.T) {
	page0 := Reorder(blocksOf("A", "B", "C"), 0, 1)
	edited := domain.EditedPages{0: page0, 1: blocksOf("D", "E")}
	corrections := domain.CorrectionRecord{0: domain.BlockIDs(page0)}

	out := Reconcile(2, edited, corrections)

	assert.Equal(t, []string{"B", "A", "C", "D", "E"}, domain.BlockIDs(out))
}

func TestReconcile_DeletedAfterCorrectionIsDropped(t *testing.T) {
	page0 := blocksOf("B", "A", "C")
	corrections := domain.CorrectionRecord{0: domain.BlockIDs(page0)}
	edited := domain.EditedPages{0: DeleteBlock(page0, "A")}

	out := Reconcile(1, edited, corrections)

	assert.Equal(t, []string{"B", "C"}, domain.BlockIDs(out))
}

func TestReconcile_FrozenOrderWinsOverLaterReorder(t *testing.T) {
	page0 := blocksOf("A", "B", "C")
	corrections := domain.CorrectionRecord{0: []string{"A", "B", "C"}}
	edited := domain.EditedPages{0: Reorder(EditContent(page0, "B", "edited", nil), 0, 2)}

	out := Reconcile(1, edited, corrections)

	require.Equal(t, []string{"A", "B", "C"}, domain.BlockIDs(out))
	assert.Equal(t, "edited", out[1].Content, "content edits after correction are reflected")
}

func TestReconcile_UnvisitedPagesContributeNothing(t *testing.T) {
	edited := domain.EditedPages{2: blocksOf("X")}

	out := Reconcile(4, edited, nil)

	assert.Equal(t, []string{"X"}, domain.BlockIDs(out))
}

func TestReconcile_PagesOutsideCountAreIgnored(t *testing.T) {
	edited := domain.EditedPages{0: blocksOf("A"), 5: blocksOf("Z"), -1: blocksOf("N")}

	out := Reconcile(2, edited, domain.CorrectionRecord{5: {"Z"}})

	assert.Equal(t, []string{"A"}, domain.BlockIDs(out))
}

func TestReconcile_EmptyFrozenOrderEmitsCurrentOrder(t *testing.T) {
	edited := domain.EditedPages{0: blocksOf("A", "B")}

	out := Reconcile(1, edited, domain.CorrectionRecord{0: {}})

	assert.Equal(t, []string{"A", "B"}, domain.BlockIDs(out))
}

func TestReconcile_ZeroPages(t *testing.T) {
	out := Reconcile(0, domain.EditedPages{0: blocksOf("A")}, nil)

	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestReconcile_IsPure(t *testing.T) {
	edited := domain.EditedPages{0: blocksOf("A", "B"), 1: blocksOf("C")}
	corrections := domain.CorrectionRecord{0: {"B", "A"}}
	before := edited.Clone()
	beforeCorr := corrections.Clone()

	first := Reconcile(2, edited, corrections)
	first[0].Content = "mutated"
	second := Reconcile(2, edited, corrections)

	assert.Equal(t, before, edited)
	assert.Equal(t, beforeCorr, corrections)
	assert.Equal(t, "b", second[0].Content)
}

// Every block of the output exists in the edited pages, exactly once, and
// every edited block is either emitted or was dropped by the frozen order.
func TestReconcile_Completeness(t *testing.T) {
	edited := domain.EditedPages{
		0: blocksOf("A", "B", "C"),
		1: blocksOf("D", "E", "F"),
		2: blocksOf("G"),
		4: blocksOf("H", "I"),
	}
	corrections := domain.CorrectionRecord{
		0: {"C", "A", "GONE", "B"},
		1: {"E", "D"},
		4: {"I", "H"},
	}

	out := Reconcile(5, edited, corrections)

	seen := map[string]int{}
	for _, b := range out {
		seen[b.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "block %s emitted %d times", id, n)
	}
	assert.NotContains(t, seen, "GONE")
	assert.NotContains(t, seen, "F", "not in page 1's frozen order")
	assert.Equal(t, []string{"C", "A", "B", "E", "D", "G", "I", "H"}, domain.BlockIDs(out))
}

func TestContentIndex(t *testing.T) {
	blocks := []domain.Block{
		{ID: "T", Type: domain.BlockTypeText, Content: "hello"},
		{ID: "P", Type: domain.BlockTypePicture, Content: "data:image/png;base64,AA",
			Metadata: map[string]any{"caption": "A chart"}},
		{ID: "Q", Type: domain.BlockTypePicture, Content: "figure.png"},
	}

	index := ContentIndex(blocks)

	assert.Equal(t, map[string]string{
		"T": "hello",
		"P": "A chart",
		"Q": "figure.png",
	}, index)
}
