package domain

import "time"

// CorrectionState is the review lifecycle state of a page.
// It is derived from the CorrectionRecord and never stored on a Block.
type CorrectionState int

const (
	// Uncorrected pages use their current block order at save time.
	Uncorrected CorrectionState = iota
	// Corrected pages have a frozen block id order.
	Corrected
)

// String returns the string representation of the state.
func (s CorrectionState) String() string {
	switch s {
	case Uncorrected:
		return "uncorrected"
	case Corrected:
		return "corrected"
	default:
		return "unknown"
	}
}

// Page is a transient view of one document page, materialised from the
// session's EditedPages. It is never an independent store of truth.
type Page struct {
	// Index is the zero-based page position, stable for the document's lifetime.
	Index int

	// Blocks is the authoritative reading order for the page.
	Blocks []Block

	// State is the page's correction state.
	State CorrectionState

	// Loaded is false until page content has been fetched at least once.
	Loaded bool

	// LoadErr is set when the last fetch failed. The page is then shown
	// with zero blocks and the fetch can be retried.
	LoadErr error
}

// IsCorrected returns true if the page has a frozen order.
func (p *Page) IsCorrected() bool {
	return p.State == Corrected
}

// CorrectionRecord maps page index to the frozen ordered list of block ids.
// A page index without an entry has no frozen order.
type CorrectionRecord map[int][]string

// Frozen returns the frozen id order for a page.
func (r CorrectionRecord) Frozen(pageIndex int) ([]string, bool) {
	ids, ok := r[pageIndex]
	return ids, ok
}

// Clone returns a deep copy of the record.
func (r CorrectionRecord) Clone() CorrectionRecord {
	out := make(CorrectionRecord, len(r))
	for page, ids := range r {
		out[page] = append([]string(nil), ids...)
	}
	return out
}

// EditedPages maps page index to that page's latest block sequence.
// It is the source of truth for content edits regardless of correction state.
type EditedPages map[int][]Block

// Clone returns a deep copy of the store.
func (e EditedPages) Clone() EditedPages {
	out := make(EditedPages, len(e))
	for page, blocks := range e {
		out[page] = CloneBlocks(blocks)
	}
	return out
}

// SessionSnapshot is the persisted state of a review session.
type SessionSnapshot struct {
	// DocumentID identifies the document under review.
	DocumentID string

	// PageCount is the document's page count at load time.
	PageCount int

	// CurrentPage is the active page index.
	CurrentPage int

	// Edited holds every visited page's latest blocks.
	Edited EditedPages

	// Corrections holds the frozen orders.
	Corrections CorrectionRecord

	// UpdatedAt is when the snapshot was taken.
	UpdatedAt time.Time
}

// SessionStatus summarises a session for display.
type SessionStatus struct {
	DocumentID             string
	PageCount              int
	CurrentPage            int
	CorrectedPages         int
	VisitedPages           int
	IsCurrentPageCorrected bool
	AllPagesCorrected      bool

	// Saved is true when the current state has been exported since the
	// last mutation.
	Saved bool
}
