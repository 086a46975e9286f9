package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

// Session owns the in-session state of one document review: the edited
// pages, the frozen correction orders and the page cursor.
//
// Session is not safe for concurrent use. ReviewService serialises access.
type Session struct {
	documentID  string
	pageCount   int
	current     int
	edited      domain.EditedPages
	corrections domain.CorrectionRecord
	loadErrs    map[int]error
	minter      IDMinter
	seq         uint64
	revision    uint64
	saved       bool
}

// NewSession creates a session positioned on page 0.
// A negative page count is treated as zero.
func NewSession(documentID string, pageCount int, minter IDMinter) *Session {
	if pageCount < 0 {
		pageCount = 0
	}
	if minter == nil {
		minter = UUIDMinter{}
	}
	return &Session{
		documentID:  documentID,
		pageCount:   pageCount,
		edited:      make(domain.EditedPages),
		corrections: make(domain.CorrectionRecord),
		loadErrs:    make(map[int]error),
		minter:      minter,
	}
}

// DocumentID returns the document the session belongs to.
func (s *Session) DocumentID() string { return s.documentID }

// PageCount returns the immutable page count.
func (s *Session) PageCount() int { return s.pageCount }

// CurrentPage returns the current page index.
func (s *Session) CurrentPage() int { return s.current }

// GoNext moves to the next page. It reports false at the last page.
func (s *Session) GoNext() bool {
	return s.GoTo(s.current + 1)
}

// GoPrevious moves to the previous page. It reports false at page 0.
func (s *Session) GoPrevious() bool {
	return s.GoTo(s.current - 1)
}

// GoTo moves to index, clamped into [0, pageCount).
// It reports whether the current page changed.
func (s *Session) GoTo(index int) bool {
	if s.pageCount == 0 {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index >= s.pageCount {
		index = s.pageCount - 1
	}
	if index == s.current {
		return false
	}
	s.current = index
	return true
}

// IsCorrected reports whether page index has a frozen order.
func (s *Session) IsCorrected(index int) bool {
	_, ok := s.corrections[index]
	return ok
}

// IsCurrentPageCorrected reports whether the current page has a frozen order.
func (s *Session) IsCurrentPageCorrected() bool {
	return s.IsCorrected(s.current)
}

// AllPagesCorrected reports whether every page has a frozen order.
// A document without pages is never fully corrected.
func (s *Session) AllPagesCorrected() bool {
	if s.pageCount == 0 {
		return false
	}
	for i := 0; i < s.pageCount; i++ {
		if !s.IsCorrected(i) {
			return false
		}
	}
	return true
}

// NeedsFetch reports whether page index has never been populated.
func (s *Session) NeedsFetch(index int) bool {
	_, ok := s.edited[index]
	return !ok
}

// BeginFetch issues a ticket for the current page if it still needs content.
func (s *Session) BeginFetch() (domain.FetchTicket, bool) {
	if s.pageCount == 0 || !s.NeedsFetch(s.current) {
		return domain.FetchTicket{}, false
	}
	return s.nextTicket(false), true
}

// BeginRefetch issues a ticket that may replace the current page's content.
func (s *Session) BeginRefetch() domain.FetchTicket {
	return s.nextTicket(true)
}

func (s *Session) nextTicket(refetch bool) domain.FetchTicket {
	s.seq++
	return domain.FetchTicket{PageIndex: s.current, Seq: s.seq, Refetch: refetch}
}

// Fetch performs the collaborator call for ticket. It does not touch the
// session, so it may run while the session is used elsewhere.
func Fetch(ctx context.Context, source driven.PageSource, ticket domain.FetchTicket) domain.FetchResult {
	if source == nil {
		return domain.FetchResult{Ticket: ticket, Err: domain.ErrSourceUnavailable}
	}
	blocks, err := source.FetchPageBlocks(ctx, ticket.PageIndex)
	if err != nil {
		return domain.FetchResult{Ticket: ticket, Err: err}
	}
	if blocks == nil {
		blocks = []domain.Block{}
	}
	return domain.FetchResult{Ticket: ticket, Blocks: blocks}
}

// ApplyFetch stores a fetch result. It reports false when the result is
// stale (the user has moved to another page since the ticket was issued) or
// when the page was already populated and the ticket is not a re-fetch.
//
// A failed fetch stores nothing so the next visit retries; the failure is
// kept for display until then.
func (s *Session) ApplyFetch(result domain.FetchResult) bool {
	page := result.Ticket.PageIndex
	if page != s.current {
		logger.Debug("Discarding stale fetch for page %d (current page %d)", page, s.current)
		return false
	}
	if result.Err != nil {
		logger.Warn("Fetch of page %d failed: %v", page, result.Err)
		s.loadErrs[page] = result.Err
		return true
	}
	if !result.Ticket.Refetch && !s.NeedsFetch(page) {
		logger.Debug("Page %d already populated, keeping in-session content", page)
		return false
	}

	delete(s.loadErrs, page)
	s.edited[page] = domain.CloneBlocks(result.Blocks)
	if result.Ticket.Refetch {
		delete(s.corrections, page)
	}
	s.touch()
	return true
}

// Page returns the materialized view of page index.
func (s *Session) Page(index int) domain.Page {
	blocks, loaded := s.edited[index]
	page := domain.Page{
		Index:   index,
		Blocks:  domain.CloneBlocks(blocks),
		Loaded:  loaded,
		LoadErr: s.loadErrs[index],
		State:   domain.Uncorrected,
	}
	if page.Blocks == nil {
		page.Blocks = []domain.Block{}
	}
	if s.IsCorrected(index) {
		page.State = domain.Corrected
	}
	return page
}

// Current returns the materialized view of the current page.
func (s *Session) Current() domain.Page {
	return s.Page(s.current)
}

// Apply runs intent against the current page's working copy. Edits are
// allowed on corrected pages and never alter the frozen order.
// The boolean reports whether the page changed.
func (s *Session) Apply(intent domain.Intent) (domain.Page, bool, error) {
	blocks, ok := s.edited[s.current]
	if !ok {
		logger.Warn("invariant violation: %s on page %d before it was loaded", intentName(intent), s.current)
		return s.Current(), false, nil
	}

	out, changed, err := applyIntent(blocks, intent, s.minter)
	if err != nil {
		return s.Current(), false, err
	}
	if changed {
		s.edited[s.current] = out
		s.touch()
	}
	return s.Current(), changed, nil
}

// MarkCorrected freezes the id order of blocks for pageIndex and commits
// blocks as the page's content. The session then advances to the next page
// when there is one.
func (s *Session) MarkCorrected(pageIndex int, blocks []domain.Block) bool {
	if pageIndex < 0 || pageIndex >= s.pageCount {
		logger.Warn("invariant violation: mark corrected on page %d of %d", pageIndex, s.pageCount)
		return false
	}

	committed := domain.CloneBlocks(blocks)
	if committed == nil {
		committed = []domain.Block{}
	}
	s.edited[pageIndex] = committed
	s.corrections[pageIndex] = domain.BlockIDs(committed)
	s.touch()

	if pageIndex+1 < s.pageCount {
		s.current = pageIndex + 1
	} else {
		s.current = pageIndex
	}
	return true
}

// MarkUncorrected discards the frozen order of pageIndex. Content is kept.
func (s *Session) MarkUncorrected(pageIndex int) bool {
	if _, ok := s.corrections[pageIndex]; !ok {
		return false
	}
	delete(s.corrections, pageIndex)
	s.touch()
	return true
}

// Frozen returns a copy of the frozen id order of pageIndex.
func (s *Session) Frozen(pageIndex int) ([]string, bool) {
	ids, ok := s.corrections.Frozen(pageIndex)
	if !ok {
		return nil, false
	}
	return append([]string(nil), ids...), true
}

// Reconciled returns the canonical document-wide block sequence.
func (s *Session) Reconciled() []domain.Block {
	return Reconcile(s.pageCount, s.edited, s.corrections)
}

// MarkSaved records that the current state has been exported.
func (s *Session) MarkSaved() { s.saved = true }

// Revision counts the mutations made to the session so far.
func (s *Session) Revision() uint64 { return s.revision }

// MarkSavedAt marks the session saved only if nothing changed since
// revision was read. It reports whether the flag was set.
func (s *Session) MarkSavedAt(revision uint64) bool {
	if s.revision != revision {
		return false
	}
	s.saved = true
	return true
}

func (s *Session) touch() {
	s.saved = false
	s.revision++
}

// Status derives the aggregate flags.
func (s *Session) Status() domain.SessionStatus {
	return domain.SessionStatus{
		DocumentID:             s.documentID,
		PageCount:              s.pageCount,
		CurrentPage:            s.current,
		CorrectedPages:         len(s.corrections),
		VisitedPages:           len(s.edited),
		IsCurrentPageCorrected: s.IsCurrentPageCorrected(),
		AllPagesCorrected:      s.AllPagesCorrected(),
		Saved:                  s.saved,
	}
}

// Snapshot captures the persistent part of the session.
func (s *Session) Snapshot() *domain.SessionSnapshot {
	return &domain.SessionSnapshot{
		DocumentID:  s.documentID,
		PageCount:   s.pageCount,
		CurrentPage: s.current,
		Edited:      s.edited.Clone(),
		Corrections: s.corrections.Clone(),
		UpdatedAt:   time.Now(),
	}
}

// Restore loads a snapshot taken of the same document.
// Entries outside the page range are dropped.
func (s *Session) Restore(snap *domain.SessionSnapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	if snap.DocumentID != s.documentID {
		return fmt.Errorf("%w: snapshot is for %q, session is for %q",
			domain.ErrInvalidInput, snap.DocumentID, s.documentID)
	}
	if snap.PageCount != s.pageCount {
		return fmt.Errorf("%w: snapshot has %d pages, document has %d",
			domain.ErrInvalidInput, snap.PageCount, s.pageCount)
	}

	s.edited = make(domain.EditedPages, len(snap.Edited))
	for page, blocks := range snap.Edited {
		if page >= 0 && page < s.pageCount {
			s.edited[page] = domain.CloneBlocks(blocks)
		}
	}
	s.corrections = make(domain.CorrectionRecord, len(snap.Corrections))
	for page, ids := range snap.Corrections {
		if page >= 0 && page < s.pageCount {
			s.corrections[page] = append([]string(nil), ids...)
		}
	}
	s.loadErrs = make(map[int]error)
	s.current = 0
	s.GoTo(snap.CurrentPage)
	return nil
}

func intentName(intent domain.Intent) string {
	if intent == nil {
		return "<nil intent>"
	}
	return intent.IntentName()
}
