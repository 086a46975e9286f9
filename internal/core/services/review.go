package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

// Ensure ReviewService implements the interface.
var _ driving.ReviewService = (*ReviewService)(nil)

// ReviewOption configures a ReviewService.
type ReviewOption func(*ReviewService)

// WithTitle sets the document title handed to exporters.
func WithTitle(title string) ReviewOption {
	return func(s *ReviewService) {
		if title != "" {
			s.title = title
		}
	}
}

// WithRenderScale sets the source-units to raster-pixels factor.
func WithRenderScale(scale float64) ReviewOption {
	return func(s *ReviewService) {
		s.overlay.SetTransform(Transform{Scale: scale})
	}
}

// WithMinter overrides how duplicated blocks get their ids.
func WithMinter(m IDMinter) ReviewOption {
	return func(s *ReviewService) {
		if m != nil {
			s.minter = m
		}
	}
}

// ReviewService serialises all access to one Session so the TUI, CLI and
// MCP adapters can share it. Collaborator I/O for page content runs outside
// the lock; stale results are discarded by the session.
type ReviewService struct {
	mu        sync.Mutex
	source    driven.PageSource
	store     driven.SessionStore
	exporters map[domain.ExportFormat]driven.Exporter
	title     string
	minter    IDMinter
	session   *Session
	overlay   *Overlay
	rasters   map[int]*domain.Raster
}

// NewReviewService creates a review service. store may be nil, in which case
// the session lives only in memory.
func NewReviewService(
	source driven.PageSource,
	store driven.SessionStore,
	exporters []driven.Exporter,
	opts ...ReviewOption,
) *ReviewService {
	s := &ReviewService{
		source:    source,
		store:     store,
		exporters: make(map[domain.ExportFormat]driven.Exporter, len(exporters)),
		title:     domain.DefaultSettings().Export.Title,
		minter:    UUIDMinter{},
		overlay:   NewOverlay(NewTransform(domain.DefaultRenderDPI)),
		rasters:   make(map[int]*domain.Raster),
	}
	for _, exp := range exporters {
		if exp != nil {
			s.exporters[exp.Format()] = exp
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open reads the page count, restores any persisted session and loads the
// current page.
func (s *ReviewService) Open(ctx context.Context) (domain.SessionStatus, error) {
	if s.source == nil {
		return domain.SessionStatus{}, domain.ErrSourceUnavailable
	}

	logger.Section("Open")
	count, err := s.source.PageCount(ctx)
	if err != nil {
		return domain.SessionStatus{}, fmt.Errorf("read page count: %w", err)
	}
	docID := s.source.DocumentID()
	logger.Info("Document %s has %d pages", docID, count)

	session := NewSession(docID, count, s.minter)
	s.restore(ctx, session)

	s.mu.Lock()
	s.session = session
	s.rasters = make(map[int]*domain.Raster)
	ticket, ok := session.BeginFetch()
	s.refreshOverlayLocked()
	s.mu.Unlock()

	if ok {
		s.Resolve(ctx, &ticket)
	}
	return s.Status(), nil
}

func (s *ReviewService) restore(ctx context.Context, session *Session) {
	if s.store == nil {
		return
	}
	snap, err := s.store.LoadSnapshot(ctx, session.DocumentID())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Could not load saved session: %v", err)
		}
		return
	}
	if err := session.Restore(snap); err != nil {
		logger.Warn("Ignoring saved session: %v", err)
		return
	}
	logger.Info("Resumed session: %d pages visited, %d corrected", len(snap.Edited), len(snap.Corrections))
}

// Status returns the derived aggregate flags.
func (s *ReviewService) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.SessionStatus{}
	}
	return s.session.Status()
}

// CurrentPage returns the current page view.
func (s *ReviewService) CurrentPage() domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Page{Blocks: []domain.Block{}}
	}
	return s.session.Current()
}

// Page returns the view of page index without fetching it.
func (s *ReviewService) Page(index int) (domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Page{}, domain.ErrSessionNotLoaded
	}
	if index < 0 || index >= s.session.PageCount() {
		return domain.Page{}, fmt.Errorf("%w: %d", domain.ErrPageOutOfRange, index)
	}
	return s.session.Page(index), nil
}

// Navigate moves to index, clamped into the page range.
func (s *ReviewService) Navigate(index int) (domain.Page, *domain.FetchTicket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Page{Blocks: []domain.Block{}}, nil
	}

	if s.session.GoTo(index) {
		logger.Debug("Moved to page %d", s.session.CurrentPage())
		s.refreshOverlayLocked()
	}
	return s.session.Current(), s.beginFetchLocked()
}

// Next moves to the following page.
func (s *ReviewService) Next() (domain.Page, *domain.FetchTicket) {
	return s.Navigate(s.currentIndex() + 1)
}

// Previous moves to the preceding page.
func (s *ReviewService) Previous() (domain.Page, *domain.FetchTicket) {
	return s.Navigate(s.currentIndex() - 1)
}

func (s *ReviewService) currentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return 0
	}
	return s.session.CurrentPage()
}

func (s *ReviewService) beginFetchLocked() *domain.FetchTicket {
	ticket, ok := s.session.BeginFetch()
	if !ok {
		return nil
	}
	return &ticket
}

// Load fetches page content for ticket without holding the session lock.
func (s *ReviewService) Load(ctx context.Context, ticket domain.FetchTicket) domain.FetchResult {
	logger.Debug("Fetching blocks for page %d (ticket %d)", ticket.PageIndex, ticket.Seq)
	return Fetch(ctx, s.source, ticket)
}

// Deliver applies a fetch result if it is still wanted.
func (s *ReviewService) Deliver(ctx context.Context, result domain.FetchResult) (domain.Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Page{Blocks: []domain.Block{}}, false
	}

	applied := s.session.ApplyFetch(result)
	if applied && result.Err == nil {
		s.persistLocked(ctx)
		s.refreshOverlayLocked()
	}
	return s.session.Current(), applied
}

// Resolve loads and delivers ticket. A nil ticket is a no-op.
func (s *ReviewService) Resolve(ctx context.Context, ticket *domain.FetchTicket) domain.Page {
	if ticket == nil {
		return s.CurrentPage()
	}
	page, _ := s.Deliver(ctx, s.Load(ctx, *ticket))
	return page
}

// GoTo moves to index and loads it if needed.
func (s *ReviewService) GoTo(ctx context.Context, index int) domain.Page {
	_, ticket := s.Navigate(index)
	return s.Resolve(ctx, ticket)
}

// Apply applies an editing intent to the current page.
func (s *ReviewService) Apply(ctx context.Context, intent domain.Intent) (domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Page{}, domain.ErrSessionNotLoaded
	}

	page, changed, err := s.session.Apply(intent)
	if err != nil {
		return page, err
	}
	if changed {
		logger.Debug("Applied %s on page %d", intent.IntentName(), page.Index)
		s.persistLocked(ctx)
		s.overlay.SetBlocks(page.Blocks)
	}
	return page, nil
}

// MarkCorrected freezes the current page and advances to the next one.
// A page that has no content yet is refused with ErrPageNotLoaded and the
// returned ticket retries its fetch.
func (s *ReviewService) MarkCorrected(ctx context.Context) (domain.Page, *domain.FetchTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Page{Blocks: []domain.Block{}}, nil, domain.ErrSessionNotLoaded
	}

	current := s.session.Current()
	if !current.Loaded {
		return current, s.beginFetchLocked(), fmt.Errorf("%w: page %d", domain.ErrPageNotLoaded, current.Index+1)
	}
	if s.session.MarkCorrected(current.Index, current.Blocks) {
		logger.Info("Page %d corrected with %d blocks", current.Index, len(current.Blocks))
		s.persistLocked(ctx)
	}
	s.refreshOverlayLocked()
	return s.session.Current(), s.beginFetchLocked(), nil
}

// MarkUncorrected re-enables editing of the current page.
func (s *ReviewService) MarkUncorrected(ctx context.Context) domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Page{Blocks: []domain.Block{}}
	}

	if s.session.MarkUncorrected(s.session.CurrentPage()) {
		logger.Info("Page %d uncorrected", s.session.CurrentPage())
		s.persistLocked(ctx)
	}
	return s.session.Current()
}

// Refetch issues a re-fetch ticket for the current page.
func (s *ReviewService) Refetch() domain.FetchTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.FetchTicket{}
	}
	delete(s.rasters, s.session.CurrentPage())
	return s.session.BeginRefetch()
}

// Raster returns the raster of page index, fetching it on first use.
func (s *ReviewService) Raster(ctx context.Context, index int) (*domain.Raster, error) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil, domain.ErrSessionNotLoaded
	}
	if index < 0 || index >= s.session.PageCount() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", domain.ErrPageOutOfRange, index)
	}
	if r, ok := s.rasters[index]; ok {
		s.mu.Unlock()
		return r, nil
	}
	s.mu.Unlock()

	if s.source == nil {
		return nil, domain.ErrSourceUnavailable
	}
	raster, err := s.source.FetchPageRaster(ctx, index)
	if err != nil {
		logger.Warn("Fetch of raster for page %d failed: %v", index, err)
		return nil, err
	}
	if raster == nil {
		return nil, fmt.Errorf("%w: no raster for page %d", domain.ErrNotFound, index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rasters[index] = raster
	if s.session.CurrentPage() == index {
		s.overlay.SetRaster(raster.Size)
	}
	return raster, nil
}

// OnDisplaySizeChanged recomputes the interactive overlay for size.
func (s *ReviewService) OnDisplaySizeChanged(size domain.Size) []domain.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMarkers(s.overlay.OnDisplaySizeChanged(size))
}

// Markers returns the interactive overlay markers.
func (s *ReviewService) Markers() []domain.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMarkers(s.overlay.Markers())
}

// MarkersAt computes markers for the current page at display.
func (s *ReviewService) MarkersAt(ctx context.Context, display domain.Size) ([]domain.Marker, error) {
	index := s.currentIndex()
	raster, err := s.Raster(ctx, index)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	blocks := s.session.Page(index).Blocks
	return s.overlay.Transform().Markers(blocks, raster.Size, display), nil
}

// SetRenderScale changes the transform scale, e.g. on a DPI config change.
func (s *ReviewService) SetRenderScale(scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.SetTransform(Transform{Scale: scale})
}

// Reconciled returns the canonical document-wide block sequence.
func (s *ReviewService) Reconciled() []domain.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return []domain.Block{}
	}
	return s.session.Reconciled()
}

// Export hands the reconciled sequence to the exporter registered for format.
func (s *ReviewService) Export(ctx context.Context, format domain.ExportFormat) (*domain.Artifact, error) {
	exp, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return nil, domain.ErrSessionNotLoaded
	}
	blocks := s.session.Reconciled()
	revision := s.session.Revision()
	doc := domain.ExportDocument{
		DocumentID: s.session.DocumentID(),
		Title:      s.title,
		Blocks:     blocks,
		Content:    ContentIndex(blocks),
	}
	s.mu.Unlock()

	logger.Section("Export")
	logger.Debug("Exporting %d blocks as %s", len(blocks), format)
	artifact, err := exp.Export(ctx, doc)
	if err != nil {
		logger.Warn("Export as %s failed: %v", format, err)
		return nil, fmt.Errorf("export %s: %w: %w", format, domain.ErrExportFailed, err)
	}

	s.mu.Lock()
	if !s.session.MarkSavedAt(revision) {
		logger.Debug("Session changed during export, leaving it unsaved")
	}
	s.mu.Unlock()

	logger.Info("Exported %d blocks to %s", artifact.BlockCount, artifact.Location)
	return artifact, nil
}

// Formats lists the registered export formats in name order.
func (s *ReviewService) Formats() []domain.ExportFormat {
	formats := make([]domain.ExportFormat, 0, len(s.exporters))
	for f := range s.exporters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Discard deletes the persisted session and reloads page 0 from the source.
func (s *ReviewService) Discard(ctx context.Context) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return domain.ErrSessionNotLoaded
	}
	if s.store != nil {
		if err := s.store.DeleteSnapshot(ctx, s.session.DocumentID()); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("delete saved session: %w", err)
		}
	}
	s.session = NewSession(s.session.DocumentID(), s.session.PageCount(), s.minter)
	s.rasters = make(map[int]*domain.Raster)
	s.refreshOverlayLocked()
	ticket := s.beginFetchLocked()
	s.mu.Unlock()

	s.Resolve(ctx, ticket)
	return nil
}

func (s *ReviewService) persistLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveSnapshot(ctx, s.session.Snapshot()); err != nil {
		logger.Warn("Could not save session: %v", err)
	}
}

func (s *ReviewService) refreshOverlayLocked() {
	index := s.session.CurrentPage()
	var size domain.Size
	if r, ok := s.rasters[index]; ok {
		size = r.Size
	}
	s.overlay.SetRaster(size)
	s.overlay.SetBlocks(s.session.Current().Blocks)
}

func cloneMarkers(markers []domain.Marker) []domain.Marker {
	if markers == nil {
		return nil
	}
	return append([]domain.Marker(nil), markers...)
}
