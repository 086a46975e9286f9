package mcp

import (
	"context"
	"fmt"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
)

var _ driving.ReviewService = (*mockReviewService)(nil)

// mockReviewService is a mock implementation of driving.ReviewService.
// Pages are held in memory; navigation never needs a fetch.
type mockReviewService struct {
	pages     []domain.Page
	current   int
	saved     bool
	formats   []domain.ExportFormat
	applied   []domain.Intent
	applyErr  error
	exported  []domain.ExportFormat
	exportErr error
	corrected int
}

func newMockReview(pages ...[]domain.Block) *mockReviewService {
	m := &mockReviewService{formats: []domain.ExportFormat{domain.ExportFormatJSON, domain.ExportFormatMarkdown}}
	for i, blocks := range pages {
		m.pages = append(m.pages, domain.Page{Index: i, Blocks: blocks, Loaded: true})
	}
	return m
}

func (m *mockReviewService) Open(_ context.Context) (domain.SessionStatus, error) {
	return m.Status(), nil
}

func (m *mockReviewService) Status() domain.SessionStatus {
	corrected := 0
	for i := range m.pages {
		if m.pages[i].IsCorrected() {
			corrected++
		}
	}
	st := domain.SessionStatus{
		DocumentID:        "doc.pdf",
		PageCount:         len(m.pages),
		CurrentPage:       m.current,
		CorrectedPages:    corrected,
		VisitedPages:      len(m.pages),
		AllPagesCorrected: len(m.pages) > 0 && corrected == len(m.pages),
		Saved:             m.saved,
	}
	if len(m.pages) > 0 {
		st.IsCurrentPageCorrected = m.pages[m.current].IsCorrected()
	}
	return st
}

func (m *mockReviewService) CurrentPage() domain.Page {
	if len(m.pages) == 0 {
		return domain.Page{Blocks: []domain.Block{}}
	}
	return m.pages[m.current]
}

func (m *mockReviewService) Page(index int) (domain.Page, error) {
	if index < 0 || index >= len(m.pages) {
		return domain.Page{}, fmt.Errorf("%w: %d", domain.ErrPageOutOfRange, index)
	}
	return m.pages[index], nil
}

func (m *mockReviewService) Navigate(index int) (domain.Page, *domain.FetchTicket) {
	if index < 0 {
		index = 0
	}
	if index >= len(m.pages) {
		index = len(m.pages) - 1
	}
	m.current = index
	return m.CurrentPage(), nil
}

func (m *mockReviewService) Next() (domain.Page, *domain.FetchTicket) {
	return m.Navigate(m.current + 1)
}

func (m *mockReviewService) Previous() (domain.Page, *domain.FetchTicket) {
	return m.Navigate(m.current - 1)
}

func (m *mockReviewService) Load(_ context.Context, ticket domain.FetchTicket) domain.FetchResult {
	return domain.FetchResult{Ticket: ticket}
}

func (m *mockReviewService) Deliver(_ context.Context, _ domain.FetchResult) (domain.Page, bool) {
	return m.CurrentPage(), true
}

func (m *mockReviewService) Resolve(_ context.Context, _ *domain.FetchTicket) domain.Page {
	return m.CurrentPage()
}

func (m *mockReviewService) GoTo(_ context.Context, index int) domain.Page {
	page, _ := m.Navigate(index)
	return page
}

func (m *mockReviewService) Apply(_ context.Context, intent domain.Intent) (domain.Page, error) {
	if m.applyErr != nil {
		return domain.Page{}, m.applyErr
	}
	m.applied = append(m.applied, intent)
	if del, ok := intent.(domain.DeleteBlockIntent); ok {
		page := &m.pages[m.current]
		if idx := domain.IndexOfBlock(page.Blocks, del.BlockID); idx >= 0 {
			page.Blocks = append(page.Blocks[:idx:idx], page.Blocks[idx+1:]...)
		}
	}
	m.saved = false
	return m.CurrentPage(), nil
}

func (m *mockReviewService) MarkCorrected(_ context.Context) (domain.Page, *domain.FetchTicket, error) {
	if !m.pages[m.current].Loaded {
		return m.CurrentPage(), nil, domain.ErrPageNotLoaded
	}
	m.corrected++
	m.pages[m.current].State = domain.Corrected
	if m.current < len(m.pages)-1 {
		m.current++
	}
	return m.CurrentPage(), &domain.FetchTicket{PageIndex: m.current}, nil
}

func (m *mockReviewService) MarkUncorrected(_ context.Context) domain.Page {
	m.pages[m.current].State = domain.Uncorrected
	return m.CurrentPage()
}

func (m *mockReviewService) Refetch() domain.FetchTicket {
	return domain.FetchTicket{PageIndex: m.current, Refetch: true}
}

func (m *mockReviewService) Raster(_ context.Context, _ int) (*domain.Raster, error) {
	return &domain.Raster{URI: "page.png", Size: domain.Size{Width: 100, Height: 100}}, nil
}

func (m *mockReviewService) OnDisplaySizeChanged(_ domain.Size) []domain.Marker { return nil }

func (m *mockReviewService) Markers() []domain.Marker { return nil }

func (m *mockReviewService) MarkersAt(_ context.Context, _ domain.Size) ([]domain.Marker, error) {
	return nil, nil
}

func (m *mockReviewService) SetRenderScale(_ float64) {}

func (m *mockReviewService) Reconciled() []domain.Block {
	var out []domain.Block
	for i := range m.pages {
		out = append(out, m.pages[i].Blocks...)
	}
	return out
}

func (m *mockReviewService) Export(_ context.Context, format domain.ExportFormat) (*domain.Artifact, error) {
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	m.exported = append(m.exported, format)
	m.saved = true
	return &domain.Artifact{
		Format:     format,
		Location:   "/tmp/out." + format.String(),
		Bytes:      42,
		BlockCount: len(m.Reconciled()),
	}, nil
}

func (m *mockReviewService) Formats() []domain.ExportFormat { return m.formats }

func (m *mockReviewService) Discard(_ context.Context) error { return nil }

func block(id string, typ domain.BlockType, content string) domain.Block {
	return domain.Block{ID: id, Type: typ, Content: content}
}
