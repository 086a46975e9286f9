package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
)

var errTransient = errors.New("connection reset")

// mockPageSource implements driven.PageSource for testing.
type mockPageSource struct {
	mu          sync.Mutex
	docID       string
	pages       map[int][]domain.Block
	count       int
	countErr    error
	fetchErr    map[int]error
	fetchCalls  map[int]int
	raster      domain.Size
	rasterErr   error
	FetchFunc   func(ctx context.Context, page int) ([]domain.Block, error)
	rasterCalls int
	rasterPages []int
}

var _ driven.PageSource = (*mockPageSource)(nil)

func newMockPageSource(pages ...[]domain.Block) *mockPageSource {
	m := &mockPageSource{
		docID:      "doc.pdf",
		pages:      make(map[int][]domain.Block),
		count:      len(pages),
		fetchErr:   make(map[int]error),
		fetchCalls: make(map[int]int),
		raster:     domain.Size{Width: 1275, Height: 1650},
	}
	for i, p := range pages {
		m.pages[i] = p
	}
	return m
}

func (m *mockPageSource) DocumentID() string { return m.docID }

func (m *mockPageSource) PageCount(_ context.Context) (int, error) {
	return m.count, m.countErr
}

func (m *mockPageSource) FetchPageBlocks(ctx context.Context, page int) ([]domain.Block, error) {
	m.mu.Lock()
	m.fetchCalls[page]++
	err := m.fetchErr[page]
	blocks := domain.CloneBlocks(m.pages[page])
	fn := m.FetchFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, page)
	}
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (m *mockPageSource) FetchPageRaster(_ context.Context, page int) (*domain.Raster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rasterCalls++
	m.rasterPages = append(m.rasterPages, page)
	if m.rasterErr != nil {
		return nil, m.rasterErr
	}
	return &domain.Raster{URI: "page.png", Size: m.raster, Format: "png"}, nil
}

func (m *mockPageSource) calls(page int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls[page]
}

func (m *mockPageSource) setFetchErr(page int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr[page] = err
}

// mockExporter implements driven.Exporter for testing.
type mockExporter struct {
	format     domain.ExportFormat
	err        error
	ExportFunc func(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error)
	last       *domain.ExportDocument
}

var _ driven.Exporter = (*mockExporter)(nil)

func (m *mockExporter) Format() domain.ExportFormat { return m.format }

func (m *mockExporter) Export(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error) {
	m.last = &doc
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, doc)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Artifact{Format: m.format, Location: "out." + string(m.format), BlockCount: len(doc.Blocks)}, nil
}

// failingSessionStore implements driven.SessionStore and fails every call.
type failingSessionStore struct {
	saves int
}

var _ driven.SessionStore = (*failingSessionStore)(nil)

func (f *failingSessionStore) SaveSnapshot(context.Context, *domain.SessionSnapshot) error {
	f.saves++
	return errTransient
}

func (f *failingSessionStore) LoadSnapshot(context.Context, string) (*domain.SessionSnapshot, error) {
	return nil, errTransient
}

func (f *failingSessionStore) DeleteSnapshot(context.Context, string) error {
	return errTransient
}
