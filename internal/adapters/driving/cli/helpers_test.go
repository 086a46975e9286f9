package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/curator-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/core/services"
)

// MockPageSource implements driven.PageSource for CLI tests.
type MockPageSource struct {
	Pages [][]domain.Block
}

var _ driven.PageSource = (*MockPageSource)(nil)

func (m *MockPageSource) DocumentID() string { return "thesis.pdf" }

func (m *MockPageSource) PageCount(_ context.Context) (int, error) {
	return len(m.Pages), nil
}

func (m *MockPageSource) FetchPageBlocks(_ context.Context, page int) ([]domain.Block, error) {
	return domain.CloneBlocks(m.Pages[page]), nil
}

func (m *MockPageSource) FetchPageRaster(_ context.Context, _ int) (*domain.Raster, error) {
	return &domain.Raster{URI: "page.png", Size: domain.Size{Width: 1275, Height: 1650}}, nil
}

// MockExporter implements driven.Exporter for CLI tests.
type MockExporter struct {
	ExportFunc func(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error)
	doc        domain.ExportDocument
}

func (m *MockExporter) Format() domain.ExportFormat { return domain.ExportFormatJSON }

func (m *MockExporter) Export(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error) {
	m.doc = doc
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, doc)
	}
	return &domain.Artifact{
		Format:     domain.ExportFormatJSON,
		Location:   "/tmp/reordered_bounding_boxes.json",
		BlockCount: len(doc.Blocks),
	}, nil
}

func testPages() *MockPageSource {
	return &MockPageSource{Pages: [][]domain.Block{
		{
			{ID: "a", Type: domain.BlockTypeHeading, Content: "Abstract"},
			{ID: "b", Type: domain.BlockTypeText, Content: "We study..."},
		},
		{
			{ID: "c", Type: domain.BlockTypeText, Content: "Method"},
		},
	}}
}

// resetCLI restores the package state after a test.
func resetCLI(t *testing.T) {
	t.Helper()
	oldSettings, oldReview, oldOpened := settingsService, reviewService, reviewOpened
	oldSettingsFactory, oldReviewFactory, oldChanges := settingsFactory, reviewFactory, pageChanges
	oldTerminal := isTerminal
	t.Cleanup(func() {
		settingsService, reviewService, reviewOpened = oldSettings, oldReview, oldOpened
		settingsFactory, reviewFactory, pageChanges = oldSettingsFactory, oldReviewFactory, oldChanges
		isTerminal = oldTerminal
		statusJSON, pagesJSON, exportList, reviewRestart = false, false, false, false
		verbose, logFile, configDir = false, "", ""
		closers = nil
	})
}

// useSession injects a fresh settings service and an unopened review service.
func useSession(t *testing.T, exporters ...driven.Exporter) *services.ReviewService {
	t.Helper()
	resetCLI(t)
	svc := services.NewReviewService(testPages(), memory.NewSessionStore(), exporters)
	SetSettingsService(services.NewSettingsService(memory.NewConfigStore()))
	SetReviewService(svc)
	return svc
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
