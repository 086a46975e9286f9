package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/core/services"
)

var errUnreachable = errors.New("backend unreachable")

// stubSource implements driven.PageSource over fixed pages.
type stubSource struct {
	mu       sync.Mutex
	pages    [][]domain.Block
	fetchErr map[int]error
	fetches  map[int]int
}

var _ driven.PageSource = (*stubSource)(nil)

func (s *stubSource) DocumentID() string { return "figures.pdf" }

func (s *stubSource) PageCount(_ context.Context) (int, error) { return len(s.pages), nil }

func (s *stubSource) FetchPageBlocks(_ context.Context, page int) ([]domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[page]++
	if err := s.fetchErr[page]; err != nil {
		return nil, err
	}
	return domain.CloneBlocks(s.pages[page]), nil
}

func (s *stubSource) FetchPageRaster(_ context.Context, _ int) (*domain.Raster, error) {
	return &domain.Raster{URI: "page.png", Size: domain.Size{Width: 1275, Height: 1650}}, nil
}

func (s *stubSource) setFetchErr(page int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr[page] = err
}

func newStubSource(pages ...[]domain.Block) *stubSource {
	return &stubSource{pages: pages, fetchErr: map[int]error{}, fetches: map[int]int{}}
}

func newServiceServer(t *testing.T, src *stubSource) (*Server, *services.ReviewService) {
	t.Helper()
	review := services.NewReviewService(src, nil, nil)
	_, err := review.Open(context.Background())
	require.NoError(t, err)
	server, err := NewServer(&Ports{Review: review})
	require.NoError(t, err)
	return server, review
}

func TestServer_CaptionEditKeepsInlineImage(t *testing.T) {
	image := "data:image/png;base64," + strings.Repeat("iVBORw0KGgo", 6)
	src := newStubSource([]domain.Block{
		{ID: "p", Type: domain.BlockTypePicture, Content: image},
	})
	server, review := newServiceServer(t, src)
	ctx := context.Background()

	_, page, err := server.handleGetPage(ctx, nil, PageInput{})
	require.NoError(t, err)
	require.Len(t, page.Blocks, 1)
	require.NotEqual(t, image, page.Blocks[0].Content, "clients only see a preview")

	caption := "Figure 1"
	_, out, err := server.handleEdit(ctx, nil, EditInput{BlockID: "p", Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, "Figure 1", out.Blocks[0].Caption)

	stored := review.CurrentPage().Blocks[0]
	assert.Equal(t, image, stored.Content)
	assert.Equal(t, "Figure 1", stored.Caption())
}

func TestServer_MarkCorrectedOnFailedPage(t *testing.T) {
	src := newStubSource(
		[]domain.Block{{ID: "a", Type: domain.BlockTypeText, Content: "Intro"}},
		[]domain.Block{{ID: "b", Type: domain.BlockTypeText, Content: "Body"}},
	)
	src.setFetchErr(0, errUnreachable)
	server, review := newServiceServer(t, src)
	ctx := context.Background()

	_, _, err := server.handleMarkCorrected(ctx, nil, EmptyInput{})
	require.ErrorIs(t, err, domain.ErrPageNotLoaded)
	assert.Equal(t, 0, review.Status().CorrectedPages)

	_, _, err = server.handleRefetch(ctx, nil, EmptyInput{})
	require.ErrorIs(t, err, errUnreachable)

	src.setFetchErr(0, nil)
	_, out, err := server.handleRefetch(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.True(t, out.Loaded)
	require.Len(t, out.Blocks, 1)
	assert.Equal(t, "a", out.Blocks[0].ID)

	_, out, err = server.handleMarkCorrected(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Index)
	assert.Equal(t, []string{"a", "b"}, domain.BlockIDs(review.Reconciled()))
}
