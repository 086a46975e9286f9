package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/logger"
	"github.com/custodia-labs/curator-cli/internal/wire"
)

// Ensure Source implements the interface.
var _ driven.PageSource = (*Source)(nil)

// Source is a PageSource over the backend HTTP API.
type Source struct {
	client    *Client
	annotated bool
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithAnnotatedImages serves /annotated_page_image instead of /page_image.
func WithAnnotatedImages() SourceOption {
	return func(s *Source) { s.annotated = true }
}

// New creates a source that reads through client.
func New(client *Client, opts ...SourceOption) *Source {
	s := &Source{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DocumentID returns the backend URL. The backend serves one document.
func (s *Source) DocumentID() string { return s.client.BaseURL() }

// PageCount reads /pages_count.
func (s *Source) PageCount(ctx context.Context) (int, error) {
	var payload struct {
		Pages *int `json:"pages"`
	}
	if err := s.client.GetJSON(ctx, "/pages_count", &payload); err != nil {
		if IsNotFound(err) {
			return 0, fmt.Errorf("%w: backend has not processed a document: %w", domain.ErrNotFound, err)
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	if payload.Pages == nil || *payload.Pages < 0 {
		return 0, fmt.Errorf("%w: page count missing from response", domain.ErrInvalidInput)
	}
	return *payload.Pages, nil
}

// FetchPageBlocks reads /bounding_boxes/{n}.
func (s *Source) FetchPageBlocks(ctx context.Context, pageIndex int) ([]domain.Block, error) {
	if pageIndex < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrPageOutOfRange, pageIndex)
	}

	data, err := s.client.Get(ctx, fmt.Sprintf("/bounding_boxes/%d", pageIndex))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	blocks, err := wire.Decode(pageIndex, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	logger.Debug("Received %d blocks for page %d", len(blocks), pageIndex)
	return blocks, nil
}

// FetchPageRaster downloads the page image and decodes its dimensions.
func (s *Source) FetchPageRaster(ctx context.Context, pageIndex int) (*domain.Raster, error) {
	path := fmt.Sprintf("/page_image/%d", pageIndex)
	if s.annotated {
		path = fmt.Sprintf("/annotated_page_image/%d", pageIndex)
	}

	data, err := s.client.Get(ctx, path)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: page %d image: %w", domain.ErrInvalidInput, pageIndex, err)
		}
		return nil, fmt.Errorf("decode page %d image: %w", pageIndex, err)
	}
	return &domain.Raster{
		URI:    s.client.URL(path),
		Size:   domain.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)},
		Format: format,
	}, nil
}
