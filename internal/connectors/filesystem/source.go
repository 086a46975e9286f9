package filesystem

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/logger"
	"github.com/custodia-labs/curator-cli/internal/wire"
)

// Ensure Source implements the interfaces.
var (
	_ driven.PageSource  = (*Source)(nil)
	_ driven.PageWatcher = (*Source)(nil)
)

// Layout names.
const (
	PageCountFile     = "pages_count.txt"
	SourcePDF         = "uploaded.pdf"
	BoxesDir          = "boxes"
	PageImagesDir     = "page_images"
	AnnotatedImageDir = "annotated_images"
)

// rasterExts are tried in order when looking for a page image.
var rasterExts = []string{".png", ".jpg", ".jpeg", ".webp", ".tif", ".tiff", ".bmp"}

var boxesFilePattern = regexp.MustCompile(`^boxes_(\d+)\.json$`)

// Option configures a Source.
type Option func(*Source)

// WithAnnotatedImages prefers the annotated page images, which have the
// extractor's boxes drawn on them.
func WithAnnotatedImages() Option {
	return func(s *Source) { s.annotated = true }
}

// Source is a PageSource over an extraction output directory.
type Source struct {
	rootPath  string
	annotated bool
	watcher   *watcher
}

// New creates a source rooted at rootPath. The path is resolved with
// ResolvePath.
func New(rootPath string, opts ...Option) *Source {
	s := &Source{rootPath: ResolvePath(rootPath)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the resolved root directory.
func (s *Source) Root() string { return s.rootPath }

// DocumentID returns the absolute root path.
func (s *Source) DocumentID() string {
	abs, err := filepath.Abs(s.rootPath)
	if err != nil {
		return filepath.Clean(s.rootPath)
	}
	return abs
}

// Validate checks that the root exists and contains extraction output.
func (s *Source) Validate() error {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return fmt.Errorf("%w: source directory %s: %w", domain.ErrNotConfigured, s.rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, s.rootPath)
	}
	if _, err := os.Stat(filepath.Join(s.rootPath, BoxesDir)); err != nil {
		return fmt.Errorf("%w: %s has no %s directory", domain.ErrInvalidInput, s.rootPath, BoxesDir)
	}
	return nil
}

// PageCount reads pages_count.txt. Without it, the page count of
// uploaded.pdf is used, and failing that the highest boxes file index.
func (s *Source) PageCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	//nolint:gosec // G304: layout file under the configured root.
	data, err := os.ReadFile(filepath.Join(s.rootPath, PageCountFile))
	if err == nil {
		count, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if convErr != nil || count < 0 {
			return 0, fmt.Errorf("%w: %s contains %q", domain.ErrInvalidInput, PageCountFile, strings.TrimSpace(string(data)))
		}
		return count, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("read %s: %w", PageCountFile, err)
	}

	if count, err := s.pdfPageCount(); err == nil {
		logger.Debug("Page count %d taken from %s", count, SourcePDF)
		return count, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Could not read page count from %s: %v", SourcePDF, err)
	}

	count, err := s.boxesPageCount()
	if err != nil {
		return 0, err
	}
	logger.Debug("Page count %d taken from %s", count, BoxesDir)
	return count, nil
}

func (s *Source) pdfPageCount() (int, error) {
	f, err := os.Open(filepath.Join(s.rootPath, SourcePDF))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return count, nil
}

func (s *Source) boxesPageCount() (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.rootPath, BoxesDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: no extraction output in %s", domain.ErrNotFound, s.rootPath)
		}
		return 0, fmt.Errorf("read %s: %w", BoxesDir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if n, ok := pageOfBoxesFile(entry.Name()); ok && n+1 > count {
			count = n + 1
		}
	}
	return count, nil
}

// FetchPageBlocks reads and decodes boxes/boxes_{n}.json.
// A missing file is reported as ErrSourceUnavailable so the page can be
// retried once extraction catches up.
func (s *Source) FetchPageBlocks(ctx context.Context, pageIndex int) ([]domain.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pageIndex < 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrPageOutOfRange, pageIndex)
	}

	path := s.boxesPath(pageIndex)
	//nolint:gosec // G304: layout file under the configured root.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", domain.ErrSourceUnavailable, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	blocks, err := wire.Decode(pageIndex, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	logger.Debug("Read %d blocks from %s", len(blocks), path)
	return blocks, nil
}

// FetchPageRaster locates the page image and decodes its dimensions.
func (s *Source) FetchPageRaster(ctx context.Context, pageIndex int) (*domain.Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.findRaster(pageIndex)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path) //nolint:gosec // G304: layout file under the configured root.
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrInvalidInput, path, err)
	}
	return &domain.Raster{
		URI:    path,
		Size:   domain.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)},
		Format: format,
	}, nil
}

func (s *Source) findRaster(pageIndex int) (string, error) {
	plain := filepath.Join(s.rootPath, PageImagesDir, fmt.Sprintf("page_%d", pageIndex))
	annotated := filepath.Join(s.rootPath, AnnotatedImageDir, fmt.Sprintf("annotated_page_%d", pageIndex))

	bases := []string{plain, annotated}
	if s.annotated {
		bases = []string{annotated, plain}
	}
	for _, base := range bases {
		for _, ext := range rasterExts {
			if _, err := os.Stat(base + ext); err == nil {
				return base + ext, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no image for page %d", domain.ErrNotFound, pageIndex)
}

func (s *Source) boxesPath(pageIndex int) string {
	return filepath.Join(s.rootPath, BoxesDir, fmt.Sprintf("boxes_%d.json", pageIndex))
}

// pageOfBoxesFile extracts n from boxes_{n}.json.
func pageOfBoxesFile(name string) (int, bool) {
	m := boxesFilePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
