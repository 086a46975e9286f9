// Package filesink writes export artifacts to disk atomically.
package filesink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Write stores data as dir/name through a temp file and rename, so readers
// never see a partial artifact.
func Write(ctx context.Context, format domain.ExportFormat, dir, name string, data []byte, blocks int) (*domain.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", name, err)
	}

	//nolint:gosec // G302: exports are meant to be readable.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return nil, fmt.Errorf("chmod %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("rename %s: %w", name, err)
	}

	return &domain.Artifact{
		Format:     format,
		Location:   path,
		Bytes:      len(data),
		BlockCount: blocks,
		CreatedAt:  time.Now(),
	}, nil
}
