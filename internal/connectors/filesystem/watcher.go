package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/curator-cli/internal/logger"
)

type watcher struct {
	fs   *fsnotify.Watcher
	once sync.Once
}

func (w *watcher) close() error {
	var err error
	w.once.Do(func() { err = w.fs.Close() })
	return err
}

// Watch emits the index of every page whose boxes file is created or
// rewritten. The channel is closed when ctx is cancelled or Close is called.
func (s *Source) Watch(ctx context.Context) (<-chan int, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Join(s.rootPath, BoxesDir)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &watcher{fs: fsw}
	s.watcher = w
	pages := make(chan int, 16)

	go func() {
		defer close(pages)
		defer func() { _ = w.close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				page, changed := handleFsEvent(event)
				if !changed {
					continue
				}
				logger.Debug("Extraction output for page %d changed", page)
				select {
				case pages <- page:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error on %s: %v", dir, err)
			}
		}
	}()

	return pages, nil
}

// Close stops an active Watch.
func (s *Source) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.close()
}

// handleFsEvent maps a filesystem event to the page it affects.
// Only creates and writes of visible boxes files count.
func handleFsEvent(event fsnotify.Event) (int, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return 0, false
	}
	if isHidden(event.Name) {
		return 0, false
	}
	return pageOfBoxesFile(filepath.Base(event.Name))
}

// isHidden checks if a file or directory is hidden (starts with .).
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 0 && part[0] == '.' && part != "." && part != ".." {
			return true
		}
	}
	return false
}
