// Command curator reviews and corrects document layout extraction output.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/curator-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/curator-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curator-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/curator-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/curator-cli/internal/connectors/backend"
	"github.com/custodia-labs/curator-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curator-cli/internal/core/services"
	"github.com/custodia-labs/curator-cli/internal/exporters"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

func main() {
	var configStore *file.ConfigStore

	cli.SetSettingsFactory(func(opts cli.Options) (driving.SettingsService, error) {
		store, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return nil, err
		}
		configStore = store
		return services.NewSettingsService(store), nil
	})

	cli.SetReviewFactory(func(ctx context.Context, settings *domain.Settings) (*cli.ReviewSession, error) {
		return openSession(ctx, configStore, settings)
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// openSession wires the page source, session store and exporters for the
// configured document.
func openSession(ctx context.Context, configStore *file.ConfigStore, settings *domain.Settings) (*cli.ReviewSession, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	source, watcher, err := buildSource(settings)
	if err != nil {
		return nil, err
	}

	sessions, closeStore, err := buildSessionStore(configStore, settings)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	registry := exporters.NewRegistry()
	exporters.RegisterDefaults(registry)
	exps, err := registry.BuildAll(*settings)
	if err != nil {
		_ = closeAll()
		return nil, err
	}

	review := services.NewReviewService(source, sessions, exps,
		services.WithTitle(settings.Export.Title),
		services.WithRenderScale(settings.Overlay.Scale()),
	)

	watchCtx, cancel := context.WithCancel(ctx)
	closers = append(closers, func() error {
		cancel()
		return nil
	})

	var changes <-chan int
	if watcher != nil {
		changes, err = watcher.Watch(watchCtx)
		if err != nil {
			logger.Warn("Not watching extraction output: %v", err)
		}
	}

	if configStore != nil {
		err := configStore.Watch(watchCtx, func() {
			reloaded, err := services.NewSettingsService(configStore).Get()
			if err != nil {
				logger.Warn("Reloading settings: %v", err)
				return
			}
			logger.Info("Configuration changed, overlay DPI %g", reloaded.Overlay.DPI)
			review.SetRenderScale(reloaded.Overlay.Scale())
		})
		if err != nil {
			logger.Warn("Not watching configuration: %v", err)
		}
	}

	return &cli.ReviewSession{
		Review:  review,
		Changes: changes,
		Close:   closeAll,
	}, nil
}

// buildSource picks the extraction directory or the backend.
func buildSource(settings *domain.Settings) (driven.PageSource, driven.PageWatcher, error) {
	if settings.Source.Dir != "" {
		var opts []filesystem.Option
		if settings.Source.Annotated {
			opts = append(opts, filesystem.WithAnnotatedImages())
		}
		src := filesystem.New(settings.Source.Dir, opts...)
		if err := src.Validate(); err != nil {
			return nil, nil, err
		}
		return src, src, nil
	}

	client, err := backend.NewClient(settings.Source.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	var opts []backend.SourceOption
	if settings.Source.Annotated {
		opts = append(opts, backend.WithAnnotatedImages())
	}
	return backend.New(client, opts...), nil, nil
}

// buildSessionStore opens the configured session store. The database lives
// next to the configuration unless storage.dir says otherwise.
func buildSessionStore(configStore *file.ConfigStore, settings *domain.Settings) (driven.SessionStore, func() error, error) {
	if settings.Storage.Backend == domain.StorageMemory {
		return memory.NewSessionStore(), nil, nil
	}

	dir := settings.Storage.Dir
	if dir == "" && configStore != nil {
		dir = filepath.Join(filepath.Dir(configStore.Path()), "data")
	}
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening session store: %w", err)
	}
	return store.SessionStore(), store.Close, nil
}
