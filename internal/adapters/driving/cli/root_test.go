package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curator-cli/internal/core/services"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "curator", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"review", "status", "pages", "export", "discard", "config", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSetup_BuildsSettingsFromFactory(t *testing.T) {
	resetCLI(t)
	settingsService = nil
	var got Options
	SetSettingsFactory(func(opts Options) (driving.SettingsService, error) {
		got = opts
		return services.NewSettingsService(memory.NewConfigStore()), nil
	})

	_, err := execute(t, "--config-dir", "/etc/curator", "config", "get", "overlay.dpi")

	require.NoError(t, err)
	assert.Equal(t, "/etc/curator", got.ConfigDir)
	assert.NotNil(t, settingsService)
}

func TestSetup_SettingsFactoryError(t *testing.T) {
	resetCLI(t)
	settingsService = nil
	SetSettingsFactory(func(Options) (driving.SettingsService, error) {
		return nil, errors.New("bad toml")
	})

	_, err := execute(t, "config", "list")

	assert.ErrorContains(t, err, "loading settings: bad toml")
}

func TestSetup_LogFile(t *testing.T) {
	useSession(t)
	path := filepath.Join(t.TempDir(), "curator.log")
	t.Cleanup(func() { logger.SetVerbose(false) })

	_, err := execute(t, "--verbose", "--log-file", path, "version")

	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Empty(t, closers, "log file closed after the command")
}

func TestOpenReview_UsesFactoryOnce(t *testing.T) {
	resetCLI(t)
	reviewService = nil
	reviewOpened = false
	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.SetValue(services.KeySourceDir, "/data/extract"))
	SetSettingsService(settings)

	calls := 0
	closed := false
	var gotDir string
	SetReviewFactory(func(_ context.Context, s *domain.Settings) (*ReviewSession, error) {
		calls++
		gotDir = s.Source.Dir
		return &ReviewSession{
			Review: services.NewReviewService(testPages(), nil, nil),
			Close:  func() error { closed = true; return nil },
		}, nil
	})

	first, err := openReview(context.Background())
	require.NoError(t, err)
	second, err := openReview(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "/data/extract", gotDir)
	assert.Equal(t, 2, first.Status().PageCount)

	require.NoError(t, teardown(nil, nil))
	assert.True(t, closed)
}

func TestOpenReview_RequiresSource(t *testing.T) {
	resetCLI(t)
	reviewService = nil
	SetSettingsService(services.NewSettingsService(memory.NewConfigStore()))
	SetReviewFactory(func(context.Context, *domain.Settings) (*ReviewSession, error) {
		t.Fatal("factory must not be called without a source")
		return nil, nil
	})

	_, err := openReview(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestOpenReview_NotConfigured(t *testing.T) {
	resetCLI(t)
	reviewService = nil
	reviewFactory = nil

	_, err := openReview(context.Background())

	assert.EqualError(t, err, "review service not configured")
}

func TestOpenReview_OpenError(t *testing.T) {
	resetCLI(t)
	SetReviewService(services.NewReviewService(nil, nil, nil))

	_, err := openReview(context.Background())

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.False(t, reviewOpened)
}
