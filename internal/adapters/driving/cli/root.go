// Package cli provides the cobra command tree for curator.
// It is a driving adapter: commands translate flags and arguments into calls
// on the driving ports and print the results.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Options are the global flags handed to the settings factory.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string
}

// SettingsFactory builds the settings service from global options.
type SettingsFactory func(opts Options) (driving.SettingsService, error)

// ReviewSession is a review service together with its optional page change
// feed and a cleanup function.
type ReviewSession struct {
	Review  driving.ReviewService
	Changes <-chan int
	Close   func() error
}

// ReviewFactory builds the review session for the configured document.
// It is invoked at most once per process, by the first command that needs it.
type ReviewFactory func(ctx context.Context, settings *domain.Settings) (*ReviewSession, error)

var (
	settingsFactory SettingsFactory
	reviewFactory   ReviewFactory

	// settingsService and reviewService are resolved lazily or injected.
	settingsService driving.SettingsService
	reviewService   driving.ReviewService
	reviewOpened    bool
	pageChanges     <-chan int

	closers []func() error
)

var (
	verbose   bool
	logFile   string
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Review and correct document layout extraction",
	Long: `curator reviews the output of a document layout extractor page by page.

Reorder, edit, delete and duplicate blocks, mark pages corrected, and export
the reconciled document as JSON, Markdown, HTML or a Wiki.js page.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.curator)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetSettingsFactory registers how the settings service is built.
func SetSettingsFactory(f SettingsFactory) {
	settingsFactory = f
}

// SetReviewFactory registers how the review session is built.
func SetReviewFactory(f ReviewFactory) {
	reviewFactory = f
}

// SetSettingsService injects a ready settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetReviewService injects a review service. It is opened on first use.
func SetReviewService(s driving.ReviewService) {
	reviewService = s
	reviewOpened = false
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if logFile != "" {
		closeLog, err := logger.OpenFile(logFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		closers = append(closers, closeLog)
	}

	if settingsService == nil && settingsFactory != nil {
		s, err := settingsFactory(Options{ConfigDir: configDir})
		if err != nil {
			return fmt.Errorf("loading settings: %w", err)
		}
		settingsService = s
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	closers = nil
	return errors.Join(errs...)
}

// openReview returns the opened review service, building it on first use.
func openReview(ctx context.Context) (driving.ReviewService, error) {
	if reviewService == nil {
		if reviewFactory == nil {
			return nil, errors.New("review service not configured")
		}
		if settingsService == nil {
			return nil, errors.New("settings service not configured")
		}
		if err := settingsService.Validate(); err != nil {
			return nil, err
		}
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		session, err := reviewFactory(ctx, settings)
		if err != nil {
			return nil, err
		}
		reviewService = session.Review
		pageChanges = session.Changes
		if session.Close != nil {
			closers = append(closers, session.Close)
		}
	}

	if !reviewOpened {
		if _, err := reviewService.Open(ctx); err != nil {
			return nil, fmt.Errorf("opening document: %w", err)
		}
		reviewOpened = true
	}
	return reviewService, nil
}
