package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeySourceDir      = "source.dir"
	KeySourceURL      = "source.url"
	KeySourceAnnotate = "source.annotated"
	KeyOverlayDPI     = "overlay.dpi"
	KeyExportDir      = "export.dir"
	KeyExportTitle    = "export.title"
	KeyStorageBackend = "storage.backend"
	KeyStorageDir     = "storage.dir"
	KeyWikiURL        = "wiki.url"
	KeyWikiToken      = "wiki.token"
	KeyWikiPath       = "wiki.path"
	KeyWikiLocale     = "wiki.locale"
	KeyWikiRate       = "wiki.rate"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Source: domain.SourceSettings{
			Dir:       s.configStore.GetString(KeySourceDir),
			URL:       s.configStore.GetString(KeySourceURL),
			Annotated: s.getBool(KeySourceAnnotate),
		},
		Overlay: domain.OverlaySettings{
			DPI: s.getFloat(KeyOverlayDPI, defaults.Overlay.DPI),
		},
		Export: domain.ExportSettings{
			Dir:   s.getString(KeyExportDir, defaults.Export.Dir),
			Title: s.getString(KeyExportTitle, defaults.Export.Title),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			Dir:     s.configStore.GetString(KeyStorageDir), // No default - empty means the config directory
		},
		Wiki: domain.WikiSettings{
			URL:    s.configStore.GetString(KeyWikiURL),
			Token:  s.configStore.GetString(KeyWikiToken),
			Path:   s.getString(KeyWikiPath, defaults.Wiki.Path),
			Locale: s.getString(KeyWikiLocale, defaults.Wiki.Locale),
			Rate:   s.getFloat(KeyWikiRate, defaults.Wiki.Rate),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeySourceDir, settings.Source.Dir},
		{KeySourceURL, settings.Source.URL},
		{KeySourceAnnotate, settings.Source.Annotated},
		{KeyOverlayDPI, settings.Overlay.DPI},
		{KeyExportDir, settings.Export.Dir},
		{KeyExportTitle, settings.Export.Title},
		{KeyStorageBackend, string(settings.Storage.Backend)},
		{KeyStorageDir, settings.Storage.Dir},
		{KeyWikiURL, settings.Wiki.URL},
		{KeyWikiPath, settings.Wiki.Path},
		{KeyWikiLocale, settings.Wiki.Locale},
		{KeyWikiRate, settings.Wiki.Rate},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Only overwrite the token when one is given
	if settings.Wiki.Token != "" {
		if err := s.configStore.Set(KeyWikiToken, settings.Wiki.Token); err != nil {
			return fmt.Errorf("save %s: %w", KeyWikiToken, err)
		}
	}

	return nil
}

// GetValue returns the effective value of key as a string.
func (s *SettingsService) GetValue(key string) (string, error) {
	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	switch key {
	case KeySourceDir:
		return settings.Source.Dir, nil
	case KeySourceURL:
		return settings.Source.URL, nil
	case KeySourceAnnotate:
		return strconv.FormatBool(settings.Source.Annotated), nil
	case KeyOverlayDPI:
		return formatFloat(settings.Overlay.DPI), nil
	case KeyExportDir:
		return settings.Export.Dir, nil
	case KeyExportTitle:
		return settings.Export.Title, nil
	case KeyStorageBackend:
		return string(settings.Storage.Backend), nil
	case KeyStorageDir:
		return settings.Storage.Dir, nil
	case KeyWikiURL:
		return settings.Wiki.URL, nil
	case KeyWikiToken:
		return settings.Wiki.Token, nil
	case KeyWikiPath:
		return settings.Wiki.Path, nil
	case KeyWikiLocale:
		return settings.Wiki.Locale, nil
	case KeyWikiRate:
		return formatFloat(settings.Wiki.Rate), nil
	default:
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// SetValue parses value for key and stores it.
func (s *SettingsService) SetValue(key, value string) error {
	switch key {
	case KeyOverlayDPI, KeyWikiRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, f)
	case KeySourceAnnotate:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, b)
	case KeyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: storage backend must be %q or %q",
				domain.ErrInvalidInput, domain.StorageSQLite, domain.StorageMemory)
		}
		return s.configStore.Set(key, value)
	case KeySourceDir, KeySourceURL, KeyExportDir, KeyExportTitle, KeyStorageDir,
		KeyWikiURL, KeyWikiToken, KeyWikiPath, KeyWikiLocale:
		return s.configStore.Set(key, value)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Keys lists every recognised setting key in name order.
func (s *SettingsService) Keys() []string {
	keys := []string{
		KeySourceDir, KeySourceURL, KeySourceAnnotate, KeyOverlayDPI, KeyExportDir, KeyExportTitle,
		KeyStorageBackend, KeyStorageDir, KeyWikiURL, KeyWikiToken, KeyWikiPath,
		KeyWikiLocale, KeyWikiRate,
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that a page source is configured.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if settings.Source.Dir == "" && settings.Source.URL == "" {
		return fmt.Errorf("%w: set %s or %s", domain.ErrNotConfigured, KeySourceDir, KeySourceURL)
	}
	if settings.Source.Dir != "" && settings.Source.URL != "" {
		return fmt.Errorf("%w: %s and %s are mutually exclusive", domain.ErrInvalidInput, KeySourceDir, KeySourceURL)
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, settings.Storage.Backend)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string) bool {
	val, ok := s.configStore.Get(key)
	if !ok {
		return false
	}
	b, _ := val.(bool)
	return b
}

// getFloat accepts the integer and float forms TOML decoding may produce.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	raw, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	var val float64
	switch v := raw.(type) {
	case float64:
		val = v
	case float32:
		val = float64(v)
	case int:
		val = float64(v)
	case int64:
		val = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return defaultVal
		}
		val = parsed
	default:
		return defaultVal
	}
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(KeyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
