package exporters

import (
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

// BuilderFunc creates an Exporter from application settings.
// Builders return domain.ErrNotConfigured when the settings lack what the
// exporter needs.
type BuilderFunc func(settings domain.Settings) (driven.Exporter, error)

// Registry maps export formats to their builders.
type Registry struct {
	builders map[domain.ExportFormat]BuilderFunc
}

// NewRegistry creates a new exporter registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[domain.ExportFormat]BuilderFunc),
	}
}

// Register adds an exporter builder to the registry.
// Format should match the exporter's Format() return value.
func (r *Registry) Register(format domain.ExportFormat, builder BuilderFunc) {
	r.builders[format] = builder
}

// Build creates an exporter by format.
// Returns ErrUnsupportedFormat if the format is not registered.
func (r *Registry) Build(format domain.ExportFormat, settings domain.Settings) (driven.Exporter, error) {
	builder, ok := r.builders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	return builder(settings)
}

// BuildAll creates every exporter the settings allow. Formats that are not
// configured are skipped; any other builder failure is returned.
func (r *Registry) BuildAll(settings domain.Settings) ([]driven.Exporter, error) {
	var out []driven.Exporter
	for _, format := range r.Formats() {
		exp, err := r.Build(format, settings)
		if errors.Is(err, domain.ErrNotConfigured) {
			logger.Debug("Exporter %s not configured: %v", format, err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("build exporter %s: %w", format, err)
		}
		out = append(out, exp)
	}
	return out, nil
}

// Has returns true if an exporter with the given format is registered.
func (r *Registry) Has(format domain.ExportFormat) bool {
	_, ok := r.builders[format]
	return ok
}

// Formats returns all registered formats in name order.
func (r *Registry) Formats() []domain.ExportFormat {
	formats := make([]domain.ExportFormat, 0, len(r.builders))
	for format := range r.builders {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
