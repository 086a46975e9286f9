package exporters

import (
	"fmt"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/exporters/html"
	"github.com/custodia-labs/curator-cli/internal/exporters/jsonfile"
	"github.com/custodia-labs/curator-cli/internal/exporters/markdown"
	"github.com/custodia-labs/curator-cli/internal/exporters/wikijs"
)

// RegisterDefaults registers all built-in exporters with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(domain.ExportFormatJSON, buildJSON)
	r.Register(domain.ExportFormatMarkdown, buildMarkdown)
	r.Register(domain.ExportFormatHTML, buildHTML)
	r.Register(domain.ExportFormatWikiJS, buildWikiJS)
}

func buildJSON(s domain.Settings) (driven.Exporter, error) {
	return jsonfile.New(s.Export.Dir), nil
}

func buildMarkdown(s domain.Settings) (driven.Exporter, error) {
	return markdown.New(s.Export.Dir), nil
}

func buildHTML(s domain.Settings) (driven.Exporter, error) {
	return html.New(s.Export.Dir), nil
}

// buildWikiJS needs wiki.url and wiki.token.
func buildWikiJS(s domain.Settings) (driven.Exporter, error) {
	if !s.Wiki.IsConfigured() {
		return nil, fmt.Errorf("%w: set wiki.url and wiki.token", domain.ErrNotConfigured)
	}
	client := wikijs.NewClient(s.Wiki.URL, s.Wiki.Token, s.Wiki.Rate)
	return wikijs.New(client, s.Wiki.Path, s.Wiki.Locale), nil
}
