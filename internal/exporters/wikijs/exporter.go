// Package wikijs publishes the reconciled document to a Wiki.js instance
// as a Markdown page through its GraphQL API.
package wikijs

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/exporters/markdown"
	"github.com/custodia-labs/curator-cli/internal/logger"
)

// DefaultTags are attached to every published page.
var DefaultTags = []string{"auto-generated", "curator"}

var slugInvalid = regexp.MustCompile(`[^a-z0-9\-_]+`)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter creates one wiki page per export.
type Exporter struct {
	client *Client
	path   string
	locale string
	tags   []string
}

// New creates an exporter publishing under pathPrefix in locale.
func New(client *Client, pathPrefix, locale string) *Exporter {
	if locale == "" {
		locale = "en"
	}
	return &Exporter{
		client: client,
		path:   strings.Trim(pathPrefix, "/"),
		locale: locale,
		tags:   DefaultTags,
	}
}

// Format implements driven.Exporter.
func (e *Exporter) Format() domain.ExportFormat { return domain.ExportFormatWikiJS }

// PagePath returns the wiki path a document with title is published at.
func (e *Exporter) PagePath(title string) string {
	slug := Slug(title)
	if e.path == "" {
		return slug
	}
	return e.path + "/" + slug
}

// Export renders the document as Markdown and creates the page.
func (e *Exporter) Export(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error) {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = "exported"
	}

	content := markdown.Render(doc)
	page := Page{
		Title:       title,
		Content:     content,
		Path:        e.PagePath(title),
		Description: "Auto-generated content from " + title,
		Editor:      "markdown",
		Locale:      e.locale,
		IsPublished: true,
		IsPrivate:   false,
		Tags:        e.tags,
	}

	logger.Debug("Publishing %d blocks to %s at %s", len(doc.Blocks), e.client.Endpoint(), page.Path)
	created, err := e.client.CreatePage(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("publish %s: %w", page.Path, err)
	}

	path := page.Path
	if created.Path != "" {
		path = created.Path
	}
	return &domain.Artifact{
		Format:     e.Format(),
		Location:   e.client.PageURL(path),
		Bytes:      len(content),
		BlockCount: len(doc.Blocks),
		CreatedAt:  time.Now(),
	}, nil
}

// Slug lowercases title and joins its words with dashes.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}
