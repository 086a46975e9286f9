// Package exporters builds the export collaborators the review service hands
// the reconciled document to. Each format lives in its own subpackage; the
// registry constructs them from settings.
package exporters
