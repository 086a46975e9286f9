package domain

// PointsPerInch is the PDF user-space resolution.
const PointsPerInch = 72.0

// DefaultRenderDPI is the resolution the extraction backend renders page
// images at.
const DefaultRenderDPI = 150.0

// StorageBackend selects where review sessions are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists sessions in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps sessions for the lifetime of the process only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// Settings is the typed application configuration.
type Settings struct {
	Source  SourceSettings
	Overlay OverlaySettings
	Export  ExportSettings
	Storage StorageSettings
	Wiki    WikiSettings
}

// SourceSettings locates the extraction output.
type SourceSettings struct {
	// Dir is an extraction output directory on disk.
	Dir string

	// URL is the base URL of a running extraction backend.
	// Used when Dir is empty.
	URL string

	// Annotated selects the annotated page images as overlay backdrop.
	Annotated bool
}

// OverlaySettings configures the coordinate transform.
type OverlaySettings struct {
	// DPI is the resolution page rasters were rendered at.
	DPI float64
}

// Scale returns the source-units to raster-pixels factor.
func (o OverlaySettings) Scale() float64 {
	if o.DPI <= 0 {
		return DefaultRenderDPI / PointsPerInch
	}
	return o.DPI / PointsPerInch
}

// ExportSettings configures file exporters.
type ExportSettings struct {
	// Dir is where exported files are written.
	Dir string

	// Title is the document title used by markdown, HTML and wiki exports.
	Title string
}

// StorageSettings configures session persistence.
type StorageSettings struct {
	Backend StorageBackend
	Dir     string
}

// WikiSettings configures remote publishing.
type WikiSettings struct {
	URL    string
	Token  string
	Path   string
	Locale string

	// Rate is the maximum requests per second against the wiki API.
	Rate float64
}

// IsConfigured returns true if enough is set to publish.
func (w WikiSettings) IsConfigured() bool {
	return w.URL != "" && w.Token != ""
}

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Overlay: OverlaySettings{DPI: DefaultRenderDPI},
		Export:  ExportSettings{Dir: ".", Title: "exported"},
		Storage: StorageSettings{Backend: StorageSQLite},
		Wiki:    WikiSettings{Path: "imports", Locale: "en", Rate: 1},
	}
}
