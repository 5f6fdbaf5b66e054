package primarybrief

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Default settings.
const (
	defaultTimeout     = 2 * time.Minute
	defaultConcurrency = 4
)

// Minifier shrinks large map documents before they are embedded.
type Minifier interface {
	Minify(text string) (string, error)
}

// reportConfig holds Report configuration.
type reportConfig struct {
	assetsDir    string
	overridesDir string
	baseURL      string
	httpClient   *http.Client
	minify       bool
	minifier     Minifier
	noMinifier   bool
	logger       *zap.Logger
	timeout      time.Duration
	concurrency  int
}

// Option configures a Report.
type Option func(*Report)

// WithAssetsDir sets the directory holding maps, images and spreadsheets.
// Missing map documents are downloaded into it. Default is ".".
func WithAssetsDir(dir string) Option {
	return func(r *Report) {
		r.cfg.assetsDir = dir
	}
}

// WithOverrides sets a directory whose styles/, templates/ and content/
// files replace the embedded ones.
func WithOverrides(dir string) Option {
	return func(r *Report) {
		r.cfg.overridesDir = dir
	}
}

// WithBaseURL sets the release origin for missing map documents.
// The URL should end with a slash.
func WithBaseURL(baseURL string) Option {
	return func(r *Report) {
		if baseURL != "" {
			r.cfg.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the client used to download missing assets.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Report) {
		if c != nil {
			r.cfg.httpClient = c
		}
	}
}

// WithMinify toggles minification of large map documents. Default is on.
func WithMinify(enabled bool) Option {
	return func(r *Report) {
		r.cfg.minify = enabled
	}
}

// WithMinifier replaces the HTML minifier. A nil minifier disables
// minification entirely, as if none were installed.
func WithMinifier(m Minifier) Option {
	return func(r *Report) {
		r.cfg.minifier = m
		r.cfg.noMinifier = m == nil
	}
}

// WithLogger sets the structured logger. Default discards logs.
func WithLogger(l *zap.Logger) Option {
	return func(r *Report) {
		if l != nil {
			r.cfg.logger = l
		}
	}
}

// WithTimeout sets the PDF export timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Report) {
		if d > 0 {
			r.cfg.timeout = d
		}
	}
}

// WithConcurrency bounds how many sections render at once.
func WithConcurrency(n int) Option {
	return func(r *Report) {
		if n > 0 {
			r.cfg.concurrency = n
		}
	}
}

// WithPDFRenderer sets the renderer used by ExportPDF.
// Default launches headless Chrome through go-rod on first use.
func WithPDFRenderer(p PDFRenderer) Option {
	return func(r *Report) {
		if p != nil {
			r.pdf = p
		}
	}
}
