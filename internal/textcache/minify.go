package textcache

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

// Minifier shrinks text without changing its markup structure.
// Minification is best-effort: callers fall back to the input on error.
type Minifier interface {
	Minify(text string) (string, error)
}

// htmlMediaType is the media type registered with the minify engine.
const htmlMediaType = "text/html"

// HTMLMinifier strips comments and redundant whitespace from HTML documents.
// Attribute quotes, document tags and end tags are kept, so the tag count of
// a document is unchanged. Inline scripts and styles are left as they are.
type HTMLMinifier struct {
	m *minify.M
}

// NewHTMLMinifier returns an HTMLMinifier ready for use.
func NewHTMLMinifier() *HTMLMinifier {
	m := minify.New()
	m.Add(htmlMediaType, &html.Minifier{
		KeepDefaultAttrVals: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})
	return &HTMLMinifier{m: m}
}

// Minify returns the minified form of text.
func (h *HTMLMinifier) Minify(text string) (string, error) {
	return h.m.String(htmlMediaType, text)
}

// Compile-time interface check.
var _ Minifier = (*HTMLMinifier)(nil)
