package assets

// AssetLoader defines the contract for loading the report's presentation
// assets: the stylesheet, the page template and narrative Markdown.
// Implementations may load from embedded assets or a directory on disk.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// LoadContent loads a narrative Markdown block by name (without .md extension).
	// Returns ErrContentNotFound if the block doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadContent(name string) (string, error)
}

// Names of the built-in presentation assets.
const (
	DefaultStyleName = "report"
	PageTemplateName = "page"
)
