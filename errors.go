package primarybrief

import "errors"

// Sentinel errors for library operations.
var (
	ErrUnknownTable     = errors.New("unknown table")
	ErrUnknownImage     = errors.New("unknown image")
	ErrAssetMissing     = errors.New("asset not found locally")
	ErrSheetRead        = errors.New("failed to load spreadsheet")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrTemplate         = errors.New("page template failed")
	ErrRender           = errors.New("page rendering failed")

	// PDF export errors.
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)
