// Package primarybrief serves a single-page report on the 2025 New York City
// Democratic mayoral primary: three heatmap documents in embedded frames,
// four images, five regression tables with CSV export, and the narrative and
// formulas around them. Nothing is computed here; the report only displays
// results produced elsewhere.
//
// # Quick Start
//
//	report, err := primarybrief.New(
//	    primarybrief.WithAssetsDir("./data"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer report.Close()
//
//	report.Materialize(ctx) // download missing maps once
//	err = report.Render(ctx, w, primarybrief.RenderOptions{})
//
// # Assets
//
// Every file the page needs is listed in the catalog (Maps, Images, Tables).
// A file is either present under the assets directory and used as-is, or
// absent and, for the map documents, fetched once from the release origin.
// Fetch failures become notices shown at the top of the page.
//
// # Sections
//
// The page is a fixed list of sections: headings, narrative blocks, formulas,
// rules, embedded documents, images, tables and two-column rows. Each section
// checks its own files and renders an error message in place of its content
// when one is missing or unreadable, so one broken asset never blanks the
// page. Sections render concurrently into fixed slots.
//
// # Display Controls
//
// Heights of the full-width and paired map frames come from RenderOptions.
// Out-of-range values are clamped and snapped to the slider step.
// ClearCache drops memoized map documents so the next render re-reads them.
//
// # Export
//
// With RenderOptions.Standalone the page inlines images and CSV downloads as
// data URIs and omits the controls. ExportPDF prints that standalone page
// through headless Chrome (go-rod).
package primarybrief
