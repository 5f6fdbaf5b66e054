package primarybrief

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// partials are the template definitions sections execute.
var partials = []string{"page", "heading", "narrative", "formula", "rule", "error", "document", "image", "table", "row"}

// Section is one block of the page. Sections are independent: each checks
// its own files and renders an error message in place of its content when
// they are missing or unreadable.
type Section interface {
	render(ctx context.Context, rc *renderContext) (template.HTML, error)
}

// renderContext carries per-request state shared by all sections.
type renderContext struct {
	report     *Report
	controls   Controls
	standalone bool
}

// exec runs a named partial into an HTML fragment.
func (rc *renderContext) exec(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := rc.report.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- produced by html/template
}

// fail renders a per-section error message and logs it.
func (rc *renderContext) fail(msg string, fields ...zap.Field) (template.HTML, error) {
	rc.report.logger.Warn("section unavailable", append(fields, zap.String("message", msg))...)
	return rc.exec("error", struct{ Message string }{msg})
}

// ---------------------------------------------------------------------------
// Text sections
// ---------------------------------------------------------------------------

// Heading is a section title. Level is 2, 3, 4 or 5.
type Heading struct {
	Level    int
	Text     string
	Centered bool
}

func (h Heading) render(_ context.Context, rc *renderContext) (template.HTML, error) {
	return rc.exec("heading", h)
}

// Narrative is a Markdown block, either a named content asset or inline
// Markdown. NoteBox frames it in a bordered box.
type Narrative struct {
	Content  string
	Markdown string
	NoteBox  bool
}

func (n Narrative) render(ctx context.Context, rc *renderContext) (template.HTML, error) {
	md := n.Markdown
	if n.Content != "" {
		src, err := rc.report.loader.LoadContent(n.Content)
		if err != nil {
			return rc.fail("Content not found: "+n.Content, zap.Error(err))
		}
		md = src
	}

	fragment, err := rc.report.narrative.ToHTML(ctx, md)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return rc.fail("Failed to render text: "+err.Error(), zap.String("content", n.Content))
	}

	return rc.exec("narrative", struct {
		HTML    template.HTML
		NoteBox bool
	}{
		HTML:    template.HTML(fragment), // #nosec G203 -- sanitized by the narrative policy
		NoteBox: n.NoteBox,
	})
}

// Formula is a display-mode LaTeX expression, typeset in the browser.
type Formula struct {
	TeX string
}

func (f Formula) render(_ context.Context, rc *renderContext) (template.HTML, error) {
	return rc.exec("formula", f)
}

// Rule is a horizontal divider.
type Rule struct{}

func (Rule) render(_ context.Context, rc *renderContext) (template.HTML, error) {
	return rc.exec("rule", nil)
}

// ---------------------------------------------------------------------------
// File-backed sections
// ---------------------------------------------------------------------------

// Document embeds a map export in a frame. Pair documents sit in a
// two-column row and follow the pair height control.
type Document struct {
	Asset Asset
	Title string
	Pair  bool
}

func (d Document) render(_ context.Context, rc *renderContext) (template.HTML, error) {
	path, err := rc.report.localPath(d.Asset)
	if err != nil {
		return rc.fail("File not found: "+d.Asset.Path, zap.Error(err))
	}

	text, err := rc.report.cache.GetOrLoad(path, rc.report.cfg.minify)
	if err != nil {
		return rc.fail("Failed to read file: "+d.Asset.Path+"\n\n"+err.Error(), zap.Error(err))
	}

	height, width := rc.controls.FullHeight, FullFrameWidth
	if d.Pair {
		height, width = rc.controls.PairHeight, PairFrameWidth
	}

	return rc.exec("document", struct {
		Title         string
		SrcDoc        string
		Width, Height int
	}{Title: d.Title, SrcDoc: text, Width: width, Height: height})
}

// Image shows a catalogued picture with an optional caption.
type Image struct {
	Asset   Asset
	Alt     string
	Caption string
}

func (i Image) render(_ context.Context, rc *renderContext) (template.HTML, error) {
	path, err := rc.report.localPath(i.Asset)
	if err != nil {
		return rc.fail("Image not found: "+i.Asset.Path, zap.Error(err))
	}

	var src template.URL
	if rc.standalone {
		uri, err := dataURI(path)
		if err != nil {
			return rc.fail("Image not found: "+i.Asset.Path, zap.Error(err))
		}
		src = uri
	} else {
		src = template.URL("/images/" + url.PathEscape(i.Asset.Name)) // #nosec G203 -- catalogued name, escaped
	}

	alt := i.Alt
	if alt == "" {
		alt = i.Caption
	}
	return rc.exec("image", struct {
		Src          template.URL
		Alt, Caption string
	}{Src: src, Alt: alt, Caption: i.Caption})
}

// TableSection shows a regression spreadsheet with a CSV download link.
type TableSection struct {
	Table Table
}

type tableView struct {
	ID, Heading    string
	Message        string
	Columns        []string
	Rows           [][]string
	CSVHref        template.URL
	CSVName, Label string
}

func (s TableSection) render(_ context.Context, rc *renderContext) (template.HTML, error) {
	t := s.Table
	view := tableView{ID: t.ID, Heading: t.Heading, CSVName: t.CSVName, Label: t.Label}

	tbl, err := rc.report.loadTable(t)
	switch {
	case errors.Is(err, ErrAssetMissing):
		view.Message = "File not found: " + t.Asset.Path
	case err != nil:
		view.Message = "Failed to load Excel file: " + t.Asset.Path + "\n\n" + err.Error()
	}
	if err != nil {
		rc.report.logger.Warn("section unavailable", zap.String("table", t.ID), zap.Error(err))
		return rc.exec("table", view)
	}

	view.Columns, view.Rows = tbl.Columns, tbl.Rows
	if rc.standalone {
		data, err := tbl.CSV()
		if err != nil {
			view.Message = "Failed to load Excel file: " + t.Asset.Path + "\n\n" + err.Error()
			return rc.exec("table", view)
		}
		view.CSVHref = template.URL("data:text/csv;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data)) // #nosec G203 -- generated
	} else {
		view.CSVHref = template.URL("/tables/" + url.PathEscape(t.ID) + ".csv") // #nosec G203 -- catalogued ID
	}
	return rc.exec("table", view)
}

// Row lays out two columns side by side. Each column renders its sections
// in order.
type Row struct {
	Left, Right []Section
}

func (r Row) render(ctx context.Context, rc *renderContext) (template.HTML, error) {
	left, err := renderAll(ctx, rc, r.Left)
	if err != nil {
		return "", err
	}
	right, err := renderAll(ctx, rc, r.Right)
	if err != nil {
		return "", err
	}
	return rc.exec("row", struct{ Left, Right []template.HTML }{left, right})
}

func renderAll(ctx context.Context, rc *renderContext, sections []Section) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(sections))
	for _, s := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h, err := s.render(ctx, rc)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Page
// ---------------------------------------------------------------------------

type sliderView struct {
	Value, Min, Max, Step int
}

type controlsView struct {
	Full, Pair sliderView
}

func newControlsView(c Controls) controlsView {
	return controlsView{
		Full: sliderView{Value: c.FullHeight, Min: FullHeightSlider.Min, Max: FullHeightSlider.Max, Step: FullHeightSlider.Step},
		Pair: sliderView{Value: c.PairHeight, Min: PairHeightSlider.Min, Max: PairHeightSlider.Max, Step: PairHeightSlider.Step},
	}
}

type pageData struct {
	Title, Caption string
	Style          template.CSS
	HighlightCSS   template.CSS
	Interactive    bool
	Controls       controlsView
	Notices        []Notice
	Sections       []template.HTML
	Stamp          string
}

// dataURI encodes the file at path as a data: URL.
func dataURI(path string) (template.URL, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- resolved inside the assets directory
	if err != nil {
		return "", err
	}
	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return template.URL("data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)), nil // #nosec G203 -- generated
}
