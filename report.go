package primarybrief

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-primarybrief/internal/assets"
	"github.com/alnah/go-primarybrief/internal/fetch"
	"github.com/alnah/go-primarybrief/internal/pipeline"
	"github.com/alnah/go-primarybrief/internal/sheet"
	"github.com/alnah/go-primarybrief/internal/textcache"
)

// Notice is a viewer-facing message raised while materializing assets.
type Notice = fetch.Notice

// Notice levels.
const (
	NoticeInfo    = fetch.LevelInfo
	NoticeSuccess = fetch.LevelSuccess
	NoticeError   = fetch.LevelError
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ assets.AssetLoader     = (*assets.AssetResolver)(nil)
	_ fetch.Notifier         = (*fetch.NoticeLog)(nil)
	_ PDFRenderer            = (*rodRenderer)(nil)
)

// Report renders the election report page and serves its downloads.
// Create with New, and Close when done. Safe for concurrent use.
type Report struct {
	cfg          reportConfig
	data         *assets.DataDir
	loader       assets.AssetLoader
	materializer *fetch.Materializer
	notices      *fetch.NoticeLog
	cache        *textcache.Cache
	narrative    pipeline.HTMLConverter
	tmpl         *template.Template
	style        template.CSS
	highlight    template.CSS
	sections     []Section
	logger       *zap.Logger

	pdfMu sync.Mutex
	pdf   PDFRenderer
}

// RenderOptions are per-request rendering settings.
type RenderOptions struct {
	Controls Controls

	// Standalone inlines images and CSV downloads as data URIs and omits the
	// display controls, producing a page that works as a single file.
	Standalone bool

	// Stamp is printed at the foot of the page. Empty omits the footer.
	Stamp string
}

// AssetStatus reports whether a catalogued asset is present locally.
type AssetStatus struct {
	Asset     Asset
	LocalPath string
	Present   bool
	Size      int64
}

// New creates a Report. Nothing is downloaded until Materialize is called.
// Returns error if the assets directory, overrides or page template are invalid.
func New(opts ...Option) (*Report, error) {
	r := &Report{
		cfg: reportConfig{
			assetsDir:   ".",
			baseURL:     DefaultBaseURL,
			minify:      true,
			logger:      zap.NewNop(),
			timeout:     defaultTimeout,
			concurrency: defaultConcurrency,
		},
		notices:   &fetch.NoticeLog{},
		narrative: pipeline.NewGoldmarkConverter(),
		sections:  defaultSections(),
	}

	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.cfg.logger

	data, err := assets.NewDataDir(r.cfg.assetsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	r.data = data

	resolver, err := assets.NewAssetResolver(r.cfg.overridesDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	r.loader = resolver

	if err := r.loadPresentation(); err != nil {
		return nil, err
	}

	fetchOpts := []fetch.Option{
		fetch.WithNotifier(r.notices),
		fetch.WithLogger(r.logger.Named("fetch")),
	}
	if r.cfg.httpClient != nil {
		fetchOpts = append(fetchOpts, fetch.WithHTTPClient(r.cfg.httpClient))
	}
	r.materializer = fetch.New(r.cfg.baseURL, fetchOpts...)

	cacheOpts := []textcache.Option{textcache.WithLogger(r.logger.Named("textcache"))}
	switch {
	case r.cfg.noMinifier:
		cacheOpts = append(cacheOpts, textcache.WithMinifier(nil))
	case r.cfg.minifier != nil:
		cacheOpts = append(cacheOpts, textcache.WithMinifier(r.cfg.minifier))
	}
	r.cache = textcache.New(cacheOpts...)

	return r, nil
}

// loadPresentation parses the page template and stylesheets.
func (r *Report) loadPresentation() error {
	src, err := r.loader.LoadTemplate(assets.PageTemplateName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	tmpl, err := template.New(assets.PageTemplateName).Parse(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	for _, name := range partials {
		if tmpl.Lookup(name) == nil {
			return fmt.Errorf("%w: missing %q definition", ErrTemplate, name)
		}
	}
	r.tmpl = tmpl

	css, err := r.loader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	r.style = template.CSS(css) // #nosec G203 -- embedded or operator-provided stylesheet

	highlight, err := pipeline.HighlightCSS(pipeline.HighlightStyle)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	r.highlight = template.CSS(highlight) // #nosec G203 -- generated by chroma

	return nil
}

// Materialize downloads every missing remote asset, at most once each.
// Failures are recorded as notices, never returned; the error is non-nil
// only when ctx ends first.
func (r *Report) Materialize(ctx context.Context) error {
	type job struct{ name, local string }

	var jobs []job
	for _, a := range Catalog() {
		if !a.Remote {
			continue
		}
		local, err := r.data.Resolve(a.Path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		jobs = append(jobs, job{name: a.Name, local: local})
	}

	var g errgroup.Group
	g.SetLimit(r.cfg.concurrency)
	for _, j := range jobs {
		g.Go(func() error {
			r.materializer.EnsureLocal(ctx, j.name, j.local)
			return nil
		})
	}

	_ = g.Wait()
	return ctx.Err()
}

// Notices returns the notices raised so far, oldest first.
func (r *Report) Notices() []Notice {
	return r.notices.Notices()
}

// Render writes the full page to w. Section-level problems (missing or
// unreadable files) are rendered in place; the error is reserved for
// template failures and cancellation.
func (r *Report) Render(ctx context.Context, w io.Writer, opts RenderOptions) error {
	start := time.Now()
	controls := opts.Controls.Normalize()
	rc := &renderContext{report: r, controls: controls, standalone: opts.Standalone}

	out := make([]template.HTML, len(r.sections))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.concurrency)
	for i, s := range r.sections {
		g.Go(func() error {
			h, err := s.render(gctx, rc)
			if err != nil {
				return err
			}
			out[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	page := pageData{
		Title:        PageTitle,
		Caption:      PageCaption,
		Style:        r.style,
		HighlightCSS: r.highlight,
		Interactive:  !opts.Standalone,
		Controls:     newControlsView(controls),
		Notices:      r.Notices(),
		Sections:     out,
		Stamp:        opts.Stamp,
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", page); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	r.logger.Debug("page rendered",
		zap.Int("sections", len(out)),
		zap.Bool("standalone", opts.Standalone),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// TableCSV returns the CSV export of the table with the given ID along with
// its download file name.
func (r *Report) TableCSV(id string) (name string, data []byte, err error) {
	t, ok := LookupTable(id)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownTable, id)
	}
	tbl, err := r.loadTable(t)
	if err != nil {
		return "", nil, err
	}
	data, err = tbl.CSV()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", ErrSheetRead, t.Asset.Path, err)
	}
	return t.CSVName, data, nil
}

// loadTable reads the spreadsheet behind t.
func (r *Report) loadTable(t Table) (*sheet.Table, error) {
	path, err := r.localPath(t.Asset)
	if err != nil {
		return nil, err
	}
	var tbl *sheet.Table
	if t.Sheet != "" {
		tbl, err = sheet.LoadSheet(path, t.Sheet)
	} else {
		tbl, err = sheet.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSheetRead, t.Asset.Path, err)
	}
	return tbl, nil
}

// ImagePath returns the local path of the catalogued image named name.
func (r *Report) ImagePath(name string) (string, error) {
	a, ok := LookupImage(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownImage, name)
	}
	return r.localPath(a)
}

// localPath resolves a and checks the file is present.
func (r *Report) localPath(a Asset) (string, error) {
	path, err := r.data.Resolve(a.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrAssetMissing, a.Path)
	}
	return path, nil
}

// ClearCache drops memoized map documents; the next render re-reads them.
func (r *Report) ClearCache() {
	r.cache.Clear()
	r.logger.Info("text cache cleared")
}

// Status reports local presence of every catalogued asset.
func (r *Report) Status() []AssetStatus {
	catalog := Catalog()
	out := make([]AssetStatus, 0, len(catalog))
	for _, a := range catalog {
		st := AssetStatus{Asset: a}
		if path, err := r.data.Resolve(a.Path); err == nil {
			st.LocalPath = path
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				st.Present = true
				st.Size = info.Size()
			}
		}
		out = append(out, st)
	}
	return out
}

// AssetsDir returns the absolute assets directory.
func (r *Report) AssetsDir() string {
	return r.data.Root()
}

// Close releases the PDF renderer, if one was started.
func (r *Report) Close() error {
	r.pdfMu.Lock()
	defer r.pdfMu.Unlock()
	if r.pdf == nil {
		return nil
	}
	err := r.pdf.Close()
	r.pdf = nil
	return err
}
