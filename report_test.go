package primarybrief

// Notes:
// - Page assertions parse the output with golang.org/x/net/html where the
//   structure matters and fall back to substring checks for messages.
// - The remote origin is an httptest server; srv.Client() is passed so the
//   server's Close also drops idle connections.

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/alnah/go-primarybrief/internal/sheet"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Page inspection
// ---------------------------------------------------------------------------

// collect returns every element named tag in the parsed page.
func collect(t *testing.T, page, tag string) []*html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parsing page: %v", err)
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// fakeMinifier replaces any input with a fixed string.
type fakeMinifier struct {
	calls atomic.Int64
}

func (m *fakeMinifier) Minify(string) (string, error) {
	m.calls.Add(1)
	return "<p>minified</p>", nil
}

// ---------------------------------------------------------------------------
// TestNew - Construction
// ---------------------------------------------------------------------------

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	r := newTestReport(t, t.TempDir())
	if len(r.sections) == 0 {
		t.Fatal("default layout should not be empty")
	}
	if r.cfg.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want default", r.cfg.baseURL)
	}
	if !filepath.IsAbs(r.AssetsDir()) {
		t.Errorf("AssetsDir() = %q, want absolute", r.AssetsDir())
	}
}

func TestNew_MissingOverridesDir(t *testing.T) {
	t.Parallel()

	_, err := New(WithOverrides(filepath.Join(t.TempDir(), "nope")))
	if !errors.Is(err, ErrInvalidAssetPath) {
		t.Errorf("New() error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestNew_OverrideTemplateMissingPartial(t *testing.T) {
	t.Parallel()

	overrides := t.TempDir()
	writeAsset(t, overrides, "templates/page.html", []byte(`{{define "page"}}<p>only a page</p>{{end}}`))

	_, err := New(WithOverrides(overrides))
	if !errors.Is(err, ErrTemplate) {
		t.Errorf("New() error = %v, want ErrTemplate", err)
	}
}

func TestNew_OverrideContent(t *testing.T) {
	t.Parallel()

	overrides := t.TempDir()
	writeAsset(t, overrides, "content/intro.md", []byte("Replaced **introduction**."))

	r := newTestReport(t, writeFixture(t), WithOverrides(overrides))
	page := renderPage(t, r, RenderOptions{})
	assertContains(t, page, "Replaced <strong>introduction</strong>.")
}

// ---------------------------------------------------------------------------
// TestRender - Full page
// ---------------------------------------------------------------------------

func TestRender_CompletePage(t *testing.T) {
	t.Parallel()

	r := newTestReport(t, writeFixture(t))
	page := renderPage(t, r, RenderOptions{})

	frames := collect(t, page, "iframe")
	if len(frames) != 3 {
		t.Fatalf("got %d iframes, want 3", len(frames))
	}
	if got := attr(frames[0], "srcdoc"); got != mapDocument(MapOverlay.Name) {
		t.Errorf("overlay srcdoc = %q", got)
	}

	tables := collect(t, page, "table")
	if len(tables) != len(Tables()) {
		t.Errorf("got %d tables, want %d", len(tables), len(Tables()))
	}
	for _, tbl := range Tables() {
		assertContains(t, page, tbl.Heading, `href="/tables/`+tbl.ID+`.csv"`, `download="`+tbl.CSVName+`"`)
	}

	if imgs := collect(t, page, "img"); len(imgs) != len(Images()) {
		t.Errorf("got %d images, want %d", len(imgs), len(Images()))
	}
	assertContains(t, page,
		PageTitle,
		`src="/images/Queens%20Example.png"`,
		"West-Queens Example: Diversity and Voting Patterns",
		`\[H&#39; = -\sum_{i=1}^{S} p_i \ln(p_i)\]`,
		"Interpretation of Multinomial Logit Results",
		`<aside class="sidebar">`,
		`action="/refresh"`,
	)
	assertNotContains(t, page, `class="alert alert-error"`, "Psuedo")
}

func TestRender_SectionOrder(t *testing.T) {
	t.Parallel()

	r := newTestReport(t, writeFixture(t))
	page := renderPage(t, r, RenderOptions{})

	order := []string{
		"Overlay Results",
		"Diversity Heatmaps",
		"Five Models to Estimate",
		TableLogitFull.Heading,
		TableMultinomialUnweighted.Heading,
		"Interpretation of Multinomial Logit Results",
		TableMultinomialWeighted.Heading,
		"political strategy",
		"West-Queens Example",
	}
	last := -1
	for _, s := range order {
		i := strings.Index(page, s)
		if i < 0 {
			t.Fatalf("page missing %q", s)
		}
		if i < last {
			t.Errorf("%q appears out of order", s)
		}
		last = i
	}
}

func TestRender_Controls(t *testing.T) {
	t.Parallel()

	r := newTestReport(t, writeFixture(t))
	page := renderPage(t, r, RenderOptions{Controls: Controls{FullHeight: 805, PairHeight: 9999}})

	frames := collect(t, page, "iframe")
	if len(frames) != 3 {
		t.Fatalf("got %d iframes, want 3", len(frames))
	}

	tests := []struct {
		frame         *html.Node
		width, height string
	}{
		{frames[0], "2200", "800"},
		{frames[1], "1200", "1400"},
		{frames[2], "1200", "1400"},
	}
	for i, tt := range tests {
		if got := attr(tt.frame, "width"); got != tt.width {
			t.Errorf("frame %d width = %q, want %q", i, got, tt.width)
		}
		if got := attr(tt.frame, "height"); got != tt.height {
			t.Errorf("frame %d height = %q, want %q", i, got, tt.height)
		}
	}

	for _, in := range collect(t, page, "input") {
		switch attr(in, "name") {
		case ParamFullHeight:
			if v := attr(in, "value"); v != "800" {
				t.Errorf("full_h input value = %q, want 800", v)
			}
		case ParamPairHeight:
			if v := attr(in, "value"); v != "1400" {
				t.Errorf("pair_h input value = %q, want 1400", v)
			}
		}
	}
}

func TestRender_Standalone(t *testing.T) {
	t.Parallel()

	r := newTestReport(t, writeFixture(t))
	page := renderPage(t, r, RenderOptions{Standalone: true})

	assertNotContains(t, page, "<aside", `action="/refresh"`, `src="/images/`, `href="/tables/`)
	for _, img := range collect(t, page, "img") {
		if src := attr(img, "src"); !strings.HasPrefix(src, "data:image/png;base64,") {
			t.Errorf("img src = %.40q, want PNG data URI", src)
		}
	}
	for _, a := range collect(t, page, "a") {
		if attr(a, "class") != "download" {
			continue
		}
		if href := attr(a, "href"); !strings.HasPrefix(href, "data:text/csv;charset=utf-8;base64,") {
			t.Errorf("download href = %.40q, want CSV data URI", href)
		}
	}
	assertNotContains(t, page, `class="stamp"`)
}

func TestRender_Stamp(t *testing.T) {
	t.Parallel()

	r := newTestReport(t, writeFixture(t))
	page := renderPage(t, r, RenderOptions{Standalone: true, Stamp: "Exported <today>"})

	footers := collect(t, page, "footer")
	if len(footers) != 1 {
		t.Fatalf("footers = %d, want 1", len(footers))
	}
	assertContains(t, page, "Exported &lt;today&gt;")
}

func TestRender_CanceledContext(t *testing.T) {
	t.Parallel()

	r := newTestReport(t, writeFixture(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := r.Render(ctx, &buf, RenderOptions{})
	if !errors.Is(err, ErrRender) {
		t.Errorf("Render() error = %v, want ErrRender", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled in chain", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written when rendering fails")
	}
}

// ---------------------------------------------------------------------------
// TestRender_Isolation - Missing and broken files stay local to a section
// ---------------------------------------------------------------------------

func TestRender_MissingMapIsolated(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	removeAsset(t, dir, MapOverlay.Path)

	r := newTestReport(t, dir)
	page := renderPage(t, r, RenderOptions{})

	assertContains(t, page, "File not found: Primary Maps/overlay_results_top_with_slider_dots_bottom_static.html")
	if frames := collect(t, page, "iframe"); len(frames) != 2 {
		t.Errorf("got %d iframes, want the 2 remaining", len(frames))
	}
	if tables := collect(t, page, "table"); len(tables) != len(Tables()) {
		t.Errorf("got %d tables, all should still render", len(tables))
	}
	assertContains(t, page, "Diversity Heatmaps", "West-Queens Example")
}

func TestRender_MissingImageAndTable(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	removeAsset(t, dir, ImageQueens.Path)
	removeAsset(t, dir, TableLogitPartial.Asset.Path)

	r := newTestReport(t, dir)
	page := renderPage(t, r, RenderOptions{})

	assertContains(t, page,
		"Image not found: Queens Example.png",
		"File not found: LogitPartial.xlsx",
		TableLogitPartial.Heading,
	)
	assertNotContains(t, page, `href="/tables/logit-partial.csv"`)
	if tables := collect(t, page, "table"); len(tables) != len(Tables())-1 {
		t.Errorf("got %d tables, want %d", len(tables), len(Tables())-1)
	}
}

func TestRender_MalformedWorkbook(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	writeAsset(t, dir, TableLogitFull.Asset.Path, []byte("not a zip archive"))

	r := newTestReport(t, dir)
	page := renderPage(t, r, RenderOptions{})

	assertContains(t, page, "Failed to load Excel file: LogitFull.xlsx")
	assertContains(t, page, TableLogitBivariate.Heading, `href="/tables/logit-bivariate.csv"`)
}

func TestRender_SheetRequirement(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	for _, tbl := range []Table{TableLogitFull, TableLogitBivariate} {
		writeWorkbookSheet(t, filepath.Join(dir, filepath.FromSlash(tbl.Asset.Path)), "sheet 1", regressionRows)
	}

	r := newTestReport(t, dir)
	page := renderPage(t, r, RenderOptions{})

	// LogitFull must come from Sheet1; the bivariate table falls back.
	assertContains(t, page, "Failed to load Excel file: LogitFull.xlsx", "worksheet not found")
	assertContains(t, page, `href="/tables/logit-bivariate.csv"`)
	assertNotContains(t, page, `href="/tables/logit-full.csv"`)

	if _, _, err := r.TableCSV(TableLogitFull.ID); !errors.Is(err, ErrSheetRead) {
		t.Errorf("TableCSV() error = %v, want ErrSheetRead", err)
	}
}

// ---------------------------------------------------------------------------
// TestRender_Minify - Large documents go through the minifier
// ---------------------------------------------------------------------------

func TestRender_Minify(t *testing.T) {
	t.Parallel()

	big := "<html><body>" + strings.Repeat("<p>  x  </p>\n", 20_000) + "</body></html>"

	tests := []struct {
		name      string
		opts      func(m *fakeMinifier) []Option
		wantSrc   string
		wantCalls int64
	}{
		{
			name:      "minified when enabled",
			opts:      func(m *fakeMinifier) []Option { return []Option{WithMinifier(m)} },
			wantSrc:   "<p>minified</p>",
			wantCalls: 1,
		},
		{
			name:      "raw when disabled",
			opts:      func(m *fakeMinifier) []Option { return []Option{WithMinifier(m), WithMinify(false)} },
			wantSrc:   big,
			wantCalls: 0,
		},
		{
			name:      "raw without a minifier",
			opts:      func(*fakeMinifier) []Option { return []Option{WithMinifier(nil)} },
			wantSrc:   big,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeFixture(t)
			writeAsset(t, dir, MapOverlay.Path, []byte(big))

			m := &fakeMinifier{}
			r := newTestReport(t, dir, tt.opts(m)...)
			page := renderPage(t, r, RenderOptions{})
			_ = renderPage(t, r, RenderOptions{})

			frames := collect(t, page, "iframe")
			if len(frames) != 3 {
				t.Fatalf("got %d iframes, want 3", len(frames))
			}
			if got := attr(frames[0], "srcdoc"); got != tt.wantSrc {
				t.Errorf("srcdoc = %.60q, want %.60q", got, tt.wantSrc)
			}
			if got := m.calls.Load(); got != tt.wantCalls {
				t.Errorf("minifier calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestClearCache - Reset action re-reads documents
// ---------------------------------------------------------------------------

func TestClearCache(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	r := newTestReport(t, dir)

	_ = renderPage(t, r, RenderOptions{})
	writeAsset(t, dir, MapOverlay.Path, []byte("<p>updated overlay</p>"))

	page := renderPage(t, r, RenderOptions{})
	if got := attr(collect(t, page, "iframe")[0], "srcdoc"); got != mapDocument(MapOverlay.Name) {
		t.Errorf("before ClearCache srcdoc = %q, want cached text", got)
	}

	r.ClearCache()
	page = renderPage(t, r, RenderOptions{})
	if got := attr(collect(t, page, "iframe")[0], "srcdoc"); got != "<p>updated overlay</p>" {
		t.Errorf("after ClearCache srcdoc = %q, want updated text", got)
	}
}

// ---------------------------------------------------------------------------
// TestMaterialize - Missing maps are fetched once
// ---------------------------------------------------------------------------

func newReleaseOrigin(t *testing.T, status int) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write([]byte(mapDocument(filepath.Base(r.URL.Path))))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestMaterialize_FetchesMissingMapsOnce(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	for _, a := range Maps() {
		removeAsset(t, dir, a.Path)
	}
	srv, hits := newReleaseOrigin(t, http.StatusOK)

	r := newTestReport(t, dir, WithBaseURL(srv.URL+"/v1Maps/"), WithHTTPClient(srv.Client()))
	if err := r.Materialize(context.Background()); err != nil {
		t.Fatalf("Materialize() unexpected error: %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}

	for _, a := range Maps() {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(a.Path)))
		if err != nil {
			t.Fatalf("reading %s: %v", a.Path, err)
		}
		if string(data) != mapDocument(a.Name) {
			t.Errorf("%s content = %q, want response body", a.Path, data)
		}
	}

	if err := r.Materialize(context.Background()); err != nil {
		t.Fatalf("second Materialize() unexpected error: %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("requests after second call = %d, want still 3", got)
	}

	page := renderPage(t, r, RenderOptions{})
	assertContains(t, page, `class="alert alert-success"`, "Downloaded "+MapShannonIndex.Name)
	if frames := collect(t, page, "iframe"); len(frames) != 3 {
		t.Errorf("got %d iframes, want 3", len(frames))
	}
}

func TestMaterialize_FailureBecomesNotice(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	removeAsset(t, dir, MapOverlay.Path)
	srv, hits := newReleaseOrigin(t, http.StatusNotFound)

	r := newTestReport(t, dir, WithBaseURL(srv.URL+"/v1Maps/"), WithHTTPClient(srv.Client()))
	if err := r.Materialize(context.Background()); err != nil {
		t.Fatalf("Materialize() unexpected error: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("requests = %d, want 1 (only the missing map)", got)
	}

	var errs int
	for _, n := range r.Notices() {
		if n.Level == NoticeError {
			errs++
		}
	}
	if errs != 1 {
		t.Errorf("error notices = %d, want 1", errs)
	}

	page := renderPage(t, r, RenderOptions{})
	assertContains(t, page, `class="alert alert-error"`, "Failed to fetch "+MapOverlay.Name, "File not found: "+MapOverlay.Path)
}

func TestMaterialize_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTestReport(t, t.TempDir(), WithBaseURL("http://127.0.0.1:1/"))
	if err := r.Materialize(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Materialize() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestTableCSV - Export fidelity
// ---------------------------------------------------------------------------

func TestTableCSV_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	r := newTestReport(t, dir)

	for _, tbl := range Tables() {
		t.Run(tbl.ID, func(t *testing.T) {
			t.Parallel()

			name, data, err := r.TableCSV(tbl.ID)
			if err != nil {
				t.Fatalf("TableCSV() unexpected error: %v", err)
			}
			if name != tbl.CSVName {
				t.Errorf("name = %q, want %q", name, tbl.CSVName)
			}

			want, err := sheet.Load(filepath.Join(dir, filepath.FromSlash(tbl.Asset.Path)))
			if err != nil {
				t.Fatal(err)
			}
			got, err := sheet.ParseCSV(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("ParseCSV() unexpected error: %v", err)
			}
			if diff := cmp.Diff(want.Columns, got.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want.Rows, got.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableCSV_Errors(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	removeAsset(t, dir, TableLogitFull.Asset.Path)
	writeAsset(t, dir, TableLogitPartial.Asset.Path, []byte("garbage"))
	r := newTestReport(t, dir)

	tests := []struct {
		id      string
		wantErr error
	}{
		{"unknown", ErrUnknownTable},
		{TableLogitFull.ID, ErrAssetMissing},
		{TableLogitPartial.ID, ErrSheetRead},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			if _, _, err := r.TableCSV(tt.id); !errors.Is(err, tt.wantErr) {
				t.Errorf("TableCSV(%q) error = %v, want %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestImagePath / TestStatus
// ---------------------------------------------------------------------------

func TestImagePath(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	removeAsset(t, dir, ImageShannonVsZohran.Path)
	r := newTestReport(t, dir)

	path, err := r.ImagePath(ImageQueens.Name)
	if err != nil {
		t.Fatalf("ImagePath() unexpected error: %v", err)
	}
	if filepath.Base(path) != "Queens Example.png" {
		t.Errorf("ImagePath() = %q", path)
	}

	if _, err := r.ImagePath("../secrets.png"); !errors.Is(err, ErrUnknownImage) {
		t.Errorf("uncatalogued image error = %v, want ErrUnknownImage", err)
	}
	if _, err := r.ImagePath(ImageShannonVsZohran.Name); !errors.Is(err, ErrAssetMissing) {
		t.Errorf("missing image error = %v, want ErrAssetMissing", err)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	removeAsset(t, dir, MapShannonIndex.Path)
	r := newTestReport(t, dir)

	status := r.Status()
	if len(status) != len(Catalog()) {
		t.Fatalf("Status() has %d entries, want %d", len(status), len(Catalog()))
	}
	for _, st := range status {
		wantPresent := st.Asset != MapShannonIndex
		if st.Present != wantPresent {
			t.Errorf("%s: Present = %v, want %v", st.Asset.Path, st.Present, wantPresent)
		}
		if st.Present && st.Size == 0 {
			t.Errorf("%s: Size should be set for present files", st.Asset.Path)
		}
		if !strings.HasPrefix(st.LocalPath, r.AssetsDir()) {
			t.Errorf("%s: LocalPath %q outside assets dir", st.Asset.Path, st.LocalPath)
		}
	}
}
