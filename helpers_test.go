package primarybrief

// Notes:
// - Fixtures are written under t.TempDir(), so every test gets its own
//   assets directory and tests run in parallel.
// - Workbooks are built with excelize, the same library that reads them.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Assets fixture
// ---------------------------------------------------------------------------

// pngStub is enough of a PNG for data URI and file serving tests.
var pngStub = []byte("\x89PNG\r\n\x1a\nstub")

// mapDocument returns a small map export whose body names the asset.
func mapDocument(name string) string {
	return "<!DOCTYPE html><html><head><title>" + name + "</title></head><body><div id=\"map\">" + name + "</div></body></html>"
}

// regressionRows is the layout of a statsmodels summary exported to Excel.
var regressionRows = [][]any{
	{"", "coef", "std err", "z", "P>|z|"},
	{"const", -1.2345, 0.101, -12.2, 0.0},
	{"PDS", 2.5687, 0.312, 8.23, 0.0},
	{"Shannon", 0.4411, 0.2, 2.2, 0.028},
}

// writeFixture writes a complete assets directory and returns its path.
func writeFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for _, a := range Maps() {
		writeAsset(t, dir, a.Path, []byte(mapDocument(a.Name)))
	}
	for _, a := range Images() {
		writeAsset(t, dir, a.Path, pngStub)
	}
	for _, tbl := range Tables() {
		writeWorkbook(t, filepath.Join(dir, filepath.FromSlash(tbl.Asset.Path)), regressionRows)
	}
	return dir
}

// writeAsset writes data at the slash-separated rel path under dir.
func writeAsset(t *testing.T, dir, rel string, data []byte) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("creating parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", rel, err)
	}
}

// removeAsset deletes a fixture file.
func removeAsset(t *testing.T, dir, rel string) {
	t.Helper()

	if err := os.Remove(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
		t.Fatalf("removing %s: %v", rel, err)
	}
}

// writeWorkbook saves rows to Sheet1 of a new workbook at path.
func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	writeWorkbookSheet(t, path, "Sheet1", rows)
}

// writeWorkbookSheet saves rows to a workbook whose only sheet is named sheet.
func writeWorkbookSheet(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("renaming sheet: %v", err)
		}
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		row := r
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("writing row %d: %v", i, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
}

// newTestReport builds a Report over dir.
func newTestReport(t *testing.T, dir string, opts ...Option) *Report {
	t.Helper()

	r, err := New(append([]Option{WithAssetsDir(dir)}, opts...)...)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// renderPage renders r and returns the page.
func renderPage(t *testing.T, r *Report, opts RenderOptions) string {
	t.Helper()

	var buf bytes.Buffer
	if err := r.Render(context.Background(), &buf, opts); err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	return buf.String()
}

// assertContains fails when s does not contain every want.
func assertContains(t *testing.T, s string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(s, want) {
			t.Errorf("output should contain %q", want)
		}
	}
}

// assertNotContains fails when s contains any of unwanted.
func assertNotContains(t *testing.T, s string, unwanted ...string) {
	t.Helper()

	for _, u := range unwanted {
		if strings.Contains(s, u) {
			t.Errorf("output should not contain %q", u)
		}
	}
}
