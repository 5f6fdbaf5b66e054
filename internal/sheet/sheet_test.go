package sheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Workbook builder
// ---------------------------------------------------------------------------

// writeWorkbook saves a workbook whose sheets are named and filled in order.
// The default "Sheet1" is renamed to the first entry.
func writeWorkbook(t *testing.T, sheets []string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, name := range sheets {
		if i == 0 {
			if name != "Sheet1" {
				if err := f.SetSheetName("Sheet1", name); err != nil {
					t.Fatalf("renaming sheet: %v", err)
				}
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("adding sheet: %v", err)
		}
	}

	// Only the target sheet gets the regression rows; others get a marker.
	target := sheets[len(sheets)-1]
	for _, name := range sheets {
		if name == target {
			continue
		}
		if err := f.SetCellValue(name, "A1", "decoy"); err != nil {
			t.Fatal(err)
		}
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		row := r
		if err := f.SetSheetRow(target, cell, &row); err != nil {
			t.Fatalf("writing row %d: %v", i, err)
		}
	}

	path := filepath.Join(t.TempDir(), "LogitFull.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

var logitRows = [][]any{
	{"", "coef", "std err", "z", "P>|z|"},
	{"Personal Diversity Score", 2.5687, 0.31, 8.29, "0.000"},
	{"In Public Housing", -0.84, 0.12, -7.0, "0.000"},
	{"Turnout", 1.12, 0.2, 5.6},
}

// ---------------------------------------------------------------------------
// TestLoad - Workbook reading and sheet fallback
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	want := &Table{
		Columns: []string{"Unnamed: 0", "coef", "std err", "z", "P>|z|"},
		Rows: [][]string{
			{"Personal Diversity Score", "2.5687", "0.31", "8.29", "0.000"},
			{"In Public Housing", "-0.84", "0.12", "-7", "0.000"},
			{"Turnout", "1.12", "0.2", "5.6", ""},
		},
	}

	tests := []struct {
		name      string
		sheets    []string
		wantSheet string
	}{
		{name: "Sheet1", sheets: []string{"Sheet1"}, wantSheet: "Sheet1"},
		{name: "lowercase sheet 1", sheets: []string{"sheet 1"}, wantSheet: "sheet 1"},
		{name: "falls back to first sheet", sheets: []string{"Results"}, wantSheet: "Results"},
		{name: "Sheet1 preferred over first", sheets: []string{"Notes", "Sheet1"}, wantSheet: "Sheet1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeWorkbook(t, tt.sheets, logitRows)

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.Sheet != tt.wantSheet {
				t.Errorf("Sheet = %q, want %q", got.Sheet, tt.wantSheet)
			}
			if diff := cmp.Diff(want.Columns, got.Columns); diff != "" {
				t.Errorf("Columns mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want.Rows, got.Rows); diff != "" {
				t.Errorf("Rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not a workbook", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.xlsx")
		if err := os.WriteFile(path, []byte("this is not a zip archive"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, ErrOpenWorkbook) {
			t.Errorf("Load() error = %v, want ErrOpenWorkbook", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := Load(filepath.Join(t.TempDir(), "absent.xlsx")); !errors.Is(err, ErrOpenWorkbook) {
			t.Errorf("Load() error = %v, want ErrOpenWorkbook", err)
		}
	})

	t.Run("empty sheet", func(t *testing.T) {
		t.Parallel()

		path := writeWorkbook(t, []string{"Sheet1"}, nil)
		if _, err := Load(path); !errors.Is(err, ErrEmptySheet) {
			t.Errorf("Load() error = %v, want ErrEmptySheet", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadSheet - Named sheet, no fallback
// ---------------------------------------------------------------------------

func TestLoadSheet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		sheets  []string
		want    string
		wantErr error
	}{
		{name: "present", sheets: []string{"Notes", "Sheet1"}, want: "Sheet1"},
		{name: "lowercase variant rejected", sheets: []string{"sheet 1"}, wantErr: ErrNoSuchSheet},
		{name: "first sheet not used", sheets: []string{"Results"}, wantErr: ErrNoSuchSheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadSheet(writeWorkbook(t, tt.sheets, logitRows), "Sheet1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadSheet() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadSheet() error = %v", err)
			}
			if got.Sheet != tt.want || len(got.Rows) != 3 {
				t.Errorf("LoadSheet() = sheet %q with %d rows, want %q with 3", got.Sheet, len(got.Rows), tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFromRows - Header naming and padding
// ---------------------------------------------------------------------------

func TestFromRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rows    [][]string
		want    *Table
		wantErr error
	}{
		{
			name: "pads short rows and names blank headers",
			rows: [][]string{{"", "coef"}, {"x"}, {"y", "1", "extra"}},
			want: &Table{
				Columns: []string{"Unnamed: 0", "coef", "Unnamed: 2"},
				Rows:    [][]string{{"x", "", ""}, {"y", "1", "extra"}},
			},
		},
		{
			name: "drops blank trailing rows",
			rows: [][]string{{"a"}, {"1"}, {" "}, {}},
			want: &Table{Columns: []string{"a"}, Rows: [][]string{{"1"}}},
		},
		{
			name: "header only",
			rows: [][]string{{"a", "b"}},
			want: &Table{Columns: []string{"a", "b"}, Rows: [][]string{}},
		},
		{
			name:    "no rows",
			rows:    nil,
			wantErr: ErrEmptySheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FromRows(tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FromRows() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromRows() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromRows() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCSVRoundTrip - Export fidelity
// ---------------------------------------------------------------------------

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	tricky := &Table{
		Columns: []string{"Unnamed: 0", "coef", "note"},
		Rows: [][]string{
			{"Personal Diversity Score", "7.7009", "comma, inside"},
			{"% Multi Lingual", "-0.1", "quote \"here\""},
			{"Turnout", "", "line\nbreak"},
		},
	}

	data, err := tricky.CSV()
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	back, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if diff := cmp.Diff(tricky.Columns, back.Columns); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tricky.Rows, back.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVRoundTrip_FromWorkbook(t *testing.T) {
	t.Parallel()

	table, err := Load(writeWorkbook(t, []string{"Sheet1"}, logitRows))
	if err != nil {
		t.Fatal(err)
	}
	data, err := table.CSV()
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(table.Rows, back.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCSV_HeaderFirst(t *testing.T) {
	t.Parallel()

	table := &Table{Columns: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}
	data, err := table.CSV()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "a,b\n1,2\n"; got != want {
		t.Errorf("CSV() = %q, want %q", got, want)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "ragged rows", input: "a,b\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseCSV(bytes.NewReader([]byte(tt.input))); !errors.Is(err, ErrParseCSV) {
				t.Errorf("ParseCSV(%q) error = %v, want ErrParseCSV", tt.input, err)
			}
		})
	}
}
