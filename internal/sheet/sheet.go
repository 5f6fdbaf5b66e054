// Package sheet loads regression tables from XLSX workbooks and exports
// them as CSV.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sentinel errors for workbook operations.
var (
	ErrOpenWorkbook = errors.New("failed to open workbook")
	ErrNoSheets     = errors.New("workbook has no sheets")
	ErrNoSuchSheet  = errors.New("worksheet not found")
	ErrReadSheet    = errors.New("failed to read sheet")
	ErrEmptySheet   = errors.New("sheet has no header row")
	ErrParseCSV     = errors.New("failed to parse CSV")
)

// PreferredSheets are tried in order before falling back to the first sheet.
var PreferredSheets = []string{"Sheet1", "sheet 1"}

// Table is a rectangular grid of formatted cell values with a header row.
// Every row has exactly len(Columns) cells.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]string
}

// Load reads the preferred sheet of the workbook at path.
func Load(path string) (*Table, error) {
	return load(path, pickSheet)
}

// LoadSheet reads the sheet called name and nothing else.
// Returns ErrNoSuchSheet if the workbook has no such sheet.
func LoadSheet(path, name string) (*Table, error) {
	return load(path, func(f *excelize.File) (string, error) {
		for _, have := range f.GetSheetList() {
			if have == name {
				return have, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrNoSuchSheet, name)
	})
}

func load(path string, pick func(*excelize.File) (string, error)) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	name, err := pick(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrReadSheet, name, err)
	}

	t, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}
	t.Sheet = name
	return t, nil
}

// pickSheet returns the first preferred sheet present, else the first sheet.
func pickSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheets
	}
	for _, want := range PreferredSheets {
		for _, have := range sheets {
			if have == want {
				return have, nil
			}
		}
	}
	return sheets[0], nil
}

// FromRows builds a Table from raw rows, the first being the header.
// Blank header cells are named "Unnamed: <index>"; rows are padded or cut
// to the header width; fully blank trailing rows are dropped.
func FromRows(rows [][]string) (*Table, error) {
	rows = trimBlankTail(rows)
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}

	columns := make([]string, width)
	for i := range columns {
		if i < len(rows[0]) {
			columns[i] = strings.TrimSpace(rows[0][i])
		}
		if columns[i] == "" {
			columns[i] = "Unnamed: " + strconv.Itoa(i)
		}
	}

	body := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		row := make([]string, width)
		copy(row, r)
		body = append(body, row)
	}

	return &Table{Columns: columns, Rows: body}, nil
}

func trimBlankTail(rows [][]string) [][]string {
	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes the header and rows as CSV, without an index column.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// CSV returns the table as UTF-8 CSV bytes.
func (t *Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseCSV reads a table previously written by WriteCSV.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 0
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseCSV, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrParseCSV, ErrEmptySheet)
	}
	return &Table{Columns: records[0], Rows: records[1:]}, nil
}
