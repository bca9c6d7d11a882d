package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultMaxFileSize is the upload limit applied when none is configured (10 MiB)
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

// DefaultExtensions are the spreadsheet formats accepted when none are configured
var DefaultExtensions = []string{".xlsx", ".xls"}

var (
	ErrUnsupportedFileType = errors.New("only Excel files (.xlsx, .xls) are accepted")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
	ErrEmptyFile           = errors.New("file contains no data")
	ErrUnreadableFile      = errors.New("file could not be read as a spreadsheet")
)

// RawRow is one data line of the uploaded sheet
type RawRow struct {
	// Line is the 1-based position among the sheet's data rows, header excluded,
	// counted before empty rows are dropped.
	Line  int
	Cells []string
}

// Table is a parsed sheet: header labels plus its non-empty data rows
type Table struct {
	Header           []string
	Rows             []RawRow
	EmptyRowsRemoved int
}

// Columns returns the header labels as they will be reported back to the caller
func (t *Table) Columns() []string {
	cols := make([]string, len(t.Header))
	for i, h := range t.Header {
		cols[i] = strings.TrimSpace(h)
	}
	return cols
}

// ReadOptions bounds what ReadTable accepts
type ReadOptions struct {
	MaxBytes          int64
	AllowedExtensions []string
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxFileSize
	}
	if len(o.AllowedExtensions) == 0 {
		o.AllowedExtensions = DefaultExtensions
	}
	return o
}

// ReadTable parses the first sheet of an uploaded spreadsheet into a Table.
// Fully empty rows are dropped; a file without any remaining data row is rejected.
func ReadTable(filename string, r io.Reader, opts ReadOptions) (*Table, error) {
	opts = opts.withDefaults()

	ext := strings.ToLower(filepath.Ext(filename))
	if !extensionAllowed(ext, opts.AllowedExtensions) {
		return nil, ErrUnsupportedFileType
	}

	data, err := io.ReadAll(io.LimitReader(r, opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > opts.MaxBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	var rows [][]string
	switch ext {
	case ".xls":
		rows, err = readXLS(data)
	default:
		rows, err = readXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	return buildTable(rows)
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	// Raw values keep numbers unformatted and dates as serials
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func buildTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return nil, ErrEmptyFile
	}

	table := &Table{Header: rows[0]}
	for i, cells := range rows[1:] {
		if isBlankRow(cells) {
			table.EmptyRowsRemoved++
			continue
		}
		table.Rows = append(table.Rows, RawRow{Line: i + 1, Cells: cells})
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyFile
	}
	return table, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
