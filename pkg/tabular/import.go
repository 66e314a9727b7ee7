package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/slidechart/pkg/errors"
)

// Supported input formats, keyed by file extension.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

var formatFromExt = map[string]string{
	".csv":  FormatCSV,
	".xlsx": FormatXLSX,
	".xlsm": FormatXLSX,
	".json": FormatJSON,
}

// ReadCSV decodes a CSV document with a header row into a table.
//
// Columns are coerced to []int or []float64 when every cell parses as a
// number. An empty document or one with only a header is an INVALID_INPUT
// error. ReadCSV does not close r.
func ReadCSV(r io.Reader) (*table.Table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode csv")
	}
	return fromStrings(rows)
}

// ReadXLSX decodes one sheet of an Excel workbook into a table.
//
// The first row of the sheet is the header. An empty sheet name selects the
// first sheet; a sheet that does not exist is a NOT_FOUND error.
func ReadXLSX(r io.Reader, sheet string) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "workbook has no sheets")
		}
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, errors.NotFound("sheet %q not found (have %s)", sheet, strings.Join(sheets, ", "))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read sheet %s", sheet)
	}
	return fromStrings(rows)
}

// ReadJSON decodes [Records] from r into a table.
func ReadJSON(r io.Reader) (*table.Table, error) {
	var rec Records
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return FromRecords(rec.Columns, rec.Rows)
}

// Import reads the file at path, choosing the decoder from its extension.
// The sheet argument only applies to workbooks.
func Import(path, sheet string) (*table.Table, error) {
	format, ok := formatFromExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported input format %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatXLSX:
		return ReadXLSX(f, sheet)
	case FormatJSON:
		return ReadJSON(f)
	default:
		return ReadCSV(f)
	}
}

// fromStrings builds a coerced table from a header row and data rows.
// Ragged rows, as produced by spreadsheets that trim trailing empty cells,
// are padded to the header width.
func fromStrings(rows [][]string) (*table.Table, error) {
	if len(rows) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input needs a header row and at least one data row")
	}
	header := rows[0]
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if h == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "header contains an empty column name")
		}
		if seen[h] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate column %q", h)
		}
		seen[h] = true
	}

	body := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d has %d cells, header has %d", i+1, len(row), len(header))
		}
		if len(row) < len(header) {
			row = append(row, make([]string, len(header)-len(row))...)
		}
		body = append(body, row)
	}
	return table.TableFromStrings(header, body, true), nil
}
