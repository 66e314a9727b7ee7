package tabular

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/errors"
)

// Records is the row-oriented JSON form of a table.
//
//	{
//	  "columns": ["product", "period", "price", "volume"],
//	  "rows": [["A", "FY23", 10, 1000], ["A", "FY24", 11, 1000]]
//	}
type Records struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// FromRecords builds a table from row-oriented values.
//
// A column whose non-null cells are all numbers becomes []float64, with
// nulls read as NaN. Any other column becomes []string, with numbers
// formatted and nulls read as "".
func FromRecords(columns []string, rows [][]any) (*table.Table, error) {
	if len(columns) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "records have no columns")
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "records have no rows")
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}

	b := new(table.Builder)
	seen := make(map[string]bool, len(columns))
	for j, name := range columns {
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "column %d has no name", j)
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate column %q", name)
		}
		seen[name] = true

		cells := make([]any, len(rows))
		for i, row := range rows {
			cells[i] = row[j]
		}
		if xs, ok := numericCells(cells); ok {
			b.Add(name, xs)
		} else {
			b.Add(name, stringCells(cells))
		}
	}
	return b.Done(), nil
}

// ToRecords converts t back to row-oriented values. NaN cells become null.
func ToRecords(t *table.Table) Records {
	cols := t.Columns()
	rec := Records{Columns: append([]string(nil), cols...), Rows: make([][]any, t.Len())}
	for i := range rec.Rows {
		rec.Rows[i] = make([]any, len(cols))
	}
	for j, name := range cols {
		rv := reflect.ValueOf(t.Column(name))
		for i := 0; i < rv.Len(); i++ {
			v := rv.Index(i).Interface()
			if f, ok := v.(float64); ok && math.IsNaN(f) {
				v = nil
			}
			rec.Rows[i][j] = v
		}
	}
	return rec
}

// WriteJSON encodes t as indented [Records].
func WriteJSON(w io.Writer, t *table.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToRecords(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTable prints g as an aligned text table.
func WriteTable(w io.Writer, g table.Grouping) {
	table.Fprint(w, g)
}

func numericCells(cells []any) ([]float64, bool) {
	xs := make([]float64, len(cells))
	numeric := false
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
			xs[i] = math.NaN()
		case float64:
			xs[i], numeric = v, true
		case int:
			xs[i], numeric = float64(v), true
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return nil, false
			}
			xs[i], numeric = f, true
		default:
			return nil, false
		}
	}
	return xs, numeric
}

func stringCells(cells []any) []string {
	ss := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
		case string:
			ss[i] = v
		case float64:
			ss[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			ss[i] = fmt.Sprint(v)
		}
	}
	return ss
}
