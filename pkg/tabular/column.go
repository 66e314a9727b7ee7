package tabular

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/errors"
)

// Strings returns column name of t rendered as strings. Numeric columns are
// formatted with %v so that a coerced year column such as 2023 reads back as
// "2023".
func Strings(t *table.Table, name string) ([]string, error) {
	col := t.Column(name)
	if col == nil {
		return nil, errors.MissingColumn("string", name)
	}
	if ss, ok := col.([]string); ok {
		return append([]string(nil), ss...), nil
	}
	rv := reflect.ValueOf(col)
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return out, nil
}

// Floats returns column name of t converted to float64. Non-numeric columns
// and non-finite values are rejected.
func Floats(t *table.Table, name string) (xs []float64, err error) {
	col := t.Column(name)
	if col == nil {
		return nil, errors.MissingColumn("numeric", name)
	}
	defer func() {
		if r := recover(); r != nil {
			xs, err = nil, errors.New(errors.ErrCodeInvalidInput, "column %q is not numeric: %v", name, r)
		}
	}()
	slice.Convert(&xs, col)
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "column %q row %d: non-finite value %v", name, i, x)
		}
	}
	return xs, nil
}

// Values returns column name of t as a slice of interface values, in row order.
func Values(t *table.Table, name string) ([]any, error) {
	col := t.Column(name)
	if col == nil {
		return nil, errors.MissingColumn("passthrough", name)
	}
	rv := reflect.ValueOf(col)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// Require checks that every named column exists in t.
// The first missing column is reported together with the role it plays.
func Require(t *table.Table, columns map[string]string) error {
	for _, field := range slices.Sorted(maps.Keys(columns)) {
		name := columns[field]
		if name == "" {
			continue
		}
		if t.Column(name) == nil {
			return errors.MissingColumn(field, name)
		}
	}
	return nil
}
