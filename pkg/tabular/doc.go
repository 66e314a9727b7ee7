// Package tabular reads and writes the long-format tables the engines consume.
//
// # Overview
//
// Tables are [github.com/aclements/go-gg/table] values: named, equal-length,
// column slices. This package bridges them to the formats analysts actually
// keep their data in:
//
//   - CSV files with a header row ([ReadCSV])
//   - Excel workbooks ([ReadXLSX])
//   - JSON records, as sent to the HTTP API ([FromRecords], [Records])
//
// String cells are coerced the way go-gg coerces them: a column whose every
// cell parses as an integer becomes []int, one whose cells parse as numbers
// becomes []float64, anything else stays []string.
//
// # Column Access
//
// The engines read columns through [Strings], [Floats] and [Values], which
// convert whatever slice type a column holds and fail with an INVALID_INPUT
// error naming the missing or malformed column.
//
//	prices, err := tabular.Floats(t, "price")
//	periods, err := tabular.Strings(t, "period")
//
// # Import
//
// [Import] dispatches on the file extension:
//
//	t, err := tabular.Import("sales.xlsx", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// [WriteTable] prints an aligned text table; [WriteJSON] writes [Records].
package tabular
