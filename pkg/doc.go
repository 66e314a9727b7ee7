// Package pkg provides the core libraries for slidechart, which turns tabular
// business data into presentation-ready chart figures.
//
// # Overview
//
// Each analysis reads a table, computes the derived table a chart needs, and
// builds a Plotly-compatible figure from it:
//
//	CSV / XLSX / JSON records
//	         ↓
//	    [tabular] package (column extraction, import, records)
//	         ↓
//	    [pvm] / [totals] / [compare] (analysis)
//	         ↓
//	    [chart] package (waterfall, stacked bar, dumbbell figures)
//	         ↓
//	    JSON figure + derived table
//
// [pipeline] ties these together behind a single [pipeline.Options] value and
// is shared by the CLI and the HTTP API.
//
// # Quick Start
//
//	t, _ := tabular.Import("sales.csv", "")
//	res, err := pipeline.NewRunner(nil, nil).Execute(ctx, t, pipeline.Options{
//	    Kind:   pipeline.KindPriceVolumeMix,
//	    Value:  "price",
//	    Weight: "volume",
//	    Period: "year",
//	    Group:  "product",
//	})
//	data, _ := res.Figure.JSON()
//
// # Packages
//
// [errors] - Coded errors shared by all packages, mapped to HTTP statuses by
// the API.
//
// [ordering] - Ordering of categories and periods by first appearance or by an
// explicit list.
//
// [config] - TOML/YAML configuration with SLIDECHART_* environment overrides.
//
// [observability] - Hooks around analyses and HTTP requests.
//
// [buildinfo] - Version information set at build time.
package pkg
