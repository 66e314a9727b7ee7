// Package totals injects a total bar and a spacer bar into category data for
// stacked comparison charts.
//
// # Overview
//
// [AddTotal] takes long-format rows of (category, value[, color]) and returns
// an [Augmented] table with:
//
//   - one total row per color (or one overall), tagged [PivotTotal]
//   - one blank spacer row per color (or one overall), tagged [PivotEmpty],
//     with an empty category and a zero value
//   - every input row, tagged [PivotOther]
//
// The total either relabels an existing category ([Options.TotalCategory])
// or is computed from the other rows with a [Formula]
// ([Options.ComputeTotal]). Exactly one of the two must be requested.
//
// # Ordering
//
// Rows are sorted by pivot rank, then by the first-occurrence order of their
// category, then of their color. With the total first the ranks are
//
//	total 0   spacer 0.5   other 1
//
// and with [Options.TotalLast] total and other swap, so the spacer always
// sits between the total and the rest. [Options.Descending] reverses the
// whole sequence. Horizontal bar charts draw the first row at the bottom,
// which is why [Horizontal] sorts descending.
//
// # Formulas
//
// Computed totals use [github.com/aclements/go-moremath/stats]. Standard
// deviation and variance are sample statistics; the median interpolates
// between the two middle values.
package totals
