// Package pvm decomposes period-over-period change into value, weight and mix
// effects, producing the steps of a waterfall (bridge) chart.
//
// # Overview
//
// Given observations of (group, period, value, weight), the total for a
// group in a period is value × weight. Between two adjacent periods the
// change in total is explained as:
//
//	value_effect  = (value − lag_value) × lag_weight
//	weight_effect = (weight − lag_weight) × lag_value
//	mix_effect    = (total − lag_total) − value_effect − weight_effect
//
// where lag_* is the group's observation in the previous period. Without
// groups there is no mix and the value effect is taken at the current
// weight, so the two effects alone account for the whole change:
//
//	value_effect  = (value − lag_value) × weight
//	weight_effect = (weight − lag_weight) × lag_value
//
// # Output
//
// A [Bridge] is an ordered list of [Step] values. The first period
// contributes only its total, an absolute anchor. Every later period
// contributes its effects (relative steps) followed by its own total:
//
//	FY23  " "            32000  absolute
//	FY24  value_effect    2500  relative
//	FY24  weight_effect   4500  relative
//	FY24  mix_effect       900  relative
//	FY24  "  "           39900  absolute
//
// With [Options.Breakdown] each group contributes its own effect steps.
// [Bridge.X], [Bridge.Y] and [Bridge.Measures] give the parallel sequences a
// waterfall trace expects; the x axis has two levels.
//
// # Labels
//
// Total steps carry a [Total] label numbered in emission order. Their text
// form is a run of that many blanks, which keeps every total distinct on a
// categorical axis. Effect steps carry a [Named] label.
//
// # Absent Groups
//
// A group missing from one of two adjacent periods is treated as present
// with zero weight at the other period's value. Its entry or exit then shows
// as a pure weight effect and the effects still sum to the change in total.
// Charts that dropped such rows instead showed no effect for the group at
// all, so their effect bars differ whenever groups enter or leave.
//
// # Concurrency
//
// [Decompose] and [DecomposeTable] hold no state and copy what they read;
// they are safe for concurrent use.
package pvm
