// Package chart packages engine output as plotly-compatible figure data.
//
// Nothing here renders. A [Figure] is the JSON document a plotly front end
// (plotly.js, or plotly.py via pio.from_json) turns into a chart:
//
//	{
//	  "data":   [{"type": "waterfall", "x": [[...], [...]], "y": [...], "measure": [...]}],
//	  "layout": {"title": {"text": "Revenue bridge"}, "showlegend": false}
//	}
//
// # Builders
//
//   - [Waterfall]: a bridge from [pvm.Bridge], with a two-level x axis
//   - [StackedBar]: one bar trace per color from [totals.Augmented]
//   - [Dumbbell]: paired markers and metric badges from [compare.Comparison]
//
// # Styling
//
// Fonts and colors come from a [Template] passed to [New] with
// [WithTemplate]. There is no package-level default template to mutate;
// [DefaultTemplate] returns a fresh value each call.
package chart
