package chart

import (
	"github.com/matzehuels/slidechart/pkg/compare"
	"github.com/matzehuels/slidechart/pkg/pvm"
	"github.com/matzehuels/slidechart/pkg/totals"
)

// DisplayNames maps effect names to the labels shown on the chart.
// Names without an entry are shown as-is; totals are never renamed.
type DisplayNames map[string]string

// Rename returns the display form of an inner axis label.
func (d DisplayNames) Rename(label string) string {
	if v, ok := d[label]; ok && v != "" {
		return v
	}
	return label
}

// Waterfall builds a waterfall trace from a bridge.
func Waterfall(b *pvm.Bridge, names DisplayNames, t Template) Trace {
	x := b.X()
	inner := make([]string, len(x[1]))
	for i, s := range b.Steps {
		if s.Label.IsTotal() {
			inner[i] = x[1][i]
			continue
		}
		inner[i] = names.Rename(x[1][i])
	}
	return Trace{
		Type:       "waterfall",
		X:          [2][]string{x[0], inner},
		Y:          b.Y(),
		Measure:    b.Measures(),
		Connector:  &Line{Color: t.Line, Width: 1},
		Increasing: &Delta{Marker: Marker{Color: t.Positive}},
		Decreasing: &Delta{Marker: Marker{Color: t.Negative}},
		Totals:     &Delta{Marker: Marker{Color: t.Total}},
	}
}

// WaterfallFigure wraps [Waterfall] in a figure with a multi-category x axis.
func WaterfallFigure(b *pvm.Bridge, names DisplayNames, t Template, opts ...Option) *Figure {
	opts = append([]Option{
		WithTemplate(t),
		WithLayout(func(l *Layout) {
			l.ShowLegend = boolPtr(false)
			l.XAxis = &Axis{Type: "multicategory"}
		}),
	}, opts...)
	return New([]Trace{Waterfall(b, names, t)}, opts...)
}

// StackedBar builds one bar trace per color, or a single trace when the
// table has no color. Horizontal bars put values on x and categories on y.
func StackedBar(a *totals.Augmented, horizontal bool) []Trace {
	colors := a.Colors()
	if colors == nil {
		colors = []string{""}
	}

	traces := make([]Trace, 0, len(colors))
	for _, c := range colors {
		var cats []string
		var vals []float64
		for _, r := range a.Rows {
			if a.Color != "" && r.Color != c {
				continue
			}
			cats = append(cats, r.Category)
			vals = append(vals, r.Value)
		}
		tr := Trace{Type: "bar", Name: c, X: cats, Y: vals}
		if horizontal {
			tr.X, tr.Y, tr.Orientation = vals, cats, "h"
		}
		traces = append(traces, tr)
	}
	return traces
}

// StackedBarFigure wraps [StackedBar] in a stacked figure. Category order is
// pinned to row order so the spacer stays between the total and the rest.
func StackedBarFigure(a *totals.Augmented, horizontal bool, t Template, opts ...Option) *Figure {
	opts = append([]Option{
		WithTemplate(t),
		WithLayout(func(l *Layout) {
			l.BarMode = "stack"
			l.ShowLegend = boolPtr(a.Color != "")
			axis := &Axis{Type: "category", CategoryOrder: "trace"}
			if horizontal {
				l.YAxis = axis
			} else {
				l.XAxis = axis
			}
		}),
	}, opts...)
	return New(StackedBar(a, horizontal), opts...)
}

// Metric badges are placed right of the largest value, one column per metric.
const (
	badgeOffset   = 0.1
	badgeBaseSize = 10
	badgeScale    = 3
	dumbbellSize  = 15
)

// Dumbbell builds the traces and shapes of a dumbbell chart: a connector per
// category, primary and secondary markers, and one badge column per metric
// sized by the normalized metric value.
func Dumbbell(c *compare.Comparison, primaryName, secondaryName string, t Template) ([]Trace, []Shape, []Annotation) {
	shapes := make([]Shape, len(c.Categories))
	for i, cat := range c.Categories {
		shapes[i] = Shape{
			Type: "line",
			X0:   c.Primary[i], X1: c.Secondary[i],
			Y0: cat, Y1: cat,
			Line: Line{Color: t.Line, Width: 1},
		}
	}

	traces := []Trace{
		{Type: "scatter", Name: primaryName, X: c.Primary, Y: c.Categories, Mode: "markers",
			Marker: &Marker{Size: dumbbellSize, Color: t.Primary}},
		{Type: "scatter", Name: secondaryName, X: c.Secondary, Y: c.Categories, Mode: "markers",
			Marker: &Marker{Size: dumbbellSize, Color: t.Secondary}},
	}

	var notes []Annotation
	top := c.Max()
	for i, res := range c.Results {
		x := top + badgeOffset*float64(i)
		xs := make([]float64, len(c.Categories))
		sizes := make([]float64, len(c.Categories))
		colors := make([]string, len(c.Categories))
		for j := range c.Categories {
			xs[j] = x
			sizes[j] = badgeBaseSize + res.Normalized[j]*badgeScale
			colors[j] = t.Negative
			if res.Values[j] > 0 {
				colors[j] = t.Positive
			}
		}
		traces = append(traces, Trace{
			Type: "scatter", Name: string(res.Metric), X: xs, Y: c.Categories,
			Mode: "text+markers", Text: res.Text, ShowLegend: boolPtr(false),
			Marker: &Marker{Size: sizes, Color: colors, Opacity: 0.5},
		})
		notes = append(notes, Annotation{X: x, Y: float64(len(c.Categories)) - 0.5, Text: string(res.Metric)})
	}
	return traces, shapes, notes
}

// DumbbellFigure wraps [Dumbbell] in a figure.
func DumbbellFigure(c *compare.Comparison, primaryName, secondaryName string, t Template, opts ...Option) *Figure {
	traces, shapes, notes := Dumbbell(c, primaryName, secondaryName, t)
	opts = append([]Option{
		WithTemplate(t),
		WithLayout(func(l *Layout) {
			l.Shapes = shapes
			l.Annotations = notes
		}),
	}, opts...)
	return New(traces, opts...)
}

// CategoricalComparison builds a single scatter trace with one marker per
// row: metric on x, category on y, marker size taken from the comparison.
func CategoricalComparison(c *compare.Categorical, t Template) Trace {
	return Trace{
		Type:         "scatter",
		X:            c.Metrics,
		Y:            c.Categories,
		Mode:         "markers+text",
		Text:         c.Text,
		TextPosition: "middle center",
		Marker:       &Marker{Size: c.Sizes, Color: t.Primary},
	}
}

// CategoricalComparisonFigure wraps [CategoricalComparison] in a figure with
// categorical axes in row order.
func CategoricalComparisonFigure(c *compare.Categorical, t Template, opts ...Option) *Figure {
	opts = append([]Option{
		WithTemplate(t),
		WithLayout(func(l *Layout) {
			l.ShowLegend = boolPtr(false)
			l.XAxis = &Axis{Type: "category", CategoryOrder: "trace"}
			l.YAxis = &Axis{Type: "category", CategoryOrder: "trace"}
		}),
	}, opts...)
	return New([]Trace{CategoricalComparison(c, t)}, opts...)
}
