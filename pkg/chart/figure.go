package chart

import (
	"encoding/json"
	"fmt"
)

// Trace is one plotly trace. Only the fields the builders set are emitted.
type Trace struct {
	Type         string   `json:"type"`
	Name         string   `json:"name,omitempty"`
	X            any      `json:"x,omitempty"`
	Y            any      `json:"y,omitempty"`
	Measure      []string `json:"measure,omitempty"`
	Orientation  string   `json:"orientation,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	Text         []string `json:"text,omitempty"`
	TextPosition string   `json:"textposition,omitempty"`
	Marker       *Marker  `json:"marker,omitempty"`
	ShowLegend   *bool    `json:"showlegend,omitempty"`
	Connector    *Line    `json:"connector,omitempty"`
	Increasing   *Delta   `json:"increasing,omitempty"`
	Decreasing   *Delta   `json:"decreasing,omitempty"`
	Totals       *Delta   `json:"totals,omitempty"`
}

// Marker styles trace markers. Size and Color hold either a scalar or one
// value per point.
type Marker struct {
	Size    any     `json:"size,omitempty"`
	Color   any     `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Delta styles the increasing, decreasing or total bars of a waterfall.
type Delta struct {
	Marker Marker `json:"marker"`
}

// Line styles a line or shape outline.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Shape is a layout shape such as a dumbbell connector.
type Shape struct {
	Type string `json:"type"`
	X0   any    `json:"x0"`
	X1   any    `json:"x1"`
	Y0   any    `json:"y0"`
	Y1   any    `json:"y1"`
	Line Line   `json:"line"`
	Name string `json:"name,omitempty"`
}

// Annotation is a free text label.
type Annotation struct {
	X         any    `json:"x"`
	Y         any    `json:"y"`
	Text      string `json:"text"`
	ShowArrow bool   `json:"showarrow"`
}

// Title is a layout title.
type Title struct {
	Text string `json:"text"`
}

// Font is a layout font.
type Font struct {
	Family string `json:"family,omitempty"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// Axis configures one axis.
type Axis struct {
	Type          string `json:"type,omitempty"`
	CategoryOrder string `json:"categoryorder,omitempty"`
	Title         *Title `json:"title,omitempty"`
}

// Layout is the plotly figure layout.
type Layout struct {
	Title       *Title       `json:"title,omitempty"`
	BarMode     string       `json:"barmode,omitempty"`
	ShowLegend  *bool        `json:"showlegend,omitempty"`
	Font        *Font        `json:"font,omitempty"`
	Colorway    []string     `json:"colorway,omitempty"`
	XAxis       *Axis        `json:"xaxis,omitempty"`
	YAxis       *Axis        `json:"yaxis,omitempty"`
	Shapes      []Shape      `json:"shapes,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Figure is a complete plotly figure.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Option configures a figure built with [New].
type Option func(*Figure)

// WithTitle sets the figure title.
func WithTitle(s string) Option {
	return func(f *Figure) {
		if s != "" {
			f.Layout.Title = &Title{Text: s}
		}
	}
}

// WithTemplate applies the template's font and colorway to the layout.
func WithTemplate(t Template) Option {
	return func(f *Figure) {
		f.Layout.Font = &Font{Family: t.FontFamily, Size: t.FontSize, Color: t.TextColor}
		f.Layout.Colorway = append([]string(nil), t.Colorway...)
	}
}

// WithLayout merges layout settings produced by a builder.
func WithLayout(apply func(*Layout)) Option {
	return func(f *Figure) { apply(&f.Layout) }
}

// New assembles a figure from traces.
func New(traces []Trace, opts ...Option) *Figure {
	f := &Figure{Data: traces}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// JSON encodes the figure as indented JSON.
func (f *Figure) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode figure: %w", err)
	}
	return data, nil
}

func boolPtr(b bool) *bool { return &b }
