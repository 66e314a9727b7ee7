package chart

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/compare"
	"github.com/matzehuels/slidechart/pkg/pvm"
	"github.com/matzehuels/slidechart/pkg/totals"
)

func bridge(t *testing.T) *pvm.Bridge {
	t.Helper()
	b, err := pvm.Decompose([]pvm.Observation{
		{Period: "FY23", Value: 10, Weight: 100},
		{Period: "FY24", Value: 11, Weight: 110},
	}, pvm.Options{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	return b
}

func TestWaterfall(t *testing.T) {
	names := DisplayNames{"value_effect": "Price", "weight_effect": "Volume", " ": "ignored"}
	tr := Waterfall(bridge(t), names, DefaultTemplate())

	if tr.Type != "waterfall" {
		t.Errorf("Type = %q, want waterfall", tr.Type)
	}
	x := tr.X.([2][]string)
	if want := []string{" ", "Price", "Volume", "  "}; !slices.Equal(x[1], want) {
		t.Errorf("inner = %q, want %q", x[1], want)
	}
	if want := []string{"absolute", "relative", "relative", "absolute"}; !slices.Equal(tr.Measure, want) {
		t.Errorf("Measure = %v, want %v", tr.Measure, want)
	}
}

func TestWaterfallFigureJSON(t *testing.T) {
	f := WaterfallFigure(bridge(t), nil, DefaultTemplate(), WithTitle("Revenue bridge"))
	data, err := f.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var decoded struct {
		Data []struct {
			Type    string     `json:"type"`
			X       [][]string `json:"x"`
			Y       []float64  `json:"y"`
			Measure []string   `json:"measure"`
		} `json:"data"`
		Layout struct {
			Title struct{ Text string } `json:"title"`
			XAxis struct{ Type string } `json:"xaxis"`
		} `json:"layout"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Data) != 1 || len(decoded.Data[0].X) != 2 {
		t.Fatalf("data = %+v", decoded.Data)
	}
	if decoded.Layout.Title.Text != "Revenue bridge" {
		t.Errorf("title = %q", decoded.Layout.Title.Text)
	}
	if decoded.Layout.XAxis.Type != "multicategory" {
		t.Errorf("xaxis type = %q", decoded.Layout.XAxis.Type)
	}
	if !slices.Equal(decoded.Data[0].Y, []float64{1000, 110, 100, 1210}) {
		t.Errorf("y = %v", decoded.Data[0].Y)
	}
}

func TestStackedBar(t *testing.T) {
	tab := new(table.Builder).
		Add("Country", []string{"All", "Germany", "All", "Germany"}).
		Add("Response", []string{"Yes", "Yes", "No", "No"}).
		Add("Share", []float64{60, 80, 40, 20}).
		Done()
	a, err := totals.AddTotal(tab, totals.Options{Category: "Country", Value: "Share", Color: "Response", TotalCategory: "All"})
	if err != nil {
		t.Fatalf("AddTotal: %v", err)
	}

	traces := StackedBar(a, false)
	if len(traces) != 2 {
		t.Fatalf("len(traces) = %d, want 2", len(traces))
	}
	if traces[0].Name != "Yes" || !slices.Equal(traces[0].X.([]string), []string{"All", "", "Germany"}) {
		t.Errorf("trace 0 = %+v", traces[0])
	}
	if !slices.Equal(traces[1].Y.([]float64), []float64{40, 0, 20}) {
		t.Errorf("trace 1 y = %v", traces[1].Y)
	}

	h := StackedBar(a, true)
	if h[0].Orientation != "h" || !slices.Equal(h[0].Y.([]string), []string{"All", "", "Germany"}) {
		t.Errorf("horizontal trace = %+v", h[0])
	}

	f := StackedBarFigure(a, true, DefaultTemplate())
	if f.Layout.BarMode != "stack" || f.Layout.YAxis == nil {
		t.Errorf("layout = %+v", f.Layout)
	}
}

func TestDumbbell(t *testing.T) {
	c := &compare.Comparison{
		Categories: []string{"Online", "Retail"},
		Primary:    []float64{80, 120},
		Secondary:  []float64{100, 100},
	}
	for _, m := range []compare.Metric{compare.Lift, compare.Difference} {
		res, err := compare.Compute(c.Primary, c.Secondary, m, nil)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		c.Results = append(c.Results, res)
	}

	tpl := DefaultTemplate()
	traces, shapes, notes := Dumbbell(c, "2024", "2023", tpl)
	if len(traces) != 4 || len(shapes) != 2 || len(notes) != 2 {
		t.Fatalf("got %d traces, %d shapes, %d notes", len(traces), len(shapes), len(notes))
	}

	badge := traces[2]
	if xs := badge.X.([]float64); xs[0] != 120 {
		t.Errorf("badge x = %v, want 120", xs)
	}
	if xs := traces[3].X.([]float64); xs[0] != 120.1 {
		t.Errorf("second badge x = %v, want 120.1", xs)
	}
	colors := badge.Marker.Color.([]string)
	if colors[0] != tpl.Negative || colors[1] != tpl.Positive {
		t.Errorf("badge colors = %v", colors)
	}
	if sizes := badge.Marker.Size.([]float64); !slices.Equal(sizes, []float64{10, 13}) {
		t.Errorf("badge sizes = %v", sizes)
	}
}

func TestCategoricalComparison(t *testing.T) {
	c := &compare.Categorical{
		Categories: []string{"Dem", "Rep"},
		Metrics:    []string{"A", "A"},
		Values:     []float64{10, 20},
		Text:       []string{"10%", "20%"},
		Sizes:      []float64{5, 10},
	}

	f := CategoricalComparisonFigure(c, DefaultTemplate())
	if len(f.Data) != 1 {
		t.Fatalf("len(Data) = %d, want 1", len(f.Data))
	}
	tr := f.Data[0]
	if tr.Type != "scatter" || tr.Mode != "markers+text" {
		t.Errorf("trace = %+v", tr)
	}
	if sizes := tr.Marker.Size.([]float64); !slices.Equal(sizes, []float64{5, 10}) {
		t.Errorf("marker sizes = %v", sizes)
	}
	if ys := tr.Y.([]string); !slices.Equal(ys, []string{"Dem", "Rep"}) {
		t.Errorf("y = %v", ys)
	}
	if f.Layout.XAxis == nil || f.Layout.XAxis.Type != "category" {
		t.Errorf("layout = %+v", f.Layout)
	}
}

func TestTemplateMerge(t *testing.T) {
	got := Template{Primary: "#000000"}.Merge(DefaultTemplate())
	if got.Primary != "#000000" {
		t.Errorf("Primary = %q", got.Primary)
	}
	if got.FontSize != DefaultTemplate().FontSize || len(got.Colorway) == 0 {
		t.Errorf("Merge did not fill defaults: %+v", got)
	}
}
