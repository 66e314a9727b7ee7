package compare

import (
	"math"
	"slices"
	"testing"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/errors"
)

func approx(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestCompute(t *testing.T) {
	primary := []float64{1500, 900, 2000}
	secondary := []float64{1000, 1200, 2000}

	tests := []struct {
		metric Metric
		values []float64
		text   []string
	}{
		{Lift, []float64{0.5, -0.25, 0}, []string{"0.50", "-0.25", "0.00"}},
		{Ratio, []float64{1.5, 0.75, 1}, []string{"1.500000x", "0.750000x", "1.000000x"}},
		{Difference, []float64{500, -300, 0}, []string{"500.0", "-300.0", "0.0"}},
		{Percentage, []float64{0.5, -0.25, 0}, []string{"50.0%", "-25.0%", "0.0%"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			res, err := Compute(primary, secondary, tt.metric, nil)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if !approx(res.Values, tt.values) {
				t.Errorf("Values = %v, want %v", res.Values, tt.values)
			}
			if !slices.Equal(res.Text, tt.text) {
				t.Errorf("Text = %q, want %q", res.Text, tt.text)
			}
			for _, n := range res.Normalized {
				if n < 0 || n > 1 {
					t.Errorf("Normalized = %v, want values in [0, 1]", res.Normalized)
				}
			}
		})
	}
}

func TestComputeThousandsSeparator(t *testing.T) {
	res, err := Compute([]float64{12345.67}, []float64{0}, Difference, nil)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Text[0] != "12,345.7" {
		t.Errorf("Text = %q, want 12,345.7", res.Text[0])
	}
}

func TestComputeDirection(t *testing.T) {
	res, err := Compute([]float64{2, 4}, []float64{1, 2}, Difference, []float64{-1, 1})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !approx(res.Values, []float64{-1, 2}) {
		t.Errorf("Values = %v", res.Values)
	}
	if !approx(res.Normalized, []float64{0, 1}) {
		t.Errorf("Normalized = %v", res.Normalized)
	}
}

func TestComputeErrors(t *testing.T) {
	if _, err := Compute([]float64{1}, nil, Lift, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("length mismatch err = %v", err)
	}
	if _, err := Compute([]float64{1}, []float64{1}, Lift, []float64{1, 1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("direction mismatch err = %v", err)
	}
	if _, err := Compute([]float64{1}, []float64{1}, "growth", nil); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("unknown metric err = %v", err)
	}
}

func TestParseMetrics(t *testing.T) {
	got, err := ParseMetrics([]string{"Lift", "ratio"})
	if err != nil || !slices.Equal(got, []Metric{Lift, Ratio}) {
		t.Errorf("ParseMetrics = %v, %v", got, err)
	}
	if _, err := ParseMetrics([]string{"lift", "speed"}); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("err = %v, want CONFIGURATION_ERROR", err)
	}
}

func TestMarkerSizes(t *testing.T) {
	metricOf := []string{"A", "A", "B", "B"}

	sizes, err := MarkerSizes(metricOf, []float64{10, 20, 30, 40}, false, 0)
	if err != nil {
		t.Fatalf("MarkerSizes: %v", err)
	}
	if want := []float64{5, 10, 7.5, 10}; !approx(sizes, want) {
		t.Errorf("relative to max = %v, want %v", sizes, want)
	}

	sizes, err = MarkerSizes(metricOf, []float64{10, 20, 30, 45}, true, 10)
	if err != nil {
		t.Fatalf("MarkerSizes: %v", err)
	}
	if want := []float64{10, 20, 10, 15}; !approx(sizes, want) {
		t.Errorf("relative to min = %v, want %v", sizes, want)
	}

	if _, err := MarkerSizes([]string{"A"}, []float64{0}, true, 10); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero reference err = %v", err)
	}
}

func TestFromTable(t *testing.T) {
	tab := new(table.Builder).
		Add("segment", []string{"Retail", "Online", "Wholesale"}).
		Add("this_year", []float64{120, 80, 200}).
		Add("last_year", []float64{100, 100, 150}).
		Done()

	c, err := FromTable(tab, Fields{Category: "segment", Primary: "this_year", Secondary: "last_year"}, []Metric{Percentage})
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	if want := []string{"Online", "Retail", "Wholesale"}; !slices.Equal(c.Categories, want) {
		t.Errorf("Categories = %v, want %v", c.Categories, want)
	}
	if c.Max() != 200 {
		t.Errorf("Max() = %v, want 200", c.Max())
	}
	if len(c.Results) != 1 || !slices.Equal(c.Results[0].Text, []string{"-20.0%", "20.0%", "33.3%"}) {
		t.Errorf("Results = %+v", c.Results)
	}

	_, err = FromTable(tab, Fields{Category: "segment", Primary: "this_year", Secondary: "budget"}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing column err = %v", err)
	}
}

func TestCategoricalFromTable(t *testing.T) {
	tab := new(table.Builder).
		Add("category", []string{"Dem", "Rep", "Dem", "Rep"}).
		Add("metric", []string{"A", "A", "B", "B"}).
		Add("value", []float64{10, 20, 30, 40}).
		Add("text", []string{"10%", "20%", "30%", "40%"}).
		Done()
	f := CategoricalFields{Category: "category", Metric: "metric", Value: "value", Text: "text"}

	c, err := CategoricalFromTable(tab, f, false)
	if err != nil {
		t.Fatalf("CategoricalFromTable: %v", err)
	}
	if want := []float64{5, 10, 7.5, 10}; !approx(c.Sizes, want) {
		t.Errorf("Sizes = %v, want %v", c.Sizes, want)
	}
	if !slices.Equal(c.Text, []string{"10%", "20%", "30%", "40%"}) {
		t.Errorf("Text = %v", c.Text)
	}
	if !slices.Equal(c.Categories, []string{"Dem", "Rep", "Dem", "Rep"}) {
		t.Errorf("Categories = %v, want input order", c.Categories)
	}

	c, err = CategoricalFromTable(tab, CategoricalFields{Category: "category", Metric: "metric", Value: "value"}, true)
	if err != nil {
		t.Fatalf("CategoricalFromTable: %v", err)
	}
	if want := []float64{10, 20, 10, 40.0 / 3}; !approx(c.Sizes, want) {
		t.Errorf("Sizes = %v, want %v", c.Sizes, want)
	}
	if len(c.Text) != 4 || c.Text[0] == "" {
		t.Errorf("Text = %v, want formatted values", c.Text)
	}

	_, err = CategoricalFromTable(tab, CategoricalFields{Category: "category", Metric: "metric", Value: "value", Size: "weight"}, true)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing size column err = %v", err)
	}
	_, err = CategoricalFromTable(tab, CategoricalFields{Category: "category", Value: "value"}, true)
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("missing metric field err = %v", err)
	}
}
