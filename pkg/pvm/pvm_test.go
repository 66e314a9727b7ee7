package pvm

import (
	"math"
	"slices"
	"testing"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/errors"
)

// products holds three products over three fiscal years; FY25 repeats FY23.
func products() []Observation {
	prices := map[string][3]float64{"A": {10, 11, 10}, "B": {15, 15, 15}, "C": {20, 23, 20}}
	volumes := map[string][3]float64{"A": {1000, 1000, 1000}, "B": {800, 700, 800}, "C": {500, 800, 500}}
	var obs []Observation
	for i, p := range []string{"FY23", "FY24", "FY25"} {
		for _, g := range []string{"A", "B", "C"} {
			obs = append(obs, Observation{Group: g, Period: p, Value: prices[g][i], Weight: volumes[g][i]})
		}
	}
	return obs
}

func approxEqual(a, b []float64) bool {
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

func TestDecomposeUngrouped(t *testing.T) {
	b, err := Decompose([]Observation{
		{Period: "FY23", Value: 10, Weight: 100},
		{Period: "FY24", Value: 11, Weight: 110},
	}, Options{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	x := b.X()
	if want := []string{"FY23", "FY24", "FY24", "FY24"}; !slices.Equal(x[0], want) {
		t.Errorf("outer = %q, want %q", x[0], want)
	}
	if want := []string{" ", "value_effect", "weight_effect", "  "}; !slices.Equal(x[1], want) {
		t.Errorf("inner = %q, want %q", x[1], want)
	}
	if want := []float64{1000, 110, 100, 1210}; !approxEqual(b.Y(), want) {
		t.Errorf("Y() = %v, want %v", b.Y(), want)
	}
	if want := []string{"absolute", "relative", "relative", "absolute"}; !slices.Equal(b.Measures(), want) {
		t.Errorf("Measures() = %v, want %v", b.Measures(), want)
	}
}

func TestDecomposeUngroupedMultiPeriod(t *testing.T) {
	b, err := Decompose([]Observation{
		{Period: "FY23", Value: 10, Weight: 100},
		{Period: "FY24", Value: 11, Weight: 110},
		{Period: "FY25", Value: 10, Weight: 100},
	}, Options{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if want := []float64{1000, 110, 100, 1210, -100, -110, 1000}; !approxEqual(b.Y(), want) {
		t.Errorf("Y() = %v, want %v", b.Y(), want)
	}
}

func TestDecomposeAggregated(t *testing.T) {
	b, err := Decompose(products(), Options{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if !b.Aggregated {
		t.Error("Aggregated = false, want true")
	}

	want := []float64{32000, 2500, 4500, 900, 39900, -3400, -5400, 900, 32000}
	if !approxEqual(b.Y(), want) {
		t.Errorf("Y() = %v, want %v", b.Y(), want)
	}

	x := b.X()
	wantOuter := []string{"FY23", "FY24", "FY24", "FY24", "FY24", "FY25", "FY25", "FY25", "FY25"}
	if !slices.Equal(x[0], wantOuter) {
		t.Errorf("outer = %q, want %q", x[0], wantOuter)
	}
	wantInner := []string{" ", "value_effect", "weight_effect", "mix_effect", "  ",
		"value_effect", "weight_effect", "mix_effect", "   "}
	if !slices.Equal(x[1], wantInner) {
		t.Errorf("inner = %q, want %q", x[1], wantInner)
	}
}

func TestDecomposeBreakdown(t *testing.T) {
	b, err := Decompose(products(), Options{Breakdown: true})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if b.Aggregated {
		t.Error("Aggregated = true, want false")
	}

	wantY := []float64{
		32000,
		1000, 0, 0, 0, -1500, 0, 1500, 6000, 900,
		39900,
		-1000, 0, 0, 0, 1500, 0, -2400, -6900, 900,
		32000,
	}
	if !approxEqual(b.Y(), wantY) {
		t.Errorf("Y() = %v, want %v", b.Y(), wantY)
	}

	wantOuter := []string{
		"FY23",
		"A ", "A ", "A ", "B ", "B ", "B ", "C ", "C ", "C ",
		"FY24",
		"A  ", "A  ", "A  ", "B  ", "B  ", "B  ", "C  ", "C  ", "C  ",
		"FY25",
	}
	if got := b.X()[0]; !slices.Equal(got, wantOuter) {
		t.Errorf("outer = %q, want %q", got, wantOuter)
	}
}

func TestDecomposeProperties(t *testing.T) {
	cases := map[string][]Observation{
		"products": products(),
		"entry and exit": {
			{Group: "A", Period: "Q1", Value: 2, Weight: 10},
			{Group: "B", Period: "Q1", Value: 5, Weight: 4},
			{Group: "A", Period: "Q2", Value: 3, Weight: 12},
			{Group: "C", Period: "Q2", Value: 7, Weight: 3},
			{Group: "B", Period: "Q3", Value: 6, Weight: 1},
			{Group: "C", Period: "Q3", Value: 8, Weight: 2},
		},
		"ungrouped": {
			{Period: "2022", Value: 1.5, Weight: 40},
			{Period: "2023", Value: 1.25, Weight: 55},
			{Period: "2024", Value: 2, Weight: 30},
		},
	}

	for name, obs := range cases {
		for _, breakdown := range []bool{false, true} {
			b, err := Decompose(obs, Options{Breakdown: breakdown})
			if err != nil {
				t.Fatalf("%s: Decompose: %v", name, err)
			}

			first := b.Steps[0]
			if !first.Label.IsTotal() || first.Measure != Absolute {
				t.Errorf("%s: first step = %+v, want absolute total", name, first)
			}
			if b.Steps[1].Period == first.Period {
				t.Errorf("%s: first period has more than its total", name)
			}

			sums := map[string]float64{}
			for _, s := range b.Steps {
				if s.Label.IsTotal() != (s.Measure == Absolute) {
					t.Errorf("%s: step %+v has mismatched measure", name, s)
				}
				if !s.Label.IsTotal() {
					sums[s.Period] += s.Amount
				}
			}
			for i := 1; i < len(b.Periods); i++ {
				cur, _ := b.Total(b.Periods[i])
				prev, _ := b.Total(b.Periods[i-1])
				if got := sums[b.Periods[i]]; math.Abs(got-(cur-prev)) > 1e-9 {
					t.Errorf("%s breakdown=%v: effects for %s sum to %v, want %v",
						name, breakdown, b.Periods[i], got, cur-prev)
				}
			}
		}
	}
}

func TestDecomposeAbsentGroups(t *testing.T) {
	b, err := Decompose([]Observation{
		{Group: "A", Period: "Q1", Value: 2, Weight: 10},
		{Group: "B", Period: "Q2", Value: 5, Weight: 4},
	}, Options{Breakdown: true})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	// A exits (-20 weight effect), B enters (+20 weight effect).
	want := []float64{20, 0, -20, 0, 0, 20, 0, 20}
	if !approxEqual(b.Y(), want) {
		t.Errorf("Y() = %v, want %v", b.Y(), want)
	}

	// Aggregated, A's exit (-20) and B's entry (+40) both land in the
	// weight effect; value and mix stay zero.
	agg, err := Decompose([]Observation{
		{Group: "A", Period: "Q1", Value: 2, Weight: 10},
		{Group: "B", Period: "Q2", Value: 5, Weight: 8},
	}, Options{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if want := []float64{20, 0, 20, 0, 40}; !approxEqual(agg.Y(), want) {
		t.Errorf("aggregated Y() = %v, want %v", agg.Y(), want)
	}
}

func TestDecomposePeriodOrder(t *testing.T) {
	obs := []Observation{
		{Period: "FY24", Value: 11, Weight: 110},
		{Period: "FY23", Value: 10, Weight: 100},
	}

	b, err := Decompose(obs, Options{})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if got := b.Periods; !slices.Equal(got, []string{"FY24", "FY23"}) {
		t.Errorf("Periods = %v, want first-appearance order", got)
	}

	b, err = Decompose(obs, Options{PeriodOrder: []string{"FY23", "FY24"}})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if want := []float64{1000, 110, 100, 1210}; !approxEqual(b.Y(), want) {
		t.Errorf("Y() = %v, want %v", b.Y(), want)
	}
}

func TestDecomposeErrors(t *testing.T) {
	tests := []struct {
		name string
		obs  []Observation
		opts Options
		code errors.Code
	}{
		{
			name: "empty",
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "duplicate period",
			obs:  []Observation{{Period: "a", Value: 1, Weight: 1}, {Period: "a", Value: 2, Weight: 1}},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "duplicate group period",
			obs:  []Observation{{Group: "g", Period: "a", Value: 1, Weight: 1}, {Group: "g", Period: "a", Value: 2, Weight: 1}},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "non-finite",
			obs:  []Observation{{Period: "a", Value: math.NaN(), Weight: 1}},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "period missing from order",
			obs:  []Observation{{Period: "a", Value: 1, Weight: 1}, {Period: "b", Value: 1, Weight: 1}},
			opts: Options{PeriodOrder: []string{"a"}},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "unknown period in order",
			obs:  []Observation{{Period: "a", Value: 1, Weight: 1}},
			opts: Options{PeriodOrder: []string{"a", "z"}},
			code: errors.ErrCodeNotFound,
		},
		{
			name: "duplicate period in order",
			obs:  []Observation{{Period: "a", Value: 1, Weight: 1}},
			opts: Options{PeriodOrder: []string{"a", "a"}},
			code: errors.ErrCodeConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompose(tt.obs, tt.opts)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (err = %v)", got, tt.code, err)
			}
		})
	}
}

func TestDecomposeTable(t *testing.T) {
	tab := new(table.Builder).
		Add("product", []string{"A", "B", "C", "A", "B", "C"}).
		Add("year", []int{2023, 2023, 2023, 2024, 2024, 2024}).
		Add("price", []float64{10, 15, 20, 11, 15, 23}).
		Add("volume", []int{1000, 800, 500, 1000, 700, 800}).
		Done()

	b, err := DecomposeTable(tab, Fields{Value: "price", Weight: "volume", Period: "year", Group: "product"}, Options{})
	if err != nil {
		t.Fatalf("DecomposeTable: %v", err)
	}
	if want := []float64{32000, 2500, 4500, 900, 39900}; !approxEqual(b.Y(), want) {
		t.Errorf("Y() = %v, want %v", b.Y(), want)
	}
	if got := b.X()[0][0]; got != "2023" {
		t.Errorf("first outer label = %q, want 2023", got)
	}

	_, err = DecomposeTable(tab, Fields{Value: "price", Weight: "units", Period: "year"}, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	if msg := errors.UserMessage(err); msg != `weight column "units" not found in input` {
		t.Errorf("message = %q", msg)
	}

	_, err = DecomposeTable(tab, Fields{Value: "price", Period: "year"}, Options{})
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("err = %v, want CONFIGURATION_ERROR", err)
	}
}

func TestLabelCompare(t *testing.T) {
	ordered := []Label{Named(ValueEffect), Named(WeightEffect), Named(MixEffect), Total(1), Total(2), Total(10)}
	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got != want {
				t.Errorf("Compare(%v, %v) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}

	if got := Total(3).String(); got != "   " {
		t.Errorf("Total(3).String() = %q", got)
	}
	if got := Named(MixEffect).String(); got != "mix_effect" {
		t.Errorf("Named(MixEffect).String() = %q", got)
	}
}
