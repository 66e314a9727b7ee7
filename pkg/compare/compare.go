// Package compare computes side-by-side comparison metrics for dumbbell and
// categorical comparison charts.
//
// [Compute] derives one metric (lift, ratio, difference or percentage)
// between a primary and a secondary series, together with min-max
// normalized values for marker sizing and display text. [MarkerSizes]
// scales values relative to the smallest or largest value of their metric.
package compare

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/slidechart/pkg/errors"
)

// Metric is a comparison between two series.
type Metric string

// Supported metrics.
const (
	Lift       Metric = "lift"
	Ratio      Metric = "ratio"
	Difference Metric = "difference"
	Percentage Metric = "percentage"
)

var metrics = []Metric{Lift, Ratio, Difference, Percentage}

// Metrics returns every supported metric.
func Metrics() []Metric { return slices.Clone(metrics) }

// ParseMetric maps a case-insensitive name to a Metric.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(metrics, m) {
		return "", errors.Configuration("invalid comparison metric %q: choose from %v", s, metrics)
	}
	return m, nil
}

// ParseMetrics parses a list of metric names, rejecting the first invalid one.
func ParseMetrics(names []string) ([]Metric, error) {
	out := make([]Metric, 0, len(names))
	for _, n := range names {
		m, err := ParseMetric(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Result holds a metric computed row by row.
type Result struct {
	Metric     Metric    `json:"metric"`
	Values     []float64 `json:"values"`
	Normalized []float64 `json:"normalized"`
	Text       []string  `json:"text"`
}

var printer = message.NewPrinter(language.English)

// Compute evaluates m for each pair of primary and secondary values.
//
// direction, when non-nil, multiplies each value so that a decrease can be
// shown as an improvement. Normalized values are min-max scaled to [0, 1];
// when every value is equal they are all 0.
func Compute(primary, secondary []float64, m Metric, direction []float64) (Result, error) {
	if len(primary) != len(secondary) {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "primary has %d values, secondary has %d", len(primary), len(secondary))
	}
	if direction != nil && len(direction) != len(primary) {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "direction has %d values, want %d", len(direction), len(primary))
	}

	res := Result{
		Metric: m,
		Values: make([]float64, len(primary)),
		Text:   make([]string, len(primary)),
	}
	for i, p := range primary {
		s := secondary[i]
		var v float64
		switch m {
		case Lift:
			v = p/s - 1
		case Ratio:
			v = p / s
		case Difference:
			v = p - s
		case Percentage:
			v = (p - s) / s
		default:
			return Result{}, errors.Configuration("invalid comparison metric %q", m)
		}
		if direction != nil {
			v *= direction[i]
		}
		res.Values[i] = v
		res.Text[i] = format(m, v)
	}
	res.Normalized = normalize(res.Values)
	return res, nil
}

func format(m Metric, v float64) string {
	switch m {
	case Ratio:
		return fmt.Sprintf("%fx", v)
	case Difference:
		return printer.Sprintf("%.1f", v)
	case Percentage:
		return fmt.Sprintf("%.1f%%", v*100)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func normalize(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	lo, hi := stats.Bounds(xs)
	if hi == lo || math.IsNaN(hi-lo) || math.IsInf(hi-lo, 0) {
		return out
	}
	for i, x := range xs {
		out[i] = (x - lo) / (hi - lo)
	}
	return out
}

// DefaultMarkerBase is the marker size given to the reference value.
const DefaultMarkerBase = 10

// MarkerSizes scales each value against the values sharing its metric.
//
// With relativeToMin the smallest value of a metric gets size base and the
// rest grow proportionally; otherwise the largest gets base and the rest
// shrink. A base of 0 selects DefaultMarkerBase.
func MarkerSizes(metricOf []string, values []float64, relativeToMin bool, base float64) ([]float64, error) {
	if len(metricOf) != len(values) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "metric has %d values, value has %d", len(metricOf), len(values))
	}
	if base == 0 {
		base = DefaultMarkerBase
	}

	groups := map[string][]float64{}
	for i, m := range metricOf {
		groups[m] = append(groups[m], values[i])
	}
	ref := make(map[string]float64, len(groups))
	for m, xs := range groups {
		lo, hi := stats.Bounds(xs)
		ref[m] = hi
		if relativeToMin {
			ref[m] = lo
		}
		if ref[m] == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "metric %q has a zero reference value", m)
		}
	}

	sizes := make([]float64, len(values))
	for i, v := range values {
		sizes[i] = v / ref[metricOf[i]] * base
	}
	return sizes, nil
}
