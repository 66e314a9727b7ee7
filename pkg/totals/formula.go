package totals

import (
	"math"
	"slices"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/matzehuels/slidechart/pkg/errors"
)

// Formula names the aggregation used for a computed total.
type Formula string

// Supported formulas.
const (
	FormulaSum          Formula = "sum"
	FormulaMean         Formula = "mean"
	FormulaCount        Formula = "count"
	FormulaMedian       Formula = "median"
	FormulaMin          Formula = "min"
	FormulaMax          Formula = "max"
	FormulaStd          Formula = "std"
	FormulaVar          Formula = "var"
	FormulaWeightedMean Formula = "weighted_mean"
)

var formulas = []Formula{
	FormulaSum, FormulaMean, FormulaCount, FormulaMedian, FormulaMin,
	FormulaMax, FormulaStd, FormulaVar, FormulaWeightedMean,
}

// Formulas returns every supported formula.
func Formulas() []Formula { return slices.Clone(formulas) }

// ParseFormula maps a case-insensitive name to a Formula.
func ParseFormula(s string) (Formula, error) {
	f := Formula(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(formulas, f) {
		return "", errors.Configuration("invalid total formula %q: valid formulas are %v", s, formulas)
	}
	return f, nil
}

// NeedsWeight reports whether f requires a weight column.
func (f Formula) NeedsWeight() bool { return f == FormulaWeightedMean }

// apply aggregates xs. weights is only read by weighted formulas.
func (f Formula) apply(xs, weights []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no values to aggregate")
	}
	var v float64
	switch f {
	case FormulaSum:
		v = stats.Sample{Xs: xs}.Sum()
	case FormulaMean:
		v = stats.Mean(xs)
	case FormulaCount:
		v = float64(len(xs))
	case FormulaMedian:
		v = stats.Sample{Xs: xs}.Quantile(0.5)
	case FormulaMin:
		v, _ = stats.Bounds(xs)
	case FormulaMax:
		_, v = stats.Bounds(xs)
	case FormulaStd:
		v = stats.StdDev(xs)
	case FormulaVar:
		v = stats.Variance(xs)
	case FormulaWeightedMean:
		v = stats.Sample{Xs: xs, Weights: weights}.Mean()
	default:
		return 0, errors.Configuration("invalid total formula %q", f)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s is undefined for %d value(s)", f, len(xs))
	}
	return v, nil
}
