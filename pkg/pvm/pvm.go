package pvm

import (
	"cmp"
	"math"
	"slices"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/errors"
	"github.com/matzehuels/slidechart/pkg/ordering"
	"github.com/matzehuels/slidechart/pkg/tabular"
)

// Observation is one (group, period) measurement.
// An empty Group on every observation means the data is ungrouped.
type Observation struct {
	Group  string
	Period string
	Value  float64
	Weight float64
}

// Fields names the input columns read by [DecomposeTable].
type Fields struct {
	Value  string // Per-unit value, e.g. price
	Weight string // Weight, e.g. volume
	Period string // Period label
	Group  string // Optional group column; empty means ungrouped
}

// Options controls the shape of the bridge.
type Options struct {
	// Breakdown emits effect steps per group instead of one aggregated set
	// per period. It has no effect on ungrouped data.
	Breakdown bool

	// PeriodOrder fixes the chronological order of periods. When empty,
	// periods are ordered by first appearance.
	PeriodOrder []string
}

// Step is one bar of the waterfall.
type Step struct {
	Period  string
	Group   string // Set on breakdown effect steps only
	Label   Label
	Amount  float64
	Measure Measure
}

// Bridge is the ordered output of a decomposition.
type Bridge struct {
	Steps      []Step
	Aggregated bool
	Periods    []string
}

// X returns the two-level categorical axis: outer labels are periods, or in
// breakdown mode the group name padded with one blank per total emitted so
// far; inner labels are the step labels.
func (b *Bridge) X() [2][]string {
	outer := make([]string, len(b.Steps))
	inner := make([]string, len(b.Steps))
	totals := 0
	for i, s := range b.Steps {
		inner[i] = s.Label.String()
		switch {
		case s.Label.IsTotal():
			outer[i] = s.Period
			totals = s.Label.Seq()
		case b.Aggregated:
			outer[i] = s.Period
		default:
			outer[i] = s.Group + ordering.Blanks(totals)
		}
	}
	return [2][]string{outer, inner}
}

// Y returns the step amounts.
func (b *Bridge) Y() []float64 {
	ys := make([]float64, len(b.Steps))
	for i, s := range b.Steps {
		ys[i] = s.Amount
	}
	return ys
}

// Measures returns the step measures as strings.
func (b *Bridge) Measures() []string {
	ms := make([]string, len(b.Steps))
	for i, s := range b.Steps {
		ms[i] = string(s.Measure)
	}
	return ms
}

// Total returns the absolute amount recorded for period.
func (b *Bridge) Total(period string) (float64, bool) {
	for _, s := range b.Steps {
		if s.Label.IsTotal() && s.Period == period {
			return s.Amount, true
		}
	}
	return 0, false
}

// DecomposeTable reads observations from the columns named by f and
// decomposes them. Missing columns are INVALID_INPUT errors naming the field.
func DecomposeTable(t *table.Table, f Fields, opts Options) (*Bridge, error) {
	switch {
	case f.Value == "":
		return nil, errors.Configuration("value field is required")
	case f.Weight == "":
		return nil, errors.Configuration("weight field is required")
	case f.Period == "":
		return nil, errors.Configuration("period field is required")
	}
	if err := tabular.Require(t, map[string]string{
		"value": f.Value, "weight": f.Weight, "period": f.Period, "group": f.Group,
	}); err != nil {
		return nil, err
	}

	values, err := tabular.Floats(t, f.Value)
	if err != nil {
		return nil, err
	}
	weights, err := tabular.Floats(t, f.Weight)
	if err != nil {
		return nil, err
	}
	periods, err := tabular.Strings(t, f.Period)
	if err != nil {
		return nil, err
	}
	groups := make([]string, len(periods))
	if f.Group != "" {
		if groups, err = tabular.Strings(t, f.Group); err != nil {
			return nil, err
		}
	}

	obs := make([]Observation, len(periods))
	for i := range obs {
		obs[i] = Observation{Group: groups[i], Period: periods[i], Value: values[i], Weight: weights[i]}
	}
	return decompose(obs, opts, f.Group != "")
}

// Decompose computes the bridge for obs.
//
// It fails with INVALID_INPUT on empty input, non-finite numbers, a repeated
// (group, period) pair, or a period missing from opts.PeriodOrder, and with
// NOT_FOUND when opts.PeriodOrder names a period absent from obs.
func Decompose(obs []Observation, opts Options) (*Bridge, error) {
	grouped := slices.ContainsFunc(obs, func(o Observation) bool { return o.Group != "" })
	return decompose(obs, opts, grouped)
}

type cellKey struct{ group, period string }

type cell struct {
	value, weight float64
}

func (c cell) total() float64 { return c.value * c.weight }

type effects [3]float64

func decompose(obs []Observation, opts Options, grouped bool) (*Bridge, error) {
	if len(obs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no observations")
	}

	cells := make(map[cellKey]cell, len(obs))
	periodSeen := make([]string, len(obs))
	groupSeen := make([]string, len(obs))
	for i, o := range obs {
		if !finite(o.Value) || !finite(o.Weight) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "row %d: non-finite value or weight", i)
		}
		k := cellKey{o.Group, o.Period}
		if _, dup := cells[k]; dup {
			if grouped {
				return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate observation for group %q in period %q", o.Group, o.Period)
			}
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate observation for period %q", o.Period)
		}
		cells[k] = cell{o.Value, o.Weight}
		periodSeen[i] = o.Period
		groupSeen[i] = o.Group
	}

	periods, err := periodOrder(ordering.FirstOccurrence(periodSeen), opts.PeriodOrder)
	if err != nil {
		return nil, err
	}
	periodRank := ordering.FirstOccurrence(periods)
	groupIdx := ordering.FirstOccurrence(groupSeen)
	groups := groupIdx.Values()

	b := &Bridge{Aggregated: !grouped || !opts.Breakdown, Periods: periods}
	for pi, p := range periods {
		var total float64
		for _, g := range groups {
			if c, ok := cells[cellKey{g, p}]; ok {
				total += c.total()
			}
		}
		if pi > 0 {
			prev := periods[pi-1]
			var sum effects
			for _, g := range groups {
				cur, okCur := cells[cellKey{g, p}]
				lag, okLag := cells[cellKey{g, prev}]
				if !okCur && !okLag {
					continue
				}
				switch {
				case !okLag:
					lag = cell{value: cur.value}
				case !okCur:
					cur = cell{value: lag.value}
				}
				e := effectsOf(cur, lag, grouped)
				if b.Aggregated {
					for i := range sum {
						sum[i] += e[i]
					}
					continue
				}
				b.appendEffects(p, g, e, grouped)
			}
			if b.Aggregated {
				b.appendEffects(p, "", sum, grouped)
			}
		}
		b.Steps = append(b.Steps, Step{Period: p, Label: Total(pi + 1), Amount: total, Measure: Absolute})
	}

	slices.SortStableFunc(b.Steps, func(x, y Step) int {
		px, _ := periodRank.Rank(x.Period)
		py, _ := periodRank.Rank(y.Period)
		if c := cmp.Compare(px, py); c != 0 {
			return c
		}
		if x.Label.IsTotal() || y.Label.IsTotal() {
			return Compare(x.Label, y.Label)
		}
		gx, _ := groupIdx.Rank(x.Group)
		gy, _ := groupIdx.Rank(y.Group)
		if c := cmp.Compare(gx, gy); c != 0 {
			return c
		}
		return Compare(x.Label, y.Label)
	})
	return b, nil
}

func effectsOf(cur, lag cell, grouped bool) effects {
	var e effects
	e[1] = (cur.weight - lag.weight) * lag.value
	if !grouped {
		e[0] = (cur.value - lag.value) * cur.weight
		return e
	}
	e[0] = (cur.value - lag.value) * lag.weight
	e[2] = (cur.total() - lag.total()) - e[0] - e[1]
	return e
}

func (b *Bridge) appendEffects(period, group string, e effects, grouped bool) {
	for i, eff := range Effects() {
		if eff == MixEffect && !grouped {
			break
		}
		b.Steps = append(b.Steps, Step{
			Period:  period,
			Group:   group,
			Label:   Named(eff),
			Amount:  e[i],
			Measure: Relative,
		})
	}
}

// periodOrder resolves the chronological order of the periods in seen.
func periodOrder(seen ordering.Index, explicit []string) ([]string, error) {
	if len(explicit) == 0 {
		return seen.Values(), nil
	}
	order := ordering.FirstOccurrence(explicit)
	if len(order) != len(explicit) {
		return nil, errors.Configuration("period order contains duplicates")
	}
	for _, p := range explicit {
		if _, ok := seen.Rank(p); !ok {
			return nil, errors.NotFound("period %q not found in data", p)
		}
	}
	for _, p := range seen.Values() {
		if _, ok := order.Rank(p); !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "period %q is missing from the period order", p)
		}
	}
	return append([]string(nil), explicit...), nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
