package pvm

import (
	"cmp"

	"github.com/matzehuels/slidechart/pkg/ordering"
)

// Effect names one component of a period-over-period change.
type Effect string

// Effects, in the order they appear within a block.
const (
	ValueEffect  Effect = "value_effect"
	WeightEffect Effect = "weight_effect"
	MixEffect    Effect = "mix_effect"
)

var effectRank = map[Effect]int{
	ValueEffect:  0,
	WeightEffect: 1,
	MixEffect:    2,
}

// Effects lists every effect in block order.
func Effects() []Effect {
	return []Effect{ValueEffect, WeightEffect, MixEffect}
}

// Label is the inner x-axis label of a step: either a named effect or the
// n-th period total.
type Label struct {
	effect Effect
	seq    int
}

// Named returns the label of an effect step.
func Named(e Effect) Label { return Label{effect: e} }

// Total returns the label of the seq-th total emitted, counting from 1.
func Total(seq int) Label { return Label{seq: max(seq, 1)} }

// IsTotal reports whether l labels a period total.
func (l Label) IsTotal() bool { return l.seq > 0 }

// Effect returns the effect name, or "" for totals.
func (l Label) Effect() Effect { return l.effect }

// Seq returns the total's sequence number, or 0 for effects.
func (l Label) Seq() int { return l.seq }

// String renders an effect as its name and a total as Seq blanks.
func (l Label) String() string {
	if l.IsTotal() {
		return ordering.Blanks(l.seq)
	}
	return string(l.effect)
}

// Compare orders labels within a block: effects in fixed order, then totals
// by sequence number.
func Compare(a, b Label) int {
	switch {
	case a.IsTotal() && b.IsTotal():
		return cmp.Compare(a.seq, b.seq)
	case a.IsTotal():
		return 1
	case b.IsTotal():
		return -1
	}
	return cmp.Compare(effectRank[a.effect], effectRank[b.effect])
}

// Measure classifies a waterfall step.
type Measure string

const (
	// Relative steps stack on the running baseline.
	Relative Measure = "relative"
	// Absolute steps reset the baseline.
	Absolute Measure = "absolute"
)
