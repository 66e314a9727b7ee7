package compare

import (
	"cmp"
	"slices"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/errors"
	"github.com/matzehuels/slidechart/pkg/tabular"
)

// Fields names the input columns read by [FromTable].
type Fields struct {
	Category  string
	Primary   string
	Secondary string
	Direction string // Optional per-row multiplier column
}

// Comparison is a dumbbell chart's data: both series per category, sorted
// ascending by primary then secondary value, plus the requested metrics.
type Comparison struct {
	Categories []string  `json:"categories"`
	Primary    []float64 `json:"primary"`
	Secondary  []float64 `json:"secondary"`
	Results    []Result  `json:"results"`
}

// Max returns the largest value of either series.
func (c *Comparison) Max() float64 {
	return max(slices.Max(c.Primary), slices.Max(c.Secondary))
}

// FromTable reads a comparison from t and computes ms for it.
func FromTable(t *table.Table, f Fields, ms []Metric) (*Comparison, error) {
	if f.Category == "" || f.Primary == "" || f.Secondary == "" {
		return nil, errors.Configuration("category, primary and secondary fields are required")
	}
	if err := tabular.Require(t, map[string]string{
		"category": f.Category, "primary": f.Primary, "secondary": f.Secondary, "direction": f.Direction,
	}); err != nil {
		return nil, err
	}

	cats, err := tabular.Strings(t, f.Category)
	if err != nil {
		return nil, err
	}
	prim, err := tabular.Floats(t, f.Primary)
	if err != nil {
		return nil, err
	}
	sec, err := tabular.Floats(t, f.Secondary)
	if err != nil {
		return nil, err
	}
	var dir []float64
	if f.Direction != "" {
		if dir, err = tabular.Floats(t, f.Direction); err != nil {
			return nil, err
		}
	}
	if len(cats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no rows to compare")
	}

	idx := make([]int, len(cats))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Or(cmp.Compare(prim[a], prim[b]), cmp.Compare(sec[a], sec[b]))
	})

	c := &Comparison{
		Categories: make([]string, len(idx)),
		Primary:    make([]float64, len(idx)),
		Secondary:  make([]float64, len(idx)),
	}
	var sortedDir []float64
	if dir != nil {
		sortedDir = make([]float64, len(idx))
	}
	for i, j := range idx {
		c.Categories[i], c.Primary[i], c.Secondary[i] = cats[j], prim[j], sec[j]
		if dir != nil {
			sortedDir[i] = dir[j]
		}
	}

	for _, m := range ms {
		res, err := Compute(c.Primary, c.Secondary, m, sortedDir)
		if err != nil {
			return nil, err
		}
		c.Results = append(c.Results, res)
	}
	return c, nil
}
