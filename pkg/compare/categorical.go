package compare

import (
	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/errors"
	"github.com/matzehuels/slidechart/pkg/tabular"
)

// CategoricalFields names the input columns read by [CategoricalFromTable].
type CategoricalFields struct {
	Category string
	Metric   string
	Value    string
	Text     string // Optional; values are formatted when empty
	Size     string // Optional; defaults to Value
}

// Categorical is a categorical comparison chart's data: one point per input
// row placing a category against a metric, sized relative to the points of
// the same metric. Rows keep their input order.
type Categorical struct {
	Categories []string  `json:"categories"`
	Metrics    []string  `json:"metrics"`
	Values     []float64 `json:"values"`
	Text       []string  `json:"text"`
	Sizes      []float64 `json:"sizes"`
}

// CategoricalFromTable reads a categorical comparison from t. Marker sizes
// come from [MarkerSizes] with the default base.
func CategoricalFromTable(t *table.Table, f CategoricalFields, relativeToMin bool) (*Categorical, error) {
	if f.Category == "" || f.Metric == "" || f.Value == "" {
		return nil, errors.Configuration("category, metric and value fields are required")
	}
	if f.Size == "" {
		f.Size = f.Value
	}
	if err := tabular.Require(t, map[string]string{
		"category": f.Category, "metric": f.Metric, "value": f.Value, "text": f.Text, "size": f.Size,
	}); err != nil {
		return nil, err
	}

	c := &Categorical{}
	var err error
	if c.Categories, err = tabular.Strings(t, f.Category); err != nil {
		return nil, err
	}
	if c.Metrics, err = tabular.Strings(t, f.Metric); err != nil {
		return nil, err
	}
	if c.Values, err = tabular.Floats(t, f.Value); err != nil {
		return nil, err
	}
	if len(c.Values) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no rows to compare")
	}

	if f.Text != "" {
		if c.Text, err = tabular.Strings(t, f.Text); err != nil {
			return nil, err
		}
	} else {
		c.Text = make([]string, len(c.Values))
		for i, v := range c.Values {
			c.Text[i] = printer.Sprintf("%v", v)
		}
	}

	size := c.Values
	if f.Size != f.Value {
		if size, err = tabular.Floats(t, f.Size); err != nil {
			return nil, err
		}
	}
	if c.Sizes, err = MarkerSizes(c.Metrics, size, relativeToMin, DefaultMarkerBase); err != nil {
		return nil, err
	}
	return c, nil
}
