package totals

import (
	"cmp"
	"slices"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/errors"
	"github.com/matzehuels/slidechart/pkg/ordering"
	"github.com/matzehuels/slidechart/pkg/tabular"
)

// DefaultTotalName is the category given to computed totals.
const DefaultTotalName = "Total"

// PivotColumn is the name of the pivot column in [Augmented.Table].
const PivotColumn = "pivot"

// Pivot tags the role of a row in the augmented table.
type Pivot string

const (
	PivotTotal Pivot = "total"
	PivotOther Pivot = "other"
	PivotEmpty Pivot = "empty"
)

// Options configures [AddTotal].
type Options struct {
	Category string // Category column (required)
	Value    string // Value column (required)
	Color    string // Optional sub-grouping column
	Weight   string // Weight column for weighted formulas

	// TotalCategory relabels the rows of an existing category as the total.
	TotalCategory string

	// ComputeTotal derives the total with Formula instead.
	ComputeTotal bool
	Formula      Formula
	TotalName    string // Category of computed totals; DefaultTotalName when empty

	TotalLast  bool // Place the total after the other categories
	Descending bool // Reverse the final order
}

// Row is one bar segment of the augmented table.
type Row struct {
	Category string
	Color    string
	Value    float64
	Pivot    Pivot

	// Extra holds the passthrough columns in [Augmented.Extra] order.
	// Synthetic rows carry nil values.
	Extra []any
}

// Augmented is the ordered output of [AddTotal].
type Augmented struct {
	Rows []Row

	Category string
	Value    string
	Color    string
	Extra    []string // Passthrough column names

	columns []string // Input column order
}

// Table converts a to a go-gg table in input column order, followed by the
// pivot column.
func (a *Augmented) Table() *table.Table {
	b := new(table.Builder)
	for _, name := range a.columns {
		switch name {
		case a.Category:
			b.Add(name, a.strings(func(r Row) string { return r.Category }))
		case a.Color:
			b.Add(name, a.strings(func(r Row) string { return r.Color }))
		case a.Value:
			xs := make([]float64, len(a.Rows))
			for i, r := range a.Rows {
				xs[i] = r.Value
			}
			b.Add(name, xs)
		default:
			j := slices.Index(a.Extra, name)
			vs := make([]any, len(a.Rows))
			for i, r := range a.Rows {
				if r.Extra != nil {
					vs[i] = r.Extra[j]
				}
			}
			b.Add(name, vs)
		}
	}
	b.Add(PivotColumn, a.strings(func(r Row) string { return string(r.Pivot) }))
	return b.Done()
}

func (a *Augmented) strings(f func(Row) string) []string {
	out := make([]string, len(a.Rows))
	for i, r := range a.Rows {
		out[i] = f(r)
	}
	return out
}

// Categories returns the category of every row, in order.
func (a *Augmented) Categories() []string {
	return a.strings(func(r Row) string { return r.Category })
}

// Values returns the value of every row, in order.
func (a *Augmented) Values() []float64 {
	xs := make([]float64, len(a.Rows))
	for i, r := range a.Rows {
		xs[i] = r.Value
	}
	return xs
}

// Colors returns the distinct colors in first-occurrence order, or nil when
// the table has no color column.
func (a *Augmented) Colors() []string {
	if a.Color == "" {
		return nil
	}
	return ordering.FirstOccurrence(a.strings(func(r Row) string { return r.Color })).Values()
}

// Vertical adds a total for a vertical stacked bar chart.
func Vertical(t *table.Table, opts Options) (*Augmented, error) {
	opts.Descending = false
	return AddTotal(t, opts)
}

// Horizontal adds a total for a horizontal stacked bar chart, where the first
// row is drawn at the bottom, so the order is reversed.
func Horizontal(t *table.Table, opts Options) (*Augmented, error) {
	opts.Descending = true
	return AddTotal(t, opts)
}

// AddTotal returns t augmented with total and spacer rows and sorted for a
// stacked bar chart. t is not modified.
//
// It fails with CONFIGURATION_ERROR unless exactly one of
// opts.TotalCategory and opts.ComputeTotal is set, or when a formula is
// missing, unknown, or needs a weight column that was not named. A
// TotalCategory absent from the data is a NOT_FOUND error. An empty table,
// or one that already has a PivotColumn, is INVALID_INPUT.
func AddTotal(t *table.Table, opts Options) (*Augmented, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	in, err := read(t, opts)
	if err != nil {
		return nil, err
	}

	rows := in.rows
	if opts.ComputeTotal {
		tr, err := calculate(in, opts)
		if err != nil {
			return nil, err
		}
		rows = append(rows, tr...)
	} else {
		if _, ok := in.categories.Rank(opts.TotalCategory); !ok {
			return nil, errors.NotFound("category %q is not present in the data", opts.TotalCategory)
		}
		for i := range rows {
			if rows[i].Category == opts.TotalCategory {
				rows[i].Pivot = PivotTotal
			}
		}
	}

	if opts.Color != "" {
		for _, c := range in.colors.Values() {
			rows = append(rows, Row{Color: c, Pivot: PivotEmpty})
		}
	} else {
		rows = append(rows, Row{Pivot: PivotEmpty})
	}

	sortRows(rows, in, opts)
	return in.augmented(rows), nil
}

// CalculateTotal computes one total row per color (or one overall) from the
// rows of t with opts.Formula. The rows are returned in color order with
// category opts.TotalName and nil passthrough values.
func CalculateTotal(t *table.Table, opts Options) (*Augmented, error) {
	opts.ComputeTotal, opts.TotalCategory = true, ""
	if err := validate(opts); err != nil {
		return nil, err
	}
	in, err := read(t, opts)
	if err != nil {
		return nil, err
	}
	rows, err := calculate(in, opts)
	if err != nil {
		return nil, err
	}
	return in.augmented(rows), nil
}

func validate(opts Options) error {
	switch {
	case opts.Category == "":
		return errors.Configuration("category field is required")
	case opts.Value == "":
		return errors.Configuration("value field is required")
	case opts.TotalCategory == "" && !opts.ComputeTotal:
		return errors.Configuration("provide the total category or ask for the total to be computed")
	case opts.TotalCategory != "" && opts.ComputeTotal:
		return errors.Configuration("provide either the total category or a computed total, not both")
	}
	if !opts.ComputeTotal {
		return nil
	}
	if opts.Formula == "" {
		return errors.Configuration("a computed total needs a formula")
	}
	if _, err := ParseFormula(string(opts.Formula)); err != nil {
		return err
	}
	if opts.Formula.NeedsWeight() && opts.Weight == "" {
		return errors.Configuration("formula %s requires a weight column", opts.Formula)
	}
	return nil
}

// input is the decoded category table.
type input struct {
	rows       []Row
	weights    []float64
	categories ordering.Index
	colors     ordering.Index
	extra      []string
	columns    []string
	opts       Options
}

func read(t *table.Table, opts Options) (*input, error) {
	if err := tabular.Require(t, map[string]string{
		"category": opts.Category, "value": opts.Value, "color": opts.Color, "weight": opts.Weight,
	}); err != nil {
		return nil, err
	}

	if slices.Contains(t.Columns(), PivotColumn) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input column %q clashes with the generated pivot column", PivotColumn)
	}

	cats, err := tabular.Strings(t, opts.Category)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no rows to total")
	}
	vals, err := tabular.Floats(t, opts.Value)
	if err != nil {
		return nil, err
	}
	colors := make([]string, len(cats))
	if opts.Color != "" {
		if colors, err = tabular.Strings(t, opts.Color); err != nil {
			return nil, err
		}
	}

	in := &input{
		categories: ordering.FirstOccurrence(cats),
		colors:     ordering.FirstOccurrence(colors),
		columns:    slices.Clone(t.Columns()),
		opts:       opts,
	}
	if opts.Weight != "" && opts.Formula.NeedsWeight() {
		if in.weights, err = tabular.Floats(t, opts.Weight); err != nil {
			return nil, err
		}
	}

	var extra [][]any
	for _, name := range in.columns {
		if name == opts.Category || name == opts.Value || name == opts.Color {
			continue
		}
		vs, err := tabular.Values(t, name)
		if err != nil {
			return nil, err
		}
		in.extra = append(in.extra, name)
		extra = append(extra, vs)
	}

	in.rows = make([]Row, len(cats))
	for i := range cats {
		r := Row{Category: cats[i], Color: colors[i], Value: vals[i], Pivot: PivotOther}
		r.Extra = make([]any, len(extra))
		for j := range extra {
			r.Extra[j] = extra[j][i]
		}
		in.rows[i] = r
	}
	return in, nil
}

func calculate(in *input, opts Options) ([]Row, error) {
	name := opts.TotalName
	if name == "" {
		name = DefaultTotalName
	}

	var out []Row
	for _, c := range in.colors.Values() {
		var xs, ws []float64
		for i, r := range in.rows {
			if r.Color != c {
				continue
			}
			xs = append(xs, r.Value)
			if in.weights != nil {
				ws = append(ws, in.weights[i])
			}
		}
		v, err := opts.Formula.apply(xs, ws)
		if err != nil {
			if opts.Color != "" {
				return nil, errors.Wrap(errors.GetCode(err), err, "total for %s %q", opts.Color, c)
			}
			return nil, err
		}
		out = append(out, Row{Category: name, Color: c, Value: v, Pivot: PivotTotal})
	}
	return out, nil
}

// sortRows orders rows by (pivot rank, category order, color order), with
// the row position breaking ties, then reverses for descending output.
func sortRows(rows []Row, in *input, opts Options) {
	pivotRank := map[Pivot]float64{PivotTotal: 0, PivotOther: 1, PivotEmpty: 0.5}
	if opts.TotalLast {
		pivotRank[PivotTotal], pivotRank[PivotOther] = 1, 0
	}
	rank := func(idx ordering.Index, v string) int {
		if r, ok := idx.Rank(v); ok {
			return r
		}
		return -1
	}

	type keyed struct {
		row                Row
		pivot              float64
		cat, color, offset int
	}
	ks := make([]keyed, len(rows))
	for i, r := range rows {
		cat := rank(in.categories, r.Category)
		if r.Pivot == PivotEmpty {
			cat = -1
		}
		ks[i] = keyed{row: r, pivot: pivotRank[r.Pivot], cat: cat, color: rank(in.colors, r.Color), offset: i}
	}
	slices.SortFunc(ks, func(a, b keyed) int {
		return cmp.Or(
			cmp.Compare(a.pivot, b.pivot),
			cmp.Compare(a.cat, b.cat),
			cmp.Compare(a.color, b.color),
			cmp.Compare(a.offset, b.offset),
		)
	})
	for i, k := range ks {
		rows[i] = k.row
	}
	if opts.Descending {
		slices.Reverse(rows)
	}
}

func (in *input) augmented(rows []Row) *Augmented {
	return &Augmented{
		Rows:     rows,
		Category: in.opts.Category,
		Value:    in.opts.Value,
		Color:    in.opts.Color,
		Extra:    in.extra,
		columns:  in.columns,
	}
}
