package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidechart/pkg/chart"
	"github.com/matzehuels/slidechart/pkg/compare"
	"github.com/matzehuels/slidechart/pkg/observability"
	"github.com/matzehuels/slidechart/pkg/pvm"
	"github.com/matzehuels/slidechart/pkg/totals"
)

// Runner executes analyses. It holds no per-run state, so one Runner can be
// shared by concurrent requests.
type Runner struct {
	Logger *log.Logger
	Hooks  observability.AnalysisHooks
}

// NewRunner creates a runner.
// If logger is nil, the default logger is used.
// If hooks is nil, events are discarded.
func NewRunner(logger *log.Logger, hooks observability.AnalysisHooks) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if hooks == nil {
		hooks = observability.NoopAnalysisHooks{}
	}
	return &Runner{Logger: logger, Hooks: hooks}
}

// Execute validates opts and runs the analysis it describes on t.
func (r *Runner) Execute(ctx context.Context, t *table.Table, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := t.Len()
	start := time.Now()
	r.Hooks.OnAnalysisStart(ctx, string(opts.Kind), rows)

	result := &Result{Kind: opts.Kind}
	var err error
	switch {
	case opts.Kind.IsBridge():
		err = r.bridge(t, opts, result)
	case opts.Kind.IsStackedBar():
		err = r.stackedBar(t, opts, result)
	case opts.Kind == KindComparison:
		err = r.comparison(t, opts, result)
	case opts.Kind == KindCategorical:
		err = r.categorical(t, opts, result)
	}

	result.Stats.Rows = rows
	result.Stats.Duration = time.Since(start)
	if err != nil {
		r.Hooks.OnAnalysisComplete(ctx, string(opts.Kind), 0, result.Stats.Duration, err)
		return nil, fmt.Errorf("%s: %w", opts.Kind, err)
	}
	r.Hooks.OnAnalysisComplete(ctx, string(opts.Kind), result.Stats.Bars, result.Stats.Duration, nil)

	r.Logger.Info("computed analysis",
		"kind", opts.Kind,
		"rows", rows,
		"bars", result.Stats.Bars,
		"duration", result.Stats.Duration)
	return result, nil
}

func (r *Runner) bridge(t *table.Table, opts Options, result *Result) error {
	b, err := pvm.DecomposeTable(t, pvm.Fields{
		Value:  opts.Value,
		Weight: opts.Weight,
		Period: opts.Period,
		Group:  opts.Group,
	}, pvm.Options{
		Breakdown:   opts.Breakdown,
		PeriodOrder: opts.PeriodOrder,
	})
	if err != nil {
		return err
	}
	r.Logger.Debug("decomposed", "periods", len(b.Periods), "steps", len(b.Steps), "aggregated", b.Aggregated)

	names := chart.DisplayNames(opts.DisplayNames)
	result.Figure = chart.WaterfallFigure(b, names, *opts.Template, chart.WithTitle(opts.Title))
	result.Table = bridgeTable(b, names)
	result.Stats.Bars = len(b.Steps)
	return nil
}

func (r *Runner) stackedBar(t *table.Table, opts Options, result *Result) error {
	topts := totals.Options{
		Category:      opts.Category,
		Value:         opts.Value,
		Color:         opts.Color,
		Weight:        opts.Weight,
		TotalCategory: opts.TotalCategory,
		ComputeTotal:  opts.Formula != "",
		Formula:       totals.Formula(opts.Formula),
		TotalName:     opts.TotalName,
		TotalLast:     opts.TotalLast,
	}
	horizontal := opts.Kind == KindStackedBarHorizontal

	var a *totals.Augmented
	var err error
	if horizontal {
		a, err = totals.Horizontal(t, topts)
	} else {
		a, err = totals.Vertical(t, topts)
	}
	if err != nil {
		return err
	}
	r.Logger.Debug("augmented", "rows", len(a.Rows), "color", a.Color != "")

	result.Figure = chart.StackedBarFigure(a, horizontal, *opts.Template, chart.WithTitle(opts.Title))
	result.Table = a.Table()
	result.Stats.Bars = len(a.Rows)
	return nil
}

func (r *Runner) comparison(t *table.Table, opts Options, result *Result) error {
	ms, err := compare.ParseMetrics(opts.Metrics)
	if err != nil {
		return err
	}
	c, err := compare.FromTable(t, compare.Fields{
		Category:  opts.Category,
		Primary:   opts.Primary,
		Secondary: opts.Secondary,
		Direction: opts.Direction,
	}, ms)
	if err != nil {
		return err
	}

	result.Figure = chart.DumbbellFigure(c, opts.PrimaryName, opts.SecondaryName, *opts.Template, chart.WithTitle(opts.Title))
	result.Table = comparisonTable(c, opts)
	result.Stats.Bars = len(c.Categories)
	return nil
}

func (r *Runner) categorical(t *table.Table, opts Options, result *Result) error {
	c, err := compare.CategoricalFromTable(t, compare.CategoricalFields{
		Category: opts.Category,
		Metric:   opts.Metric,
		Value:    opts.Value,
		Text:     opts.Text,
		Size:     opts.Size,
	}, *opts.RelativeToMin)
	if err != nil {
		return err
	}

	result.Figure = chart.CategoricalComparisonFigure(c, *opts.Template, chart.WithTitle(opts.Title))
	result.Table = new(table.Builder).
		Add("category", c.Categories).
		Add("metric", c.Metrics).
		Add("value", c.Values).
		Add("text", c.Text).
		Add("size", c.Sizes).
		Done()
	result.Stats.Bars = len(c.Values)
	return nil
}

// bridgeTable lists the waterfall steps with display names applied. Totals
// are labeled "total" rather than with their blank axis label.
func bridgeTable(b *pvm.Bridge, names chart.DisplayNames) *table.Table {
	n := len(b.Steps)
	periods := make([]string, n)
	groups := make([]string, n)
	labels := make([]string, n)
	for i, s := range b.Steps {
		periods[i] = s.Period
		groups[i] = s.Group
		labels[i] = "total"
		if !s.Label.IsTotal() {
			labels[i] = names.Rename(string(s.Label.Effect()))
		}
	}

	tb := new(table.Builder).Add("period", periods)
	if !b.Aggregated {
		tb.Add("group", groups)
	}
	return tb.
		Add("step", labels).
		Add("amount", b.Y()).
		Add("measure", b.Measures()).
		Done()
}

func comparisonTable(c *compare.Comparison, opts Options) *table.Table {
	tb := new(table.Builder).
		Add("category", c.Categories).
		Add(opts.PrimaryName, c.Primary).
		Add(opts.SecondaryName, c.Secondary)
	for _, res := range c.Results {
		tb.Add(string(res.Metric), res.Text)
	}
	return tb.Done()
}
