package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidechart/pkg/errors"
	"github.com/matzehuels/slidechart/pkg/pipeline"
	"github.com/matzehuels/slidechart/pkg/tabular"
)

// outputOptions are the input and output flags shared by analysis commands.
type outputOptions struct {
	sheet  string
	format string
	output string
	title  string
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	cmd.Flags().StringVarP(&o.format, "format", "f", formatTable, "output format: table, json (plotly figure), records")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&o.title, "title", "", "figure title")
}

func (o *outputOptions) validate() error {
	if !validOutputFormats[o.format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: table, json, records)", o.format)
	}
	return nil
}

// runAnalysis reads input, executes opts on it, and writes the result.
func (c *CLI) runAnalysis(cmd *cobra.Command, input string, opts pipeline.Options, out outputOptions) error {
	if err := out.validate(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	t, err := tabular.Import(input, out.sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Read %d rows from %s", t.Len(), filepath.Base(input)))

	opts.Title = out.title
	c.Config.Apply(&opts)
	res, err := c.newRunner().Execute(cmd.Context(), t, opts)
	if err != nil {
		return err
	}

	status := cmd.ErrOrStderr()
	if out.output == "" {
		if err := writeResult(cmd.OutOrStdout(), res, out.format); err != nil {
			return err
		}
	} else {
		if err := writeResultFile(out.output, res, out.format); err != nil {
			return err
		}
		printSuccess(status, "Wrote %s %s", res.Kind, out.format)
		printFile(status, out.output)
	}
	printStats(status, string(res.Kind), res.Stats.String())
	return nil
}

func writeResultFile(path string, res *pipeline.Result, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeResult(f, res, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeResult(w io.Writer, res *pipeline.Result, format string) error {
	switch format {
	case formatJSON:
		data, err := res.Figure.JSON()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return fmt.Errorf("write figure: %w", err)
		}
		return nil
	case formatRecords:
		return tabular.WriteJSON(w, res.Table)
	default:
		tabular.WriteTable(w, res.Table)
		return nil
	}
}

// =============================================================================
// bridge
// =============================================================================

// bridgeCommand creates the bridge command for price-volume(-mix) analysis.
func (c *CLI) bridgeCommand() *cobra.Command {
	var out outputOptions
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "bridge [file]",
		Short: "Decompose period-over-period change into price, volume and mix effects",
		Long: `Decompose the change of value × weight between consecutive periods.

Without --group the input holds one row per period and the change splits into
a value (price) effect and a weight (volume) effect. With --group each row is
one group in one period and a mix effect captures reallocation across groups.
--breakdown shows the effects of each group instead of their sums.

Periods are ordered by first appearance unless --period-order is given.`,
		Example: `  slidechart bridge sales.csv --value price --weight volume --period year --group product
  slidechart bridge sales.xlsx --value price --weight volume --period year -f json -o bridge.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Kind = pipeline.KindPriceVolume
			if opts.Group != "" {
				opts.Kind = pipeline.KindPriceVolumeMix
			}
			return c.runAnalysis(cmd, args[0], opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.Value, "value", "", "value (price) column")
	cmd.Flags().StringVar(&opts.Weight, "weight", "", "weight (volume) column")
	cmd.Flags().StringVar(&opts.Period, "period", "", "period column")
	cmd.Flags().StringVar(&opts.Group, "group", "", "group column; enables the mix effect")
	cmd.Flags().BoolVar(&opts.Breakdown, "breakdown", false, "show effects per group (requires --group)")
	cmd.Flags().StringSliceVar(&opts.PeriodOrder, "period-order", nil, "chronological period order, comma-separated")
	out.register(cmd)

	for _, name := range []string{"value", "weight", "period"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// =============================================================================
// total
// =============================================================================

// totalCommand creates the total command for stacked bars with a total.
func (c *CLI) totalCommand() *cobra.Command {
	var (
		out        outputOptions
		horizontal bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "total [file]",
		Short: "Order categories for a stacked bar chart with a total bar",
		Long: `Insert a total bar and a blank spacer into a category table.

The total is either an existing category (--total-category) or computed from
the other rows with a formula (--formula): sum, mean, count, median, min, max,
std, var, or weighted_mean (with --weight). With --color one total is placed
per color.`,
		Example: `  slidechart total survey.csv --category Country --value Percentage --color Response --total-category All
  slidechart total survey.csv --category Country --value Percentage --formula mean --total-last --horizontal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Kind = pipeline.KindStackedBarVertical
			if horizontal {
				opts.Kind = pipeline.KindStackedBarHorizontal
			}
			return c.runAnalysis(cmd, args[0], opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "category column")
	cmd.Flags().StringVar(&opts.Value, "value", "", "value column")
	cmd.Flags().StringVar(&opts.Color, "color", "", "sub-grouping column, one bar segment per color")
	cmd.Flags().StringVar(&opts.TotalCategory, "total-category", "", "existing category to use as the total")
	cmd.Flags().StringVar(&opts.Formula, "formula", "", "compute the total with this formula")
	cmd.Flags().StringVar(&opts.Weight, "weight", "", "weight column for weighted_mean")
	cmd.Flags().StringVar(&opts.TotalName, "total-name", "", "category of the computed total (default from config)")
	cmd.Flags().BoolVar(&opts.TotalLast, "total-last", false, "place the total after the other categories")
	cmd.Flags().BoolVar(&horizontal, "horizontal", false, "order for a horizontal bar chart")
	out.register(cmd)

	cmd.MarkFlagsMutuallyExclusive("total-category", "formula")
	cmd.MarkFlagsOneRequired("total-category", "formula")
	for _, name := range []string{"category", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// =============================================================================
// compare
// =============================================================================

// compareCommand creates the compare command for dumbbell charts.
func (c *CLI) compareCommand() *cobra.Command {
	var out outputOptions
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "compare [file]",
		Short: "Compare two series per category for a dumbbell chart",
		Long: `Compare a primary and a secondary value per category.

Categories are sorted by primary, then secondary value. Each metric (lift,
ratio, difference, percentage) adds a badge column next to the dumbbells.
--direction names a column of multipliers, e.g. -1 where a decrease is good.`,
		Example: `  slidechart compare segments.csv --category segment --primary this_year --secondary last_year --metrics lift,percentage`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Kind = pipeline.KindComparison
			return c.runAnalysis(cmd, args[0], opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "category column")
	cmd.Flags().StringVar(&opts.Primary, "primary", "", "primary value column")
	cmd.Flags().StringVar(&opts.Secondary, "secondary", "", "secondary value column")
	cmd.Flags().StringVar(&opts.Direction, "direction", "", "per-row multiplier column")
	cmd.Flags().StringSliceVar(&opts.Metrics, "metrics", []string{"lift"}, "metrics: lift, ratio, difference, percentage")
	cmd.Flags().StringVar(&opts.PrimaryName, "primary-name", "", "legend name of the primary series")
	cmd.Flags().StringVar(&opts.SecondaryName, "secondary-name", "", "legend name of the secondary series")
	out.register(cmd)

	for _, name := range []string{"category", "primary", "secondary"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// =============================================================================
// categorical
// =============================================================================

// categoricalCommand creates the categorical command for metric-by-category
// bubble charts.
func (c *CLI) categoricalCommand() *cobra.Command {
	var (
		out           outputOptions
		relativeToMin bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "categorical [file]",
		Short: "Compare categories across metrics with sized markers",
		Long: `Place one marker per row at (metric, category), labeled with --text.

Marker sizes are scaled within each metric: relative to its smallest value by
default, or to its largest with --relative-to-min=false. --size names a
separate sizing column; the value column is used otherwise.`,
		Example: `  slidechart categorical polls.csv --category party --metric question --value share --text label`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Kind = pipeline.KindCategorical
			opts.RelativeToMin = &relativeToMin
			return c.runAnalysis(cmd, args[0], opts, out)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "category column (y axis)")
	cmd.Flags().StringVar(&opts.Metric, "metric", "", "metric column (x axis)")
	cmd.Flags().StringVar(&opts.Value, "value", "", "value column")
	cmd.Flags().StringVar(&opts.Text, "text", "", "marker label column (default: formatted values)")
	cmd.Flags().StringVar(&opts.Size, "size", "", "marker size column (default: --value)")
	cmd.Flags().BoolVar(&relativeToMin, "relative-to-min", true, "scale sizes to each metric's smallest value")
	out.register(cmd)

	for _, name := range []string{"category", "metric", "value"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
