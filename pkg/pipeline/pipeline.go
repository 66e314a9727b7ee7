// Package pipeline turns an input table into chart data for one analysis.
//
// The pipeline is the single entry point shared by the CLI and the HTTP API.
// It validates [Options], dispatches on the analysis [Kind] to the pure
// engines (pvm, totals, compare), and packages the engine output both as a
// plotly figure and as a result table.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger, nil)
//	result, err := runner.Execute(ctx, t, pipeline.Options{
//	    Kind:   "price_volume_mix",
//	    Value:  "price",
//	    Weight: "volume",
//	    Period: "year",
//	    Group:  "product",
//	})
//	if err != nil {
//	    return err
//	}
//	data, _ := result.Figure.JSON()
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/slidechart/pkg/chart"
	"github.com/matzehuels/slidechart/pkg/compare"
	"github.com/matzehuels/slidechart/pkg/errors"
	"github.com/matzehuels/slidechart/pkg/totals"
)

// =============================================================================
// Analysis Kinds
// =============================================================================

// Kind selects the analysis an [Options] value describes.
type Kind string

const (
	KindPriceVolume          Kind = "price_volume"
	KindPriceVolumeMix       Kind = "price_volume_mix"
	KindStackedBarVertical   Kind = "stacked_bar_vertical"
	KindStackedBarHorizontal Kind = "stacked_bar_horizontal"
	KindComparison           Kind = "comparison"
	KindCategorical          Kind = "categorical_comparison"
)

// ValidKinds is the set of supported analysis kinds.
var ValidKinds = map[Kind]bool{
	KindPriceVolume:          true,
	KindPriceVolumeMix:       true,
	KindStackedBarVertical:   true,
	KindStackedBarHorizontal: true,
	KindComparison:           true,
	KindCategorical:          true,
}

// Kinds returns the supported kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindPriceVolume, KindPriceVolumeMix, KindStackedBarVertical, KindStackedBarHorizontal, KindComparison, KindCategorical}
}

// ParseKind maps a kind name to a [Kind]. Dashes and case are ignored, so
// "Stacked-Bar-Vertical" is accepted.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !ValidKinds[k] {
		names := make([]string, 0, len(ValidKinds))
		for _, v := range Kinds() {
			names = append(names, string(v))
		}
		return "", errors.New(errors.ErrCodeUnsupported, "unknown analysis kind %q (must be one of: %s)", s, strings.Join(names, ", "))
	}
	return k, nil
}

// IsBridge reports whether k produces a waterfall.
func (k Kind) IsBridge() bool { return k == KindPriceVolume || k == KindPriceVolumeMix }

// IsStackedBar reports whether k produces stacked bars.
func (k Kind) IsStackedBar() bool {
	return k == KindStackedBarVertical || k == KindStackedBarHorizontal
}

// =============================================================================
// Options
// =============================================================================

// Options describes one analysis. Field names are shared between kinds;
// each kind reads only the fields listed in its section.
// This struct supports JSON serialization for API requests.
type Options struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title,omitempty"`

	// Price-volume(-mix) options
	Value       string   `json:"value,omitempty"`
	Weight      string   `json:"weight,omitempty"` // Also the weight column of weighted_mean totals
	Period      string   `json:"period,omitempty"`
	Group       string   `json:"group,omitempty"`
	Breakdown   bool     `json:"breakdown,omitempty"`
	PeriodOrder []string `json:"period_order,omitempty"`

	// Stacked-bar options; Value and Weight are shared with the bridge
	Category      string `json:"category,omitempty"`
	Color         string `json:"color,omitempty"`
	TotalCategory string `json:"total_category,omitempty"`
	Formula       string `json:"formula,omitempty"` // Non-empty computes the total
	TotalName     string `json:"total_name,omitempty"`
	TotalLast     bool   `json:"total_last,omitempty"`

	// Comparison options; Category is shared with stacked bars
	Primary       string   `json:"primary,omitempty"`
	Secondary     string   `json:"secondary,omitempty"`
	Direction     string   `json:"direction,omitempty"`
	Metrics       []string `json:"metrics,omitempty"`
	PrimaryName   string   `json:"primary_name,omitempty"`
	SecondaryName string   `json:"secondary_name,omitempty"`

	// Categorical comparison options; Category and Value are shared
	Metric        string `json:"metric,omitempty"` // Column naming each point's metric
	Text          string `json:"text,omitempty"`
	Size          string `json:"size,omitempty"`            // Defaults to Value
	RelativeToMin *bool  `json:"relative_to_min,omitempty"` // Defaults to true

	// Presentation
	DisplayNames map[string]string `json:"display_names,omitempty"`
	Template     *chart.Template   `json:"template,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the fields required by the kind and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	k, err := ParseKind(string(o.Kind))
	if err != nil {
		return err
	}
	o.Kind = k

	switch {
	case k.IsBridge():
		if err := required(map[string]string{"value": o.Value, "weight": o.Weight, "period": o.Period}); err != nil {
			return err
		}
		if k == KindPriceVolumeMix && o.Group == "" {
			return errors.Configuration("%s requires a group column", k)
		}
		if k == KindPriceVolume && (o.Group != "" || o.Breakdown) {
			return errors.Configuration("%s takes no group or breakdown; use %s", k, KindPriceVolumeMix)
		}
	case k.IsStackedBar():
		if err := required(map[string]string{"category": o.Category, "value": o.Value}); err != nil {
			return err
		}
		if o.Formula != "" {
			f, err := totals.ParseFormula(o.Formula)
			if err != nil {
				return err
			}
			o.Formula = string(f)
		}
		if o.TotalName == "" {
			o.TotalName = totals.DefaultTotalName
		}
	case k == KindComparison:
		if err := required(map[string]string{"category": o.Category, "primary": o.Primary, "secondary": o.Secondary}); err != nil {
			return err
		}
		if len(o.Metrics) == 0 {
			o.Metrics = []string{string(compare.Lift)}
		}
		if _, err := compare.ParseMetrics(o.Metrics); err != nil {
			return err
		}
		if o.PrimaryName == "" {
			o.PrimaryName = o.Primary
		}
		if o.SecondaryName == "" {
			o.SecondaryName = o.Secondary
		}
	case k == KindCategorical:
		if err := required(map[string]string{"category": o.Category, "metric": o.Metric, "value": o.Value}); err != nil {
			return err
		}
		if o.RelativeToMin == nil {
			relative := true
			o.RelativeToMin = &relative
		}
	}

	tmpl := chart.DefaultTemplate()
	if o.Template != nil {
		tmpl = o.Template.Merge(tmpl)
	}
	o.Template = &tmpl

	o.validated = true
	return nil
}

func required(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return errors.Configuration("missing required field(s): %s", strings.Join(missing, ", "))
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of one analysis.
type Result struct {
	Kind Kind

	// Figure is the plotly figure for the analysis.
	Figure *chart.Figure

	// Table is the engine output in tabular form, in plotting order.
	Table *table.Table

	Stats Stats
}

// Stats contains execution statistics.
type Stats struct {
	Rows     int // Input rows
	Bars     int // Plotted steps, segments or categories
	Duration time.Duration
}

// String formats the stats for status lines.
func (s Stats) String() string {
	return fmt.Sprintf("%d rows → %d bars in %s", s.Rows, s.Bars, s.Duration.Round(time.Microsecond))
}
