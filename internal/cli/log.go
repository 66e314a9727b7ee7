// Package cli implements the slidechart command-line interface.
//
// Every analysis command reads one table (CSV, XLSX or JSON records), runs
// it through the pipeline, and writes either an aligned text table, the
// plotly figure as JSON, or the result table as JSON records.
//
// # Commands
//
//   - bridge: price-volume(-mix) decomposition for waterfall charts
//   - total: stacked bars with an inserted total
//   - compare: dumbbell comparison of two series
//   - serve: run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Without it
// the level comes from the config file (log_level), defaulting to info.
// Logs go to stderr; results go to stdout or --output.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Read 6 rows from sales.csv (2ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
