// Package observability provides hooks for metrics, tracing, and logging.
//
// Hooks let callers instrument analysis runs and API requests without the
// engines depending on a specific backend. Unlike a process-wide registry,
// hooks are handed to the components that emit events:
//
//	hooks := observability.NewLogHooks(logger)
//	runner := pipeline.NewRunner(logger, hooks)
//	srv := server.New(runner, cfg, logger, hooks)
//
// A nil hooks value is never called; components substitute the no-op
// implementations below.
package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from the analysis pipeline.
type AnalysisHooks interface {
	// OnAnalysisStart fires after options are validated, before the engine runs.
	OnAnalysisStart(ctx context.Context, kind string, rows int)

	// OnAnalysisComplete fires once per run. bars is the number of plotted
	// bars (steps, segments or categories); it is zero when err is non-nil.
	OnAnalysisComplete(ctx context.Context, kind string, bars int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	OnRequest(ctx context.Context, requestID, method, path string)
	OnResponse(ctx context.Context, requestID, method, path string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnAnalysisStart(context.Context, string, int) {}
func (NoopAnalysisHooks) OnAnalysisComplete(context.Context, string, int, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string) {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
}

// =============================================================================
// Logging Implementation
// =============================================================================

// LogHooks writes every event to a charmbracelet logger at debug level,
// except failed analyses and 5xx responses which are logged as errors.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or to the default logger when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnAnalysisStart(_ context.Context, kind string, rows int) {
	h.Logger.Debug("analysis started", "kind", kind, "rows", rows)
}

func (h *LogHooks) OnAnalysisComplete(_ context.Context, kind string, bars int, duration time.Duration, err error) {
	if err != nil {
		h.Logger.Error("analysis failed", "kind", kind, "duration", duration, "err", err)
		return
	}
	h.Logger.Debug("analysis complete", "kind", kind, "bars", bars, "duration", duration)
}

func (h *LogHooks) OnRequest(_ context.Context, requestID, method, path string) {
	h.Logger.Debug("request", "id", requestID, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, requestID, method, path string, status int, duration time.Duration) {
	if status >= 500 {
		h.Logger.Error("response", "id", requestID, "method", method, "path", path, "status", status, "duration", duration)
		return
	}
	h.Logger.Info("response", "id", requestID, "method", method, "path", path, "status", status, "duration", duration)
}

// Compile-time interface checks.
var (
	_ AnalysisHooks = NoopAnalysisHooks{}
	_ HTTPHooks     = NoopHTTPHooks{}
	_ AnalysisHooks = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
