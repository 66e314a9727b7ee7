package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidechart/pkg/config"
	"github.com/matzehuels/slidechart/pkg/observability"
	"github.com/matzehuels/slidechart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "slidechart"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Output formats of the analysis commands.
const (
	formatTable   = "table"
	formatJSON    = "json"
	formatRecords = "records"
)

var validOutputFormats = map[string]bool{
	formatTable:   true,
	formatJSON:    true,
	formatRecords: true,
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration and applies its log level, unless
// --verbose already asked for debug output.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	if c.verbose {
		c.SetLogLevel(LogDebug)
		return nil
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger, observability.NewLogHooks(c.Logger))
}
