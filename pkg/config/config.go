// Package config loads slidechart settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default]),
//  2. a config file, TOML or YAML by extension,
//  3. SLIDECHART_* environment variables.
//
// The merged result is validated before it is returned. Without an explicit
// path the file is looked up as config.toml in $SLIDECHART_CONFIG_DIR, or in
// ~/.config/slidechart; a missing default file is not an error.
//
// Example config.toml:
//
//	total_name = "Overall"
//	log_level = "debug"
//
//	[display_names]
//	value_effect = "Price"
//	weight_effect = "Volume"
//	mix_effect = "Mix"
//
//	[server]
//	addr = ":9090"
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/matzehuels/slidechart/pkg/chart"
	"github.com/matzehuels/slidechart/pkg/errors"
	"github.com/matzehuels/slidechart/pkg/pipeline"
	"github.com/matzehuels/slidechart/pkg/totals"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "SLIDECHART"

// EnvConfigDir overrides the directory searched for the default config file.
const EnvConfigDir = "SLIDECHART_CONFIG_DIR"

// FileName is the name of the default config file.
const FileName = "config.toml"

// Config is the complete application configuration.
type Config struct {
	LogLevel  string `toml:"log_level" yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	TotalName string `toml:"total_name" yaml:"total_name" envconfig:"TOTAL_NAME" validate:"required"`

	// DisplayNames maps effect names to chart labels, e.g.
	// SLIDECHART_DISPLAY_NAMES="value_effect:Price,weight_effect:Volume".
	DisplayNames map[string]string `toml:"display_names" yaml:"display_names" envconfig:"DISPLAY_NAMES" validate:"dive,keys,oneof=value_effect weight_effect mix_effect,endkeys,required"`

	Template chart.Template `toml:"template" yaml:"template" ignored:"true"`
	Server   ServerConfig   `toml:"server" yaml:"server" envconfig:"SERVER"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr" yaml:"addr" envconfig:"ADDR" validate:"required"`
	ReadTimeout     time.Duration `toml:"read_timeout" yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `toml:"write_timeout" yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxBodyBytes    int64         `toml:"max_body_bytes" yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "info",
		TotalName: totals.DefaultTotalName,
		Template:  chart.DefaultTemplate(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    10 << 20,
		},
	}
}

// DefaultPath returns the config file looked up when no path is given.
func DefaultPath() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "slidechart", FileName), nil
}

// Load reads the config file at path, or the default file when path is empty,
// and applies the environment overlay.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only
	case os.IsNotExist(err):
		return nil, errors.NotFound("config file %s does not exist", path)
	default:
		return nil, fmt.Errorf("stat config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "read %s_* environment", EnvPrefix)
	}

	// Partial templates in the file inherit the remaining fields.
	cfg.Template = cfg.Template.Merge(chart.DefaultTemplate())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "config file extension %q (use .toml, .yaml or .yml)", ext)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid configuration")
	}
	return nil
}

// Apply fills the presentation fields opts leaves empty from c.
func (c *Config) Apply(opts *pipeline.Options) {
	if opts.TotalName == "" {
		opts.TotalName = c.TotalName
	}
	if len(opts.DisplayNames) == 0 && len(c.DisplayNames) > 0 {
		opts.DisplayNames = maps.Clone(c.DisplayNames)
	}
	tmpl := c.Template
	if opts.Template != nil {
		tmpl = opts.Template.Merge(c.Template)
	}
	opts.Template = &tmpl
}
