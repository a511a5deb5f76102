package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete toolkit configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Model   ModelConfig   `yaml:"model" envconfig:"MODEL"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/vaprisk.log"`
}

// PathsConfig contains file system paths for input data and generated output
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports" validate:"required"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" default:"data/charts" validate:"required"`
}

// ModelConfig contains defaults for window expansion, imputation and tuning
type ModelConfig struct {
	HourInterval       int     `yaml:"hour_interval" envconfig:"HOUR_INTERVAL" default:"24" validate:"min=1"`
	MADThreshold       float64 `yaml:"mad_threshold" envconfig:"MAD_THRESHOLD" default:"3.5" validate:"gt=0"`
	Trials             int     `yaml:"trials" envconfig:"TRIALS" default:"50" validate:"min=1"`
	Folds              int     `yaml:"folds" envconfig:"FOLDS" default:"3" validate:"min=2"`
	Seed               int64   `yaml:"seed" envconfig:"SEED" default:"42"`
	MajorityProportion float64 `yaml:"majority_proportion" envconfig:"MAJORITY_PROPORTION" default:"1.0" validate:"gt=0"`
}

// DefaultConfig returns a configuration populated with struct tag defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	// envconfig fills in the tag defaults when no environment is set
	_ = envconfig.Process("VAPRISK", cfg)
	return cfg
}

// Load reads configuration from an optional YAML file, then applies
// environment variable overrides with the VAPRISK prefix.
// An empty path skips the file step entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("VAPRISK", cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against the struct validation tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// EnsureDirs creates the configured output directories if missing
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.ChartsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if c.Logging.Output == "file" || c.Logging.Output == "both" {
		if err := os.MkdirAll(filepath.Dir(c.Logging.FilePath), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
	}
	return nil
}
