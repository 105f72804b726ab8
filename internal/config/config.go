package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/hayeonchung/Unlocking-Housing-Prices-with-Predictive-Modeling/internal/errors"
)

// Config represents the complete workflow configuration
type Config struct {
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Model    ModelConfig    `yaml:"model" envconfig:"MODEL"`
	Report   ReportConfig   `yaml:"report" envconfig:"REPORT"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// DataConfig describes the input dataset
type DataConfig struct {
	InputPath    string   `yaml:"input_path" envconfig:"INPUT_PATH"`
	TargetColumn string   `yaml:"target_column" envconfig:"TARGET_COLUMN" validate:"required"`
	IDColumns    []string `yaml:"id_columns" envconfig:"ID_COLUMNS"`
}

// PipelineConfig controls cleaning, splitting, and trainer scheduling
type PipelineConfig struct {
	Seed             int64   `yaml:"seed" envconfig:"SEED"`
	TrainFraction    float64 `yaml:"train_fraction" envconfig:"TRAIN_FRACTION" validate:"gt=0,lt=1"`
	MissingThreshold float64 `yaml:"missing_threshold" envconfig:"MISSING_THRESHOLD" validate:"gte=0,lte=1"`
	MaxConcurrency   int     `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"gte=1"`
}

// ModelConfig holds the trainer hyperparameters
type ModelConfig struct {
	TreeCount    int     `yaml:"tree_count" envconfig:"TREE_COUNT" validate:"gte=1"`
	RoundCount   int     `yaml:"round_count" envconfig:"ROUND_COUNT" validate:"gte=1"`
	LearningRate float64 `yaml:"learning_rate" envconfig:"LEARNING_RATE" validate:"gt=0,lte=1"`
	MaxDepth     int     `yaml:"max_depth" envconfig:"MAX_DEPTH" validate:"gte=1"`
}

// ReportConfig controls evaluation output
type ReportConfig struct {
	TopK      int    `yaml:"top_k" envconfig:"TOP_K" validate:"gte=1"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TracingConfig controls the optional per-stage spans
type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence. An empty path
// probes the common config file locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("HOUSING", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile overlays configuration from a YAML file. Keys absent from the
// file leave the current values untouched.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// findConfigFile returns the first config file found in the common
// locations, or "" when none exists.
func findConfigFile() string {
	locations := []string{
		"housing.yaml",
		"configs/housing.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use YAML tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks every recognized option and reports the first violation
// as a config error.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.NewConfigError(formatFieldError(verrs[0]), nil)
		}
		return apperrors.NewConfigError("configuration validation failed", err)
	}
	return nil
}

// formatFieldError formats validation error messages
func formatFieldError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			TargetColumn: DefaultTargetColumn,
			IDColumns:    []string{DefaultIDColumn},
		},
		Pipeline: PipelineConfig{
			Seed:             DefaultSeed,
			TrainFraction:    DefaultTrainFraction,
			MissingThreshold: DefaultMissingThreshold,
			MaxConcurrency:   DefaultMaxConcurrency,
		},
		Model: ModelConfig{
			TreeCount:    DefaultTreeCount,
			RoundCount:   DefaultRoundCount,
			LearningRate: DefaultLearningRate,
			MaxDepth:     DefaultMaxDepth,
		},
		Report: ReportConfig{
			TopK:      DefaultTopK,
			OutputDir: DefaultReportsDir,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "stdout",
			FilePath: DefaultLogFile,
		},
	}
}
