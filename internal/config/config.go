package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix is the prefix for all environment variable overrides
const envPrefix = "HOUSINGML"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains request rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ExtractDir string `yaml:"extract_dir" envconfig:"EXTRACT_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig contains the training pipeline configuration
type PipelineConfig struct {
	TargetColumn     string         `yaml:"target_column" envconfig:"TARGET_COLUMN" validate:"required"`
	TestFraction     float64        `yaml:"test_fraction" envconfig:"TEST_FRACTION" validate:"gt=0,lt=1"`
	Seed             int64          `yaml:"seed" envconfig:"SEED"`
	OutlierFence     float64        `yaml:"outlier_fence" envconfig:"OUTLIER_FENCE" validate:"gt=0"`
	MissingThreshold float64        `yaml:"missing_threshold" envconfig:"MISSING_THRESHOLD" validate:"gte=0,lte=1"`
	Boosting         BoostingConfig `yaml:"boosting" envconfig:"BOOSTING"`
}

// BoostingConfig contains hyperparameters for the gradient boosting regressor
type BoostingConfig struct {
	Iterations     int     `yaml:"iterations" envconfig:"ITERATIONS" validate:"gt=0"`
	LearningRate   float64 `yaml:"learning_rate" envconfig:"LEARNING_RATE" validate:"gt=0,lte=1"`
	MaxDepth       int     `yaml:"max_depth" envconfig:"MAX_DEPTH" validate:"gt=0"`
	MaxBins        int     `yaml:"max_bins" envconfig:"MAX_BINS" validate:"gt=1,lte=255"`
	MinSamplesLeaf int     `yaml:"min_samples_leaf" envconfig:"MIN_SAMPLES_LEAF" validate:"gt=0"`
}

// Default returns the built-in configuration defaults
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/housingml.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ExtractDir: "data/extracted",
			ReportsDir: "data/reports",
			LogsDir:    "logs",
		},
		Pipeline: PipelineConfig{
			TargetColumn:     "SalePrice",
			TestFraction:     0.2,
			Seed:             42,
			OutlierFence:     1.5,
			MissingThreshold: 0.3,
			Boosting: BoostingConfig{
				Iterations:     100,
				LearningRate:   0.1,
				MaxDepth:       6,
				MaxBins:        255,
				MinSamplesLeaf: 20,
			},
		},
	}
}

// Load loads configuration in precedence order: defaults, then the optional
// YAML file, then environment variable overrides.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile unmarshals a YAML file over the current configuration.
// Keys absent from the file leave existing values untouched.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its declared constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
