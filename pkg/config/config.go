// Package config provides configuration loading and validation for the rbtree exerciser.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidOperations = errors.New("operations must be positive")
	ErrInvalidKeySpace   = errors.New("key space must be positive")
	ErrInvalidRatio      = errors.New("operation ratios must be in [0, 1] and sum to at most 1")
	ErrInvalidInterval   = errors.New("validate and sample intervals must not be negative")
	ErrInvalidOrder      = errors.New("order must be asc or desc")
	ErrInvalidLogLevel   = errors.New("unknown log level")
)

// Config holds all configuration for the rbtree exerciser.
type Config struct {
	Workload  WorkloadConfig  `mapstructure:"workload"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// WorkloadConfig drives the randomized operation mix.
// Whatever share the three ratios leave is spent on lookups.
type WorkloadConfig struct {
	Order            string  `mapstructure:"order"`
	Format           string  `mapstructure:"format"`
	Seed             int64   `mapstructure:"seed"`
	Operations       int     `mapstructure:"operations"`
	KeySpace         int     `mapstructure:"key_space"`
	ValidateEvery    int     `mapstructure:"validate_every"`
	SampleEvery      int     `mapstructure:"sample_every"`
	PutRatio         float64 `mapstructure:"put_ratio"`
	DeleteRatio      float64 `mapstructure:"delete_ratio"`
	GetOrInsertRatio float64 `mapstructure:"get_or_insert_ratio"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds tracing and metrics export settings.
type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	MetricsFile  string `mapstructure:"metrics_file"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches ./rbtree.yaml, ./config and /etc/rbtree;
// a missing file in that case is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("rbtree")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/rbtree")
	}

	viperCfg.SetEnvPrefix("RBTREE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	return &Config{
		Workload: WorkloadConfig{
			Order:            DefaultOrder,
			Format:           DefaultReportFormat,
			Seed:             DefaultSeed,
			Operations:       DefaultOperations,
			KeySpace:         DefaultKeySpace,
			ValidateEvery:    DefaultValidateEvery,
			SampleEvery:      DefaultSampleEvery,
			PutRatio:         DefaultPutRatio,
			DeleteRatio:      DefaultDeleteRatio,
			GetOrInsertRatio: DefaultGetOrInsertRatio,
		},
		Logging: LoggingConfig{
			Level: DefaultLoggingLevel,
			JSON:  DefaultLoggingJSON,
		},
		Telemetry: TelemetryConfig{
			ServiceName:  DefaultTelemetryService,
			OTLPInsecure: DefaultTelemetryInsecure,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Workload defaults.
	viperCfg.SetDefault("workload.seed", DefaultSeed)
	viperCfg.SetDefault("workload.operations", DefaultOperations)
	viperCfg.SetDefault("workload.key_space", DefaultKeySpace)
	viperCfg.SetDefault("workload.put_ratio", DefaultPutRatio)
	viperCfg.SetDefault("workload.delete_ratio", DefaultDeleteRatio)
	viperCfg.SetDefault("workload.get_or_insert_ratio", DefaultGetOrInsertRatio)
	viperCfg.SetDefault("workload.validate_every", DefaultValidateEvery)
	viperCfg.SetDefault("workload.sample_every", DefaultSampleEvery)
	viperCfg.SetDefault("workload.order", DefaultOrder)
	viperCfg.SetDefault("workload.format", DefaultReportFormat)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)

	// Telemetry defaults.
	viperCfg.SetDefault("telemetry.service_name", DefaultTelemetryService)
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultTelemetryInsecure)
	viperCfg.SetDefault("telemetry.metrics_file", "")
}

// Validate checks the configuration for values the exerciser cannot run with.
func (c *Config) Validate() error {
	wl := c.Workload

	if wl.Operations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOperations, wl.Operations)
	}

	if wl.KeySpace <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidKeySpace, wl.KeySpace)
	}

	for _, ratio := range []float64{wl.PutRatio, wl.DeleteRatio, wl.GetOrInsertRatio} {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
		}
	}

	if sum := wl.PutRatio + wl.DeleteRatio + wl.GetOrInsertRatio; sum > 1 {
		return fmt.Errorf("%w: sum %v", ErrInvalidRatio, sum)
	}

	if wl.ValidateEvery < 0 || wl.SampleEvery < 0 {
		return fmt.Errorf("%w: validate_every=%d sample_every=%d",
			ErrInvalidInterval, wl.ValidateEvery, wl.SampleEvery)
	}

	if wl.Order != OrderAscending && wl.Order != OrderDescending {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, wl.Order)
	}

	_, err := c.Logging.SlogLevel()
	if err != nil {
		return err
	}

	return nil
}

// SlogLevel parses the configured log level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}

	return level, nil
}
