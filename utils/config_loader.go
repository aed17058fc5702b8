package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"sensor-combine/models"
)

// ─── Detection / discovery configs ──────────────────────────────────────

// DetectConfig holds the ordered name patterns used by the column detector.
// Order matters: the first pattern with any matching column wins.
type DetectConfig struct {
	TimestampPatterns []string `yaml:"timestamp_patterns" validate:"min=1,dive,required"`
	ExcludePatterns   []string `yaml:"exclude_patterns" validate:"dive,required"`
}

// DiscoverConfig controls how sensor files are recognised in a session.
type DiscoverConfig struct {
	AccelKeywords []string `yaml:"accel_keywords" validate:"min=1,dive,required"`
	GyroKeywords  []string `yaml:"gyro_keywords" validate:"min=1,dive,required"`
	TableExt      string   `yaml:"table_ext" validate:"required"`
}

type MergeConfig struct {
	// KeepTextTimestamps joins non-numeric timestamps by exact text instead
	// of dropping them as null.
	KeepTextTimestamps bool `yaml:"keep_text_timestamps" env:"SENSORKIT_KEEP_TEXT_TIMESTAMPS"`
}

// ─── Output / run configs ───────────────────────────────────────────────

type OutputConfig struct {
	Columns []string `yaml:"columns" validate:"min=1,dive,oneof=timestamp accel_x accel_y accel_z gyro_x gyro_y gyro_z"`
	Suffix  string   `yaml:"suffix" validate:"required"`
	Format  string   `yaml:"format" env:"SENSORKIT_FORMAT" validate:"oneof=csv xlsx"`
}

type CombineConfig struct {
	SourceRoot      string `yaml:"source_root" env:"SENSORKIT_SOURCE_ROOT" validate:"required"`
	ExtractedSubdir string `yaml:"extracted_subdir" env:"SENSORKIT_EXTRACTED_SUBDIR" validate:"required"`
	OutDir          string `yaml:"out_dir" env:"SENSORKIT_OUT_DIR" validate:"required"`
	Workers         int    `yaml:"workers" env:"SENSORKIT_WORKERS" validate:"min=1,max=64"`
}

type ExtractConfig struct {
	Targets    []string `yaml:"targets" validate:"min=1,dive,required"`
	ArchiveExt string   `yaml:"archive_ext" validate:"required"`
}

// Config is the top-level structure for sensorkit.yaml.
type Config struct {
	Detect   DetectConfig   `yaml:"detect"`
	Discover DiscoverConfig `yaml:"discover"`
	Merge    MergeConfig    `yaml:"merge"`
	Output   OutputConfig   `yaml:"output"`
	Combine  CombineConfig  `yaml:"combine"`
	Extract  ExtractConfig  `yaml:"extract"`
}

// RuntimeEnv carries process settings that only come from the environment.
type RuntimeEnv struct {
	ConfigPath string `env:"SENSORKIT_CONFIG"`
	LogFile    string `env:"SENSORKIT_LOG_FILE"`
}

// DefaultConfig returns the built-in configuration. Each call returns a
// fresh value that callers may modify.
func DefaultConfig() *Config {
	return &Config{
		Detect: DetectConfig{
			TimestampPatterns: []string{"time", "timestamp", "ts", "seconds", "sec", "elapsed"},
			ExcludePatterns:   []string{"time", "timestamp", "sec", "elapsed"},
		},
		Discover: DiscoverConfig{
			AccelKeywords: []string{"accelerometer", "accel"},
			GyroKeywords:  []string{"gyroscope", "gyro"},
			TableExt:      ".csv",
		},
		Output: OutputConfig{
			Columns: models.CanonicalColumns(),
			Suffix:  "_combined",
			Format:  "csv",
		},
		Combine: CombineConfig{
			SourceRoot:      "data",
			ExtractedSubdir: "extracted",
			OutDir:          filepath.Join("data", "combined"),
			Workers:         1,
		},
		Extract: ExtractConfig{
			Targets:    []string{"accelerometer.csv", "gyroscope.csv"},
			ArchiveExt: ".zip",
		},
	}
}

// ─── Loaders ────────────────────────────────────────────────────────────

// LoadConfig layers the YAML file at path (optional) and SENSORKIT_*
// environment variables over the defaults, then validates the result.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadRuntimeEnv reads RuntimeEnv from the environment.
func LoadRuntimeEnv() (RuntimeEnv, error) {
	var re RuntimeEnv
	if err := env.Parse(&re); err != nil {
		return re, fmt.Errorf("parse env: %w", err)
	}
	return re, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
