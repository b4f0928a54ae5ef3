// Package config handles YAML experiment config file loading.
package config

import (
	"fmt"
	"time"

	"github.com/justapithecus/prospect/report"
	"github.com/justapithecus/prospect/search"
	"github.com/justapithecus/prospect/types"
)

// Config represents a prospect.yaml configuration file.
type Config struct {
	Experiment ExperimentConfig `yaml:"experiment"`
	Task       string           `yaml:"task"`
	Optimize   string           `yaml:"optimize"`
	AllowList  []string         `yaml:"allow_list"`
	Columns    ColumnsConfig    `yaml:"columns"`
	Storage    StorageConfig    `yaml:"storage"`
}

// ExperimentConfig holds the experiment loop settings.
type ExperimentConfig struct {
	MaxExperimentTime   Duration `yaml:"max_experiment_time"`
	MaxModels           int      `yaml:"max_models"`
	CacheDirectory      string   `yaml:"cache_directory"`
	CacheBeforeTrainer  bool     `yaml:"cache_before_trainer"`
	Seed                *int64   `yaml:"seed"`
	PropagationInterval Duration `yaml:"propagation_interval"`
}

// ColumnsConfig holds dataset column metadata.
type ColumnsConfig struct {
	Label       string   `yaml:"label"`
	Numeric     []string `yaml:"numeric"`
	Categorical []string `yaml:"categorical"`
	Text        []string `yaml:"text"`
	Ignored     []string `yaml:"ignored"`
}

// StorageConfig holds report export defaults.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if !types.TaskKind(c.Task).Valid() {
		return fmt.Errorf("unrecognized task %q", c.Task)
	}
	switch c.Optimize {
	case "maximize", "minimize":
	default:
		return fmt.Errorf("optimize must be maximize or minimize, got %q", c.Optimize)
	}
	if c.Experiment.MaxModels <= 0 {
		return fmt.Errorf("experiment.max_models must be positive, got %d", c.Experiment.MaxModels)
	}
	if c.Columns.Label == "" {
		return fmt.Errorf("columns.label is required")
	}
	switch c.Storage.Backend {
	case "", "local":
	case "s3":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unrecognized storage backend %q", c.Storage.Backend)
	}
	return nil
}

// Settings converts the file values to loop settings.
func (c *Config) Settings() search.Settings {
	return search.Settings{
		MaxExperimentTime:   c.Experiment.MaxExperimentTime.Duration,
		MaxModels:           c.Experiment.MaxModels,
		CacheDirectory:      c.Experiment.CacheDirectory,
		CacheBeforeTrainer:  c.Experiment.CacheBeforeTrainer,
		Seed:                c.Experiment.Seed,
		PropagationInterval: c.Experiment.PropagationInterval.Duration,
	}
}

// TaskKind returns the configured task.
func (c *Config) TaskKind() types.TaskKind {
	return types.TaskKind(c.Task)
}

// Maximize reports the configured optimization direction.
func (c *Config) Maximize() bool {
	return c.Optimize != "minimize"
}

// ColumnInfo converts the column section to the oracle's metadata view.
func (c *Config) ColumnInfo() types.ColumnInfo {
	return types.ColumnInfo{
		Label:       c.Columns.Label,
		Numeric:     c.Columns.Numeric,
		Categorical: c.Columns.Categorical,
		Text:        c.Columns.Text,
		Ignored:     c.Columns.Ignored,
	}
}

// S3 converts the storage section to an S3 export config.
func (c *Config) S3() report.S3Config {
	bucket, prefix := report.ParseS3Path(c.Storage.Path)
	return report.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       c.Storage.Region,
		Endpoint:     c.Storage.Endpoint,
		UsePathStyle: c.Storage.S3PathStyle,
	}
}
