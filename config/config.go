package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for tessera.
type Config struct {
	Limits   LimitsConfig   `yaml:"limits"`
	Sampling SamplingConfig `yaml:"sampling"`
	Storage  StorageConfig  `yaml:"storage"`
	Compute  ComputeConfig  `yaml:"compute"`
}

// LimitsConfig bounds accepted datasets.
type LimitsConfig struct {
	MaxEpisodes  int `yaml:"max_episodes"`
	MaxDimension int `yaml:"max_dimension"`
}

// SamplingConfig holds sampling defaults.
type SamplingConfig struct {
	DefaultSeed        int64   `yaml:"default_seed"`
	CoveragePercentile float64 `yaml:"coverage_percentile"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

// ComputeConfig throttles heavy computations.
type ComputeConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"` // simultaneous sampling/clustering runs
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxEpisodes:  200_000,
			MaxDimension: 2048,
		},
		Sampling: SamplingConfig{
			DefaultSeed:        42,
			CoveragePercentile: 75.0,
		},
		Storage: StorageConfig{
			RetentionDays: 7,
		},
		Compute: ComputeConfig{
			MaxConcurrent: 2,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// tessera.yaml and then .tessera/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "tessera.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".tessera", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDBPath returns the path to the project database.
func StoreDBPath(dir string) string {
	return filepath.Join(dir, ".tessera", "projects.db")
}

// EnsureDir ensures the .tessera directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".tessera"), 0755)
}
