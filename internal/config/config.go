// Package config handles configuration loading, validation, and
// management for stylo.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete analysis configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Storage configuration for snapshot persistence.
	Storage StorageConfig `toml:"storage" json:"storage" yaml:"storage"`

	// Profile configuration for weighted-profile aggregation and drift.
	Profile ProfileConfig `toml:"profile" json:"profile" yaml:"profile"`

	// Window configuration for rolling-delta analysis.
	Window WindowConfig `toml:"window" json:"window" yaml:"window"`

	// Verifier configuration for impostors bootstrap verification.
	Verifier VerifierConfig `toml:"verifier" json:"verifier" yaml:"verifier"`

	// Lexicon configuration for contrastive lexicon analysis.
	Lexicon LexiconConfig `toml:"lexicon" json:"lexicon" yaml:"lexicon"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	// Type is the storage backend: "sqlite" or "memory".
	Type string `toml:"type" json:"type" yaml:"type"`

	// Path is the SQLite database path when Type is "sqlite".
	Path string `toml:"path" json:"path" yaml:"path"`
}

// ProfileConfig holds weighted-profile and drift parameters.
type ProfileConfig struct {
	// DecayFactor is the exponential discount applied to older
	// snapshots, in (0, 1].
	DecayFactor float64 `toml:"decay_factor" json:"decay_factor" yaml:"decay_factor"`

	// DriftThreshold is the cosine-distance threshold above which a new
	// snapshot counts as drifting.
	DriftThreshold float64 `toml:"drift_threshold" json:"drift_threshold" yaml:"drift_threshold"`
}

// WindowConfig holds rolling-window defaults.
type WindowConfig struct {
	// Size is the window length in tokens.
	Size int `toml:"size" json:"size" yaml:"size"`

	// Step is the number of tokens the window advances each slide.
	Step int `toml:"step" json:"step" yaml:"step"`
}

// VerifierConfig holds impostors bootstrap parameters.
type VerifierConfig struct {
	// Iterations is the number of bootstrap rounds.
	Iterations int `toml:"iterations" json:"iterations" yaml:"iterations"`

	// SubsetSize is the number of terms sampled per round.
	SubsetSize int `toml:"subset_size" json:"subset_size" yaml:"subset_size"`

	// Seed fixes the random source for reproducible runs.
	Seed int64 `toml:"seed" json:"seed" yaml:"seed"`
}

// LexiconConfig holds contrastive lexicon parameters.
type LexiconConfig struct {
	// MinDocFrequency excludes terms whose combined occurrence count
	// across both corpora falls below it.
	MinDocFrequency int `toml:"min_doc_frequency" json:"min_doc_frequency" yaml:"min_doc_frequency"`

	// TopN truncates each preference list.
	TopN int `toml:"top_n" json:"top_n" yaml:"top_n"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is "stdout", "stderr", "file", or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file path when Output includes "file".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the log size in megabytes before rotation.
	MaxSizeMB int64 `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Storage: StorageConfig{
			Type: "sqlite",
			Path: filepath.Join(DataDir(), "stylo.db"),
		},
		Profile: ProfileConfig{
			DecayFactor:    0.5,
			DriftThreshold: 0.1,
		},
		Window: WindowConfig{
			Size: 20,
			Step: 10,
		},
		Verifier: VerifierConfig{
			Iterations: 300,
			SubsetSize: 50,
			Seed:       0,
		},
		Lexicon: LexiconConfig{
			MinDocFrequency: 2,
			TopN:            25,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   filepath.Join(DataDir(), "stylo.log"),
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// DataDir returns the default data directory, honoring XDG_DATA_HOME.
func DataDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "stylo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stylo"
	}
	return filepath.Join(home, ".local", "share", "stylo")
}

// ApplyEnvOverrides applies STYLO_* environment variables over the
// loaded values. Unparseable numeric values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("STYLO_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("STYLO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("STYLO_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("STYLO_DECAY_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Profile.DecayFactor = f
		}
	}
	if v := os.Getenv("STYLO_DRIFT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Profile.DriftThreshold = f
		}
	}
	if v := os.Getenv("STYLO_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Verifier.Seed = n
		}
	}
}

// Save writes the configuration as TOML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ExportYAML renders the configuration as YAML.
func (c *Config) ExportYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return data, nil
}

// ExportJSON renders the configuration as indented JSON.
func (c *Config) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return data, nil
}
