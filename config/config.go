// Package config provides configuration loading and management for pddls.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the complete pddls configuration
type Config struct {
	Ontology OntologyConfig `yaml:"ontology"`
	Solver   SolverConfig   `yaml:"solver"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`
	NATS     NATSConfig     `yaml:"nats"`
	Watch    WatchConfig    `yaml:"watch"`
	Log      LogConfig      `yaml:"log"`

	// BaseDir anchors relative ontology patterns. It is set to the
	// directory of the file the config was loaded from.
	BaseDir string `yaml:"-"`
}

// OntologyConfig lists the ontology sources used for augmentation
type OntologyConfig struct {
	// Files are paths or doublestar globs (e.g. "onto/**/*.ttl")
	Files []string `yaml:"files"`
	// Common is an optional shared ontology unioned with Files
	Common string `yaml:"common"`
}

// SolverConfig configures the external planner
type SolverConfig struct {
	// Command is the solver executable (default: ff)
	Command string `yaml:"command"`
	// Args override the default "-s 0 -o {domain} -f {problem}"
	Args []string `yaml:"args"`
	// Timeout bounds a single run (0 = unbounded)
	Timeout time.Duration `yaml:"timeout"`
}

// OutputConfig configures tree form output
type OutputConfig struct {
	// Format is yaml or json
	Format string `yaml:"format"`
	// Indent is the indentation width (0 = 1 for json, 4 for yaml)
	Indent int `yaml:"indent"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	// Addr is the listen address (default: :8080)
	Addr string `yaml:"addr"`
}

// NATSConfig configures result publishing
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// Subject receives augmentation results
	Subject string `yaml:"subject"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce delays re-augmentation after a burst of changes
	Debounce time.Duration `yaml:"debounce"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

var (
	outputFormats = []string{"yaml", "json"}
	logLevels     = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Command: "ff",
			Timeout: 5 * time.Minute,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		NATS: NATSConfig{
			URL:     "",
			Subject: "pddls.augmented",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	for _, pattern := range c.Ontology.Files {
		if !doublestar.ValidatePathPattern(pattern) {
			return fmt.Errorf("ontology.files: invalid pattern %q", pattern)
		}
	}
	if c.Solver.Timeout < 0 {
		return fmt.Errorf("solver.timeout must not be negative")
	}
	if !slices.Contains(outputFormats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %v", outputFormats)
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("output.indent must not be negative")
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v", logLevels)
	}
	return nil
}

// OntologyFiles expands the ontology patterns into file paths. Relative
// patterns are resolved against BaseDir. Each pattern must match at least
// one file; duplicates are dropped and each pattern's matches are sorted.
func (c *Config) OntologyFiles() ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range c.Ontology.Files {
		full := pattern
		if !filepath.IsAbs(full) && c.BaseDir != "" {
			full = filepath.Join(c.BaseDir, full)
		}
		matches, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand ontology pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("ontology pattern %q matched no files", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// CommonOntology returns the common ontology path resolved against BaseDir.
func (c *Config) CommonOntology() string {
	if c.Ontology.Common == "" || filepath.IsAbs(c.Ontology.Common) || c.BaseDir == "" {
		return c.Ontology.Common
	}
	return filepath.Join(c.BaseDir, c.Ontology.Common)
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.BaseDir = filepath.Dir(path)

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Ontology
	if len(other.Ontology.Files) > 0 || other.Ontology.Common != "" {
		c.BaseDir = other.BaseDir
	}
	if len(other.Ontology.Files) > 0 {
		c.Ontology.Files = other.Ontology.Files
	}
	if other.Ontology.Common != "" {
		c.Ontology.Common = other.Ontology.Common
	}

	// Solver
	if other.Solver.Command != "" {
		c.Solver.Command = other.Solver.Command
	}
	if len(other.Solver.Args) > 0 {
		c.Solver.Args = other.Solver.Args
	}
	if other.Solver.Timeout != 0 {
		c.Solver.Timeout = other.Solver.Timeout
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Indent != 0 {
		c.Output.Indent = other.Output.Indent
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
