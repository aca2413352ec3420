// Package config loads the optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ftl/desstv/sstv"
)

const DefaultOutput = "result.png"

// Config represents the complete decoder configuration
type Config struct {
	Tuning  sstv.Tuning   `yaml:"tuning"`
	Output  OutputConfig  `yaml:"output"`
	Trace   TraceConfig   `yaml:"trace"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// OutputConfig contains the image output settings
type OutputConfig struct {
	// Default is the image file that is written when no output is given or when the
	// given output cannot be written.
	Default string `yaml:"default"`
}

// TraceConfig selects a stage to trace and where to send the trace
type TraceConfig struct {
	Context     string `yaml:"context"`
	Destination string `yaml:"destination"`
}

// MetricsConfig contains the metrics export settings
type MetricsConfig struct {
	File string `yaml:"file"`
}

func Default() Config {
	return Config{
		Tuning: sstv.DefaultTuning(),
		Output: OutputConfig{Default: DefaultOutput},
	}
}

// Load loads the configuration from a YAML file. Values missing in the file keep their
// defaults. An empty filename returns the default configuration.
func Load(filename string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(filename) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Tuning = c.Tuning.WithDefaults()
	if strings.TrimSpace(c.Output.Default) == "" {
		c.Output.Default = DefaultOutput
	}
}
