// Package config loads experiment configuration from YAML files, layered
// over built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cleansim/internal/core"
	"cleansim/internal/experiment"
)

// Experiment describes a full sweep as read from a config file.
type Experiment struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	DirtyPct    float64 `yaml:"dirty_pct"`
	MaxSteps    int     `yaml:"max_steps"`
	AgentCounts []int   `yaml:"agent_counts"`
	Repetitions int     `yaml:"repetitions"`
	BaseSeed    int64   `yaml:"base_seed"`
	StopOnClean bool    `yaml:"stop_on_clean"`
	Workers     int     `yaml:"workers"`

	Logging Logging `yaml:"logging"`
}

// Logging configures the CLI's operational output.
type Logging struct {
	// Level sets log verbosity: "info" (default) or "debug".
	Level string `yaml:"level"`
}

// Default returns the standard experiment configuration.
func Default() Experiment {
	spec := experiment.DefaultSpec()
	return Experiment{
		Width:       spec.Width,
		Height:      spec.Height,
		DirtyPct:    spec.DirtyPct,
		MaxSteps:    spec.MaxSteps,
		AgentCounts: spec.AgentCounts,
		Repetitions: spec.Repetitions,
	}
}

// Load reads a YAML experiment config, applying file values over defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (Experiment, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configs the simulation would refuse anyway, so mistakes
// surface with the file name attached instead of mid-sweep.
func (c Experiment) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid dimensions %dx%d must be positive", core.ErrInvalidConfig, c.Width, c.Height)
	}
	if c.DirtyPct < 0 || c.DirtyPct > 100 {
		return fmt.Errorf("%w: dirty percentage %.2f outside [0, 100]", core.ErrInvalidConfig, c.DirtyPct)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps %d must be positive", core.ErrInvalidConfig, c.MaxSteps)
	}
	if len(c.AgentCounts) == 0 {
		return fmt.Errorf("%w: agent_counts must not be empty", core.ErrInvalidConfig)
	}
	for _, n := range c.AgentCounts {
		if n <= 0 {
			return fmt.Errorf("%w: agent count %d must be positive", core.ErrInvalidConfig, n)
		}
	}
	if c.Repetitions <= 0 {
		return fmt.Errorf("%w: repetitions %d must be positive", core.ErrInvalidConfig, c.Repetitions)
	}
	return nil
}

// Spec converts the file representation into an experiment spec.
func (c Experiment) Spec() experiment.Spec {
	return experiment.Spec{
		Width:       c.Width,
		Height:      c.Height,
		DirtyPct:    c.DirtyPct,
		MaxSteps:    c.MaxSteps,
		AgentCounts: c.AgentCounts,
		Repetitions: c.Repetitions,
		BaseSeed:    c.BaseSeed,
		StopOnClean: c.StopOnClean,
		Workers:     c.Workers,
	}
}
