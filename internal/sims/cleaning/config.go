package cleaning

import (
	"fmt"
	"strconv"

	"cleansim/internal/core"
)

// Config controls a single cleaning-robot simulation run.
type Config struct {
	Width  int
	Height int

	// Agents is the number of cleaning robots placed on the grid.
	Agents int

	// DirtyPct is the initial percentage of dirty cells, in [0, 100]. The
	// dirty cell count is truncated, not rounded: 50% of a 3x3 grid is 4.
	DirtyPct float64

	// MaxSteps is the step budget; the run always ends once it is spent.
	MaxSteps int

	Seed int64

	// StopOnClean ends the run as soon as every cell is clean instead of
	// running out the step budget. Off by default: the run keeps stepping
	// (and keeps recording movement) and only timestamps StepsToClean.
	StopOnClean bool
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:    10,
		Height:   10,
		Agents:   1,
		DirtyPct: 50,
		MaxSteps: 1000,
		Seed:     1337,
	}
}

// Validate reports whether the configuration can produce a valid run.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid dimensions %dx%d must be positive", core.ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Agents <= 0 {
		return fmt.Errorf("%w: agent count %d must be positive", core.ErrInvalidConfig, c.Agents)
	}
	if c.DirtyPct < 0 || c.DirtyPct > 100 {
		return fmt.Errorf("%w: dirty percentage %.2f outside [0, 100]", core.ErrInvalidConfig, c.DirtyPct)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps %d must be positive", core.ErrInvalidConfig, c.MaxSteps)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["agents"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Agents = parsed
		}
	}
	if v, ok := cfg["dirty_pct"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 100 {
			c.DirtyPct = parsed
		}
	}
	if v, ok := cfg["max_steps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.MaxSteps = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["stop_on_clean"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.StopOnClean = parsed
		}
	}
	return c
}
