// Package config loads the YAML configuration surface into an explicit
// struct handed to the Driver. There is no package-level singleton here —
// every caller gets its own *Config back from Load.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/KnoooW/spf-wca/internal/wcerr"
	"gopkg.in/yaml.v3"
)

// Config is the fully-resolved configuration surface.
type Config struct {
	// Policy is the input size N0 used for the exhaustive phase-1 exploration.
	Policy PolicyConfig `yaml:"policy"`
	// Input bounds the heuristic phase-2 sweep.
	Input InputConfig `yaml:"input"`
	// PredictionModel controls the extrapolation horizon passed to the
	// fitting collaborator.
	PredictionModel PredictionModelConfig `yaml:"predictionModel"`
	// Heuristic toggles phase-2 host behavior.
	Heuristic HeuristicConfig `yaml:"heuristic"`
	// Req carries optional budget annotations drawn on the chart.
	Req ReqConfig `yaml:"req"`
	// Verbose enables auxiliary per-phase JSON reports.
	Verbose bool `yaml:"verbose"`
	// OutputDir is the root of all emitted files.
	OutputDir string `yaml:"outputDir"`
	// ReusePolicy skips phase 1 when a policy file already exists there.
	ReusePolicy bool `yaml:"reusePolicy"`
}

type PolicyConfig struct {
	InputSize int `yaml:"inputSize"`
	// MaxKeySize bounds the context-preserving prefix/suffix built for each
	// decision during both phases. Zero means unbounded.
	MaxKeySize int `yaml:"maxKeySize"`
}

type InputConfig struct {
	Max int `yaml:"max"`
}

type PredictionModelConfig struct {
	// Size is the prediction horizon. Zero means "use the default"
	// (ceil(1.5 * len(series))), resolved by the Driver once the series
	// is known rather than here, since the series length isn't available
	// at load time.
	Size int `yaml:"size"`
}

type HeuristicConfig struct {
	// NoSolver switches the host to a non-solving exploration mode:
	// recommendations become pruning hints only, and branch feasibility is
	// no longer checked against the solver. The CLI builds a single host
	// with this setting, so it applies to the phase-1 policy generation as
	// well as to phase 2; it cannot be enabled for phase 2 alone.
	NoSolver bool `yaml:"noSolver"`
	// Fallback selects what HeuristicSearch does on a policy miss:
	// "exploreAll" (default, the safe but expensive choice) or
	// "firstChoice" (the cheap no-solver fallback).
	Fallback string `yaml:"fallback"`
}

type ReqConfig struct {
	MaxInputSize *int     `yaml:"maxInputSize"`
	MaxRes       *float64 `yaml:"maxRes"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wcerr.New(wcerr.Configuration, "load", fmt.Errorf("read %s: %w", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, wcerr.New(wcerr.Configuration, "load", fmt.Errorf("parse %s: %w", path, err))
	}

	if err := cfg.validate(); err != nil {
		return nil, wcerr.New(wcerr.Configuration, "load", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Policy.InputSize < 0 {
		return fmt.Errorf("policy.inputSize must be non-negative, got %d", c.Policy.InputSize)
	}
	if c.Input.Max < 0 {
		return fmt.Errorf("input.max must be >= 0, got %d", c.Input.Max)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("outputDir is required")
	}
	return nil
}

// PredictionHorizon resolves predictionModel.size, defaulting to
// ceil(1.5 * seriesLen) when the config left it at zero.
func (c *Config) PredictionHorizon(seriesLen int) int {
	if c.PredictionModel.Size > 0 {
		return c.PredictionModel.Size
	}
	return int(math.Ceil(1.5 * float64(seriesLen)))
}
