// Package config loads the ranking weight configuration from YAML and the
// runtime settings from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/legionffl/cpr/internal/engine/cpr"
	"github.com/legionffl/cpr/internal/engine/niv"
)

// RankingsConfig is the tunable surface of the two composite engines.
type RankingsConfig struct {
	CPR  CPRConfig `yaml:"cpr"`
	NIV  NIVConfig `yaml:"niv"`
	Mode string    `yaml:"mode"` // "algorithmic" or "heuristic"
}

// CPRConfig holds the team composite settings.
type CPRConfig struct {
	Weights         cpr.Weights `yaml:"weights"`
	BenchMultiplier float64     `yaml:"bench_multiplier"`
}

// NIVConfig holds the player composite settings.
type NIVConfig struct {
	Weights niv.Weights `yaml:"weights"`
}

// DefaultRankings returns the canonical weight allocations.
func DefaultRankings() RankingsConfig {
	return RankingsConfig{
		CPR:  CPRConfig{Weights: cpr.DefaultWeights, BenchMultiplier: 0.3},
		NIV:  NIVConfig{Weights: niv.DefaultWeights},
		Mode: string(cpr.ModeAlgorithmic),
	}
}

// LoadRankings reads the weight configuration from a YAML file. A missing
// file falls back to the defaults; a present but unparsable file is an
// error. Weight sums are not validated here since the engines renormalize.
func LoadRankings(path string) (RankingsConfig, error) {
	cfg := DefaultRankings()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Warn().Str("path", path).Msg("rankings config not found, using defaults")
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read rankings config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse rankings config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid rankings config: %w", err)
	}
	return cfg, nil
}

// Validate catches structurally invalid settings. Weight sums off 1.0 are
// deliberately allowed; the engines renormalize and flag them.
func (c RankingsConfig) Validate() error {
	switch cpr.Mode(c.Mode) {
	case cpr.ModeAlgorithmic, cpr.ModeHeuristic, "":
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.CPR.BenchMultiplier < 0 {
		return fmt.Errorf("bench_multiplier must be non-negative, got %f", c.CPR.BenchMultiplier)
	}
	return nil
}

// EffectiveMode returns the composite mode, defaulting to algorithmic.
func (c RankingsConfig) EffectiveMode() cpr.Mode {
	if c.Mode == "" {
		return cpr.ModeAlgorithmic
	}
	return cpr.Mode(c.Mode)
}
