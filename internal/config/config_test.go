package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legionffl/cpr/internal/engine/cpr"
)

func TestLoadRankings_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadRankings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cpr.DefaultWeights, cfg.CPR.Weights)
	assert.Equal(t, cpr.ModeAlgorithmic, cfg.EffectiveMode())
}

func TestLoadRankings_ParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := []byte(`
cpr:
  weights:
    lineup: 0.5
    bench: 0.1
    momentum: 0.1
    balance: 0.1
    efficiency: 0.1
    schedule: 0.1
  bench_multiplier: 0.25
niv:
  weights:
    positional: 0.4
    market: 0.2
    explosive: 0.2
    consistency: 0.2
mode: heuristic
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := LoadRankings(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cfg.CPR.Weights.Lineup, 1e-9)
	assert.InDelta(t, 0.25, cfg.CPR.BenchMultiplier, 1e-9)
	assert.InDelta(t, 0.4, cfg.NIV.Weights.Positional, 1e-9)
	assert.Equal(t, cpr.ModeHeuristic, cfg.EffectiveMode())
}

func TestLoadRankings_RejectsUnknownMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: psychic\n"), 0o644))

	_, err := LoadRankings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestLoadRankings_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cpr: [not a map"), 0o644))

	_, err := LoadRankings(path)
	assert.Error(t, err)
}

func TestLoadRankings_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadRankings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRankings(), cfg)
}
