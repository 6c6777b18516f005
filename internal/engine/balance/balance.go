// Package balance computes the positional balance index: one minus the
// weighted Herfindahl-Hirschman concentration of a roster's position mix.
// Higher values mean a more diversified roster.
package balance

import (
	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/model"
	"github.com/legionffl/cpr/internal/stats"
)

const (
	// MaxStarters caps how many starter slots enter the starter HHI.
	MaxStarters = 7
	// MaxBench caps how many bench players enter the bench HHI.
	MaxBench = 5
)

// Calculator scores teams by positional concentration. The starter and
// bench groups are weighted separately and must sum to 1.
type Calculator struct {
	StarterWeight float64
	BenchWeight   float64
}

// NewCalculator returns a calculator with the default 0.7/0.3 split.
func NewCalculator() *Calculator {
	return &Calculator{StarterWeight: 0.7, BenchWeight: 0.3}
}

// Result carries the balance score with its per-group breakdown.
type Result struct {
	Score         float64        `json:"score"`
	StarterHHI    float64        `json:"starter_hhi"`
	BenchHHI      float64        `json:"bench_hhi"`
	StarterCounts map[string]int `json:"starter_counts"`
	BenchCounts   map[string]int `json:"bench_counts"`
	Degraded      bool           `json:"degraded"`
}

// Score computes the balance index for one team. A team without starters
// scores 0 and is flagged degraded rather than failing.
func (c *Calculator) Score(team model.Team, players map[string]model.Player) Result {
	starters := team.StarterSlots(MaxStarters)
	bench := team.Bench(MaxBench)

	if len(starters) == 0 {
		log.Warn().Str("team", team.Name).Msg("no starters, balance index degraded to 0")
		return Result{Degraded: true}
	}

	starterCounts := countCategories(starters, players)
	benchCounts := countCategories(bench, players)

	starterHHI := hhi(starterCounts, len(starters))
	benchHHI := 0.0
	if len(bench) > 0 {
		benchHHI = hhi(benchCounts, len(bench))
	}

	weighted := c.StarterWeight*starterHHI + c.BenchWeight*benchHHI
	score := stats.Clamp(1-weighted, 0, 1)

	log.Debug().Str("team", team.Name).
		Float64("starter_hhi", starterHHI).
		Float64("bench_hhi", benchHHI).
		Float64("balance", score).
		Msg("balance index computed")

	return Result{
		Score:         score,
		StarterHHI:    starterHHI,
		BenchHHI:      benchHHI,
		StarterCounts: starterCounts,
		BenchCounts:   benchCounts,
	}
}

// LeagueScores computes the balance score for every team, keyed by team ID.
// A per-team failure degrades that team to 0 instead of aborting the pass.
func (c *Calculator) LeagueScores(teams []model.Team, players map[string]model.Player) map[string]Result {
	out := make(map[string]Result, len(teams))
	for _, team := range teams {
		out[team.ID] = c.Score(team, players)
	}
	return out
}

func countCategories(ids []string, players map[string]model.Player) map[string]int {
	counts := make(map[string]int)
	for _, id := range ids {
		player, ok := players[id]
		if !ok {
			continue
		}
		counts[player.Position.Category()]++
	}
	return counts
}

// hhi is the sum of squared category shares over total group size.
func hhi(counts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	var sum float64
	for _, n := range counts {
		share := float64(n) / float64(total)
		sum += share * share
	}
	return sum
}
