// Package niv computes the player-level impact composite: positional
// scarcity-adjusted percentile, raw production, explosiveness and
// consistency, each on the canonical 0-100 scale, folded into one weighted
// score with global and positional ranks and tiers.
package niv

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/model"
	"github.com/legionffl/cpr/internal/stats"
)

const (
	// ScaleCeiling is the canonical ceiling for every sub-index and the
	// composite.
	ScaleCeiling = 100.0

	// marketReference is the season fantasy-point total treated as a
	// top-end score.
	marketReference = 300.0

	// Explosiveness heuristic: without week-by-week granularity, big-game
	// share is approximated from points per game against this threshold.
	explosiveThreshold = 15.0
	explosiveShare     = 0.3

	// consistencyReference is the points-per-game level treated as fully
	// reliable.
	consistencyReference = 20.0
)

// scarcity multipliers by position; scarcer positions amplify percentile.
var scarcity = map[model.Position]float64{
	model.PositionTE:  1.3,
	model.PositionRB:  1.2,
	model.PositionIDP: 1.1,
	model.PositionWR:  1.0,
	model.PositionQB:  0.8,
	model.PositionDEF: 0.7,
	model.PositionK:   0.6,
}

// Weights allocates the composite across the four player sub-indices.
type Weights struct {
	Positional  float64 `yaml:"positional" json:"positional"`
	Market      float64 `yaml:"market" json:"market"`
	Explosive   float64 `yaml:"explosive" json:"explosive"`
	Consistency float64 `yaml:"consistency" json:"consistency"`
}

// DefaultWeights splits the composite evenly.
var DefaultWeights = Weights{Positional: 0.25, Market: 0.25, Explosive: 0.25, Consistency: 0.25}

// Sum returns the total allocation.
func (w Weights) Sum() float64 {
	return w.Positional + w.Market + w.Explosive + w.Consistency
}

// Normalized scales the weights to sum to 1.0, reporting whether an
// adjustment was applied.
func (w Weights) Normalized() (Weights, bool) {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights, true
	}
	if diff := sum - 1.0; diff > -0.01 && diff < 0.01 {
		return w, false
	}
	return Weights{
		Positional:  w.Positional / sum,
		Market:      w.Market / sum,
		Explosive:   w.Explosive / sum,
		Consistency: w.Consistency / sum,
	}, true
}

// Map returns the weights keyed by sub-index name.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"positional":  w.Positional,
		"market":      w.Market,
		"explosive":   w.Explosive,
		"consistency": w.Consistency,
	}
}

// Config parameterizes the engine.
type Config struct {
	Weights Weights
	Season  int
}

// Engine scores and ranks players.
type Engine struct {
	weights         Weights
	weightsAdjusted bool
	season          int
}

// New builds an engine, renormalizing the weights when needed.
func New(cfg Config) *Engine {
	weights, adjusted := cfg.Weights.Normalized()
	if adjusted {
		log.Warn().Float64("sum", cfg.Weights.Sum()).Msg("NIV weights renormalized to 1.0")
	}
	return &Engine{weights: weights, weightsAdjusted: adjusted, season: cfg.Season}
}

// Weights returns the effective allocation.
func (e *Engine) Weights() Weights { return e.weights }

// WeightsAdjusted reports whether construction renormalized the weights.
func (e *Engine) WeightsAdjusted() bool { return e.weightsAdjusted }

// Rankings is the output of one NIV run.
type Rankings struct {
	Results         []model.NIVResult  `json:"rankings"`
	TotalPlayers    int                `json:"total_players"`
	WeightsUsed     map[string]float64 `json:"weights_used"`
	WeightsAdjusted bool               `json:"weights_adjusted"`
}

// RankPlayers scores every rostered player and assigns global and
// positional ranks. Players with no current-season statistics receive
// zero-valued sub-indices and a degraded flag rather than being dropped.
func (e *Engine) RankPlayers(teams []model.Team, players map[string]model.Player) *Rankings {
	rostered := rosteredPlayers(teams, players)
	pointsByPosition := e.positionPools(rostered)

	results := make([]model.NIVResult, 0, len(rostered))
	for _, rp := range rostered {
		results = append(results, e.scorePlayer(rp, pointsByPosition))
	}

	rankGlobal(results)
	rankPositional(results)

	log.Info().Int("players", len(results)).Msg("NIV rankings computed")
	return &Rankings{
		Results:         results,
		TotalPlayers:    len(results),
		WeightsUsed:     e.weights.Map(),
		WeightsAdjusted: e.weightsAdjusted,
	}
}

type rosteredPlayer struct {
	player model.Player
	teamID string
}

// rosteredPlayers gathers every player appearing on a roster, attributed
// to the team carrying them. Iteration over teams keeps output order
// deterministic; a player on two rosters keeps the first attribution.
func rosteredPlayers(teams []model.Team, players map[string]model.Player) []rosteredPlayer {
	seen := make(map[string]struct{})
	var out []rosteredPlayer
	for _, team := range teams {
		for _, id := range team.Roster {
			if _, dup := seen[id]; dup {
				continue
			}
			player, ok := players[id]
			if !ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, rosteredPlayer{player: player, teamID: team.ID})
		}
	}
	return out
}

// positionPools collects current-season fantasy points per position.
func (e *Engine) positionPools(rostered []rosteredPlayer) map[model.Position][]float64 {
	pools := make(map[model.Position][]float64)
	for _, rp := range rostered {
		points := 0.0
		if st, ok := rp.player.SeasonStats(e.season); ok {
			points = st.FantasyPoints
		}
		pools[rp.player.Position] = append(pools[rp.player.Position], points)
	}
	return pools
}

func (e *Engine) scorePlayer(rp rosteredPlayer, pools map[model.Position][]float64) model.NIVResult {
	res := model.NIVResult{
		PlayerID: rp.player.ID,
		Name:     rp.player.Name,
		Position: rp.player.Position,
		TeamID:   rp.teamID,
	}

	st, ok := rp.player.SeasonStats(e.season)
	if !ok {
		res.Degraded = append(res.Degraded, "no_season_stats")
		return res
	}
	res.SeasonPoints = st.FantasyPoints

	res.Positional = e.positionalIndex(rp.player.Position, st.FantasyPoints, pools[rp.player.Position])
	res.Market = marketIndex(st.FantasyPoints)
	res.Explosive = explosiveIndex(st)
	res.Consistency = consistencyIndex(st)

	res.Score = e.weights.Positional*res.Positional +
		e.weights.Market*res.Market +
		e.weights.Explosive*res.Explosive +
		e.weights.Consistency*res.Consistency
	return res
}

// positionalIndex is the percentile of the player's season points within
// the same-position pool, amplified by scarcity and capped at the ceiling.
func (e *Engine) positionalIndex(pos model.Position, points float64, pool []float64) float64 {
	if len(pool) == 0 {
		return ScaleCeiling / 2
	}
	mult, ok := scarcity[pos]
	if !ok {
		mult = 1.0
	}
	return stats.Clamp(stats.Percentile(pool, points)*mult, 0, ScaleCeiling)
}

// marketIndex normalizes raw season production against the fixed top-end
// reference.
func marketIndex(points float64) float64 {
	if points <= 0 {
		return 0
	}
	return stats.Clamp(points/marketReference*ScaleCeiling, 0, ScaleCeiling)
}

// explosiveIndex estimates the share of big games from average production.
func explosiveIndex(st model.PlayerStats) float64 {
	if st.GamesPlayed == 0 {
		return 0
	}
	estimated := float64(st.GamesPlayed) * (st.PointsPerGame() / explosiveThreshold) * explosiveShare
	bigGames := float64(int(estimated))
	if bigGames < 0 {
		bigGames = 0
	}
	rate := bigGames / float64(st.GamesPlayed)
	return stats.Clamp(rate*ScaleCeiling, 0, ScaleCeiling)
}

// consistencyIndex is the points-per-game reliability proxy.
func consistencyIndex(st model.PlayerStats) float64 {
	if st.GamesPlayed == 0 {
		return 0
	}
	return stats.Clamp(st.PointsPerGame()/consistencyReference, 0, 1) * ScaleCeiling
}

// rankGlobal sorts by composite descending with a deterministic
// tie-break: higher season points first, then ascending player ID.
func rankGlobal(results []model.NIVResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return lessNIV(results[i], results[j])
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

// rankPositional assigns ranks within each position group using the same
// ordering discipline.
func rankPositional(results []model.NIVResult) {
	counts := make(map[model.Position]int)
	for i := range results {
		counts[results[i].Position]++
		results[i].PosRank = counts[results[i].Position]
	}
}

func lessNIV(a, b model.NIVResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.SeasonPoints != b.SeasonPoints {
		return a.SeasonPoints > b.SeasonPoints
	}
	return a.PlayerID < b.PlayerID
}
