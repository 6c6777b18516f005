// Package cpr computes the team-level composite power ranking: lineup
// strength, bench strength and momentum folded together with the balance,
// efficiency and schedule indices into one weighted score per team, plus
// the league-wide health metric and insight strings.
package cpr

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/engine/schedule"
	"github.com/legionffl/cpr/internal/model"
	"github.com/legionffl/cpr/internal/stats"
)

// Mode selects the composite algorithm.
type Mode string

const (
	// ModeAlgorithmic is the canonical composite built on the balance,
	// efficiency and schedule indices.
	ModeAlgorithmic Mode = "algorithmic"
	// ModeHeuristic is the legacy record-based composite, retained as an
	// explicit fallback. It is never selected implicitly.
	ModeHeuristic Mode = "heuristic"
)

const (
	maxStarters = 7
	maxBench    = 5

	// pointsScale converts fantasy points per game onto the 0-2 index range.
	pointsScale = 10.0
	indexCap    = 2.0

	// neutralMomentum is substituted when fewer than two weekly
	// observations exist.
	neutralMomentum = 0.5
)

// Config parameterizes the engine.
type Config struct {
	Weights         Weights
	BenchMultiplier float64
	Season          int
	Mode            Mode
}

// Engine scores and ranks teams.
type Engine struct {
	weights         Weights
	weightsAdjusted bool
	benchMultiplier float64
	season          int
	mode            Mode
}

// New builds an engine, renormalizing the weight allocation when it does
// not sum to 1.0. The adjustment is surfaced in Rankings.WeightsAdjusted,
// never an error.
func New(cfg Config) *Engine {
	weights, adjusted := cfg.Weights.Normalized()
	if adjusted {
		log.Warn().Float64("sum", cfg.Weights.Sum()).Msg("CPR weights renormalized to 1.0")
	}
	benchMult := cfg.BenchMultiplier
	if benchMult <= 0 {
		benchMult = 0.3
	}
	mode := cfg.Mode
	if mode == "" {
		mode = ModeAlgorithmic
	}
	return &Engine{
		weights:         weights,
		weightsAdjusted: adjusted,
		benchMultiplier: benchMult,
		season:          cfg.Season,
		mode:            mode,
	}
}

// Weights returns the effective (possibly renormalized) allocation.
func (e *Engine) Weights() Weights { return e.weights }

// WeightsAdjusted reports whether construction renormalized the weights.
func (e *Engine) WeightsAdjusted() bool { return e.weightsAdjusted }

// Mode returns the configured composite mode.
func (e *Engine) Mode() Mode { return e.mode }

// LineupStrength is the mean fantasy points per game across up to seven
// starters with valid current-season stats, scaled to [0,2]. Injured or
// stat-less starters contribute zero but still count in the denominator.
func (e *Engine) LineupStrength(team model.Team, players map[string]model.Player) (float64, bool) {
	starters := team.StarterSlots(maxStarters)
	if len(starters) == 0 {
		return 0, true
	}
	var total float64
	scored := 0
	for _, id := range starters {
		player, ok := players[id]
		if !ok || !player.Healthy() {
			continue
		}
		if st, ok := player.SeasonStats(e.season); ok {
			total += st.PointsPerGame()
			scored++
		}
	}
	if scored == 0 {
		return 0, true
	}
	avg := total / float64(len(starters))
	return stats.Clamp(avg/pointsScale, 0, indexCap), false
}

// BenchStrength mirrors LineupStrength over up to five bench players with
// the bench multiplier applied. An empty bench scores 0 without error.
func (e *Engine) BenchStrength(team model.Team, players map[string]model.Player) (float64, bool) {
	bench := team.Bench(maxBench)
	if len(bench) == 0 {
		return 0, true
	}
	var total float64
	scored := 0
	for _, id := range bench {
		player, ok := players[id]
		if !ok || !player.Healthy() {
			continue
		}
		if st, ok := player.SeasonStats(e.season); ok {
			total += st.PointsPerGame()
			scored++
		}
	}
	if scored == 0 {
		return 0, true
	}
	avg := total / float64(len(bench))
	return stats.Clamp(avg*e.benchMultiplier/pointsScale, 0, indexCap), false
}

// Momentum fits an OLS slope to the team's weekly point totals and maps it
// onto [0,2] via 1 + slope/10. Fewer than two observed weeks yields the
// neutral 0.5.
func (e *Engine) Momentum(teamID string, matchups []model.MatchupEntry) (float64, bool) {
	weekly := weeklyTotals(teamID, matchups)
	if len(weekly) < 2 {
		return neutralMomentum, true
	}
	slope := stats.LinearSlope(weekly)
	return stats.Clamp(1+slope/10, 0, indexCap), false
}

func weeklyTotals(teamID string, matchups []model.MatchupEntry) []float64 {
	type weekPoints struct {
		week   int
		points float64
	}
	var rows []weekPoints
	for _, entry := range matchups {
		if entry.TeamID == teamID {
			rows = append(rows, weekPoints{entry.Week, entry.Points})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].week < rows[j].week })
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.points
	}
	return out
}

// TeamInputs bundles the precomputed structural indices for one team.
type TeamInputs struct {
	Balance            float64
	BalanceDegraded    bool
	Efficiency         float64
	EfficiencyDegraded bool
	Tensor             schedule.Tensor
}

// ComputeTeam scores one team. It returns an error only for structurally
// unusable entities (missing identifier); degraded inputs substitute their
// documented neutral values and are listed on the result.
func (e *Engine) ComputeTeam(
	team model.Team,
	players map[string]model.Player,
	matchups []model.MatchupEntry,
	in TeamInputs,
) (model.CPRResult, error) {
	if team.ID == "" {
		return model.CPRResult{}, fmt.Errorf("team %q has no identifier", team.Name)
	}

	res := model.CPRResult{
		TeamID:   team.ID,
		TeamName: team.Name,
		Wins:     team.Wins,
		Losses:   team.Losses,
		Ties:     team.Ties,
	}

	var degraded bool
	res.Lineup, degraded = e.LineupStrength(team, players)
	if degraded {
		res.Degraded = append(res.Degraded, "lineup")
	}
	res.Bench, degraded = e.BenchStrength(team, players)
	if degraded {
		res.Degraded = append(res.Degraded, "bench")
	}
	res.Momentum, degraded = e.Momentum(team.ID, matchups)
	if degraded {
		res.Degraded = append(res.Degraded, "momentum")
	}

	res.Balance = stats.Clamp(in.Balance, 0, 1)
	if in.BalanceDegraded {
		res.Degraded = append(res.Degraded, "balance")
	}
	res.Efficiency = stats.Clamp(in.Efficiency/10, 0, indexCap)
	if in.EfficiencyDegraded {
		res.Degraded = append(res.Degraded, "efficiency")
	}
	res.Schedule = indexCap - in.Tensor.Magnitude
	if res.Schedule < 0 {
		res.Schedule = 0
	}
	if in.Tensor.Degraded {
		res.Degraded = append(res.Degraded, "schedule")
	}

	res.Score = e.weights.Lineup*res.Lineup +
		e.weights.Bench*res.Bench +
		e.weights.Momentum*res.Momentum +
		e.weights.Balance*res.Balance +
		e.weights.Efficiency*res.Efficiency +
		e.weights.Schedule*res.Schedule

	return res, nil
}

// Rankings is the league-level output of a CPR run.
type Rankings struct {
	Results         []model.CPRResult  `json:"rankings"`
	LeagueHealth    float64            `json:"league_health"`
	Gini            float64            `json:"gini_coefficient"`
	Insights        []string           `json:"insights"`
	WeightsUsed     map[string]float64 `json:"weights_used"`
	WeightsAdjusted bool               `json:"weights_adjusted"`
	Mode            Mode               `json:"mode"`
	Excluded        []string           `json:"excluded,omitempty"`
}

// RankLeague scores every team and assembles the ranked list, league
// health and insights. A failure scoring one team excludes that team and
// continues; it never aborts the run.
func (e *Engine) RankLeague(
	teams []model.Team,
	players map[string]model.Player,
	matchups []model.MatchupEntry,
	inputs map[string]TeamInputs,
) *Rankings {
	results := make([]model.CPRResult, 0, len(teams))
	var excluded []string

	for _, team := range teams {
		res, err := e.scoreTeam(team, players, matchups, inputs[team.ID])
		if err != nil {
			log.Error().Err(err).Str("team_id", team.ID).Str("team", team.Name).
				Msg("excluding team from CPR rankings")
			excluded = append(excluded, team.ID)
			continue
		}
		results = append(results, res)
	}

	rank(results, teams)

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}
	gini := stats.Gini(scores)

	r := &Rankings{
		Results:         results,
		LeagueHealth:    stats.Clamp(1-gini, 0, 1),
		Gini:            gini,
		WeightsUsed:     e.weights.Map(),
		WeightsAdjusted: e.weightsAdjusted,
		Mode:            e.mode,
		Excluded:        excluded,
	}
	r.Insights = e.insights(results, teams, inputs)

	log.Info().Int("teams", len(results)).Int("excluded", len(excluded)).
		Float64("league_health", r.LeagueHealth).Msg("CPR rankings computed")
	return r
}

// scoreTeam isolates per-entity failures, including panics from malformed
// rosters, so one bad team cannot abort the league run.
func (e *Engine) scoreTeam(
	team model.Team,
	players map[string]model.Player,
	matchups []model.MatchupEntry,
	in TeamInputs,
) (res model.CPRResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic scoring team %s: %v", team.ID, r)
		}
	}()
	if e.mode == ModeHeuristic {
		return e.computeTeamHeuristic(team, players)
	}
	return e.ComputeTeam(team, players, matchups, in)
}

// rank sorts by composite descending with a deterministic tie-break:
// higher win percentage first, then ascending team ID.
func rank(results []model.CPRResult, teams []model.Team) {
	winPct := make(map[string]float64, len(teams))
	for _, t := range teams {
		winPct[t.ID] = t.WinPercentage()
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if winPct[results[i].TeamID] != winPct[results[j].TeamID] {
			return winPct[results[i].TeamID] > winPct[results[j].TeamID]
		}
		return results[i].TeamID < results[j].TeamID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}
