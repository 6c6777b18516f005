package cpr

import (
	"fmt"

	"github.com/legionffl/cpr/internal/model"
	"github.com/legionffl/cpr/internal/stats"
)

// The heuristic composite predates the structural indices. It keeps the
// lineup and bench slots but fills the remaining four with record-based
// proxies: points-differential momentum, roster availability, games-played
// consistency and touchdown-rate explosiveness. Selected only by explicit
// configuration.

const (
	pointsDiffReference = 50.0
	seasonGames         = 17.0
	steadyScorerBonus   = 0.2
	steadyScorerFloor   = 10.0
	tdsPerGameScale     = 2.0
)

// computeTeamHeuristic scores a team in ModeHeuristic. The result reuses
// the standard sub-index slots: balance carries availability, efficiency
// carries consistency and schedule carries explosiveness.
func (e *Engine) computeTeamHeuristic(team model.Team, players map[string]model.Player) (model.CPRResult, error) {
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

	res.Momentum = pointsDiffMomentum(team)
	res.Balance = availability(team, players)
	res.Efficiency = e.consistency(team, players)
	res.Schedule = e.explosiveness(team, players)

	res.Score = e.weights.Lineup*res.Lineup +
		e.weights.Bench*res.Bench +
		e.weights.Momentum*res.Momentum +
		e.weights.Balance*res.Balance +
		e.weights.Efficiency*res.Efficiency +
		e.weights.Schedule*res.Schedule

	return res, nil
}

// pointsDiffMomentum maps the season points differential onto [0,2] with a
// win-percentage bonus.
func pointsDiffMomentum(team model.Team) float64 {
	diff := team.PointsFor - team.PointsAgainst
	momentum := stats.Clamp((diff+pointsDiffReference)/pointsDiffReference, 0, indexCap)
	return stats.Clamp(momentum+team.WinPercentage()*0.5, 0, indexCap)
}

// availability is the healthy share of the roster scaled to [0,2]. An
// empty roster is neutral.
func availability(team model.Team, players map[string]model.Player) float64 {
	if len(team.Roster) == 0 {
		return 1.0
	}
	healthy := 0
	for _, id := range team.Roster {
		if p, ok := players[id]; ok && p.Healthy() {
			healthy++
		}
	}
	return float64(healthy) / float64(len(team.Roster)) * indexCap
}

// consistency averages a games-played reliability proxy over the starters,
// with a bonus for steady double-digit scorers.
func (e *Engine) consistency(team model.Team, players map[string]model.Player) float64 {
	var scores []float64
	for _, id := range team.StarterSlots(maxStarters) {
		player, ok := players[id]
		if !ok {
			continue
		}
		st, ok := player.SeasonStats(e.season)
		if !ok || st.GamesPlayed == 0 {
			continue
		}
		c := stats.Clamp(float64(st.GamesPlayed)/seasonGames, 0, 1)
		if st.PointsPerGame() > steadyScorerFloor {
			c += steadyScorerBonus
		}
		scores = append(scores, stats.Clamp(c, 0, indexCap))
	}
	return stats.Mean(scores)
}

// explosiveness averages touchdown rate per game across the roster.
func (e *Engine) explosiveness(team model.Team, players map[string]model.Player) float64 {
	var scores []float64
	for _, id := range team.Roster {
		player, ok := players[id]
		if !ok {
			continue
		}
		st, ok := player.SeasonStats(e.season)
		if !ok || st.GamesPlayed == 0 {
			continue
		}
		perGame := float64(st.TotalTDs()) / float64(st.GamesPlayed)
		scores = append(scores, stats.Clamp(perGame*tdsPerGameScale, 0, indexCap))
	}
	return stats.Mean(scores)
}
