// Package efficiency computes the value-for-cost index: a Shapley-style
// weekly scoring-share attribution divided by a squared draft-cost
// normalization factor. Players who out-produce their acquisition cost
// score high; expensive underperformers are punished steeply.
package efficiency

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/model"
	"github.com/legionffl/cpr/internal/stats"
)

// Reference constants that place the scoring share and the draft cost on a
// comparable z-like scale.
const (
	shapleyCenter = 5.0
	shapleySpread = 2.0
	costCenter    = 0.5
	costSpread    = 0.3
	minCostFactor = 0.1

	// MaxStarters caps how many starters enter the team aggregate.
	MaxStarters = 7

	// DefaultMaxPicks is assumed when no draft data establishes the board
	// size (12 teams x 12 rounds).
	DefaultMaxPicks = 144
)

// Calculator scores players against their draft acquisition cost.
type Calculator struct {
	picks    map[string]model.DraftPick
	maxPicks int
}

// NewCalculator indexes the draft board. The board size is the highest
// observed pick number, falling back to DefaultMaxPicks without draft data.
func NewCalculator(draft []model.DraftPick) *Calculator {
	picks := make(map[string]model.DraftPick, len(draft))
	maxPicks := 0
	for _, p := range draft {
		picks[p.PlayerID] = p
		if p.PickNo > maxPicks {
			maxPicks = p.PickNo
		}
	}
	if maxPicks == 0 {
		maxPicks = DefaultMaxPicks
	}
	return &Calculator{picks: picks, maxPicks: maxPicks}
}

// Result carries one player's efficiency score and its inputs.
type Result struct {
	Score    float64 `json:"score"`
	Shapley  float64 `json:"shapley_value"`
	Cost     float64 `json:"adp_cost"`
	Weeks    int     `json:"weeks_observed"`
	Degraded bool    `json:"degraded"`
}

// Cost returns the normalized acquisition cost for a player. Undrafted
// players cost 0, the cheapest possible.
func (c *Calculator) Cost(playerID string) float64 {
	pick, ok := c.picks[playerID]
	if !ok {
		return 0
	}
	return pick.Cost(c.maxPicks)
}

// PlayerScore computes the efficiency index for one player on one team,
// clamped to [0,100]. Weeks where the team scored zero are skipped; a
// player with no observable weeks is flagged degraded.
func (c *Calculator) PlayerScore(playerID string, teamID string, matchups []model.MatchupEntry) Result {
	var shareSum float64
	weeks := 0
	for _, entry := range matchups {
		if entry.TeamID != teamID || entry.Points <= 0 {
			continue
		}
		shareSum += entry.PlayerPoints[playerID] / entry.Points
		weeks++
	}

	res := Result{Cost: c.Cost(playerID), Weeks: weeks}
	if weeks == 0 {
		res.Degraded = true
		return res
	}
	res.Shapley = shareSum / float64(weeks) * 100

	nivZ := (res.Shapley - shapleyCenter) / shapleySpread
	adpZ := (res.Cost - costCenter) / costSpread
	costFactor := (nivZ + adpZ) / 2

	// Sign-preserving floor keeps the squared divisor away from zero.
	if costFactor >= 0 && costFactor < minCostFactor {
		costFactor = minCostFactor
	} else if costFactor < 0 && costFactor > -minCostFactor {
		costFactor = -minCostFactor
	}

	res.Score = stats.Clamp(res.Shapley/(costFactor*costFactor), 0, 100)
	return res
}

// TeamScore aggregates the efficiency index over a team's first
// MaxStarters starters. A team without starters scores 0, degraded.
func (c *Calculator) TeamScore(team model.Team, matchups []model.MatchupEntry) Result {
	starters := team.StarterSlots(MaxStarters)
	if len(starters) == 0 {
		log.Warn().Str("team", team.Name).Msg("no starters, efficiency index degraded to 0")
		return Result{Degraded: true}
	}

	var sum float64
	degraded := true
	for _, id := range starters {
		pr := c.PlayerScore(id, team.ID, matchups)
		sum += pr.Score
		if !pr.Degraded {
			degraded = false
		}
	}
	return Result{
		Score:    sum / float64(len(starters)),
		Degraded: degraded,
	}
}

// LeagueScores computes the team aggregate for every team, keyed by ID.
func (c *Calculator) LeagueScores(teams []model.Team, matchups []model.MatchupEntry) map[string]Result {
	out := make(map[string]Result, len(teams))
	for _, team := range teams {
		out[team.ID] = c.TeamScore(team, matchups)
	}
	return out
}

// PlayerValue pairs a player with their efficiency score for league-wide
// draft value analysis.
type PlayerValue struct {
	PlayerID string  `json:"player_id"`
	TeamID   string  `json:"team_id"`
	Score    float64 `json:"score"`
	Cost     float64 `json:"adp_cost"`
}

// ValueAnalysis summarizes draft value across the league.
type ValueAnalysis struct {
	BestValues    []PlayerValue `json:"best_values"`
	WorstValues   []PlayerValue `json:"worst_values"`
	UndraftedGems []PlayerValue `json:"undrafted_gems"`
}

// AnalyzeDraftValue scores every rostered player and reports the ten best
// and worst values plus undrafted players producing above a meaningful
// share of team scoring.
func (c *Calculator) AnalyzeDraftValue(teams []model.Team, matchups []model.MatchupEntry) ValueAnalysis {
	var all []PlayerValue
	for _, team := range teams {
		for _, id := range team.Roster {
			pr := c.PlayerScore(id, team.ID, matchups)
			all = append(all, PlayerValue{PlayerID: id, TeamID: team.ID, Score: pr.Score, Cost: pr.Cost})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].PlayerID < all[j].PlayerID
	})

	analysis := ValueAnalysis{}
	top := 10
	if len(all) < top {
		top = len(all)
	}
	analysis.BestValues = append(analysis.BestValues, all[:top]...)
	analysis.WorstValues = append(analysis.WorstValues, all[len(all)-top:]...)
	for _, pv := range all {
		if pv.Cost == 0 && pv.Score > 5 {
			analysis.UndraftedGems = append(analysis.UndraftedGems, pv)
		}
	}
	return analysis
}
