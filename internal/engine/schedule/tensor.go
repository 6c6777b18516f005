// Package schedule computes the 4-dimensional opponent-strength tensor:
// traditional strength, volatility exposure, positional stress and
// efficiency pressure, reduced to a scalar magnitude. The positional and
// efficiency dimensions consume per-team balance and efficiency scores
// computed once upstream, so referencing a team as an opponent never
// recomputes its indices.
package schedule

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/model"
	"github.com/legionffl/cpr/internal/stats"
)

// Normalization references for the volatility and efficiency dimensions.
const (
	varianceReference   = 1000.0
	efficiencyReference = 20.0
)

// NeutralVector is returned when a team has no discoverable opponents.
var NeutralVector = [4]float64{0.5, 0.0, 0.5, 0.5}

// Tensor is the 4D opponent-strength vector and its Euclidean magnitude.
type Tensor struct {
	Vector    [4]float64 `json:"vector"`
	Magnitude float64    `json:"magnitude"`
	Opponents int        `json:"opponents_faced"`
	Degraded  bool       `json:"degraded"`
}

// Traditional, Volatility, Positional and Efficiency name the vector slots.
func (t Tensor) Traditional() float64 { return t.Vector[0] }
func (t Tensor) Volatility() float64  { return t.Vector[1] }
func (t Tensor) Positional() float64  { return t.Vector[2] }
func (t Tensor) Efficiency() float64  { return t.Vector[3] }

// Interpret labels each dimension for insight text.
func (t Tensor) Interpret() map[string]string {
	out := make(map[string]string, 4)
	switch {
	case t.Traditional() > 0.6:
		out["traditional"] = "facing strong opponents"
	case t.Traditional() < 0.4:
		out["traditional"] = "facing weak opponents"
	default:
		out["traditional"] = "facing average opponents"
	}
	switch {
	case t.Volatility() > 0.3:
		out["volatility"] = "boom-or-bust opponents"
	case t.Volatility() < 0.1:
		out["volatility"] = "consistent opponents"
	default:
		out["volatility"] = "moderately volatile opponents"
	}
	switch {
	case t.Positional() > 0.7:
		out["positional"] = "well-balanced opposing rosters"
	case t.Positional() < 0.3:
		out["positional"] = "unbalanced opposing rosters"
	default:
		out["positional"] = "average opposing roster balance"
	}
	switch {
	case t.Efficiency() > 0.7:
		out["efficiency"] = "value-efficient opponents"
	case t.Efficiency() < 0.3:
		out["efficiency"] = "value-inefficient opponents"
	default:
		out["efficiency"] = "average-efficiency opponents"
	}
	return out
}

// Calculator computes tensors from matchup history and the precomputed
// per-team balance and efficiency score maps.
type Calculator struct{}

// NewCalculator returns a tensor calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute builds the tensor for one team. balanceByTeam and
// efficiencyByTeam must cover every team that can appear as an opponent.
func (c *Calculator) Compute(
	team model.Team,
	teams []model.Team,
	matchups []model.MatchupEntry,
	balanceByTeam map[string]float64,
	efficiencyByTeam map[string]float64,
) Tensor {
	opponents := opponentsOf(team.ID, matchups)
	if len(opponents) == 0 {
		log.Warn().Str("team", team.Name).Msg("no opponents found, schedule tensor degraded to neutral")
		return Tensor{Vector: NeutralVector, Magnitude: norm(NeutralVector), Degraded: true}
	}
	distinct := distinctIDs(opponents)

	teamsByID := make(map[string]model.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	vec := [4]float64{
		traditional(opponents, teamsByID),
		volatility(distinct, matchups),
		meanLookup(distinct, balanceByTeam, 0.5),
		stats.Clamp(meanLookup(distinct, efficiencyByTeam, 0.5*efficiencyReference)/efficiencyReference, 0, 1),
	}

	return Tensor{
		Vector:    vec,
		Magnitude: norm(vec),
		Opponents: len(distinct),
	}
}

// LeagueTensors computes tensors for every team, keyed by ID.
func (c *Calculator) LeagueTensors(
	teams []model.Team,
	matchups []model.MatchupEntry,
	balanceByTeam map[string]float64,
	efficiencyByTeam map[string]float64,
) map[string]Tensor {
	out := make(map[string]Tensor, len(teams))
	for _, team := range teams {
		out[team.ID] = c.Compute(team, teams, matchups, balanceByTeam, efficiencyByTeam)
	}
	return out
}

// opponentsOf finds, per week, the entry sharing the team's matchup ID.
// The returned list keeps weekly repeats so repeated opponents weigh more
// in the traditional dimension.
func opponentsOf(teamID string, matchups []model.MatchupEntry) []string {
	byWeek := make(map[int][]model.MatchupEntry)
	for _, e := range matchups {
		byWeek[e.Week] = append(byWeek[e.Week], e)
	}
	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	var opponents []string
	for _, w := range weeks {
		entries := byWeek[w]
		var own *model.MatchupEntry
		for i := range entries {
			if entries[i].TeamID == teamID {
				own = &entries[i]
				break
			}
		}
		if own == nil {
			continue
		}
		for i := range entries {
			if entries[i].MatchupID == own.MatchupID && entries[i].TeamID != teamID {
				opponents = append(opponents, entries[i].TeamID)
				break
			}
		}
	}
	return opponents
}

func distinctIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// traditional is the mean win percentage across faced opponents.
func traditional(opponents []string, teamsByID map[string]model.Team) float64 {
	var pcts []float64
	for _, id := range opponents {
		if t, ok := teamsByID[id]; ok {
			pcts = append(pcts, t.WinPercentage())
		}
	}
	if len(pcts) == 0 {
		return 0.5
	}
	return stats.Mean(pcts)
}

// volatility is the mean of each distinct opponent's own weekly score
// variance, normalized against the fixed reference and capped at 1.
func volatility(distinct []string, matchups []model.MatchupEntry) float64 {
	var variances []float64
	for _, id := range distinct {
		var scores []float64
		for _, e := range matchups {
			if e.TeamID == id {
				scores = append(scores, e.Points)
			}
		}
		if len(scores) > 1 {
			variances = append(variances, stats.Variance(scores))
		}
	}
	if len(variances) == 0 {
		return 0
	}
	return math.Min(stats.Mean(variances)/varianceReference, 1)
}

func meanLookup(ids []string, scores map[string]float64, fallback float64) float64 {
	var vals []float64
	for _, id := range ids {
		if v, ok := scores[id]; ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return fallback
	}
	return stats.Mean(vals)
}

func norm(vec [4]float64) float64 {
	var ss float64
	for _, v := range vec {
		ss += v * v
	}
	return math.Sqrt(ss)
}
