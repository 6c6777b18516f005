package balance

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legionffl/cpr/internal/model"
)

func rosterOf(positions ...model.Position) (model.Team, map[string]model.Player) {
	players := make(map[string]model.Player, len(positions))
	team := model.Team{ID: "1", Name: "Testers"}
	for i, pos := range positions {
		id := fmt.Sprintf("p%d", i)
		players[id] = model.Player{ID: id, Position: pos}
		team.Roster = append(team.Roster, id)
		team.Starters = append(team.Starters, id)
	}
	return team, players
}

func TestScore_FullyConcentratedLineup(t *testing.T) {
	team, players := rosterOf(
		model.PositionRB, model.PositionRB, model.PositionRB, model.PositionRB,
		model.PositionRB, model.PositionRB, model.PositionRB,
	)
	res := NewCalculator().Score(team, players)
	require.False(t, res.Degraded)
	assert.InDelta(t, 1.0, res.StarterHHI, 1e-9)
	// weighted HHI = 0.7*1 + 0.3*0 = 0.7
	assert.InDelta(t, 0.3, res.Score, 1e-9)
}

func TestScore_DiversifiedLineup(t *testing.T) {
	team, players := rosterOf(
		model.PositionQB, model.PositionRB, model.PositionWR,
		model.PositionTE, model.PositionIDP, model.PositionK, model.PositionDEF,
	)
	// K and DEF both land in OTHER: shares 1/7 x5 and 2/7 once.
	res := NewCalculator().Score(team, players)
	wantHHI := 5*math.Pow(1.0/7, 2) + math.Pow(2.0/7, 2)
	assert.InDelta(t, wantHHI, res.StarterHHI, 1e-9)
	assert.InDelta(t, 1-0.7*wantHHI, res.Score, 1e-9)
	assert.Equal(t, 2, res.StarterCounts["OTHER"])
}

func TestScore_EmptyStartersDegrades(t *testing.T) {
	team := model.Team{ID: "1", Name: "Empty", Roster: []string{"a", "b"}}
	res := NewCalculator().Score(team, map[string]model.Player{})
	assert.True(t, res.Degraded)
	assert.Zero(t, res.Score)
}

func TestScore_BenchSplitAndCaps(t *testing.T) {
	players := map[string]model.Player{}
	team := model.Team{ID: "1", Name: "Deep"}
	// 7 starters plus 8 roster-only players; only 5 count toward the bench.
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("p%d", i)
		players[id] = model.Player{ID: id, Position: model.PositionWR}
		team.Roster = append(team.Roster, id)
		if i < 7 {
			team.Starters = append(team.Starters, id)
		}
	}
	res := NewCalculator().Score(team, players)
	assert.Equal(t, 5, res.BenchCounts["WR"])
	assert.InDelta(t, 1.0, res.BenchHHI, 1e-9)
	// Everything WR: weighted HHI = 1, index = 0.
	assert.InDelta(t, 0.0, res.Score, 1e-9)
}

func TestLeagueScores(t *testing.T) {
	teamA, playersA := rosterOf(model.PositionQB, model.PositionRB)
	teamB := model.Team{ID: "2", Name: "NoStarters"}
	scores := NewCalculator().LeagueScores([]model.Team{teamA, teamB}, playersA)
	require.Len(t, scores, 2)
	assert.False(t, scores["1"].Degraded)
	assert.True(t, scores["2"].Degraded)
}
