package niv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legionffl/cpr/internal/model"
)

const season = 2024

func player(id string, pos model.Position, games int, points float64) model.Player {
	return model.Player{
		ID:       id,
		Name:     id,
		Position: pos,
		Stats: map[int]model.PlayerStats{
			season: {Season: season, GamesPlayed: games, FantasyPoints: points},
		},
	}
}

func TestNew_RenormalizesWeights(t *testing.T) {
	eng := New(Config{Weights: Weights{Positional: 2, Market: 2}, Season: season})
	require.True(t, eng.WeightsAdjusted())
	assert.InDelta(t, 1.0, eng.Weights().Sum(), 1e-6)
	assert.InDelta(t, 0.5, eng.Weights().Positional, 1e-9)
}

func TestRankPlayers_SubIndices(t *testing.T) {
	eng := New(Config{Weights: DefaultWeights, Season: season})
	players := map[string]model.Player{
		"rb1": player("rb1", model.PositionRB, 10, 300),
		"rb2": player("rb2", model.PositionRB, 10, 200),
		"rb3": player("rb3", model.PositionRB, 10, 100),
	}
	teams := []model.Team{{ID: "1", Roster: []string{"rb1", "rb2", "rb3"}}}

	r := eng.RankPlayers(teams, players)
	require.Len(t, r.Results, 3)

	top := r.Results[0]
	assert.Equal(t, "rb1", top.PlayerID)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 1, top.PosRank)
	// percentile (2 below + half a tie)/3 = 83.33, x1.2 scarcity, capped 100
	assert.InDelta(t, 100.0, top.Positional, 1e-6)
	assert.InDelta(t, 100.0, top.Market, 1e-9) // 300/300 season points
	// 30 ppg: estimated big games 10*(30/15)*0.3 = 6 of 10
	assert.InDelta(t, 60.0, top.Explosive, 1e-9)
	assert.InDelta(t, 100.0, top.Consistency, 1e-9) // 30 ppg caps the proxy
	assert.InDelta(t, 90.0, top.Score, 1e-6)
}

func TestRankPlayers_ScarcityAmplifiesTE(t *testing.T) {
	eng := New(Config{Weights: Weights{Positional: 1}, Season: season})
	players := map[string]model.Player{
		"te1": player("te1", model.PositionTE, 10, 150),
		"te2": player("te2", model.PositionTE, 10, 100),
		"wr1": player("wr1", model.PositionWR, 10, 150),
		"wr2": player("wr2", model.PositionWR, 10, 100),
	}
	teams := []model.Team{{ID: "1", Roster: []string{"te1", "te2", "wr1", "wr2"}}}

	r := eng.RankPlayers(teams, players)
	byID := make(map[string]model.NIVResult)
	for _, res := range r.Results {
		byID[res.PlayerID] = res
	}
	// Same in-position percentile (75), TE multiplier 1.3 vs WR 1.0.
	assert.InDelta(t, 97.5, byID["te1"].Positional, 1e-6)
	assert.InDelta(t, 75.0, byID["wr1"].Positional, 1e-6)
	assert.Greater(t, byID["te1"].Score, byID["wr1"].Score)
}

func TestRankPlayers_NoStatsIsDegradedNotDropped(t *testing.T) {
	eng := New(Config{Weights: DefaultWeights, Season: season})
	players := map[string]model.Player{
		"a": player("a", model.PositionWR, 10, 150),
		"b": {ID: "b", Name: "b", Position: model.PositionWR},
	}
	teams := []model.Team{{ID: "1", Roster: []string{"a", "b"}}}

	r := eng.RankPlayers(teams, players)
	require.Len(t, r.Results, 2)
	bottom := r.Results[1]
	assert.Equal(t, "b", bottom.PlayerID)
	assert.Contains(t, bottom.Degraded, "no_season_stats")
	assert.Zero(t, bottom.Score)
	assert.Zero(t, bottom.Positional)
}

func TestRankPlayers_TieBreakBySeasonPointsThenID(t *testing.T) {
	// Market-only weights give identical scores for identical totals.
	eng := New(Config{Weights: Weights{Market: 1}, Season: season})
	players := map[string]model.Player{
		"z": player("z", model.PositionWR, 10, 150),
		"a": player("a", model.PositionRB, 10, 150),
		"m": player("m", model.PositionQB, 10, 180),
	}
	teams := []model.Team{{ID: "1", Roster: []string{"z", "a", "m"}}}

	r := eng.RankPlayers(teams, players)
	require.Len(t, r.Results, 3)
	assert.Equal(t, "m", r.Results[0].PlayerID) // higher season points
	assert.Equal(t, "a", r.Results[1].PlayerID) // tied score, lower ID first
	assert.Equal(t, "z", r.Results[2].PlayerID)
}

func TestRankPlayers_DuplicateRosterEntryKeepsFirstTeam(t *testing.T) {
	eng := New(Config{Weights: DefaultWeights, Season: season})
	players := map[string]model.Player{"a": player("a", model.PositionWR, 10, 150)}
	teams := []model.Team{
		{ID: "1", Roster: []string{"a"}},
		{ID: "2", Roster: []string{"a"}},
	}
	r := eng.RankPlayers(teams, players)
	require.Len(t, r.Results, 1)
	assert.Equal(t, "1", r.Results[0].TeamID)
	assert.Equal(t, 1, r.TotalPlayers)
}

func TestRankPlayers_PositionalRanksPerPosition(t *testing.T) {
	eng := New(Config{Weights: DefaultWeights, Season: season})
	players := map[string]model.Player{
		"qb1": player("qb1", model.PositionQB, 10, 250),
		"qb2": player("qb2", model.PositionQB, 10, 200),
		"rb1": player("rb1", model.PositionRB, 10, 220),
	}
	teams := []model.Team{{ID: "1", Roster: []string{"qb1", "qb2", "rb1"}}}

	r := eng.RankPlayers(teams, players)
	posRanks := make(map[string]int)
	for _, res := range r.Results {
		posRanks[res.PlayerID] = res.PosRank
	}
	assert.Equal(t, 1, posRanks["rb1"])
	assert.Equal(t, 1, posRanks["qb1"])
	assert.Equal(t, 2, posRanks["qb2"])
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights.Sum(), 1e-9)
}
