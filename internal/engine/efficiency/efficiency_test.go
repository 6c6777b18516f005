package efficiency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legionffl/cpr/internal/model"
)

// weeksAveraging builds matchup entries so the player's average scoring
// share works out to share (team scores 100 each week).
func weeksAveraging(teamID, playerID string, share float64, weeks int) []model.MatchupEntry {
	entries := make([]model.MatchupEntry, 0, weeks)
	for w := 1; w <= weeks; w++ {
		entries = append(entries, model.MatchupEntry{
			Week:         w,
			MatchupID:    w,
			TeamID:       teamID,
			Points:       100,
			PlayerPoints: map[string]float64{playerID: share * 100},
		})
	}
	return entries
}

func TestPlayerScore_LiteralCase(t *testing.T) {
	// shapley=10, pick 1 of 144 => cost 1.0, niv_z=2.5, adp_z~=1.667,
	// cost_factor~=2.083, efficiency ~= 10/2.083^2 ~= 2.30.
	calc := NewCalculator([]model.DraftPick{{PlayerID: "star", PickNo: 1, Round: 1}, {PlayerID: "last", PickNo: 144, Round: 12}})
	matchups := weeksAveraging("1", "star", 0.10, 4)

	res := calc.PlayerScore("star", "1", matchups)
	require.False(t, res.Degraded)
	assert.InDelta(t, 10.0, res.Shapley, 1e-9)
	assert.InDelta(t, 1.0, res.Cost, 1e-9)
	assert.InDelta(t, 2.304, res.Score, 0.001)
}

func TestPlayerScore_UndraftedIsCheapest(t *testing.T) {
	calc := NewCalculator([]model.DraftPick{{PlayerID: "other", PickNo: 10, Round: 1}})
	assert.Zero(t, calc.Cost("waiver-pickup"))
}

func TestPlayerScore_CostFactorFloor(t *testing.T) {
	// shapley=5 gives niv_z=0; cost such that adp_z is tiny keeps
	// |cost_factor| below 0.1, so the divisor is floored, never smaller.
	calc := NewCalculator([]model.DraftPick{{PlayerID: "mid", PickNo: 72, Round: 6}, {PlayerID: "last", PickNo: 144, Round: 12}})
	matchups := weeksAveraging("1", "mid", 0.05, 4)

	res := calc.PlayerScore("mid", "1", matchups)
	require.False(t, res.Degraded)
	// floored: 5 / 0.1^2 = 500, clamped to 100
	assert.InDelta(t, 100.0, res.Score, 1.0)
}

func TestPlayerScore_SkipsZeroPointWeeks(t *testing.T) {
	calc := NewCalculator(nil)
	matchups := []model.MatchupEntry{
		{Week: 1, TeamID: "1", Points: 0, PlayerPoints: map[string]float64{"p": 10}},
		{Week: 2, TeamID: "1", Points: 100, PlayerPoints: map[string]float64{"p": 20}},
	}
	res := calc.PlayerScore("p", "1", matchups)
	assert.Equal(t, 1, res.Weeks)
	assert.InDelta(t, 20.0, res.Shapley, 1e-9)
}

func TestPlayerScore_NoWeeksDegrades(t *testing.T) {
	calc := NewCalculator(nil)
	res := calc.PlayerScore("p", "1", nil)
	assert.True(t, res.Degraded)
	assert.Zero(t, res.Score)
}

func TestTeamScore(t *testing.T) {
	calc := NewCalculator([]model.DraftPick{{PlayerID: "a", PickNo: 1, Round: 1}, {PlayerID: "pad", PickNo: 144, Round: 12}})
	team := model.Team{ID: "1", Name: "T", Roster: []string{"a", "b"}, Starters: []string{"a", "b"}}
	matchups := []model.MatchupEntry{
		{Week: 1, MatchupID: 1, TeamID: "1", Points: 100, PlayerPoints: map[string]float64{"a": 10, "b": 5}},
	}
	res := calc.TeamScore(team, matchups)
	require.False(t, res.Degraded)
	assert.Greater(t, res.Score, 0.0)

	empty := calc.TeamScore(model.Team{ID: "2", Name: "Empty"}, matchups)
	assert.True(t, empty.Degraded)
	assert.Zero(t, empty.Score)
}

func TestAnalyzeDraftValue_UndraftedGems(t *testing.T) {
	calc := NewCalculator([]model.DraftPick{{PlayerID: "vet", PickNo: 144, Round: 12}})
	team := model.Team{ID: "1", Roster: []string{"vet", "gem"}, Starters: []string{"vet", "gem"}}
	matchups := weeksAveraging("1", "gem", 0.15, 4)

	analysis := calc.AnalyzeDraftValue([]model.Team{team}, matchups)
	require.NotEmpty(t, analysis.UndraftedGems)
	assert.Equal(t, "gem", analysis.UndraftedGems[0].PlayerID)
}
