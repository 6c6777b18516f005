// Package engine orchestrates a full ranking run over an immutable league
// snapshot. Structural indices are computed once per team in a first pass;
// the schedule tensor consumes those maps in a second pass so opponents are
// never re-scored, then the composite engines assemble the final rankings.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/engine/balance"
	"github.com/legionffl/cpr/internal/engine/cpr"
	"github.com/legionffl/cpr/internal/engine/efficiency"
	"github.com/legionffl/cpr/internal/engine/niv"
	"github.com/legionffl/cpr/internal/engine/schedule"
	"github.com/legionffl/cpr/internal/model"
)

// Config bundles the tunables for both composites.
type Config struct {
	CPRWeights      cpr.Weights
	NIVWeights      niv.Weights
	BenchMultiplier float64
	Mode            cpr.Mode
}

// DefaultConfig uses the canonical weight allocations in algorithmic mode.
func DefaultConfig() Config {
	return Config{
		CPRWeights: cpr.DefaultWeights,
		NIVWeights: niv.DefaultWeights,
		Mode:       cpr.ModeAlgorithmic,
	}
}

// Engine runs team and player rankings over snapshots.
type Engine struct {
	cfg Config
}

// New returns an engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// RunMeta identifies one computation run.
type RunMeta struct {
	RunID       string    `json:"run_id"`
	LeagueID    string    `json:"league_id"`
	Season      int       `json:"season"`
	GeneratedAt time.Time `json:"generated_at"`
}

// TeamRankings is the full output of a CPR run.
type TeamRankings struct {
	RunMeta
	*cpr.Rankings
	DraftValue efficiency.ValueAnalysis `json:"draft_value"`
}

// PlayerRankings is the full output of an NIV run.
type PlayerRankings struct {
	RunMeta
	*niv.Rankings
}

func validate(snap model.Snapshot) error {
	if len(snap.Teams) == 0 {
		return ErrNoTeams
	}
	if len(snap.Players) == 0 {
		return ErrNoPlayers
	}
	if snap.Season <= 0 {
		return ErrInvalidSeason
	}
	return nil
}

func newMeta(snap model.Snapshot) RunMeta {
	return RunMeta{
		RunID:       uuid.NewString(),
		LeagueID:    snap.LeagueID,
		Season:      snap.Season,
		GeneratedAt: time.Now().UTC(),
	}
}

// RankTeams computes CPR rankings for every team in the snapshot.
//
// The pipeline is explicitly two-pass: balance and efficiency scores are
// computed for all teams first, then each team's schedule tensor reads its
// opponents' scores from those maps.
func (e *Engine) RankTeams(snap model.Snapshot) (*TeamRankings, error) {
	if err := validate(snap); err != nil {
		return nil, err
	}
	started := time.Now()

	balCalc := balance.NewCalculator()
	effCalc := efficiency.NewCalculator(snap.DraftPicks)

	balResults := balCalc.LeagueScores(snap.Teams, snap.Players)
	effResults := effCalc.LeagueScores(snap.Teams, snap.Matchups)

	balScores := make(map[string]float64, len(balResults))
	for id, r := range balResults {
		balScores[id] = r.Score
	}
	effScores := make(map[string]float64, len(effResults))
	for id, r := range effResults {
		effScores[id] = r.Score
	}

	tensors := schedule.NewCalculator().LeagueTensors(snap.Teams, snap.Matchups, balScores, effScores)

	inputs := make(map[string]cpr.TeamInputs, len(snap.Teams))
	for _, team := range snap.Teams {
		inputs[team.ID] = cpr.TeamInputs{
			Balance:            balResults[team.ID].Score,
			BalanceDegraded:    balResults[team.ID].Degraded,
			Efficiency:         effResults[team.ID].Score,
			EfficiencyDegraded: effResults[team.ID].Degraded,
			Tensor:             tensors[team.ID],
		}
	}

	cprEngine := cpr.New(cpr.Config{
		Weights:         e.cfg.CPRWeights,
		BenchMultiplier: e.cfg.BenchMultiplier,
		Season:          snap.Season,
		Mode:            e.cfg.Mode,
	})
	rankings := cprEngine.RankLeague(snap.Teams, snap.Players, snap.Matchups, inputs)

	log.Info().Str("league_id", snap.LeagueID).Int("season", snap.Season).
		Dur("elapsed", time.Since(started)).Msg("team ranking run complete")

	return &TeamRankings{
		RunMeta:    newMeta(snap),
		Rankings:   rankings,
		DraftValue: effCalc.AnalyzeDraftValue(snap.Teams, snap.Matchups),
	}, nil
}

// RankPlayers computes NIV rankings for every rostered player.
func (e *Engine) RankPlayers(snap model.Snapshot) (*PlayerRankings, error) {
	if err := validate(snap); err != nil {
		return nil, err
	}
	started := time.Now()

	nivEngine := niv.New(niv.Config{Weights: e.cfg.NIVWeights, Season: snap.Season})
	rankings := nivEngine.RankPlayers(snap.Teams, snap.Players)

	log.Info().Str("league_id", snap.LeagueID).Int("season", snap.Season).
		Dur("elapsed", time.Since(started)).Msg("player ranking run complete")

	return &PlayerRankings{RunMeta: newMeta(snap), Rankings: rankings}, nil
}
