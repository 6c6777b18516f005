package sleeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/legionffl/cpr/internal/model"
)

// maxRegularSeasonWeeks bounds the weekly matchup sweep.
const maxRegularSeasonWeeks = 18

// Provider assembles ranking snapshots from the Sleeper API.
type Provider struct {
	client *Client
}

// NewProvider wraps a client as a snapshot provider.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Snapshot fetches everything one ranking run needs: teams, rostered
// players with season stats, weekly matchups and draft picks. Players
// missing from the season stats feed get stat lines rebuilt from matchup
// scoring so downstream indices degrade instead of failing.
func (p *Provider) Snapshot(ctx context.Context, leagueID string, season int) (*model.Snapshot, error) {
	league, err := p.client.League(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("fetching league %s: %w", leagueID, err)
	}
	log.Info().Str("league_id", leagueID).Str("league", league.Name).Int("season", season).
		Msg("building snapshot")

	rosters, err := p.client.Rosters(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("fetching rosters: %w", err)
	}
	users, err := p.client.Users(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}

	teams := buildTeams(rosters, users)
	matchups := p.fetchMatchups(ctx, leagueID)
	players, err := p.buildPlayers(ctx, teams, matchups, season)
	if err != nil {
		return nil, err
	}
	picks := p.fetchDraftPicks(ctx, leagueID)

	return &model.Snapshot{
		LeagueID:   leagueID,
		Season:     season,
		FetchedAt:  time.Now().UTC(),
		Teams:      teams,
		Players:    players,
		Matchups:   matchups,
		DraftPicks: picks,
	}, nil
}

// buildTeams joins rosters with user metadata for display names. Roster
// IDs become the canonical team IDs.
func buildTeams(rosters []Roster, users []User) []model.Team {
	usersByID := make(map[string]User, len(users))
	for _, u := range users {
		usersByID[u.UserID] = u
	}

	ordered := make([]Roster, len(rosters))
	copy(ordered, rosters)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].RosterID < ordered[j].RosterID })

	teams := make([]model.Team, 0, len(ordered))
	for _, r := range ordered {
		name := "Unknown Team"
		owner := ""
		if u, ok := usersByID[r.OwnerID]; ok {
			name = u.TeamName()
			owner = u.DisplayName
		}
		teams = append(teams, model.Team{
			ID:            strconv.Itoa(r.RosterID),
			Name:          name,
			Owner:         owner,
			Wins:          r.Settings.Wins,
			Losses:        r.Settings.Losses,
			Ties:          r.Settings.Ties,
			PointsFor:     r.Settings.PointsFor(),
			PointsAgainst: r.Settings.PointsAgainst(),
			Roster:        r.Players,
			Starters:      r.Starters,
		})
	}
	return teams
}

// fetchMatchups sweeps weeks until the API stops returning pairings. A
// week that fails to fetch ends the sweep with whatever was gathered.
func (p *Provider) fetchMatchups(ctx context.Context, leagueID string) []model.MatchupEntry {
	var entries []model.MatchupEntry
	for week := 1; week <= maxRegularSeasonWeeks; week++ {
		matchups, err := p.client.Matchups(ctx, leagueID, week)
		if err != nil {
			log.Warn().Err(err).Int("week", week).Msg("matchup fetch failed, stopping sweep")
			break
		}
		if len(matchups) == 0 {
			break
		}
		played := false
		for _, m := range matchups {
			if m.Points > 0 {
				played = true
			}
			entries = append(entries, model.MatchupEntry{
				Week:         week,
				MatchupID:    m.MatchupID,
				TeamID:       strconv.Itoa(m.RosterID),
				Points:       m.Points,
				PlayerPoints: m.PlayersPoints,
			})
		}
		// An all-zero week is a future week; nothing later will have data.
		if !played {
			entries = entries[:len(entries)-len(matchups)]
			break
		}
	}
	return entries
}

// buildPlayers resolves the rostered subset of the player directory and
// attaches season stats, rebuilding missing stat lines from matchup
// scoring.
func (p *Provider) buildPlayers(
	ctx context.Context,
	teams []model.Team,
	matchups []model.MatchupEntry,
	season int,
) (map[string]model.Player, error) {
	directory, err := p.client.Players(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching player directory: %w", err)
	}

	seasonStats, err := p.client.SeasonStats(ctx, season)
	if err != nil {
		log.Warn().Err(err).Int("season", season).
			Msg("season stats unavailable, rebuilding from matchup scoring")
		seasonStats = map[string]SeasonStats{}
	}

	rebuilt := rebuildFromMatchups(matchups)

	players := make(map[string]model.Player)
	for _, team := range teams {
		for _, id := range team.Roster {
			if _, ok := players[id]; ok {
				continue
			}
			wire, ok := directory[id]
			if !ok {
				log.Debug().Str("player_id", id).Msg("rostered player missing from directory")
				continue
			}

			st, ok := seasonStats[id]
			if !ok || st.FantasyPoints == 0 {
				if rb, found := rebuilt[id]; found {
					st = rb
				}
			}

			players[id] = model.Player{
				ID:           id,
				Name:         wire.Name(),
				Position:     model.ParsePosition(wire.Position),
				NFLTeam:      wire.Team,
				InjuryStatus: model.InjuryStatus(wire.InjuryStatus),
				Stats: map[int]model.PlayerStats{
					season: {
						Season:        season,
						GamesPlayed:   st.GamesPlayed,
						PassingYards:  st.PassingYards,
						PassingTDs:    st.PassingTDs,
						PassingInts:   st.PassingInts,
						RushingYards:  st.RushingYards,
						RushingTDs:    st.RushingTDs,
						Receptions:    st.Receptions,
						ReceivingYds:  st.ReceivingYds,
						ReceivingTDs:  st.ReceivingTDs,
						Targets:       st.Targets,
						Fumbles:       st.Fumbles,
						FantasyPoints: st.FantasyPoints,
					},
				},
			}
		}
	}
	return players, nil
}

// rebuildFromMatchups aggregates per-player fantasy points and game counts
// out of weekly matchup scoring.
func rebuildFromMatchups(matchups []model.MatchupEntry) map[string]SeasonStats {
	out := make(map[string]SeasonStats)
	for _, entry := range matchups {
		for id, pts := range entry.PlayerPoints {
			st := out[id]
			st.FantasyPoints += pts
			if pts != 0 {
				st.GamesPlayed++
			}
			out[id] = st
		}
	}
	return out
}

// fetchDraftPicks resolves the league's most recent draft. Leagues without
// draft data produce an empty pick list and degraded efficiency scores
// downstream.
func (p *Provider) fetchDraftPicks(ctx context.Context, leagueID string) []model.DraftPick {
	drafts, err := p.client.Drafts(ctx, leagueID)
	if err != nil || len(drafts) == 0 {
		if err != nil && !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Msg("draft fetch failed, efficiency will use defaults")
		}
		return nil
	}

	picks, err := p.client.DraftPicks(ctx, drafts[0].DraftID)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", drafts[0].DraftID).Msg("draft picks fetch failed")
		return nil
	}

	out := make([]model.DraftPick, 0, len(picks))
	for _, pick := range picks {
		if pick.PlayerID == "" {
			continue
		}
		out = append(out, model.DraftPick{
			PlayerID: pick.PlayerID,
			PickNo:   pick.PickNo,
			Round:    pick.Round,
		})
	}
	return out
}
