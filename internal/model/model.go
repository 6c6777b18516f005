package model

import (
	"time"
)

// Position is a player's primary fantasy position.
type Position string

const (
	PositionQB        Position = "QB"
	PositionRB        Position = "RB"
	PositionWR        Position = "WR"
	PositionTE        Position = "TE"
	PositionK         Position = "K"
	PositionDEF       Position = "DEF"
	PositionIDP       Position = "IDP"
	PositionFlex      Position = "FLEX"
	PositionSuperFlex Position = "SUPER_FLEX"
)

// ParsePosition maps a raw position string onto the canonical enum.
// Defensive sub-positions (DL/LB/DB and their variants) collapse into IDP,
// team defenses into DEF. Unknown strings fall back to FLEX.
func ParsePosition(raw string) Position {
	switch raw {
	case "QB":
		return PositionQB
	case "RB", "FB":
		return PositionRB
	case "WR":
		return PositionWR
	case "TE":
		return PositionTE
	case "K":
		return PositionK
	case "DEF", "DST", "D/ST":
		return PositionDEF
	case "DL", "DE", "DT", "LB", "ILB", "OLB", "DB", "CB", "S", "SS", "FS", "IDP":
		return PositionIDP
	default:
		return PositionFlex
	}
}

// Category maps a position into the concentration buckets used by the
// balance index: QB, RB, WR, TE, IDP and OTHER. Team defenses, kickers and
// flex fallbacks all land in OTHER.
func (p Position) Category() string {
	switch p {
	case PositionQB, PositionRB, PositionWR, PositionTE, PositionIDP:
		return string(p)
	default:
		return "OTHER"
	}
}

// InjuryStatus is a player's availability designation.
type InjuryStatus string

const (
	InjuryActive         InjuryStatus = "Active"
	InjuryQuestionable   InjuryStatus = "Questionable"
	InjuryDoubtful       InjuryStatus = "Doubtful"
	InjuryOut            InjuryStatus = "Out"
	InjuryInjuredReserve InjuryStatus = "Injured Reserve"
	InjurySuspended      InjuryStatus = "Suspended"
)

// Healthy reports whether the status counts as playable. Questionable
// players are treated as available.
func (s InjuryStatus) Healthy() bool {
	return s == InjuryActive || s == InjuryQuestionable || s == ""
}

// PlayerStats holds one player's counting stats for a single season.
type PlayerStats struct {
	Season        int     `json:"season"`
	GamesPlayed   int     `json:"games_played"`
	PassingYards  int     `json:"passing_yards"`
	PassingTDs    int     `json:"passing_tds"`
	PassingInts   int     `json:"passing_ints"`
	RushingYards  int     `json:"rushing_yards"`
	RushingTDs    int     `json:"rushing_tds"`
	Receptions    int     `json:"receptions"`
	ReceivingYds  int     `json:"receiving_yards"`
	ReceivingTDs  int     `json:"receiving_tds"`
	Targets       int     `json:"targets"`
	Fumbles       int     `json:"fumbles"`
	FantasyPoints float64 `json:"fantasy_points"`
}

// PointsPerGame returns season fantasy points per game played. A season
// with zero recorded games is treated as one game so the value stays finite.
func (ps PlayerStats) PointsPerGame() float64 {
	games := ps.GamesPlayed
	if games < 1 {
		games = 1
	}
	return ps.FantasyPoints / float64(games)
}

// TotalTDs returns combined passing, rushing and receiving touchdowns.
func (ps PlayerStats) TotalTDs() int {
	return ps.PassingTDs + ps.RushingTDs + ps.ReceivingTDs
}

// Player is a rostered NFL player with per-season statistics.
type Player struct {
	ID           string              `json:"player_id"`
	Name         string              `json:"name"`
	Position     Position            `json:"position"`
	NFLTeam      string              `json:"nfl_team"`
	InjuryStatus InjuryStatus        `json:"injury_status"`
	Stats        map[int]PlayerStats `json:"stats,omitempty"`
}

// SeasonStats returns the player's stats for a season, if recorded.
func (p Player) SeasonStats(season int) (PlayerStats, bool) {
	st, ok := p.Stats[season]
	return st, ok
}

// Healthy reports whether the player is active or questionable.
func (p Player) Healthy() bool {
	return p.InjuryStatus.Healthy()
}

// Team is one fantasy roster with its season record.
type Team struct {
	ID            string   `json:"team_id"`
	Name          string   `json:"team_name"`
	Owner         string   `json:"owner_name,omitempty"`
	Wins          int      `json:"wins"`
	Losses        int      `json:"losses"`
	Ties          int      `json:"ties"`
	PointsFor     float64  `json:"points_for"`
	PointsAgainst float64  `json:"points_against"`
	Roster        []string `json:"roster"`
	Starters      []string `json:"starters"`
}

// WinPercentage counts ties as half a win. Zero games played yields 0.
func (t Team) WinPercentage() float64 {
	games := t.Wins + t.Losses + t.Ties
	if games == 0 {
		return 0
	}
	return (float64(t.Wins) + 0.5*float64(t.Ties)) / float64(games)
}

// StarterSlots returns the first limit starters. The full list is returned
// when limit is non-positive.
func (t Team) StarterSlots(limit int) []string {
	if limit <= 0 || limit >= len(t.Starters) {
		return t.Starters
	}
	return t.Starters[:limit]
}

// Bench derives the bench as roster minus starters, in roster order,
// capped at limit entries (unlimited when limit is non-positive).
func (t Team) Bench(limit int) []string {
	started := make(map[string]struct{}, len(t.Starters))
	for _, id := range t.Starters {
		started[id] = struct{}{}
	}
	bench := make([]string, 0, len(t.Roster))
	for _, id := range t.Roster {
		if _, ok := started[id]; ok {
			continue
		}
		bench = append(bench, id)
		if limit > 0 && len(bench) == limit {
			break
		}
	}
	return bench
}

// MatchupEntry is one team's side of a weekly head-to-head matchup. Two
// entries in the same week sharing a MatchupID are opponents.
type MatchupEntry struct {
	Week         int                `json:"week"`
	MatchupID    int                `json:"matchup_id"`
	TeamID       string             `json:"team_id"`
	Points       float64            `json:"points"`
	PlayerPoints map[string]float64 `json:"player_points,omitempty"`
}

// DraftPick records where a player was taken in the league draft.
type DraftPick struct {
	PlayerID string `json:"player_id"`
	PickNo   int    `json:"pick_no"`
	Round    int    `json:"round"`
}

// Cost converts the pick slot into a normalized acquisition cost in [0,1],
// where pick 1 costs 1.0 and the last pick approaches 0.
func (d DraftPick) Cost(maxPicks int) float64 {
	if maxPicks < 1 {
		maxPicks = 1
	}
	cost := 1.0 - float64(d.PickNo-1)/float64(maxPicks)
	if cost < 0 {
		return 0
	}
	if cost > 1 {
		return 1
	}
	return cost
}

// Snapshot is the immutable input for one computation run. The engine never
// mutates a snapshot; all outputs are newly constructed records.
type Snapshot struct {
	LeagueID   string            `json:"league_id"`
	Season     int               `json:"season"`
	FetchedAt  time.Time         `json:"fetched_at"`
	Teams      []Team            `json:"teams"`
	Players    map[string]Player `json:"players"`
	Matchups   []MatchupEntry    `json:"matchups"`
	DraftPicks []DraftPick       `json:"draft_picks"`
}
