package sleeper

import "encoding/json"

// Wire types for the Sleeper fantasy API. Numeric fields the API sometimes
// sends as strings are normalized during decoding.

// League is the league metadata record.
type League struct {
	LeagueID string `json:"league_id"`
	Name     string `json:"name"`
	Season   string `json:"season"`
	Status   string `json:"status"`
}

// Roster is one team's roster with its season record settings.
type Roster struct {
	RosterID int            `json:"roster_id"`
	OwnerID  string         `json:"owner_id"`
	Players  []string       `json:"players"`
	Starters []string       `json:"starters"`
	Settings RosterSettings `json:"settings"`
}

// RosterSettings carries the win-loss record and scoring totals. Sleeper
// splits point totals into integer and centesimal parts.
type RosterSettings struct {
	Wins               int `json:"wins"`
	Losses             int `json:"losses"`
	Ties               int `json:"ties"`
	FPts               int `json:"fpts"`
	FPtsDecimal        int `json:"fpts_decimal"`
	FPtsAgainst        int `json:"fpts_against"`
	FPtsAgainstDecimal int `json:"fpts_against_decimal"`
}

// PointsFor recombines the split scoring total.
func (s RosterSettings) PointsFor() float64 {
	return float64(s.FPts) + float64(s.FPtsDecimal)/100
}

// PointsAgainst recombines the split opponent total.
func (s RosterSettings) PointsAgainst() float64 {
	return float64(s.FPtsAgainst) + float64(s.FPtsAgainstDecimal)/100
}

// User is a league member; team names live in free-form metadata.
type User struct {
	UserID      string            `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Metadata    map[string]string `json:"metadata"`
}

// TeamName prefers the custom team name, falling back to the display name.
func (u User) TeamName() string {
	if name := u.Metadata["team_name"]; name != "" {
		return name
	}
	if u.DisplayName != "" {
		return u.DisplayName + "'s Team"
	}
	return "Unknown Team"
}

// Matchup is one roster's side of a weekly head-to-head pairing.
type Matchup struct {
	RosterID      int                `json:"roster_id"`
	MatchupID     int                `json:"matchup_id"`
	Points        float64            `json:"points"`
	PlayersPoints map[string]float64 `json:"players_points"`
}

// Player is the NFL player directory record.
type Player struct {
	PlayerID     string `json:"player_id"`
	FullName     string `json:"full_name"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	InjuryStatus string `json:"injury_status"`
}

// Name returns the best available display name. Team defenses have no
// full_name, only first/last parts.
func (p Player) Name() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.FirstName != "" || p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	return p.PlayerID
}

// SeasonStats is one player's season stat line. The stats endpoint returns
// a loose numeric map; only the fields the engines consume are extracted.
type SeasonStats struct {
	GamesPlayed   int
	PassingYards  int
	PassingTDs    int
	PassingInts   int
	RushingYards  int
	RushingTDs    int
	Receptions    int
	ReceivingYds  int
	ReceivingTDs  int
	Targets       int
	Fumbles       int
	FantasyPoints float64
}

// UnmarshalJSON extracts the known stat keys from the loose map.
func (s *SeasonStats) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.GamesPlayed = int(raw["gp"])
	s.PassingYards = int(raw["pass_yd"])
	s.PassingTDs = int(raw["pass_td"])
	s.PassingInts = int(raw["pass_int"])
	s.RushingYards = int(raw["rush_yd"])
	s.RushingTDs = int(raw["rush_td"])
	s.Receptions = int(raw["rec"])
	s.ReceivingYds = int(raw["rec_yd"])
	s.ReceivingTDs = int(raw["rec_td"])
	s.Targets = int(raw["rec_tgt"])
	s.Fumbles = int(raw["fum_lost"])
	s.FantasyPoints = raw["pts_ppr"]
	return nil
}

// Draft is a league draft reference.
type Draft struct {
	DraftID string `json:"draft_id"`
	Season  string `json:"season"`
	Status  string `json:"status"`
}

// DraftPick is one selection in a draft.
type DraftPick struct {
	PlayerID string `json:"player_id"`
	PickNo   int    `json:"pick_no"`
	Round    int    `json:"round"`
	RosterID int    `json:"roster_id"`
}
