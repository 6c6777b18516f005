package model

import (
	"encoding/json"
	"math"
)

// CPRResult is the composite power ranking for a single team.
type CPRResult struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Score    float64
	Rank     int `json:"rank"`
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	Ties     int `json:"ties"`

	// Sub-indices, full precision.
	Lineup     float64
	Bench      float64
	Momentum   float64
	Balance    float64
	Efficiency float64
	Schedule   float64

	// Degraded lists the sub-indices that fell back to a neutral or zero
	// value because of insufficient input data.
	Degraded []string `json:"degraded,omitempty"`
}

// Tier buckets the composite into a display label.
func (r CPRResult) Tier() string {
	switch {
	case r.Score >= 1.5:
		return "Elite"
	case r.Score >= 1.2:
		return "Strong"
	case r.Score >= 1.0:
		return "Average"
	case r.Score >= 0.8:
		return "Below Average"
	default:
		return "Poor"
	}
}

// MarshalJSON emits the flat wire form with numeric fields rounded to three
// decimal places. Internal computation keeps full precision; rounding happens
// only at this boundary.
func (r CPRResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		TeamID     string   `json:"team_id"`
		TeamName   string   `json:"team_name"`
		CPR        float64  `json:"cpr"`
		Rank       int      `json:"rank"`
		Wins       int      `json:"wins"`
		Losses     int      `json:"losses"`
		Ties       int      `json:"ties"`
		Lineup     float64  `json:"lineup_strength"`
		Bench      float64  `json:"bench_strength"`
		Momentum   float64  `json:"momentum"`
		Balance    float64  `json:"balance"`
		Efficiency float64  `json:"efficiency"`
		Schedule   float64  `json:"schedule"`
		Tier       string   `json:"tier"`
		Degraded   []string `json:"degraded,omitempty"`
	}
	return json.Marshal(wire{
		TeamID:     r.TeamID,
		TeamName:   r.TeamName,
		CPR:        Round(r.Score, 3),
		Rank:       r.Rank,
		Wins:       r.Wins,
		Losses:     r.Losses,
		Ties:       r.Ties,
		Lineup:     Round(r.Lineup, 3),
		Bench:      Round(r.Bench, 3),
		Momentum:   Round(r.Momentum, 3),
		Balance:    Round(r.Balance, 3),
		Efficiency: Round(r.Efficiency, 3),
		Schedule:   Round(r.Schedule, 3),
		Tier:       r.Tier(),
		Degraded:   r.Degraded,
	})
}

// NIVResult is the composite impact ranking for a single player.
type NIVResult struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	TeamID   string   `json:"team_id"`
	Score    float64
	Rank     int `json:"rank"`
	PosRank  int `json:"positional_rank"`

	Positional  float64
	Market      float64
	Explosive   float64
	Consistency float64

	// SeasonPoints backs the deterministic tie-break; not serialized.
	SeasonPoints float64 `json:"-"`

	Degraded []string `json:"degraded,omitempty"`
}

// Tier buckets the composite into a display label. Thresholds are set for
// the canonical 0-100 sub-index scale.
func (r NIVResult) Tier() string {
	switch {
	case r.Score >= 20:
		return "Elite"
	case r.Score >= 15:
		return "Strong"
	case r.Score >= 10:
		return "Average"
	case r.Score >= 5:
		return "Below Average"
	default:
		return "Poor"
	}
}

// MarshalJSON emits the flat wire form with numeric fields rounded to two
// decimal places at the serialization boundary only.
func (r NIVResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		PlayerID    string   `json:"player_id"`
		Name        string   `json:"name"`
		Position    Position `json:"position"`
		TeamID      string   `json:"team_id"`
		NIV         float64  `json:"niv"`
		Rank        int      `json:"rank"`
		PosRank     int      `json:"positional_rank"`
		Positional  float64  `json:"positional_niv"`
		Market      float64  `json:"market_niv"`
		Explosive   float64  `json:"explosive_niv"`
		Consistency float64  `json:"consistency_niv"`
		Tier        string   `json:"tier"`
		Degraded    []string `json:"degraded,omitempty"`
	}
	return json.Marshal(wire{
		PlayerID:    r.PlayerID,
		Name:        r.Name,
		Position:    r.Position,
		TeamID:      r.TeamID,
		NIV:         Round(r.Score, 2),
		Rank:        r.Rank,
		PosRank:     r.PosRank,
		Positional:  Round(r.Positional, 2),
		Market:      Round(r.Market, 2),
		Explosive:   Round(r.Explosive, 2),
		Consistency: Round(r.Consistency, 2),
		Tier:        r.Tier(),
		Degraded:    r.Degraded,
	})
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}
