package cpr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/legionffl/cpr/internal/model"
)

// leaderMarginThreshold is how far ahead the top team must be before the
// dominance insight fires.
const leaderMarginThreshold = 0.2

// rankDriftThreshold is how many positions CPR rank and win-percentage
// rank may disagree before a team is called an over/under-performer.
const rankDriftThreshold = 2

// insights derives deterministic narrative strings from an already-ranked
// result list. It never re-queries external data.
func (e *Engine) insights(ranked []model.CPRResult, teams []model.Team, inputs map[string]TeamInputs) []string {
	var out []string
	if len(ranked) < 2 {
		return out
	}

	if margin := ranked[0].Score - ranked[1].Score; margin > leaderMarginThreshold {
		out = append(out, fmt.Sprintf("Dominant leader: %s leads by %.3f CPR points", ranked[0].TeamName, margin))
	}

	over, under := performanceDrift(ranked, teams)
	if len(over) > 0 {
		out = append(out, "Overperformers: "+strings.Join(truncate(over, 3), ", "))
	}
	if len(under) > 0 {
		out = append(out, "Underperformers: "+strings.Join(truncate(under, 3), ", "))
	}

	out = append(out, subIndexLeaders(ranked)...)
	if s, ok := scheduleInsight(ranked, inputs); ok {
		out = append(out, s)
	}
	return out
}

// scheduleInsight names the team under the most schedule pressure: the
// highest tensor magnitude among teams with observed opponents, described
// through the tensor's dimension labels.
func scheduleInsight(ranked []model.CPRResult, inputs map[string]TeamInputs) (string, bool) {
	var (
		toughest model.CPRResult
		found    bool
	)
	for _, r := range ranked {
		in, ok := inputs[r.TeamID]
		if !ok || in.Tensor.Degraded || in.Tensor.Opponents == 0 {
			continue
		}
		if !found || in.Tensor.Magnitude > inputs[toughest.TeamID].Tensor.Magnitude ||
			(in.Tensor.Magnitude == inputs[toughest.TeamID].Tensor.Magnitude && r.TeamID < toughest.TeamID) {
			toughest = r
			found = true
		}
	}
	if !found {
		return "", false
	}
	interp := inputs[toughest.TeamID].Tensor.Interpret()
	return fmt.Sprintf("Toughest schedule: %s (%s, %s)",
		toughest.TeamName, interp["traditional"], interp["volatility"]), true
}

// performanceDrift compares each team's CPR rank with its win-percentage
// rank. Teams winning more than their CPR justifies are overperformers.
func performanceDrift(ranked []model.CPRResult, teams []model.Team) (over, under []string) {
	byRecord := make([]model.Team, len(teams))
	copy(byRecord, teams)
	sort.SliceStable(byRecord, func(i, j int) bool {
		if byRecord[i].WinPercentage() != byRecord[j].WinPercentage() {
			return byRecord[i].WinPercentage() > byRecord[j].WinPercentage()
		}
		return byRecord[i].ID < byRecord[j].ID
	})
	recordRank := make(map[string]int, len(byRecord))
	for i, t := range byRecord {
		recordRank[t.ID] = i + 1
	}

	for _, r := range ranked {
		actual, ok := recordRank[r.TeamID]
		if !ok {
			continue
		}
		switch {
		case actual < r.Rank-rankDriftThreshold:
			over = append(over, r.TeamName)
		case actual > r.Rank+rankDriftThreshold:
			under = append(under, r.TeamName)
		}
	}
	return over, under
}

// subIndexLeaders reports the best team in each of the six sub-indices.
func subIndexLeaders(ranked []model.CPRResult) []string {
	type dimension struct {
		label  string
		metric string
		value  func(model.CPRResult) float64
	}
	dims := []dimension{
		{"Strongest lineup", "lineup", func(r model.CPRResult) float64 { return r.Lineup }},
		{"Deepest bench", "bench", func(r model.CPRResult) float64 { return r.Bench }},
		{"Hottest streak", "momentum", func(r model.CPRResult) float64 { return r.Momentum }},
		{"Most balanced roster", "balance", func(r model.CPRResult) float64 { return r.Balance }},
		{"Best draft value", "efficiency", func(r model.CPRResult) float64 { return r.Efficiency }},
		{"Easiest road ahead", "schedule", func(r model.CPRResult) float64 { return r.Schedule }},
	}

	out := make([]string, 0, len(dims))
	for _, d := range dims {
		best := ranked[0]
		for _, r := range ranked[1:] {
			v, bv := d.value(r), d.value(best)
			if v > bv || (v == bv && r.TeamID < best.TeamID) {
				best = r
			}
		}
		out = append(out, fmt.Sprintf("%s: %s (%s: %.3f)", d.label, best.TeamName, d.metric, d.value(best)))
	}
	return out
}

func truncate(names []string, n int) []string {
	if len(names) <= n {
		return names
	}
	return names[:n]
}
