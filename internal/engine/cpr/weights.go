package cpr

// Weights allocates the composite across the six team sub-indices.
type Weights struct {
	Lineup     float64 `yaml:"lineup" json:"lineup"`
	Bench      float64 `yaml:"bench" json:"bench"`
	Momentum   float64 `yaml:"momentum" json:"momentum"`
	Balance    float64 `yaml:"balance" json:"balance"`
	Efficiency float64 `yaml:"efficiency" json:"efficiency"`
	Schedule   float64 `yaml:"schedule" json:"schedule"`
}

// DefaultWeights is the stock allocation.
var DefaultWeights = Weights{
	Lineup:     0.30,
	Bench:      0.20,
	Momentum:   0.15,
	Balance:    0.15,
	Efficiency: 0.10,
	Schedule:   0.10,
}

// WeightSumTolerance is how far from 1.0 a weight sum may drift before
// renormalization kicks in.
const WeightSumTolerance = 0.01

// Sum returns the total allocation.
func (w Weights) Sum() float64 {
	return w.Lineup + w.Bench + w.Momentum + w.Balance + w.Efficiency + w.Schedule
}

// Normalized scales the weights to sum to 1.0. The second return reports
// whether an adjustment was applied; a non-positive sum falls back to the
// defaults.
func (w Weights) Normalized() (Weights, bool) {
	sum := w.Sum()
	if sum <= 0 {
		return DefaultWeights, true
	}
	if diff := sum - 1.0; diff > -WeightSumTolerance && diff < WeightSumTolerance {
		return w, false
	}
	return Weights{
		Lineup:     w.Lineup / sum,
		Bench:      w.Bench / sum,
		Momentum:   w.Momentum / sum,
		Balance:    w.Balance / sum,
		Efficiency: w.Efficiency / sum,
		Schedule:   w.Schedule / sum,
	}, true
}

// Map returns the weights keyed by sub-index name, the shape surfaced in
// ranking output as weights_used.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		"lineup":     w.Lineup,
		"bench":      w.Bench,
		"momentum":   w.Momentum,
		"balance":    w.Balance,
		"efficiency": w.Efficiency,
		"schedule":   w.Schedule,
	}
}
