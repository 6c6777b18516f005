// Package stats provides the pure numeric helpers shared by the ranking
// engines. Every function is total: malformed-but-typed input returns a
// documented default instead of panicking.
package stats

import (
	"math"
	"sort"
)

// Gini computes the Gini inequality coefficient of values, clamped to [0,1].
// An empty or all-zero list returns 0.
func Gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var cum, sum float64
	for i, v := range sorted {
		cum += float64(n-i) * v
		sum += v
	}
	if sum == 0 {
		return 0
	}
	g := (2*cum)/(float64(n)*sum) - float64(n+1)/float64(n)
	return Clamp(g, 0, 1)
}

// Percentile returns the percentile rank of target within values on a
// 0-100 scale, counting ties as half-occupied. An empty list returns 50.
func Percentile(values []float64, target float64) float64 {
	if len(values) == 0 {
		return 50
	}
	var below, ties int
	for _, v := range values {
		switch {
		case v < target:
			below++
		case v == target:
			ties++
		}
	}
	p := (float64(below) + 0.5*float64(ties)) / float64(len(values)) * 100
	return Clamp(p, 0, 100)
}

// ZScore returns (x-mean)/std, or 0 when std is 0.
func ZScore(x, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	return (x - mean) / std
}

// Normalize min-max scales values into [lo,hi]. A constant series maps
// every entry to lo.
func Normalize(values []float64, lo, hi float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	out := make([]float64, len(values))
	if maxV == minV {
		for i := range out {
			out[i] = lo
		}
		return out
	}
	for i, v := range values {
		out[i] = lo + (v-minV)/(maxV-minV)*(hi-lo)
	}
	return out
}

// WeightedAverage returns sum(v*w)/sum(w), or 0 when the total weight is 0
// or the slices differ in length.
func WeightedAverage(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}
	var num, den float64
	for i, v := range values {
		num += v * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the sample variance, 0 for fewer than 2 points.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return ss / float64(len(values)-1)
}

// LinearSlope returns the ordinary least-squares slope of series against
// its index, 0 for fewer than 2 points.
func LinearSlope(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}
	xMean := float64(n-1) / 2
	yMean := Mean(series)
	var num, den float64
	for i, y := range series {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// OutlierBounds returns the IQR fences (q1 - mult*iqr, q3 + mult*iqr).
// An empty slice returns (0, 0).
func OutlierBounds(values []float64, mult float64) (float64, float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	iqr := q3 - q1
	return q1 - mult*iqr, q3 + mult*iqr
}

// Clamp bounds v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
