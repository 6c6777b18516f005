package stats

import (
	"math"
	"testing"
)

func TestGini_EqualDistribution(t *testing.T) {
	for _, x := range []float64{1, 42.5, 1000} {
		g := Gini([]float64{x, x, x, x})
		if g != 0 {
			t.Errorf("gini of equal values %v = %v, want 0", x, g)
		}
	}
}

func TestGini_MaxInequality(t *testing.T) {
	g := Gini([]float64{0, 0, 0, 100})
	// Theoretical maximum for n=4 is (n-1)/n = 0.75.
	if math.Abs(g-0.75) > 1e-9 {
		t.Errorf("gini([0,0,0,100]) = %v, want 0.75", g)
	}
}

func TestGini_DegenerateInputs(t *testing.T) {
	if g := Gini(nil); g != 0 {
		t.Errorf("gini(nil) = %v, want 0", g)
	}
	if g := Gini([]float64{0, 0, 0}); g != 0 {
		t.Errorf("gini of zeros = %v, want 0", g)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	if p := Percentile(values, 40); p != 87.5 {
		t.Errorf("percentile of top value = %v, want 87.5", p)
	}
	if p := Percentile(values, 5); p != 0 {
		t.Errorf("percentile below range = %v, want 0", p)
	}
	if p := Percentile(nil, 10); p != 50 {
		t.Errorf("percentile on empty list = %v, want neutral 50", p)
	}
}

func TestZScore_ZeroStd(t *testing.T) {
	if z := ZScore(10, 5, 0); z != 0 {
		t.Errorf("zscore with zero std = %v, want 0", z)
	}
	if z := ZScore(10, 5, 2.5); z != 2 {
		t.Errorf("zscore = %v, want 2", z)
	}
}

func TestWeightedAverage(t *testing.T) {
	if wa := WeightedAverage([]float64{1, 3}, []float64{1, 1}); wa != 2 {
		t.Errorf("weighted average = %v, want 2", wa)
	}
	if wa := WeightedAverage([]float64{1, 3}, []float64{0, 0}); wa != 0 {
		t.Errorf("zero total weight = %v, want 0", wa)
	}
	if wa := WeightedAverage([]float64{1, 3}, []float64{1}); wa != 0 {
		t.Errorf("mismatched lengths = %v, want 0", wa)
	}
}

func TestLinearSlope(t *testing.T) {
	if s := LinearSlope([]float64{1, 2, 3, 4}); math.Abs(s-1) > 1e-12 {
		t.Errorf("slope of linear series = %v, want 1", s)
	}
	if s := LinearSlope([]float64{5, 5, 5}); s != 0 {
		t.Errorf("slope of flat series = %v, want 0", s)
	}
	if s := LinearSlope([]float64{7}); s != 0 {
		t.Errorf("slope of single point = %v, want 0", s)
	}
}

func TestNormalize(t *testing.T) {
	out := Normalize([]float64{0, 5, 10}, 0, 1)
	want := []float64{0, 0.5, 1}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("normalize[%d] = %v, want %v", i, out[i], want[i])
		}
	}
	flat := Normalize([]float64{3, 3}, 0, 1)
	if flat[0] != 0 || flat[1] != 0 {
		t.Errorf("constant series should map to lower bound, got %v", flat)
	}
}

func TestVariance(t *testing.T) {
	if v := Variance([]float64{2, 4, 4, 4, 5, 5, 7, 9}); math.Abs(v-4.571428571428571) > 1e-9 {
		t.Errorf("variance = %v", v)
	}
	if v := Variance([]float64{1}); v != 0 {
		t.Errorf("variance of single point = %v, want 0", v)
	}
}

func TestOutlierBounds(t *testing.T) {
	// n=8: quartiles land on sorted[2]=3 and sorted[6]=7, so with the
	// usual 1.5 multiplier the fences are 3-6 and 7+6.
	lo, hi := OutlierBounds([]float64{8, 1, 6, 3, 5, 2, 7, 4}, 1.5)
	if lo != -3 || hi != 13 {
		t.Errorf("bounds of 1..8 = (%v, %v), want (-3, 13)", lo, hi)
	}

	// Small n: quartiles are sorted[1]=2 and sorted[3]=4.
	lo, hi = OutlierBounds([]float64{1, 2, 3, 4}, 1.5)
	if lo != -1 || hi != 7 {
		t.Errorf("bounds of 1..4 = (%v, %v), want (-1, 7)", lo, hi)
	}

	lo, hi = OutlierBounds(nil, 1.5)
	if lo != 0 || hi != 0 {
		t.Errorf("bounds of empty input = (%v, %v), want (0, 0)", lo, hi)
	}
}

func TestClamp(t *testing.T) {
	if c := Clamp(5, 0, 2); c != 2 {
		t.Errorf("clamp above = %v", c)
	}
	if c := Clamp(-1, 0, 2); c != 0 {
		t.Errorf("clamp below = %v", c)
	}
}
