package robust

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-12 }

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"single", []float64{5}, 5},
		{"odd", []float64{9, 1, 7, 3, 5}, 5},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"duplicates", []float64{2, 2, 3, 3, 4, 4}, 3},
		{"negative", []float64{-5, -1, 0, 3, 7}, 0},
		{"pair", []float64{27, 36}, 31.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.in); !almostEqual(got, tt.want) {
				t.Fatalf("Median(%v) = %v want %v", tt.in, got, tt.want)
			}
		})
	}
	if !math.IsNaN(Median(nil)) {
		t.Fatalf("empty median should be NaN")
	}
}

func TestMedianDoesNotMutate(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestMAD(t *testing.T) {
	if got := MAD([]float64{4}); got != 0 {
		t.Fatalf("single element MAD = %v", got)
	}
	// |27-31.5| = |36-31.5| = 4.5
	if got := MAD([]float64{27, 36}); !almostEqual(got, 4.5*MADConstant) {
		t.Fatalf("MAD = %v want %v", got, 4.5*MADConstant)
	}
	// median 3, deviations 2 1 0 1 2 -> 1
	if got := MADRaw([]float64{1, 2, 3, 4, 5}); got != 1 {
		t.Fatalf("MADRaw = %v", got)
	}
	if got := MAD([]float64{1, 1, 1, 1}); got != 0 {
		t.Fatalf("constant MAD = %v", got)
	}
}

func TestEmptyInputIsNaN(t *testing.T) {
	for name, f := range map[string]func([]float64) float64{"Median": Median, "MADRaw": MADRaw, "MAD": MAD} {
		if got := f([]float64{}); !math.IsNaN(got) {
			t.Fatalf("%s(empty) = %v want NaN", name, got)
		}
	}
}

func TestMADDoesNotMutate(t *testing.T) {
	in := []float64{36, 27, 30}
	MAD(in)
	if in[0] != 36 || in[1] != 27 || in[2] != 30 {
		t.Fatalf("input mutated: %v", in)
	}
}
