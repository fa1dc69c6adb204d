package colorspace

import (
	"math"
	"testing"
)

func TestApproximatelyEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     float64
		eps      float64
		expected bool
	}{
		{"identical", 0.7, 0.7, MachineEpsilon, true},
		{"zeros", 0, 0, MachineEpsilon, true},
		{"one ulp apart", 1, math.Nextafter(1, 2), MachineEpsilon, true},
		{"clearly different", 1, 0.9, MachineEpsilon, false},
		{"within wide tolerance", 1, 0.9, 0.2, true},
		{"relative to larger", 10, 9, 0.1, true},
		{"nan", math.NaN(), math.NaN(), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApproximatelyEqual(tt.a, tt.b, tt.eps); got != tt.expected {
				t.Errorf("ApproximatelyEqual(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.eps, got, tt.expected)
			}
		})
	}
}

func TestEssentiallyEqual(t *testing.T) {
	// 10 vs 9 with eps 0.1: |1| <= 9*0.1 is false, |1| <= 10*0.1 is true
	if EssentiallyEqual(10, 9, 0.1) {
		t.Error("EssentiallyEqual(10, 9, 0.1) should be false")
	}
	if !ApproximatelyEqual(10, 9, 0.1) {
		t.Error("ApproximatelyEqual(10, 9, 0.1) should be true")
	}
	if !EssentiallyEqual(0.25, 0.25, MachineEpsilon) {
		t.Error("EssentiallyEqual should hold for identical values")
	}
}
