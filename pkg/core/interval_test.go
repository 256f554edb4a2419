package core

import (
	"math"
	"testing"
)

func TestInterval_ContainsAndSurrounds(t *testing.T) {
	i := NewInterval(0.001, 10)

	tests := []struct {
		name      string
		x         float64
		contains  bool
		surrounds bool
	}{
		{"below", 0.0005, false, false},
		{"exactly min", 0.001, true, false},
		{"inside", 5, true, true},
		{"exactly max", 10, true, false},
		{"above", 10.5, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := i.Contains(tt.x); got != tt.contains {
				t.Errorf("Contains(%f) = %t, expected %t", tt.x, got, tt.contains)
			}
			if got := i.Surrounds(tt.x); got != tt.surrounds {
				t.Errorf("Surrounds(%f) = %t, expected %t", tt.x, got, tt.surrounds)
			}
		})
	}
}

func TestInterval_EmptyAndUniverse(t *testing.T) {
	for _, x := range []float64{-1e300, 0, 1e300} {
		if EmptyInterval.Contains(x) {
			t.Errorf("Empty interval should not contain %g", x)
		}
		if !UniverseInterval.Contains(x) {
			t.Errorf("Universe interval should contain %g", x)
		}
	}
	if !math.IsInf(UniverseInterval.Size(), 1) {
		t.Errorf("Universe size should be +Inf, got %f", UniverseInterval.Size())
	}
}

func TestInterval_Clamp(t *testing.T) {
	i := NewInterval(0, 0.999)
	tests := []struct {
		in, expected float64
	}{
		{-0.5, 0},
		{0.5, 0.5},
		{1.2, 0.999},
	}
	for _, tt := range tests {
		if got := i.Clamp(tt.in); got != tt.expected {
			t.Errorf("Clamp(%f) = %f, expected %f", tt.in, got, tt.expected)
		}
	}
}

func TestInterval_WithMaxShrinks(t *testing.T) {
	i := NewInterval(0.001, math.Inf(1))
	shrunk := i.WithMax(4)
	if shrunk.Min != i.Min || shrunk.Max != 4 {
		t.Errorf("Expected [0.001, 4], got [%f, %f]", shrunk.Min, shrunk.Max)
	}
	if !math.IsInf(i.Max, 1) {
		t.Error("WithMax must not modify the receiver")
	}
}
