package stats

import (
	"math"
	"testing"

	"curaenginegradualflow/internal/flowpath"
	"curaenginegradualflow/internal/geometry"
)

func mockMetadata(velocity float64) *flowpath.Metadata {
	return &flowpath.Metadata{
		TargetVelocity:          velocity,
		SpeedFactor:             1,
		SpeedBackPressureFactor: 1,
		Flow:                    1,
		WidthFactor:             1,
		LineWidth:               400,
		LayerThickness:          250,
		FlowRatio:               1,
	}
}

func TestComputeExcludesTravel(t *testing.T) {
	slow := flowpath.New(mockMetadata(10), geometry.Polyline{{X: 0, Y: 0}, {X: 0, Y: 1000}})
	fast := flowpath.New(mockMetadata(100), geometry.Polyline{{X: 0, Y: 1000}, {X: 0, Y: 2000}})
	travel := flowpath.New(mockMetadata(0), geometry.Polyline{{X: 0, Y: 2000}, {X: 0, Y: 3000}})

	s := Compute([]*flowpath.Path{slow, fast, travel})
	if s.Count != 2 {
		t.Fatalf("count: got %d want 2", s.Count)
	}
	if !approxEqual(s.Max, fast.Flow(), 1e-6) {
		t.Fatalf("max: got %v want %v", s.Max, fast.Flow())
	}
	if !approxEqual(s.Min, slow.Flow(), 1e-6) {
		t.Fatalf("min: got %v want %v", s.Min, slow.Flow())
	}
	wantMean := (slow.Flow() + fast.Flow()) / 2
	if !approxEqual(s.Mean, wantMean, 1e-6) {
		t.Fatalf("mean: got %v want %v", s.Mean, wantMean)
	}
}

func TestComputeAllTravelIsZeroValue(t *testing.T) {
	travel := flowpath.New(mockMetadata(0), geometry.Polyline{{X: 0, Y: 0}, {X: 0, Y: 1000}})
	s := Compute([]*flowpath.Path{travel})
	if s != (Summary{}) {
		t.Fatalf("expected zero-value summary, got %+v", s)
	}
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
