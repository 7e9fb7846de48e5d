package geometry

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestPointArithmetic(t *testing.T) {
	p := Point{X: 3, Y: 4}
	q := Point{X: 1, Y: 1}

	if got := p.Add(q); got != (Point{X: 4, Y: 5}) {
		t.Fatalf("Add: got %v", got)
	}
	if got := p.Sub(q); got != (Point{X: 2, Y: 3}) {
		t.Fatalf("Sub: got %v", got)
	}
	if got := p.Negate(); got != (Point{X: -3, Y: -4}) {
		t.Fatalf("Negate: got %v", got)
	}
}

func TestDistanceTo(t *testing.T) {
	p := Point{X: 0, Y: 0}
	q := Point{X: 3, Y: 4}
	if got := p.DistanceTo(q); !approxEqual(got, 5, 1e-9) {
		t.Fatalf("DistanceTo: got %v, want 5", got)
	}
}

func TestLerpTruncatesTowardZero(t *testing.T) {
	p := Point{X: 0, Y: 0}
	q := Point{X: 10, Y: -10}

	got := p.Lerp(q, 0.35)
	want := Point{X: 3, Y: -3} // 3.5 truncates to 3, -3.5 truncates to -3
	if got != want {
		t.Fatalf("Lerp: got %v, want %v", got, want)
	}
}

func TestPolylineLength(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 0, Y: 250}}
	if got := pl.Length(); !approxEqual(got, 250, 1e-9) {
		t.Fatalf("Length: got %v, want 250", got)
	}
}

func TestPolylineLengthDegenerate(t *testing.T) {
	if got := (Polyline{{X: 1, Y: 1}}).Length(); got != 0 {
		t.Fatalf("Length of single point: got %v, want 0", got)
	}
	if got := (Polyline(nil)).Length(); got != 0 {
		t.Fatalf("Length of nil: got %v, want 0", got)
	}
}

func TestPolylineDuration(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 0, Y: 1000}}
	if got := pl.Duration(500); !approxEqual(got, 2, 1e-9) {
		t.Fatalf("Duration: got %v, want 2", got)
	}
}

func TestPolylineClone(t *testing.T) {
	pl := Polyline{{X: 0, Y: 0}, {X: 1, Y: 1}}
	clone := pl.Clone()
	clone[0] = Point{X: 99, Y: 99}
	if pl[0] == clone[0] {
		t.Fatalf("Clone shares backing array")
	}
}
