// Package geometry provides the integer 2-D point and polyline primitives
// that the flow limiter partitions and measures. Coordinates are in
// micrometres, matching the wire representation of a toolpath.
package geometry

import "math"

// Point is a 2-D coordinate in integer micrometres.
type Point struct {
	X, Y int64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Negate returns -p.
func (p Point) Negate() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// DistanceTo returns the Euclidean distance between p and q, in micrometres.
func (p Point) DistanceTo(q Point) float64 {
	dx := float64(q.X - p.X)
	dy := float64(q.Y - p.Y)
	return math.Hypot(dx, dy)
}

// Lerp returns the point on the segment p->q at parameter r in [0, 1],
// truncating each coordinate toward zero after the interpolation
// multiplication, matching the reference implementation's integer cut-point
// rounding so that results are reproducible across reimplementations.
func (p Point) Lerp(q Point, r float64) Point {
	dx := float64(q.X - p.X)
	dy := float64(q.Y - p.Y)
	return Point{
		X: p.X + int64(dx*r),
		Y: p.Y + int64(dy*r),
	}
}
