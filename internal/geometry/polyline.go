package geometry

// Polyline is an ordered sequence of points. Insertion order is the
// traversal order; a polyline produced for extrusion must have at least two
// points before Length or Duration can be computed.
type Polyline []Point

// Length returns the sum of Euclidean distances between consecutive points,
// in micrometres.
func (pl Polyline) Length() float64 {
	if len(pl) < 2 {
		return 0
	}
	total := 0.0
	prev := pl[0]
	for _, pt := range pl[1:] {
		total += prev.DistanceTo(pt)
		prev = pt
	}
	return total
}

// Duration returns Length() / speed, in seconds. speed is in micrometres
// per second.
func (pl Polyline) Duration(speed float64) float64 {
	return pl.Length() / speed
}

// Clone returns an independent copy of the polyline.
func (pl Polyline) Clone() Polyline {
	out := make(Polyline, len(pl))
	copy(out, pl)
	return out
}
