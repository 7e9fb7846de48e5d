package flowpath

import "curaenginegradualflow/internal/geometry"

// Path is a toolpath as it moves through the limiter: a shared reference to
// its source metadata, its polyline, and the speed currently assigned to
// it. A Path produced by the limiter always has at least two points.
type Path struct {
	Metadata     *Metadata
	Points       geometry.Polyline
	Speed        float64 // um/s
	SetpointFlow float64 // um^3/s: the flow this path would run at absent limiting
}

// New builds a Path at its initial, unlimited speed: the metadata's target
// speed. SetpointFlow is initialized to the resulting flow.
func New(metadata *Metadata, points geometry.Polyline) *Path {
	speed := metadata.TargetSpeed()
	p := &Path{
		Metadata: metadata,
		Points:   points,
		Speed:    speed,
	}
	p.SetpointFlow = p.Flow()
	return p
}

// Flow returns the path's current volumetric flow rate (um^3/s), computed
// from its current Speed.
func (p *Path) Flow() float64 {
	return p.Metadata.ExtrusionVolumePerMm() * p.Speed
}

// TargetFlow returns the flow this path would run at absent any limiting.
func (p *Path) TargetFlow() float64 {
	return p.Metadata.TargetFlow()
}

// IsTravel reports whether this is a travel (pen-up) move: one whose target
// flow is non-positive.
func (p *Path) IsTravel() bool {
	return p.TargetFlow() <= 0
}

// IsRetract reports whether this move is flagged as a retract.
func (p *Path) IsRetract() bool {
	return p.Metadata.Retract
}

// TotalLength returns the sum of Euclidean distances between consecutive
// points, in micrometres.
func (p *Path) TotalLength() float64 {
	return p.Points.Length()
}

// TotalDuration returns TotalLength() / Speed, in seconds.
func (p *Path) TotalDuration() float64 {
	return p.Points.Duration(p.Speed)
}

// cloneWithSpeed returns a new Path over the given points and speed,
// sharing this path's Metadata and SetpointFlow by reference/value copy —
// never deep-copying metadata.
func (p *Path) cloneWithSpeed(points geometry.Polyline, speed float64) *Path {
	return &Path{
		Metadata:     p.Metadata,
		Points:       points,
		Speed:        speed,
		SetpointFlow: p.SetpointFlow,
	}
}
