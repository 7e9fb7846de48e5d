// Package flowpath models a single toolpath as it flows through the
// gradual-flow limiter: its source metadata, its polyline, and the derived
// flow quantities the limiter ramps up and down.
package flowpath

// Metadata carries the read-only fields of a wire path that the limiter
// consumes. It is shared by reference across every sub-path cloned from one
// input path; it is never copied per sub-path.
type Metadata struct {
	TargetVelocity          float64 // mm/s
	SpeedFactor             float64
	SpeedBackPressureFactor float64
	Flow                    float64
	WidthFactor             float64
	LineWidth               float64 // um
	LayerThickness          float64 // um
	FlowRatio               float64
	Retract                 bool
}

// TargetSpeed is the linear speed (um/s) this path would run at absent any
// limiting.
func (m *Metadata) TargetSpeed() float64 {
	return m.TargetVelocity * m.SpeedFactor * m.SpeedBackPressureFactor * 1e3
}

// ExtrusionVolumePerMm is the cross-sectional volume per unit length
// (um^3/um). It depends only on metadata, never on the current speed.
func (m *Metadata) ExtrusionVolumePerMm() float64 {
	return m.Flow * m.WidthFactor * m.LineWidth * m.LayerThickness * m.FlowRatio
}

// TargetFlow is the flow (um^3/s) this path would run at absent any
// limiting.
func (m *Metadata) TargetFlow() float64 {
	return m.ExtrusionVolumePerMm() * m.TargetSpeed()
}
