// Package wire defines the on-wire request/response shapes the batch
// adapter consumes and produces. Only the fields the limiter actually uses
// are typed; everything else round-trips untouched through Extra.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"

	"curaenginegradualflow/internal/flowpath"
	"curaenginegradualflow/internal/geometry"
)

// ErrDecodeIncomplete is returned when a wire path is missing a field the
// limiter requires.
var ErrDecodeIncomplete = errors.New("wire: path is missing a required field")

// Point is a wire-format point: the same integer-micrometre coordinate as
// geometry.Point, with JSON field names matching the wire schema.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// toGeometry converts a slice of wire points to a geometry.Polyline.
func toGeometry(pts []Point) geometry.Polyline {
	out := make(geometry.Polyline, len(pts))
	for i, p := range pts {
		out[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	return out
}

func fromGeometry(pl geometry.Polyline) []Point {
	out := make([]Point, len(pl))
	for i, p := range pl {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

// knownFieldsSpeedDerivatives lists the SpeedDerivatives field names, to
// separate them from Extra during decode.
var knownFieldsSpeedDerivatives = map[string]struct{}{"velocity": {}}

// SpeedDerivatives carries the one speed field the limiter reads and
// rewrites, plus every sibling field of the wire's speed_derivatives
// sub-message preserved bit-exact in Extra. The original mutates only the
// velocity field of this sub-message in place; this mirrors that by never
// replacing the sub-message wholesale.
type SpeedDerivatives struct {
	Velocity float64 `json:"velocity"` // mm/s

	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes velocity via the default struct decoder and stashes
// everything else in Extra.
func (s *SpeedDerivatives) UnmarshalJSON(data []byte) error {
	type alias SpeedDerivatives
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range raw {
		if _, known := knownFieldsSpeedDerivatives[k]; !known {
			extra[k] = v
		}
	}

	*s = SpeedDerivatives(a)
	s.Extra = extra
	return nil
}

// MarshalJSON re-merges velocity with Extra.
func (s SpeedDerivatives) MarshalJSON() ([]byte, error) {
	type alias SpeedDerivatives
	knownJSON, err := json.Marshal(alias(s))
	if err != nil {
		return nil, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(knownJSON, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// knownFields lists the PathData field names, to separate them from Extra
// during decode.
var knownFields = map[string]struct{}{
	"path": {}, "flow": {}, "width_factor": {}, "line_width": {},
	"layer_thickness": {}, "flow_ratio": {}, "speed_factor": {},
	"speed_back_pressure_factor": {}, "retract": {}, "speed_derivatives": {},
}

// PathData is a toolpath in wire form: the fields the limiter consumes,
// typed, plus every other field the plugin infrastructure sends that this
// worker never looks at, preserved bit-exact in Extra.
type PathData struct {
	Path                    []Point          `json:"path"`
	Flow                    float64          `json:"flow"`
	WidthFactor             float64          `json:"width_factor"`
	LineWidth               float64          `json:"line_width"`
	LayerThickness          float64          `json:"layer_thickness"`
	FlowRatio               float64          `json:"flow_ratio"`
	SpeedFactor             float64          `json:"speed_factor"`
	SpeedBackPressureFactor float64          `json:"speed_back_pressure_factor"`
	Retract                 bool             `json:"retract"`
	SpeedDerivatives        SpeedDerivatives `json:"speed_derivatives"`

	// Extra holds every field present on the wire that this worker does not
	// interpret, keyed by JSON field name, so it can be echoed back
	// bit-exact on output.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields via the default struct decoder and
// stashes everything else in Extra.
func (p *PathData) UnmarshalJSON(data []byte) error {
	type alias PathData
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra := make(map[string]json.RawMessage)
	for k, v := range raw {
		if _, known := knownFields[k]; !known {
			extra[k] = v
		}
	}

	*p = PathData(a)
	p.Extra = extra
	return nil
}

// MarshalJSON re-merges the known fields with Extra.
func (p PathData) MarshalJSON() ([]byte, error) {
	type alias PathData
	knownJSON, err := json.Marshal(alias(p))
	if err != nil {
		return nil, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(knownJSON, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// ToMetadata extracts the limiter's Metadata view of this wire path.
func (p *PathData) ToMetadata() *flowpath.Metadata {
	return &flowpath.Metadata{
		TargetVelocity:          p.SpeedDerivatives.Velocity,
		SpeedFactor:             p.SpeedFactor,
		SpeedBackPressureFactor: p.SpeedBackPressureFactor,
		Flow:                    p.Flow,
		WidthFactor:             p.WidthFactor,
		LineWidth:               p.LineWidth,
		LayerThickness:          p.LayerThickness,
		FlowRatio:               p.FlowRatio,
		Retract:                 p.Retract,
	}
}

// Points returns this wire path's polyline as a geometry.Polyline.
func (p *PathData) Points() geometry.Polyline {
	return toGeometry(p.Path)
}

// FromPath converts a limited sub-path back to wire form, cloning the
// original input's metadata fields and Extra bag, and replacing the
// polyline and the assigned speed. includeFirstPoint controls whether the
// polyline's leading point (which duplicates the previous emitted path's
// last point on the wire) is dropped.
func FromPath(p *flowpath.Path, original *PathData, includeFirstPoint bool) PathData {
	out := *original
	points := p.Points
	if !includeFirstPoint && len(points) > 0 {
		points = points[1:]
	}
	out.Path = fromGeometry(points)
	out.SpeedDerivatives.Velocity = p.Speed * 1e-3
	return out
}

// Validate reports ErrDecodeIncomplete if p lacks the geometry required to
// run through the limiter.
func (p *PathData) Validate() error {
	if len(p.Path) < 1 {
		return fmt.Errorf("%w: empty polyline", ErrDecodeIncomplete)
	}
	return nil
}
