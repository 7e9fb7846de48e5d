// Package limiter implements the two-pass gradual-flow discretization: a
// forward pass that clamps flow increases by acceleration, and a backward
// pass that clamps flow decreases by deceleration.
package limiter

import (
	"slices"

	"curaenginegradualflow/internal/flowpath"
	"curaenginegradualflow/internal/numeric"
)

// FlowState tracks whether the machine has a known current flow to ramp
// from.
type FlowState int

const (
	// Undefined means the next extrusion path resumes from the state's
	// SetpointFlow (the setpoint of the last extrusion path processed)
	// rather than ramping from whatever current_flow happens to hold.
	Undefined FlowState = iota
	// Transition means the last path ended mid-ramp, carrying a residual
	// discretized duration into the next path.
	Transition
	// Stable means the last path reached its target flow with no residual
	// duration left over.
	Stable
)

// State holds the mutable scalars threaded through one pass (forward or
// backward) of the limiter. A State is not safe for concurrent use; build
// one per request, as ProcessPaths runs both passes on it and the per-path
// routine mutates it in place.
type State struct {
	CurrentFlow                  float64 // um^3/s
	FlowAcceleration             float64 // um^3/s^2
	FlowDeceleration             float64 // um^3/s^2
	DiscretizedDuration          float64 // s: the quantum sub-paths are chopped into
	DiscretizedDurationRemaining float64 // s: carried across path boundaries
	TargetEndFlow                float64 // um^3/s: seeds the backward pass
	SetpointFlow                 float64 // um^3/s
	ResetFlowDuration            float64 // s: travel longer than this discards flow history
	FlowState                    FlowState
}

// ProcessPaths runs the full two-pass orchestration over an ordered batch
// of paths: a forward pass (left fold, acceleration-limited) followed by a
// backward pass (right fold, deceleration-limited) over the forward pass's
// output. It returns the final, flow-limited path list in the original
// traversal order.
func (s *State) ProcessPaths(paths []*flowpath.Path) []*flowpath.Path {
	s.DiscretizedDurationRemaining = 0

	forward := make([]*flowpath.Path, 0, len(paths))
	for _, p := range paths {
		forward = append(forward, s.processPath(p, flowpath.Forward)...)
	}

	s.DiscretizedDurationRemaining = 0

	// We start the backward pass at the target end flow and ramp down
	// toward the target flow of whichever path runs slowest at the right
	// end of the batch. If the forward pass never reached that flow, start
	// the backward pass no higher than what the forward pass actually
	// achieved — we cannot decelerate from a flow we never reached.
	s.CurrentFlow = numeric.ClampMax(s.CurrentFlow, s.TargetEndFlow)

	// processPath emits backward sub-paths starting from the path's end, so
	// collect everything in emission order and reverse it once at the end.
	backward := make([]*flowpath.Path, 0, len(forward))
	for i := len(forward) - 1; i >= 0; i-- {
		backward = append(backward, s.processPath(forward[i], flowpath.Backward)...)
	}
	slices.Reverse(backward)

	return backward
}

// processPath discretizes a single path into one or more sub-paths with a
// gradual change in flow, per §4.2.1.
func (s *State) processPath(path *flowpath.Path, direction flowpath.Direction) []*flowpath.Path {
	if s.FlowState == Undefined {
		s.CurrentFlow = s.SetpointFlow
	}

	if path.IsTravel() {
		if path.IsRetract() || path.TotalDuration() > s.ResetFlowDuration {
			s.FlowState = Undefined
		}
		return []*flowpath.Path{path}
	}

	s.SetpointFlow = path.SetpointFlow

	targetFlow := path.Flow()
	if targetFlow <= s.CurrentFlow {
		s.CurrentFlow = targetFlow
		s.DiscretizedDurationRemaining = 0
		return []*flowpath.Path{path}
	}

	volumePerMm := path.Metadata.ExtrusionVolumePerMm()

	var discretized []*flowpath.Path
	remaining := path

	if s.DiscretizedDurationRemaining > 0 {
		segmentSpeed := s.CurrentFlow / volumePerMm
		head, tail, leftover := flowpath.Partition(remaining, s.DiscretizedDurationRemaining, segmentSpeed, direction)
		s.DiscretizedDurationRemaining = numeric.ClampMin(s.DiscretizedDurationRemaining-leftover, 0)
		if tail == nil {
			return []*flowpath.Path{head}
		}
		discretized = append(discretized, head)
		remaining = tail
	}

	flowDelta := s.FlowAcceleration
	if direction == flowpath.Backward {
		flowDelta = s.FlowDeceleration
	}
	flowDelta *= s.DiscretizedDuration

	for s.CurrentFlow < targetFlow {
		s.CurrentFlow = numeric.ClampMax(s.CurrentFlow+flowDelta, targetFlow)
		segmentSpeed := s.CurrentFlow / volumePerMm

		if s.CurrentFlow == targetFlow {
			remaining.Speed = segmentSpeed
			s.DiscretizedDurationRemaining = numeric.ClampMin(s.DiscretizedDurationRemaining-remaining.TotalDuration(), 0)
			discretized = append(discretized, remaining)
			return discretized
		}

		head, tail, leftover := flowpath.Partition(remaining, s.DiscretizedDuration, segmentSpeed, direction)
		discretized = append(discretized, head)

		if tail != nil {
			remaining = tail
			continue
		}
		s.DiscretizedDurationRemaining = leftover
		return discretized
	}

	discretized = append(discretized, remaining)
	if s.DiscretizedDurationRemaining > 0 {
		s.FlowState = Transition
	} else {
		s.FlowState = Stable
	}
	return discretized
}
