package adapter

import (
	"fmt"

	"curaenginegradualflow/internal/flowpath"
	"curaenginegradualflow/internal/geometry"
	"curaenginegradualflow/internal/limiter"
	"curaenginegradualflow/internal/wire"
)

// Result is the full outcome of processing one batch: the wire response,
// plus the reconstructed input and limited output paths, for callers (the
// debug sink, stats) that want the flowpath.Path view rather than the wire
// view.
type Result struct {
	Response *wire.Response
	Input    []*flowpath.Path
	Output   []*flowpath.Path
}

// ProcessBatch runs one request's paths through the limiter and returns the
// flow-limited response. It is a thin convenience wrapper around
// ProcessBatchDetailed for callers that don't need the flowpath.Path views.
func ProcessBatch(req *wire.Request, configs ConfigTable, trailing *TrailingFlowStore) (*wire.Response, error) {
	result, err := ProcessBatchDetailed(req, configs, trailing)
	if err != nil {
		return nil, err
	}
	return result.Response, nil
}

// ProcessBatchDetailed runs one request's paths through the limiter, per
// spec §4.3: polylines are reconstructed with first-point stitching from
// the preceding path, the limiter is instantiated with the extruder's
// configured parameters, and results are emitted with the duplicated
// stitch point trimmed off every sub-path but the first.
func ProcessBatchDetailed(req *wire.Request, configs ConfigTable, trailing *TrailingFlowStore) (*Result, error) {
	cfg, err := configs.Lookup(req.ClientID, req.ExtruderNr)
	if err != nil {
		return nil, err
	}

	if !cfg.Enabled || len(req.Paths) == 0 {
		return &Result{Response: echo(req)}, nil
	}

	paths, err := reconstruct(req.Paths)
	if err != nil {
		return nil, fmt.Errorf("adapter: %w", err)
	}

	targetFlow := firstNonZeroFlow(paths)

	currentFlow := targetFlow
	if cfg.CarryTrailingFlow {
		if last, ok := trailing.Get(req.ClientID, req.ExtruderNr); ok {
			currentFlow = last
		}
	}

	acceleration := cfg.MaxFlowAcceleration
	if req.LayerNr == 0 {
		acceleration = cfg.Layer0MaxFlowAcceleration
	}

	state := &limiter.State{
		CurrentFlow:         currentFlow,
		FlowAcceleration:    acceleration,
		FlowDeceleration:    acceleration,
		DiscretizedDuration: cfg.DiscretizationStepSize,
		ResetFlowDuration:   cfg.ResetFlowDuration,
		TargetEndFlow:       targetFlow,
		SetpointFlow:        targetFlow,
		FlowState:           limiter.Stable,
	}

	out := state.ProcessPaths(paths)

	sources := make(map[*flowpath.Metadata]*wire.PathData, len(req.Paths))
	for i := range req.Paths {
		sources[paths[i].Metadata] = &req.Paths[i]
	}

	resp := &wire.Response{Paths: make([]wire.PathData, 0, len(out)), Status: wire.StatusOK}
	for i, p := range out {
		original, ok := sources[p.Metadata]
		if !ok {
			original = &req.Paths[0]
		}
		resp.Paths = append(resp.Paths, wire.FromPath(p, original, i == 0))
	}

	if cfg.CarryTrailingFlow {
		if last := lastNonZeroFlow(out); last > 0 {
			trailing.Set(req.ClientID, req.ExtruderNr, last)
		}
	}

	return &Result{Response: resp, Input: paths, Output: out}, nil
}

// echo returns a response with the request's paths copied through
// unchanged, for a disabled extruder.
func echo(req *wire.Request) *wire.Response {
	resp := &wire.Response{Paths: make([]wire.PathData, len(req.Paths)), Status: wire.StatusOK}
	copy(resp.Paths, req.Paths)
	return resp
}

// reconstruct builds the flowpath.Path list from wire paths, stitching
// each path's polyline onto the previous path's final point so that
// partition cuts have continuous geometry to work with across path
// boundaries.
func reconstruct(wirePaths []wire.PathData) ([]*flowpath.Path, error) {
	paths := make([]*flowpath.Path, len(wirePaths))
	for i := range wirePaths {
		if err := wirePaths[i].Validate(); err != nil {
			return nil, err
		}
		points := wirePaths[i].Points()
		if i > 0 {
			prev := wirePaths[i-1].Points()
			stitched := make(geometry.Polyline, 0, len(points)+1)
			stitched = append(stitched, prev[len(prev)-1])
			stitched = append(stitched, points...)
			points = stitched
		}
		if len(points) < 2 {
			return nil, fmt.Errorf("path %d: %w", i, flowpath.ErrGeometryTooShort)
		}
		paths[i] = flowpath.New(wirePaths[i].ToMetadata(), points)
	}
	return paths, nil
}

// firstNonZeroFlow returns the first path's Flow() that is non-zero
// (travel moves have zero target flow), or 0 if the whole batch is travel.
func firstNonZeroFlow(paths []*flowpath.Path) float64 {
	for _, p := range paths {
		if f := p.Flow(); f != 0 {
			return f
		}
	}
	return 0
}

// lastNonZeroFlow returns the last emitted sub-path's Flow() that is
// non-zero, scanning from the end of the batch.
func lastNonZeroFlow(paths []*flowpath.Path) float64 {
	for i := len(paths) - 1; i >= 0; i-- {
		if f := paths[i].Flow(); f != 0 {
			return f
		}
	}
	return 0
}
