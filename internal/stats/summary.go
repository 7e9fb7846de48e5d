// Package stats computes small per-batch summaries for operational
// visibility, logged once per request rather than inspected per path.
package stats

import (
	"gonum.org/v1/gonum/floats"

	"curaenginegradualflow/internal/flowpath"
)

// Summary is a per-batch flow statistic, in um^3/s.
type Summary struct {
	Max   float64
	Min   float64
	Mean  float64
	Count int
}

// Compute reduces the emitted extrusion sub-paths' flow values to a
// summary. Travel moves (flow 0) are excluded so they don't drag Min to
// zero regardless of the batch's actual ramp range.
func Compute(paths []*flowpath.Path) Summary {
	flows := make([]float64, 0, len(paths))
	for _, p := range paths {
		if p.IsTravel() {
			continue
		}
		flows = append(flows, p.Flow())
	}

	if len(flows) == 0 {
		return Summary{}
	}

	return Summary{
		Max:   floats.Max(flows),
		Min:   floats.Min(flows),
		Mean:  floats.Sum(flows) / float64(len(flows)),
		Count: len(flows),
	}
}
