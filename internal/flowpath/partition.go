package flowpath

import "curaenginegradualflow/internal/geometry"

// Direction selects which end of a path a partition cut measures from.
type Direction int

const (
	// Forward partitions cut from the front of the polyline.
	Forward Direction = iota
	// Backward partitions cut from the back of the polyline.
	Backward
)

// Partition cuts path from its front (Forward) or back (Backward) so that
// the cut-off piece, traversed at partitionSpeed, takes exactly
// partitionDuration seconds.
//
// If the whole path is shorter than that budget, head is the entire path at
// partitionSpeed, tail is nil, and leftoverDuration is the duration budget
// that path could not consume.
//
// Partition never mutates path; it requires len(path.Points) >= 2 and
// partitionSpeed > 0 as preconditions and panics otherwise — these are not
// recoverable failure modes, they indicate a caller bug.
func Partition(path *Path, partitionDuration, partitionSpeed float64, direction Direction) (head, tail *Path, leftoverDuration float64) {
	if len(path.Points) < 2 {
		panic("flowpath: partition requires at least two points")
	}
	if partitionSpeed <= 0 {
		panic("flowpath: partition requires a positive partition speed")
	}

	totalDuration := path.Points.Length() / partitionSpeed
	if partitionDuration >= totalDuration {
		return path.cloneWithSpeed(path.Points, partitionSpeed), nil, partitionDuration - totalDuration
	}

	points := path.Points
	n := len(points)

	startIndex := 0
	step := 1
	if direction == Backward {
		startIndex = n - 1
		step = -1
	}

	accumulated := 0.0
	index := startIndex
	prev := points[index]

	for {
		next := points[index+step]
		segmentLength := prev.DistanceTo(next)
		segmentDuration := segmentLength / partitionSpeed

		if accumulated+segmentDuration < partitionDuration {
			prev = next
			accumulated += segmentDuration
			index += step
			continue
		}

		durationLeft := partitionDuration - accumulated
		ratio := 0.0
		if segmentDuration > 0 {
			ratio = durationLeft / segmentDuration
		}
		cut := prev.Lerp(next, ratio)

		// cutIndex is the index at which the cut point is inserted: i+1 when
		// walking forward, i when walking backward, where i is the index of
		// the last vertex that fit entirely within the budget. In both
		// directions left then holds the vertices before the cut and right
		// the vertices after it, each ending or starting at the cut point.
		cutIndex := index + 1
		if direction == Backward {
			cutIndex = index
		}

		left := make(geometry.Polyline, 0, cutIndex+1)
		left = append(left, points[:cutIndex]...)
		left = append(left, cut)

		right := make(geometry.Polyline, 0, n-cutIndex+1)
		right = append(right, cut)
		right = append(right, points[cutIndex:]...)

		if direction == Forward {
			return path.cloneWithSpeed(left, partitionSpeed), path.cloneWithSpeed(right, path.Speed), 0
		}
		return path.cloneWithSpeed(right, partitionSpeed), path.cloneWithSpeed(left, path.Speed), 0
	}
}
