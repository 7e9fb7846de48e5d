package flowpath

import "errors"

// ErrGeometryTooShort is returned when a path has fewer than the two points
// needed to measure a length or duration.
var ErrGeometryTooShort = errors.New("flowpath: path has fewer than two points")
