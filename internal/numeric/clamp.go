// Package numeric holds small generic numeric helpers used by the limiter
// package.
package numeric

import "golang.org/x/exp/constraints"

// ClampMin returns lo if v is less than lo, otherwise v.
func ClampMin[T constraints.Ordered](v, lo T) T {
	if v < lo {
		return lo
	}
	return v
}

// ClampMax returns hi if v is greater than hi, otherwise v.
func ClampMax[T constraints.Ordered](v, hi T) T {
	if v > hi {
		return hi
	}
	return v
}
