package npsched

import "math"

// Infinity returns the value of T standing in for an unbounded horizon.
// For floating time it is math.Inf(1); for integer time it is
// math.MaxInt64/4, leaving headroom so sums of such values do not overflow.
func Infinity[T Number]() T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return T(math.Inf(1))
	case float64:
		return T(math.Inf(1))
	default:
		// integer time: saturate at the widest value the concrete type
		// can hold without overflowing during arithmetic headroom.
		v := int64(math.MaxInt64 / 4)
		return T(v)
	}
}

// Epsilon returns the smallest strictly-positive step between two
// back-to-back time values: 1 for discrete (integer) time, a tiny
// fraction of a tick for dense (floating) time.
func Epsilon[T Number]() T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		v := 1e-9
		return T(v)
	default:
		return T(1)
	}
}

// MissTolerance returns the slack added to a job's deadline before a late
// finish time is reported as a genuine deadline miss, absorbing rounding
// noise in dense time. Discrete time needs none.
func MissTolerance[T Number]() T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		v := 1e-6
		return T(v)
	default:
		return T(0)
	}
}
