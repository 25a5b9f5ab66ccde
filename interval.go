package npsched

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number is the scalar family every time value in the engine is built on:
// either a discrete integer clock or a dense floating-point one.
type Number interface {
	constraints.Integer | constraints.Float
}

// Interval is a closed interval [from, until] over some scalar time type.
// Zero-valued it is the empty/degenerate point interval [0, 0]; callers
// that need an explicit "unconstrained" interval should start from
// Unbounded[T]().
type Interval[T Number] struct {
	from, until T
}

// NewInterval builds [from, until]. Panics on an inverted range since every
// caller in this engine constructs intervals from already-validated bounds.
func NewInterval[T Number](from, until T) Interval[T] {
	if until < from {
		panic(fmt.Sprintf("interval: until %v before from %v", until, from))
	}
	return Interval[T]{from, until}
}

// Singleton builds a degenerate interval [t, t].
func Singleton[T Number](t T) Interval[T] {
	return Interval[T]{t, t}
}

// Unbounded builds [0, Infinity[T]()).
func Unbounded[T Number]() Interval[T] {
	return Interval[T]{0, Infinity[T]()}
}

func (iv Interval[T]) Min() T    { return iv.from }
func (iv Interval[T]) Max() T    { return iv.until }
func (iv Interval[T]) Length() T { return iv.until - iv.from }

func (iv Interval[T]) String() string {
	return fmt.Sprintf("[%v, %v]", iv.from, iv.until)
}

// Contains reports whether t falls within the closed interval.
func (iv Interval[T]) Contains(t T) bool {
	return iv.from <= t && t <= iv.until
}

// Intersects reports whether the two intervals share at least one point.
func (iv Interval[T]) Intersects(other Interval[T]) bool {
	return !iv.Disjoint(other)
}

// Disjoint reports whether the two intervals share no point at all.
func (iv Interval[T]) Disjoint(other Interval[T]) bool {
	return iv.until < other.from || other.until < iv.from
}

// Merge returns the convex hull of the two intervals (the smallest interval
// containing both), regardless of whether they overlap.
func (iv Interval[T]) Merge(other Interval[T]) Interval[T] {
	return Interval[T]{min(iv.from, other.from), max(iv.until, other.until)}
}

// Widen grows iv in place to also cover other, mirroring the |= operator on
// the underlying C++ interval type.
func (iv *Interval[T]) Widen(other Interval[T]) {
	*iv = iv.Merge(other)
}

// Sum returns the interval of possible sums of a point from iv and a point
// from other.
func (iv Interval[T]) Sum(other Interval[T]) Interval[T] {
	return Interval[T]{iv.from + other.from, iv.until + other.until}
}

// LowerBound returns the interval shifted so its minimum is at least lb,
// clamping the maximum up along with it if it would otherwise fall below lb.
func (iv Interval[T]) LowerBound(lb T) Interval[T] {
	if iv.from >= lb {
		return iv
	}
	until := iv.until
	if until < lb {
		until = lb
	}
	return Interval[T]{lb, until}
}

// ExtendTo grows the maximum of iv up to t if t is larger than the current
// maximum; it never shrinks the interval and never moves the minimum.
func (iv Interval[T]) ExtendTo(t T) Interval[T] {
	if t > iv.until {
		return Interval[T]{iv.from, t}
	}
	return iv
}

// IntervalLookup buckets intervals into fixed-width time slots, filing each
// interval under every slot it spans, so that candidate intervals
// overlapping a query point can be found without a linear scan.
// X is the payload carried alongside each interval (e.g. a job index).
type IntervalLookup[T Number, X any] struct {
	bucketWidth T
	buckets     map[T][]lookupEntry[T, X]
}

type lookupEntry[T Number, X any] struct {
	iv      Interval[T]
	payload X
}

// NewIntervalLookup builds an index bucketing by bucketWidth; a width of 0
// or less is rejected, since bucketOf divides by the width and Insert
// steps through buckets by it.
func NewIntervalLookup[T Number, X any](bucketWidth T) *IntervalLookup[T, X] {
	if bucketWidth <= 0 {
		panic("NewIntervalLookup: bucketWidth must be positive")
	}
	return &IntervalLookup[T, X]{
		bucketWidth: bucketWidth,
		buckets:     make(map[T][]lookupEntry[T, X]),
	}
}

func (l *IntervalLookup[T, X]) bucketOf(t T) T {
	if t < 0 {
		// time values in this engine are never negative; guard rather than
		// silently misbucket if that ever stops being true.
		panic("IntervalLookup: negative time value")
	}
	return (t / l.bucketWidth) * l.bucketWidth
}

// Insert adds payload under iv, filing it into every bucket iv spans.
func (l *IntervalLookup[T, X]) Insert(iv Interval[T], payload X) {
	entry := lookupEntry[T, X]{iv, payload}
	for b := l.bucketOf(iv.Min()); b <= iv.Max(); b += l.bucketWidth {
		l.buckets[b] = append(l.buckets[b], entry)
	}
}

// Lookup returns every payload whose interval intersects t.
func (l *IntervalLookup[T, X]) Lookup(t T) []X {
	bucket := l.buckets[l.bucketOf(t)]
	out := make([]X, 0, len(bucket))
	for _, e := range bucket {
		if e.iv.Contains(t) {
			out = append(out, e.payload)
		}
	}
	return out
}
