package npsched

import "github.com/markphelps/optional"

// OptionalInt distinguishes "not supplied" from "supplied" for run-level
// knobs like worker count. For Options.NumWorkers an unset value and an
// explicit zero behave alike: IntOr falls back to 0, which the parallel
// expansion reads as GOMAXPROCS workers.
type OptionalInt = optional.Int

// SomeInt wraps a present value.
func SomeInt(v int) OptionalInt { return optional.NewInt(v) }

// IntOr returns the wrapped value, or def if it was never set.
func IntOr(o OptionalInt, def int) int {
	v, err := o.Get()
	if err == nil {
		return v
	}
	return def
}
