package npsched

// AbortAction describes an external cancellation of a running job: once
// the clock is certainly past Trigger, the job is pulled off the core and
// Cleanup time is spent tearing it down instead of letting Cost run to
// completion. Aborts are only ever applied on the uniprocessor core — see
// DESIGN.md for why the global engine does not interpret them.
type AbortAction[T Number] struct {
	Job     JobID
	Trigger Interval[T]
	Cleanup Interval[T]
}
