package npsched

import "time"

// Options tunes how Explore runs. The zero value is usable: no timeout,
// no depth cap, not naive, sequential, no graph collection.
type Options struct {
	// Timeout bounds wall-clock exploration time; zero means unlimited.
	Timeout time.Duration
	// MaxDepth caps the number of dispatch layers explored; zero means
	// unlimited (bounded naturally by the number of jobs).
	MaxDepth int
	// EarlyExit stops exploration as soon as a single certain deadline
	// miss is found, rather than exploring the full graph for stats.
	EarlyExit bool
	// BeNaive disables state merging in whichever engine runs, exploring
	// every successor as its own state. It never changes which engine
	// runs or the schedulability verdict it reaches; it exists as a
	// baseline to check that merging isn't losing accuracy.
	BeNaive bool
	// NumBuckets is a sizing hint for IntervalLookup tables; nothing in
	// this module reads it, and the exploration loop ignores it.
	NumBuckets int
	// CollectGraph retains every visited state and edge for diagnostics
	// instead of freeing each depth layer once its successors exist.
	CollectGraph bool
	// Parallel fans each depth layer out across NumWorkers goroutines.
	Parallel bool
	// NumWorkers is tri-state: unset means "use GOMAXPROCS".
	NumWorkers OptionalInt
}

// Result is everything Explore reports back about the problem it analyzed.
type Result[T Number] struct {
	Schedulable bool
	TimedOut    bool

	NumStates int
	NumEdges  int
	MaxWidth  int

	CPUTimeSec float64

	ResponseTimes map[JobID]Interval[T]

	// Graph is nil unless Options.CollectGraph was set.
	Graph *Graph
}

// Explore is the single engine entry point: it dispatches to the
// uniprocessor or the global (multiprocessor) engine depending solely on
// the problem's processor count. Options.BeNaive tunes merging behavior
// within whichever engine is chosen; it does not affect this choice.
func Explore[T Number](problem *Problem[T], opts Options, iip IIP[T]) Result[T] {
	if problem.NumProcessors == 1 {
		return NewUniSpace(problem, opts, iip).Explore()
	}
	return NewGlobalSpace(problem, opts).Explore()
}
