package npsched

import (
	"fmt"
	"sort"
)

// certainJob is one entry of a GlobalState's certain_jobs list: a job
// whose finish-time interval is still tight enough to matter when
// bounding future dispatch decisions.
type certainJob[T Number] struct {
	idx int
	iv  Interval[T]
}

// GlobalState is a node in the multiprocessor reachability graph: the
// availability interval of every core (sorted ascending by earliest
// availability, core 0 first), a short list of recently dispatched jobs
// whose finish times are still certain enough to tighten future bounds,
// and the set of jobs dispatched to reach this state.
type GlobalState[T Number] struct {
	coreAvail   []Interval[T]
	certainJobs []certainJob[T]
	scheduled   IndexSet
	key         uint64
}

// NewGlobalRootState returns the initial state: every core idle from
// time 0, nothing scheduled, no certain jobs yet.
func NewGlobalRootState[T Number](problem *Problem[T]) *GlobalState[T] {
	m := problem.NumProcessors
	avail := make([]Interval[T], m)
	for i := range avail {
		avail[i] = Singleton[T](0)
	}
	return &GlobalState[T]{
		coreAvail: avail,
		scheduled: NewIndexSet(),
	}
}

func (s *GlobalState[T]) Depth() int               { return s.scheduled.Size() }
func (s *GlobalState[T]) IsScheduled(idx int) bool  { return s.scheduled.Contains(idx) }
func (s *GlobalState[T]) Key() uint64               { return s.key }
func (s *GlobalState[T]) CoreAvail() []Interval[T]  { return s.coreAvail }

func (s *GlobalState[T]) certainFinish(idx int) (Interval[T], bool) {
	for _, cj := range s.certainJobs {
		if cj.idx == idx {
			return cj.iv, true
		}
	}
	return Interval[T]{}, false
}

func (s *GlobalState[T]) String() string {
	return fmt.Sprintf("depth=%d cores=%v key=%x", s.Depth(), s.coreAvail, s.key)
}

// canMergeWith reports whether s and other dispatch the same set of jobs
// and every core's availability interval overlaps pairwise, the
// multiprocessor analogue of the uniprocessor merge condition.
func (s *GlobalState[T]) canMergeWith(other *GlobalState[T]) bool {
	if s.key != other.key || !s.scheduled.Equals(other.scheduled) {
		return false
	}
	if len(s.coreAvail) != len(other.coreAvail) {
		return false
	}
	for i := range s.coreAvail {
		if s.coreAvail[i].Disjoint(other.coreAvail[i]) {
			return false
		}
	}
	return true
}

// mergeInto widens s in place to also cover other: each core's interval
// is unioned, and certain_jobs keeps only entries present (by index) in
// both, each widened to the union of the two observations.
func (s *GlobalState[T]) mergeInto(other *GlobalState[T]) {
	for i := range s.coreAvail {
		s.coreAvail[i].Widen(other.coreAvail[i])
	}

	var merged []certainJob[T]
	for _, cj := range s.certainJobs {
		if ov, ok := other.certainFinish(cj.idx); ok {
			cj.iv.Widen(ov)
			merged = append(merged, cj)
		}
	}
	s.certainJobs = merged
}

// withDispatch returns the successor state reached by dispatching idx
// (whose finish-time interval is [eft, lft], computed by the caller)
// from s, placing it on the earliest-available core (core 0, since
// coreAvail is kept sorted ascending).
func (s *GlobalState[T]) withDispatch(problem *Problem[T], idx int, est, eft, lft T) *GlobalState[T] {
	m := len(s.coreAvail)
	newAvail := make([]Interval[T], m)
	newAvail[0] = Interval[T]{eft, lft}
	for i := 1; i < m; i++ {
		// valid only because coreAvail is sorted and core 0 is always
		// the one just reassigned above; every other core's interval
		// can only have advanced to at least est by the time idx starts.
		newAvail[i] = Interval[T]{max(est, s.coreAvail[i].Min()), max(est, s.coreAvail[i].Max())}
	}
	sort.Slice(newAvail, func(a, b int) bool { return newAvail[a].Min() < newAvail[b].Min() })

	certain := make([]certainJob[T], 0, len(s.certainJobs)+1)
	preds := problem.Predecessors(idx)
	isPred := func(i int) bool {
		for _, p := range preds {
			if p == i {
				return true
			}
		}
		return false
	}
	for _, cj := range s.certainJobs {
		if isPred(cj.idx) && cj.iv.Max() > lft {
			cj.iv = Interval[T]{cj.iv.Min(), lft}
		}
		// drop entries that can no longer tighten any future bound: once
		// even the earliest core is past their certain finish, nothing
		// downstream will ever consult them again.
		if cj.iv.Max() <= newAvail[0].Min() {
			continue
		}
		certain = append(certain, cj)
	}
	certain = append(certain, certainJob[T]{idx, Interval[T]{eft, lft}})
	sort.Slice(certain, func(a, b int) bool { return certain[a].idx < certain[b].idx })

	return &GlobalState[T]{
		coreAvail:   newAvail,
		certainJobs: certain,
		scheduled:   s.scheduled.Add(idx),
		key:         s.key ^ problem.Jobs[idx].StableKey(),
	}
}
