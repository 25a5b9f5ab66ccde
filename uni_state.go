package npsched

import "fmt"

// UniState is a node in the uniprocessor reachability graph: the set of
// jobs dispatched on every path this state represents, the interval of
// times the core could have become free after the last dispatch, and the
// earliest time any still-pending job could possibly be released.
type UniState[T Number] struct {
	finishRange            Interval[T]
	scheduled              IndexSet
	earliestPendingRelease T
	key                    uint64
}

// NewUniRootState returns the initial state: nothing scheduled yet, the
// core idle from time 0.
func NewUniRootState[T Number](problem *Problem[T]) *UniState[T] {
	s := &UniState[T]{
		finishRange: Singleton[T](0),
		scheduled:   NewIndexSet(),
	}
	s.earliestPendingRelease = earliestReleaseNotIn(problem, s.scheduled)
	return s
}

func earliestReleaseNotIn[T Number](problem *Problem[T], scheduled IndexSet) T {
	earliest := Infinity[T]()
	for i, j := range problem.Jobs {
		if scheduled.Contains(i) {
			continue
		}
		if j.Arrival().Min() < earliest {
			earliest = j.Arrival().Min()
		}
	}
	return earliest
}

// Depth is the number of jobs dispatched to reach this state.
func (s *UniState[T]) Depth() int { return s.scheduled.Size() }

// IsScheduled reports whether job idx has been dispatched in this state.
func (s *UniState[T]) IsScheduled(idx int) bool { return s.scheduled.Contains(idx) }

// FinishRange is the interval of times the core could have become free.
func (s *UniState[T]) FinishRange() Interval[T] { return s.finishRange }

// Key is the XOR-fold of the stable keys of every scheduled job, used as
// the merge-candidate bucket key: two states with the same key were
// reached by dispatching the same set of jobs (modulo hash collision,
// ruled out by also comparing scheduled directly on merge).
func (s *UniState[T]) Key() uint64 { return s.key }

func (s *UniState[T]) String() string {
	return fmt.Sprintf("depth=%d finish=%s key=%x", s.Depth(), s.finishRange, s.key)
}

// canMergeWith reports whether s and other represent the same dispatch
// set with overlapping finish ranges, the condition under which they can
// be folded into one without losing precision (spec merge rule, §4.4).
func (s *UniState[T]) canMergeWith(other *UniState[T]) bool {
	return s.key == other.key && s.scheduled.Equals(other.scheduled) && s.finishRange.Intersects(other.finishRange)
}

// mergeInto widens s in place to also cover other. Callers must already
// have confirmed canMergeWith.
func (s *UniState[T]) mergeInto(other *UniState[T]) {
	s.finishRange.Widen(other.finishRange)
	if other.earliestPendingRelease < s.earliestPendingRelease {
		s.earliestPendingRelease = other.earliestPendingRelease
	}
}
