package npsched

import (
	"github.com/sirupsen/logrus"
)

// UniSpace explores the reachability graph of a single-core,
// priority-driven, non-preemptive, work-conserving schedule under the
// given idle-insertion policy. Call Explore to run it to completion (or
// until a resource limit trips).
type UniSpace[T Number] struct {
	problem *Problem[T]
	opts    Options
	iip     IIP[T]
	log     logrus.FieldLogger

	rt       *Table[T]
	graph    *Graph
	clock    Stopwatch
	timedOut bool
	deadEnd  bool

	numStates, numEdges, maxWidth int
}

// NewUniSpace builds a uniprocessor state space. A nil iip is treated as
// NoneIIP.
func NewUniSpace[T Number](problem *Problem[T], opts Options, iip IIP[T]) *UniSpace[T] {
	if iip == nil {
		iip = NoneIIP[T]{}
	}
	sp := &UniSpace[T]{
		problem: problem,
		opts:    opts,
		iip:     iip,
		rt:      NewTable[T](),
		log:     logrus.WithField("engine", "uni"),
	}
	if opts.CollectGraph {
		sp.graph = NewGraph()
	}
	return sp
}

// Explore runs the BFS to completion, a dead end, a deadline miss (when
// EarlyExit is set), or a resource limit, whichever comes first.
func (sp *UniSpace[T]) Explore() Result[T] {
	sp.clock.Start()
	defer sp.clock.Stop()

	var layers [3][]*UniState[T]
	root := NewUniRootState(sp.problem)
	layers[0] = []*UniState[T]{root}
	sp.numStates = 1
	sp.maxWidth = 1
	if sp.graph != nil {
		sp.graph.AddNode(root.Key(), root.Depth())
	}

	foundDeadlineMiss := false

	depth := 0
	for len(layers[depth%3]) > 0 {
		if sp.cancelled(depth) {
			sp.timedOut = true
			break
		}

		cur := layers[depth%3]

		var next []*UniState[T]
		if sp.opts.Parallel {
			layerNext, edges, miss := sp.parallelExpandUni(cur, IntOr(sp.opts.NumWorkers, 0))
			next = layerNext
			sp.numEdges += edges
			if miss {
				foundDeadlineMiss = true
			}
		} else {
			buckets := make(map[uint64][]*UniState[T])
			for _, state := range cur {
				elig := sp.eligibleSuccessors(state)
				if len(elig) == 0 && state.Depth() < len(sp.problem.Jobs) {
					sp.deadEnd = true
					sp.log.WithField("depth", state.Depth()).Debug("dead end, no eligible successor")
					continue
				}
				for _, idx := range elig {
					succ, miss := sp.dispatch(state, idx)
					if miss {
						foundDeadlineMiss = true
					}
					sp.numEdges++
					if sp.graph != nil {
						sp.graph.AddEdge(state.Key(), succ.Key(), idx)
					}
					sp.mergeOrAppend(buckets, succ)
				}
			}
			next = flattenBuckets(buckets)
		}

		if sp.opts.EarlyExit && foundDeadlineMiss {
			break
		}

		sp.numStates += len(next)
		if len(next) > sp.maxWidth {
			sp.maxWidth = len(next)
		}
		if sp.graph != nil {
			for _, s := range next {
				sp.graph.AddNode(s.Key(), s.Depth())
			}
		}
		layers[(depth+1)%3] = next
		layers[depth%3] = nil // arena-style free; unreachable once the next layer exists
		depth++
	}

	schedulable := !sp.timedOut && !sp.deadEnd && !foundDeadlineMiss

	return Result[T]{
		Schedulable:   schedulable,
		TimedOut:      sp.timedOut,
		NumStates:     sp.numStates,
		NumEdges:      sp.numEdges,
		MaxWidth:      sp.maxWidth,
		CPUTimeSec:    sp.clock.Seconds(),
		ResponseTimes: sp.rt.AsMap(),
		Graph:         sp.graph,
	}
}

func (sp *UniSpace[T]) cancelled(depth int) bool {
	if sp.opts.MaxDepth > 0 && depth >= sp.opts.MaxDepth {
		return true
	}
	if sp.opts.Timeout > 0 && sp.clock.Seconds() > sp.opts.Timeout.Seconds() {
		return true
	}
	return false
}

// eligibleSuccessors returns the indices of every job that could be the
// next one dispatched from state: not yet scheduled, all predecessors
// satisfied, and not provably preceded by some other not-yet-scheduled
// higher-priority or certainly-pending job. The scan is windowed to jobs
// whose earliest arrival falls at or before the state's next release
// horizon, since nothing further out can satisfy potentiallyNext anyway.
func (sp *UniSpace[T]) eligibleSuccessors(state *UniState[T]) []int {
	upto := max(sp.nextCertainJobRelease(state), state.finishRange.Max())

	var out []int
	for idx := range sp.problem.Jobs {
		if sp.problem.Jobs[idx].Arrival().Min() > upto {
			continue
		}
		if state.IsScheduled(idx) {
			continue
		}
		if !sp.ready(state, idx) {
			continue
		}
		if !sp.potentiallyNext(state, idx) {
			continue
		}
		out = append(out, idx)
	}
	return out
}

func (sp *UniSpace[T]) ready(state *UniState[T], idx int) bool {
	for _, p := range sp.problem.Predecessors(idx) {
		if !state.IsScheduled(p) {
			return false
		}
	}
	return true
}

// potentiallyNext checks that idx's own earliest start does not exceed
// the latest start bound computed by latestStartBound, and — when idx
// hasn't certainly arrived by the core's latest possible finish time —
// that work conservation doesn't rule it out: some admissible schedule
// must exist where the core sits idle waiting for idx rather than
// picking up something else that's certainly already pending.
func (sp *UniSpace[T]) potentiallyNext(state *UniState[T], idx int) bool {
	j := sp.problem.Jobs[idx]
	tS := max(state.finishRange.Min(), j.Arrival().Min())

	if state.finishRange.Max() < j.Arrival().Min() {
		if sp.existsCertainlyPendingJob(state) {
			return false
		}
		if sp.nextCertainJobRelease(state) < j.Arrival().Min() {
			return false
		}
	}

	ell := sp.latestStartBound(state, idx, tS)
	return tS <= ell
}

// priorityEligibleAt reports whether no not-yet-scheduled job of higher
// priority than idx could already be certainly released by t.
func (sp *UniSpace[T]) priorityEligibleAt(state *UniState[T], idx int, t T) bool {
	j := sp.problem.Jobs[idx]
	for i, h := range sp.problem.Jobs {
		if i == idx || state.IsScheduled(i) {
			continue
		}
		if !h.HigherPriorityThan(j) {
			continue
		}
		if h.Arrival().Max() <= t {
			return false
		}
	}
	return true
}

// iipEligibleAt reports whether idx may still legally dispatch at t under
// the active idle-insertion policy.
func (sp *UniSpace[T]) iipEligibleAt(state *UniState[T], idx int, t T) bool {
	if !sp.iip.CanBlock() {
		return true
	}
	return t <= sp.iip.LatestStart(sp, state, idx, t)
}

// existsCertainlyPendingJob reports whether some not-yet-scheduled job is
// certainly released, and priority- and IIP-eligible, by the state's
// earliest finish time — i.e. the core could never legitimately idle
// right now, because something is guaranteed to already be waiting.
func (sp *UniSpace[T]) existsCertainlyPendingJob(state *UniState[T]) bool {
	tsMin := state.finishRange.Min()
	for i := range sp.problem.Jobs {
		if state.IsScheduled(i) {
			continue
		}
		if sp.problem.Jobs[i].Arrival().Max() > tsMin {
			continue
		}
		if sp.iip.CanBlock() && !sp.priorityEligibleAt(state, i, tsMin) {
			continue
		}
		if !sp.iipEligibleAt(state, i, tsMin) {
			continue
		}
		return true
	}
	return false
}

// nextCertainJobRelease finds the earliest time, at or after the state's
// earliest finish time, by which some not-yet-scheduled job is certainly
// released, restricted to jobs that would still be IIP-eligible at the
// moment of that certain release (and, when the IIP can block,
// priority-eligible too). Infinity if no such job exists.
func (sp *UniSpace[T]) nextCertainJobRelease(state *UniState[T]) T {
	tsMin := state.finishRange.Min()
	best := Infinity[T]()
	for i := range sp.problem.Jobs {
		if state.IsScheduled(i) {
			continue
		}
		rel := sp.problem.Jobs[i].Arrival().Max()
		if rel < tsMin {
			continue
		}
		if !sp.iipEligibleAt(state, i, rel) {
			continue
		}
		if sp.iip.CanBlock() && !sp.priorityEligibleAt(state, i, rel) {
			continue
		}
		if rel < best {
			best = rel
		}
	}
	return best
}

// latestStartBound computes ℓ = min(t_s', t_R, t_I): the latest time the
// core could still be idle and have idx dispatch next and remain a valid
// admissible schedule.
func (sp *UniSpace[T]) latestStartBound(state *UniState[T], idx int, tS T) T {
	j := sp.problem.Jobs[idx]

	tsPrime := max(state.finishRange.Max(), j.Arrival().Max())

	tR := Infinity[T]()
	for i, h := range sp.problem.Jobs {
		if i == idx || state.IsScheduled(i) {
			continue
		}
		if !h.HigherPriorityThan(j) {
			continue
		}
		certain := h.Arrival().Max() - Epsilon[T]()
		if certain < tR {
			tR = certain
		}
	}

	tI := Infinity[T]()
	if sp.iip.CanBlock() {
		tI = sp.iip.LatestStart(sp, state, idx, tS)
	}

	return min(tsPrime, min(tR, tI))
}

// dispatch builds the successor state reached by dispatching idx from
// state, applying abort semantics if idx carries one, and folds the
// resulting finish-time interval into the response-time table. The bool
// return reports whether this dispatch constitutes a certain deadline
// miss.
func (sp *UniSpace[T]) dispatch(state *UniState[T], idx int) (*UniState[T], bool) {
	return sp.dispatchInto(state, idx, sp.rt)
}

// dispatchInto is dispatch, recording the finish-time observation into rt
// instead of sp.rt. The sequential path calls dispatch (which just uses
// sp.rt); the parallel path gives each worker its own table so they never
// contend on sp.rt, folding the results together after the layer.
func (sp *UniSpace[T]) dispatchInto(state *UniState[T], idx int, rt *Table[T]) (*UniState[T], bool) {
	j := sp.problem.Jobs[idx]

	tS := max(state.finishRange.Min(), j.Arrival().Min())
	e := tS + j.Cost().Min()
	ell := sp.latestStartBound(state, idx, tS)
	L := ell + j.Cost().Max()

	finish := Interval[T]{e, L}

	if abort, ok := sp.problem.AbortFor(idx); ok {
		if state.finishRange.Min() >= abort.Trigger.Min() {
			// the job never genuinely got to run before the abort
			// trigger was certainly already in effect.
			finish = state.finishRange
		} else {
			finish = Interval[T]{
				min(e, abort.Trigger.Min()+abort.Cleanup.Min()),
				min(L, abort.Trigger.Max()+abort.Cleanup.Max()),
			}
		}
	}

	deadlineMiss := rt.Update(j.ID(), finish, j.Deadline())

	succ := &UniState[T]{
		finishRange: finish,
		scheduled:   state.scheduled.Add(idx),
		key:         state.key ^ j.StableKey(),
	}
	succ.earliestPendingRelease = earliestReleaseNotIn(sp.problem, succ.scheduled)

	return succ, deadlineMiss
}

// mergeOrAppend folds succ into a merge-compatible existing state under
// the same key, or appends it as a new one. With Options.BeNaive set,
// merging is skipped entirely and every successor becomes its own state.
func (sp *UniSpace[T]) mergeOrAppend(buckets map[uint64][]*UniState[T], succ *UniState[T]) {
	if !sp.opts.BeNaive {
		for _, existing := range buckets[succ.key] {
			if existing.canMergeWith(succ) {
				existing.mergeInto(succ)
				return
			}
		}
	}
	buckets[succ.key] = append(buckets[succ.key], succ)
}

func flattenBuckets[T Number](buckets map[uint64][]*UniState[T]) []*UniState[T] {
	n := 0
	for _, b := range buckets {
		n += len(b)
	}
	out := make([]*UniState[T], 0, n)
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}
