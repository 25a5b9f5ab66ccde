package npsched

import (
	"github.com/sirupsen/logrus"
)

// GlobalSpace explores the reachability graph of an m-core,
// priority-driven, non-preemptive, work-conserving global schedule.
// Idle-insertion policies and abort actions are uniprocessor-only
// extensions (see DESIGN.md); GlobalSpace always runs as if NoneIIP were
// in effect and ignores Problem.Aborts.
type GlobalSpace[T Number] struct {
	problem *Problem[T]
	opts    Options
	log     logrus.FieldLogger

	rt       *Table[T]
	graph    *Graph
	clock    Stopwatch
	timedOut bool
	deadEnd  bool
}

// NewGlobalSpace builds a multiprocessor state space.
func NewGlobalSpace[T Number](problem *Problem[T], opts Options) *GlobalSpace[T] {
	sp := &GlobalSpace[T]{
		problem: problem,
		opts:    opts,
		rt:      NewTable[T](),
		log:     logrus.WithField("engine", "global"),
	}
	if opts.CollectGraph {
		sp.graph = NewGraph()
	}
	return sp
}

func (sp *GlobalSpace[T]) Explore() Result[T] {
	sp.clock.Start()
	defer sp.clock.Stop()

	var layers [3][]*GlobalState[T]
	root := NewGlobalRootState(sp.problem)
	layers[0] = []*GlobalState[T]{root}
	numStates, numEdges, maxWidth := 1, 0, 1
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

		var next []*GlobalState[T]
		if sp.opts.Parallel {
			layerNext, edges, miss := sp.parallelExpandGlobal(cur, IntOr(sp.opts.NumWorkers, 0))
			next = layerNext
			numEdges += edges
			if miss {
				foundDeadlineMiss = true
			}
		} else {
			buckets := make(map[uint64][]*GlobalState[T])
			for _, state := range cur {
				candidates := sp.readyCandidates(state)
				if len(candidates) == 0 && state.Depth() < len(sp.problem.Jobs) {
					sp.deadEnd = true
					continue
				}
				for _, idx := range candidates {
					succ, miss := sp.dispatch(state, idx)
					if miss {
						foundDeadlineMiss = true
					}
					if sp.checkForDeadlineMisses(succ) {
						foundDeadlineMiss = true
					}
					numEdges++
					if sp.graph != nil {
						sp.graph.AddEdge(state.Key(), succ.Key(), idx)
					}
					sp.mergeOrAppend(buckets, succ)
				}
			}
			next = flattenGlobalBuckets(buckets)
		}

		if sp.opts.EarlyExit && foundDeadlineMiss {
			break
		}

		numStates += len(next)
		if len(next) > maxWidth {
			maxWidth = len(next)
		}
		if sp.graph != nil {
			for _, s := range next {
				sp.graph.AddNode(s.Key(), s.Depth())
			}
		}
		layers[(depth+1)%3] = next
		layers[depth%3] = nil
		depth++
	}

	schedulable := !sp.timedOut && !sp.deadEnd && !foundDeadlineMiss

	return Result[T]{
		Schedulable:   schedulable,
		TimedOut:      sp.timedOut,
		NumStates:     numStates,
		NumEdges:      numEdges,
		MaxWidth:      maxWidth,
		CPUTimeSec:    sp.clock.Seconds(),
		ResponseTimes: sp.rt.AsMap(),
		Graph:         sp.graph,
	}
}

func (sp *GlobalSpace[T]) cancelled(depth int) bool {
	if sp.opts.MaxDepth > 0 && depth >= sp.opts.MaxDepth {
		return true
	}
	if sp.opts.Timeout > 0 && sp.clock.Seconds() > sp.opts.Timeout.Seconds() {
		return true
	}
	return false
}

// readyTime bounds when idx could become ready to dispatch: the later of
// its own arrival window and every predecessor's finish-time window,
// taken from the state's certain_jobs list when available and falling
// back to the global response-time table (which defaults to [0, inf)
// for a job never yet observed on any path).
func (sp *GlobalSpace[T]) readyTime(state *GlobalState[T], idx int) Interval[T] {
	j := sp.problem.Jobs[idx]
	readyFrom, readyUntil := j.Arrival().Min(), j.Arrival().Max()
	for _, p := range sp.problem.Predecessors(idx) {
		var pred Interval[T]
		if iv, ok := state.certainFinish(p); ok {
			pred = iv
		} else {
			pred = sp.rt.FinishTimes(sp.problem.Jobs[p].ID())
		}
		if pred.Min() > readyFrom {
			readyFrom = pred.Min()
		}
		if pred.Max() > readyUntil {
			readyUntil = pred.Max()
		}
	}
	return Interval[T]{readyFrom, readyUntil}
}

// readyCandidates enumerates the jobs that could legally be dispatched
// next: not yet scheduled, precedence-ready, and released soon enough to
// matter. "Soon enough" is the work-conserving horizon t_wc =
// max(t_core, t_job) — t_core being the latest time by which the soonest
// core is certainly free, t_job the earliest time by which some ready
// job is certainly released. A job arriving after t_wc could never be
// the one picked up at this step without the core idling needlessly.
// startBounds.est > lst is also rejected here, per the same successor
// contract.
func (sp *GlobalSpace[T]) readyCandidates(state *GlobalState[T]) []int {
	tWC := max(state.coreAvail[0].Max(), sp.tJob(state))

	var out []int
	for idx := range sp.problem.Jobs {
		if state.IsScheduled(idx) {
			continue
		}
		if !sp.ready(state, idx) {
			continue
		}
		if sp.problem.Jobs[idx].Arrival().Min() > tWC {
			continue
		}
		est, lst := sp.startBounds(state, idx)
		if est > lst {
			continue
		}
		out = append(out, idx)
	}
	return out
}

// tJob is the earliest time by which some not-yet-scheduled, ready job
// is certainly released — infinity if no ready job remains.
func (sp *GlobalSpace[T]) tJob(state *GlobalState[T]) T {
	best := Infinity[T]()
	for idx := range sp.problem.Jobs {
		if state.IsScheduled(idx) {
			continue
		}
		if !sp.ready(state, idx) {
			continue
		}
		if rt := sp.readyTime(state, idx).Max(); rt < best {
			best = rt
		}
	}
	return best
}

func (sp *GlobalSpace[T]) ready(state *GlobalState[T], idx int) bool {
	for _, p := range sp.problem.Predecessors(idx) {
		if !state.IsScheduled(p) {
			return false
		}
	}
	return true
}

// startBounds computes [est, lst] per the successor contract: est is
// bounded by the soonest core's earliest availability and the job's own
// ready time; lst is the work-conserving horizon t_wc, further capped at
// the latest ready time of any strictly-higher-priority, not-yet-
// scheduled, ready job (bounded below by est), less an epsilon. A
// higher-priority job that is certainly ready by est therefore pushes lst
// below est, and the job cannot be the next one dispatched.
func (sp *GlobalSpace[T]) startBounds(state *GlobalState[T], idx int) (est, lst T) {
	j := sp.problem.Jobs[idx]
	ready := sp.readyTime(state, idx)

	tCore := state.coreAvail[0].Max()
	tWC := max(tCore, sp.tJob(state))

	est = max(ready.Min(), state.coreAvail[0].Min())

	tHP := Infinity[T]()
	for i, h := range sp.problem.Jobs {
		if i == idx || state.IsScheduled(i) || !h.HigherPriorityThan(j) {
			continue
		}
		if !sp.ready(state, i) {
			continue
		}
		hReady := sp.readyTime(state, i)
		cand := max(hReady.Max(), est) - Epsilon[T]()
		if cand < tHP {
			tHP = cand
		}
	}
	lst = min(tWC, tHP)
	return est, lst
}

func (sp *GlobalSpace[T]) dispatch(state *GlobalState[T], idx int) (*GlobalState[T], bool) {
	return sp.dispatchInto(state, idx, sp.rt)
}

// dispatchInto is dispatch, recording the finish-time observation into rt
// instead of sp.rt (see UniSpace.dispatchInto).
func (sp *GlobalSpace[T]) dispatchInto(state *GlobalState[T], idx int, rt *Table[T]) (*GlobalState[T], bool) {
	j := sp.problem.Jobs[idx]
	est, lst := sp.startBounds(state, idx)
	eft := est + j.Cost().Min()
	lft := lst + j.Cost().Max()

	deadlineMiss := rt.Update(j.ID(), Interval[T]{eft, lft}, j.Deadline())

	succ := state.withDispatch(sp.problem, idx, est, eft, lft)
	return succ, deadlineMiss
}

// checkForDeadlineMisses scans every job still unscheduled in state: if
// any has a deadline before the earliest time any core becomes free
// again, it can no longer possibly be dispatched in time.
func (sp *GlobalSpace[T]) checkForDeadlineMisses(state *GlobalState[T]) bool {
	return sp.checkForDeadlineMissesInto(state, sp.rt)
}

func (sp *GlobalSpace[T]) checkForDeadlineMissesInto(state *GlobalState[T], rt *Table[T]) bool {
	earliestFree := state.coreAvail[0].Min()
	found := false
	for idx, j := range sp.problem.Jobs {
		if state.IsScheduled(idx) {
			continue
		}
		if j.Deadline() < earliestFree {
			rt.Update(j.ID(), Interval[T]{earliestFree, Infinity[T]()}, j.Deadline())
			found = true
		}
	}
	return found
}

// mergeOrAppend folds succ into a merge-compatible existing state under
// the same key, or appends it as a new one. With Options.BeNaive set,
// merging is skipped entirely and every successor becomes its own state.
func (sp *GlobalSpace[T]) mergeOrAppend(buckets map[uint64][]*GlobalState[T], succ *GlobalState[T]) {
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

func flattenGlobalBuckets[T Number](buckets map[uint64][]*GlobalState[T]) []*GlobalState[T] {
	n := 0
	for _, b := range buckets {
		n += len(b)
	}
	out := make([]*GlobalState[T], 0, n)
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}
