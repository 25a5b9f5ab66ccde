package npsched

import "sort"

// IIP (idle-insertion policy) is a pluggable rule that may force the core
// to stay idle past a job's earliest possible dispatch point, shrinking
// the set of schedules the engine has to consider without ever ruling out
// an admissible one. The zero-cost default is None: every eligible job
// may dispatch the moment it's ready.
type IIP[T Number] interface {
	// CanBlock reports whether this policy ever delays dispatch at all;
	// None's fast path skips the per-job latest-start computation
	// entirely when this is false.
	CanBlock() bool

	// LatestStart returns the latest time at which job idx may still
	// legally start in state, given the core is otherwise idle at t.
	// Only called when CanBlock() is true.
	LatestStart(space *UniSpace[T], state *UniState[T], idx int, t T) T
}

// NoneIIP never blocks dispatch.
type NoneIIP[T Number] struct{}

func (NoneIIP[T]) CanBlock() bool { return false }

func (NoneIIP[T]) LatestStart(_ *UniSpace[T], _ *UniState[T], _ int, _ T) T {
	return Infinity[T]()
}

// PrecautiousRMIIP withholds a lower-priority job as long as any
// higher-priority job might still be released and could still make its
// deadline if dispatched immediately after. It never withholds the
// globally highest-priority job — there being nothing higher to protect,
// delaying it could only lose schedules.
type PrecautiousRMIIP[T Number] struct{}

func (PrecautiousRMIIP[T]) CanBlock() bool { return true }

func (PrecautiousRMIIP[T]) LatestStart(space *UniSpace[T], state *UniState[T], idx int, t T) T {
	jobs := space.problem.Jobs
	j := jobs[idx]

	isTopPriority := true
	for i, h := range jobs {
		if i != idx && h.HigherPriorityThan(j) {
			isTopPriority = false
			break
		}
	}
	if isTopPriority {
		return Infinity[T]()
	}

	latest := Infinity[T]()
	for i, h := range jobs {
		if i == idx || !h.HigherPriorityThan(j) {
			continue
		}
		if state.scheduled.Contains(i) {
			continue
		}
		if h.Arrival().Max() <= t {
			// h is certainly already released; it can't be the thing
			// still threatening to preempt priority order later.
			continue
		}
		cand := h.Deadline() - h.Cost().Max() - j.Cost().Max()
		if cand < latest {
			latest = cand
		}
	}
	return latest
}

// CriticalWindowIIP withholds a job until every other task's next job
// that could still interfere within the current scheduling window has
// either been accounted for or is provably too far out to matter.
type CriticalWindowIIP[T Number] struct{}

func (CriticalWindowIIP[T]) CanBlock() bool { return true }

func (CriticalWindowIIP[T]) LatestStart(space *UniSpace[T], state *UniState[T], idx int, t T) T {
	jobs := space.problem.Jobs
	j := jobs[idx]

	type influencer struct {
		arrival  T
		deadline T
		maxCost  T
	}

	// one influencing (not-yet-scheduled, higher-priority) job per other
	// task: the earliest-arriving such job is the one whose window is
	// closest to the current scheduling window.
	perTask := make(map[int]influencer)

	collect := func(upTo T) {
		for i, h := range jobs {
			if i == idx || !h.HigherPriorityThan(j) || state.scheduled.Contains(i) {
				continue
			}
			if h.Arrival().Min() > upTo {
				continue
			}
			// keep the earliest-arriving not-yet-scheduled job per task
			// as that task's representative influencer.
			if cur, ok := perTask[h.ID().Task]; !ok || h.Arrival().Min() < cur.arrival {
				perTask[h.ID().Task] = influencer{h.Arrival().Min(), h.Deadline(), h.Cost().Max()}
			}
		}
	}

	// extend the lookahead window until including further releases
	// couldn't possibly tighten the bound any more: once the latest
	// deadline already collected plus its job's max cost falls before
	// the next uncollected release, nothing later can matter.
	lookahead := t
	for {
		collect(lookahead)
		next := Infinity[T]()
		for i, h := range jobs {
			if i == idx || !h.HigherPriorityThan(j) || state.scheduled.Contains(i) {
				continue
			}
			if h.Arrival().Min() > lookahead && h.Arrival().Min() < next {
				next = h.Arrival().Min()
			}
		}
		if next == Infinity[T]() {
			break
		}
		if len(perTask) == 0 {
			break
		}
		var latestDeadline, reach T
		first := true
		for _, inf := range perTask {
			if first || inf.deadline > latestDeadline {
				latestDeadline, reach = inf.deadline, inf.deadline+inf.maxCost
				first = false
			}
		}
		if reach < next {
			break
		}
		lookahead = next
	}

	influencers := make([]influencer, 0, len(perTask))
	for _, inf := range perTask {
		influencers = append(influencers, inf)
	}
	sort.Slice(influencers, func(a, b int) bool { return influencers[a].deadline < influencers[b].deadline })

	latest := Infinity[T]()
	for i := len(influencers) - 1; i >= 0; i-- {
		if influencers[i].deadline < latest {
			latest = influencers[i].deadline
		}
		latest -= influencers[i].maxCost
	}
	return latest - j.Cost().Max()
}
