package npsched

// Table tracks the best- and worst-case finish-time interval observed for
// each job across every state the exploration has visited. It widens
// monotonically: once a job's interval is recorded, later observations
// can only grow it, never shrink it, which is what makes it sound as an
// over-approximation of every admissible schedule's finish time.
type Table[T Number] struct {
	finish map[JobID]Interval[T]
}

// NewTable returns an empty response-time table.
func NewTable[T Number]() *Table[T] {
	return &Table[T]{finish: make(map[JobID]Interval[T])}
}

// Update widens the recorded finish-time interval of id to also cover
// observed. Returns true if this observation was a genuine deadline miss:
// observed's latest point is past deadline plus the scalar's miss
// tolerance.
func (t *Table[T]) Update(id JobID, observed Interval[T], deadline T) (deadlineMiss bool) {
	if cur, ok := t.finish[id]; ok {
		cur.Widen(observed)
		t.finish[id] = cur
	} else {
		t.finish[id] = observed
	}
	return observed.Max() > deadline+MissTolerance[T]()
}

// FinishTimes returns the recorded finish-time interval for id, defaulting
// to [0, Infinity) when the job was never observed (i.e. in a result
// where that job never actually got scheduled on any explored path —
// which in a schedulable result never happens for a job present in the
// problem).
func (t *Table[T]) FinishTimes(id JobID) Interval[T] {
	if iv, ok := t.finish[id]; ok {
		return iv
	}
	return Unbounded[T]()
}

// ResponseTime converts a finish-time interval into a response-time
// interval given the job's arrival window, per BCRT=max(0,BCCT-r_min),
// WCRT=WCCT-r_min.
func ResponseTime[T Number](finish Interval[T], arrival Interval[T]) Interval[T] {
	bcrt := finish.Min() - arrival.Min()
	if bcrt < 0 {
		bcrt = 0
	}
	wcrt := finish.Max() - arrival.Min()
	return Interval[T]{bcrt, wcrt}
}

// Merge folds other into t, widening every job present in either table.
// Used to fold per-worker tables back into the shared one after a
// parallel depth layer (see parallel.go).
func (t *Table[T]) Merge(other *Table[T]) {
	for id, iv := range other.finish {
		if cur, ok := t.finish[id]; ok {
			cur.Widen(iv)
			t.finish[id] = cur
		} else {
			t.finish[id] = iv
		}
	}
}

// AsMap snapshots the table into a plain map, the shape exposed on Result.
func (t *Table[T]) AsMap() map[JobID]Interval[T] {
	out := make(map[JobID]Interval[T], len(t.finish))
	for id, iv := range t.finish {
		out[id] = iv
	}
	return out
}

// Stats summarizes the spread of worst-case response times across every
// job in the table, using the running-mean/variance accumulator
// Distribution.
func (t *Table[T]) Stats(arrivalOf func(JobID) Interval[T]) Distribution {
	var d Distribution
	for id, finish := range t.finish {
		rt := ResponseTime(finish, arrivalOf(id))
		d.Update(float64(rt.Max()))
	}
	return d
}
