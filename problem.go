package npsched

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the validation-failure kinds the engine
// itself can raise (kinds 2-3 of the error taxonomy; kind 1, malformed
// input files, belongs to the external loader and never reaches here).
var (
	ErrUnknownJobReference = errors.New("npsched: reference to a job not present in the problem")
	ErrInvalidAbort        = errors.New("npsched: abort trigger window starts before the job's arrival window")
	ErrNoProcessors        = errors.New("npsched: num_processors must be at least 1")
)

// Problem is the validated input to Explore: the full job set, the
// precedence DAG over it, any abort actions, and the processor count.
// Nothing in Problem is ever mutated by the engine.
type Problem[T Number] struct {
	Jobs          []Job[T]
	Precedence    []Precedence
	Aborts        []AbortAction[T]
	NumProcessors int

	indexOf map[JobID]int
}

// NewProblem validates refs and abort windows and returns a ready-to-run
// Problem, or one of the sentinel errors above wrapped with the offending
// reference.
func NewProblem[T Number](jobs []Job[T], prec []Precedence, aborts []AbortAction[T], numProcessors int) (*Problem[T], error) {
	if numProcessors < 1 {
		return nil, ErrNoProcessors
	}

	idx := make(map[JobID]int, len(jobs))
	for i, j := range jobs {
		idx[j.id] = i
	}

	for _, e := range prec {
		if _, ok := idx[e.From]; !ok {
			return nil, fmt.Errorf("%w: precedence from %s", ErrUnknownJobReference, e.From)
		}
		if _, ok := idx[e.To]; !ok {
			return nil, fmt.Errorf("%w: precedence to %s", ErrUnknownJobReference, e.To)
		}
	}

	for _, a := range aborts {
		i, ok := idx[a.Job]
		if !ok {
			return nil, fmt.Errorf("%w: abort for %s", ErrUnknownJobReference, a.Job)
		}
		if a.Trigger.Min() < jobs[i].arrival.Min() || a.Trigger.Max() < jobs[i].arrival.Max() {
			return nil, fmt.Errorf("%w: %s trigger=%s arrival=%s", ErrInvalidAbort, a.Job, a.Trigger, jobs[i].arrival)
		}
	}

	return &Problem[T]{
		Jobs:          jobs,
		Precedence:    prec,
		Aborts:        aborts,
		NumProcessors: numProcessors,
		indexOf:       idx,
	}, nil
}

// IndexOf returns the position of id within Jobs, or -1 if absent.
func (p *Problem[T]) IndexOf(id JobID) int {
	if i, ok := p.indexOf[id]; ok {
		return i
	}
	return -1
}

// Predecessors returns the indices of every job that must finish before
// idx becomes ready.
func (p *Problem[T]) Predecessors(idx int) []int {
	id := p.Jobs[idx].id
	var out []int
	for _, e := range p.Precedence {
		if e.To == id {
			out = append(out, p.IndexOf(e.From))
		}
	}
	return out
}

// AbortFor returns the abort action on idx, if any.
func (p *Problem[T]) AbortFor(idx int) (AbortAction[T], bool) {
	id := p.Jobs[idx].id
	for _, a := range p.Aborts {
		if a.Job == id {
			return a, true
		}
	}
	return AbortAction[T]{}, false
}
