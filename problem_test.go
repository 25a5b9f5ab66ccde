package npsched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mkJob(task, job int, rMin, rMax, cMin, cMax, deadline float64, prio int64) Job[float64] {
	return NewJob(JobID{task, job}, NewInterval(rMin, rMax), NewInterval(cMin, cMax), deadline, prio)
}

func TestNewProblemRejectsZeroProcessors(t *testing.T) {
	jobs := []Job[float64]{mkJob(1, 1, 0, 0, 1, 1, 10, 1)}
	_, err := NewProblem(jobs, nil, nil, 0)
	assert.ErrorIs(t, err, ErrNoProcessors)
}

func TestNewProblemRejectsUnknownPrecedenceRef(t *testing.T) {
	jobs := []Job[float64]{mkJob(1, 1, 0, 0, 1, 1, 10, 1)}
	prec := []Precedence{{From: JobID{1, 1}, To: JobID{9, 9}}}
	_, err := NewProblem(jobs, prec, nil, 1)
	assert.ErrorIs(t, err, ErrUnknownJobReference)
}

func TestNewProblemRejectsAbortBeforeArrival(t *testing.T) {
	jobs := []Job[float64]{mkJob(1, 1, 5, 5, 1, 1, 10, 1)}
	aborts := []AbortAction[float64]{{
		Job:     JobID{1, 1},
		Trigger: NewInterval(0.0, 1.0),
		Cleanup: NewInterval(0.0, 1.0),
	}}
	_, err := NewProblem(jobs, nil, aborts, 1)
	assert.ErrorIs(t, err, ErrInvalidAbort)
}

func TestProblemPredecessorsAndAbortFor(t *testing.T) {
	jobs := []Job[float64]{
		mkJob(1, 1, 0, 0, 1, 1, 10, 1),
		mkJob(1, 2, 0, 0, 1, 1, 10, 2),
	}
	prec := []Precedence{{From: JobID{1, 1}, To: JobID{1, 2}}}
	aborts := []AbortAction[float64]{{
		Job:     JobID{1, 2},
		Trigger: NewInterval(0.0, 1.0),
		Cleanup: NewInterval(0.0, 1.0),
	}}

	p, err := NewProblem(jobs, prec, aborts, 1)
	assert.NoError(t, err)

	preds := p.Predecessors(p.IndexOf(JobID{1, 2}))
	assert.Equal(t, []int{p.IndexOf(JobID{1, 1})}, preds)

	_, ok := p.AbortFor(p.IndexOf(JobID{1, 1}))
	assert.False(t, ok)

	a, ok := p.AbortFor(p.IndexOf(JobID{1, 2}))
	assert.True(t, ok)
	assert.Equal(t, JobID{1, 2}, a.Job)
}
