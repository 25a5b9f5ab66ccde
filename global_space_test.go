package npsched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalSpaceFigure1SchedulableOnTwoCores(t *testing.T) {
	problem, err := NewProblem(figure1Jobs(), nil, nil, 2)
	assert.NoError(t, err)

	result := Explore[float64](problem, Options{}, nil)
	assert.True(t, result.Schedulable)
}

// TestGlobalSpaceBeNaiveStaysOnTheGlobalEngine checks that BeNaive only
// disables merging, never the engine choice: a problem with more than
// one processor still runs on GlobalSpace (never collapsing to a single
// core), stays schedulable, and produces at least as many explored
// states as the merging run, with response-time intervals no wider than
// the merging run's per spec's round-trip property ("response-time
// intervals with merging are a superset of those without merging").
func TestGlobalSpaceBeNaiveStaysOnTheGlobalEngine(t *testing.T) {
	jobs := figure1Jobs()

	problemMerged, err := NewProblem(jobs, nil, nil, 2)
	assert.NoError(t, err)
	merged := Explore[float64](problemMerged, Options{}, nil)
	assert.True(t, merged.Schedulable)

	problemNaive, err := NewProblem(jobs, nil, nil, 2)
	assert.NoError(t, err)
	naive := Explore[float64](problemNaive, Options{BeNaive: true}, nil)
	assert.True(t, naive.Schedulable)
	assert.GreaterOrEqual(t, naive.NumStates, merged.NumStates)

	for id, mergedFinish := range merged.ResponseTimes {
		naiveFinish, ok := naive.ResponseTimes[id]
		assert.True(t, ok)
		assert.LessOrEqual(t, mergedFinish.Min(), naiveFinish.Min())
		assert.GreaterOrEqual(t, mergedFinish.Max(), naiveFinish.Max())
	}
}

func TestGlobalSpaceRespectsPrecedence(t *testing.T) {
	jobs := []Job[float64]{
		mkJob(1, 1, 0, 0, 5, 5, 100, 1),
		mkJob(2, 1, 0, 0, 5, 5, 100, 2),
	}
	prec := []Precedence{{From: JobID{1, 1}, To: JobID{2, 1}}}
	problem, err := NewProblem(jobs, prec, nil, 2)
	assert.NoError(t, err)

	result := Explore[float64](problem, Options{}, nil)
	assert.True(t, result.Schedulable)

	f1 := result.ResponseTimes[JobID{1, 1}]
	f2 := result.ResponseTimes[JobID{2, 1}]
	assert.LessOrEqual(t, f1.Max(), f2.Min())
}
