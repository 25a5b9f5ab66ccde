package npsched_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	. "npsched"
	"npsched/internal/genfixture"
)

// TestGeneratedFixtureExploresAndTracksStats exercises the one real path
// that touches gonum (genfixture.Generate) end to end: the sampled job set
// must build a valid Problem, run through the uniprocessor engine, and its
// response-time table's Stats must summarize a widening set of worst-case
// response times without panicking on an empty or degenerate table.
func TestGeneratedFixtureExploresAndTracksStats(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	jobs := genfixture.Generate(genfixture.Params{
		NumTasks:      3,
		JobsPerTask:   4,
		Period:        50,
		CostMean:      5,
		CostStdDev:    1,
		ArrivalJitter: 2,
		DeadlineSlack: 20,
	}, rng)
	assert.Len(t, jobs, 12)

	problem, err := NewProblem(jobs, nil, nil, 1)
	assert.NoError(t, err)

	result := Explore[float64](problem, Options{}, NoneIIP[float64]{})
	assert.NotEmpty(t, result.ResponseTimes)

	tbl := NewTable[float64]()
	for id, iv := range result.ResponseTimes {
		tbl.Update(id, iv, problem.Jobs[problem.IndexOf(id)].Deadline())
	}
	stats := tbl.Stats(func(id JobID) Interval[float64] {
		return problem.Jobs[problem.IndexOf(id)].Arrival()
	})
	assert.Equal(t, len(result.ResponseTimes), stats.Count())
	assert.GreaterOrEqual(t, stats.Avg(), 0.0)
}

func TestDistributionTracksRunningStats(t *testing.T) {
	var d Distribution
	d.Update(10)
	d.Update(20)
	d.Update(30)
	assert.Equal(t, 3, d.Count())
	assert.InDelta(t, 20.0, d.Avg(), 1e-9)
	assert.Greater(t, d.StdDev(), 0.0)
}
