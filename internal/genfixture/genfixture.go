// Package genfixture generates randomized job sets for exercising the
// engine's invariants without hand-writing a fixture for every case,
// mirroring the normal-distribution job sampling a reference job-set
// generator would do, just driven by gonum instead of a scripting
// language's random module.
package genfixture

import (
	"math/rand"

	exprand "golang.org/x/exp/rand"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat/distuv"

	"npsched"
)

// randSource adapts a *math/rand.Rand to the golang.org/x/exp/rand.Source
// interface gonum's distuv expects, so callers keep passing the stdlib
// *rand.Rand they already seed for repeatability.
type randSource struct {
	rng *rand.Rand
}

func (s randSource) Uint64() uint64   { return s.rng.Uint64() }
func (s randSource) Seed(seed uint64) { s.rng.Seed(int64(seed)) }

var _ exprand.Source = randSource{}

// Params controls how a task's jobs are sampled.
type Params struct {
	NumTasks      int
	JobsPerTask   int
	Period        float64
	CostMean      float64
	CostStdDev    float64
	ArrivalJitter float64 // max deviation from the nominal periodic release
	DeadlineSlack float64 // added to the end of the job's nominal period to form its deadline
}

// Generate samples a job set honoring Params, using rng for determinism
// across calls (tests should pass a seeded *rand.Rand for repeatability).
func Generate(p Params, rng *rand.Rand) []npsched.Job[float64] {
	src := randSource{rng: rng}
	cost := distuv.Normal{Mu: p.CostMean, Sigma: p.CostStdDev, Src: src}
	jitter := distuv.Uniform{Min: -p.ArrivalJitter, Max: p.ArrivalJitter, Src: src}

	var jobs []npsched.Job[float64]
	for task := 0; task < p.NumTasks; task++ {
		priority := int64(task) // by task index: task 0 is highest priority; all tasks share Period
		for n := 0; n < p.JobsPerTask; n++ {
			nominal := float64(n) * p.Period
			jmin := nominal + min0(jitter.Rand())
			jmax := nominal + max0(jitter.Rand())
			arrival := npsched.NewInterval(jmin, jmax)

			cmin := positive(cost.Rand())
			cmax := cmin + positive(cost.Rand())*0.25
			costIv := npsched.NewInterval(cmin, cmin+cmax)

			deadline := nominal + p.Period + p.DeadlineSlack

			id := npsched.JobID{Task: task, Job: n}
			jobs = append(jobs, npsched.NewJob(id, arrival, costIv, deadline, priority))
		}
	}
	return jobs
}

func positive[T constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func min0(v float64) float64 {
	if v > 0 {
		return 0
	}
	return v
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
