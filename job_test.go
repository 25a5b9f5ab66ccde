package npsched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStableKeyDeterministic(t *testing.T) {
	id := JobID{Task: 1, Job: 2}
	a := NewJob(id, NewInterval[int64](0, 10), NewInterval[int64](1, 5), 20, 3)
	b := NewJob(id, NewInterval[int64](0, 10), NewInterval[int64](1, 5), 20, 3)
	assert.Equal(t, a.StableKey(), b.StableKey())

	c := NewJob(id, NewInterval[int64](0, 11), NewInterval[int64](1, 5), 20, 3)
	assert.NotEqual(t, a.StableKey(), c.StableKey())
}

func TestJobHigherPriorityThan(t *testing.T) {
	high := NewJob(JobID{1, 1}, NewInterval[int64](0, 0), NewInterval[int64](1, 1), 10, 1)
	low := NewJob(JobID{2, 1}, NewInterval[int64](0, 0), NewInterval[int64](1, 1), 10, 2)
	assert.True(t, high.HigherPriorityThan(low))
	assert.False(t, low.HigherPriorityThan(high))
}

func TestJobHigherPriorityThanTieBreak(t *testing.T) {
	a := NewJob(JobID{1, 1}, NewInterval[int64](0, 0), NewInterval[int64](1, 1), 10, 5)
	b := NewJob(JobID{1, 2}, NewInterval[int64](0, 0), NewInterval[int64](1, 1), 10, 5)
	assert.True(t, a.HigherPriorityThan(b))
	assert.False(t, b.HigherPriorityThan(a))
}
