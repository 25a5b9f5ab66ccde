package npsched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalContains(t *testing.T) {
	iv := NewInterval(2, 5)
	assert.True(t, iv.Contains(2))
	assert.True(t, iv.Contains(5))
	assert.True(t, iv.Contains(3))
	assert.False(t, iv.Contains(1))
	assert.False(t, iv.Contains(6))
}

func TestIntervalIntersectsDisjoint(t *testing.T) {
	a := NewInterval(0, 5)
	b := NewInterval(5, 10)
	c := NewInterval(6, 10)

	assert.True(t, a.Intersects(b))
	assert.False(t, a.Disjoint(b))
	assert.False(t, a.Intersects(c))
	assert.True(t, a.Disjoint(c))
}

func TestIntervalMerge(t *testing.T) {
	a := NewInterval(0, 5)
	b := NewInterval(3, 10)
	merged := a.Merge(b)
	assert.Equal(t, 0, merged.Min())
	assert.Equal(t, 10, merged.Max())
}

func TestIntervalWiden(t *testing.T) {
	a := NewInterval(2, 4)
	a.Widen(NewInterval(1, 3))
	assert.Equal(t, 1, a.Min())
	assert.Equal(t, 4, a.Max())
}

func TestIntervalSum(t *testing.T) {
	a := NewInterval(1, 2)
	b := NewInterval(10, 20)
	sum := a.Sum(b)
	assert.Equal(t, 11, sum.Min())
	assert.Equal(t, 22, sum.Max())
}

func TestIntervalLowerBound(t *testing.T) {
	a := NewInterval(0, 3)
	b := a.LowerBound(5)
	assert.Equal(t, 5, b.Min())
	assert.Equal(t, 5, b.Max())

	c := NewInterval(0, 10).LowerBound(5)
	assert.Equal(t, 5, c.Min())
	assert.Equal(t, 10, c.Max())
}

func TestIntervalExtendTo(t *testing.T) {
	a := NewInterval(0, 3)
	assert.Equal(t, 5, a.ExtendTo(5).Max())
	assert.Equal(t, 3, a.ExtendTo(1).Max())
}

func TestIntervalLookup(t *testing.T) {
	l := NewIntervalLookup[int, string](10)
	l.Insert(NewInterval(0, 5), "a")
	l.Insert(NewInterval(12, 18), "b")
	l.Insert(NewInterval(8, 22), "c")

	assert.ElementsMatch(t, []string{"a"}, l.Lookup(3))
	assert.ElementsMatch(t, []string{"b", "c"}, l.Lookup(15))
	assert.Empty(t, l.Lookup(100))
}
