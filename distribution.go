package npsched

import (
	"fmt"
	"math"
)

// Distribution is a running mean/standard-deviation accumulator, fed one
// sample at a time so it never needs the full sample set in memory. Table
// uses it to summarize a finished table's response times.
type Distribution struct {
	avg    float64
	count  int
	stdDev float64
}

// Update folds newVal into the running mean and standard deviation.
func (d *Distribution) Update(newVal float64) {
	d.avg = (d.avg*float64(d.count) + newVal) / float64(d.count+1)
	d.stdDev = math.Sqrt((math.Pow(d.stdDev, 2)*float64(d.count) + math.Pow(newVal-d.avg, 2)) / float64(d.count+1))
	d.count++
}

func (d Distribution) Avg() float64    { return d.avg }
func (d Distribution) StdDev() float64 { return d.stdDev }
func (d Distribution) Count() int      { return d.count }

func (d Distribution) String() string {
	return fmt.Sprintf("avg: %v, stdDev: %v, n: %d", d.avg, d.stdDev, d.count)
}
