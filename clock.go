package npsched

import "time"

// Stopwatch measures wall-clock elapsed time for the duration of an
// Explore call. It deliberately does not attempt OS-level CPU-time
// accounting — that belongs to the driver/collaborator, not the engine
// (see DESIGN.md).
type Stopwatch struct {
	started time.Time
	elapsed time.Duration
	running bool
}

// Start begins (or resumes) timing.
func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.started = time.Now()
	s.running = true
}

// Stop pauses timing, accumulating the elapsed duration.
func (s *Stopwatch) Stop() {
	if !s.running {
		return
	}
	s.elapsed += time.Since(s.started)
	s.running = false
}

// Seconds returns the total elapsed time in seconds, including any
// currently-running segment.
func (s *Stopwatch) Seconds() float64 {
	d := s.elapsed
	if s.running {
		d += time.Since(s.started)
	}
	return d.Seconds()
}
