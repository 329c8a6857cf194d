// Package rolling provides incremental (Welford) mean and variance over a
// bounded sample window.
//
// Push updates the accumulators in O(1) using Welford's online algorithm.
// Welford alone cannot evict old samples, so once the caller's window has
// filled it should periodically call Rebase with the current window contents
// to re-anchor the accumulators to exactly the retained samples.
package rolling

import "math"

// Stats accumulates mean and variance over at most Window samples.
type Stats struct {
	window int

	count int
	mean  float64
	m2    float64 // sum of squared deviations from the mean
}

// New returns an empty accumulator bounded to the given window size.
func New(window int) *Stats {
	if window < 1 {
		window = 1
	}

	return &Stats{window: window}
}

// Push folds one sample into the accumulators.
func (s *Stats) Push(x float64) {
	if s.count == 0 {
		s.count = 1
		s.mean = x
		s.m2 = 0

		return
	}

	delta := x - s.mean
	s.mean += delta / float64(s.count+1)
	s.m2 += delta * (x - s.mean)

	if s.count < s.window {
		s.count++
	}
}

// Rebase recomputes the accumulators exactly from the given window contents,
// discarding incremental drift. Intended to be called once the caller's
// backing buffer is full, with the full window as values.
func (s *Stats) Rebase(values []float64) {
	n := len(values)
	if n == 0 {
		s.Reset()
		return
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	m2 := 0.0
	for _, v := range values {
		d := v - mean
		m2 += d * d
	}

	s.count = n
	if s.count > s.window {
		s.count = s.window
	}
	s.mean = mean
	s.m2 = m2
}

// Count returns the number of samples represented (saturates at the window).
func (s *Stats) Count() int {
	return s.count
}

// Mean returns the current mean, or 0 when empty.
func (s *Stats) Mean() float64 {
	return s.mean
}

// Variance returns the population variance, or 0 when empty.
func (s *Stats) Variance() float64 {
	if s.count == 0 {
		return 0
	}

	return s.m2 / float64(s.count)
}

// StdDev returns the population standard deviation.
func (s *Stats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Reset clears the accumulators.
func (s *Stats) Reset() {
	s.count = 0
	s.mean = 0
	s.m2 = 0
}
