package buffer

import "fmt"

// Ring is a fixed-capacity circular buffer of float64 samples.
//
// Writes overwrite the oldest slot once the buffer is full. The zero value is
// not usable; construct with [NewRing].
type Ring struct {
	data []float64
	next int
	full bool
}

// NewRing returns an empty ring with the given capacity.
func NewRing(capacity int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer: ring capacity must be > 0: %d", capacity)
	}

	return &Ring{data: make([]float64, capacity)}, nil
}

// Push writes x into the next slot and returns the value it displaced along
// with the slot index written. The displaced value is only meaningful once
// the ring is full.
func (r *Ring) Push(x float64) (old float64, idx int) {
	idx = r.next
	old = r.data[idx]
	r.data[idx] = x

	r.next++
	if r.next >= len(r.data) {
		r.next = 0
		r.full = true
	}

	return old, idx
}

// Full reports whether every slot has been written at least once.
func (r *Ring) Full() bool {
	return r.full
}

// Len returns the number of valid samples (saturates at capacity).
func (r *Ring) Len() int {
	if r.full {
		return len(r.data)
	}

	return r.next
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.data)
}

// At returns the sample in slot i (storage order, not chronological order).
func (r *Ring) At(i int) float64 {
	return r.data[i]
}

// Before returns the sample written steps positions before slot idx,
// wrapping around the capacity. steps must be in [0, Cap).
func (r *Ring) Before(idx, steps int) float64 {
	n := len(r.data)

	return r.data[(idx+n-steps)%n]
}

// Raw exposes the backing slots in storage order. Callers must not resize
// the returned slice; it remains owned by the ring.
func (r *Ring) Raw() []float64 {
	return r.data
}

// CopyTo copies the valid samples into dst in chronological order (oldest
// first) and returns the number copied. dst must hold at least Len() values.
func (r *Ring) CopyTo(dst []float64) int {
	n := r.Len()
	if n == 0 {
		return 0
	}

	if !r.full {
		copy(dst, r.data[:n])
		return n
	}

	m := copy(dst, r.data[r.next:])
	copy(dst[m:], r.data[:r.next])

	return n
}

// Mean returns the average of the valid samples, or 0 when empty.
func (r *Ring) Mean() float64 {
	n := r.Len()
	if n == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range r.data[:n] {
		sum += v
	}

	return sum / float64(n)
}

// Reset clears all slots and the fill state.
func (r *Ring) Reset() {
	for i := range r.data {
		r.data[i] = 0
	}
	r.next = 0
	r.full = false
}
