// Package spectrum provides magnitude-spectrum helpers for the periodicity
// detectors: SIMD-backed magnitude computation from split real/imaginary
// parts, and an FFT-based reference spectrum used by diagnostics to
// cross-check the sliding period transform.
package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// All three slices must have the same length. This is the zero-allocation
// fast path for callers that keep split real/imaginary accumulators, and it
// uses SIMD-optimized kernels when available (AVX2, SSE2, NEON).
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// FFTMagnitude computes the single-sided FFT magnitude spectrum of a
// real-valued signal, zero-padded to the next power of two. The returned
// slice holds bins [0 .. N/2] where N is the padded FFT size; bin k
// corresponds to frequency k*sampleRate/N for the caller's sample rate.
func FFTMagnitude(signal []float64) ([]float64, int, error) {
	if len(signal) == 0 {
		return nil, 0, fmt.Errorf("spectrum: empty signal")
	}

	fftSize := nextPowerOf2(len(signal))

	in := make([]complex128, fftSize)
	for i, v := range signal {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, 0, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, 0, fmt.Errorf("spectrum: fft forward: %w", err)
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for i := 0; i < half; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	return mag, fftSize, nil
}

// PeakBin returns the index of the largest magnitude in bins [lo, hi),
// clamped to the valid range. Returns -1 when the range is empty.
func PeakBin(mag []float64, lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	if hi > len(mag) {
		hi = len(mag)
	}
	if lo >= hi {
		return -1
	}

	best := lo
	for i := lo + 1; i < hi; i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}

	return best
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

// BinFrequency converts an FFT bin index to Hz for the given transform size.
func BinFrequency(bin, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return math.NaN()
	}

	return float64(bin) * sampleRate / float64(fftSize)
}
