package ppg

import (
	"math"

	"github.com/cwbudde/algo-ppg/dsp/buffer"
	"github.com/cwbudde/algo-ppg/dsp/spectrum"
)

// dptTransform maintains sliding discrete-period-transform coefficients for
// one channel over a fixed window of AC samples. Each candidate period T
// keeps one complex coefficient updated per sample as
//
//	F_T[n] = (F_T[n-1] + x[n] - x[n-T]) * e^{-j*2*pi/T}
//
// The negative rotation direction is required because the window slides
// forward in time, so the phase reference rotates backward. The sample
// removed is the one exactly T positions behind the newest write; getting
// this offset wrong by one detunes every candidate period.
type dptTransform struct {
	minPeriod int
	window    *buffer.Ring

	re  []float64
	im  []float64
	mag []float64

	rotCos    []float64
	rotSin    []float64
	invPeriod []float64
}

func newDPTTransform(cfg *Config) (*dptTransform, error) {
	window, err := buffer.NewRing(cfg.DPTWindow)
	if err != nil {
		return nil, err
	}

	n := cfg.MaxPeriod - cfg.MinPeriod + 1
	d := &dptTransform{
		minPeriod: cfg.MinPeriod,
		window:    window,
		re:        make([]float64, n),
		im:        make([]float64, n),
		mag:       make([]float64, n),
		rotCos:    make([]float64, n),
		rotSin:    make([]float64, n),
		invPeriod: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		period := cfg.MinPeriod + i
		phase := -2 * math.Pi / float64(period)
		d.rotCos[i] = math.Cos(phase)
		d.rotSin[i] = math.Sin(phase)
		d.invPeriod[i] = 1 / float64(period)
	}

	return d, nil
}

// push folds one AC sample into the window and, once the window has filled,
// advances every per-period coefficient by one step.
func (d *dptTransform) push(ac float64) {
	_, idx := d.window.Push(ac)
	if !d.window.Full() {
		return
	}

	for i := range d.re {
		old := d.window.Before(idx, d.minPeriod+i)

		re := d.re[i] - old + ac
		im := d.im[i]

		d.re[i] = re*d.rotCos[i] - im*d.rotSin[i]
		d.im[i] = re*d.rotSin[i] + im*d.rotCos[i]
	}
}

func (d *dptTransform) ready() bool {
	return d.window.Full()
}

// computeSpectrum refreshes the magnitude spectrum, normalizing each bin by
// its period so peaks at different candidate periods are comparable.
func (d *dptTransform) computeSpectrum() {
	spectrum.MagnitudeFromParts(d.mag, d.re, d.im)
	for i := range d.mag {
		d.mag[i] *= d.invPeriod[i]
	}
}

// peakPeriod returns the period (in samples) of the spectrum maximum, or 0
// when the maximum does not clear the adaptive threshold
// max(minMagnitude, medianFactor*median(spectrum)).
func (d *dptTransform) peakPeriod(minMagnitude, medianFactor float64, scratch []float64) int {
	best := 0
	for i := 1; i < len(d.mag); i++ {
		if d.mag[i] > d.mag[best] {
			best = i
		}
	}

	threshold := minMagnitude
	if m := medianFactor * median(append(scratch[:0], d.mag...)); m > threshold {
		threshold = m
	}

	if d.mag[best] < threshold {
		return 0
	}

	return d.minPeriod + best
}

// magnitudeAt returns the spectrum magnitude at the given period.
func (d *dptTransform) magnitudeAt(period int) float64 {
	return d.mag[period-d.minPeriod]
}

func (d *dptTransform) reset() {
	d.window.Reset()
	for i := range d.re {
		d.re[i] = 0
		d.im[i] = 0
		d.mag[i] = 0
	}
}
