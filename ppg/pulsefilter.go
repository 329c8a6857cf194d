package ppg

import (
	"math"

	"github.com/cwbudde/algo-ppg/dsp/buffer"
	"github.com/cwbudde/algo-ppg/dsp/filter/biquad"
)

// pulseFilter is the per-channel conditioning chain of the time-domain
// path: moving-average detrend, Butterworth bandpass cascade, short
// moving-average smoothing, and an AC-energy accumulator for RMS-on-demand.
//
// The detrend baseline doubles as the channel's DC value for SpO2.
type pulseFilter struct {
	detrend    *buffer.Ring
	detrendSum float64

	band *biquad.Chain

	smooth    *buffer.Ring
	smoothSum float64

	clamp float64

	acSquareSum float64
	acCount     int
}

func newPulseFilter(cfg *Config) (*pulseFilter, error) {
	sections, err := cfg.bandpassSections()
	if err != nil {
		return nil, err
	}

	detrend, err := buffer.NewRing(cfg.DetrendWindow)
	if err != nil {
		return nil, err
	}

	smooth, err := buffer.NewRing(cfg.SmoothWindow)
	if err != nil {
		return nil, err
	}

	return &pulseFilter{
		detrend: detrend,
		band:    biquad.NewChain(sections),
		smooth:  smooth,
		clamp:   cfg.OutputClamp,
	}, nil
}

// Process conditions one raw sample and returns the filtered AC value.
// It never fails; out-of-band energy ends up attenuated, not rejected.
func (f *pulseFilter) Process(x float64) float64 {
	old, _ := f.detrend.Push(x)
	f.detrendSum += x - old
	baseline := f.detrendSum / float64(f.detrend.Len())

	y := f.band.ProcessSample(x - baseline)

	old, _ = f.smooth.Push(y)
	f.smoothSum += y - old
	y = f.smoothSum / float64(f.smooth.Len())

	if y > f.clamp {
		y = f.clamp
	} else if y < -f.clamp {
		y = -f.clamp
	}

	f.acSquareSum += y * y
	f.acCount++

	return y
}

// DC returns the moving-average baseline of the raw input.
func (f *pulseFilter) DC() float64 {
	if f.detrend.Len() == 0 {
		return 0
	}

	return f.detrendSum / float64(f.detrend.Len())
}

// ACRMS returns the RMS of the filtered output accumulated since the last
// call and resets the accumulator. Callers must read it at a fixed cadence;
// irregular reads yield RMS over irregular windows.
func (f *pulseFilter) ACRMS() float64 {
	if f.acCount == 0 {
		return 0
	}

	rms := math.Sqrt(f.acSquareSum / float64(f.acCount))
	f.acSquareSum = 0
	f.acCount = 0

	return rms
}

func (f *pulseFilter) Reset() {
	f.detrend.Reset()
	f.detrendSum = 0
	f.band.Reset()
	f.smooth.Reset()
	f.smoothSum = 0
	f.acSquareSum = 0
	f.acCount = 0
}
