// Package ppgtest generates deterministic synthetic PPG captures with known
// heart rate and SpO2 for tests, benchmarks, and demos.
//
// The waveform is a fundamental sinusoid at the target heart rate plus a
// second-harmonic component, per-sample amplitude noise, and a slow baseline
// wander. Both channels share one normalized waveform so the red/IR
// amplitude ratio, and therefore the resulting R value, is exact.
package ppgtest

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-ppg/ppg"
)

// Params describes a synthetic capture.
type Params struct {
	SampleRate   float64
	HeartRateBPM float64
	SpO2Percent  float64

	RedDC float64
	IRDC  float64

	// PerfusionIR is the IR channel's AC amplitude as a fraction of its DC
	// level. The red amplitude follows from the target SpO2.
	PerfusionIR float64

	HarmonicRatio     float64 // second harmonic amplitude relative to the fundamental
	NoiseLevel        float64 // per-sample amplitude noise, fraction of the fundamental
	BaselineAmplitude float64 // slow drift added to both channels, in ADC counts
	BaselineHz        float64

	Calibration ppg.Calibration
	Seed        int64
}

// DefaultParams returns a clean, strong-signal capture: 75 bpm, 98% SpO2,
// typical MAX3010x DC levels.
func DefaultParams() Params {
	return Params{
		SampleRate:        100,
		HeartRateBPM:      75,
		SpO2Percent:       98,
		RedDC:             50000,
		IRDC:              80000,
		PerfusionIR:       0.0125,
		HarmonicRatio:     0.3,
		NoiseLevel:        0.05,
		BaselineAmplitude: 200,
		BaselineHz:        0.1,
		Calibration:       ppg.DefaultCalibration(),
		Seed:              1,
	}
}

// RFromSpO2 inverts the quadratic calibration curve, returning the R value
// that maps to the given SpO2. The result is clamped to the physically
// plausible range [0.1, 2.0].
func RFromSpO2(spo2 float64, cal ppg.Calibration) float64 {
	// cal.A*R^2 + cal.B*R + (cal.C - spo2) = 0
	c := cal.C - spo2

	disc := cal.B*cal.B - 4*cal.A*c
	if disc < 0 {
		disc = 0
	}

	r := (-cal.B - math.Sqrt(disc)) / (2 * cal.A)

	return math.Min(2.0, math.Max(0.1, r))
}

// Generate produces n raw (red, IR) ADC sample pairs. The same Params and
// length always yield the same capture.
func Generate(p Params, n int) (red, ir []uint32) {
	r := RFromSpO2(p.SpO2Percent, p.Calibration)

	irAmp := p.PerfusionIR * p.IRDC
	// AC_red/DC_red = r * AC_ir/DC_ir
	redAmp := r * p.PerfusionIR * p.RedDC

	rng := rand.New(rand.NewSource(p.Seed))
	red = make([]uint32, n)
	ir = make([]uint32, n)

	beatHz := p.HeartRateBPM / 60

	for i := 0; i < n; i++ {
		t := float64(i) / p.SampleRate

		wave := math.Sin(2*math.Pi*beatHz*t) +
			p.HarmonicRatio*math.Sin(4*math.Pi*beatHz*t)
		wave *= 1 + p.NoiseLevel*(rng.Float64()-0.5)*2

		baseline := p.BaselineAmplitude * math.Sin(2*math.Pi*p.BaselineHz*t)

		red[i] = quantize(p.RedDC + redAmp*wave + baseline)
		ir[i] = quantize(p.IRDC + irAmp*wave + baseline)
	}

	return red, ir
}

// pulseShape is a narrow raised-cosine beat used by GeneratePulseTrain.
var pulseShape = []float64{0.25, 0.75, 1, 0.75, 0.25}

// GeneratePulseTrain produces n raw pairs whose waveform is a train of
// narrow pulses at the beat period instead of a sinusoid. Its sharply
// peaked autocorrelation makes it the preferred fixture for periodicity
// detectors; the amplitude ratio between channels still encodes the target
// SpO2 exactly.
func GeneratePulseTrain(p Params, n int) (red, ir []uint32) {
	r := RFromSpO2(p.SpO2Percent, p.Calibration)

	// Pulses are sparse, so scale the peak up to keep the mean AC energy
	// comparable to the sinusoidal generator.
	irAmp := 4 * p.PerfusionIR * p.IRDC
	redAmp := r * (irAmp / p.IRDC) * p.RedDC

	period := int(math.Round(p.SampleRate * 60 / p.HeartRateBPM))
	if period < 1 {
		period = 1
	}

	rng := rand.New(rand.NewSource(p.Seed))
	red = make([]uint32, n)
	ir = make([]uint32, n)

	for i := 0; i < n; i++ {
		wave := 0.0
		if k := i % period; k < len(pulseShape) {
			wave = pulseShape[k]
		}
		wave *= 1 + p.NoiseLevel*(rng.Float64()-0.5)*2

		t := float64(i) / p.SampleRate
		baseline := p.BaselineAmplitude * math.Sin(2*math.Pi*p.BaselineHz*t)

		red[i] = quantize(p.RedDC + redAmp*wave + baseline)
		ir[i] = quantize(p.IRDC + irAmp*wave + baseline)
	}

	return red, ir
}

// Flat produces n identical (red, IR) pairs, useful for DC-only rejection
// tests.
func Flat(red, ir uint32, n int) (reds, irs []uint32) {
	reds = make([]uint32, n)
	irs = make([]uint32, n)
	for i := range reds {
		reds[i] = red
		irs[i] = ir
	}

	return reds, irs
}

func quantize(v float64) uint32 {
	if v < 0 {
		return 0
	}
	if v > ppg.ADCMax {
		return ppg.ADCMax
	}

	return uint32(v)
}
