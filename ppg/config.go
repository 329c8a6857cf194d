package ppg

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ppg/dsp/filter/biquad"
	"github.com/cwbudde/algo-ppg/dsp/filter/design"
)

// ErrInvalidConfig is returned by constructors when option validation fails.
var ErrInvalidConfig = errors.New("ppg: invalid config")

// Method selects the estimation strategy. It is fixed at construction;
// methods are never mixed at runtime within one stream.
type Method int

const (
	// MethodTimeDomain uses adaptive peak detection over a rolling window.
	MethodTimeDomain Method = iota
	// MethodFrequencyDomain uses a sliding discrete period transform.
	MethodFrequencyDomain
)

func (m Method) String() string {
	switch m {
	case MethodTimeDomain:
		return "time-domain"
	case MethodFrequencyDomain:
		return "frequency-domain"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Channel identifies one of the two optical wavelengths.
type Channel int

const (
	ChannelRed Channel = iota
	ChannelIR
)

// Calibration holds the empirical quadratic R-to-SpO2 curve:
//
//	SpO2 = A*R^2 + B*R + C
//
// The coefficients are LED/hardware specific and must be recalibrated per
// sensor variant.
type Calibration struct {
	A, B, C float64
}

// Evaluate applies the calibration curve to an R value.
func (c Calibration) Evaluate(r float64) float64 {
	return c.A*r*r + c.B*r + c.C
}

// DefaultCalibration returns the stock MAX3010x-class calibration.
func DefaultCalibration() Calibration {
	return Calibration{A: -45.06, B: 30.354, C: 94.845}
}

// Config enumerates every tuning parameter of both pipelines. All values
// have working defaults from [DefaultConfig]; hardware variants adjust them
// through the With... options at construction time.
type Config struct {
	// SampleRate is the nominal sampling rate in Hz.
	SampleRate float64

	// Time-domain filter bank.
	DetrendWindow int                  // moving-average baseline window (samples)
	SmoothWindow  int                  // post-filter moving-average window (samples)
	BandpassSOS   []biquad.Coefficients // nil selects a default for SampleRate
	OutputClamp   float64              // saturation band for filter output

	// Time-domain estimator.
	HRWindow              int     // AC analysis window (samples)
	CalcInterval          int     // samples between HR/SpO2 recomputations
	MinPeakDistance       int     // minimum inter-peak distance (samples)
	MaxPeakDistance       int     // maximum plausible inter-peak distance (samples)
	MinACDCRatio          float64 // quality: minimum AC/DC ratio
	MinStdDev             float64 // quality: minimum rolling standard deviation
	MinPeakAmplitude      float64 // quality: minimum peak-to-peak amplitude
	InvalidResetThreshold int     // consecutive invalid cycles before self-reset
	PeakThresholdGood     float64 // adaptive threshold multiplier, good quality
	PeakThresholdFair     float64 // adaptive threshold multiplier, fair quality
	PeakThresholdPoor     float64 // adaptive threshold multiplier, poor quality
	MaxPeaks              int     // cap on peaks collected per analysis pass
	HRMedianWindow        int     // HR median-filter history length
	MaxHRChange           float64 // rate limit per update (bpm)
	HREMAAlpha            float64 // EMA coefficient
	StabilityBand         float64 // max EMA change counted as stable (bpm)
	StabilityThreshold    int     // consecutive stable updates before valid
	MinHR                 float64 // plausible HR lower bound (bpm)
	MaxHR                 float64 // plausible HR upper bound (bpm)
	IntervalSpreadLimit   float64 // interval stddev triggering re-filtering
	IntervalMedianBand    float64 // |interval-median| bound for re-filtering

	// Shared SpO2 calculation.
	Calibration Calibration
	RWindow     int     // R-value smoothing history length
	DCFloor     float64 // minimum DC for a trustworthy R (RMS path)
	MinIRAC     float64 // minimum IR AC magnitude (division guard)
	MinR        float64
	MaxR        float64
	MinSpO2     float64
	MaxSpO2     float64

	// Frequency-domain estimator.
	DPTWindow            int     // analysis window (samples)
	MinPeriod            int     // shortest candidate period (samples)
	MaxPeriod            int     // longest candidate period (samples)
	ACDCAlpha            float64 // single-pole AC/DC extraction coefficient
	DPTDCFloor           float64 // minimum DC for a trustworthy spectral R
	MinPeakMagnitude     float64 // spectral peak acceptance floor
	SpectrumMedianFactor float64 // adaptive threshold = factor * median(spectrum)
	DPTMedianWindow      int     // HR median-filter history length
	DPTSmoothWindow      int     // secondary HR moving-average length
	DPTMaxHRChange       float64 // rate limit per update (bpm)
	DPTEMAAlpha          float64 // EMA coefficient
	DPTStabilityBand     float64 // max EMA change counted as stable (bpm)
	DPTMinHR             float64
	DPTMaxHR             float64
}

// DefaultConfig returns the stock tuning for a MAX3010x-class sensor
// sampled at 100 Hz.
func DefaultConfig() Config {
	return Config{
		SampleRate: 100,

		DetrendWindow: 32,
		SmoothWindow:  5,
		OutputClamp:   1 << 17,

		HRWindow:              160,
		CalcInterval:          250,
		MinPeakDistance:       40,
		MaxPeakDistance:       160,
		MinACDCRatio:          0.01,
		MinStdDev:             5,
		MinPeakAmplitude:      10,
		InvalidResetThreshold: 2,
		PeakThresholdGood:     0.4,
		PeakThresholdFair:     0.5,
		PeakThresholdPoor:     0.6,
		MaxPeaks:              20,
		HRMedianWindow:        5,
		MaxHRChange:           6,
		HREMAAlpha:            0.2,
		StabilityBand:         6,
		StabilityThreshold:    2,
		MinHR:                 30,
		MaxHR:                 180,
		IntervalSpreadLimit:   15,
		IntervalMedianBand:    20,

		Calibration: DefaultCalibration(),
		RWindow:     10,
		DCFloor:     1000,
		MinIRAC:     1,
		MinR:        0.1,
		MaxR:        2.0,
		MinSpO2:     70,
		MaxSpO2:     100,

		DPTWindow:            1000,
		MinPeriod:            40,
		MaxPeriod:            200,
		ACDCAlpha:            0.99,
		DPTDCFloor:           10000,
		MinPeakMagnitude:     0.5,
		SpectrumMedianFactor: 0.5,
		DPTMedianWindow:      7,
		DPTSmoothWindow:      7,
		DPTMaxHRChange:       8,
		DPTEMAAlpha:          0.15,
		DPTStabilityBand:     3,
		DPTMinHR:             30,
		DPTMaxHR:             150,
	}
}

// Option mutates a Config at construction time.
type Option func(*Config)

// WithSampleRate sets the nominal sampling rate in Hz.
func WithSampleRate(hz float64) Option {
	return func(cfg *Config) { cfg.SampleRate = hz }
}

// WithCalibration replaces the R-to-SpO2 calibration curve.
func WithCalibration(c Calibration) Option {
	return func(cfg *Config) { cfg.Calibration = c }
}

// WithBandpassSOS replaces the time-domain bandpass sections.
func WithBandpassSOS(sos []biquad.Coefficients) Option {
	return func(cfg *Config) { cfg.BandpassSOS = sos }
}

// WithHRWindow sets the time-domain AC analysis window length in samples.
func WithHRWindow(samples int) Option {
	return func(cfg *Config) { cfg.HRWindow = samples }
}

// WithCalcInterval sets how many samples elapse between HR/SpO2
// recomputations in the time-domain estimator.
func WithCalcInterval(samples int) Option {
	return func(cfg *Config) { cfg.CalcInterval = samples }
}

// WithPeriodRange sets the candidate period range for the discrete period
// transform, in samples.
func WithPeriodRange(minPeriod, maxPeriod int) Option {
	return func(cfg *Config) {
		cfg.MinPeriod = minPeriod
		cfg.MaxPeriod = maxPeriod
	}
}

// WithDPTWindow sets the frequency-domain analysis window length in samples.
func WithDPTWindow(samples int) Option {
	return func(cfg *Config) { cfg.DPTWindow = samples }
}

// WithQualityThresholds sets the three signal-quality gates of the
// time-domain estimator.
func WithQualityThresholds(minACDCRatio, minStdDev, minPeakAmplitude float64) Option {
	return func(cfg *Config) {
		cfg.MinACDCRatio = minACDCRatio
		cfg.MinStdDev = minStdDev
		cfg.MinPeakAmplitude = minPeakAmplitude
	}
}

// WithHRBounds sets the plausible heart-rate range for the time-domain
// estimator, in bpm.
func WithHRBounds(minBPM, maxBPM float64) Option {
	return func(cfg *Config) {
		cfg.MinHR = minBPM
		cfg.MaxHR = maxBPM
	}
}

func applyOptions(opts []Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

//nolint:cyclop
func (cfg *Config) validate() error {
	switch {
	case cfg.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, cfg.SampleRate)
	case cfg.DetrendWindow < 1:
		return fmt.Errorf("%w: detrend window %d", ErrInvalidConfig, cfg.DetrendWindow)
	case cfg.SmoothWindow < 1:
		return fmt.Errorf("%w: smooth window %d", ErrInvalidConfig, cfg.SmoothWindow)
	case cfg.HRWindow < 16:
		return fmt.Errorf("%w: HR window %d", ErrInvalidConfig, cfg.HRWindow)
	case cfg.CalcInterval < 1:
		return fmt.Errorf("%w: calc interval %d", ErrInvalidConfig, cfg.CalcInterval)
	case cfg.MinPeakDistance < 1 || cfg.MaxPeakDistance <= cfg.MinPeakDistance:
		return fmt.Errorf("%w: peak distance bounds [%d, %d]", ErrInvalidConfig,
			cfg.MinPeakDistance, cfg.MaxPeakDistance)
	case cfg.HRMedianWindow < 1:
		return fmt.Errorf("%w: HR median window %d", ErrInvalidConfig, cfg.HRMedianWindow)
	case cfg.HREMAAlpha <= 0 || cfg.HREMAAlpha > 1:
		return fmt.Errorf("%w: HR EMA alpha %v", ErrInvalidConfig, cfg.HREMAAlpha)
	case cfg.MinHR <= 0 || cfg.MaxHR <= cfg.MinHR:
		return fmt.Errorf("%w: HR bounds [%v, %v]", ErrInvalidConfig, cfg.MinHR, cfg.MaxHR)
	case cfg.RWindow < 1:
		return fmt.Errorf("%w: R window %d", ErrInvalidConfig, cfg.RWindow)
	case cfg.MinR <= 0 || cfg.MaxR <= cfg.MinR:
		return fmt.Errorf("%w: R bounds [%v, %v]", ErrInvalidConfig, cfg.MinR, cfg.MaxR)
	case cfg.MinSpO2 <= 0 || cfg.MaxSpO2 <= cfg.MinSpO2:
		return fmt.Errorf("%w: SpO2 bounds [%v, %v]", ErrInvalidConfig, cfg.MinSpO2, cfg.MaxSpO2)
	case cfg.MinPeriod < 2 || cfg.MaxPeriod <= cfg.MinPeriod:
		return fmt.Errorf("%w: period range [%d, %d]", ErrInvalidConfig, cfg.MinPeriod, cfg.MaxPeriod)
	case cfg.DPTWindow <= cfg.MaxPeriod:
		return fmt.Errorf("%w: DPT window %d must exceed max period %d", ErrInvalidConfig,
			cfg.DPTWindow, cfg.MaxPeriod)
	case cfg.ACDCAlpha <= 0 || cfg.ACDCAlpha >= 1:
		return fmt.Errorf("%w: AC/DC alpha %v", ErrInvalidConfig, cfg.ACDCAlpha)
	case cfg.DPTEMAAlpha <= 0 || cfg.DPTEMAAlpha > 1:
		return fmt.Errorf("%w: DPT EMA alpha %v", ErrInvalidConfig, cfg.DPTEMAAlpha)
	case cfg.DPTMedianWindow < 1 || cfg.DPTSmoothWindow < 1:
		return fmt.Errorf("%w: DPT smoothing windows [%d, %d]", ErrInvalidConfig,
			cfg.DPTMedianWindow, cfg.DPTSmoothWindow)
	case cfg.DPTMinHR <= 0 || cfg.DPTMaxHR <= cfg.DPTMinHR:
		return fmt.Errorf("%w: DPT HR bounds [%v, %v]", ErrInvalidConfig, cfg.DPTMinHR, cfg.DPTMaxHR)
	}

	return nil
}

// bandpassSections resolves the configured bandpass, falling back to the
// stock pulse-band table at its design rate and to a designed cascade
// elsewhere.
func (cfg *Config) bandpassSections() ([]biquad.Coefficients, error) {
	if len(cfg.BandpassSOS) > 0 {
		return cfg.BandpassSOS, nil
	}

	if cfg.SampleRate == design.PulseBandSampleRate {
		return design.PulseBandSOS(), nil
	}

	sections := design.ButterworthBandpass(0.5, 4, 4, cfg.SampleRate)
	if sections == nil {
		return nil, fmt.Errorf("%w: cannot design pulse bandpass at %v Hz",
			ErrInvalidConfig, cfg.SampleRate)
	}

	return sections, nil
}
