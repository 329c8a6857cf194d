package ppg

// FrequencyDomain estimates heart rate by locating the dominant periodicity
// of the IR channel with a sliding discrete period transform, and SpO2 from
// the spectral magnitudes of both channels at that period.
//
// Readings refresh on every sample once the analysis window has filled; the
// first ten seconds after construction (or Reset) report invalid.
type FrequencyDomain struct {
	cfg Config

	red acdc
	ir  acdc

	redDPT *dptTransform
	irDPT  *dptTransform

	smoother *hrSmoother
	spo2     *spo2Calculator

	specScratch []float64
	peakPeriod  int
}

// NewFrequencyDomain builds a frequency-domain (DPT) estimator with the
// given options applied over [DefaultConfig].
func NewFrequencyDomain(opts ...Option) (*FrequencyDomain, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	redDPT, err := newDPTTransform(&cfg)
	if err != nil {
		return nil, err
	}

	irDPT, err := newDPTTransform(&cfg)
	if err != nil {
		return nil, err
	}

	smoother, err := newHRSmoother(cfg.DPTMedianWindow, cfg.DPTSmoothWindow,
		cfg.DPTMaxHRChange, cfg.DPTEMAAlpha, cfg.DPTStabilityBand, cfg.StabilityThreshold)
	if err != nil {
		return nil, err
	}

	spo2, err := newSpO2Calculator(&cfg, cfg.DPTDCFloor, true)
	if err != nil {
		return nil, err
	}

	return &FrequencyDomain{
		cfg:         cfg,
		red:         acdc{alpha: cfg.ACDCAlpha},
		ir:          acdc{alpha: cfg.ACDCAlpha},
		redDPT:      redDPT,
		irDPT:       irDPT,
		smoother:    smoother,
		spo2:        spo2,
		specScratch: make([]float64, cfg.MaxPeriod-cfg.MinPeriod+1),
	}, nil
}

// Process consumes one raw (red, IR) ADC sample pair.
func (f *FrequencyDomain) Process(rawRed, rawIR uint32) {
	redAC, redDC := f.red.process(adc18(rawRed))
	irAC, irDC := f.ir.process(adc18(rawIR))

	f.redDPT.push(redAC)
	f.irDPT.push(irAC)

	if !f.redDPT.ready() || !f.irDPT.ready() {
		f.smoother.valid = false
		f.spo2.valid = false

		return
	}

	f.redDPT.computeSpectrum()
	f.irDPT.computeSpectrum()

	// The IR channel carries the stronger pulsatile component, so it drives
	// the period search for both channels.
	f.peakPeriod = f.irDPT.peakPeriod(f.cfg.MinPeakMagnitude, f.cfg.SpectrumMedianFactor, f.specScratch)

	f.updateHeartRate()
	f.updateSpO2(redDC, irDC)
}

func (f *FrequencyDomain) updateHeartRate() {
	if f.peakPeriod == 0 {
		f.smoother.invalidate()
		return
	}

	bpm := 60 * f.cfg.SampleRate / float64(f.peakPeriod)
	if bpm < f.cfg.DPTMinHR || bpm > f.cfg.DPTMaxHR {
		f.smoother.invalidate()
		return
	}

	f.smoother.update(bpm)
}

func (f *FrequencyDomain) updateSpO2(redDC, irDC float64) {
	if f.peakPeriod == 0 {
		f.spo2.valid = false
		return
	}

	f.spo2.update(f.redDPT.magnitudeAt(f.peakPeriod), redDC,
		f.irDPT.magnitudeAt(f.peakPeriod), irDC)
}

// HeartRate returns the latest smoothed heart rate in bpm. Check
// [FrequencyDomain.HeartRateValid] before acting on it.
func (f *FrequencyDomain) HeartRate() float64 { return f.smoother.value }

// HeartRateValid reports whether the heart rate has passed the stability
// checks since the last degradation.
func (f *FrequencyDomain) HeartRateValid() bool { return f.smoother.valid }

// SpO2 returns the latest blood-oxygen saturation in percent.
func (f *FrequencyDomain) SpO2() float64 { return f.spo2.value }

// SpO2Valid reports whether the SpO2 reading passed all range checks.
func (f *FrequencyDomain) SpO2Valid() bool { return f.spo2.valid }

// PeakPeriod returns the detected dominant period in samples, or 0 when the
// last spectrum had no acceptable peak.
func (f *FrequencyDomain) PeakPeriod() int { return f.peakPeriod }

// Spectrum returns a copy of the current magnitude spectrum for the given
// channel. Index i corresponds to a candidate period of MinPeriod+i samples.
// Intended for visualization and debugging; it allocates.
func (f *FrequencyDomain) Spectrum(ch Channel) []float64 {
	src := f.irDPT.mag
	if ch == ChannelRed {
		src = f.redDPT.mag
	}

	out := make([]float64, len(src))
	copy(out, src)

	return out
}

// Reset restores the estimator to its initial state.
func (f *FrequencyDomain) Reset() {
	f.red.reset()
	f.ir.reset()
	f.redDPT.reset()
	f.irDPT.reset()
	f.smoother.reset()
	f.spo2.reset()
	f.peakPeriod = 0
}
