package ppg

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-ppg/dsp/buffer"
	"github.com/cwbudde/algo-ppg/stats/rolling"
)

// TimeDomain estimates heart rate by adaptive peak detection over a rolling
// window of bandpass-filtered IR samples, and SpO2 from the RMS AC to
// moving-average DC ratio of both channels.
type TimeDomain struct {
	cfg Config

	red *pulseFilter
	ir  *pulseFilter

	window *buffer.Ring
	stats  *rolling.Stats

	winBuf    []float64
	peaks     []int
	ivals     []float64
	ivScratch []float64

	smoother *hrSmoother
	spo2     *spo2Calculator

	quality            Quality
	sampleCount        int
	consecutiveInvalid int
}

// NewTimeDomain builds a time-domain estimator with the given options
// applied over [DefaultConfig].
func NewTimeDomain(opts ...Option) (*TimeDomain, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	red, err := newPulseFilter(&cfg)
	if err != nil {
		return nil, err
	}

	ir, err := newPulseFilter(&cfg)
	if err != nil {
		return nil, err
	}

	window, err := buffer.NewRing(cfg.HRWindow)
	if err != nil {
		return nil, err
	}

	smoother, err := newHRSmoother(cfg.HRMedianWindow, 0,
		cfg.MaxHRChange, cfg.HREMAAlpha, cfg.StabilityBand, cfg.StabilityThreshold)
	if err != nil {
		return nil, err
	}

	spo2, err := newSpO2Calculator(&cfg, cfg.DCFloor, false)
	if err != nil {
		return nil, err
	}

	return &TimeDomain{
		cfg:       cfg,
		red:       red,
		ir:        ir,
		window:    window,
		stats:     rolling.New(cfg.HRWindow),
		winBuf:    make([]float64, cfg.HRWindow),
		peaks:     make([]int, 0, cfg.MaxPeaks),
		ivals:     make([]float64, 0, cfg.MaxPeaks),
		ivScratch: make([]float64, 0, cfg.MaxPeaks),
		smoother:  smoother,
		spo2:      spo2,
	}, nil
}

// Process consumes one raw (red, IR) ADC sample pair. Readings refresh every
// CalcInterval samples; between refreshes the accessors return the previous
// values.
func (t *TimeDomain) Process(rawRed, rawIR uint32) {
	t.red.Process(adc18(rawRed))
	acIR := t.ir.Process(adc18(rawIR))

	t.window.Push(acIR)
	t.stats.Push(acIR)

	t.sampleCount++
	if t.sampleCount%t.cfg.CalcInterval != 0 {
		return
	}

	t.calculate()

	// RMS accumulators must be drained at this fixed cadence whether or not
	// the HR window has filled yet.
	t.spo2.update(t.red.ACRMS(), t.red.DC(), t.ir.ACRMS(), t.ir.DC())
}

// HeartRate returns the latest smoothed heart rate in bpm. Check
// [TimeDomain.HeartRateValid] before acting on it.
func (t *TimeDomain) HeartRate() float64 { return t.smoother.value }

// HeartRateValid reports whether the heart rate has passed the stability
// checks since the last degradation.
func (t *TimeDomain) HeartRateValid() bool { return t.smoother.valid }

// SpO2 returns the latest blood-oxygen saturation in percent.
func (t *TimeDomain) SpO2() float64 { return t.spo2.value }

// SpO2Valid reports whether the SpO2 reading passed all range checks.
func (t *TimeDomain) SpO2Valid() bool { return t.spo2.valid }

// SignalQuality returns the waveform grade from the last analysis pass.
func (t *TimeDomain) SignalQuality() Quality { return t.quality }

// Waveform returns a copy of the bandpass-filtered IR window, oldest sample
// first. Intended for diagnostics and plotting; it allocates.
func (t *TimeDomain) Waveform() []float64 {
	out := make([]float64, t.window.Len())
	t.window.CopyTo(out)

	return out
}

// Reset restores the estimator to its initial state.
func (t *TimeDomain) Reset() {
	t.red.Reset()
	t.ir.Reset()
	t.window.Reset()
	t.stats.Reset()
	t.smoother.reset()
	t.spo2.reset()
	t.quality = QualityPoor
	t.sampleCount = 0
	t.consecutiveInvalid = 0
}

func (t *TimeDomain) calculate() {
	if !t.window.Full() {
		return
	}

	n := t.window.CopyTo(t.winBuf)
	win := t.winBuf[:n]

	// Re-anchor the incremental statistics to exactly the retained window;
	// Welford alone cannot evict the evicted samples.
	t.stats.Rebase(win)

	mean := t.stats.Mean()
	std := t.stats.StdDev()

	minV, maxV := win[0], win[0]
	for _, v := range win[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	t.quality = t.assessQuality(std, maxV-minV)
	if t.quality == QualityPoor {
		t.markInvalid()
		return
	}
	t.consecutiveInvalid = 0

	threshold := mean + t.thresholdMultiplier()*std

	if !t.findPeaks(win, threshold) {
		t.markInvalid()
		return
	}

	interval, ok := t.medianInterval()
	if !ok {
		t.markInvalid()
		return
	}

	bpm := 60 * t.cfg.SampleRate / interval
	if bpm < t.cfg.MinHR || bpm > t.cfg.MaxHR {
		t.markInvalid()
		return
	}

	t.smoother.update(bpm)
}

func (t *TimeDomain) assessQuality(std, peakToPeak float64) Quality {
	score := 0

	if dc := t.ir.DC(); dc > 0 && peakToPeak/dc >= t.cfg.MinACDCRatio {
		score++
	}
	if std >= t.cfg.MinStdDev {
		score++
	}
	if peakToPeak >= t.cfg.MinPeakAmplitude {
		score++
	}

	switch {
	case score >= 3:
		return QualityGood
	case score >= 2:
		return QualityFair
	default:
		return QualityPoor
	}
}

func (t *TimeDomain) thresholdMultiplier() float64 {
	switch t.quality {
	case QualityGood:
		return t.cfg.PeakThresholdGood
	case QualityFair:
		return t.cfg.PeakThresholdFair
	default:
		return t.cfg.PeakThresholdPoor
	}
}

// findPeaks scans win for local maxima above threshold using a 7-sample
// symmetric window (3 neighbors each side strictly below the center),
// enforcing the minimum inter-peak distance. Reports whether at least two
// peaks were found.
func (t *TimeDomain) findPeaks(win []float64, threshold float64) bool {
	const half = 3

	t.peaks = t.peaks[:0]

	for i := half; i < len(win)-half; i++ {
		v := win[i]
		if v <= threshold {
			continue
		}

		isPeak := true
		for d := 1; d <= half; d++ {
			if v <= win[i-d] || v <= win[i+d] {
				isPeak = false
				break
			}
		}
		if !isPeak {
			continue
		}

		if len(t.peaks) > 0 && i-t.peaks[len(t.peaks)-1] < t.cfg.MinPeakDistance {
			continue
		}

		t.peaks = append(t.peaks, i)
		if len(t.peaks) >= t.cfg.MaxPeaks {
			break
		}
	}

	return len(t.peaks) >= 2
}

// medianInterval derives the beat interval from the detected peaks: keep
// plausible inter-peak intervals, take their median, and when the spread is
// large re-filter to intervals near the median before recomputing it.
func (t *TimeDomain) medianInterval() (float64, bool) {
	t.ivals = t.ivals[:0]
	for i := 1; i < len(t.peaks); i++ {
		iv := float64(t.peaks[i] - t.peaks[i-1])
		if iv >= float64(t.cfg.MinPeakDistance) && iv <= float64(t.cfg.MaxPeakDistance) {
			t.ivals = append(t.ivals, iv)
		}
	}

	if len(t.ivals) < 2 {
		return 0, false
	}

	t.ivScratch = append(t.ivScratch[:0], t.ivals...)
	med := median(t.ivScratch)

	if len(t.ivals) > 2 && intervalStdDev(t.ivals) > t.cfg.IntervalSpreadLimit {
		kept := t.ivScratch[:0]
		for _, iv := range t.ivals {
			if d := iv - med; -t.cfg.IntervalMedianBand < d && d < t.cfg.IntervalMedianBand {
				kept = append(kept, iv)
			}
		}

		if len(kept) >= 2 {
			med = median(kept)
		}
	}

	return med, true
}

// intervalStdDev is the population standard deviation of the intervals.
func intervalStdDev(ivals []float64) float64 {
	return math.Sqrt(stat.PopVariance(ivals, nil))
}

func (t *TimeDomain) markInvalid() {
	t.consecutiveInvalid++
	t.smoother.valid = false

	if t.consecutiveInvalid >= t.cfg.InvalidResetThreshold {
		// Persistent degradation: restart the derived state but keep the raw
		// sample window so recovery does not wait for a full refill.
		t.smoother.reset()
		t.quality = QualityPoor
		t.consecutiveInvalid = 0
	}
}
