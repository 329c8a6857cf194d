package ppg

import (
	"math"

	"github.com/cwbudde/algo-ppg/dsp/buffer"
)

// hrSmoother is the shared HR smoothing and validation chain: median filter
// over a short history, rate limiting against the running EMA, exponential
// smoothing, an optional secondary moving average, and a stability counter
// that gates the validity flag.
type hrSmoother struct {
	history *buffer.Ring
	scratch []float64
	post    *buffer.Ring // nil when no secondary averaging is configured

	maxChange float64
	alpha     float64
	band      float64
	threshold int

	ema    float64
	stable int
	value  float64
	valid  bool
}

func newHRSmoother(medianWindow, postWindow int, maxChange, alpha, band float64, threshold int) (*hrSmoother, error) {
	history, err := buffer.NewRing(medianWindow)
	if err != nil {
		return nil, err
	}

	var post *buffer.Ring
	if postWindow > 1 {
		post, err = buffer.NewRing(postWindow)
		if err != nil {
			return nil, err
		}
	}

	return &hrSmoother{
		history:   history,
		scratch:   make([]float64, medianWindow),
		post:      post,
		maxChange: maxChange,
		alpha:     alpha,
		band:      band,
		threshold: threshold,
	}, nil
}

// update folds one plausible bpm estimate into the chain and returns the
// smoothed output. The validity flag turns on only after the EMA has moved
// less than the stability band for threshold consecutive updates.
func (s *hrSmoother) update(bpm float64) float64 {
	s.history.Push(bpm)
	n := s.history.CopyTo(s.scratch)
	med := median(s.scratch[:n])

	if s.ema > 0 {
		diff := med - s.ema
		if diff > s.maxChange {
			med = s.ema + s.maxChange
		} else if diff < -s.maxChange {
			med = s.ema - s.maxChange
		}
	}

	if s.ema == 0 {
		s.ema = med
	} else {
		prev := s.ema
		s.ema = s.alpha*med + (1-s.alpha)*s.ema

		if math.Abs(s.ema-prev) < s.band {
			s.stable++
		} else {
			s.stable = 0
		}
	}

	s.valid = s.stable >= s.threshold

	out := s.ema
	if s.post != nil {
		s.post.Push(out)
		out = s.post.Mean()
	}
	s.value = out

	return out
}

// invalidate records a failed estimation cycle: the EMA and stability state
// restart from scratch while the last output value is retained for display.
func (s *hrSmoother) invalidate() {
	s.ema = 0
	s.stable = 0
	s.valid = false
	if s.post != nil {
		s.post.Reset()
	}
}

func (s *hrSmoother) reset() {
	s.history.Reset()
	if s.post != nil {
		s.post.Reset()
	}
	s.ema = 0
	s.stable = 0
	s.value = 0
	s.valid = false
}
