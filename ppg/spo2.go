package ppg

import (
	"math"

	"github.com/cwbudde/algo-ppg/dsp/buffer"
)

// spo2Calculator turns per-channel AC/DC measurements into a smoothed,
// range-checked SpO2 reading. Both estimation strategies share it; they
// differ only in how the AC magnitudes are obtained (RMS vs spectral) and
// in the DC noise floor appropriate to each path.
type spo2Calculator struct {
	cal      Calibration
	rHistory *buffer.Ring

	dcFloor float64
	minIRAC float64
	minR    float64
	maxR    float64
	minOut  float64
	maxOut  float64

	// clearOnDCFail drops the R history when the DC level falls below the
	// floor, so a re-established contact starts from fresh statistics.
	clearOnDCFail bool

	value float64
	valid bool
}

func newSpO2Calculator(cfg *Config, dcFloor float64, clearOnDCFail bool) (*spo2Calculator, error) {
	rHistory, err := buffer.NewRing(cfg.RWindow)
	if err != nil {
		return nil, err
	}

	return &spo2Calculator{
		cal:           cfg.Calibration,
		rHistory:      rHistory,
		dcFloor:       dcFloor,
		minIRAC:       cfg.MinIRAC,
		minR:          cfg.MinR,
		maxR:          cfg.MaxR,
		minOut:        cfg.MinSpO2,
		maxOut:        cfg.MaxSpO2,
		clearOnDCFail: clearOnDCFail,
	}, nil
}

// update folds one AC/DC measurement pair into the reading. Every rejection
// path retains the previous value and only clears the validity flag.
func (c *spo2Calculator) update(redAC, redDC, irAC, irDC float64) {
	if redDC < c.dcFloor || irDC < c.dcFloor {
		c.valid = false
		if c.clearOnDCFail {
			c.rHistory.Reset()
		}

		return
	}

	if math.Abs(irAC) < c.minIRAC {
		c.valid = false
		return
	}

	r := (redAC / redDC) / (irAC / irDC)
	if r < c.minR || r > c.maxR {
		c.valid = false
		return
	}

	c.rHistory.Push(r)

	out := c.cal.Evaluate(c.rHistory.Mean())
	if out < c.minOut || out > c.maxOut {
		c.valid = false
		return
	}

	c.value = out
	c.valid = true
}

func (c *spo2Calculator) reset() {
	c.rHistory.Reset()
	c.value = 0
	c.valid = false
}
