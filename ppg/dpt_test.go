package ppg

import "testing"

func newSmallDPT(t *testing.T) *dptTransform {
	t.Helper()

	cfg := DefaultConfig()
	cfg.MinPeriod = 4
	cfg.MaxPeriod = 8
	cfg.DPTWindow = 32

	d, err := newDPTTransform(&cfg)
	if err != nil {
		t.Fatal(err)
	}

	return d
}

// An input that is exactly periodic at a candidate period contributes
// nothing to that period's coefficient once the window is full: the new
// sample and the sample one period back cancel. Any off-by-one in the
// old-sample offset breaks the cancellation, so this pins the index
// arithmetic in both directions.
func TestExactlyPeriodicInputCancelsAtItsPeriod(t *testing.T) {
	d := newSmallDPT(t)

	maxOffPeriod := 0.0
	for i := 0; i < 128; i++ {
		var x float64
		if i%4 == 0 {
			x = 4
		}
		d.push(x)

		if d.ready() {
			d.computeSpectrum()
			if d.mag[1] > maxOffPeriod { // period 5
				maxOffPeriod = d.mag[1]
			}
		}
	}

	d.computeSpectrum()
	if d.mag[0] != 0 { // period 4
		t.Fatalf("matching-period magnitude = %v, want exact 0", d.mag[0])
	}
	if maxOffPeriod < 0.5 {
		t.Fatalf("off-period magnitude never rose above %v, update looks inert", maxOffPeriod)
	}
}

func TestDPTSilentInputHasNoPeak(t *testing.T) {
	d := newSmallDPT(t)

	for i := 0; i < 64; i++ {
		d.push(0)
	}

	d.computeSpectrum()
	scratch := make([]float64, len(d.mag))
	if p := d.peakPeriod(0.5, 0.5, scratch); p != 0 {
		t.Fatalf("peak period = %d, want 0 for silence", p)
	}
}

func TestDPTNotReadyBeforeWindowFills(t *testing.T) {
	d := newSmallDPT(t)

	for i := 0; i < 31; i++ {
		d.push(1)
		if d.ready() {
			t.Fatalf("ready after %d of 32 samples", i+1)
		}
	}

	d.push(1)
	if !d.ready() {
		t.Fatal("not ready after window filled")
	}
}

func TestDPTResetClearsCoefficients(t *testing.T) {
	d := newSmallDPT(t)

	for i := 0; i < 64; i++ {
		d.push(float64(i % 5))
	}
	d.reset()

	if d.ready() {
		t.Fatal("ready after reset")
	}
	for i, v := range d.re {
		if v != 0 || d.im[i] != 0 {
			t.Fatalf("coefficient %d not cleared: %v + %vi", i, v, d.im[i])
		}
	}
}
