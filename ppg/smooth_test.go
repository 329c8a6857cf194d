package ppg

import (
	"math"
	"testing"
)

func newTestSmoother(t *testing.T) *hrSmoother {
	t.Helper()

	s, err := newHRSmoother(5, 0, 6, 0.2, 6, 2)
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func TestSmootherSeedsFromFirstUpdate(t *testing.T) {
	s := newTestSmoother(t)

	out := s.update(72)
	if out != 72 {
		t.Fatalf("first update = %v, want 72", out)
	}
	if s.valid {
		t.Fatal("valid after a single update")
	}
}

func TestSmootherValidAfterStableUpdates(t *testing.T) {
	s := newTestSmoother(t)

	s.update(72)
	s.update(72)
	if s.valid {
		t.Fatal("valid after only one stable change")
	}

	s.update(72)
	if !s.valid {
		t.Fatal("not valid after two stable changes")
	}
	if s.value != 72 {
		t.Fatalf("value = %v, want 72", s.value)
	}
}

func TestSmootherRateLimitsJumps(t *testing.T) {
	s := newTestSmoother(t)

	s.update(70)
	out := s.update(200)

	// history {70,200} -> median 135, limited to 76, EMA 0.2*76+0.8*70.
	if math.Abs(out-71.2) > 1e-12 {
		t.Fatalf("rate-limited output = %v, want 71.2", out)
	}
}

func TestSmootherInvalidateRetainsValue(t *testing.T) {
	s := newTestSmoother(t)

	for i := 0; i < 4; i++ {
		s.update(72)
	}
	if !s.valid {
		t.Fatal("not valid before invalidate")
	}

	s.invalidate()

	if s.valid {
		t.Fatal("still valid after invalidate")
	}
	if s.value != 72 {
		t.Fatalf("value = %v, want retained 72", s.value)
	}
	if s.ema != 0 {
		t.Fatalf("ema = %v, want 0", s.ema)
	}

	// Recovery re-seeds from the next plausible estimate.
	s.update(80)
	if s.valid {
		t.Fatal("valid immediately after recovery")
	}
}

func TestSmootherSecondaryAverage(t *testing.T) {
	s, err := newHRSmoother(7, 7, 8, 0.15, 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	var out float64
	for i := 0; i < 20; i++ {
		out = s.update(60)
	}

	if math.Abs(out-60) > 1e-9 {
		t.Fatalf("converged output = %v, want 60", out)
	}
	if !s.valid {
		t.Fatal("not valid after converged stream")
	}
}
