package buffer

import "testing"

func TestNewRingInvalidCapacity(t *testing.T) {
	if _, err := NewRing(0); err == nil {
		t.Fatalf("capacity 0: want error")
	}
	if _, err := NewRing(-5); err == nil {
		t.Fatalf("negative capacity: want error")
	}
}

func TestRingFillTracking(t *testing.T) {
	r, err := NewRing(3)
	if err != nil {
		t.Fatal(err)
	}

	if r.Full() {
		t.Fatalf("empty ring reports full")
	}

	r.Push(1)
	r.Push(2)
	if r.Full() || r.Len() != 2 {
		t.Fatalf("after 2 pushes: full=%v len=%d", r.Full(), r.Len())
	}

	r.Push(3)
	if !r.Full() || r.Len() != 3 {
		t.Fatalf("after 3 pushes: full=%v len=%d", r.Full(), r.Len())
	}

	// Stays full after wrap.
	r.Push(4)
	if !r.Full() || r.Len() != 3 {
		t.Fatalf("after wrap: full=%v len=%d", r.Full(), r.Len())
	}
}

func TestRingPushReturnsDisplaced(t *testing.T) {
	r, _ := NewRing(2)

	old, idx := r.Push(10)
	if old != 0 || idx != 0 {
		t.Fatalf("first push: old=%v idx=%d", old, idx)
	}

	r.Push(20)

	old, idx = r.Push(30)
	if old != 10 || idx != 0 {
		t.Fatalf("wrap push: old=%v idx=%d, want 10, 0", old, idx)
	}
}

func TestRingBefore(t *testing.T) {
	r, _ := NewRing(5)
	for i := 1; i <= 5; i++ {
		r.Push(float64(i))
	}
	// Slots: [1 2 3 4 5], last write at idx 4.
	if got := r.Before(4, 0); got != 5 {
		t.Errorf("Before(4,0) = %v, want 5", got)
	}
	if got := r.Before(4, 3); got != 2 {
		t.Errorf("Before(4,3) = %v, want 2", got)
	}

	// Wrap: write 6 into slot 0, then 4 steps back from slot 0 is 2.
	r.Push(6)
	if got := r.Before(0, 4); got != 2 {
		t.Errorf("Before(0,4) = %v, want 2", got)
	}
}

func TestRingCopyToChronological(t *testing.T) {
	r, _ := NewRing(4)
	for i := 1; i <= 6; i++ {
		r.Push(float64(i))
	}

	dst := make([]float64, 4)
	n := r.CopyTo(dst)
	if n != 4 {
		t.Fatalf("CopyTo = %d, want 4", n)
	}

	want := []float64{3, 4, 5, 6}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestRingCopyToPartial(t *testing.T) {
	r, _ := NewRing(4)
	r.Push(7)
	r.Push(8)

	dst := make([]float64, 4)
	n := r.CopyTo(dst)
	if n != 2 || dst[0] != 7 || dst[1] != 8 {
		t.Fatalf("partial CopyTo: n=%d dst=%v", n, dst)
	}
}

func TestRingMean(t *testing.T) {
	r, _ := NewRing(4)
	if r.Mean() != 0 {
		t.Fatalf("empty mean = %v", r.Mean())
	}

	r.Push(2)
	r.Push(4)
	if r.Mean() != 3 {
		t.Fatalf("partial mean = %v, want 3", r.Mean())
	}

	r.Push(6)
	r.Push(8)
	r.Push(10) // displaces 2
	if r.Mean() != 7 {
		t.Fatalf("full mean = %v, want 7", r.Mean())
	}
}

func TestRingReset(t *testing.T) {
	r, _ := NewRing(3)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	r.Reset()

	if r.Full() || r.Len() != 0 {
		t.Fatalf("after reset: full=%v len=%d", r.Full(), r.Len())
	}
	for i := 0; i < r.Cap(); i++ {
		if r.At(i) != 0 {
			t.Fatalf("slot %d not cleared: %v", i, r.At(i))
		}
	}
}
