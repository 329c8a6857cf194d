package biquad

import (
	"math"
	"testing"
)

// tolerance for floating-point comparisons.
const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// passthrough returns coefficients for a unity gain passthrough (B0=1, all else 0).
func passthrough() Coefficients {
	return Coefficients{B0: 1}
}

// twoTapAverage returns a simple two-tap averaging biquad.
// H(z) = 0.5*(1 + z^-1).
func twoTapAverage() Coefficients {
	return Coefficients{B0: 0.5, B1: 0.5}
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	st := s.State()
	if st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_Passthrough(t *testing.T) {
	s := NewSection(passthrough())
	input := []float64{1, 0, -1, 0.5, 0.25}
	for i, x := range input {
		y := s.ProcessSample(x)
		if !almostEqual(y, x, eps) {
			t.Errorf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// Hand-traced DF-II-T with specific coefficients:
	// B0=0.25, B1=0.5, B2=0.25, A1=-0.2, A2=0.04
	//
	// Step through with x = [1, 0, 0, 0]:
	//
	// n=0: y=0.25*1+0 = 0.25
	//      d0=0.5*1-(-0.2)*0.25+0 = 0.5+0.05 = 0.55
	//      d1=0.25*1-0.04*0.25 = 0.25-0.01 = 0.24
	//
	// n=1: y=0.25*0+0.55 = 0.55
	//      d0=0.5*0-(-0.2)*0.55+0.24 = 0.11+0.24 = 0.35
	//      d1=0.25*0-0.04*0.55 = -0.022
	//
	// n=2: y=0.35
	//      d0=-(-0.2)*0.35+(-0.022) = 0.07-0.022 = 0.048
	//      d1=-0.04*0.35 = -0.014
	//
	// n=3: y=0.048
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, x := range []float64{1, 0, 0, 0} {
		y := s.ProcessSample(x)
		if !almostEqual(y, want[i], 1e-9) {
			t.Errorf("sample %d: got %v, want %v", i, y, want[i])
		}
	}
}

func TestProcessBlock_MatchesPerSample(t *testing.T) {
	input := []float64{1, -0.5, 0.25, 0.75, -1, 0.3, 0.1, -0.2, 0.9}

	ref := NewSection(Coefficients{B0: 0.3, B1: 0.2, B2: 0.1, A1: -0.4, A2: 0.15})
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = ref.ProcessSample(x)
	}

	s := NewSection(Coefficients{B0: 0.3, B1: 0.2, B2: 0.1, A1: -0.4, A2: 0.15})
	got := make([]float64, len(input))
	copy(got, input)
	s.ProcessBlock(got)

	for i := range want {
		if !almostEqual(got[i], want[i], eps) {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if s.State() != ref.State() {
		t.Errorf("state mismatch: got %v, want %v", s.State(), ref.State())
	}
}

func TestSectionReset(t *testing.T) {
	s := NewSection(twoTapAverage())
	s.ProcessSample(1)
	s.ProcessSample(-1)
	s.Reset()
	if s.State() != [2]float64{0, 0} {
		t.Fatalf("state not cleared: %v", s.State())
	}
}

func TestSectionStateRoundTrip(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.5, B1: 0.3, B2: 0.2, A1: -0.1, A2: 0.05})
	s.ProcessSample(1)
	s.ProcessSample(0.5)

	saved := s.State()
	next := s.ProcessSample(0.25)

	s.SetState(saved)
	replay := s.ProcessSample(0.25)
	if !almostEqual(next, replay, eps) {
		t.Fatalf("replay after SetState: got %v, want %v", replay, next)
	}
}

func TestChainCascade(t *testing.T) {
	coeffs := []Coefficients{twoTapAverage(), twoTapAverage()}
	chain := NewChain(coeffs)
	if chain.NumSections() != 2 {
		t.Fatalf("NumSections = %d, want 2", chain.NumSections())
	}
	if chain.Order() != 4 {
		t.Fatalf("Order = %d, want 4", chain.Order())
	}

	// Two cascaded two-tap averages of an impulse: 0.25, 0.5, 0.25.
	want := []float64{0.25, 0.5, 0.25, 0}
	for i, x := range []float64{1, 0, 0, 0} {
		y := chain.ProcessSample(x)
		if !almostEqual(y, want[i], eps) {
			t.Errorf("sample %d: got %v, want %v", i, y, want[i])
		}
	}
}

func TestChainUpdateCoefficientsPreservesState(t *testing.T) {
	chain := NewChain([]Coefficients{twoTapAverage()})
	chain.ProcessSample(1)

	before := chain.Section(0).State()
	chain.UpdateCoefficients([]Coefficients{passthrough()})
	after := chain.Section(0).State()

	if before != after {
		t.Fatalf("state changed on same-size update: %v -> %v", before, after)
	}

	chain.UpdateCoefficients([]Coefficients{passthrough(), passthrough()})
	if chain.Section(0).State() != [2]float64{0, 0} {
		t.Fatalf("state not reset on resize")
	}
}

func TestChainReset(t *testing.T) {
	chain := NewChain([]Coefficients{twoTapAverage(), twoTapAverage()})
	chain.ProcessSample(1)
	chain.Reset()
	for i := 0; i < chain.NumSections(); i++ {
		if chain.Section(i).State() != [2]float64{0, 0} {
			t.Fatalf("section %d state not cleared", i)
		}
	}
}
