package ppg

// acdc extracts the AC and DC components of a raw channel with two
// single-pole recursive filters, as used by the frequency-domain path.
//
// The AC output is the negated first difference of a leaky integrator:
//
//	w[n]  = x[n] + alpha*w[n-1]
//	ac[n] = -(w[n] - w[n-1])
//
// The sign inversion is part of the derivative-of-leaky-integrator
// identity; dropping it flips the waveform polarity and breaks the
// downstream phase relationship.
type acdc struct {
	alpha float64
	w     float64
	dc    float64
}

// process folds one raw sample and returns the current AC and DC values.
func (f *acdc) process(x float64) (ac, dc float64) {
	w := x + f.alpha*f.w
	ac = -(w - f.w)
	f.w = w

	f.dc = f.alpha*f.dc + (1-f.alpha)*x

	return ac, f.dc
}

func (f *acdc) reset() {
	f.w = 0
	f.dc = 0
}
