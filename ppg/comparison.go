package ppg

// Comparison drives both estimation methods over the same sample stream
// with fully isolated state, for side-by-side evaluation and calibration
// work. It costs the sum of both methods per sample.
type Comparison struct {
	td *TimeDomain
	fd *FrequencyDomain
}

// NewComparison builds both estimators from the same options.
func NewComparison(opts ...Option) (*Comparison, error) {
	td, err := NewTimeDomain(opts...)
	if err != nil {
		return nil, err
	}

	fd, err := NewFrequencyDomain(opts...)
	if err != nil {
		return nil, err
	}

	return &Comparison{td: td, fd: fd}, nil
}

// Process feeds one raw sample pair to both estimators.
func (c *Comparison) Process(rawRed, rawIR uint32) {
	c.td.Process(rawRed, rawIR)
	c.fd.Process(rawRed, rawIR)
}

// TimeDomain returns the embedded time-domain estimator.
func (c *Comparison) TimeDomain() *TimeDomain { return c.td }

// FrequencyDomain returns the embedded frequency-domain estimator.
func (c *Comparison) FrequencyDomain() *FrequencyDomain { return c.fd }

// Reset restores both estimators to their initial state.
func (c *Comparison) Reset() {
	c.td.Reset()
	c.fd.Reset()
}
