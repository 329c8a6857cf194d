package ppg

import "fmt"

// Estimator is the strategy interface shared by both estimation methods.
// Implementations are not safe for concurrent use; drive each instance from
// a single goroutine.
type Estimator interface {
	// Process consumes one raw (red, IR) ADC sample pair.
	Process(rawRed, rawIR uint32)

	// HeartRate returns the latest smoothed heart rate in bpm.
	HeartRate() float64

	// SpO2 returns the latest blood-oxygen saturation in percent.
	SpO2() float64

	// HeartRateValid reports whether HeartRate currently passes the
	// stability and plausibility checks.
	HeartRateValid() bool

	// SpO2Valid reports whether SpO2 currently passes the range checks.
	SpO2Valid() bool

	// Reset restores the estimator to its initial state.
	Reset()
}

// New constructs an estimator for the given method. The method is fixed for
// the lifetime of the estimator.
func New(method Method, opts ...Option) (Estimator, error) {
	switch method {
	case MethodTimeDomain:
		return NewTimeDomain(opts...)
	case MethodFrequencyDomain:
		return NewFrequencyDomain(opts...)
	default:
		return nil, fmt.Errorf("%w: unknown method %d", ErrInvalidConfig, int(method))
	}
}
