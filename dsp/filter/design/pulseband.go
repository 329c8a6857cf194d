package design

import "github.com/cwbudde/algo-ppg/dsp/filter/biquad"

// PulseBandSampleRate is the sample rate (Hz) the default pulse-band
// sections were designed for.
const PulseBandSampleRate = 100

// PulseBandSOS returns the default 4th-order Butterworth bandpass for the
// pulsatile PPG band (0.5-4 Hz at 100 Hz) as two cascaded second-order
// sections.
//
// The coefficients come from scipy.signal:
//
//	butter(2, [0.5, 4], 'bandpass', fs=100, output='sos')
//
// Hardware variants with a different sample rate should design their own
// sections via [ButterworthBandpass] instead of rescaling this table.
func PulseBandSOS() []biquad.Coefficients {
	return []biquad.Coefficients{
		{
			B0: 0.00743916,
			B1: 0,
			B2: -0.00743916,
			A1: -1.86319070,
			A2: 0.87439781,
		},
		{
			B0: 1,
			B1: 0,
			B2: -1,
			A1: -1.94632328,
			A2: 0.95124514,
		},
	}
}
