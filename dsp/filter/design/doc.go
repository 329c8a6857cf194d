// Package design provides biquad coefficient design for the filters used in
// the PPG processing pipeline: RBJ lowpass/highpass/bandpass prototypes,
// Butterworth cascades, and the default pulse-band (0.5-4 Hz) second-order
// sections.
//
// The processing runtime lives in dsp/filter/biquad; this package only
// computes coefficients.
package design
