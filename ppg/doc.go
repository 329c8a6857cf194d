// Package ppg extracts heart rate and blood-oxygen saturation (SpO2) from
// raw two-wavelength photoplethysmography samples.
//
// The pipeline consumes one (red, IR) 18-bit ADC sample pair per tick at a
// nominal 100 Hz and produces smoothed, validated readings. Two functionally
// equivalent estimation strategies are provided behind the [Estimator]
// interface:
//
//   - [MethodTimeDomain]: moving-average detrend + Butterworth bandpass
//     filtering, adaptive peak detection over a rolling window, and
//     inter-peak interval statistics.
//   - [MethodFrequencyDomain]: single-pole AC/DC extraction and a sliding
//     discrete period transform (DPT) with spectral peak search.
//
// Both strategies share the quadratic R-to-SpO2 calibration and the same
// smoothing/validation vocabulary (median filtering, rate limiting, EMA,
// stability counting). Processing is single-threaded, deterministic, and
// allocation-free per sample after construction. Readings are never fatal:
// every rejection path retains the previous value and is reported through
// the validity flags, so consumers must check HeartRateValid/SpO2Valid
// before acting on a reading.
package ppg
