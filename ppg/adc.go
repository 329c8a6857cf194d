package ppg

// ADCMax is the full-scale value of the 18-bit ADC front end.
const ADCMax = 1<<18 - 1

// adc18 converts a raw ADC word to float64, saturating at the 18-bit ceiling.
// Sensor bridges occasionally deliver words with stale status bits above the
// sample field; clamping keeps them from injecting huge transients.
func adc18(raw uint32) float64 {
	if raw > ADCMax {
		raw = ADCMax
	}

	return float64(raw)
}
