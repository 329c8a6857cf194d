package ppg

// Quality grades the usability of the incoming waveform from three
// independent checks (AC/DC ratio, standard deviation, peak-to-peak
// amplitude). It steers the adaptive peak threshold and is exposed for
// display purposes.
type Quality int

const (
	QualityPoor Quality = iota
	QualityFair
	QualityGood
)

func (q Quality) String() string {
	switch q {
	case QualityPoor:
		return "poor"
	case QualityFair:
		return "fair"
	case QualityGood:
		return "good"
	default:
		return "unknown"
	}
}
