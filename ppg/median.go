package ppg

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// median sorts scratch in place and returns its median (average of the two
// middle values for even lengths). Returns 0 for an empty slice. Callers
// must pass a scratch copy, never a canonical buffer.
func median(scratch []float64) float64 {
	if len(scratch) == 0 {
		return 0
	}

	sort.Float64s(scratch)

	return stat.Quantile(0.5, stat.LinInterp, scratch, nil)
}
