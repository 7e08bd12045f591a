package alerting

import (
	"math"
	"slices"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"
)

// madConsistencyFactor rescales the raw median absolute deviation so that it
// approximates a standard deviation for normally distributed data.
// 0.6745 is the 75th percentile of the standard normal distribution.
const madConsistencyFactor float64 = 1.0 / 0.6745

// DefaultMinimumWindow is the fewest history points a baseline may be
// computed from before the z-score rule is disabled.
const DefaultMinimumWindow int = 5

// NewBaseline computes robust statistics over a history window. The window
// must not contain the value under evaluation; callers are expected to slice
// it off before calling. The input is not modified.
func NewBaseline(window []float64, minimumWindow int) types.Baseline {
	if minimumWindow <= 0 {
		minimumWindow = DefaultMinimumWindow
	}

	b := types.Baseline{
		WindowSize: len(window),
		Sufficient: len(window) >= minimumWindow,
	}

	if len(window) == 0 {
		return b
	}

	b.Median = median(window)
	b.MAD = mad(window, b.Median) * madConsistencyFactor

	return b
}

// median returns the middle value of the sorted input, or the average of the
// two middle values for an even count. The input is copied before sorting so
// the result is invariant under reordering.
func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// mad returns the raw median absolute deviation from m.
func mad(values []float64, m float64) float64 {
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - m)
	}
	return median(deviations)
}
