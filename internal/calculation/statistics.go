package calculation

import "sort"

// Percentile returns the p-th quantile (0..1) of an ascending slice using
// linear interpolation between the closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	index := p * float64(n-1)
	lower := int(index)
	if index == float64(lower) {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*fraction
}

// ShareAtLeast returns the fraction of an ascending slice that is >= threshold
func ShareAtLeast(sorted []float64, threshold float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := sort.SearchFloat64s(sorted, threshold)
	return float64(len(sorted)-idx) / float64(len(sorted))
}
