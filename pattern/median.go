package pattern

import "sort"

// median returns the median of values: the middle element for an odd-sized
// set, and the mean of the two middle elements for an even-sized set
// (spec.md §4.6).
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
