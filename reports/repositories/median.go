package repositories

import (
	"math"
	"sort"
)

// median of a sample; an even-length sample averages the middle pair.
// Empty input yields NaN.
func median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	data := make([]float64, len(values))
	copy(data, values)
	sort.Float64s(data)

	mid := len(data) / 2
	if len(data)%2 == 1 {
		return data[mid]
	}
	return (data[mid-1] + data[mid]) / 2.0
}
