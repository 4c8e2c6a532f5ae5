package telemetry

import (
	"math"
	"sort"

	"github.com/cvhariharan/actordir/models"
)

// Percentile returns the nearest-rank percentile of ascending-sorted values:
// the value at index ceil(p/100 * n) - 1. It returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(n)/100)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// Stats is the extended summary used by the load test command.
type Stats struct {
	models.LatencySummary
	P75 float64
	P90 float64
	Min float64
	Max float64
}

// Summarize sorts a copy of values and computes the summary.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return Stats{
		LatencySummary: models.LatencySummary{
			Count: len(sorted),
			Mean:  sum / float64(len(sorted)),
			P50:   Percentile(sorted, 50),
			P95:   Percentile(sorted, 95),
			P99:   Percentile(sorted, 99),
		},
		P75: Percentile(sorted, 75),
		P90: Percentile(sorted, 90),
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
	}
}
