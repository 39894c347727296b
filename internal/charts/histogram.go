package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the bucket count used for every histogram on the dashboard.
const DefaultBins = 20

// Bin is one histogram bucket covering [Lo, Hi). The last bin of a set also
// includes Hi.
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Bins splits the finite values into n equal-width buckets spanning their
// range. NaN and infinite values are skipped. A constant input is widened to
// [v-0.5, v+0.5] so it still lands in a bucket of non-zero width. Nil is
// returned when no finite values remain.
func Bins(values []float64, n int) []Bin {
	if n <= 0 {
		n = DefaultBins
	}

	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if isFinite(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	dividers := floats.Span(make([]float64, n+1), lo, hi)
	// stat.Histogram bins are half-open; nudge the top divider so the
	// maximum falls in the last bin.
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	bins[n-1].Hi = hi
	return bins
}

// finitePairs returns the pairs where both x and y are usable by the renderer.
func finitePairs(xs, ys []float64) ([]float64, []float64, []int) {
	var fx, fy []float64
	var idx []int
	for i := range xs {
		if i >= len(ys) {
			break
		}
		if !isFinite(xs[i]) || !isFinite(ys[i]) {
			continue
		}
		fx = append(fx, xs[i])
		fy = append(fy, ys[i])
		idx = append(idx, i)
	}
	return fx, fy, idx
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
