package domain

import "sort"

// Breakpoints are the 20/40/60/80th percentile thresholds splitting a
// distribution into five rank-equal groups.
type Breakpoints [4]float64

// ComputeBreakpoints derives quintile breakpoints for an arbitrary selection
// of percent-change values. It is a pure function of its inputs: the same
// multiset of values yields the same breakpoints regardless of order.
//
// Selections of at least smallSampleThreshold values use rank-based quantiles
// (floor indices, not interpolated percentiles). Smaller selections of two or
// more values interpolate linearly between min and max, and the small-sample
// flag is set so the consuming UI can warn that the coloring is statistically
// unstable. Empty and singleton selections are undefined for quantiles; the
// cached global breakpoints are returned instead.
func ComputeBreakpoints(values []float64, global Breakpoints, smallSampleThreshold int) (Breakpoints, bool) {
	n := len(values)
	if n <= 1 {
		return global, false
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n < smallSampleThreshold {
		min, max := sorted[0], sorted[n-1]
		span := max - min
		return Breakpoints{
			min + span*0.2,
			min + span*0.4,
			min + span*0.6,
			min + span*0.8,
		}, true
	}

	return Breakpoints{
		sorted[n*20/100],
		sorted[n*40/100],
		sorted[n*60/100],
		sorted[n*80/100],
	}, false
}

// GlobalBreakpoints computes the full-dataset breakpoints cached at load time
// and used as the fallback for degenerate selections.
func GlobalBreakpoints(results []ComparisonResult, smallSampleThreshold int) Breakpoints {
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.ChangePct
	}
	bp, _ := ComputeBreakpoints(values, Breakpoints{}, smallSampleThreshold)
	return bp
}
