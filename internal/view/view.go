// Package view implements the interactive selection model: which regions are
// "currently relevant" (viewport or drawn boundary), the quantile breakpoints
// for that selection, and the debounced recomputation that ties them together.
package view

import (
	"time"

	"github.com/homeeconomics/PriceMaps/internal/domain"
	"github.com/homeeconomics/PriceMaps/internal/geo"
)

// Mode identifies how the active selection was chosen.
type Mode string

const (
	// ModeGlobal is the initial state: every region is selected.
	ModeGlobal Mode = "global"
	// ModeViewport selects regions whose centroid lies in the visible bounds.
	ModeViewport Mode = "viewport"
	// ModeBoundary selects regions whose centroid lies in a drawn polygon.
	ModeBoundary Mode = "boundary"
)

// Snapshot is the immutable outcome of one recomputation. A new Snapshot
// fully replaces the previous one; no field is ever mutated in place.
type Snapshot struct {
	Mode          Mode                      `json:"mode"`
	Selected      []domain.ComparisonResult `json:"selected"`
	Breakpoints   domain.Breakpoints        `json:"breakpoints"`
	SmallSample   bool                      `json:"small_sample"`
	UsedGlobal    bool                      `json:"used_global"`
	Count         int                       `json:"count"`
	MinPopulation int                       `json:"min_population"`
	MaxPopulation int                       `json:"max_population"`
	GeneratedAt   time.Time                 `json:"generated_at"`
}

// SelectViewport returns the regions whose centroid lies within the bounds.
func SelectViewport(results []domain.ComparisonResult, bounds geo.Bounds) []domain.ComparisonResult {
	selected := make([]domain.ComparisonResult, 0, len(results))
	for _, r := range results {
		if bounds.Contains(r.Centroid) {
			selected = append(selected, r)
		}
	}
	return selected
}

// SelectBoundary returns the regions whose centroid lies within the polygon.
// A degenerate polygon selects nothing.
func SelectBoundary(results []domain.ComparisonResult, boundary geo.Polygon) []domain.ComparisonResult {
	selected := make([]domain.ComparisonResult, 0, len(results))
	for _, r := range results {
		if boundary.Contains(r.Centroid) {
			selected = append(selected, r)
		}
	}
	return selected
}

// Summarize builds a Snapshot for a selection: breakpoints (with global
// fallback for degenerate selections), small-sample flag, count, and the
// population range of the selected regions.
func Summarize(mode Mode, selected []domain.ComparisonResult, global domain.Breakpoints, smallSampleThreshold int, at time.Time) Snapshot {
	values := make([]float64, len(selected))
	for i, r := range selected {
		values[i] = r.ChangePct
	}
	breakpoints, smallSample := domain.ComputeBreakpoints(values, global, smallSampleThreshold)

	snap := Snapshot{
		Mode:        mode,
		Selected:    selected,
		Breakpoints: breakpoints,
		SmallSample: smallSample,
		UsedGlobal:  len(selected) <= 1,
		Count:       len(selected),
		GeneratedAt: at,
	}

	for i, r := range selected {
		if i == 0 || r.Population < snap.MinPopulation {
			snap.MinPopulation = r.Population
		}
		if r.Population > snap.MaxPopulation {
			snap.MaxPopulation = r.Population
		}
	}

	return snap
}
