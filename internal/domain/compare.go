package domain

import (
	"errors"
	"time"
)

// ErrNoComparisonPeriod is returned when the prior year has no data at all.
// Without a comparison column no year-over-year metric can be computed, so
// callers must treat this as fatal for the run.
var ErrNoComparisonPeriod = errors.New("no comparison period available")

// ResolveComparisonPeriod finds the column representing "twelve months prior"
// to latest among the available month columns.
//
// An exact (year-1, month) match wins. Failing that, the nearest month within
// year-1 is used; equidistant candidates resolve to the earlier column in
// input order. Reporting cadence drifts in real feeds, so the nearest-month
// degrade is deliberate rather than an error.
func ResolveComparisonPeriod(months []time.Time, latest time.Time) (time.Time, error) {
	targetYear := latest.Year() - 1
	targetMonth := latest.Month()

	for _, m := range months {
		if m.Year() == targetYear && m.Month() == targetMonth {
			return m, nil
		}
	}

	var (
		best     time.Time
		bestDist = -1
	)
	for _, m := range months {
		if m.Year() != targetYear {
			continue
		}
		dist := int(m.Month()) - int(targetMonth)
		if dist < 0 {
			dist = -dist
		}
		// Strict less-than keeps the first-encountered candidate on ties.
		if bestDist < 0 || dist < bestDist {
			best = m
			bestDist = dist
		}
	}
	if bestDist < 0 {
		return time.Time{}, ErrNoComparisonPeriod
	}
	return best, nil
}

// PercentChange computes (current-prior)/prior*100. The second return is
// false when prior is non-positive, which would produce a misleading or
// infinite percentage; callers exclude such regions rather than zero-fill.
func PercentChange(current, prior float64) (float64, bool) {
	if prior <= 0 {
		return 0, false
	}
	return (current - prior) / prior * 100, true
}

// ExclusionTally counts regions dropped from a comparison run by reason.
type ExclusionTally struct {
	MissingValue     int
	NonpositivePrior int
	YoYClamp         int
	PriceClamp       int
}

// Total returns the number of excluded regions.
func (t ExclusionTally) Total() int {
	return t.MissingValue + t.NonpositivePrior + t.YoYClamp + t.PriceClamp
}

// SeriesComparison is a per-region comparison before the geographic join:
// series identity plus the computed endpoint values and percent change.
type SeriesComparison struct {
	ZCTA         string
	City         string
	State        string
	CurrentPrice float64
	PriorPrice   float64
	ChangePct    float64
}

// BuildComparisons computes the year-over-year change for every row with both
// endpoint values present, applying the configured clamps. Exclusions are
// silent per region but tallied for observability.
func BuildComparisons(table TimeSeriesTable, latest, prior time.Time, limits Limits) ([]SeriesComparison, ExclusionTally) {
	results := make([]SeriesComparison, 0, len(table.Rows))
	var tally ExclusionTally

	for _, row := range table.Rows {
		current, okCur := row.Value(latest)
		priorVal, okPrior := row.Value(prior)
		if !okCur || !okPrior {
			tally.MissingValue++
			continue
		}

		change, ok := PercentChange(current, priorVal)
		if !ok {
			tally.NonpositivePrior++
			continue
		}
		if change < limits.MinYoYChange || change > limits.MaxYoYChange {
			tally.YoYClamp++
			continue
		}
		if current < limits.MinPrice || current > limits.MaxPrice {
			tally.PriceClamp++
			continue
		}

		results = append(results, SeriesComparison{
			ZCTA:         ZeroPadZCTA(row.ZCTA),
			City:         row.City,
			State:        row.State,
			CurrentPrice: current,
			PriorPrice:   priorVal,
			ChangePct:    change,
		})
	}

	return results, tally
}

// JoinRegions attaches centroids and populations to the comparison set.
// The centroid join is inner (a region without coordinates cannot be mapped);
// the population join is left with the configured default filling gaps.
// Returns the joined results and the count dropped for lack of a centroid.
func JoinRegions(comps []SeriesComparison, centroids map[string]Geo, populations map[string]int, names map[string]string, defaultPopulation int) ([]ComparisonResult, int) {
	results := make([]ComparisonResult, 0, len(comps))
	dropped := 0

	for _, c := range comps {
		centroid, ok := centroids[c.ZCTA]
		if !ok {
			dropped++
			continue
		}

		population, ok := populations[c.ZCTA]
		if !ok || population <= 0 {
			population = defaultPopulation
		}

		results = append(results, ComparisonResult{
			Region: Region{
				ZCTA:       c.ZCTA,
				Name:       DisplayName(c.ZCTA, c.City, c.State, names[c.ZCTA]),
				City:       c.City,
				State:      c.State,
				Centroid:   centroid,
				Population: population,
			},
			CurrentPrice: c.CurrentPrice,
			PriorPrice:   c.PriorPrice,
			ChangePct:    c.ChangePct,
		})
	}

	return results, dropped
}
