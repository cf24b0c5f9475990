package domain

import (
	"fmt"
	"time"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SeriesRow is one region's raw price series. Values is sparse: a month
// absent from the map means Zillow published no index value for it.
type SeriesRow struct {
	ZCTA   string
	City   string
	State  string
	Values map[time.Time]float64
}

// Value returns the index value for a month and whether it is present.
func (r SeriesRow) Value(month time.Time) (float64, bool) {
	v, ok := r.Values[month]
	return v, ok
}

// TimeSeriesTable holds the parsed ZHVI export. Months is the shared column
// set, strictly ascending, each normalized to the first of the month UTC.
type TimeSeriesTable struct {
	Months []time.Time
	Rows   []SeriesRow
}

// LatestMonth returns the most recent month column.
func (t TimeSeriesTable) LatestMonth() (time.Time, bool) {
	if len(t.Months) == 0 {
		return time.Time{}, false
	}
	return t.Months[len(t.Months)-1], true
}

// Region is the joined, immutable record for one ZCTA: series identity plus
// centroid and population from the reference sources.
type Region struct {
	ZCTA       string `json:"zcta"`
	Name       string `json:"name"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Centroid   Geo    `json:"centroid"`
	Population int    `json:"population"`
}

// ComparisonResult is the per-region year-over-year outcome. Regions missing
// either endpoint, with a non-positive prior, or outside the configured
// clamps never appear in a result set.
type ComparisonResult struct {
	Region
	CurrentPrice float64 `json:"current_price"`
	PriorPrice   float64 `json:"prior_price"`
	ChangePct    float64 `json:"change_pct"`
}

// Limits are the fixed data-quality clamps applied to computed metrics.
type Limits struct {
	MinPrice     float64
	MaxPrice     float64
	MinYoYChange float64
	MaxYoYChange float64
}

// DisplayName builds the human-facing label for a region: "City, ST" when the
// series carries a city, otherwise the reference name, otherwise "ZIP 12345".
func DisplayName(zcta, city, state, refName string) string {
	if city != "" && state != "" {
		return fmt.Sprintf("%s, %s", city, state)
	}
	if refName != "" {
		return refName
	}
	return "ZIP " + zcta
}

// ZeroPadZCTA normalizes a ZIP code to the five-digit ZCTA form. Zillow's
// RegionName column drops leading zeros.
func ZeroPadZCTA(raw string) string {
	for len(raw) < 5 {
		raw = "0" + raw
	}
	return raw
}
