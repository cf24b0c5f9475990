// Package domain models Zillow Home Value Index (ZHVI) data and the
// year-over-year comparison engine built on top of it.
//
// # Data Source
//
// Price series originate from the Zillow Research public CSV exports,
// available at https://www.zillow.com/research/data/. The ZIP-level export is
// a wide CSV: one row per ZIP Code Tabulation Area (ZCTA) with identifying
// columns (RegionName, City, State, ...) followed by one column per calendar
// month, headed "YYYY-MM-DD" (always the last day Zillow stamps for the
// month; parsed here to the first of the month, UTC). Cells may be empty when
// Zillow has no index value for that ZIP and month.
//
// # Reference Data Conventions
//
// ZCTA codes:
//
//	Five digits, zero-padded. Zillow's RegionName drops leading zeros
//	("501" for Holtsville, NY), so all joins normalize to five digits first.
//
// Population:
//
//	Census population per ZCTA from a separate reference CSV. ZIPs absent
//	from the file (or with unparseable counts) take a configured fallback so
//	bubble sizing never divides by zero.
//
// Centroids:
//
//	Representative WGS-84 (lat, lon) point per ZCTA, pre-extracted from the
//	Census cartographic boundary files. A region without a centroid cannot be
//	placed on a map and is dropped during the join.
//
// # Year-over-Year Resolution
//
// The comparison column for "twelve months prior" is resolved by exact
// (year-1, month) match first. Real feeds drift in reporting cadence, so a
// missing anniversary column degrades to the nearest month within year-1
// (ties go to the earlier column in input order). A target year with no data
// at all is a hard failure: no delta can be computed for that run. See
// [ResolveComparisonPeriod].
//
// # Quantile Breakpoints
//
// Map coloring uses 20/40/60/80th percentile thresholds over whichever
// regions are currently selected. Selections of fewer than five regions use
// min/max interpolation instead of rank quantiles and are flagged as small
// samples; empty or singleton selections fall back to the full-dataset
// breakpoints computed at load time. See [ComputeBreakpoints].
package domain
