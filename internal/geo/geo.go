// Package geo implements the point-membership tests behind spatial
// selections: axis-aligned viewport bounds and free-hand boundary polygons.
package geo

import "github.com/homeeconomics/PriceMaps/internal/domain"

// Bounds is an axis-aligned lat/lon box, the shape of a map viewport.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies within the box, edges inclusive.
func (b Bounds) Contains(p domain.Geo) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Valid reports whether the box has non-negative extent.
func (b Bounds) Valid() bool {
	return b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// Polygon is a simple polygon drawn by the user, vertices in order. The ring
// is implicitly closed; a duplicate closing vertex is tolerated.
type Polygon []domain.Geo

// BoundingBox returns the polygon's axis-aligned bounds, used as a cheap
// rejection test before the exact containment check.
func (pg Polygon) BoundingBox() Bounds {
	if len(pg) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: pg[0].Lat, MaxLat: pg[0].Lat,
		MinLon: pg[0].Lon, MaxLon: pg[0].Lon,
	}
	for _, v := range pg[1:] {
		if v.Lat < b.MinLat {
			b.MinLat = v.Lat
		}
		if v.Lat > b.MaxLat {
			b.MaxLat = v.Lat
		}
		if v.Lon < b.MinLon {
			b.MinLon = v.Lon
		}
		if v.Lon > b.MaxLon {
			b.MaxLon = v.Lon
		}
	}
	return b
}

// Contains reports whether the point lies inside the polygon using the
// even-odd crossing-number test. Free-hand input cannot be validated upfront,
// so degenerate polygons (fewer than three vertices) contain nothing rather
// than erroring. Points exactly on an edge classify by the half-open ray
// rule: the answer is implementation-defined but deterministic for identical
// input.
func (pg Polygon) Contains(p domain.Geo) bool {
	if len(pg) < 3 {
		return false
	}
	if !pg.BoundingBox().Contains(p) {
		return false
	}

	inside := false
	for i, j := 0, len(pg)-1; i < len(pg); j, i = i, i+1 {
		vi, vj := pg[i], pg[j]
		if (vi.Lon > p.Lon) != (vj.Lon > p.Lon) &&
			p.Lat < (vj.Lat-vi.Lat)*(p.Lon-vi.Lon)/(vj.Lon-vi.Lon)+vi.Lat {
			inside = !inside
		}
	}
	return inside
}
