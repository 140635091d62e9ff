// Package geo implements the geospatial primitives behind the geo index:
// geohash encoding at the fixed write precision, radius coverage with
// neighborhood expansion, haversine distance and bounding-box containment.
package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

const (
	// Precision is the geohash length every write indexes under. At nine
	// characters a cell spans roughly 4.8m x 4.8m at the equator.
	Precision = 9

	// earthRadiusMeters is the spherical Earth approximation used for
	// haversine distances.
	earthRadiusMeters = 6371000.0

	// metersPerDegree converts latitude degrees (and equatorial longitude
	// degrees) into meters: 2*pi*R / 360.
	metersPerDegree = 2 * math.Pi * earthRadiusMeters / 360
)

// Point is a position in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParsePoint recognizes a GeoPoint-shaped value: an object with exactly the
// fields lat and lon, both finite doubles.
func ParsePoint(value any) (Point, bool) {
	object, ok := value.(map[string]any)
	if !ok || len(object) != 2 {
		return Point{}, false
	}
	lat, ok := finiteNumber(object["lat"])
	if !ok {
		return Point{}, false
	}
	lon, ok := finiteNumber(object["lon"])
	if !ok {
		return Point{}, false
	}
	return Point{Lat: lat, Lon: lon}, true
}

func finiteNumber(v any) (float64, bool) {
	var f float64
	switch value := v.(type) {
	case float64:
		f = value
	case int:
		f = float64(value)
	case int64:
		f = float64(value)
	case uint64:
		f = float64(value)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Encode returns the write-precision geohash cell of the point.
func Encode(p Point) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lon, Precision)
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// CoverRadius returns geohash cell prefixes whose union covers the circle
// around center. The precision is shortened until a single cell spans the
// radius, then the cell of the center and its eight neighbors at that
// precision form the cover; stored precision-9 hashes are matched by
// prefix. A nil result means no precision is coarse enough and the caller
// must scan the whole field.
func CoverRadius(center Point, radiusMeters float64) []string {
	for precision := Precision; precision >= 1; precision-- {
		cell := geohash.EncodeWithPrecision(center.Lat, center.Lon, uint(precision))
		width, height := cellSpanMeters(cell)
		if math.Min(width, height) < radiusMeters {
			continue
		}

		cells := append([]string{cell}, geohash.Neighbors(cell)...)
		return dedupe(cells)
	}
	return nil
}

// cellSpanMeters approximates the width and height of a geohash cell.
// Width shrinks with the cosine of the latitude; at the poles it degrades
// to zero, which simply forces a coarser precision.
func cellSpanMeters(cell string) (width, height float64) {
	box := geohash.BoundingBox(cell)
	midLat := (box.MinLat + box.MaxLat) / 2
	height = (box.MaxLat - box.MinLat) * metersPerDegree
	width = (box.MaxLng - box.MinLng) * metersPerDegree * math.Cos(midLat*math.Pi/180)
	return width, height
}

func dedupe(cells []string) []string {
	seen := make(map[string]struct{}, len(cells))
	unique := cells[:0]
	for _, cell := range cells {
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		unique = append(unique, cell)
	}
	return unique
}

// Rect is a latitude/longitude rectangle: longitude on x, latitude on y.
type Rect struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Contains reports half-open containment: the minimum edges are inside,
// the maximum edges are outside. The same rule applies to every box query
// so results are consistent across queries.
func (r Rect) Contains(p Point) bool {
	return p.Lat >= r.MinLat && p.Lat < r.MaxLat &&
		p.Lon >= r.MinLon && p.Lon < r.MaxLon
}
