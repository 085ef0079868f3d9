// Package geo handles geographic data structures and coordinate conversions.
package geo

import "math"

// EarthRadiusM is the mean Earth radius in meters.
const EarthRadiusM = 6371000.0

// KmPerDegree is the approximate great-circle length of one degree of
// latitude in kilometers.
const KmPerDegree = 111.32

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point lies in the WGS84 coordinate range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Region is a latitude/longitude bounding box around a center point.
type Region struct {
	Center Point
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// Contains reports whether the point lies inside the bounding box.
func (r Region) Contains(p Point) bool {
	return p.Lat >= r.MinLat && p.Lat <= r.MaxLat &&
		p.Lon >= r.MinLon && p.Lon <= r.MaxLon
}

// LonSpan returns the longitude extent of the region in degrees.
func (r Region) LonSpan() float64 {
	return r.MaxLon - r.MinLon
}

// RegionFromRadius builds a bounding box enclosing every point within
// radiusKm of the center. The longitude delta is scaled by the cosine of
// the center latitude so the box never under-covers away from the equator;
// the cosine is clamped so near-polar centers over-fetch instead of
// producing an unbounded span.
func RegionFromRadius(center Point, radiusKm float64) Region {
	latDelta := radiusKm / KmPerDegree

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDelta := radiusKm / (KmPerDegree * cosLat)

	// Keep the box inside the valid coordinate ranges: Overpass rejects
	// bounding boxes reaching past the antimeridian or the poles.
	return Region{
		Center: center,
		MinLat: math.Max(center.Lat-latDelta, -90),
		MinLon: math.Max(center.Lon-lonDelta, -180),
		MaxLat: math.Min(center.Lat+latDelta, 90),
		MaxLon: math.Min(center.Lon+lonDelta, 180),
	}
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * EarthRadiusM * math.Asin(math.Sqrt(h))
}
