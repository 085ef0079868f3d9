package geo

import "math"

// Projector converts geographic coordinates to a planar frame centered on
// its origin using an azimuthal equidistant projection. Distances from the
// origin are exact and distances between nearby points stay well within 1%
// over poster-scale radii.
type Projector struct {
	origin  Point
	sinLat0 float64
	cosLat0 float64
	lon0    float64
}

// NewProjector returns a projector whose origin maps to (0, 0).
func NewProjector(origin Point) *Projector {
	lat0 := origin.Lat * math.Pi / 180

	return &Projector{
		origin:  origin,
		sinLat0: math.Sin(lat0),
		cosLat0: math.Cos(lat0),
		lon0:    origin.Lon * math.Pi / 180,
	}
}

// Origin returns the geographic center of the planar frame.
func (p *Projector) Origin() Point {
	return p.origin
}

// Project maps a geographic point to planar meters relative to the origin.
func (p *Projector) Project(pt Point) PlanePoint {
	lat := pt.Lat * math.Pi / 180
	dLon := pt.Lon*math.Pi/180 - p.lon0

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	cosDLon := math.Cos(dLon)

	cosC := p.sinLat0*sinLat + p.cosLat0*cosLat*cosDLon
	if cosC > 1 {
		cosC = 1
	} else if cosC < -1 {
		cosC = -1
	}
	c := math.Acos(cosC)

	// k -> 1 as the angular distance approaches zero
	k := 1.0
	if c > 1e-12 {
		k = c / math.Sin(c)
	}

	return PlanePoint{
		X: EarthRadiusM * k * cosLat * math.Sin(dLon),
		Y: EarthRadiusM * k * (p.cosLat0*sinLat - p.sinLat0*cosLat*cosDLon),
	}
}

// ProjectGeometry projects every point of a geometry. The result keeps the
// source kind and point order.
func (p *Projector) ProjectGeometry(g Geometry) PlaneGeometry {
	pts := make([]PlanePoint, len(g.Points))
	for i, pt := range g.Points {
		pts[i] = p.Project(pt)
	}

	return PlaneGeometry{Kind: g.Kind, Points: pts}
}
