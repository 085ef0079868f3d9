package geo

// GeometryKind discriminates the geometry variants shared by the pipeline.
type GeometryKind int

const (
	KindPoint GeometryKind = iota
	KindLine
	KindPolygon
)

// String returns the GeoJSON name of the geometry kind.
func (k GeometryKind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLine:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	}
	return "Unknown"
}

// Geometry is a tagged geometry variant: a single point, an open line
// or a closed ring, as an ordered point sequence.
type Geometry struct {
	Kind   GeometryKind
	Points []Point
}

// Valid reports whether the geometry has enough points for its kind.
// Degenerate geometries are dropped by callers, never treated as errors.
func (g Geometry) Valid() bool {
	switch g.Kind {
	case KindPoint:
		return len(g.Points) == 1
	case KindLine:
		return len(g.Points) >= 2
	case KindPolygon:
		return len(g.Points) >= 3
	}
	return false
}

// PlanePoint is a planar coordinate in meters relative to the projection
// origin, x growing east and y growing north.
type PlanePoint struct {
	X float64
	Y float64
}

// PlaneGeometry is a geometry projected into the planar frame.
type PlaneGeometry struct {
	Kind   GeometryKind
	Points []PlanePoint
}
