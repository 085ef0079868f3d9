package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties"`
	Type       string                 `json:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature. Coordinates nest by
// type: [lon, lat] for Point, a list of positions for LineString, a list of
// rings for Polygon.
type GeoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// ToGeoJSON converts a geometry and its properties into a GeoJSON feature.
func ToGeoJSON(g Geometry, props map[string]interface{}) GeoJSONFeature {
	positions := make([][]float64, len(g.Points))
	for i, p := range g.Points {
		positions[i] = []float64{p.Lon, p.Lat}
	}

	var coords interface{}
	switch g.Kind {
	case KindPoint:
		coords = positions[0]
	case KindPolygon:
		coords = [][][]float64{positions}
	default:
		coords = positions
	}

	return GeoJSONFeature{
		Type:       "Feature",
		Properties: props,
		Geometry: GeoJSONGeometry{
			Type:        g.Kind.String(),
			Coordinates: coords,
		},
	}
}
