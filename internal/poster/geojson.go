package poster

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/woozymasta/osmposter/internal/geo"
	"github.com/woozymasta/osmposter/internal/layers"

	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
)

// writeGeoJSON dumps the classified features as a minified GeoJSON
// FeatureCollection, layer by layer in z-order.
func writeGeoJSON(path string, set layers.Set) error {
	fc := geo.GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: []geo.GeoJSONFeature{},
	}

	for _, kind := range layers.Kinds {
		for _, f := range set[kind].Features {
			if !f.Geometry.Valid() {
				continue
			}
			props := map[string]interface{}{"layer": kind.String()}
			for k, v := range f.Tags {
				props[k] = v
			}
			fc.Features = append(fc.Features, geo.ToGeoJSON(f.Geometry, props))
		}
	}

	raw, err := json.Marshal(fc)
	if err != nil {
		return err
	}

	m := minify.New()
	m.AddFunc("application/json", minjson.Minify)

	var buf bytes.Buffer
	if err := m.Minify("application/json", &buf, bytes.NewReader(raw)); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
