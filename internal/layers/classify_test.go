package layers

import (
	"reflect"
	"testing"

	"github.com/woozymasta/osmposter/internal/geo"
	"github.com/woozymasta/osmposter/internal/overpass"
)

func lineFeature(tags map[string]string) overpass.Feature {
	return overpass.Feature{
		Geometry: geo.Geometry{Kind: geo.KindLine, Points: []geo.Point{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}},
		Tags:     tags,
	}
}

func polygonFeature(tags map[string]string) overpass.Feature {
	return overpass.Feature{
		Geometry: geo.Geometry{Kind: geo.KindPolygon, Points: []geo.Point{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}},
		Tags:     tags,
	}
}

func TestClassify_ByTag(t *testing.T) {
	set := Classify([]overpass.Feature{
		lineFeature(map[string]string{"highway": "primary"}),
		polygonFeature(map[string]string{"natural": "water"}),
		polygonFeature(map[string]string{"leisure": "park"}),
		polygonFeature(map[string]string{"landuse": "forest"}),
	})

	if got := len(set[Roads].Features); got != 1 {
		t.Errorf("roads = %d, want 1", got)
	}
	if got := len(set[Water].Features); got != 1 {
		t.Errorf("water = %d, want 1", got)
	}
	if got := len(set[Parks].Features); got != 2 {
		t.Errorf("parks = %d, want 2", got)
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// A footway through a park carries both tags and must land in parks only.
	set := Classify([]overpass.Feature{
		lineFeature(map[string]string{"leisure": "park", "highway": "footway"}),
		polygonFeature(map[string]string{"natural": "water", "leisure": "park"}),
	})

	if got := len(set[Parks].Features); got != 1 {
		t.Errorf("parks = %d, want 1", got)
	}
	if got := len(set[Water].Features); got != 1 {
		t.Errorf("water = %d, want 1", got)
	}
	if got := len(set[Roads].Features); got != 0 {
		t.Errorf("roads = %d, want 0 (multi-tag feature must not render twice)", got)
	}
}

func TestClassify_DropsUnmatchedSilently(t *testing.T) {
	set := Classify([]overpass.Feature{
		lineFeature(map[string]string{"power": "line"}),
		polygonFeature(map[string]string{"building": "yes"}),
	})

	for _, kind := range Kinds {
		if got := len(set[kind].Features); got != 0 {
			t.Errorf("%s = %d, want 0", kind, got)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	input := []overpass.Feature{
		lineFeature(map[string]string{"highway": "residential"}),
		lineFeature(map[string]string{"highway": "motorway"}),
		polygonFeature(map[string]string{"natural": "water"}),
		polygonFeature(map[string]string{"leisure": "garden"}),
	}

	first := Classify(input)
	second := Classify(input)

	if !reflect.DeepEqual(first, second) {
		t.Error("classification differs between identical runs")
	}
}

func TestClassify_PreservesSourceOrder(t *testing.T) {
	input := []overpass.Feature{
		lineFeature(map[string]string{"highway": "motorway", "name": "first"}),
		lineFeature(map[string]string{"highway": "residential", "name": "second"}),
		lineFeature(map[string]string{"highway": "footway", "name": "third"}),
	}

	set := Classify(input)
	roads := set[Roads].Features
	if len(roads) != 3 {
		t.Fatalf("roads = %d, want 3", len(roads))
	}
	for i, want := range []string{"first", "second", "third"} {
		if roads[i].Tags["name"] != want {
			t.Errorf("roads[%d] = %q, want %q", i, roads[i].Tags["name"], want)
		}
	}
}

func TestClassify_EmptyRoadsLayerIsNotAnError(t *testing.T) {
	set := Classify([]overpass.Feature{
		polygonFeature(map[string]string{"natural": "water"}),
	})

	if set[Roads].Features != nil && len(set[Roads].Features) != 0 {
		t.Errorf("roads layer not empty: %d", len(set[Roads].Features))
	}
	if set[Roads].Kind != Roads {
		t.Errorf("empty layer lost its kind: %v", set[Roads].Kind)
	}
}

func TestProject_DropsDegenerateGeometry(t *testing.T) {
	set := Classify([]overpass.Feature{
		lineFeature(map[string]string{"highway": "primary"}),
		{
			Geometry: geo.Geometry{Kind: geo.KindLine, Points: []geo.Point{{Lat: 1, Lon: 1}}},
			Tags:     map[string]string{"highway": "primary"},
		},
	})

	projected := set.Project(geo.NewProjector(geo.Point{Lat: 1, Lon: 1}))
	if got := len(projected[Roads].Features); got != 1 {
		t.Errorf("projected roads = %d, want 1 (degenerate line dropped)", got)
	}
}
