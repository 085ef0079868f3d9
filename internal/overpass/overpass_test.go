package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/woozymasta/osmposter/internal/geo"
)

var testRegion = geo.RegionFromRadius(geo.Point{Lat: 37.3382, Lon: -121.8863}, 20)

func TestCategoryQuery_SelectsByCategory(t *testing.T) {
	roads := categoryQuery(testRegion, CategoryRoads)
	if !strings.Contains(roads, `way["highway"]`) {
		t.Errorf("roads query missing highway selector: %s", roads)
	}

	water := categoryQuery(testRegion, CategoryWater)
	if !strings.Contains(water, `"natural"="water"`) || !strings.Contains(water, "relation") {
		t.Errorf("water query missing selectors: %s", water)
	}

	parks := categoryQuery(testRegion, CategoryParks)
	if !strings.Contains(parks, `"leisure"="park"`) {
		t.Errorf("parks query missing selector: %s", parks)
	}
}

func TestFetch_DecodesWayGeometry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if !strings.Contains(r.Form.Get("data"), "out geom") {
			t.Errorf("query missing out geom: %s", r.Form.Get("data"))
		}
		_, _ = w.Write([]byte(`{"elements":[
			{"type":"way","id":1,"tags":{"highway":"residential"},
			 "geometry":[{"lat":37.33,"lon":-121.89},{"lat":37.34,"lon":-121.88}]},
			{"type":"way","id":2,"tags":{"leisure":"park"},
			 "geometry":[{"lat":37.3,"lon":-121.9},{"lat":37.3,"lon":-121.8},{"lat":37.4,"lon":-121.8},{"lat":37.3,"lon":-121.9}]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	features, err := c.Fetch(context.Background(), testRegion, CategoryRoads)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("got %d features, want 2", len(features))
	}

	if features[0].Geometry.Kind != geo.KindLine {
		t.Errorf("open way decoded as %v, want line", features[0].Geometry.Kind)
	}
	if features[0].Tags["highway"] != "residential" {
		t.Errorf("tags = %v", features[0].Tags)
	}

	if features[1].Geometry.Kind != geo.KindPolygon {
		t.Errorf("closed way decoded as %v, want polygon", features[1].Geometry.Kind)
	}
	if len(features[1].Geometry.Points) != 3 {
		t.Errorf("closing point not trimmed: %d points", len(features[1].Geometry.Points))
	}
}

func TestFetch_DecodesRelationOuterRings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[
			{"type":"relation","id":7,"tags":{"natural":"water"},"members":[
				{"type":"way","role":"outer","geometry":[{"lat":1,"lon":1},{"lat":1,"lon":2},{"lat":2,"lon":2},{"lat":1,"lon":1}]},
				{"type":"way","role":"inner","geometry":[{"lat":1.2,"lon":1.2},{"lat":1.2,"lon":1.4},{"lat":1.4,"lon":1.4}]}
			]}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	features, err := c.Fetch(context.Background(), testRegion, CategoryWater)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("got %d features, want 1 (outer ring only)", len(features))
	}
	if features[0].Geometry.Kind != geo.KindPolygon {
		t.Errorf("kind = %v, want polygon", features[0].Geometry.Kind)
	}
	if features[0].Tags["natural"] != "water" {
		t.Errorf("tags = %v", features[0].Tags)
	}
}

func TestFetch_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	features, err := c.Fetch(context.Background(), testRegion, CategoryParks)
	if err != nil {
		t.Fatalf("empty result should not error: %v", err)
	}
	if len(features) != 0 {
		t.Errorf("got %d features", len(features))
	}
}

func TestFetch_ServerFailureIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	if _, err := c.Fetch(context.Background(), testRegion, CategoryRoads); err == nil {
		t.Fatal("want error on status 429")
	}
}
