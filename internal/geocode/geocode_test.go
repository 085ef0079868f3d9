package geocode

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolve_ReturnsFirstMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "San Jose, California" {
			t.Errorf("query = %q", got)
		}
		_, _ = w.Write([]byte(`[{"lat":"37.3382","lon":"-121.8863","display_name":"San Jose"}]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.Client(), srv.URL)
	p, err := g.Resolve(context.Background(), "San Jose, California")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if math.Abs(p.Lat-37.3382) > 1e-9 || math.Abs(p.Lon+121.8863) > 1e-9 {
		t.Errorf("got (%f, %f)", p.Lat, p.Lon)
	}
}

func TestResolve_NoMatchIsResolutionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.Client(), srv.URL)
	_, err := g.Resolve(context.Background(), "Nowhereville Fictional")

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("want ResolutionError, got %v", err)
	}
}

func TestResolve_ServerErrorIsResolutionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewNominatim(srv.Client(), srv.URL)
	_, err := g.Resolve(context.Background(), "Paris")

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("want ResolutionError, got %v", err)
	}
}

func TestResolve_RejectsOutOfRangeCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"lat":"95.0","lon":"10.0"}]`))
	}))
	defer srv.Close()

	g := NewNominatim(srv.Client(), srv.URL)
	if _, err := g.Resolve(context.Background(), "Broken"); err == nil {
		t.Fatal("expected error for latitude 95")
	}
}
