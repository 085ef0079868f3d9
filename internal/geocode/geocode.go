// Package geocode resolves free-text place names to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/woozymasta/osmposter/internal/geo"

	"github.com/rs/zerolog/log"
)

// DefaultEndpoint is the public Nominatim search API.
const DefaultEndpoint = "https://nominatim.openstreetmap.org/search"

const userAgent = "osmposter/1.0 (+https://github.com/woozymasta/osmposter)"

// Geocoder resolves a place name to a geographic point.
type Geocoder interface {
	Resolve(ctx context.Context, name string) (geo.Point, error)
}

// ResolutionError reports an unresolvable place name or invalid request.
type ResolutionError struct {
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("could not resolve %q", e.Name)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Nominatim is a Geocoder backed by the Nominatim search API.
type Nominatim struct {
	Client   *http.Client
	Endpoint string
}

// NewNominatim returns a geocoder using the given client and endpoint.
// An empty endpoint falls back to the public API.
func NewNominatim(client *http.Client, endpoint string) *Nominatim {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Nominatim{Client: client, Endpoint: endpoint}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve looks up the place name and returns the best match.
// A name with no match yields a ResolutionError, not an empty point.
func (n *Nominatim) Resolve(ctx context.Context, name string) (geo.Point, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return geo.Point{}, &ResolutionError{Name: name, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.Client.Do(req)
	if err != nil {
		return geo.Point{}, &ResolutionError{Name: name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return geo.Point{}, &ResolutionError{Name: name, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Point{}, &ResolutionError{Name: name, Err: err}
	}
	if len(results) == 0 {
		return geo.Point{}, &ResolutionError{Name: name}
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Point{}, &ResolutionError{Name: name, Err: err}
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Point{}, &ResolutionError{Name: name, Err: err}
	}

	point := geo.Point{Lat: lat, Lon: lon}
	if !point.Valid() {
		return geo.Point{}, &ResolutionError{Name: name, Err: fmt.Errorf("coordinates out of range: %f, %f", lat, lon)}
	}

	log.Debug().
		Str("name", name).
		Str("match", results[0].DisplayName).
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("Place resolved")

	return point, nil
}
