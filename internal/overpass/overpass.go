// Package overpass fetches tagged OpenStreetMap geometry for a bounding
// region through the Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/woozymasta/osmposter/internal/geo"

	"github.com/rs/zerolog/log"
)

// DefaultEndpoint is the public Overpass API interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// Category selects one feature class to fetch.
type Category string

const (
	CategoryRoads Category = "roads"
	CategoryWater Category = "water"
	CategoryParks Category = "parks"
)

// Categories lists every fetchable category in a fixed order.
var Categories = []Category{CategoryRoads, CategoryWater, CategoryParks}

// Feature is one tagged geometry as returned by the repository.
// It is owned transiently per run and never persisted.
type Feature struct {
	Geometry geo.Geometry
	Tags     map[string]string
}

// Repository returns raw tagged geometry intersecting a bounding region.
// An empty list is a valid result; a service failure is an error.
type Repository interface {
	Fetch(ctx context.Context, region geo.Region, category Category) ([]Feature, error)
}

// FetchError reports that every feature category failed to fetch.
type FetchError struct {
	Errs []error
}

func (e *FetchError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "all feature categories failed: " + strings.Join(msgs, "; ")
}

// Client is a Repository backed by the Overpass API.
type Client struct {
	Client   *http.Client
	Endpoint string
}

// NewClient returns an Overpass client. An empty endpoint falls back to
// the public interpreter.
func NewClient(client *http.Client, endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{Client: client, Endpoint: endpoint}
}

type element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      float64           `json:"lat,omitempty"`
	Lon      float64           `json:"lon,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
	Geometry []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geometry,omitempty"`
	Members []struct {
		Type     string `json:"type"`
		Role     string `json:"role"`
		Geometry []struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"geometry,omitempty"`
	} `json:"members,omitempty"`
}

type response struct {
	Elements []element `json:"elements"`
}

// categoryQuery returns the Overpass QL body for a category and bbox.
func categoryQuery(region geo.Region, category Category) string {
	bbox := fmt.Sprintf("(%f,%f,%f,%f)", region.MinLat, region.MinLon, region.MaxLat, region.MaxLon)

	var body string
	switch category {
	case CategoryRoads:
		body = fmt.Sprintf(`way["highway"]%s;`, bbox)
	case CategoryWater:
		body = fmt.Sprintf(`way["natural"="water"]%s;relation["natural"="water"]%s;`, bbox, bbox)
	case CategoryParks:
		body = fmt.Sprintf(`way["leisure"="park"]%s;way["landuse"~"grass|forest|meadow|recreation_ground"]%s;`, bbox, bbox)
	}

	return fmt.Sprintf("[out:json][timeout:90];(%s);out geom;", body)
}

// Fetch runs one Overpass query for the category and converts the result
// into tagged geometry. The three categories are independent; callers may
// fetch them concurrently.
func (c *Client) Fetch(ctx context.Context, region geo.Region, category Category) ([]Feature, error) {
	query := categoryQuery(region, category)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint,
		strings.NewReader(url.Values{"data": {query}}.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", category, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", category, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%s: status %d", category, resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%s: %w", category, err)
	}

	features := convertElements(decoded.Elements)

	log.Debug().
		Str("category", string(category)).
		Int("elements", len(decoded.Elements)).
		Int("features", len(features)).
		Msg("Category fetched")

	return features, nil
}

// convertElements maps Overpass elements onto geometry variants. Nodes
// become points, open ways lines, closed ways polygons, and relation
// outer rings individual polygons sharing the relation tags.
func convertElements(elements []element) []Feature {
	var features []Feature

	for _, el := range elements {
		switch el.Type {
		case "node":
			features = append(features, Feature{
				Geometry: geo.Geometry{Kind: geo.KindPoint, Points: []geo.Point{{Lat: el.Lat, Lon: el.Lon}}},
				Tags:     el.Tags,
			})

		case "way":
			points := make([]geo.Point, len(el.Geometry))
			for i, p := range el.Geometry {
				points[i] = geo.Point{Lat: p.Lat, Lon: p.Lon}
			}

			kind := geo.KindLine
			if len(points) >= 4 && points[0] == points[len(points)-1] {
				kind = geo.KindPolygon
				points = points[:len(points)-1]
			}

			features = append(features, Feature{
				Geometry: geo.Geometry{Kind: kind, Points: points},
				Tags:     el.Tags,
			})

		case "relation":
			for _, m := range el.Members {
				if m.Type != "way" || m.Role != "outer" || len(m.Geometry) < 3 {
					continue
				}
				points := make([]geo.Point, len(m.Geometry))
				for i, p := range m.Geometry {
					points[i] = geo.Point{Lat: p.Lat, Lon: p.Lon}
				}
				if points[0] == points[len(points)-1] {
					points = points[:len(points)-1]
				}

				features = append(features, Feature{
					Geometry: geo.Geometry{Kind: geo.KindPolygon, Points: points},
					Tags:     el.Tags,
				})
			}
		}
	}

	return features
}
