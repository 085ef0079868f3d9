// Package poster orchestrates one poster run: resolve, fetch, classify,
// project, compose, label, write.
package poster

import (
	"context"
	"fmt"

	"github.com/woozymasta/osmposter/internal/geo"
	"github.com/woozymasta/osmposter/internal/geocode"
	"github.com/woozymasta/osmposter/internal/layers"
	"github.com/woozymasta/osmposter/internal/overpass"
	"github.com/woozymasta/osmposter/internal/render"
	"github.com/woozymasta/osmposter/internal/theme"

	"github.com/rs/zerolog/log"
)

// Options selects what to render for a single invocation.
type Options struct {
	Place    string
	RadiusKm float64
	DPI      int
	Output   string

	Label    string
	Region   string
	NoLabels bool

	// GeoJSON, when set, additionally dumps the classified features to
	// this path as minified GeoJSON.
	GeoJSON string
}

// Pipeline holds the external collaborators of one run. Both network
// dependencies sit behind narrow interfaces so tests can use fakes.
type Pipeline struct {
	Geocoder geocode.Geocoder
	Repo     overpass.Repository
	Theme    *theme.Theme
}

// fetchResult carries one category fetch back from its goroutine.
type fetchResult struct {
	category overpass.Category
	features []overpass.Feature
	err      error
}

// Run executes the full pipeline. A failed fetch for one or two
// categories degrades to empty layers; all three failing is fatal.
// No output file is created before the very last step.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	if opts.RadiusKm <= 0 {
		return &geocode.ResolutionError{Name: opts.Place, Err: fmt.Errorf("radius must be positive, got %f", opts.RadiusKm)}
	}

	center, err := p.Geocoder.Resolve(ctx, opts.Place)
	if err != nil {
		return err
	}

	region := geo.RegionFromRadius(center, opts.RadiusKm)

	log.Info().
		Str("place", opts.Place).
		Float64("lat", center.Lat).
		Float64("lon", center.Lon).
		Float64("radius_km", opts.RadiusKm).
		Msg("Area resolved")

	features, err := p.fetchAll(ctx, region)
	if err != nil {
		return err
	}

	set := layers.Classify(features)

	if opts.GeoJSON != "" {
		if err := writeGeoJSON(opts.GeoJSON, set); err != nil {
			log.Error().Err(err).Str("path", opts.GeoJSON).Msg("Failed to write GeoJSON dump")
		}
	}

	projected := set.Project(geo.NewProjector(center))

	canvas := render.NewCanvas(opts.DPI, opts.RadiusKm, p.Theme.Background.NRGBA)

	comp := &render.Compositor{Theme: p.Theme}
	comp.Compose(canvas, projected)

	if !opts.NoLabels {
		labels := &render.Labels{
			Theme:  p.Theme,
			Title:  opts.Label,
			Region: opts.Region,
			Center: center,
		}
		if err := labels.Draw(canvas); err != nil {
			return err
		}
	}

	return render.Write(canvas, opts.Output)
}

// fetchAll issues the three category fetches concurrently. The categories
// are independent and classification is keyed by tag, so completion order
// does not affect the output: results are reassembled in the fixed
// category order before classification.
func (p *Pipeline) fetchAll(ctx context.Context, region geo.Region) ([]overpass.Feature, error) {
	results := make(chan fetchResult, len(overpass.Categories))

	for _, category := range overpass.Categories {
		go func(category overpass.Category) {
			features, err := p.Repo.Fetch(ctx, region, category)
			results <- fetchResult{category: category, features: features, err: err}
		}(category)
	}

	byCategory := make(map[overpass.Category][]overpass.Feature, len(overpass.Categories))
	var errs []error

	for range overpass.Categories {
		res := <-results
		if res.err != nil {
			log.Warn().
				Err(res.err).
				Str("category", string(res.category)).
				Msg("Category fetch failed, rendering empty layer")
			errs = append(errs, res.err)
			continue
		}
		byCategory[res.category] = res.features
	}

	if len(errs) == len(overpass.Categories) {
		return nil, &overpass.FetchError{Errs: errs}
	}

	var features []overpass.Feature
	for _, category := range overpass.Categories {
		features = append(features, byCategory[category]...)
	}

	return features, nil
}
